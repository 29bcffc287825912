package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"direct_chat/internal/domain"
	"direct_chat/pkg/logger"
)

type MessageRepository interface {
	Create(ctx context.Context, message *domain.Message) error
	ListByConversation(ctx context.Context, conversationID int64) ([]*domain.Message, error)
}

type messageRepository struct {
	db  *pgxpool.Pool
	log logger.Logger
}

func NewMessageRepository(db *pgxpool.Pool, log logger.Logger) MessageRepository {
	return &messageRepository{db: db, log: log}
}

func (r *messageRepository) Create(ctx context.Context, message *domain.Message) error {
	// id и sent_at присваивает сервер
	query := `
		INSERT INTO messages (conversation_id, sender_id, message_text)
		VALUES ($1, $2, $3)
		RETURNING id, sent_at
	`

	err := r.db.QueryRow(ctx, query,
		message.ConversationID, message.SenderID, message.Text,
	).Scan(&message.ID, &message.SentAt)

	if err != nil {
		r.log.Error("Failed to create message", "error", err, "conversation_id", message.ConversationID)
		return err
	}

	return nil
}

func (r *messageRepository) ListByConversation(ctx context.Context, conversationID int64) ([]*domain.Message, error) {
	// Порядок по sent_at, при равенстве — по порядку вставки (id)
	query := `
		SELECT m.id, m.conversation_id, m.sender_id, m.message_text, m.sent_at, u.username AS sender_username
		FROM messages AS m
		JOIN users AS u ON m.sender_id = u.id
		WHERE m.conversation_id = $1
		ORDER BY m.sent_at ASC, m.id ASC
	`

	rows, err := r.db.Query(ctx, query, conversationID)
	if err != nil {
		r.log.Error("Failed to list messages", "error", err, "conversation_id", conversationID)
		return nil, err
	}
	defer rows.Close()

	messages := make([]*domain.Message, 0)
	for rows.Next() {
		message := &domain.Message{}
		err := rows.Scan(
			&message.ID, &message.ConversationID, &message.SenderID,
			&message.Text, &message.SentAt, &message.SenderUsername,
		)
		if err != nil {
			r.log.Error("Failed to scan message", "error", err)
			return nil, err
		}
		messages = append(messages, message)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return messages, nil
}
