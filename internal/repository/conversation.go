package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"direct_chat/internal/domain"
	"direct_chat/pkg/logger"
)

type ConversationRepository interface {
	// GetOrCreate возвращает беседу для неупорядоченной пары пользователей,
	// создавая её атомарно вместе с обеими записями участников.
	// Второе значение — true, если беседа была только что создана.
	GetOrCreate(ctx context.Context, userA, userB int64) (*domain.Conversation, bool, error)
	IsParticipant(ctx context.Context, userID, conversationID int64) (bool, error)
}

type conversationRepository struct {
	db  *pgxpool.Pool
	log logger.Logger
}

func NewConversationRepository(db *pgxpool.Pool, log logger.Logger) ConversationRepository {
	return &conversationRepository{db: db, log: log}
}

func (r *conversationRepository) GetOrCreate(ctx context.Context, userA, userB int64) (*domain.Conversation, bool, error) {
	userMin, userMax := domain.NormalizePair(userA, userB)

	tx, err := r.db.Begin(ctx)
	if err != nil {
		r.log.Error("Failed to begin transaction", "error", err)
		return nil, false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Дедупликация через уникальный индекс на (user_min, user_max).
	// DO UPDATE вместо DO NOTHING, чтобы при конфликте всё равно вернулась
	// строка (конкурирующая транзакция будет дождана, а не потеряна).
	// xmax = 0 означает, что строка именно вставлена, а не найдена.
	query := `
		INSERT INTO conversations (user_min, user_max)
		VALUES ($1, $2)
		ON CONFLICT (user_min, user_max) DO UPDATE SET user_min = EXCLUDED.user_min
		RETURNING id, created_at, (xmax = 0) AS created
	`

	conv := &domain.Conversation{UserMin: userMin, UserMax: userMax}
	var created bool
	err = tx.QueryRow(ctx, query, userMin, userMax).Scan(&conv.ID, &conv.CreatedAt, &created)
	if err != nil {
		r.log.Error("Failed to get or create conversation", "error", err)
		return nil, false, fmt.Errorf("failed to get or create conversation: %w", err)
	}

	if created {
		// Обе записи участников пишутся в той же транзакции: беседа без
		// ровно двух участников не должна быть наблюдаема извне
		_, err = tx.Exec(ctx,
			`INSERT INTO participants (user_id, conversation_id) VALUES ($1, $3), ($2, $3)`,
			userMin, userMax, conv.ID,
		)
		if err != nil {
			r.log.Error("Failed to create participants", "error", err, "conversation_id", conv.ID)
			return nil, false, fmt.Errorf("failed to create participants: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		r.log.Error("Failed to commit conversation", "error", err)
		return nil, false, fmt.Errorf("failed to commit conversation: %w", err)
	}

	return conv, created, nil
}

func (r *conversationRepository) IsParticipant(ctx context.Context, userID, conversationID int64) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM participants
			WHERE user_id = $1 AND conversation_id = $2
		)
	`

	var exists bool
	err := r.db.QueryRow(ctx, query, userID, conversationID).Scan(&exists)
	if err != nil {
		r.log.Error("Failed to check participant", "error", err)
		return false, err
	}

	return exists, nil
}
