package service

import (
	"context"
	"strings"

	"direct_chat/internal/domain"
	"direct_chat/internal/repository"
	apperrors "direct_chat/pkg/errors"
	"direct_chat/pkg/logger"
)

// MessageBroadcaster — fan-out сохранённого сообщения подписчикам комнаты.
// Реализуется realtime.Hub; интерфейс на стороне потребителя ради тестов.
type MessageBroadcaster interface {
	Publish(conversationID int64, message *domain.Message)
}

type MessageService interface {
	// Send проверяет членство отправителя, сохраняет сообщение и рассылает
	// его в комнату беседы. Рассылка — после успешного сохранения.
	Send(ctx context.Context, conversationID, senderID int64, senderUsername, text string) (*domain.Message, error)
	// List проверяет членство запрашивающего и возвращает все сообщения
	// беседы по возрастанию (sent_at, порядок вставки)
	List(ctx context.Context, conversationID, requesterID int64) ([]*domain.Message, error)
}

type messageService struct {
	messageRepo      repository.MessageRepository
	conversationRepo repository.ConversationRepository
	broadcaster      MessageBroadcaster
	log              logger.Logger
}

func NewMessageService(
	messageRepo repository.MessageRepository,
	conversationRepo repository.ConversationRepository,
	broadcaster MessageBroadcaster,
	log logger.Logger,
) MessageService {
	return &messageService{
		messageRepo:      messageRepo,
		conversationRepo: conversationRepo,
		broadcaster:      broadcaster,
		log:              log,
	}
}

func (s *messageService) Send(ctx context.Context, conversationID, senderID int64, senderUsername, text string) (*domain.Message, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apperrors.ErrEmptyMessage
	}

	if err := s.authorize(ctx, senderID, conversationID); err != nil {
		return nil, err
	}

	message := &domain.Message{
		ConversationID: conversationID,
		SenderID:       senderID,
		Text:           text,
	}

	if err := s.messageRepo.Create(ctx, message); err != nil {
		return nil, err
	}

	message.SenderUsername = senderUsername

	// Fan-out строго после успешного сохранения; у рассылки нет канала
	// ошибок — неподписанные участники добирают историю через List
	s.broadcaster.Publish(conversationID, message)

	return message, nil
}

func (s *messageService) List(ctx context.Context, conversationID, requesterID int64) ([]*domain.Message, error) {
	if err := s.authorize(ctx, requesterID, conversationID); err != nil {
		return nil, err
	}

	return s.messageRepo.ListByConversation(ctx, conversationID)
}

// authorize — обязательная проверка членства перед записью и чтением.
// Отказ одинаков для чужой и для несуществующей беседы: по ответу нельзя
// прощупать, какие conversation_id существуют
func (s *messageService) authorize(ctx context.Context, userID, conversationID int64) error {
	ok, err := s.conversationRepo.IsParticipant(ctx, userID, conversationID)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.ErrForbidden
	}
	return nil
}
