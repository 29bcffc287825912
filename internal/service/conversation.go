package service

import (
	"context"

	"direct_chat/internal/domain"
	"direct_chat/internal/repository"
	apperrors "direct_chat/pkg/errors"
	"direct_chat/pkg/logger"
)

// ConversationService — справочник бесед: неупорядоченной паре пользователей
// соответствует ровно одна беседа
type ConversationService interface {
	// GetOrCreate идемпотентен и симметричен: (A,B) и (B,A) дают один id.
	// Второе значение — true, если беседа только что создана.
	GetOrCreate(ctx context.Context, requesterID, recipientID int64) (*domain.Conversation, bool, error)
}

type conversationService struct {
	conversationRepo repository.ConversationRepository
	log              logger.Logger
}

func NewConversationService(conversationRepo repository.ConversationRepository, log logger.Logger) ConversationService {
	return &conversationService{
		conversationRepo: conversationRepo,
		log:              log,
	}
}

func (s *conversationService) GetOrCreate(ctx context.Context, requesterID, recipientID int64) (*domain.Conversation, bool, error) {
	if recipientID <= 0 {
		return nil, false, apperrors.ErrBadRequest
	}
	if requesterID == recipientID {
		return nil, false, apperrors.ErrSelfConversation
	}

	conv, created, err := s.conversationRepo.GetOrCreate(ctx, requesterID, recipientID)
	if err != nil {
		return nil, false, err
	}

	if created {
		s.log.Info("Conversation created", "conversation_id", conv.ID, "user_min", conv.UserMin, "user_max", conv.UserMax)
	}

	return conv, created, nil
}
