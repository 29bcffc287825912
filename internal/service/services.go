package service

import (
	"direct_chat/internal/config"
	"direct_chat/internal/repository"
	"direct_chat/pkg/logger"
)

type Services struct {
	Auth         AuthService
	Conversation ConversationService
	Message      MessageService
	RateLimit    RateLimitService
}

func NewServices(repos *repository.Repositories, cfg *config.Config, broadcaster MessageBroadcaster, log logger.Logger) *Services {
	return &Services{
		Auth:         NewAuthService(repos.User, cfg.JWT, log),
		Conversation: NewConversationService(repos.Conversation, log),
		Message:      NewMessageService(repos.Message, repos.Conversation, broadcaster, log),
		RateLimit:    NewRateLimitService(repos.RateLimit, log),
	}
}
