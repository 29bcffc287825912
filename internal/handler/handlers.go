package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"direct_chat/internal/realtime"
	"direct_chat/internal/service"
	apperrors "direct_chat/pkg/errors"
	"direct_chat/pkg/logger"
)

type Handlers struct {
	Health       *HealthHandler
	Auth         *AuthHandler
	User         *UserHandler
	Conversation *ConversationHandler
	Message      *MessageHandler
	WebSocket    *WebSocketHandler
}

func NewHandlers(services *service.Services, hub *realtime.Hub, log logger.Logger) *Handlers {
	return &Handlers{
		Health:       NewHealthHandler(),
		Auth:         NewAuthHandler(services.Auth, log),
		User:         NewUserHandler(),
		Conversation: NewConversationHandler(services.Conversation, log),
		Message:      NewMessageHandler(services.Message, log),
		WebSocket:    NewWebSocketHandler(services.Auth, hub, log),
	}
}

// respondError — единый маппинг ошибок сервисов в HTTP ответ.
// Для 500 наружу уходит только общий текст, детали остаются в логах
func respondError(c *gin.Context, err error) {
	statusCode := apperrors.HTTPStatusFromError(err)
	message := err.Error()
	if statusCode == http.StatusInternalServerError {
		message = "Server error"
	}
	c.JSON(statusCode, gin.H{"error": message})
}
