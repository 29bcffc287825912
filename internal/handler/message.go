package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"direct_chat/internal/middleware"
	"direct_chat/internal/service"
	"direct_chat/pkg/logger"
)

type MessageHandler struct {
	messageService service.MessageService
	log            logger.Logger
}

func NewMessageHandler(messageService service.MessageService, log logger.Logger) *MessageHandler {
	return &MessageHandler{
		messageService: messageService,
		log:            log,
	}
}

type SendMessageRequest struct {
	ConversationID int64  `json:"conversation_id" binding:"required"`
	MessageText    string `json:"message_text" binding:"required"`
}

func (h *MessageHandler) Send(c *gin.Context) {
	userID, username, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Conversation ID and message text are required"})
		return
	}

	message, err := h.messageService.Send(c.Request.Context(), req.ConversationID, userID, username, req.MessageText)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":      "Message sent successfully",
		"sent_message": message,
	})
}

func (h *MessageHandler) List(c *gin.Context) {
	userID, _, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	conversationID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid conversation ID"})
		return
	}

	messages, err := h.messageService.List(c.Request.Context(), conversationID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, messages)
}
