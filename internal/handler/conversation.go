package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"direct_chat/internal/middleware"
	"direct_chat/internal/service"
	"direct_chat/pkg/logger"
)

type ConversationHandler struct {
	conversationService service.ConversationService
	log                 logger.Logger
}

func NewConversationHandler(conversationService service.ConversationService, log logger.Logger) *ConversationHandler {
	return &ConversationHandler{
		conversationService: conversationService,
		log:                 log,
	}
}

type CreateConversationRequest struct {
	RecipientID int64 `json:"recipient_id" binding:"required"`
}

// Create — get-or-create беседы с получателем.
// 201 если беседа создана, 200 если уже существовала
func (h *ConversationHandler) Create(c *gin.Context) {
	userID, _, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req CreateConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Recipient ID is required"})
		return
	}

	conv, created, err := h.conversationService.GetOrCreate(c.Request.Context(), userID, req.RecipientID)
	if err != nil {
		respondError(c, err)
		return
	}

	if !created {
		c.JSON(http.StatusOK, gin.H{
			"message":         "Conversation already exists",
			"conversation_id": conv.ID,
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":         "Conversation created successfully",
		"conversation_id": conv.ID,
	})
}
