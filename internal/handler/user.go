package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"direct_chat/internal/middleware"
)

type UserHandler struct{}

func NewUserHandler() *UserHandler {
	return &UserHandler{}
}

// GetMe возвращает claims аутентифицированного пользователя
func (h *UserHandler) GetMe(c *gin.Context) {
	userID, username, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Welcome, %s!", username),
		"user": gin.H{
			"id":       userID,
			"username": username,
		},
	})
}
