package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"direct_chat/internal/realtime"
	"direct_chat/internal/service"
	"direct_chat/pkg/logger"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // В продакшене нужно проверять origin
	},
}

type WebSocketHandler struct {
	authService service.AuthService
	hub         *realtime.Hub
	log         logger.Logger
}

func NewWebSocketHandler(authService service.AuthService, hub *realtime.Hub, log logger.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		authService: authService,
		hub:         hub,
		log:         log,
	}
}

// HandleConnection аутентифицирует клиента и поднимает WebSocket.
// Токен берётся из query (?token=...) либо из заголовка Authorization —
// браузерный WebSocket API не умеет выставлять заголовки
func (h *WebSocketHandler) HandleConnection(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		authHeader := c.GetHeader("Authorization")
		token = strings.TrimPrefix(authHeader, "Bearer ")
	}
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization token required"})
		return
	}

	claims, err := h.authService.ValidateToken(token)
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "Invalid or expired token"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error("Failed to upgrade connection", "error", err)
		return
	}

	client := realtime.NewClient(h.hub, conn, claims.UserID, claims.Username, h.log)
	h.log.Info("WebSocket client connected", "connection_id", client.ID, "user_id", claims.UserID)
	client.Run()
}
