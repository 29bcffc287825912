package realtime

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"direct_chat/pkg/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBufferSize = 64
)

// Client — одно живое WebSocket соединение аутентифицированного пользователя
type Client struct {
	ID       uuid.UUID
	UserID   int64
	Username string

	hub  *Hub
	conn *websocket.Conn
	send chan []byte
	log  logger.Logger

	closeOnce sync.Once
}

// inboundEvent — кадр от клиента: join_conversation / leave_conversation
type inboundEvent struct {
	Event          string `json:"event"`
	ConversationID int64  `json:"conversation_id"`
}

func NewClient(hub *Hub, conn *websocket.Conn, userID int64, username string, log logger.Logger) *Client {
	return &Client{
		ID:       uuid.New(),
		UserID:   userID,
		Username: username,
		hub:      hub,
		conn:     conn,
		send:     make(chan []byte, sendBufferSize),
		log:      log,
	}
}

// Run регистрирует соединение и запускает обе качалки
func (c *Client) Run() {
	c.hub.Register(c)
	go c.writePump()
	go c.readPump()
}

func (c *Client) close() {
	c.closeOnce.Do(func() {
		close(c.send)
	})
}

func (c *Client) readPump() {
	defer func() {
		c.hub.Disconnect(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Warn("Unexpected close", "connection_id", c.ID, "error", err)
			}
			return
		}

		var evt inboundEvent
		if err := json.Unmarshal(raw, &evt); err != nil {
			c.log.Debug("Ignoring malformed frame", "connection_id", c.ID, "error", err)
			continue
		}

		switch evt.Event {
		case EventJoinConversation:
			c.hub.Join(c, evt.ConversationID)
		case EventLeaveConversation:
			c.hub.Leave(c, evt.ConversationID)
		default:
			c.log.Debug("Ignoring unknown event", "connection_id", c.ID, "event", evt.Event)
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub закрыл канал
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
