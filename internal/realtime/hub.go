package realtime

import (
	"encoding/json"
	"sync"

	"direct_chat/internal/domain"
	"direct_chat/pkg/logger"
)

const (
	EventReceiveMessage    = "receive_message"
	EventJoinConversation  = "join_conversation"
	EventLeaveConversation = "leave_conversation"
)

// Envelope — кадр, уходящий подписчикам комнаты
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Hub — runtime-реестр комнат: conversation_id -> множество живых соединений.
// Подписки не переживают переподключение: клиент обязан заново отправить
// join_conversation после reconnect.
type Hub struct {
	log logger.Logger

	mu sync.RWMutex
	// conversation_id -> подписчики
	rooms map[int64]map[*Client]struct{}
	// обратный индекс для снятия подписок при disconnect
	clients map[*Client]map[int64]struct{}
	closed  bool
}

func NewHub(log logger.Logger) *Hub {
	return &Hub{
		log:     log,
		rooms:   make(map[int64]map[*Client]struct{}),
		clients: make(map[*Client]map[int64]struct{}),
	}
}

// Register добавляет соединение в реестр (ещё без подписок)
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		c.close()
		return
	}
	if _, ok := h.clients[c]; !ok {
		h.clients[c] = make(map[int64]struct{})
	}
}

// Join подписывает соединение на комнату беседы.
// Членство в беседе здесь сознательно не проверяется: границу описывает
// спецификация шлюза, ужесточение (проверка участия при join) — отдельное
// задокументированное решение, а не молчаливое изменение.
func (h *Hub) Join(c *Client, conversationID int64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	if _, ok := h.clients[c]; !ok {
		h.clients[c] = make(map[int64]struct{})
	}
	if _, ok := h.rooms[conversationID]; !ok {
		h.rooms[conversationID] = make(map[*Client]struct{})
	}
	h.rooms[conversationID][c] = struct{}{}
	h.clients[c][conversationID] = struct{}{}

	h.log.Debug("Client joined room", "connection_id", c.ID, "conversation_id", conversationID)
}

// Leave снимает подписку соединения с одной комнаты
func (h *Hub) Leave(c *Client, conversationID int64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.removeFromRoom(c, conversationID)
	if subs, ok := h.clients[c]; ok {
		delete(subs, conversationID)
	}
}

// Disconnect убирает соединение из всех комнат и из реестра
func (h *Hub) Disconnect(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conversationID := range h.clients[c] {
		h.removeFromRoom(c, conversationID)
	}
	delete(h.clients, c)
	c.close()

	h.log.Debug("Client disconnected", "connection_id", c.ID)
}

// removeFromRoom вызывается только под h.mu
func (h *Hub) removeFromRoom(c *Client, conversationID int64) {
	room, ok := h.rooms[conversationID]
	if !ok {
		return
	}
	delete(room, c)
	if len(room) == 0 {
		delete(h.rooms, conversationID)
	}
}

// Publish рассылает сообщение всем соединениям, подписанным на комнату
// в момент публикации. Доставка best-effort: без подтверждений, без повторов,
// пустая комната — тихий no-op.
func (h *Hub) Publish(conversationID int64, message *domain.Message) {
	data, err := json.Marshal(message)
	if err != nil {
		h.log.Error("Failed to marshal message for broadcast", "error", err)
		return
	}
	frame, err := json.Marshal(Envelope{Event: EventReceiveMessage, Data: data})
	if err != nil {
		h.log.Error("Failed to marshal broadcast envelope", "error", err)
		return
	}

	// Состав комнаты фиксируется на момент публикации. Отправка идёт под
	// read-lock: закрытие канала клиента возможно только под write-lock
	// (Disconnect/Shutdown), поэтому записи в закрытый канал не бывает
	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.rooms[conversationID] {
		// Неблокирующая отправка: переполненный буфер — кадр теряется,
		// клиент добирает историю через list
		select {
		case c.send <- frame:
		default:
			h.log.Warn("Dropping frame for slow client", "connection_id", c.ID, "conversation_id", conversationID)
		}
	}
}

// Shutdown закрывает все соединения; вызывается после остановки HTTP сервера
func (h *Hub) Shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true

	for c := range h.clients {
		c.close()
		delete(h.clients, c)
	}
	h.rooms = make(map[int64]map[*Client]struct{})

	h.log.Info("Hub shut down")
}

// RoomSize возвращает число подписчиков комнаты
func (h *Hub) RoomSize(conversationID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[conversationID])
}
