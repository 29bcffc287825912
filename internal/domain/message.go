package domain

import "time"

// Message — append-only запись: после создания не изменяется и не удаляется.
type Message struct {
	ID             int64     `json:"id"`
	ConversationID int64     `json:"conversation_id"`
	SenderID       int64     `json:"sender_id"`
	Text           string    `json:"message_text"`
	SentAt         time.Time `json:"sent_at"`
	// Присоединяется из users при выборке либо из claims отправителя
	SenderUsername string `json:"sender_username,omitempty"`
}
