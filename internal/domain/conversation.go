package domain

import "time"

// Conversation — двусторонняя беседа. Пара участников нормализована
// (UserMin < UserMax), на неё в БД стоит уникальный индекс.
type Conversation struct {
	ID        int64     `json:"id"`
	UserMin   int64     `json:"-"`
	UserMax   int64     `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// Participant — запись членства пользователя в беседе.
// У каждой беседы ровно две такие записи, созданные вместе с ней.
type Participant struct {
	UserID         int64 `json:"user_id"`
	ConversationID int64 `json:"conversation_id"`
}

// NormalizePair приводит пару идентификаторов к виду (min, max),
// чтобы (A,B) и (B,A) указывали на одну и ту же беседу.
func NormalizePair(a, b int64) (int64, int64) {
	if a > b {
		return b, a
	}
	return a, b
}
