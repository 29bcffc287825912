package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"direct_chat/internal/domain"
	apperrors "direct_chat/pkg/errors"
)

// In-memory реализации репозиториев с теми же контрактами, что у pgx-версий

type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[string]*domain.User
	byID   map[int64]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		nextID: 1,
		users:  make(map[string]*domain.User),
		byID:   make(map[int64]*domain.User),
	}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.users[user.Username]; ok {
		return apperrors.ErrUserAlreadyExists
	}
	user.ID = f.nextID
	f.nextID++
	user.CreatedAt = time.Now()

	stored := *user
	f.users[user.Username] = &stored
	f.byID[user.ID] = &stored
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	user, ok := f.byID[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (f *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	user, ok := f.users[username]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

type pairKey struct {
	userMin int64
	userMax int64
}

type fakeConversationRepo struct {
	mu           sync.Mutex
	nextID       int64
	byPair       map[pairKey]*domain.Conversation
	participants map[int64]map[int64]struct{} // conversation_id -> user ids
}

func newFakeConversationRepo() *fakeConversationRepo {
	return &fakeConversationRepo{
		nextID:       1,
		byPair:       make(map[pairKey]*domain.Conversation),
		participants: make(map[int64]map[int64]struct{}),
	}
}

func (f *fakeConversationRepo) GetOrCreate(ctx context.Context, userA, userB int64) (*domain.Conversation, bool, error) {
	userMin, userMax := domain.NormalizePair(userA, userB)
	key := pairKey{userMin: userMin, userMax: userMax}

	// Критическая секция играет роль уникального индекса БД:
	// конкурирующие вызовы сериализуются и видят одну и ту же беседу
	f.mu.Lock()
	defer f.mu.Unlock()

	if conv, ok := f.byPair[key]; ok {
		copied := *conv
		return &copied, false, nil
	}

	conv := &domain.Conversation{
		ID:        f.nextID,
		UserMin:   userMin,
		UserMax:   userMax,
		CreatedAt: time.Now(),
	}
	f.nextID++
	f.byPair[key] = conv
	f.participants[conv.ID] = map[int64]struct{}{userMin: {}, userMax: {}}

	copied := *conv
	return &copied, true, nil
}

func (f *fakeConversationRepo) IsParticipant(ctx context.Context, userID, conversationID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	members, ok := f.participants[conversationID]
	if !ok {
		return false, nil
	}
	_, ok = members[userID]
	return ok, nil
}

type fakeMessageRepo struct {
	mu       sync.Mutex
	nextID   int64
	messages []*domain.Message
	// Фиксированное время для воспроизведения равных sent_at
	fixedNow  time.Time
	usernames map[int64]string
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{
		nextID:    1,
		usernames: make(map[int64]string),
	}
}

func (f *fakeMessageRepo) Create(ctx context.Context, message *domain.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	message.ID = f.nextID
	f.nextID++
	if f.fixedNow.IsZero() {
		message.SentAt = time.Now()
	} else {
		message.SentAt = f.fixedNow
	}

	stored := *message
	f.messages = append(f.messages, &stored)
	return nil
}

func (f *fakeMessageRepo) ListByConversation(ctx context.Context, conversationID int64) ([]*domain.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	result := make([]*domain.Message, 0)
	for _, m := range f.messages {
		if m.ConversationID != conversationID {
			continue
		}
		copied := *m
		copied.SenderUsername = f.usernames[m.SenderID]
		result = append(result, &copied)
	}

	// Тот же порядок, что у SQL: ORDER BY sent_at ASC, id ASC
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].SentAt.Equal(result[j].SentAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].SentAt.Before(result[j].SentAt)
	})

	return result, nil
}

type fakeBroadcaster struct {
	mu        sync.Mutex
	published []*domain.Message
}

func (f *fakeBroadcaster) Publish(conversationID int64, message *domain.Message) {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *message
	f.published = append(f.published, &copied)
}

func (f *fakeBroadcaster) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.published)
}
