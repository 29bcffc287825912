package realtime

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"direct_chat/internal/domain"
	"direct_chat/pkg/logger"
)

func newTestClient(bufferSize int) *Client {
	return &Client{
		ID:   uuid.New(),
		send: make(chan []byte, bufferSize),
	}
}

func receiveEnvelope(t *testing.T, c *Client) Envelope {
	t.Helper()
	select {
	case frame := <-c.send:
		var env Envelope
		require.NoError(t, json.Unmarshal(frame, &env))
		return env
	case <-time.After(time.Second):
		t.Fatal("no frame received")
		return Envelope{}
	}
}

func TestHubPublishToSubscribers(t *testing.T) {
	req := require.New(t)
	hub := NewHub(logger.New("error"))

	alice := newTestClient(sendBufferSize)
	bob := newTestClient(sendBufferSize)
	hub.Join(alice, 5)
	hub.Join(bob, 5)
	req.Equal(2, hub.RoomSize(5))

	message := &domain.Message{
		ID:             1,
		ConversationID: 5,
		SenderID:       1,
		Text:           "hi",
		SentAt:         time.Now(),
		SenderUsername: "alice",
	}
	hub.Publish(5, message)

	for _, c := range []*Client{alice, bob} {
		env := receiveEnvelope(t, c)
		req.Equal(EventReceiveMessage, env.Event)

		var got domain.Message
		req.NoError(json.Unmarshal(env.Data, &got))
		req.Equal("hi", got.Text)
		req.Equal("alice", got.SenderUsername)
		req.Equal(int64(5), got.ConversationID)
	}
}

func TestHubPublishEmptyRoom(t *testing.T) {
	hub := NewHub(logger.New("error"))
	// Пустая комната — тихий no-op
	hub.Publish(99, &domain.Message{ID: 1, ConversationID: 99, Text: "void"})
}

func TestHubPublishOtherRoom(t *testing.T) {
	req := require.New(t)
	hub := NewHub(logger.New("error"))

	alice := newTestClient(sendBufferSize)
	hub.Join(alice, 5)

	hub.Publish(6, &domain.Message{ID: 1, ConversationID: 6, Text: "elsewhere"})
	req.Empty(alice.send)
}

func TestHubLeave(t *testing.T) {
	req := require.New(t)
	hub := NewHub(logger.New("error"))

	alice := newTestClient(sendBufferSize)
	hub.Join(alice, 5)
	hub.Leave(alice, 5)
	req.Zero(hub.RoomSize(5))

	hub.Publish(5, &domain.Message{ID: 1, ConversationID: 5, Text: "late"})
	req.Empty(alice.send)
}

func TestHubDisconnectRemovesFromAllRooms(t *testing.T) {
	req := require.New(t)
	hub := NewHub(logger.New("error"))

	alice := newTestClient(sendBufferSize)
	hub.Register(alice)
	hub.Join(alice, 1)
	hub.Join(alice, 2)

	hub.Disconnect(alice)
	req.Zero(hub.RoomSize(1))
	req.Zero(hub.RoomSize(2))

	// Канал закрыт — writePump завершится
	_, open := <-alice.send
	req.False(open)
}

func TestHubSlowClientDoesNotBlockPublish(t *testing.T) {
	req := require.New(t)
	hub := NewHub(logger.New("error"))

	slow := newTestClient(1)
	hub.Join(slow, 5)

	done := make(chan struct{})
	go func() {
		defer close(done)
		hub.Publish(5, &domain.Message{ID: 1, ConversationID: 5, Text: "first"})
		// Буфер полон: кадр отбрасывается, публикация не блокируется
		hub.Publish(5, &domain.Message{ID: 2, ConversationID: 5, Text: "second"})
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a slow client")
	}

	env := receiveEnvelope(t, slow)
	var got domain.Message
	req.NoError(json.Unmarshal(env.Data, &got))
	req.Equal("first", got.Text)
	req.Empty(slow.send)
}

func TestHubShutdown(t *testing.T) {
	req := require.New(t)
	hub := NewHub(logger.New("error"))

	alice := newTestClient(sendBufferSize)
	hub.Join(alice, 5)

	hub.Shutdown()

	_, open := <-alice.send
	req.False(open)
	req.Zero(hub.RoomSize(5))

	// После Shutdown подписки не принимаются
	bob := newTestClient(sendBufferSize)
	hub.Join(bob, 5)
	req.Zero(hub.RoomSize(5))
	hub.Publish(5, &domain.Message{ID: 1, ConversationID: 5, Text: "late"})
}

func TestHubConcurrentAccess(t *testing.T) {
	hub := NewHub(logger.New("error"))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c := newTestClient(sendBufferSize)
			conversationID := int64(i % 4)
			hub.Join(c, conversationID)
			hub.Publish(conversationID, &domain.Message{ID: int64(i), ConversationID: conversationID, Text: "x"})
			hub.Leave(c, conversationID)
			hub.Join(c, conversationID)
			hub.Disconnect(c)
		}(i)
	}
	wg.Wait()

	for i := int64(0); i < 4; i++ {
		require.Zero(t, hub.RoomSize(i))
	}
}
