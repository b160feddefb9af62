package audit_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/echess/club-api/internal/audit"
	"github.com/echess/club-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockSubscriber struct {
	msgChan      chan *message.Message
	subscribeErr error
	mu           sync.Mutex
	closed       bool
	topic        string
}

func newMockSubscriber() *mockSubscriber {
	return &mockSubscriber{
		msgChan: make(chan *message.Message, 10),
	}
}

func (m *mockSubscriber) Subscribe(_ context.Context, topic string) (<-chan *message.Message, error) {
	m.topic = topic

	if m.subscribeErr != nil {
		return nil, m.subscribeErr
	}

	return m.msgChan, nil
}

func (m *mockSubscriber) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.closed {
		m.closed = true
		close(m.msgChan)
	}

	return nil
}

func publishEvent(t *testing.T, sub *mockSubscriber, event *audit.Event) *message.Message {
	t.Helper()

	payload, err := json.Marshal(event)
	require.NoError(t, err)

	msg := message.NewMessage(watermill.NewUUID(), payload)
	sub.msgChan <- msg

	return msg
}

func waitForEntries(t *testing.T, entries *store.AuditMemoryStore, want int) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if len(entries.Entries()) >= want {
			return
		}

		time.Sleep(5 * time.Millisecond)
	}

	t.Fatalf("expected %d audit entries, got %d", want, len(entries.Entries()))
}

func TestRecorder(t *testing.T) {
	t.Run("persists published events", func(t *testing.T) {
		sub := newMockSubscriber()
		entries := store.NewAuditMemoryStore()
		recorder := audit.NewRecorder(sub, entries, zap.NewNop())

		require.NoError(t, recorder.Start(context.Background()))

		occurred := time.Now().UTC().Truncate(time.Second)
		publishEvent(t, sub, &audit.Event{
			Actor:      "account-1",
			Action:     "create",
			Resource:   "member",
			ResourceID: "m1",
			ClientIP:   "203.0.113.7",
			OccurredAt: occurred,
		})

		waitForEntries(t, entries, 1)
		require.NoError(t, recorder.Shutdown())

		got := entries.Entries()
		require.Len(t, got, 1)
		assert.NotEmpty(t, got[0].ID)
		assert.Equal(t, "account-1", got[0].Actor)
		assert.Equal(t, "create", got[0].Action)
		assert.Equal(t, "member", got[0].Resource)
		assert.Equal(t, "m1", got[0].ResourceID)
		assert.Equal(t, "203.0.113.7", got[0].ClientIP)
		assert.Equal(t, occurred, got[0].CreatedAt)
	})

	t.Run("subscribes to the audit topic", func(t *testing.T) {
		sub := newMockSubscriber()
		recorder := audit.NewRecorder(sub, store.NewAuditMemoryStore(), zap.NewNop())

		require.NoError(t, recorder.Start(context.Background()))
		require.NoError(t, recorder.Shutdown())

		assert.Equal(t, audit.Topic, sub.topic)
	})

	t.Run("nacks malformed payloads", func(t *testing.T) {
		sub := newMockSubscriber()
		entries := store.NewAuditMemoryStore()
		recorder := audit.NewRecorder(sub, entries, zap.NewNop())

		require.NoError(t, recorder.Start(context.Background()))

		msg := message.NewMessage(watermill.NewUUID(), []byte("not json"))
		sub.msgChan <- msg

		select {
		case <-msg.Nacked():
		case <-time.After(2 * time.Second):
			t.Fatal("expected message to be nacked")
		}

		require.NoError(t, recorder.Shutdown())
		assert.Empty(t, entries.Entries())
	})

	t.Run("acks persisted messages", func(t *testing.T) {
		sub := newMockSubscriber()
		entries := store.NewAuditMemoryStore()
		recorder := audit.NewRecorder(sub, entries, zap.NewNop())

		require.NoError(t, recorder.Start(context.Background()))

		msg := publishEvent(t, sub, &audit.Event{Action: "delete", Resource: "news"})

		select {
		case <-msg.Acked():
		case <-time.After(2 * time.Second):
			t.Fatal("expected message to be acked")
		}

		require.NoError(t, recorder.Shutdown())
	})

	t.Run("start fails when subscribe fails", func(t *testing.T) {
		sub := newMockSubscriber()
		sub.subscribeErr = assert.AnError
		recorder := audit.NewRecorder(sub, store.NewAuditMemoryStore(), zap.NewNop())

		err := recorder.Start(context.Background())
		assert.Error(t, err)
	})
}
