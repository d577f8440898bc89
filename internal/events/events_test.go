package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockEventHandler implements the EventHandler interface for testing
type MockEventHandler struct {
	LastEvent    *SessionEvent
	HandlerError error
	HandledCount int
}

// HandleEvent implements the EventHandler interface
func (h *MockEventHandler) HandleEvent(ctx context.Context, event *SessionEvent) error {
	h.LastEvent = event
	h.HandledCount++
	return h.HandlerError
}

func TestNewSessionEvent(t *testing.T) {
	sessionID := uuid.New()

	event := NewSessionEvent(SessionCompleted, sessionID, 7, "qa").WithTally(3, 1)

	assert.NotEqual(t, uuid.Nil, event.ID)
	assert.Equal(t, SessionCompleted, event.Type)
	assert.Equal(t, sessionID, event.SessionID)
	assert.Equal(t, int64(7), event.BankID)
	assert.Equal(t, 3, event.Correct)
	assert.Equal(t, 1, event.Incorrect)
	assert.WithinDuration(t, time.Now(), event.CreatedAt, 2*time.Second)

	raw, err := json.Marshal(event)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"type":"session.completed"`)
}

func TestHandlerFunc(t *testing.T) {
	var got *SessionEvent
	h := HandlerFunc(func(_ context.Context, e *SessionEvent) error {
		got = e
		return nil
	})

	event := NewSessionEvent(SessionStarted, uuid.New(), 1, "mcq")
	require.NoError(t, h.HandleEvent(context.Background(), event))
	assert.Same(t, event, got)
}
