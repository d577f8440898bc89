package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Session lifecycle event types.
const (
	SessionStarted   = "session.started"
	SessionCompleted = "session.completed"
	SessionRestarted = "session.restarted"
)

// SessionEvent describes a change in a study session's lifecycle.
type SessionEvent struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// Type is one of the Session* constants
	Type string `json:"type"`

	SessionID uuid.UUID `json:"session_id"`
	BankID    int64     `json:"bank_id"`
	Mode      string    `json:"mode"`

	// Correct and Incorrect are the session's tallies when the event fired.
	Correct   int `json:"correct"`
	Incorrect int `json:"incorrect"`

	CreatedAt time.Time `json:"created_at"`
}

// NewSessionEvent creates a SessionEvent of the given type.
func NewSessionEvent(eventType string, sessionID uuid.UUID, bankID int64, mode string) *SessionEvent {
	return &SessionEvent{
		ID:        uuid.New(),
		Type:      eventType,
		SessionID: sessionID,
		BankID:    bankID,
		Mode:      mode,
		CreatedAt: time.Now(),
	}
}

// WithTally records the correct and incorrect counts on the event.
func (e *SessionEvent) WithTally(correct, incorrect int) *SessionEvent {
	e.Correct = correct
	e.Incorrect = incorrect
	return e
}

// EventHandler processes session events.
type EventHandler interface {
	HandleEvent(ctx context.Context, event *SessionEvent) error
}

// HandlerFunc adapts an ordinary function to the EventHandler interface.
type HandlerFunc func(ctx context.Context, event *SessionEvent) error

// HandleEvent calls f(ctx, event).
func (f HandlerFunc) HandleEvent(ctx context.Context, event *SessionEvent) error {
	return f(ctx, event)
}

// EventEmitter publishes session events.
type EventEmitter interface {
	EmitEvent(ctx context.Context, event *SessionEvent) error
}
