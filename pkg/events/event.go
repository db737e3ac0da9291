package events

import (
	"time"

	"github.com/google/uuid"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "SESSION_STARTED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// SessionStarted is emitted when a user opens a new session through the
// stream gateway. Audit only; fan-out to devices happens on the hub.
func SessionStarted(userID, sessionID uuid.UUID) BaseEvent {
	return BaseEvent{
		Type: "SESSION_STARTED",
		Data: map[string]interface{}{
			"user_id":    userID.String(),
			"session_id": sessionID.String(),
		},
		OccurredAt: time.Now().UTC(),
	}
}

func SessionEnded(userID, sessionID uuid.UUID, durationSeconds int) BaseEvent {
	return BaseEvent{
		Type: "SESSION_ENDED",
		Data: map[string]interface{}{
			"user_id":          userID.String(),
			"session_id":       sessionID.String(),
			"duration_seconds": durationSeconds,
		},
		OccurredAt: time.Now().UTC(),
	}
}
