package websocket

import (
	"encoding/json"
	"time"
)

// Client -> server message types.
const (
	TypeSessionStart = "session.start"
	TypeSessionEnd   = "session.end"
	TypeMetadataSync = "metadata.sync"
	TypePresencePing = "presence.ping"
)

// Server -> client message types.
const (
	TypeConnectionEstablished = "connection.established"
	TypeSessionStarted        = "session.started"
	TypeSessionEnded          = "session.ended"
	TypeSessionUpdate         = "session.update"
	TypeMetadataSynced        = "metadata.synced"
	TypePresencePong          = "presence.pong"
	TypeError                 = "error"
)

// Fan-out actions carried by session.update.
const (
	ActionStarted = "started"
	ActionEnded   = "ended"
)

// Envelope is the first-pass decode of every inbound frame: only the type
// is inspected, the rest is re-decoded by the matching handler.
type Envelope struct {
	Type string `json:"type"`
}

type SessionStartRequest struct {
	Type  string `json:"type"`
	Title string `json:"title"`
}

type SessionEndRequest struct {
	Type      string `json:"type"`
	SessionID string `json:"session_id"`
}

type MetadataSyncRequest struct {
	Type      string `json:"type"`
	SessionID string `json:"session_id"`
	Blob      string `json:"blob"`
	Iv        string `json:"iv"`
	DataType  string `json:"data_type"`
}

type ConnectionEstablished struct {
	Type      string `json:"type"`
	UserID    string `json:"user_id"`
	Username  string `json:"username"`
	Timestamp string `json:"timestamp"`
}

type SessionStarted struct {
	Type      string `json:"type"`
	SessionID string `json:"session_id"`
	Title     string `json:"title,omitempty"`
	StartedAt string `json:"started_at"`
}

type SessionEnded struct {
	Type            string `json:"type"`
	SessionID       string `json:"session_id"`
	EndedAt         string `json:"ended_at"`
	DurationSeconds int    `json:"duration_seconds"`
}

// SessionUpdate is fanned out to the user's OTHER live connections so every
// device converges on the same session state. The acting connection gets a
// direct reply instead.
type SessionUpdate struct {
	Type      string `json:"type"`
	Action    string `json:"action"`
	SessionID string `json:"session_id"`
}

type MetadataSynced struct {
	Type       string `json:"type"`
	MetadataID string `json:"metadata_id"`
	SessionID  string `json:"session_id"`
	Timestamp  string `json:"timestamp"`
}

type PresencePong struct {
	Type      string `json:"type"`
	Timestamp string `json:"timestamp"`
}

type ErrorMessage struct {
	Type      string `json:"type"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// wireTime renders timestamps the way every reply frame carries them:
// RFC3339, always UTC.
func wireTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func mustMarshal(v interface{}) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		// All reply structs are marshal-safe; this cannot happen with the
		// types above.
		panic(err)
	}
	return data
}
