package entity

import (
	"time"

	"github.com/google/uuid"
)

// Session is a bounded activity interval owned by one user.
// Invariants: IsActive == (EndedAt == nil); DurationSeconds is computed once
// at end time, in whole seconds, and never recomputed afterwards.
type Session struct {
	Id              uuid.UUID
	UserId          uuid.UUID
	Title           string
	StartedAt       time.Time
	EndedAt         *time.Time
	DurationSeconds *int
	IsActive        bool
}
