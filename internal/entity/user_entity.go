package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is the authenticated principal resolved from a token claim. The stream
// gateway resolves it exactly once per connection and never re-derives it.
type User struct {
	Id        uuid.UUID
	Username  string
	Email     string
	CreatedAt time.Time
}
