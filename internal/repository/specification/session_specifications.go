package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OwnedBy restricts a query to rows owned by one user. Every session read or
// write performed on behalf of a connection carries this filter; it is the
// isolation boundary, enforced in the query itself rather than in handler code.
type OwnedBy struct {
	UserID uuid.UUID
}

func (s OwnedBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ?", s.UserID)
}

// BySessionID filters child rows (metadata, snapshots) by their session.
type BySessionID struct {
	SessionID uuid.UUID
}

func (s BySessionID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("session_id = ?", s.SessionID)
}

// SessionOwnedBy restricts child rows to sessions owned by one user, at the
// data-access layer, via a subquery on the sessions table.
type SessionOwnedBy struct {
	UserID uuid.UUID
}

func (s SessionOwnedBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("session_id IN (SELECT id FROM sessions WHERE user_id = ?)", s.UserID)
}

// ActiveOnly filters sessions that have not ended yet.
type ActiveOnly struct{}

func (s ActiveOnly) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("is_active = ?", true)
}

// ByUsername filters users by their unique username.
type ByUsername struct {
	Username string
}

func (s ByUsername) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("username = ?", s.Username)
}
