package model

import (
	"time"

	"github.com/google/uuid"
)

// User rows are owned by the account service; this backend only reads them to
// resolve token claims.
type User struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Username  string    `gorm:"type:varchar(150);not null;uniqueIndex"`
	Email     string    `gorm:"type:varchar(255);not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (User) TableName() string {
	return "users"
}
