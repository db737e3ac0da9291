package model

import (
	"time"

	"github.com/google/uuid"
)

type Session struct {
	Id              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId          uuid.UUID `gorm:"type:uuid;not null;index"` // User ownership for data isolation
	Title           string    `gorm:"type:varchar(255);not null;default:''"`
	StartedAt       time.Time `gorm:"not null"`
	EndedAt         *time.Time
	DurationSeconds *int
	IsActive        bool `gorm:"not null;default:true;index"`
}

func (Session) TableName() string {
	return "sessions"
}
