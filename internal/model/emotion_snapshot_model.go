package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type EmotionSnapshot struct {
	Id                  uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionId           uuid.UUID      `gorm:"type:uuid;not null;index"`
	DominantEmotion     string         `gorm:"type:varchar(50);not null;default:''"`
	EmotionDistribution datatypes.JSON `gorm:"type:jsonb"`
	SarcasmInstances    int            `gorm:"not null;default:0"`
	ConflictInstances   int            `gorm:"not null;default:0"`
	WindowStart         time.Time      `gorm:"not null;index"`
	WindowEnd           time.Time      `gorm:"not null"`
	CreatedAt           time.Time      `gorm:"autoCreateTime"`
}

func (EmotionSnapshot) TableName() string {
	return "emotion_snapshots"
}
