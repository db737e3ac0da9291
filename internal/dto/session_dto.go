package dto

import (
	"time"

	"github.com/google/uuid"
)

type SessionResponse struct {
	Id              uuid.UUID  `json:"id"`
	Title           string     `json:"title"`
	StartedAt       time.Time  `json:"started_at"`
	EndedAt         *time.Time `json:"ended_at"`
	DurationSeconds *int       `json:"duration_seconds"`
	IsActive        bool       `json:"is_active"`
}

type MetadataRecordResponse struct {
	Id        uuid.UUID `json:"id"`
	SessionId uuid.UUID `json:"session_id"`
	Blob      string    `json:"blob"` // base64, still ciphertext
	Iv        string    `json:"iv"`   // base64
	DataType  string    `json:"data_type"`
	CreatedAt time.Time `json:"created_at"`
}

type SaveSnapshotRequest struct {
	DominantEmotion     string             `json:"dominant_emotion" validate:"max=50"`
	EmotionDistribution map[string]float64 `json:"emotion_distribution" validate:"required"`
	SarcasmInstances    int                `json:"sarcasm_instances" validate:"min=0"`
	ConflictInstances   int                `json:"conflict_instances" validate:"min=0"`
	WindowStart         time.Time          `json:"window_start" validate:"required"`
	WindowEnd           time.Time          `json:"window_end" validate:"required"`
}

type SnapshotResponse struct {
	Id                  uuid.UUID          `json:"id"`
	SessionId           uuid.UUID          `json:"session_id"`
	DominantEmotion     string             `json:"dominant_emotion"`
	EmotionDistribution map[string]float64 `json:"emotion_distribution"`
	SarcasmInstances    int                `json:"sarcasm_instances"`
	ConflictInstances   int                `json:"conflict_instances"`
	WindowStart         time.Time          `json:"window_start"`
	WindowEnd           time.Time          `json:"window_end"`
	CreatedAt           time.Time          `json:"created_at"`
}
