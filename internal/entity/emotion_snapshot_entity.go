package entity

import (
	"time"

	"github.com/google/uuid"
)

// EmotionSnapshot holds opt-in aggregated emotion statistics for a session
// window. Aggregates only, never moment-by-moment readings.
type EmotionSnapshot struct {
	Id                  uuid.UUID
	SessionId           uuid.UUID
	DominantEmotion     string
	EmotionDistribution map[string]float64
	SarcasmInstances    int
	ConflictInstances   int
	WindowStart         time.Time
	WindowEnd           time.Time
	CreatedAt           time.Time
}
