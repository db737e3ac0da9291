package contract

import (
	"context"

	"neurobridge-be/internal/entity"
	"neurobridge-be/internal/repository/specification"

	"github.com/google/uuid"
)

type SnapshotRepository interface {
	// Create writes the snapshot only if its session belongs to userId,
	// mirroring the guarded metadata insert. Returns rows written.
	Create(ctx context.Context, userId uuid.UUID, snapshot *entity.EmotionSnapshot) (int64, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.EmotionSnapshot, error)
}
