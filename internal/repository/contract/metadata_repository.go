package contract

import (
	"context"

	"neurobridge-be/internal/entity"
	"neurobridge-be/internal/repository/specification"

	"github.com/google/uuid"
)

type MetadataRepository interface {
	// Create persists a record only if its session belongs to userId; the
	// guard lives in the write itself, not in the caller. Returns the number
	// of rows written, zero when the ownership check rejects the insert.
	Create(ctx context.Context, userId uuid.UUID, record *entity.EncryptedMetadata) (int64, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.EncryptedMetadata, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
