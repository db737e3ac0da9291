package contract

import (
	"context"
	"time"

	"neurobridge-be/internal/entity"
	"neurobridge-be/internal/repository/specification"

	"github.com/google/uuid"
)

type SessionRepository interface {
	Create(ctx context.Context, session *entity.Session) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Session, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Session, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// End closes a session with a single guarded update: the row is touched
	// only if it belongs to userId and is still active. Returns the number of
	// rows affected, so a lost race or a repeated end can never double-write.
	End(ctx context.Context, id, userId uuid.UUID, endedAt time.Time, durationSeconds int) (int64, error)
}
