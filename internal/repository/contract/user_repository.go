package contract

import (
	"context"

	"neurobridge-be/internal/entity"
	"neurobridge-be/internal/repository/specification"
)

type UserRepository interface {
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error)
}
