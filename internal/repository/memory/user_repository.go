package memory

import (
	"context"
	"sync"

	"neurobridge-be/internal/entity"
	"neurobridge-be/internal/repository/contract"
	"neurobridge-be/internal/repository/specification"

	"github.com/patrickmn/go-cache"
)

type UserRepository struct {
	cache *cache.Cache
	mu    sync.Mutex
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		cache: cache.New(cache.NoExpiration, 0),
	}
}

var _ contract.UserRepository = (*UserRepository)(nil)

// Seed registers a user so tokens referencing it resolve.
func (r *UserRepository) Seed(user *entity.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *user
	r.cache.Set(user.Id.String(), &stored, cache.DefaultExpiration)
}

func (r *UserRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	for _, item := range r.cache.Items() {
		u := item.Object.(*entity.User)
		if matchUser(u, specs...) {
			out := *u
			return &out, nil
		}
	}
	return nil, nil
}

func matchUser(u *entity.User, specs ...specification.Specification) bool {
	for _, spec := range specs {
		switch sp := spec.(type) {
		case specification.ByID:
			if u.Id != sp.ID {
				return false
			}
		case specification.ByUsername:
			if u.Username != sp.Username {
				return false
			}
		default:
			return false
		}
	}
	return true
}
