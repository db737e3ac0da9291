package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"neurobridge-be/internal/entity"
	"neurobridge-be/internal/repository/contract"
	"neurobridge-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// SessionRepository is an in-memory SessionRepository backed by go-cache.
// Used by unit tests and as a dev fallback when no database is configured.
// It understands the same specifications as the GORM implementation so the
// ownership filter stays in the data-access layer here too.
type SessionRepository struct {
	cache *cache.Cache
	mu    sync.Mutex
}

func NewSessionRepository() *SessionRepository {
	return &SessionRepository{
		cache: cache.New(cache.NoExpiration, 0),
	}
}

var _ contract.SessionRepository = (*SessionRepository)(nil)

func (r *SessionRepository) Create(ctx context.Context, session *entity.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if session.Id == uuid.Nil {
		session.Id = uuid.New()
	}
	stored := *session
	r.cache.Set(session.Id.String(), &stored, cache.DefaultExpiration)
	return nil
}

func (r *SessionRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Session, error) {
	matches := r.filter(specs...)
	if len(matches) == 0 {
		return nil, nil
	}
	out := *matches[0]
	return &out, nil
}

func (r *SessionRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Session, error) {
	matches := r.filter(specs...)
	matches = applyOrderAndPage(matches, specs...)
	out := make([]*entity.Session, len(matches))
	for i, s := range matches {
		copied := *s
		out[i] = &copied
	}
	return out, nil
}

func (r *SessionRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(r.filter(specs...))), nil
}

func (r *SessionRepository) End(ctx context.Context, id, userId uuid.UUID, endedAt time.Time, durationSeconds int) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	x, found := r.cache.Get(id.String())
	if !found {
		return 0, nil
	}
	s := x.(*entity.Session)
	if s.UserId != userId || !s.IsActive {
		return 0, nil
	}
	ended := endedAt
	dur := durationSeconds
	s.EndedAt = &ended
	s.DurationSeconds = &dur
	s.IsActive = false
	return 1, nil
}

// ownerOf reports whether the session exists and belongs to userId. Used by
// the sibling metadata/snapshot repositories to resolve SessionOwnedBy.
func (r *SessionRepository) ownerOf(sessionID, userID uuid.UUID) bool {
	x, found := r.cache.Get(sessionID.String())
	if !found {
		return false
	}
	return x.(*entity.Session).UserId == userID
}

func (r *SessionRepository) filter(specs ...specification.Specification) []*entity.Session {
	var matches []*entity.Session
	for _, item := range r.cache.Items() {
		s := item.Object.(*entity.Session)
		if matchSession(s, specs...) {
			matches = append(matches, s)
		}
	}
	// Stable base ordering so FindOne is deterministic.
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].StartedAt.Before(matches[j].StartedAt)
	})
	return matches
}

func matchSession(s *entity.Session, specs ...specification.Specification) bool {
	for _, spec := range specs {
		switch sp := spec.(type) {
		case specification.ByID:
			if s.Id != sp.ID {
				return false
			}
		case specification.OwnedBy:
			if s.UserId != sp.UserID {
				return false
			}
		case specification.ActiveOnly:
			if !s.IsActive {
				return false
			}
		case specification.OrderBy, specification.Pagination:
			// applied after filtering
		default:
			// Unknown specification: match nothing instead of silently
			// widening the result set.
			return false
		}
	}
	return true
}

func applyOrderAndPage(matches []*entity.Session, specs ...specification.Specification) []*entity.Session {
	for _, spec := range specs {
		switch sp := spec.(type) {
		case specification.OrderBy:
			if sp.Field == "started_at" {
				sort.Slice(matches, func(i, j int) bool {
					if sp.Desc {
						return matches[i].StartedAt.After(matches[j].StartedAt)
					}
					return matches[i].StartedAt.Before(matches[j].StartedAt)
				})
			}
		case specification.Pagination:
			start := sp.Offset
			if start > len(matches) {
				start = len(matches)
			}
			end := start + sp.Limit
			if end > len(matches) {
				end = len(matches)
			}
			matches = matches[start:end]
		}
	}
	return matches
}
