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

type SnapshotRepository struct {
	cache    *cache.Cache
	sessions *SessionRepository
	mu       sync.Mutex
}

func NewSnapshotRepository(sessions *SessionRepository) *SnapshotRepository {
	return &SnapshotRepository{
		cache:    cache.New(cache.NoExpiration, 0),
		sessions: sessions,
	}
}

var _ contract.SnapshotRepository = (*SnapshotRepository)(nil)

func (r *SnapshotRepository) Create(ctx context.Context, userId uuid.UUID, snapshot *entity.EmotionSnapshot) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.sessions.ownerOf(snapshot.SessionId, userId) {
		return 0, nil
	}
	if snapshot.Id == uuid.Nil {
		snapshot.Id = uuid.New()
	}
	if snapshot.CreatedAt.IsZero() {
		snapshot.CreatedAt = time.Now().UTC()
	}
	stored := *snapshot
	r.cache.Set(snapshot.Id.String(), &stored, cache.DefaultExpiration)
	return 1, nil
}

func (r *SnapshotRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.EmotionSnapshot, error) {
	var matches []*entity.EmotionSnapshot
	for _, item := range r.cache.Items() {
		s := item.Object.(*entity.EmotionSnapshot)
		if r.match(s, specs...) {
			matches = append(matches, s)
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].WindowStart.Before(matches[j].WindowStart)
	})
	out := make([]*entity.EmotionSnapshot, len(matches))
	for i, s := range matches {
		copied := *s
		out[i] = &copied
	}
	return out, nil
}

func (r *SnapshotRepository) match(s *entity.EmotionSnapshot, specs ...specification.Specification) bool {
	for _, spec := range specs {
		switch sp := spec.(type) {
		case specification.BySessionID:
			if s.SessionId != sp.SessionID {
				return false
			}
		case specification.SessionOwnedBy:
			if !r.sessions.ownerOf(s.SessionId, sp.UserID) {
				return false
			}
		case specification.OrderBy, specification.Pagination:
		default:
			return false
		}
	}
	return true
}
