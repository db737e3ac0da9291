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

// MetadataRepository is the in-memory counterpart of the GORM metadata
// repository. SessionOwnedBy is resolved through the sibling session
// repository, mirroring the SQL subquery.
type MetadataRepository struct {
	cache    *cache.Cache
	sessions *SessionRepository
	mu       sync.Mutex
}

func NewMetadataRepository(sessions *SessionRepository) *MetadataRepository {
	return &MetadataRepository{
		cache:    cache.New(cache.NoExpiration, 0),
		sessions: sessions,
	}
}

var _ contract.MetadataRepository = (*MetadataRepository)(nil)

// Create honors the same ownership guard as the SQL INSERT ... WHERE EXISTS:
// nothing is stored unless the session belongs to userId.
func (r *MetadataRepository) Create(ctx context.Context, userId uuid.UUID, record *entity.EncryptedMetadata) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.sessions.ownerOf(record.SessionId, userId) {
		return 0, nil
	}
	if record.Id == uuid.Nil {
		record.Id = uuid.New()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	stored := *record
	r.cache.Set(record.Id.String(), &stored, cache.DefaultExpiration)
	return 1, nil
}

func (r *MetadataRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.EncryptedMetadata, error) {
	matches := r.filter(specs...)
	out := make([]*entity.EncryptedMetadata, len(matches))
	for i, m := range matches {
		copied := *m
		out[i] = &copied
	}
	return out, nil
}

func (r *MetadataRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(r.filter(specs...))), nil
}

func (r *MetadataRepository) filter(specs ...specification.Specification) []*entity.EncryptedMetadata {
	var matches []*entity.EncryptedMetadata
	for _, item := range r.cache.Items() {
		m := item.Object.(*entity.EncryptedMetadata)
		if r.match(m, specs...) {
			matches = append(matches, m)
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].CreatedAt.Before(matches[j].CreatedAt)
	})
	return matches
}

func (r *MetadataRepository) match(m *entity.EncryptedMetadata, specs ...specification.Specification) bool {
	for _, spec := range specs {
		switch sp := spec.(type) {
		case specification.ByID:
			if m.Id != sp.ID {
				return false
			}
		case specification.BySessionID:
			if m.SessionId != sp.SessionID {
				return false
			}
		case specification.SessionOwnedBy:
			if !r.sessions.ownerOf(m.SessionId, sp.UserID) {
				return false
			}
		case specification.OrderBy, specification.Pagination:
		default:
			return false
		}
	}
	return true
}
