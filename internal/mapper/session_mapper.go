package mapper

import (
	"encoding/json"
	"time"

	"neurobridge-be/internal/entity"
	"neurobridge-be/internal/model"

	"gorm.io/datatypes"
)

type SessionMapper struct{}

func NewSessionMapper() *SessionMapper {
	return &SessionMapper{}
}

// Session Mappers

func (m *SessionMapper) SessionToEntity(s *model.Session) *entity.Session {
	if s == nil {
		return nil
	}

	return &entity.Session{
		Id:              s.Id,
		UserId:          s.UserId,
		Title:           s.Title,
		StartedAt:       s.StartedAt,
		EndedAt:         s.EndedAt,
		DurationSeconds: s.DurationSeconds,
		IsActive:        s.IsActive,
	}
}

func (m *SessionMapper) SessionToModel(s *entity.Session) *model.Session {
	if s == nil {
		return nil
	}

	return &model.Session{
		Id:              s.Id,
		UserId:          s.UserId,
		Title:           s.Title,
		StartedAt:       s.StartedAt,
		EndedAt:         s.EndedAt,
		DurationSeconds: s.DurationSeconds,
		IsActive:        s.IsActive,
	}
}

// Metadata Mappers

func (m *SessionMapper) MetadataToEntity(r *model.EncryptedMetadata) *entity.EncryptedMetadata {
	if r == nil {
		return nil
	}

	var updatedAt *time.Time
	if !r.UpdatedAt.IsZero() {
		t := r.UpdatedAt
		updatedAt = &t
	}

	return &entity.EncryptedMetadata{
		Id:            r.Id,
		SessionId:     r.SessionId,
		EncryptedBlob: r.EncryptedBlob,
		Iv:            r.Iv,
		DataType:      r.DataType,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     updatedAt,
	}
}

func (m *SessionMapper) MetadataToModel(r *entity.EncryptedMetadata) *model.EncryptedMetadata {
	if r == nil {
		return nil
	}

	out := &model.EncryptedMetadata{
		Id:            r.Id,
		SessionId:     r.SessionId,
		EncryptedBlob: r.EncryptedBlob,
		Iv:            r.Iv,
		DataType:      r.DataType,
		CreatedAt:     r.CreatedAt,
	}
	if r.UpdatedAt != nil {
		out.UpdatedAt = *r.UpdatedAt
	}
	return out
}

// Snapshot Mappers

func (m *SessionMapper) SnapshotToEntity(s *model.EmotionSnapshot) *entity.EmotionSnapshot {
	if s == nil {
		return nil
	}

	distribution := map[string]float64{}
	if len(s.EmotionDistribution) > 0 {
		// Stored by us as a flat object; a decode failure means a manual edit,
		// surface an empty map rather than failing the read.
		_ = json.Unmarshal(s.EmotionDistribution, &distribution)
	}

	return &entity.EmotionSnapshot{
		Id:                  s.Id,
		SessionId:           s.SessionId,
		DominantEmotion:     s.DominantEmotion,
		EmotionDistribution: distribution,
		SarcasmInstances:    s.SarcasmInstances,
		ConflictInstances:   s.ConflictInstances,
		WindowStart:         s.WindowStart,
		WindowEnd:           s.WindowEnd,
		CreatedAt:           s.CreatedAt,
	}
}

func (m *SessionMapper) SnapshotToModel(s *entity.EmotionSnapshot) (*model.EmotionSnapshot, error) {
	if s == nil {
		return nil, nil
	}

	distribution, err := json.Marshal(s.EmotionDistribution)
	if err != nil {
		return nil, err
	}

	return &model.EmotionSnapshot{
		Id:                  s.Id,
		SessionId:           s.SessionId,
		DominantEmotion:     s.DominantEmotion,
		EmotionDistribution: datatypes.JSON(distribution),
		SarcasmInstances:    s.SarcasmInstances,
		ConflictInstances:   s.ConflictInstances,
		WindowStart:         s.WindowStart,
		WindowEnd:           s.WindowEnd,
		CreatedAt:           s.CreatedAt,
	}, nil
}

// User Mappers

func (m *SessionMapper) UserToEntity(u *model.User) *entity.User {
	if u == nil {
		return nil
	}

	return &entity.User{
		Id:        u.Id,
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}
