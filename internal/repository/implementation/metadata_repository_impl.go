package implementation

import (
	"context"

	"neurobridge-be/internal/entity"
	"neurobridge-be/internal/mapper"
	"neurobridge-be/internal/model"
	"neurobridge-be/internal/repository/contract"
	"neurobridge-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MetadataRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SessionMapper
}

func NewMetadataRepository(db *gorm.DB) contract.MetadataRepository {
	return &MetadataRepositoryImpl{
		db:     db,
		mapper: mapper.NewSessionMapper(),
	}
}

func (r *MetadataRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

// Create is an ownership-guarded insert: the row lands only when the session
// exists AND belongs to userId, all in one statement, so a handler that
// skipped its own ownership check still cannot attach metadata to a foreign
// session.
func (r *MetadataRepositoryImpl) Create(ctx context.Context, userId uuid.UUID, record *entity.EncryptedMetadata) (int64, error) {
	m := r.mapper.MetadataToModel(record)
	if m.UpdatedAt.IsZero() {
		m.UpdatedAt = m.CreatedAt
	}
	result := r.db.WithContext(ctx).Exec(
		`INSERT INTO encrypted_metadata (id, session_id, encrypted_blob, iv, data_type, created_at, updated_at)
		 SELECT ?, ?, ?, ?, ?, ?, ?
		 WHERE EXISTS (SELECT 1 FROM sessions WHERE id = ? AND user_id = ?)`,
		m.Id, m.SessionId, m.EncryptedBlob, m.Iv, m.DataType, m.CreatedAt, m.UpdatedAt,
		m.SessionId, userId,
	)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *MetadataRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.EncryptedMetadata, error) {
	var models []*model.EncryptedMetadata
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.EncryptedMetadata, len(models))
	for i, m := range models {
		entities[i] = r.mapper.MetadataToEntity(m)
	}
	return entities, nil
}

func (r *MetadataRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.EncryptedMetadata{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
