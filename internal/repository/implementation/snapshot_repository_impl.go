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

type SnapshotRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SessionMapper
}

func NewSnapshotRepository(db *gorm.DB) contract.SnapshotRepository {
	return &SnapshotRepositoryImpl{
		db:     db,
		mapper: mapper.NewSessionMapper(),
	}
}

func (r *SnapshotRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

// Create is ownership-guarded the same way the metadata insert is: the row is
// written in the same statement that proves the session belongs to userId.
func (r *SnapshotRepositoryImpl) Create(ctx context.Context, userId uuid.UUID, snapshot *entity.EmotionSnapshot) (int64, error) {
	m, err := r.mapper.SnapshotToModel(snapshot)
	if err != nil {
		return 0, err
	}
	result := r.db.WithContext(ctx).Exec(
		`INSERT INTO emotion_snapshots (id, session_id, dominant_emotion, emotion_distribution, sarcasm_instances, conflict_instances, window_start, window_end, created_at)
		 SELECT ?, ?, ?, ?, ?, ?, ?, ?, ?
		 WHERE EXISTS (SELECT 1 FROM sessions WHERE id = ? AND user_id = ?)`,
		m.Id, m.SessionId, m.DominantEmotion, m.EmotionDistribution, m.SarcasmInstances, m.ConflictInstances, m.WindowStart, m.WindowEnd, m.CreatedAt,
		m.SessionId, userId,
	)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *SnapshotRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.EmotionSnapshot, error) {
	var models []*model.EmotionSnapshot
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.EmotionSnapshot, len(models))
	for i, m := range models {
		entities[i] = r.mapper.SnapshotToEntity(m)
	}
	return entities, nil
}
