package service

import (
	"context"
	"errors"
	"time"

	"neurobridge-be/internal/dto"
	"neurobridge-be/internal/entity"
	"neurobridge-be/internal/repository/contract"
	"neurobridge-be/internal/repository/specification"

	"github.com/google/uuid"
)

var ErrInvalidWindow = errors.New("window_end must not be before window_start")

type ISnapshotService interface {
	Save(ctx context.Context, userId, sessionId uuid.UUID, req *dto.SaveSnapshotRequest) (*entity.EmotionSnapshot, error)
	ListBySession(ctx context.Context, userId, sessionId uuid.UUID) ([]*entity.EmotionSnapshot, error)
}

type snapshotService struct {
	sessionRepo  contract.SessionRepository
	snapshotRepo contract.SnapshotRepository
}

func NewSnapshotService(sessionRepo contract.SessionRepository, snapshotRepo contract.SnapshotRepository) ISnapshotService {
	return &snapshotService{
		sessionRepo:  sessionRepo,
		snapshotRepo: snapshotRepo,
	}
}

func (s *snapshotService) Save(ctx context.Context, userId, sessionId uuid.UUID, req *dto.SaveSnapshotRequest) (*entity.EmotionSnapshot, error) {
	if req.WindowEnd.Before(req.WindowStart) {
		return nil, ErrInvalidWindow
	}

	session, err := s.sessionRepo.FindOne(ctx,
		specification.ByID{ID: sessionId},
		specification.OwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	snapshot := &entity.EmotionSnapshot{
		Id:                  uuid.New(),
		SessionId:           session.Id,
		DominantEmotion:     req.DominantEmotion,
		EmotionDistribution: req.EmotionDistribution,
		SarcasmInstances:    req.SarcasmInstances,
		ConflictInstances:   req.ConflictInstances,
		WindowStart:         req.WindowStart,
		WindowEnd:           req.WindowEnd,
		CreatedAt:           time.Now().UTC(),
	}
	rows, err := s.snapshotRepo.Create(ctx, userId, snapshot)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, ErrSessionNotFound
	}
	return snapshot, nil
}

func (s *snapshotService) ListBySession(ctx context.Context, userId, sessionId uuid.UUID) ([]*entity.EmotionSnapshot, error) {
	session, err := s.sessionRepo.FindOne(ctx,
		specification.ByID{ID: sessionId},
		specification.OwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	return s.snapshotRepo.FindAll(ctx,
		specification.BySessionID{SessionID: sessionId},
		specification.SessionOwnedBy{UserID: userId},
		specification.OrderBy{Field: "window_start", Desc: false},
	)
}
