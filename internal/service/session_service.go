package service

import (
	"context"
	"errors"
	"time"

	"neurobridge-be/internal/entity"
	"neurobridge-be/internal/pkg/logger"
	"neurobridge-be/internal/repository/contract"
	"neurobridge-be/internal/repository/specification"
	"neurobridge-be/pkg/events"

	"github.com/google/uuid"
)

var (
	// ErrSessionNotFound covers both "no such session" and "session owned by
	// someone else". Callers must not be able to tell the two apart; server
	// logs keep the distinction.
	ErrSessionNotFound = errors.New("session not found")

	ErrSessionAlreadyEnded = errors.New("session already ended")
)

type ISessionService interface {
	Start(ctx context.Context, userId uuid.UUID, title string) (*entity.Session, error)
	End(ctx context.Context, userId, sessionId uuid.UUID) (*entity.Session, error)
	List(ctx context.Context, userId uuid.UUID, limit, offset int) ([]*entity.Session, int64, error)
	Latest(ctx context.Context, userId uuid.UUID) (*entity.Session, error)
}

type sessionService struct {
	sessionRepo contract.SessionRepository
	publisher   IEventPublisher
	logger      logger.ILogger
}

func NewSessionService(sessionRepo contract.SessionRepository, publisher IEventPublisher, log logger.ILogger) ISessionService {
	return &sessionService{
		sessionRepo: sessionRepo,
		publisher:   publisher,
		logger:      log,
	}
}

func (s *sessionService) Start(ctx context.Context, userId uuid.UUID, title string) (*entity.Session, error) {
	session := &entity.Session{
		Id:        uuid.New(),
		UserId:    userId,
		Title:     title,
		StartedAt: time.Now().UTC(),
		IsActive:  true,
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}

	s.publish(ctx, events.SessionStarted(userId, session.Id))
	return session, nil
}

func (s *sessionService) End(ctx context.Context, userId, sessionId uuid.UUID) (*entity.Session, error) {
	session, err := s.sessionRepo.FindOne(ctx,
		specification.ByID{ID: sessionId},
		specification.OwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if session == nil {
		// The client-facing error stays uniform either way; only the log line
		// says whether the session was missing or owned by someone else.
		if n, cerr := s.sessionRepo.Count(ctx, specification.ByID{ID: sessionId}); cerr == nil && n > 0 {
			s.logger.Warn("SessionService", "End denied: session owned by another user", map[string]interface{}{
				"session_id": sessionId,
				"user_id":    userId,
			})
		} else {
			s.logger.Info("SessionService", "End refused: session does not exist", map[string]interface{}{
				"session_id": sessionId,
				"user_id":    userId,
			})
		}
		return nil, ErrSessionNotFound
	}
	if !session.IsActive {
		return nil, ErrSessionAlreadyEnded
	}

	endedAt := time.Now().UTC()
	duration := int(endedAt.Sub(session.StartedAt).Seconds())
	if duration < 0 {
		duration = 0
	}

	rows, err := s.sessionRepo.End(ctx, sessionId, userId, endedAt, duration)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		// Another device ended it between our read and the guarded update.
		return nil, ErrSessionAlreadyEnded
	}

	session.EndedAt = &endedAt
	session.DurationSeconds = &duration
	session.IsActive = false

	s.publish(ctx, events.SessionEnded(userId, sessionId, duration))
	return session, nil
}

func (s *sessionService) List(ctx context.Context, userId uuid.UUID, limit, offset int) ([]*entity.Session, int64, error) {
	sessions, err := s.sessionRepo.FindAll(ctx,
		specification.OwnedBy{UserID: userId},
		specification.OrderBy{Field: "started_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: offset},
	)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.sessionRepo.Count(ctx, specification.OwnedBy{UserID: userId})
	if err != nil {
		return nil, 0, err
	}

	return sessions, total, nil
}

func (s *sessionService) Latest(ctx context.Context, userId uuid.UUID) (*entity.Session, error) {
	sessions, err := s.sessionRepo.FindAll(ctx,
		specification.OwnedBy{UserID: userId},
		specification.OrderBy{Field: "started_at", Desc: true},
		specification.Pagination{Limit: 1, Offset: 0},
	)
	if err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return nil, nil
	}
	return sessions[0], nil
}

func (s *sessionService) publish(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("SessionService", "Failed to publish session event", map[string]interface{}{
			"event": event.EventType(),
			"error": err.Error(),
		})
	}
}
