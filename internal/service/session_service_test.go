package service

import (
	"context"
	"testing"
	"time"

	"neurobridge-be/internal/pkg/logger"
	"neurobridge-be/internal/repository/memory"
	"neurobridge-be/pkg/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// capturePublisher records published events so tests can assert on the
// audit trail without a real bus.
type capturePublisher struct {
	published []events.Event
}

func (p *capturePublisher) Publish(ctx context.Context, event events.Event) error {
	p.published = append(p.published, event)
	return nil
}

func newSessionFixture(t *testing.T) (*memory.SessionRepository, *capturePublisher, ISessionService) {
	t.Helper()
	repo := memory.NewSessionRepository()
	pub := &capturePublisher{}
	return repo, pub, NewSessionService(repo, pub, logger.NewNoopLogger())
}

func TestStartSession(t *testing.T) {
	_, pub, svc := newSessionFixture(t)
	userId := uuid.New()

	session, err := svc.Start(context.Background(), userId, "Therapy intake")
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, session.Id)
	assert.Equal(t, userId, session.UserId)
	assert.Equal(t, "Therapy intake", session.Title)
	assert.True(t, session.IsActive)
	assert.Nil(t, session.EndedAt)
	assert.Nil(t, session.DurationSeconds)
	assert.Equal(t, time.UTC, session.StartedAt.Location())

	require.Len(t, pub.published, 1)
	assert.Equal(t, "SESSION_STARTED", pub.published[0].EventType())
}

func TestEndSession(t *testing.T) {
	_, pub, svc := newSessionFixture(t)
	userId := uuid.New()

	session, err := svc.Start(context.Background(), userId, "")
	require.NoError(t, err)

	ended, err := svc.End(context.Background(), userId, session.Id)
	require.NoError(t, err)

	assert.False(t, ended.IsActive)
	require.NotNil(t, ended.EndedAt)
	require.NotNil(t, ended.DurationSeconds)
	assert.GreaterOrEqual(t, *ended.DurationSeconds, 0)
	assert.False(t, ended.EndedAt.Before(ended.StartedAt))

	require.Len(t, pub.published, 2)
	assert.Equal(t, "SESSION_ENDED", pub.published[1].EventType())
}

func TestEndSessionErrors(t *testing.T) {
	_, _, svc := newSessionFixture(t)
	owner := uuid.New()
	stranger := uuid.New()

	session, err := svc.Start(context.Background(), owner, "")
	require.NoError(t, err)

	t.Run("unknown session", func(t *testing.T) {
		_, err := svc.End(context.Background(), owner, uuid.New())
		assert.ErrorIs(t, err, ErrSessionNotFound)
	})

	t.Run("owned by another user looks identical", func(t *testing.T) {
		_, err := svc.End(context.Background(), stranger, session.Id)
		assert.ErrorIs(t, err, ErrSessionNotFound)
	})

	t.Run("already ended", func(t *testing.T) {
		_, err := svc.End(context.Background(), owner, session.Id)
		require.NoError(t, err)

		_, err = svc.End(context.Background(), owner, session.Id)
		assert.ErrorIs(t, err, ErrSessionAlreadyEnded)
	})
}

func TestListSessions(t *testing.T) {
	repo, _, svc := newSessionFixture(t)
	userId := uuid.New()
	other := uuid.New()

	for i := 0; i < 3; i++ {
		_, err := svc.Start(context.Background(), userId, "")
		require.NoError(t, err)
		time.Sleep(2 * time.Millisecond) // distinct started_at
	}
	_, err := svc.Start(context.Background(), other, "")
	require.NoError(t, err)

	sessions, total, err := svc.List(context.Background(), userId, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, sessions, 2)
	// Newest first.
	assert.True(t, sessions[0].StartedAt.After(sessions[1].StartedAt))
	for _, s := range sessions {
		assert.Equal(t, userId, s.UserId)
	}

	count, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(4), count)
}

func TestLatestSession(t *testing.T) {
	_, _, svc := newSessionFixture(t)
	userId := uuid.New()

	latest, err := svc.Latest(context.Background(), userId)
	require.NoError(t, err)
	assert.Nil(t, latest)

	_, err = svc.Start(context.Background(), userId, "first")
	require.NoError(t, err)
	time.Sleep(2 * time.Millisecond)
	second, err := svc.Start(context.Background(), userId, "second")
	require.NoError(t, err)

	latest, err = svc.Latest(context.Background(), userId)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, second.Id, latest.Id)
}
