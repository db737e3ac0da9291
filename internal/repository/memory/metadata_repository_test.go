package memory

import (
	"context"
	"testing"
	"time"

	"neurobridge-be/internal/entity"
	"neurobridge-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedSession(t *testing.T, sessions *SessionRepository, userId uuid.UUID) *entity.Session {
	t.Helper()
	session := &entity.Session{
		Id:        uuid.New(),
		UserId:    userId,
		StartedAt: time.Now().UTC(),
		IsActive:  true,
	}
	require.NoError(t, sessions.Create(context.Background(), session))
	return session
}

func TestMetadataCreateGuardsOwnership(t *testing.T) {
	ctx := context.Background()
	sessions := NewSessionRepository()
	repo := NewMetadataRepository(sessions)

	owner := uuid.New()
	stranger := uuid.New()
	session := seedSession(t, sessions, owner)

	record := &entity.EncryptedMetadata{
		SessionId:     session.Id,
		EncryptedBlob: []byte("ciphertext"),
		Iv:            make([]byte, 12),
		DataType:      "general",
	}

	rows, err := repo.Create(ctx, stranger, record)
	require.NoError(t, err)
	assert.Zero(t, rows)

	count, err := repo.Count(ctx, specification.BySessionID{SessionID: session.Id})
	require.NoError(t, err)
	assert.Zero(t, count, "rejected insert must not write")

	rows, err = repo.Create(ctx, owner, record)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)

	count, err = repo.Count(ctx, specification.BySessionID{SessionID: session.Id})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestSnapshotCreateGuardsOwnership(t *testing.T) {
	ctx := context.Background()
	sessions := NewSessionRepository()
	repo := NewSnapshotRepository(sessions)

	owner := uuid.New()
	session := seedSession(t, sessions, owner)

	now := time.Now().UTC()
	snapshot := &entity.EmotionSnapshot{
		SessionId:       session.Id,
		DominantEmotion: "neutral",
		WindowStart:     now,
		WindowEnd:       now.Add(30 * time.Second),
	}

	rows, err := repo.Create(ctx, uuid.New(), snapshot)
	require.NoError(t, err)
	assert.Zero(t, rows)

	stored, err := repo.FindAll(ctx, specification.BySessionID{SessionID: session.Id})
	require.NoError(t, err)
	assert.Empty(t, stored)

	rows, err = repo.Create(ctx, owner, snapshot)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)

	stored, err = repo.FindAll(ctx, specification.BySessionID{SessionID: session.Id})
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "neutral", stored[0].DominantEmotion)
}
