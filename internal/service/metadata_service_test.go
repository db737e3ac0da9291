package service

import (
	"context"
	"encoding/base64"
	"testing"

	"neurobridge-be/internal/pkg/logger"
	"neurobridge-be/internal/repository/memory"
	"neurobridge-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMetadataFixture(t *testing.T) (*memory.SessionRepository, *memory.MetadataRepository, ISessionService, IMetadataService) {
	t.Helper()
	sessions := memory.NewSessionRepository()
	metadata := memory.NewMetadataRepository(sessions)
	sessionSvc := NewSessionService(sessions, nil, logger.NewNoopLogger())
	metadataSvc := NewMetadataService(sessions, metadata, logger.NewNoopLogger())
	return sessions, metadata, sessionSvc, metadataSvc
}

func b64(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}

func validIv() string {
	return b64(make([]byte, 12))
}

func TestMetadataSync(t *testing.T) {
	_, _, sessionSvc, svc := newMetadataFixture(t)
	userId := uuid.New()

	session, err := sessionSvc.Start(context.Background(), userId, "")
	require.NoError(t, err)

	blob := []byte("opaque ciphertext, never inspected")
	record, err := svc.Sync(context.Background(), userId, session.Id, b64(blob), validIv(), "")
	require.NoError(t, err)

	assert.Equal(t, session.Id, record.SessionId)
	// Stored byte-for-byte as sent.
	assert.Equal(t, blob, record.EncryptedBlob)
	assert.Len(t, record.Iv, 12)
	assert.Equal(t, "general", record.DataType)

	record, err = svc.Sync(context.Background(), userId, session.Id, b64(blob), validIv(), "transcript")
	require.NoError(t, err)
	assert.Equal(t, "transcript", record.DataType)
}

func TestMetadataSyncValidation(t *testing.T) {
	_, metadata, sessionSvc, svc := newMetadataFixture(t)
	userId := uuid.New()

	session, err := sessionSvc.Start(context.Background(), userId, "")
	require.NoError(t, err)

	tests := []struct {
		name    string
		blob    string
		iv      string
		wantErr error
	}{
		{"blob not base64", "%%%", validIv(), ErrInvalidEncoding},
		{"blob empty", b64(nil), validIv(), ErrEmptyBlob},
		{"iv not base64", b64([]byte("x")), "%%%", ErrInvalidEncoding},
		{"iv too short", b64([]byte("x")), b64(make([]byte, 8)), ErrInvalidIV},
		{"iv too long", b64([]byte("x")), b64(make([]byte, 16)), ErrInvalidIV},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Sync(context.Background(), userId, session.Id, tt.blob, tt.iv, "")
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	// Every rejection above happened before the store was touched.
	count, err := metadata.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestMetadataSyncOwnership(t *testing.T) {
	_, metadata, sessionSvc, svc := newMetadataFixture(t)
	owner := uuid.New()
	stranger := uuid.New()

	session, err := sessionSvc.Start(context.Background(), owner, "")
	require.NoError(t, err)

	_, err = svc.Sync(context.Background(), stranger, session.Id, b64([]byte("x")), validIv(), "")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = svc.Sync(context.Background(), owner, uuid.New(), b64([]byte("x")), validIv(), "")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	count, err := metadata.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestMetadataListBySession(t *testing.T) {
	_, _, sessionSvc, svc := newMetadataFixture(t)
	owner := uuid.New()
	stranger := uuid.New()

	session, err := sessionSvc.Start(context.Background(), owner, "")
	require.NoError(t, err)

	first, err := svc.Sync(context.Background(), owner, session.Id, b64([]byte("one")), validIv(), "")
	require.NoError(t, err)
	second, err := svc.Sync(context.Background(), owner, session.Id, b64([]byte("two")), validIv(), "")
	require.NoError(t, err)

	records, err := svc.ListBySession(context.Background(), owner, session.Id)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, first.Id, records[0].Id)
	assert.Equal(t, second.Id, records[1].Id)

	_, err = svc.ListBySession(context.Background(), stranger, session.Id)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestMetadataSyncOnEndedSession(t *testing.T) {
	sessions, _, sessionSvc, svc := newMetadataFixture(t)
	userId := uuid.New()

	session, err := sessionSvc.Start(context.Background(), userId, "")
	require.NoError(t, err)
	_, err = sessionSvc.End(context.Background(), userId, session.Id)
	require.NoError(t, err)

	// Late sync after end is allowed; devices may flush buffered records.
	record, err := svc.Sync(context.Background(), userId, session.Id, b64([]byte("late")), validIv(), "")
	require.NoError(t, err)
	assert.Equal(t, session.Id, record.SessionId)

	stored, err := sessions.FindOne(context.Background(), specification.ByID{ID: session.Id})
	require.NoError(t, err)
	assert.False(t, stored.IsActive)
}
