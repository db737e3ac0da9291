package service

import (
	"context"
	"encoding/base64"
	"errors"
	"time"

	"neurobridge-be/internal/entity"
	"neurobridge-be/internal/pkg/logger"
	"neurobridge-be/internal/repository/contract"
	"neurobridge-be/internal/repository/specification"

	"github.com/google/uuid"
)

// AES-GCM requires exactly this IV size; anything else is rejected before the
// store is touched. No truncation, no padding.
const ivLength = 12

var (
	ErrInvalidEncoding = errors.New("blob and iv must be valid base64")
	ErrInvalidIV       = errors.New("iv must decode to exactly 12 bytes")
	ErrEmptyBlob       = errors.New("blob must not be empty")
)

type IMetadataService interface {
	// Sync stores one client-encrypted record under a session the caller
	// owns. The blob is persisted verbatim; this service never inspects it.
	Sync(ctx context.Context, userId, sessionId uuid.UUID, blobB64, ivB64, dataType string) (*entity.EncryptedMetadata, error)

	// ListBySession is the pull half of cross-device metadata reconciliation.
	ListBySession(ctx context.Context, userId, sessionId uuid.UUID) ([]*entity.EncryptedMetadata, error)
}

type metadataService struct {
	sessionRepo  contract.SessionRepository
	metadataRepo contract.MetadataRepository
	logger       logger.ILogger
}

func NewMetadataService(sessionRepo contract.SessionRepository, metadataRepo contract.MetadataRepository, log logger.ILogger) IMetadataService {
	return &metadataService{
		sessionRepo:  sessionRepo,
		metadataRepo: metadataRepo,
		logger:       log,
	}
}

func (s *metadataService) Sync(ctx context.Context, userId, sessionId uuid.UUID, blobB64, ivB64, dataType string) (*entity.EncryptedMetadata, error) {
	blob, err := base64.StdEncoding.DecodeString(blobB64)
	if err != nil {
		return nil, ErrInvalidEncoding
	}
	if len(blob) == 0 {
		return nil, ErrEmptyBlob
	}
	iv, err := base64.StdEncoding.DecodeString(ivB64)
	if err != nil {
		return nil, ErrInvalidEncoding
	}
	if len(iv) != ivLength {
		return nil, ErrInvalidIV
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

	if dataType == "" {
		dataType = "general"
	}

	record := &entity.EncryptedMetadata{
		Id:            uuid.New(),
		SessionId:     session.Id,
		EncryptedBlob: blob,
		Iv:            iv,
		DataType:      dataType,
		CreatedAt:     time.Now().UTC(),
	}
	// The insert itself re-checks ownership; zero rows means the session was
	// deleted or reassigned between the read above and the write.
	rows, err := s.metadataRepo.Create(ctx, userId, record)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		s.logger.Warn("metadata_service", "guarded insert rejected", map[string]interface{}{
			"session_id": sessionId.String(),
			"user_id":    userId.String(),
		})
		return nil, ErrSessionNotFound
	}
	return record, nil
}

func (s *metadataService) ListBySession(ctx context.Context, userId, sessionId uuid.UUID) ([]*entity.EncryptedMetadata, error) {
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

	// SessionOwnedBy keeps the ownership filter in the query even though the
	// session was already resolved above.
	return s.metadataRepo.FindAll(ctx,
		specification.BySessionID{SessionID: sessionId},
		specification.SessionOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
}
