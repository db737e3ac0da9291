package entity

import (
	"time"

	"github.com/google/uuid"
)

// EncryptedMetadata is a client-encrypted blob attached to a session.
// The server stores it but structurally cannot decrypt it; the blob is never
// inspected or transformed. Iv must be exactly 12 bytes (AES-GCM).
type EncryptedMetadata struct {
	Id            uuid.UUID
	SessionId     uuid.UUID
	EncryptedBlob []byte
	Iv            []byte
	DataType      string
	CreatedAt     time.Time
	UpdatedAt     *time.Time
}
