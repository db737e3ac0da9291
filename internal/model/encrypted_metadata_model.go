package model

import (
	"time"

	"github.com/google/uuid"
)

type EncryptedMetadata struct {
	Id            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionId     uuid.UUID `gorm:"type:uuid;not null;index"`
	EncryptedBlob []byte    `gorm:"type:bytea;not null"` // AES-GCM ciphertext, server cannot decrypt
	Iv            []byte    `gorm:"type:bytea;not null"` // 12-byte IV, validated before insert
	DataType      string    `gorm:"type:varchar(50);not null;default:'general'"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime"`
}

func (EncryptedMetadata) TableName() string {
	return "encrypted_metadata"
}
