package types

import (
	"time"

	"github.com/google/uuid"
)

// SyncToken is a long-lived credential for headless wearable-sync clients.
// Only the bcrypt hash is stored; the plaintext is shown once at creation.
type SyncToken struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User      *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	Name      string    `gorm:"not null" json:"name"`
	TokenHash string    `gorm:"column:token_hash;not null" json:"-"`

	LastUsedAt *time.Time `gorm:"column:last_used_at" json:"last_used_at,omitempty"`
	RevokedAt  *time.Time `gorm:"column:revoked_at" json:"revoked_at,omitempty"`
	CreatedAt  time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"not null" json:"updated_at"`
}

func (SyncToken) TableName() string { return "sync_tokens" }
