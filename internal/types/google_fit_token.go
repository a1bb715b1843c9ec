package types

import (
	"time"

	"github.com/google/uuid"
)

// GoogleFitToken stores the OAuth credentials for a user's Google Fit link.
type GoogleFitToken struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	User   *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`

	AccessToken  string    `gorm:"column:access_token;not null" json:"-"`
	RefreshToken string    `gorm:"column:refresh_token;not null" json:"-"`
	TokenType    string    `gorm:"column:token_type" json:"-"`
	Expiry       time.Time `gorm:"column:expiry" json:"expiry"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (GoogleFitToken) TableName() string { return "google_fit_tokens" }
