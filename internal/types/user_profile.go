package types

import (
	"time"

	"github.com/google/uuid"
)

// UserProfile holds the body metrics used to derive nutrition baselines
// when no explicit meal plan exists for a date.
type UserProfile struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	User     *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	Age      int       `gorm:"column:age" json:"age"`
	Sex      string    `gorm:"column:sex" json:"sex"` // male|female
	WeightKG float64   `gorm:"column:weight_kg" json:"weight_kg"`
	HeightCM float64   `gorm:"column:height_cm" json:"height_cm"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (UserProfile) TableName() string { return "user_profiles" }
