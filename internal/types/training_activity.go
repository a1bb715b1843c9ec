package types

import (
	"time"

	"github.com/google/uuid"
)

// TrainingActivity is a planned session from the user's training calendar.
type TrainingActivity struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index:idx_training_user_date,priority:1" json:"user_id"`
	User   *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	Date   string    `gorm:"type:date;not null;index:idx_training_user_date,priority:2" json:"date"`

	ActivityType      string  `gorm:"column:activity_type;not null" json:"activity_type"` // run|long_run|interval|rest|...
	DurationMinutes   int     `gorm:"column:duration_minutes" json:"duration_minutes"`
	DistanceKM        float64 `gorm:"column:distance_km" json:"distance_km"`
	Intensity         string  `gorm:"column:intensity" json:"intensity"` // low|moderate|high
	EstimatedCalories float64 `gorm:"column:estimated_calories" json:"estimated_calories"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (TrainingActivity) TableName() string { return "training_activities" }
