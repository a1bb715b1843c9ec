package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// GoogleFitData is one synced day of wearable data. Sessions holds the raw
// workout sessions for the day; a row with no sessions is ambient step
// counting and is never treated as training by the scorer.
type GoogleFitData struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_google_fit_user_date,priority:1" json:"user_id"`
	User   *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	Date   string    `gorm:"type:date;not null;uniqueIndex:idx_google_fit_user_date,priority:2" json:"date"`

	Steps          int     `gorm:"column:steps" json:"steps"`
	CaloriesBurned float64 `gorm:"column:calories_burned" json:"calories_burned"`
	ActiveMinutes  int     `gorm:"column:active_minutes" json:"active_minutes"`
	DistanceMeters float64 `gorm:"column:distance_meters" json:"distance_meters"`
	AvgHeartRate   float64 `gorm:"column:avg_heart_rate" json:"avg_heart_rate"`

	Sessions datatypes.JSON `gorm:"column:sessions" json:"sessions,omitempty"`

	LastSyncedAt time.Time `gorm:"column:last_synced_at" json:"last_synced_at"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null" json:"updated_at"`
}

func (GoogleFitData) TableName() string { return "google_fit_data" }

// FitSession is the shape serialized into GoogleFitData.Sessions.
type FitSession struct {
	SessionID       string  `json:"session_id"`
	ActivityType    string  `json:"activity_type"`
	StartTime       string  `json:"start_time"`
	EndTime         string  `json:"end_time"`
	DurationMinutes int     `json:"duration_minutes"`
	Calories        float64 `json:"calories,omitempty"`
	DistanceMeters  float64 `json:"distance_meters,omitempty"`
	AvgHeartRate    float64 `json:"avg_heart_rate,omitempty"`
}
