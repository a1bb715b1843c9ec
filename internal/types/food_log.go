package types

import (
	"time"

	"github.com/google/uuid"
)

// FoodLog is one consumed item. LoggedAt carries the wall-clock instant so
// late-night entries land on the user's local calendar day, not UTC's.
type FoodLog struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID   uuid.UUID `gorm:"type:uuid;not null;index:idx_food_log_user_time,priority:1" json:"user_id"`
	User     *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	LoggedAt time.Time `gorm:"not null;index:idx_food_log_user_time,priority:2" json:"logged_at"`
	MealType string    `gorm:"column:meal_type;not null;index" json:"meal_type"`

	FoodName     string  `gorm:"column:food_name;not null" json:"food_name"`
	ServingSize  string  `gorm:"column:serving_size" json:"serving_size,omitempty"`
	Calories     float64 `gorm:"column:calories" json:"calories"`
	ProteinGrams float64 `gorm:"column:protein_grams" json:"protein_grams"`
	CarbsGrams   float64 `gorm:"column:carbs_grams" json:"carbs_grams"`
	FatGrams     float64 `gorm:"column:fat_grams" json:"fat_grams"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (FoodLog) TableName() string { return "food_logs" }
