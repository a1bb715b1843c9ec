package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// MealPlan is one planned meal for a user/date/meal-type: the macro targets
// the scoring engine compares logged food against.
type MealPlan struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_meal_plan_user_date_type,priority:1" json:"user_id"`
	User     *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	Date     string    `gorm:"type:date;not null;uniqueIndex:idx_meal_plan_user_date_type,priority:2" json:"date"`
	MealType string    `gorm:"column:meal_type;not null;uniqueIndex:idx_meal_plan_user_date_type,priority:3" json:"meal_type"` // breakfast|lunch|dinner|snack

	Calories     float64 `gorm:"column:calories" json:"calories"`
	ProteinGrams float64 `gorm:"column:protein_grams" json:"protein_grams"`
	CarbsGrams   float64 `gorm:"column:carbs_grams" json:"carbs_grams"`
	FatGrams     float64 `gorm:"column:fat_grams" json:"fat_grams"`

	// Suggestions holds the generated meal ideas for this slot, if any.
	Suggestions datatypes.JSON `gorm:"column:suggestions" json:"suggestions,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (MealPlan) TableName() string { return "meal_plans" }
