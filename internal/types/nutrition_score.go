package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// NutritionScore is the persisted daily score row: both the cache read by
// weekly aggregation and the historical ledger behind trend displays. One
// row per (user, date), overwritten on every recomputation.
type NutritionScore struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_nutrition_score_user_date,priority:1" json:"user_id"`
	User   *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	Date   string    `gorm:"type:date;not null;uniqueIndex:idx_nutrition_score_user_date,priority:2" json:"date"`

	DailyScore int `gorm:"column:daily_score;not null" json:"daily_score"`

	CaloriesConsumed float64 `gorm:"column:calories_consumed" json:"calories_consumed"`
	ProteinGrams     float64 `gorm:"column:protein_grams" json:"protein_grams"`
	CarbsGrams       float64 `gorm:"column:carbs_grams" json:"carbs_grams"`
	FatGrams         float64 `gorm:"column:fat_grams" json:"fat_grams"`
	MealsLogged      int     `gorm:"column:meals_logged" json:"meals_logged"`

	PlannedCalories     float64 `gorm:"column:planned_calories" json:"planned_calories"`
	PlannedProteinGrams float64 `gorm:"column:planned_protein_grams" json:"planned_protein_grams"`
	PlannedCarbsGrams   float64 `gorm:"column:planned_carbs_grams" json:"planned_carbs_grams"`
	PlannedFatGrams     float64 `gorm:"column:planned_fat_grams" json:"planned_fat_grams"`

	TrainingLoad string         `gorm:"column:training_load" json:"training_load,omitempty"`
	Breakdown    datatypes.JSON `gorm:"column:breakdown" json:"breakdown,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (NutritionScore) TableName() string { return "nutrition_scores" }
