package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/habiebr/fuel-score-backend/internal/platform/logger"
	"github.com/habiebr/fuel-score-backend/internal/types"
)

type MealPlanRepo interface {
	GetByUserDate(ctx context.Context, tx *gorm.DB, userID uuid.UUID, date string) ([]*types.MealPlan, error)
	UpsertMany(ctx context.Context, tx *gorm.DB, plans []*types.MealPlan) error
}

type mealPlanRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMealPlanRepo(db *gorm.DB, baseLog *logger.Logger) MealPlanRepo {
	return &mealPlanRepo{db: db, log: baseLog.With("repo", "MealPlanRepo")}
}

func (mr *mealPlanRepo) GetByUserDate(ctx context.Context, tx *gorm.DB, userID uuid.UUID, date string) ([]*types.MealPlan, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}

	var results []*types.MealPlan
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, date).
		Order("meal_type").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (mr *mealPlanRepo) UpsertMany(ctx context.Context, tx *gorm.DB, plans []*types.MealPlan) error {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}

	if len(plans) == 0 {
		return nil
	}
	for _, p := range plans {
		if p.ID == uuid.Nil {
			p.ID = uuid.New()
		}
	}
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "date"}, {Name: "meal_type"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"calories", "protein_grams", "carbs_grams", "fat_grams", "suggestions", "updated_at",
			}),
		}).
		Create(&plans).Error
}
