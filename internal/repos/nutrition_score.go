package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/habiebr/fuel-score-backend/internal/platform/logger"
	"github.com/habiebr/fuel-score-backend/internal/types"
)

type NutritionScoreRepo interface {
	// Upsert replaces the whole row for (user_id, date); last write wins.
	Upsert(ctx context.Context, tx *gorm.DB, row *types.NutritionScore) error
	GetByUserDate(ctx context.Context, tx *gorm.DB, userID uuid.UUID, date string) (*types.NutritionScore, error)
	GetByUserDateRange(ctx context.Context, tx *gorm.DB, userID uuid.UUID, fromDate, toDate string) ([]*types.NutritionScore, error)
}

type nutritionScoreRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewNutritionScoreRepo(db *gorm.DB, baseLog *logger.Logger) NutritionScoreRepo {
	return &nutritionScoreRepo{db: db, log: baseLog.With("repo", "NutritionScoreRepo")}
}

func (nr *nutritionScoreRepo) Upsert(ctx context.Context, tx *gorm.DB, row *types.NutritionScore) error {
	transaction := tx
	if transaction == nil {
		transaction = nr.db
	}

	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"daily_score",
				"calories_consumed", "protein_grams", "carbs_grams", "fat_grams",
				"meals_logged",
				"planned_calories", "planned_protein_grams", "planned_carbs_grams", "planned_fat_grams",
				"training_load", "breakdown", "updated_at",
			}),
		}).
		Create(row).Error
}

func (nr *nutritionScoreRepo) GetByUserDate(ctx context.Context, tx *gorm.DB, userID uuid.UUID, date string) (*types.NutritionScore, error) {
	transaction := tx
	if transaction == nil {
		transaction = nr.db
	}

	var row types.NutritionScore
	err := transaction.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, date).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (nr *nutritionScoreRepo) GetByUserDateRange(ctx context.Context, tx *gorm.DB, userID uuid.UUID, fromDate, toDate string) ([]*types.NutritionScore, error) {
	transaction := tx
	if transaction == nil {
		transaction = nr.db
	}

	var results []*types.NutritionScore
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND date >= ? AND date <= ?", userID, fromDate, toDate).
		Order("date").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
