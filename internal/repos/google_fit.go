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

type GoogleFitRepo interface {
	GetByUserDate(ctx context.Context, tx *gorm.DB, userID uuid.UUID, date string) (*types.GoogleFitData, error)
	GetByUserDateRange(ctx context.Context, tx *gorm.DB, userID uuid.UUID, fromDate, toDate string) ([]*types.GoogleFitData, error)
	Upsert(ctx context.Context, tx *gorm.DB, row *types.GoogleFitData) error
}

type googleFitRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewGoogleFitRepo(db *gorm.DB, baseLog *logger.Logger) GoogleFitRepo {
	return &googleFitRepo{db: db, log: baseLog.With("repo", "GoogleFitRepo")}
}

func (gr *googleFitRepo) GetByUserDate(ctx context.Context, tx *gorm.DB, userID uuid.UUID, date string) (*types.GoogleFitData, error) {
	transaction := tx
	if transaction == nil {
		transaction = gr.db
	}

	var row types.GoogleFitData
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

func (gr *googleFitRepo) GetByUserDateRange(ctx context.Context, tx *gorm.DB, userID uuid.UUID, fromDate, toDate string) ([]*types.GoogleFitData, error) {
	transaction := tx
	if transaction == nil {
		transaction = gr.db
	}

	var results []*types.GoogleFitData
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND date >= ? AND date <= ?", userID, fromDate, toDate).
		Order("date").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (gr *googleFitRepo) Upsert(ctx context.Context, tx *gorm.DB, row *types.GoogleFitData) error {
	transaction := tx
	if transaction == nil {
		transaction = gr.db
	}

	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"steps", "calories_burned", "active_minutes", "distance_meters",
				"avg_heart_rate", "sessions", "last_synced_at", "updated_at",
			}),
		}).
		Create(row).Error
}
