package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/habiebr/fuel-score-backend/internal/platform/logger"
	"github.com/habiebr/fuel-score-backend/internal/types"
)

type FoodLogRepo interface {
	Create(ctx context.Context, tx *gorm.DB, logs []*types.FoodLog) error
	// GetByUserRange returns logs with from <= logged_at < to. Callers pass
	// local-day boundaries so late-night meals land on the right date.
	GetByUserRange(ctx context.Context, tx *gorm.DB, userID uuid.UUID, from, to time.Time) ([]*types.FoodLog, error)
}

type foodLogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewFoodLogRepo(db *gorm.DB, baseLog *logger.Logger) FoodLogRepo {
	return &foodLogRepo{db: db, log: baseLog.With("repo", "FoodLogRepo")}
}

func (fr *foodLogRepo) Create(ctx context.Context, tx *gorm.DB, logs []*types.FoodLog) error {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}

	if len(logs) == 0 {
		return nil
	}
	for _, l := range logs {
		if l.ID == uuid.Nil {
			l.ID = uuid.New()
		}
	}
	return transaction.WithContext(ctx).Create(&logs).Error
}

func (fr *foodLogRepo) GetByUserRange(ctx context.Context, tx *gorm.DB, userID uuid.UUID, from, to time.Time) ([]*types.FoodLog, error) {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}

	var results []*types.FoodLog
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND logged_at >= ? AND logged_at < ?", userID, from, to).
		Order("logged_at").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
