package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/habiebr/fuel-score-backend/internal/platform/logger"
	"github.com/habiebr/fuel-score-backend/internal/types"
)

type TrainingActivityRepo interface {
	Create(ctx context.Context, tx *gorm.DB, activities []*types.TrainingActivity) error
	GetByUserDate(ctx context.Context, tx *gorm.DB, userID uuid.UUID, date string) ([]*types.TrainingActivity, error)
}

type trainingActivityRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTrainingActivityRepo(db *gorm.DB, baseLog *logger.Logger) TrainingActivityRepo {
	return &trainingActivityRepo{db: db, log: baseLog.With("repo", "TrainingActivityRepo")}
}

func (tr *trainingActivityRepo) Create(ctx context.Context, tx *gorm.DB, activities []*types.TrainingActivity) error {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	if len(activities) == 0 {
		return nil
	}
	for _, a := range activities {
		if a.ID == uuid.Nil {
			a.ID = uuid.New()
		}
	}
	return transaction.WithContext(ctx).Create(&activities).Error
}

func (tr *trainingActivityRepo) GetByUserDate(ctx context.Context, tx *gorm.DB, userID uuid.UUID, date string) ([]*types.TrainingActivity, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	var results []*types.TrainingActivity
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, date).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
