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

type GoogleFitTokenRepo interface {
	Upsert(ctx context.Context, tx *gorm.DB, token *types.GoogleFitToken) error
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.GoogleFitToken, error)
}

type googleFitTokenRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewGoogleFitTokenRepo(db *gorm.DB, baseLog *logger.Logger) GoogleFitTokenRepo {
	return &googleFitTokenRepo{db: db, log: baseLog.With("repo", "GoogleFitTokenRepo")}
}

func (gr *googleFitTokenRepo) Upsert(ctx context.Context, tx *gorm.DB, token *types.GoogleFitToken) error {
	transaction := tx
	if transaction == nil {
		transaction = gr.db
	}

	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"access_token", "refresh_token", "token_type", "expiry", "updated_at",
			}),
		}).
		Create(token).Error
}

func (gr *googleFitTokenRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.GoogleFitToken, error) {
	transaction := tx
	if transaction == nil {
		transaction = gr.db
	}

	var token types.GoogleFitToken
	err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&token).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &token, nil
}
