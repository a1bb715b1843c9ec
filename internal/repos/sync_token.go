package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/habiebr/fuel-score-backend/internal/platform/logger"
	"github.com/habiebr/fuel-score-backend/internal/types"
)

type SyncTokenRepo interface {
	Create(ctx context.Context, tx *gorm.DB, token *types.SyncToken) error
	GetActiveByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.SyncToken, error)
	Touch(ctx context.Context, tx *gorm.DB, tokenID uuid.UUID, at time.Time) error
	Revoke(ctx context.Context, tx *gorm.DB, tokenID uuid.UUID, at time.Time) error
}

type syncTokenRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSyncTokenRepo(db *gorm.DB, baseLog *logger.Logger) SyncTokenRepo {
	return &syncTokenRepo{db: db, log: baseLog.With("repo", "SyncTokenRepo")}
}

func (sr *syncTokenRepo) Create(ctx context.Context, tx *gorm.DB, token *types.SyncToken) error {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}
	return transaction.WithContext(ctx).Create(token).Error
}

func (sr *syncTokenRepo) GetActiveByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.SyncToken, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	var results []*types.SyncToken
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND revoked_at IS NULL", userID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (sr *syncTokenRepo) Touch(ctx context.Context, tx *gorm.DB, tokenID uuid.UUID, at time.Time) error {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	return transaction.WithContext(ctx).
		Model(&types.SyncToken{}).
		Where("id = ?", tokenID).
		Update("last_used_at", at).Error
}

func (sr *syncTokenRepo) Revoke(ctx context.Context, tx *gorm.DB, tokenID uuid.UUID, at time.Time) error {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	return transaction.WithContext(ctx).
		Model(&types.SyncToken{}).
		Where("id = ? AND revoked_at IS NULL", tokenID).
		Update("revoked_at", at).Error
}
