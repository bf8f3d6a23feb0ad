package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/forkful/forkful-backend/internal/pkg/logger"
	"github.com/forkful/forkful-backend/internal/types"
)

type SaveRepo interface {
	// Create is idempotent: saving an already-saved establishment is a no-op.
	Create(ctx context.Context, tx *gorm.DB, save *types.Save) (bool, error)
	Delete(ctx context.Context, tx *gorm.DB, userID, establishmentID uuid.UUID) (bool, error)
	ByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Save, error)
	Exists(ctx context.Context, tx *gorm.DB, userID, establishmentID uuid.UUID) (bool, error)
}

type saveRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSaveRepo(db *gorm.DB, baseLog *logger.Logger) SaveRepo {
	return &saveRepo{db: db, log: baseLog.With("repo", "SaveRepo")}
}

func (sr *saveRepo) Create(ctx context.Context, tx *gorm.DB, save *types.Save) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	res := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(save)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (sr *saveRepo) Delete(ctx context.Context, tx *gorm.DB, userID, establishmentID uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	res := transaction.WithContext(ctx).
		Where("user_id = ? AND establishment_id = ?", userID, establishmentID).
		Delete(&types.Save{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (sr *saveRepo) ByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Save, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	var results []*types.Save
	if err := transaction.WithContext(ctx).
		Preload("Establishment").
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (sr *saveRepo) Exists(ctx context.Context, tx *gorm.DB, userID, establishmentID uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Save{}).
		Where("user_id = ? AND establishment_id = ?", userID, establishmentID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
