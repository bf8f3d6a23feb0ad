package repos

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/forkful/forkful-backend/internal/pkg/apperr"
	"github.com/forkful/forkful-backend/internal/pkg/logger"
	"github.com/forkful/forkful-backend/internal/types"
)

type EstablishmentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, est *types.Establishment) (*types.Establishment, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Establishment, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Establishment, error)
	GetByPlaceID(ctx context.Context, tx *gorm.DB, placeID string) (*types.Establishment, error)
	// UpdateAggregates writes the denormalized counters guarded by the
	// previous post count. A zero rows-affected result means a concurrent
	// finalization got there first and the caller must retry.
	UpdateAggregates(ctx context.Context, tx *gorm.DB, id uuid.UUID, prevPostCount int, newAverage float64, newPostCount int, tags []string, updatedAt time.Time) (bool, error)
	UpdatedSince(ctx context.Context, tx *gorm.DB, city string, since time.Time) ([]*types.Establishment, error)
}

type establishmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEstablishmentRepo(db *gorm.DB, baseLog *logger.Logger) EstablishmentRepo {
	return &establishmentRepo{db: db, log: baseLog.With("repo", "EstablishmentRepo")}
}

func (er *establishmentRepo) Create(ctx context.Context, tx *gorm.DB, est *types.Establishment) (*types.Establishment, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}
	if err := transaction.WithContext(ctx).Create(est).Error; err != nil {
		return nil, err
	}
	return est, nil
}

func (er *establishmentRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Establishment, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}

	var result types.Establishment
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("establishment %s", id)
		}
		return nil, err
	}
	return &result, nil
}

func (er *establishmentRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Establishment, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}

	var results []*types.Establishment
	if len(ids) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (er *establishmentRepo) GetByPlaceID(ctx context.Context, tx *gorm.DB, placeID string) (*types.Establishment, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}

	var result types.Establishment
	if err := transaction.WithContext(ctx).
		Where("place_id = ?", placeID).
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("establishment place %s", placeID)
		}
		return nil, err
	}
	return &result, nil
}

func (er *establishmentRepo) UpdateAggregates(ctx context.Context, tx *gorm.DB, id uuid.UUID, prevPostCount int, newAverage float64, newPostCount int, tags []string, updatedAt time.Time) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}

	res := transaction.WithContext(ctx).
		Model(&types.Establishment{}).
		Where("id = ? AND post_count = ?", id, prevPostCount).
		Updates(map[string]any{
			"average_rating": newAverage,
			"post_count":     newPostCount,
			"tags":           datatypes.NewJSONSlice(tags),
			"updated_at":     updatedAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (er *establishmentRepo) UpdatedSince(ctx context.Context, tx *gorm.DB, city string, since time.Time) ([]*types.Establishment, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}

	var results []*types.Establishment
	if err := transaction.WithContext(ctx).
		Where("city = ? AND updated_at >= ?", city, since).
		Order("updated_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
