package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/forkful/forkful-backend/internal/pkg/apperr"
	"github.com/forkful/forkful-backend/internal/pkg/logger"
	"github.com/forkful/forkful-backend/internal/types"
)

type UserStatsRepo interface {
	Get(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.UserStats, error)
	EnsureRow(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error
	IncrementPostCount(ctx context.Context, tx *gorm.DB, userID uuid.UUID, delta int) error
	IncrementFollowerCount(ctx context.Context, tx *gorm.DB, userID uuid.UUID, delta int) error
	IncrementFollowingCount(ctx context.Context, tx *gorm.DB, userID uuid.UUID, delta int) error
}

type userStatsRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserStatsRepo(db *gorm.DB, baseLog *logger.Logger) UserStatsRepo {
	return &userStatsRepo{db: db, log: baseLog.With("repo", "UserStatsRepo")}
}

func (usr *userStatsRepo) Get(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.UserStats, error) {
	transaction := tx
	if transaction == nil {
		transaction = usr.db
	}

	var result types.UserStats
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("user stats %s", userID)
		}
		return nil, err
	}
	return &result, nil
}

func (usr *userStatsRepo) EnsureRow(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = usr.db
	}

	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&types.UserStats{UserID: userID}).Error
}

func (usr *userStatsRepo) increment(ctx context.Context, tx *gorm.DB, userID uuid.UUID, column string, delta int) error {
	transaction := tx
	if transaction == nil {
		transaction = usr.db
	}

	return transaction.WithContext(ctx).
		Model(&types.UserStats{}).
		Where("user_id = ?", userID).
		Update(column, gorm.Expr(column+" + ?", delta)).Error
}

func (usr *userStatsRepo) IncrementPostCount(ctx context.Context, tx *gorm.DB, userID uuid.UUID, delta int) error {
	return usr.increment(ctx, tx, userID, "post_count", delta)
}

func (usr *userStatsRepo) IncrementFollowerCount(ctx context.Context, tx *gorm.DB, userID uuid.UUID, delta int) error {
	return usr.increment(ctx, tx, userID, "follower_count", delta)
}

func (usr *userStatsRepo) IncrementFollowingCount(ctx context.Context, tx *gorm.DB, userID uuid.UUID, delta int) error {
	return usr.increment(ctx, tx, userID, "following_count", delta)
}
