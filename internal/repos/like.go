package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/forkful/forkful-backend/internal/pkg/logger"
	"github.com/forkful/forkful-backend/internal/types"
)

// LikeRepo stores like existence rows. Existence is never assumed by
// callers; Create and Delete report whether they changed anything so the
// derived counter is only adjusted for real transitions.
type LikeRepo interface {
	Create(ctx context.Context, tx *gorm.DB, like *types.Like) (bool, error)
	Delete(ctx context.Context, tx *gorm.DB, userID, postID uuid.UUID) (bool, error)
	Exists(ctx context.Context, tx *gorm.DB, userID, postID uuid.UUID) (bool, error)
}

type likeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLikeRepo(db *gorm.DB, baseLog *logger.Logger) LikeRepo {
	return &likeRepo{db: db, log: baseLog.With("repo", "LikeRepo")}
}

func (lr *likeRepo) Create(ctx context.Context, tx *gorm.DB, like *types.Like) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}

	res := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(like)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (lr *likeRepo) Delete(ctx context.Context, tx *gorm.DB, userID, postID uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}

	res := transaction.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&types.Like{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (lr *likeRepo) Exists(ctx context.Context, tx *gorm.DB, userID, postID uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Like{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
