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

// PageKey is the keyset position of the last row of a returned page.
// (created_at, id) is a total order because id breaks timestamp ties.
type PageKey struct {
	CreatedAt time.Time
	ID        uuid.UUID
}

type PostRepo interface {
	Create(ctx context.Context, tx *gorm.DB, post *types.Post) (*types.Post, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Post, error)
	Update(ctx context.Context, tx *gorm.DB, post *types.Post) error
	// FinalizedByUsers returns a page of finalized posts authored by any of
	// the given users, newest first, starting strictly after the cursor.
	FinalizedByUsers(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID, after *PageKey, limit int) ([]*types.Post, error)
	FinalizedByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Post, error)
	RecentFinalizedByEstablishments(ctx context.Context, tx *gorm.DB, establishmentIDs []uuid.UUID, limit int) ([]*types.Post, error)
	// Finalize flips the draft to finalized exactly once; ok=false means the
	// post was already finalized.
	Finalize(ctx context.Context, tx *gorm.DB, id uuid.UUID, review string, ratings types.Ratings, tags []string, now time.Time) (bool, error)
	// AdjustLikeCount applies a relative delta and returns the new count.
	AdjustLikeCount(ctx context.Context, tx *gorm.DB, id uuid.UUID, delta int) (int, error)
}

type postRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostRepo(db *gorm.DB, baseLog *logger.Logger) PostRepo {
	return &postRepo{db: db, log: baseLog.With("repo", "PostRepo")}
}

func (pr *postRepo) Create(ctx context.Context, tx *gorm.DB, post *types.Post) (*types.Post, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	if err := transaction.WithContext(ctx).Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

func (pr *postRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Post, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var result types.Post
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("post %s", id)
		}
		return nil, err
	}
	return &result, nil
}

func (pr *postRepo) Update(ctx context.Context, tx *gorm.DB, post *types.Post) error {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	return transaction.WithContext(ctx).Save(post).Error
}

func (pr *postRepo) FinalizedByUsers(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID, after *PageKey, limit int) ([]*types.Post, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var results []*types.Post
	if len(userIDs) == 0 {
		return results, nil
	}

	q := transaction.WithContext(ctx).
		Where("user_id IN ? AND finalized = ?", userIDs, true)
	if after != nil {
		q = q.Where("(created_at < ?) OR (created_at = ? AND id < ?)", after.CreatedAt, after.CreatedAt, after.ID)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.
		Order("created_at DESC").
		Order("id DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (pr *postRepo) FinalizedByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Post, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var results []*types.Post
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND finalized = ?", userID, true).
		Order("created_at DESC").
		Order("id DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (pr *postRepo) RecentFinalizedByEstablishments(ctx context.Context, tx *gorm.DB, establishmentIDs []uuid.UUID, limit int) ([]*types.Post, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var results []*types.Post
	if len(establishmentIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("establishment_id IN ? AND finalized = ?", establishmentIDs, true).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (pr *postRepo) Finalize(ctx context.Context, tx *gorm.DB, id uuid.UUID, review string, ratings types.Ratings, tags []string, now time.Time) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	res := transaction.WithContext(ctx).
		Model(&types.Post{}).
		Where("id = ? AND finalized = ?", id, false).
		Updates(map[string]any{
			"review":       review,
			"ratings":      datatypes.NewJSONType(ratings),
			"tags":         datatypes.NewJSONSlice(tags),
			"finalized":    true,
			"finalized_at": now,
			"updated_at":   now,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (pr *postRepo) AdjustLikeCount(ctx context.Context, tx *gorm.DB, id uuid.UUID, delta int) (int, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	res := transaction.WithContext(ctx).
		Model(&types.Post{}).
		Where("id = ?", id).
		Update("like_count", gorm.Expr("like_count + ?", delta))
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, apperr.NotFoundf("post %s", id)
	}

	var count int
	if err := transaction.WithContext(ctx).
		Model(&types.Post{}).
		Where("id = ?", id).
		Pluck("like_count", &count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
