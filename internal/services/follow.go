package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/forkful/forkful-backend/internal/pkg/logger"
	"github.com/forkful/forkful-backend/internal/repos"
	"github.com/forkful/forkful-backend/internal/types"
)

type FollowService interface {
	Follow(ctx context.Context, followerID, followingID uuid.UUID) error
	Unfollow(ctx context.Context, followerID, followingID uuid.UUID) error
	FollowingIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}

type followService struct {
	db         *gorm.DB
	log        *logger.Logger
	followRepo repos.FollowRepo
	statsRepo  repos.UserStatsRepo
	userRepo   repos.UserRepo
}

func NewFollowService(db *gorm.DB, log *logger.Logger, followRepo repos.FollowRepo, statsRepo repos.UserStatsRepo, userRepo repos.UserRepo) FollowService {
	return &followService{
		db:         db,
		log:        log.With("service", "FollowService"),
		followRepo: followRepo,
		statsRepo:  statsRepo,
		userRepo:   userRepo,
	}
}

func (fs *followService) Follow(ctx context.Context, followerID, followingID uuid.UUID) error {
	if followerID == followingID {
		return fmt.Errorf("cannot follow yourself")
	}
	if _, err := fs.userRepo.GetByID(ctx, nil, followingID); err != nil {
		return err
	}

	return fs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		created, err := fs.followRepo.Create(ctx, tx, &types.Follow{FollowerID: followerID, FollowingID: followingID})
		if err != nil {
			return err
		}
		if !created {
			return nil
		}
		if err := fs.statsRepo.EnsureRow(ctx, tx, followerID); err != nil {
			return err
		}
		if err := fs.statsRepo.EnsureRow(ctx, tx, followingID); err != nil {
			return err
		}
		if err := fs.statsRepo.IncrementFollowingCount(ctx, tx, followerID, 1); err != nil {
			return err
		}
		return fs.statsRepo.IncrementFollowerCount(ctx, tx, followingID, 1)
	})
}

func (fs *followService) Unfollow(ctx context.Context, followerID, followingID uuid.UUID) error {
	return fs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		deleted, err := fs.followRepo.Delete(ctx, tx, followerID, followingID)
		if err != nil {
			return err
		}
		if !deleted {
			return nil
		}
		if err := fs.statsRepo.IncrementFollowingCount(ctx, tx, followerID, -1); err != nil {
			return err
		}
		return fs.statsRepo.IncrementFollowerCount(ctx, tx, followingID, -1)
	})
}

func (fs *followService) FollowingIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	return fs.followRepo.FollowingIDs(ctx, nil, userID)
}
