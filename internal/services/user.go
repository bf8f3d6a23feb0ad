package services

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/forkful/forkful-backend/internal/pkg/apperr"
	"github.com/forkful/forkful-backend/internal/pkg/logger"
	"github.com/forkful/forkful-backend/internal/repos"
	"github.com/forkful/forkful-backend/internal/requestdata"
	"github.com/forkful/forkful-backend/internal/types"
)

type UserService interface {
	Create(ctx context.Context, email, firstName, lastName string) (*types.User, error)
	GetMe(ctx context.Context) (*types.User, error)
	Stats(ctx context.Context, userID uuid.UUID) (*types.UserStats, error)
}

type userService struct {
	db        *gorm.DB
	log       *logger.Logger
	userRepo  repos.UserRepo
	statsRepo repos.UserStatsRepo
	avatar    AvatarService
}

func NewUserService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo, statsRepo repos.UserStatsRepo, avatar AvatarService) UserService {
	return &userService{
		db:        db,
		log:       log.With("service", "UserService"),
		userRepo:  userRepo,
		statsRepo: statsRepo,
		avatar:    avatar,
	}
}

func (us *userService) Create(ctx context.Context, email, firstName, lastName string) (*types.User, error) {
	user := &types.User{
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
	}

	err := us.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		created, err := us.userRepo.Create(ctx, tx, []*types.User{user})
		if err != nil {
			return err
		}
		user = created[0]
		return us.statsRepo.EnsureRow(ctx, tx, user.ID)
	})
	if err != nil {
		return nil, err
	}

	if us.avatar != nil {
		if err := us.avatar.CreateAndUploadUserAvatar(ctx, user); err != nil {
			us.log.Warn("failed to generate initial avatar (ignored)", "userID", user.ID, "error", err)
		}
	}
	return user, nil
}

func (us *userService) GetMe(ctx context.Context) (*types.User, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, apperr.ErrUnauthenticated
	}
	return us.userRepo.GetByID(ctx, nil, rd.UserID)
}

func (us *userService) Stats(ctx context.Context, userID uuid.UUID) (*types.UserStats, error) {
	return us.statsRepo.Get(ctx, nil, userID)
}
