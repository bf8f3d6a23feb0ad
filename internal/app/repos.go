package app

import (
	"gorm.io/gorm"

	"github.com/forkful/forkful-backend/internal/pkg/logger"
	"github.com/forkful/forkful-backend/internal/repos"
)

type Repos struct {
	User          repos.UserRepo
	UserStats     repos.UserStatsRepo
	Establishment repos.EstablishmentRepo
	Post          repos.PostRepo
	Save          repos.SaveRepo
	Follow        repos.FollowRepo
	Like          repos.LikeRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:          repos.NewUserRepo(db, log),
		UserStats:     repos.NewUserStatsRepo(db, log),
		Establishment: repos.NewEstablishmentRepo(db, log),
		Post:          repos.NewPostRepo(db, log),
		Save:          repos.NewSaveRepo(db, log),
		Follow:        repos.NewFollowRepo(db, log),
		Like:          repos.NewLikeRepo(db, log),
	}
}
