package app

import (
	"gorm.io/gorm"

	"github.com/forkful/forkful-backend/internal/pkg/logger"
	"github.com/forkful/forkful-backend/internal/services"
)

type Services struct {
	Auth          services.AuthService
	Avatar        services.AvatarService
	User          services.UserService
	Establishment services.EstablishmentService
	Post          services.PostService
	Aggregate     services.AggregateService
	Feed          services.FeedService
	Marker        services.MarkerService
	Featured      services.FeaturedService
	Like          services.LikeService
	Save          services.SaveService
	Follow        services.FollowService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos, c Clients) (Services, error) {
	log.Info("Wiring services...")

	avatar, err := services.NewAvatarService(db, log, r.User, c.Bucket)
	if err != nil {
		return Services{}, err
	}

	return Services{
		Auth:          services.NewAuthService(log, cfg.JWTSecretKey),
		Avatar:        avatar,
		User:          services.NewUserService(db, log, r.User, r.UserStats, avatar),
		Establishment: services.NewEstablishmentService(db, log, r.Establishment, c.Places),
		Post:          services.NewPostService(db, log, r.Post, r.Establishment, c.Bucket),
		Aggregate:     services.NewAggregateService(db, log, r.Establishment, r.Post, r.UserStats, c.Bus),
		Feed:          services.NewFeedService(db, log, r.Post, r.Follow, r.User, r.Establishment, cfg.FeedPageSize),
		Marker:        services.NewMarkerService(db, log, r.Save, r.Post, r.Follow, r.User, r.Establishment),
		Featured:      services.NewFeaturedService(db, log, r.Establishment, r.Post),
		Like:          services.NewLikeService(db, log, r.Like, r.Post, c.Bus),
		Save:          services.NewSaveService(db, log, r.Save, r.Establishment),
		Follow:        services.NewFollowService(db, log, r.Follow, r.UserStats, r.User),
	}, nil
}
