package app

import (
	"github.com/forkful/forkful-backend/internal/handlers"
	"github.com/forkful/forkful-backend/internal/pkg/logger"
	"github.com/forkful/forkful-backend/internal/realtime"
)

type Handlers struct {
	User          *handlers.UserHandler
	Feed          *handlers.FeedHandler
	Marker        *handlers.MarkerHandler
	Featured      *handlers.FeaturedHandler
	Post          *handlers.PostHandler
	Like          *handlers.LikeHandler
	Establishment *handlers.EstablishmentHandler
	Save          *handlers.SaveHandler
	Follow        *handlers.FollowHandler
	SSE           *handlers.SSEHandler
}

func wireHandlers(log *logger.Logger, s Services, hub *realtime.Hub) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		User:          handlers.NewUserHandler(s.User, s.Avatar),
		Feed:          handlers.NewFeedHandler(s.Feed),
		Marker:        handlers.NewMarkerHandler(s.Marker),
		Featured:      handlers.NewFeaturedHandler(s.Featured),
		Post:          handlers.NewPostHandler(s.Post, s.Aggregate),
		Like:          handlers.NewLikeHandler(s.Like),
		Establishment: handlers.NewEstablishmentHandler(s.Establishment),
		Save:          handlers.NewSaveHandler(s.Save),
		Follow:        handlers.NewFollowHandler(s.Follow),
		SSE:           handlers.NewSSEHandler(hub),
	}
}
