package app

import (
	"github.com/gin-gonic/gin"

	"github.com/forkful/forkful-backend/internal/pkg/logger"
	"github.com/forkful/forkful-backend/internal/server"
)

func wireRouter(log *logger.Logger, cfg Config, h Handlers, m Middleware) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		Log:                  log,
		AllowedOrigins:       cfg.AllowedOrigins,
		AuthMiddleware:       m.Auth,
		UserHandler:          h.User,
		FeedHandler:          h.Feed,
		MarkerHandler:        h.Marker,
		FeaturedHandler:      h.Featured,
		PostHandler:          h.Post,
		LikeHandler:          h.Like,
		EstablishmentHandler: h.Establishment,
		SaveHandler:          h.Save,
		FollowHandler:        h.Follow,
		SSEHandler:           h.SSE,
	})
}
