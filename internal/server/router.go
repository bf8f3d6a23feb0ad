package server

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/forkful/forkful-backend/internal/handlers"
	"github.com/forkful/forkful-backend/internal/middleware"
	"github.com/forkful/forkful-backend/internal/pkg/logger"
)

type RouterConfig struct {
	Log                  *logger.Logger
	AllowedOrigins       []string
	AuthMiddleware       *middleware.AuthMiddleware
	UserHandler          *handlers.UserHandler
	FeedHandler          *handlers.FeedHandler
	MarkerHandler        *handlers.MarkerHandler
	FeaturedHandler      *handlers.FeaturedHandler
	PostHandler          *handlers.PostHandler
	LikeHandler          *handlers.LikeHandler
	EstablishmentHandler *handlers.EstablishmentHandler
	SaveHandler          *handlers.SaveHandler
	FollowHandler        *handlers.FollowHandler
	SSEHandler           *handlers.SSEHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(cfg.Log))
	router.Use(otelgin.Middleware("forkful-backend"))

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// Public
	router.GET("/healthcheck", handlers.Healthcheck)
	router.POST("/users", cfg.UserHandler.Create)
	router.GET("/featured", cfg.FeaturedHandler.GetFeatured)

	// Protected
	api := router.Group("/api")
	api.Use(cfg.AuthMiddleware.RequireAuth())

	// User
	api.GET("/user", cfg.UserHandler.GetMe)
	api.POST("/user/avatar", cfg.UserHandler.UploadAvatar)
	api.GET("/users/:id/stats", cfg.UserHandler.GetStats)
	api.GET("/users/:id/posts", cfg.FeedHandler.GetPostsByUser)
	api.GET("/users/:id/top-picks", cfg.FeedHandler.GetTopPicksByUser)
	api.POST("/users/:id/follow", cfg.FollowHandler.Follow)
	api.DELETE("/users/:id/follow", cfg.FollowHandler.Unfollow)
	api.GET("/following", cfg.FollowHandler.Following)

	// Feed
	api.GET("/feed", cfg.FeedHandler.GetFeed)

	// Markers
	api.GET("/markers", cfg.MarkerHandler.GetMarkers)

	// Posts
	api.POST("/posts", cfg.PostHandler.CreateDraft)
	api.GET("/posts/:id", cfg.PostHandler.Get)
	api.POST("/posts/:id/images", cfg.PostHandler.AttachImage)
	api.POST("/posts/:id/finalize", cfg.PostHandler.Finalize)
	api.POST("/posts/:id/like", cfg.LikeHandler.AddLike)
	api.DELETE("/posts/:id/like", cfg.LikeHandler.RemoveLike)
	api.GET("/posts/:id/like", cfg.LikeHandler.HasLiked)

	// Establishments
	api.GET("/establishments/:id", cfg.EstablishmentHandler.Get)
	api.GET("/establishments/:id/card", cfg.MarkerHandler.GetEstablishmentCard)
	api.POST("/establishments/ensure", cfg.EstablishmentHandler.EnsureFromPlace)
	api.GET("/places/suggest", cfg.EstablishmentHandler.SuggestPlaces)
	api.POST("/establishments/:id/save", cfg.SaveHandler.Save)
	api.DELETE("/establishments/:id/save", cfg.SaveHandler.Unsave)
	api.GET("/saves", cfg.SaveHandler.SavedByUser)

	// SSE
	api.GET("/sse/stream", cfg.SSEHandler.Stream)

	return router
}

// SplitOrigins parses a comma-separated origin list from config.
func SplitOrigins(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
