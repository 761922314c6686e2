package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pawgather/pawfeed/internal/cache"
	"github.com/pawgather/pawfeed/internal/db"
	"github.com/pawgather/pawfeed/internal/feed"
	"github.com/pawgather/pawfeed/internal/ranking"
	"github.com/pawgather/pawfeed/pkg/config"
	"github.com/pawgather/pawfeed/pkg/logging"
)

// Router sets up API routes
type Router struct {
	handler *JSONRPCHandler
	db      *db.DB
	cache   *cache.Cache
	logger  *zap.Logger
}

// NewRouter creates a new API router
func NewRouter(database *db.DB, redisCache *cache.Cache, engine *ranking.Engine, cfg *config.Config) *Router {
	handler := NewJSONRPCHandler()
	router := &Router{
		handler: handler,
		db:      database,
		cache:   redisCache,
		logger:  logging.GetLogger().With(zap.String("component", "api-router")),
	}

	router.registerMethods(engine, cfg)

	return router
}

// SetupRoutes sets up all API routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	// Health check endpoints
	engine.GET("/health", r.healthHandler)
	engine.GET("/.well-known/healthcheck.json", r.healthHandler)

	// JSON-RPC endpoint
	engine.POST("/", r.handler.Handle)
}

// registerMethods registers all API methods
func (r *Router) registerMethods(engine *ranking.Engine, cfg *config.Config) {
	repo := db.NewRepository(r.db.DB)
	posts := db.NewPostRepository(repo)
	settings := db.NewSettingsRepository(repo)
	interactions := db.NewInteractionRepository(repo)

	svc := feed.NewService(engine, feed.Stores{
		Posts:        posts,
		Follows:      settings,
		Moderation:   settings,
		Preferences:  settings,
		Interactions: interactions,
	}, &cfg.Feed)

	feedAPI := NewFeedAPI(svc, r.cache, &cfg.Feed)

	r.handler.RegisterMethod("feed.get_ranked", feedAPI.GetRanked)
	r.handler.RegisterMethod("feed.get_following", feedAPI.GetFollowing)
	r.handler.RegisterMethod("feed.get_explore", feedAPI.GetExplore)
	r.handler.RegisterMethod("feed.get_signals", feedAPI.GetSignals)
}

// healthHandler handles health check requests
func (r *Router) healthHandler(c *gin.Context) {
	c.JSON(200, gin.H{
		"status":  "OK",
		"service": "pawfeed-api",
	})
}
