package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pawgather/pawfeed/internal/api"
	"github.com/pawgather/pawfeed/internal/cache"
	"github.com/pawgather/pawfeed/internal/db"
	"github.com/pawgather/pawfeed/internal/ranking"
	"github.com/pawgather/pawfeed/pkg/config"
	"github.com/pawgather/pawfeed/pkg/logging"
	"github.com/pawgather/pawfeed/pkg/telemetry"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logging.InitLogger(&cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logging.GetLogger().Sync()

	logger := logging.GetLogger()
	logger.Info("Starting Pawfeed API Server")

	// Initialize telemetry
	telemetryShutdown, err := telemetry.Init(&cfg.Telemetry)
	if err != nil {
		logger.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer telemetryShutdown()

	// Connect to database
	database, err := db.New(&cfg.Database, cfg.Logging.Level)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close()

	// Connect to Redis (optional)
	redisCache, err := cache.New(&cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisCache.Close()

	// Build the ranking engine with any configured weight overrides
	engine := ranking.NewEngine(weightsFromConfig(&cfg.Ranking))

	// Create Gin router
	if cfg.Logging.Level == "DEBUG" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	ginEngine := gin.New()
	ginEngine.Use(gin.Recovery())

	router := api.NewRouter(database, redisCache, engine, cfg)
	router.SetupRoutes(ginEngine)

	// Create HTTP server
	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: ginEngine,
	}

	// Start server in goroutine
	go func() {
		logger.Info("Server starting", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

// weightsFromConfig maps the config overrides onto engine weights.
// Zero values keep the engine defaults.
func weightsFromConfig(cfg *config.RankingConfig) *ranking.Weights {
	return &ranking.Weights{
		Engagement: ranking.EngagementWeights{
			Likes:    cfg.LikesWeight,
			Comments: cfg.CommentsWeight,
			Shares:   cfg.SharesWeight,
			Saves:    cfg.SavesWeight,
		},
		Diversity: ranking.DiversitySettings{
			Window:           cfg.DiversityWindow,
			MaxAuthorRepeats: cfg.MaxAuthorRepeats,
			Penalty:          cfg.DiversityPenalty,
		},
	}
}
