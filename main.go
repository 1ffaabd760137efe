package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"

	"github.com/engagekit/engagement-tracker/internal/api"
	"github.com/engagekit/engagement-tracker/internal/config"
	"github.com/engagekit/engagement-tracker/internal/handler"
	"github.com/engagekit/engagement-tracker/internal/logger"
	"github.com/engagekit/engagement-tracker/internal/profiling"
	"github.com/engagekit/engagement-tracker/internal/resolver"
	"github.com/engagekit/engagement-tracker/internal/sidechannel"
	"github.com/engagekit/engagement-tracker/internal/storage"
)

// Database connection timeout.
const dbPingTimeout = 5 * time.Second

func main() {
	os.Exit(run())
}

func run() int {
	// Start profiling server (if enabled)
	profiling.StartPprofServer()

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}

	log, err := createLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		return 1
	}
	defer func() { _ = log.Sync() }()

	db, err := connectDatabase(cfg, log)
	if err != nil {
		log.Error("Failed to connect to database", logger.Error(err))
		return 1
	}
	defer func() { _ = db.Close() }()

	return runServer(cfg, log, db)
}

// loadConfig loads and validates configuration.
func loadConfig() (*config.Config, error) {
	configPath := config.GetConfigPath("config.yml")
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if validationErr := cfg.Validate(); validationErr != nil {
		return nil, fmt.Errorf("validate config: %w", validationErr)
	}
	return cfg, nil
}

// createLogger creates a logger instance from configuration.
func createLogger(cfg *config.Config) (logger.Logger, error) {
	log, err := logger.New(logger.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Development: cfg.Service.Debug,
	})
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	return log.With(logger.String("service", cfg.Service.Name)), nil
}

// connectDatabase opens and verifies a database connection.
func connectDatabase(cfg *config.Config, log logger.Logger) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), dbPingTimeout)
	defer cancel()

	if pingErr := db.PingContext(ctx); pingErr != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", pingErr)
	}

	log.Info("Database connected",
		logger.String("host", cfg.Database.Host),
		logger.Int("port", cfg.Database.Port),
		logger.String("database", cfg.Database.Database),
	)

	return db, nil
}

// runServer creates all dependencies and starts the HTTP server.
func runServer(cfg *config.Config, log logger.Logger, db *sql.DB) int {
	store := storage.NewStore(db, log)

	// Side-channel caches; the posting bot populates them in-process when it
	// runs alongside the tracker. An empty cache is fully functional.
	cache := sidechannel.NewCache()

	res := resolver.New(store, cache, cache, cfg.Tracking.FallbackURL)

	visitHandler := handler.NewVisitHandler(res, log)
	clicksHandler := handler.NewClicksHandler(store, log)
	healthHandler := handler.NewHealthHandler(cfg.Service.Name)

	// done signals background goroutines (rate limiter) on shutdown
	done := make(chan struct{})
	defer close(done)

	server := api.NewServer(cfg.Service.Port, cfg.Service.Debug, log, func(router *gin.Engine) {
		api.SetupRoutes(router,
			visitHandler, clicksHandler, healthHandler,
			cfg.RateLimit.MaxVisitsPerMinute, cfg.RateLimitWindow(), done,
		)
	})

	log.Info("Engagement tracker starting",
		logger.Int("port", cfg.Service.Port),
		logger.String("fallback_url", cfg.Tracking.FallbackURL),
	)

	if err := server.Run(); err != nil {
		log.Error("Server error", logger.Error(err))
		return 1
	}

	log.Info("Engagement tracker exited cleanly")
	return 0
}
