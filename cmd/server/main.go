package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gng-archive-api/internal/api"
	"github.com/gng-archive-api/internal/config"
	"github.com/gng-archive-api/internal/curation"
	"github.com/gng-archive-api/internal/database"
	"github.com/gng-archive-api/internal/realtime"
	"github.com/gng-archive-api/internal/repository"
	"github.com/gng-archive-api/internal/service"
	"github.com/gng-archive-api/internal/storage"
	"github.com/gng-archive-api/internal/translate"
	"github.com/gng-archive-api/internal/wayback"
	"github.com/gng-archive-api/pkg/logger"
	"github.com/joho/godotenv"
)

func main() {
	// Load a local .env if one exists; real deployments set the environment
	godotenv.Load()

	// Initialize logger
	log := logger.New()
	log.Info().Msg("Starting GNG archive API server...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Optional source-name overrides
	if path := os.Getenv("SOURCE_TABLE_PATH"); path != "" {
		if err := curation.LoadSourceNames(path); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Source table not loaded")
		}
	}

	// Initialize database
	db, err := database.New(&cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	// Run migrations
	migrationsPath := os.Getenv("MIGRATIONS_PATH")
	if migrationsPath == "" {
		migrationsPath = "./migrations"
	}
	if err := db.RunMigrations(migrationsPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to run database migrations")
	}

	// Initialize repositories
	repos := repository.New(db)

	// Initialize collaborators
	evidence, err := storage.NewDiskStore(&cfg.Storage, cfg.Server.PublicBaseURL, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize evidence store")
	}
	translator := translate.NewClient(&cfg.Translate, log)
	archiver := wayback.NewClient(&cfg.Wayback, log)
	hub := realtime.NewHub(log)

	// Initialize services
	services := service.NewServices(repos, evidence, translator, archiver, hub, cfg, log)

	// Initialize router
	router := api.NewRouter(services, hub, cfg, log)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.ReadTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	// Let in-flight mirror submissions land before the process exits
	services.Review.Close()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited gracefully")
}
