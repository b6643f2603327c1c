package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/BerylCAtieno/medical-record-assistant/internal/analyzer"
	"github.com/BerylCAtieno/medical-record-assistant/internal/config"
	"github.com/BerylCAtieno/medical-record-assistant/internal/db"
	"github.com/BerylCAtieno/medical-record-assistant/internal/extractor"
	"github.com/BerylCAtieno/medical-record-assistant/internal/models"
	"github.com/BerylCAtieno/medical-record-assistant/internal/repository"
	"github.com/BerylCAtieno/medical-record-assistant/internal/router"
	"github.com/BerylCAtieno/medical-record-assistant/internal/services"
	"github.com/BerylCAtieno/medical-record-assistant/internal/storage"
	"github.com/BerylCAtieno/medical-record-assistant/internal/utils"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger := utils.NewLogger(cfg.LogLevel)

	// Initialize database
	database, err := db.NewSQLiteDB(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	defer database.Close()

	// Run migrations
	if err := db.RunMigrations(database); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), cfg.ServiceTimeout)
	defer cancelStartup()

	store, err := storage.New(startupCtx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize storage", "backend", cfg.StorageBackend, "error", err)
	}

	inferrer, err := analyzer.NewInferrer(models.ProcessingMode(cfg.InferenceMode), cfg.InferenceAPIURL, cfg.ServiceTimeout, logger)
	if err != nil {
		logger.Fatal("Failed to initialize inference", "error", err)
	}

	modeService, err := services.NewModeService(startupCtx, repository.NewSettingsRepository(database), inferrer, logger)
	if err != nil {
		logger.Fatal("Failed to initialize inference mode", "error", err)
	}

	analysisService := services.NewAnalysisService(
		repository.NewAnalysisRepository(database),
		store,
		extractor.New(cfg.OCRAPIURL, cfg.ServiceTimeout, logger),
		inferrer,
		logger,
	)

	// Setup HTTP router
	handler := router.NewRouter(analysisService, modeService, router.Options{MaxFileSize: cfg.MaxFileSize}, logger)

	// OCR and inference each get ServiceTimeout, so uploads may take twice that.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2*cfg.ServiceTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	go func() {
		logger.Info("Starting server", "port", cfg.Port, "storage", cfg.StorageBackend)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", "error", err)
	}

	logger.Info("Server exited")
}
