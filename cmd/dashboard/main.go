package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/contentclicks/dashboard/internal/api"
	"github.com/contentclicks/dashboard/internal/backend"
	"github.com/contentclicks/dashboard/internal/config"
	"github.com/contentclicks/dashboard/internal/logger"
	"github.com/contentclicks/dashboard/internal/repository"
	"github.com/contentclicks/dashboard/internal/service"
)

func main() {
	// Initialize logger first (from environment, with rotation support)
	appLogger := logger.NewDefault()
	logger.SetDefaultLogger(appLogger)
	defer logger.Sync()

	// Load configuration
	// Support CONFIG_PATH environment variable for production deployments
	configPath := os.Getenv("CONFIG_PATH")
	cfg, err := config.Load(configPath)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to load config")
	}

	// Initialize snapshot cache database
	db, err := repository.InitDB(&cfg.Database)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize database")
	}
	snapshotRepo := repository.NewSnapshotRepository(db)

	// Initialize collector backend client
	client := backend.NewClient(&backend.Config{
		BaseURL: cfg.Backend.BaseURL,
		Timeout: cfg.Backend.Timeout,
		Token:   cfg.Backend.Token,
	})

	// Initialize synchronizer and poller
	views := service.NewViewStore()
	syncService := service.NewSyncService(client, views, snapshotRepo, appLogger, &service.SyncConfig{
		TopPerformerLimit: cfg.Collect.TopPerformers,
	})
	poller := service.NewPoller(client, syncService, syncService, appLogger, &service.PollerConfig{
		Interval:    cfg.Poll.Interval,
		MaxAttempts: cfg.Poll.MaxAttempts,
		SettleDelay: cfg.Poll.SettleDelay,
	})

	// Setup router
	router := api.SetupRouter(client, poller, syncService, cfg, appLogger)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		appLogger.WithFields(logger.Fields{
			"port":    cfg.Server.Port,
			"mode":    cfg.Server.Mode,
			"backend": cfg.Backend.BaseURL,
		}).Info("Starting dashboard server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.WithError(err).Fatal("Server forced to shutdown")
	}

	appLogger.Info("Server exited")
}
