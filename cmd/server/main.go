package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/api"
	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/app"
	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/config"
	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/database"
	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/scheduler"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", "error", err)
	}

	logger := app.NewLogger(os.Stderr, cfg.Log)

	// Open database connection
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		logger.Fatal("Failed to open database", "error", err)
	}
	defer db.Close()

	version, err := database.Migrate(context.Background(), db)
	if err != nil {
		logger.Fatal("Failed to migrate database", "error", err)
	}
	logger.Info("Connected to database", "path", cfg.Database.Path, "schema", version)

	services := app.New(db, cfg, logger)

	var snapshots *scheduler.Scheduler
	if cfg.Snapshot.Enabled {
		snapshots, err = scheduler.New(cfg.Snapshot.Schedule, services.Snapshot, 5*time.Minute, logger)
		if err != nil {
			logger.Fatal("Failed to schedule snapshots", "error", err)
		}
		snapshots.Start()
	}

	router := api.NewRouter(services.Services, cfg, logger)

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Starting server", "addr", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed to start", "error", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if snapshots != nil {
		snapshots.Stop(ctx)
	}
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	logger.Info("Server exited")
}
