// Package main is the entry point for the WealthWise advisor service.
// It validates household financial profiles, delegates the actual
// reasoning to a separately-hosted AI advisory backend over HTTP, and
// serves the resulting advice through a small JSON API.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/wealthwise/advisor/internal/config"
	"github.com/wealthwise/advisor/internal/database"
	"github.com/wealthwise/advisor/internal/modules/advisory"
	"github.com/wealthwise/advisor/internal/modules/history"
	"github.com/wealthwise/advisor/internal/modules/profiles"
	"github.com/wealthwise/advisor/internal/scheduler"
	"github.com/wealthwise/advisor/internal/server"
	"github.com/wealthwise/advisor/pkg/logger"
)

func main() {
	// Load configuration first to get the log level. A missing
	// ADVISOR_SERVICE_URL fails here: it signals a broken deployment,
	// not a transient condition.
	cfg, err := config.Load()
	if err != nil {
		fallbackLog := logger.New(logger.Config{Level: "info", Pretty: true})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})

	log.Info().Msg("Starting WealthWise advisor")

	// Database
	db, err := database.New(filepath.Join(cfg.DataDir, "advisor.db"))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	// Advisory gateway. The client is constructed eagerly so a missing
	// or empty base address aborts startup.
	client, err := advisory.NewClient(cfg.AdvisorServiceURL, cfg.AdvisorTimeout, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to configure advisory client")
	}
	gateway := advisory.NewGateway(client, advisory.NewMapper(log), log)

	// Repositories
	profileRepo := profiles.NewRepository(db.Conn(), log)
	historyRepo := history.NewRepository(db.Conn(), cfg.HistoryTTL)

	// Background jobs
	sched := scheduler.New(log)
	if err := sched.AddJob(cfg.CleanupSchedule, history.NewCleanupJob(historyRepo, log)); err != nil {
		log.Fatal().Err(err).Msg("Failed to register cleanup job")
	}
	sched.Start()
	defer sched.Stop()

	// HTTP server
	srv := server.New(server.Config{
		Port:     cfg.Port,
		DevMode:  cfg.DevMode,
		Log:      log,
		DB:       db,
		Gateway:  gateway,
		Client:   client,
		Profiles: profileRepo,
		History:  historyRepo,
	})

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
