package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"flashdeck/internal/api"
	"flashdeck/internal/config"
	"flashdeck/internal/db"
	"flashdeck/internal/logger"
	"flashdeck/internal/repository/sqlite"
	"flashdeck/internal/search"
	"flashdeck/internal/services"
	"flashdeck/internal/worker"
)

func main() {
	cfg := config.Load()

	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	if err := cfg.Validate(); err != nil {
		log.Error("%v", err)
		os.Exit(1)
	}

	log.Info("===========================================")
	log.Info("Flashdeck Server Starting")
	log.Info("===========================================")
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("session_ttl_hours=%d", cfg.SessionTTLHours)
	log.Debug("maintenance_workers=%d", cfg.MaintenanceWorkers)
	log.Debug("maintenance_interval_minutes=%d", cfg.MaintenanceInterval)
	log.Debug("stale_session_minutes=%d", cfg.StaleSessionMinutes)

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	// Repositories
	users := sqlite.NewUserRepository(database.DB)
	authSessions := sqlite.NewAuthSessionRepository(database.DB)
	decks := sqlite.NewDeckRepository(database.DB)
	cards := sqlite.NewFlashcardRepository(database.DB)
	studyRepo := sqlite.NewStudyRepository(database.DB)

	// Recent searches persist to disk when a path is configured.
	var recent search.RecentStore
	if cfg.RecentSearchesPath != "" {
		recent = search.NewFileRecentStore(cfg.RecentSearchesPath)
	} else {
		recent = search.NewMemoryRecentStore()
	}

	// Services
	sessionTTL := time.Duration(cfg.SessionTTLHours) * time.Hour
	authService := services.NewAuthService(users, authSessions, cfg.BcryptCost, sessionTTL)
	deckService := services.NewDeckService(decks)
	cardService := services.NewFlashcardService(cards, decks)
	searchService := services.NewSearchService(decks, cards, recent)
	studyService := services.NewStudyService(studyRepo)
	dashboardService := services.NewDashboardService(decks, cards, studyService, studyRepo)

	// Background maintenance
	maintenancePool := worker.NewPool(cfg.MaintenanceWorkers, cfg.MaintenanceQueue)

	srv := (&api.Server{
		Auth:         authService,
		Decks:        deckService,
		Cards:        cardService,
		Search:       searchService,
		Study:        studyService,
		Dashboard:    dashboardService,
		CORSOrigins:  cfg.CORSOrigins,
		SessionTTL:   sessionTTL,
		SecureCookie: cfg.CookieSecure,
	}).WithHealthDB(database.DB)

	ctx, cancel := context.WithCancel(context.Background())
	maintenancePool.Start(ctx)

	// Periodic maintenance sweep: purge expired login sessions and close
	// study sessions abandoned mid-run.
	go func() {
		interval := time.Duration(cfg.MaintenanceInterval) * time.Minute
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				maintenancePool.Submit(&worker.PurgeAuthSessionsJob{Sessions: authSessions})
				maintenancePool.Submit(&worker.CloseStaleStudySessionsJob{
					Study:   studyRepo,
					MaxIdle: time.Duration(cfg.StaleSessionMinutes) * time.Minute,
				})
			}
		}
	}()

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("stopping background workers")
	cancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	maintenancePool.Stop()

	log.Info("===========================================")
	log.Info("Flashdeck Server Stopped")
	log.Info("===========================================")
}
