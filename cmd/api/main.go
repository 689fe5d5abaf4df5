// Command api is the Analiz prediction API server.
//
// Usage:
//
//	analiz-api
//	API_PORT=8080 STORE_BACKEND=redis analiz-api

// @title Analiz Prediction API
// @version 3.0.0
// @description Daily football predictions: per-match market probabilities (1X2, over 2.5, both teams to score, first-half over 1.5), picks and tiered coupons, generated once per day from football-data.org.
// @host localhost:8000
// @BasePath /api/v1
// @schemes http https
// @contact.name Analiz
// @license.name MIT
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"

	"github.com/em1rekinci/analizsitesi/internal/api"
	"github.com/em1rekinci/analizsitesi/internal/api/handler"
	"github.com/em1rekinci/analizsitesi/internal/app"
	"github.com/em1rekinci/analizsitesi/internal/cache"
	"github.com/em1rekinci/analizsitesi/internal/config"

	_ "github.com/em1rekinci/analizsitesi/docs" // swagger docs
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	// Load .env if present
	_ = godotenv.Load(".env")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	logger = newLogger(cfg)
	slog.SetDefault(logger)

	// Context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	// Assemble pipeline and store
	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	// Seed team cache from today's persisted profiles
	if n, err := a.Service.Warm(ctx); err != nil {
		logger.Warn("Startup team cache load failed", "error", err)
	} else {
		logger.Info("Team cache loaded from store", "teams", n, "day", a.Service.Day())
	}

	// Initialize cache
	appCache := cache.New(cfg.CacheEnabled)
	logger.Info("Cache initialized", "enabled", cfg.CacheEnabled)

	// Create router
	h := handler.New(a.Service, a.Service, appCache, cfg, handler.FreeTier, logger)
	router := api.NewRouter(h, a.Metrics, cfg)

	// Create HTTP server. Writes can block on a full daily run.
	addr := fmt.Sprintf("%s:%d", cfg.APIHost, cfg.APIPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	go func() {
		logger.Info("Starting Analiz Prediction API",
			"addr", addr,
			"environment", cfg.Environment,
			"store", cfg.StoreBackend,
			"competitions", len(cfg.Competitions),
			"docs", fmt.Sprintf("http://localhost:%d/docs/", cfg.APIPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt
	<-ctx.Done()
	logger.Info("Shutting down...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown error", "error", err)
	}
	logger.Info("Server stopped")
}

// newLogger logs JSON in production and text elsewhere.
func newLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if cfg.Debug {
		opts.Level = slog.LevelDebug
	}
	if cfg.IsProduction() {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
