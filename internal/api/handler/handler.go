// Package handler provides HTTP handlers for all API endpoints.
// Handlers read the daily snapshot through the service and render it as
// JSON; rendered bodies are cached per day with ETags.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/em1rekinci/analizsitesi/internal/api/respond"
	"github.com/em1rekinci/analizsitesi/internal/cache"
	"github.com/em1rekinci/analizsitesi/internal/config"
	"github.com/em1rekinci/analizsitesi/internal/daily"
	"github.com/em1rekinci/analizsitesi/internal/markets"
	"github.com/em1rekinci/analizsitesi/internal/snapshot"
)

// Snapshots is the daily snapshot service the handlers depend on.
// *daily.Service satisfies it.
type Snapshots interface {
	Day() string
	Today(ctx context.Context) (*snapshot.Snapshot, error)
	Cached(ctx context.Context) (*snapshot.Snapshot, error)
	Refresh(ctx context.Context) (*snapshot.Snapshot, daily.RunResult, error)
	Ping(ctx context.Context) error
}

// AccessResolver decides whether a request belongs to a premium user.
// Accounts and payments live outside this service.
type AccessResolver interface {
	IsPremium(r *http.Request) bool
}

// AccessFunc adapts a function to AccessResolver.
type AccessFunc func(r *http.Request) bool

// IsPremium calls f(r).
func (f AccessFunc) IsPremium(r *http.Request) bool { return f(r) }

// FreeTier treats every request as a free user.
var FreeTier AccessResolver = AccessFunc(func(*http.Request) bool { return false })

// Handler holds shared dependencies for all endpoint handlers.
type Handler struct {
	snapshots Snapshots
	teams     markets.TeamSource
	cache     *cache.Cache
	cfg       *config.Config
	access    AccessResolver
	logger    *slog.Logger
}

// New creates a Handler with shared dependencies. A nil access resolver
// means FreeTier.
func New(snapshots Snapshots, teams markets.TeamSource, c *cache.Cache, cfg *config.Config, access AccessResolver, logger *slog.Logger) *Handler {
	if access == nil {
		access = FreeTier
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		snapshots: snapshots,
		teams:     teams,
		cache:     c,
		cfg:       cfg,
		access:    access,
		logger:    logger,
	}
}

// Root serves API info at /.
// @Summary API root info
// @Description Returns API name, version, status, and the configured competitions.
// @Tags meta
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"name":           "Analiz Prediction API",
		"version":        "3.0.0",
		"status":         "running",
		"docs":           "/docs",
		"competitions":   h.cfg.Competitions,
		"pick_threshold": h.cfg.PickThreshold,
	})
}

// HealthCheck returns health status with the state of today's snapshot.
// @Summary Health check
// @Description Returns health status, store connectivity and whether today's snapshot is loaded.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health [get]
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if err := h.snapshots.Ping(r.Context()); err != nil {
		h.logger.Error("Store ping failed", "backend", h.cfg.StoreBackend, "error", err)
		respond.WriteJSONObject(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":    "unhealthy",
			"store":     map[string]interface{}{"backend": h.cfg.StoreBackend, "status": "unreachable"},
			"error":     "Snapshot store unreachable",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}

	snapStatus := map[string]interface{}{"status": "empty", "date": nil}
	snap, err := h.snapshots.Cached(r.Context())
	switch {
	case err == nil:
		snapStatus["status"] = "loaded"
		snapStatus["date"] = snap.Date
		snapStatus["matches"] = snap.TotalMatches()
		snapStatus["picks"] = len(snap.Picks)
	case !errors.Is(err, snapshot.ErrNotFound):
		h.logger.Error("Snapshot store unavailable", "error", err)
		respond.WriteJSONObject(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":    "unhealthy",
			"error":     "Snapshot store check failed",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}

	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"store":     map[string]interface{}{"backend": h.cfg.StoreBackend, "status": "connected"},
		"cache":     snapStatus,
	})
}

// HealthCheckCache returns cache statistics.
// @Summary Cache health check
// @Description Returns in-memory response cache statistics (active keys, expired keys).
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health/cache [get]
func (h *Handler) HealthCheckCache(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"cache":     h.cache.Stats(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
