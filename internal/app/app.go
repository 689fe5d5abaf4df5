// Package app wires configuration into the running components shared by
// cmd/api and cmd/predict.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/redis/go-redis/v9"

	"github.com/em1rekinci/analizsitesi/internal/config"
	"github.com/em1rekinci/analizsitesi/internal/daily"
	"github.com/em1rekinci/analizsitesi/internal/db"
	"github.com/em1rekinci/analizsitesi/internal/markets"
	"github.com/em1rekinci/analizsitesi/internal/metrics"
	"github.com/em1rekinci/analizsitesi/internal/provider/footballdata"
	"github.com/em1rekinci/analizsitesi/internal/snapshot"
	"github.com/em1rekinci/analizsitesi/internal/stats"
	"github.com/em1rekinci/analizsitesi/internal/store"
)

// App holds the assembled prediction pipeline.
type App struct {
	Config  *config.Config
	Metrics *metrics.Recorder
	Client  *footballdata.Client
	Teams   *stats.TeamCache
	Store   snapshot.Store
	Runner  *daily.Runner
	Service *daily.Service

	closers []func()
}

// New assembles every component from cfg. Close releases store connections.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	a := &App{Config: cfg, Metrics: metrics.New()}

	if cfg.FootballAPIKey == "" {
		logger.Warn("FOOTBALL_API_KEY is not set, upstream requests will be rejected")
	}

	policy := footballdata.DefaultRetryPolicy()
	policy.MaxAttempts = cfg.FootballAPIAttempts
	policy.RateLimitWait = cfg.FootballRateLimitWait
	a.Client = footballdata.NewClient(cfg.FootballAPIBaseURL, cfg.FootballAPIKey, cfg.FootballAPIRPM, logger,
		footballdata.WithRetryPolicy(policy),
		footballdata.WithHTTPClient(&http.Client{Timeout: cfg.FootballAPITimeout}),
		footballdata.WithMetrics(a.Metrics),
	)

	st, err := a.openStore(ctx, cfg, logger)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Store = st

	a.Teams = stats.NewTeamCache(a.Client, cfg.TeamSampleSize, logger, a.Metrics)
	a.Runner = daily.NewRunner(daily.Deps{
		Fixtures:     a.Client,
		Teams:        a.Teams,
		Scorer:       markets.NewScorer(a.Teams, cfg.PickThreshold),
		Store:        a.Store,
		Competitions: cfg.Competitions,
		Location:     cfg.Location,
		Logger:       logger,
		Metrics:      a.Metrics,
	})
	a.Service = daily.NewService(a.Runner, logger)
	return a, nil
}

func (a *App) openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (snapshot.Store, error) {
	switch cfg.StoreBackend {
	case config.StorePostgres:
		logger.Info("Connecting to database...")
		pool, err := db.New(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		a.closers = append(a.closers, pool.Close)
		logger.Info("Database connected",
			"min_conns", cfg.DBPoolMinConns,
			"max_conns", cfg.DBPoolMaxConns)
		return store.NewPostgresStore(pool), nil

	case config.StoreRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		a.closers = append(a.closers, func() { _ = client.Close() })
		rs := store.NewRedisStore(client, cfg.RedisPrefix)
		if err := rs.Ping(ctx); err != nil {
			return nil, fmt.Errorf("connect to redis %s: %w", cfg.RedisAddr, err)
		}
		logger.Info("Redis connected", "addr", cfg.RedisAddr, "prefix", cfg.RedisPrefix)
		return rs, nil

	default:
		fs, err := store.NewFileStore(cfg.DataDir, logger)
		if err != nil {
			return nil, err
		}
		logger.Info("File store ready", "dir", cfg.DataDir)
		return fs, nil
	}
}

// Close releases store resources in reverse order.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
