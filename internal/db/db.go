// Package db provides a pgxpool-based connection pool with prepared statement
// registration, schema bootstrap and health checking.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/em1rekinci/analizsitesi/internal/config"
)

// Pool wraps pgxpool.Pool with application-specific helpers.
type Pool struct {
	*pgxpool.Pool
}

// New creates and validates a new connection pool. The schema is created
// before prepared statements are registered.
func New(ctx context.Context, cfg *config.Config) (*Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolCfg.MinConns = int32(cfg.DBPoolMinConns)
	poolCfg.MaxConns = int32(cfg.DBPoolMaxConns)
	poolCfg.MaxConnLifetime = cfg.DBPoolMaxLife
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	if err := ensureSchema(ctx, cfg.DatabaseURL); err != nil {
		return nil, err
	}

	// Register prepared statements on every new connection.
	poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return registerPreparedStatements(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	// Verify connectivity
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Pool{Pool: pool}, nil
}

// HealthCheck runs a trivial query to verify the database is reachable.
func (p *Pool) HealthCheck(ctx context.Context) error {
	var n int
	return p.QueryRow(ctx, "health_check").Scan(&n)
}

// Schema is the DDL for the snapshot and team-cache tables. Both hold one
// JSON document per day.
const Schema = `
CREATE TABLE IF NOT EXISTS daily_snapshots (
    day          DATE PRIMARY KEY,
    payload      JSONB NOT NULL,
    generated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS team_profiles (
    day        DATE PRIMARY KEY,
    payload    JSONB NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// ensureSchema applies Schema on a dedicated connection.
func ensureSchema(ctx context.Context, url string) error {
	conn, err := pgx.Connect(ctx, url)
	if err != nil {
		return fmt.Errorf("connect for schema: %w", err)
	}
	defer conn.Close(ctx)

	if _, err := conn.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// registerPreparedStatements registers all statements the stores use.
// Prepared statements eliminate parse overhead on every request.
func registerPreparedStatements(ctx context.Context, conn *pgx.Conn) error {
	stmts := map[string]string{
		// Health
		"health_check": "SELECT 1",

		// Daily snapshots
		"snapshot_load": "SELECT payload FROM daily_snapshots WHERE day = $1",
		"snapshot_upsert": `INSERT INTO daily_snapshots (day, payload, generated_at) VALUES ($1, $2, $3)
			ON CONFLICT (day) DO UPDATE SET payload = EXCLUDED.payload, generated_at = EXCLUDED.generated_at`,
		"snapshot_prune": "DELETE FROM daily_snapshots WHERE day <> $1",

		// Team cache
		"teams_load": "SELECT payload FROM team_profiles WHERE day = $1",
		"teams_upsert": `INSERT INTO team_profiles (day, payload, updated_at) VALUES ($1, $2, now())
			ON CONFLICT (day) DO UPDATE SET payload = EXCLUDED.payload, updated_at = now()`,
		"teams_prune": "DELETE FROM team_profiles WHERE day <> $1",
	}

	for name, sql := range stmts {
		if _, err := conn.Prepare(ctx, name, sql); err != nil {
			return fmt.Errorf("prepare %q: %w", name, err)
		}
	}
	return nil
}
