package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/em1rekinci/analizsitesi/internal/db"
	"github.com/em1rekinci/analizsitesi/internal/snapshot"
	"github.com/em1rekinci/analizsitesi/internal/stats"
)

// PostgresStore keeps one jsonb row per day in daily_snapshots and
// team_profiles. Saving a day deletes every other day.
type PostgresStore struct {
	pool *db.Pool
}

// NewPostgresStore uses pool's prepared statements.
func NewPostgresStore(pool *db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Ping runs the pool's health check.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.HealthCheck(ctx)
}

// Load returns the day's snapshot.
func (s *PostgresStore) Load(ctx context.Context, day string) (*snapshot.Snapshot, error) {
	var snap snapshot.Snapshot
	if err := s.loadJSON(ctx, "snapshot_load", day, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// Save upserts the snapshot and prunes other days in one transaction.
func (s *PostgresStore) Save(ctx context.Context, snap *snapshot.Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, "snapshot_upsert", snap.Date, payload, snap.GeneratedAt); err != nil {
			return fmt.Errorf("upsert snapshot %s: %w", snap.Date, err)
		}
		if _, err := tx.Exec(ctx, "snapshot_prune", snap.Date); err != nil {
			return fmt.Errorf("prune snapshots: %w", err)
		}
		return nil
	})
}

// LoadTeams returns the day's team cache.
func (s *PostgresStore) LoadTeams(ctx context.Context, day string) (map[string]stats.Profile, error) {
	teams := map[string]stats.Profile{}
	if err := s.loadJSON(ctx, "teams_load", day, &teams); err != nil {
		return nil, err
	}
	return teams, nil
}

// SaveTeams upserts the team cache and prunes other days.
func (s *PostgresStore) SaveTeams(ctx context.Context, day string, teams map[string]stats.Profile) error {
	if teams == nil {
		teams = map[string]stats.Profile{}
	}
	payload, err := json.Marshal(teams)
	if err != nil {
		return fmt.Errorf("encode team cache: %w", err)
	}
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, "teams_upsert", day, payload); err != nil {
			return fmt.Errorf("upsert team cache %s: %w", day, err)
		}
		if _, err := tx.Exec(ctx, "teams_prune", day); err != nil {
			return fmt.Errorf("prune team cache: %w", err)
		}
		return nil
	})
}

func (s *PostgresStore) loadJSON(ctx context.Context, stmt, day string, v interface{}) error {
	var raw []byte
	err := s.pool.QueryRow(ctx, stmt, day).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return snapshot.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("%s %s: %w", stmt, day, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode %s %s: %w", stmt, day, err)
	}
	return nil
}
