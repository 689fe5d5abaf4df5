package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/em1rekinci/analizsitesi/internal/snapshot"
	"github.com/em1rekinci/analizsitesi/internal/stats"
)

// RedisTTL bounds how long a day's keys outlive the day.
const RedisTTL = 48 * time.Hour

// RedisStore keeps <prefix>:snapshot:<day> and <prefix>:teams:<day> as JSON
// strings. Old days expire instead of being deleted.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewRedisStore wraps client. An empty prefix means "analiz".
func NewRedisStore(client redis.UniversalClient, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "analiz"
	}
	return &RedisStore{client: client, prefix: prefix, ttl: RedisTTL}
}

func (s *RedisStore) key(kind, day string) string {
	return s.prefix + ":" + kind + ":" + day
}

// Load returns the day's snapshot.
func (s *RedisStore) Load(ctx context.Context, day string) (*snapshot.Snapshot, error) {
	var snap snapshot.Snapshot
	if err := s.getJSON(ctx, s.key("snapshot", day), &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// Save overwrites the day's snapshot.
func (s *RedisStore) Save(ctx context.Context, snap *snapshot.Snapshot) error {
	return s.setJSON(ctx, s.key("snapshot", snap.Date), snap)
}

// LoadTeams returns the day's team cache.
func (s *RedisStore) LoadTeams(ctx context.Context, day string) (map[string]stats.Profile, error) {
	teams := map[string]stats.Profile{}
	if err := s.getJSON(ctx, s.key("teams", day), &teams); err != nil {
		return nil, err
	}
	return teams, nil
}

// SaveTeams overwrites the day's team cache.
func (s *RedisStore) SaveTeams(ctx context.Context, day string, teams map[string]stats.Profile) error {
	if teams == nil {
		teams = map[string]stats.Profile{}
	}
	return s.setJSON(ctx, s.key("teams", day), teams)
}

// Ping checks connectivity.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) getJSON(ctx context.Context, key string, v interface{}) error {
	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return snapshot.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("redis get %s: %w", key, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) setJSON(ctx context.Context, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.client.Set(ctx, key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}
