package daily

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/em1rekinci/analizsitesi/internal/snapshot"
	"github.com/em1rekinci/analizsitesi/internal/stats"
)

// Service serves today's snapshot, generating it on the first access of the
// day. Concurrent callers within the process share a single in-flight run,
// and a first-access run never overlaps a refresh.
type Service struct {
	runner *Runner
	logger *slog.Logger
	group  singleflight.Group
	runMu  sync.Mutex
}

type runOutcome struct {
	snap   *snapshot.Snapshot
	result RunResult
}

// NewService wraps runner.
func NewService(runner *Runner, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{runner: runner, logger: logger}
}

// Day returns today's key in the service timezone.
func (s *Service) Day() string { return s.runner.Today() }

// Cached returns today's stored snapshot without triggering a run.
// It returns snapshot.ErrNotFound when the day has not been generated yet.
func (s *Service) Cached(ctx context.Context) (*snapshot.Snapshot, error) {
	return s.runner.store.Load(ctx, s.Day())
}

// Ping checks the snapshot store backend.
func (s *Service) Ping(ctx context.Context) error {
	return s.runner.store.Ping(ctx)
}

// Today returns today's snapshot, running the orchestrator on a miss.
func (s *Service) Today(ctx context.Context) (*snapshot.Snapshot, error) {
	day := s.Day()
	snap, err := s.runner.store.Load(ctx, day)
	if err == nil {
		return snap, nil
	}
	if !errors.Is(err, snapshot.ErrNotFound) {
		return nil, fmt.Errorf("load snapshot %s: %w", day, err)
	}

	out, err := s.do(ctx, "today:"+day, func(runCtx context.Context) (runOutcome, error) {
		s.runMu.Lock()
		defer s.runMu.Unlock()
		// A run that finished between the miss above and taking the lock
		// has already stored the day.
		if snap, err := s.runner.store.Load(runCtx, day); err == nil {
			return runOutcome{snap: snap}, nil
		}
		snap, result, err := s.runner.Run(runCtx)
		return runOutcome{snap: snap, result: result}, err
	})
	if err != nil {
		return nil, err
	}
	return out.snap, nil
}

// Refresh regenerates today's snapshot, replacing any stored one.
func (s *Service) Refresh(ctx context.Context) (*snapshot.Snapshot, RunResult, error) {
	out, err := s.do(ctx, "refresh:"+s.Day(), func(runCtx context.Context) (runOutcome, error) {
		s.runMu.Lock()
		defer s.runMu.Unlock()
		snap, result, err := s.runner.Run(runCtx)
		return runOutcome{snap: snap, result: result}, err
	})
	return out.snap, out.result, err
}

// Profile returns a team's profile for today, rotating the team cache first
// when the day has changed.
func (s *Service) Profile(ctx context.Context, teamID int) stats.Profile {
	s.runner.teams.ForDay(s.Day())
	return s.runner.teams.Profile(ctx, teamID)
}

// Strength returns a team's strength for today.
func (s *Service) Strength(ctx context.Context, teamID int) float64 {
	s.runner.teams.ForDay(s.Day())
	return s.runner.teams.Strength(ctx, teamID)
}

// Warm seeds the team cache from today's persisted team profiles.
func (s *Service) Warm(ctx context.Context) (int, error) {
	day := s.Day()
	profiles, err := s.runner.store.LoadTeams(ctx, day)
	if errors.Is(err, snapshot.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("load team cache %s: %w", day, err)
	}
	n := s.runner.teams.Seed(day, profiles)
	s.logger.Info("Team cache warmed", "day", day, "teams", n)
	return n, nil
}

// do runs fn once per key across concurrent callers. The run is detached
// from the first caller's cancellation so other waiters are not aborted.
func (s *Service) do(ctx context.Context, key string, fn func(context.Context) (runOutcome, error)) (runOutcome, error) {
	runCtx := context.WithoutCancel(ctx)
	v, err, shared := s.group.Do(key, func() (interface{}, error) {
		return fn(runCtx)
	})
	if shared {
		s.logger.Debug("Joined in-flight daily run", "key", key)
	}
	out, _ := v.(runOutcome)
	return out, err
}
