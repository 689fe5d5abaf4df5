// Package daily orchestrates the once-per-day fetch, scoring and
// persistence cycle, and serves the resulting snapshot.
package daily

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/em1rekinci/analizsitesi/internal/config"
	"github.com/em1rekinci/analizsitesi/internal/coupon"
	"github.com/em1rekinci/analizsitesi/internal/markets"
	"github.com/em1rekinci/analizsitesi/internal/metrics"
	"github.com/em1rekinci/analizsitesi/internal/provider"
	"github.com/em1rekinci/analizsitesi/internal/snapshot"
	"github.com/em1rekinci/analizsitesi/internal/stats"
)

// FixtureSource lists a competition's fixtures for a date range.
// provider.Source satisfies it.
type FixtureSource interface {
	Fixtures(ctx context.Context, competitionCode, dateFrom, dateTo string) []provider.Match
}

// TeamCache is the per-day team memo the runner rotates and persists.
// *stats.TeamCache satisfies it.
type TeamCache interface {
	markets.TeamSource
	ForDay(day string) bool
	Profiles() map[string]stats.Profile
	Seed(day string, profiles map[string]stats.Profile) int
}

// Deps holds everything a Runner needs.
type Deps struct {
	Fixtures     FixtureSource
	Teams        TeamCache
	Scorer       *markets.Scorer
	Store        snapshot.Store
	Competitions []config.Competition
	Location     *time.Location
	Now          func() time.Time
	Logger       *slog.Logger
	Metrics      *metrics.Recorder
}

// Runner executes one daily run. It is sequential; callers serialize runs.
type Runner struct {
	fixtures     FixtureSource
	teams        TeamCache
	scorer       *markets.Scorer
	store        snapshot.Store
	competitions []config.Competition
	loc          *time.Location
	now          func() time.Time
	logger       *slog.Logger
	metrics      *metrics.Recorder
}

// NewRunner creates a Runner. A nil Location means UTC and a nil Now means
// time.Now.
func NewRunner(d Deps) *Runner {
	r := &Runner{
		fixtures:     d.Fixtures,
		teams:        d.Teams,
		scorer:       d.Scorer,
		store:        d.Store,
		competitions: d.Competitions,
		loc:          d.Location,
		now:          d.Now,
		logger:       d.Logger,
		metrics:      d.Metrics,
	}
	if r.loc == nil {
		r.loc = time.UTC
	}
	if r.now == nil {
		r.now = time.Now
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

// Today returns the current day key in the service timezone.
func (r *Runner) Today() string {
	return r.now().In(r.loc).Format(snapshot.DayFormat)
}

// Run fetches today's fixtures for every competition, scores them and
// persists the team cache followed by the snapshot. Per-match failures are
// recorded and skipped. Only a failed snapshot write or a cancelled context
// returns an error, in which case the previously stored snapshot is left
// untouched.
func (r *Runner) Run(ctx context.Context) (*snapshot.Snapshot, RunResult, error) {
	start := time.Now()
	day := r.Today()
	result := RunResult{Day: day, State: StateNotStarted, Competitions: len(r.competitions)}

	if r.teams.ForDay(day) {
		r.logger.Info("Team cache rotated", "day", day)
	}

	snap := snapshot.New(day, r.now().UTC())
	r.logger.Info("Daily run started", "day", day, "competitions", len(r.competitions))

	for _, comp := range r.competitions {
		if err := ctx.Err(); err != nil {
			return r.fail(&result, start, fmt.Errorf("daily run %s: %w", day, err))
		}

		result.State = StateFetching
		fixtures := r.fixtures.Fixtures(ctx, comp.Code, day, day)
		if len(fixtures) == 0 {
			r.logger.Info("No fixtures today", "league", comp.Name, "code", comp.Code)
			continue
		}
		r.logger.Info("Fixtures found", "league", comp.Name, "code", comp.Code, "count", len(fixtures))
		result.MatchesFound += len(fixtures)

		result.State = StateScoring
		for _, m := range fixtures {
			sm, pick, err := r.scoreMatch(ctx, comp, m)
			if err != nil {
				result.MatchesSkipped++
				result.AddErrorf("%s match %d: %v", comp.Code, m.ID, err)
				r.metrics.MatchSkipped()
				r.logger.Warn("Skipping match", "league", comp.Name, "match_id", m.ID, "error", err)
				continue
			}
			snap.Matches[comp.Name] = append(snap.Matches[comp.Name], sm)
			if pick != nil {
				snap.Picks = append(snap.Picks, *pick)
			}
			result.MatchesScored++
			r.metrics.MatchScored(comp.Code)
		}
	}

	snap.Coupons = coupon.Build(snap.Picks, r.scorer.Threshold())
	result.Picks = len(snap.Picks)

	teams := r.teams.Profiles()
	if err := r.store.SaveTeams(ctx, day, teams); err != nil {
		result.AddErrorf("save team cache: %v", err)
		r.logger.Warn("Failed to persist team cache", "day", day, "error", err)
	} else {
		result.TeamsPersisted = len(teams)
	}

	if err := r.store.Save(ctx, snap); err != nil {
		return r.fail(&result, start, fmt.Errorf("save snapshot %s: %w", day, err))
	}

	result.State = StatePersisted
	result.Duration = time.Since(start)
	r.metrics.RunFinished(result.Duration.Seconds(), result.Picks)
	r.logger.Info("Daily run complete",
		"summary", result.Summary(),
		"daily", len(snap.Coupons.Daily),
		"high_odds", len(snap.Coupons.HighOdds),
		"super_odds", len(snap.Coupons.SuperOdds),
	)
	return snap, result, nil
}

func (r *Runner) fail(result *RunResult, start time.Time, err error) (*snapshot.Snapshot, RunResult, error) {
	result.State = StateFailed
	result.AddErrorf("%v", err)
	result.Duration = time.Since(start)
	r.logger.Error("Daily run failed", "summary", result.Summary(), "error", err)
	return nil, *result, err
}

// scoreMatch localizes and scores one fixture.
func (r *Runner) scoreMatch(ctx context.Context, comp config.Competition, m provider.Match) (snapshot.Match, *markets.Pick, error) {
	kickoff, err := time.Parse(time.RFC3339, m.UTCDate)
	if err != nil {
		return snapshot.Match{}, nil, fmt.Errorf("parse kickoff %q: %w", m.UTCDate, err)
	}

	scored, pick, err := r.scorer.ScoreMatch(ctx, m, comp.Weight)
	if err != nil {
		return snapshot.Match{}, nil, err
	}

	return snapshot.Match{
		ID:          m.ID,
		Competition: comp.Name,
		Kickoff:     kickoff.UTC(),
		Time:        kickoff.In(r.loc).Format("15:04"),
		Status:      m.Status,
		HomeTeam:    m.HomeTeam,
		AwayTeam:    m.AwayTeam,
		Score:       m.Score,
		Markets:     scored,
	}, pick, nil
}
