package stats

import (
	"context"
	"log/slog"
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/em1rekinci/analizsitesi/internal/metrics"
	"github.com/em1rekinci/analizsitesi/internal/provider"
)

// HistorySource supplies a team's recent finished matches.
// provider.Source satisfies it.
type HistorySource interface {
	RecentMatches(ctx context.Context, teamID, limit int) []provider.Match
}

type teamEntry struct {
	profile  Profile
	strength float64
}

// TeamCache memoizes team profiles and strengths for one calendar day.
// Each team is computed from upstream history at most once per day.
// Safe for concurrent use.
type TeamCache struct {
	source     HistorySource
	sampleSize int
	logger     *slog.Logger
	metrics    *metrics.Recorder

	mu      sync.RWMutex
	day     string
	entries map[int]teamEntry
	loads   singleflight.Group
}

// NewTeamCache creates an empty cache. sampleSize <= 0 uses DefaultSampleSize.
func NewTeamCache(source HistorySource, sampleSize int, logger *slog.Logger, m *metrics.Recorder) *TeamCache {
	if logger == nil {
		logger = slog.Default()
	}
	if sampleSize <= 0 {
		sampleSize = DefaultSampleSize
	}
	return &TeamCache{
		source:     source,
		sampleSize: sampleSize,
		logger:     logger,
		metrics:    m,
		entries:    make(map[int]teamEntry),
	}
}

// ForDay sets the cache's lifecycle day. Switching to a different day drops
// every memoized team. Reports whether the cache was rotated.
func (c *TeamCache) ForDay(day string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.day == day {
		return false
	}
	rotated := c.day != ""
	c.day = day
	c.entries = make(map[int]teamEntry)
	return rotated
}

// Profile returns the team's profile, loading it on first use.
func (c *TeamCache) Profile(ctx context.Context, teamID int) Profile {
	return c.load(ctx, teamID).profile
}

// Strength returns the team's 0–100 strength, loading it on first use.
func (c *TeamCache) Strength(ctx context.Context, teamID int) float64 {
	return c.load(ctx, teamID).strength
}

// Lookup returns a memoized team without touching the upstream.
func (c *TeamCache) Lookup(teamID int) (Profile, float64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[teamID]
	return e.profile, e.strength, ok
}

func (c *TeamCache) load(ctx context.Context, teamID int) teamEntry {
	c.mu.RLock()
	e, ok := c.entries[teamID]
	c.mu.RUnlock()
	if ok {
		return e
	}

	// The entry outlives the caller, so a dropped request must not leave an
	// empty profile behind for the rest of the day.
	loadCtx := context.WithoutCancel(ctx)
	v, _, _ := c.loads.Do(strconv.Itoa(teamID), func() (interface{}, error) {
		c.mu.RLock()
		e, ok := c.entries[teamID]
		c.mu.RUnlock()
		if ok {
			return e, nil
		}

		history := c.source.RecentMatches(loadCtx, teamID, c.sampleSize)
		if len(history) == 0 {
			c.logger.Warn("No match history for team, using empty profile", "team_id", teamID)
		}
		p := Aggregate(teamID, history)
		e = teamEntry{profile: p, strength: Strength(p)}
		c.metrics.TeamProfileLoaded()

		c.mu.Lock()
		c.entries[teamID] = e
		c.mu.Unlock()
		return e, nil
	})
	return v.(teamEntry)
}

// Seed fills the cache for day from persisted profiles keyed by team id.
// Keys that are not integers are skipped. Returns the number loaded.
func (c *TeamCache) Seed(day string, profiles map[string]Profile) int {
	c.ForDay(day)

	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for key, p := range profiles {
		id, err := strconv.Atoi(key)
		if err != nil {
			c.logger.Warn("Skipping cached team with bad id", "key", key)
			continue
		}
		c.entries[id] = teamEntry{profile: p, strength: Strength(p)}
		n++
	}
	return n
}

// Profiles exports every memoized profile keyed by team id as a string,
// the shape of the persisted team cache.
func (c *TeamCache) Profiles() map[string]Profile {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]Profile, len(c.entries))
	for id, e := range c.entries {
		out[strconv.Itoa(id)] = e.profile
	}
	return out
}

// Len returns the number of memoized teams.
func (c *TeamCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
