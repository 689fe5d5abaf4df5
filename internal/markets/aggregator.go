package markets

import (
	"context"
	"fmt"
	"math"

	"github.com/em1rekinci/analizsitesi/internal/provider"
	"github.com/em1rekinci/analizsitesi/internal/stats"
)

const (
	// MaxMarketValue caps every weighted market.
	MaxMarketValue = 95.0
	// DefaultPickThreshold is the best weighted value a match needs to
	// become a pick.
	DefaultPickThreshold = 65.0
)

// Compute evaluates all six markets for a fixture played at the home side's
// ground, before competition weighting.
func Compute(home, away Side) Markets {
	ms := MatchResult(home, away, VenueHome)
	return Markets{
		MS1:  ms.MS1,
		MS0:  ms.MS0,
		MS2:  ms.MS2,
		O25:  OverGoals(home.Profile, away.Profile),
		KG:   BothTeamsScore(home.Profile, away.Profile),
		FH15: FirstHalfGoals(home.Profile, away.Profile),
	}
}

// Score applies the competition weight to every market, clamps to
// [0, MaxMarketValue] and selects the best market. A non-positive or
// non-finite weight counts as 1.
func Score(home, away Side, weight float64) Scored {
	if weight <= 0 || math.IsNaN(weight) || math.IsInf(weight, 0) {
		weight = 1
	}
	weighted := Compute(home, away).Map(func(_ Code, v float64) float64 {
		return round2(math.Min(clean(v)*weight, MaxMarketValue))
	})

	s := Scored{Markets: weighted, Best: Codes[0], BestValue: weighted.Value(Codes[0])}
	for _, code := range Codes[1:] {
		if v := weighted.Value(code); v > s.BestValue {
			s.Best, s.BestValue = code, v
		}
	}
	return s
}

// Pick returns the match's pick when its best value reaches threshold.
// Only the single best market of a match can become a pick.
func (s Scored) Pick(label string, threshold float64) (Pick, bool) {
	if s.BestValue < threshold {
		return Pick{}, false
	}
	return Pick{Match: label, Market: s.Best, Value: s.BestValue}, true
}

// TeamSource resolves memoized team profiles and strengths.
// *stats.TeamCache satisfies it.
type TeamSource interface {
	Profile(ctx context.Context, teamID int) stats.Profile
	Strength(ctx context.Context, teamID int) float64
}

// Scorer scores fixtures against memoized team statistics.
type Scorer struct {
	teams     TeamSource
	threshold float64
}

// NewScorer creates a Scorer. threshold <= 0 uses DefaultPickThreshold.
func NewScorer(teams TeamSource, threshold float64) *Scorer {
	if threshold <= 0 {
		threshold = DefaultPickThreshold
	}
	return &Scorer{teams: teams, threshold: threshold}
}

// Threshold returns the pick threshold in use.
func (s *Scorer) Threshold() float64 { return s.threshold }

// ScoreMatch scores one fixture. The returned pick is nil when the match's
// best market stays below the threshold.
func (s *Scorer) ScoreMatch(ctx context.Context, m provider.Match, weight float64) (Scored, *Pick, error) {
	if m.HomeTeam.ID == 0 || m.AwayTeam.ID == 0 {
		return Scored{}, nil, fmt.Errorf("match %d: missing team id (home=%d away=%d)", m.ID, m.HomeTeam.ID, m.AwayTeam.ID)
	}

	home := NewSide(s.teams.Profile(ctx, m.HomeTeam.ID), s.teams.Strength(ctx, m.HomeTeam.ID))
	away := NewSide(s.teams.Profile(ctx, m.AwayTeam.ID), s.teams.Strength(ctx, m.AwayTeam.ID))

	scored := Score(home, away, weight)
	if p, ok := scored.Pick(m.Label(), s.threshold); ok {
		return scored, &p, nil
	}
	return scored, nil, nil
}
