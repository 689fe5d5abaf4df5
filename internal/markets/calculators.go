package markets

import (
	"math"

	"github.com/em1rekinci/analizsitesi/internal/stats"
)

// Side is one team's inputs to the match-result calculator.
type Side struct {
	Profile     stats.Profile
	Strength    float64
	Consistency float64
}

// NewSide builds a Side, deriving consistency from the recent goals sequence.
func NewSide(p stats.Profile, strength float64) Side {
	return Side{Profile: p, Strength: strength, Consistency: stats.Consistency(p.RecentGoals)}
}

// Venue selects which scoring averages feed the match-result differential.
type Venue int

const (
	// VenueHome uses the home side's home average against the away side's
	// away average.
	VenueHome Venue = iota
	// VenueNeutral uses both sides' overall averages.
	VenueNeutral
)

// Result is the normalized 1X2 split.
type Result struct {
	MS1 float64
	MS0 float64
	MS2 float64
}

// Raw-score floors keep every outcome clearly above zero.
const (
	minWinScore  = 18
	minDrawScore = 12
	diffScale    = 11
)

// MatchResult computes home win / draw / away win percentages summing to 100.
func MatchResult(home, away Side, venue Venue) Result {
	var homeScored, awayScored float64
	if venue == VenueNeutral {
		homeScored = clean(home.Profile.AvgScored)
		awayScored = clean(away.Profile.AvgScored)
	} else {
		homeScored = clean(home.Profile.HomeAvgScored)
		awayScored = clean(away.Profile.AwayAvgScored)
	}
	diff := homeScored - awayScored

	// Strong visitors flatten the home edge.
	switch awayStrength := clean(away.Strength); {
	case awayStrength > 75:
		diff *= 0.3
	case awayStrength > 65:
		diff *= 0.5
	case awayStrength > 55:
		diff *= 0.7
	}
	if clean(home.Strength) < 40 {
		diff *= 0.8
	}

	diff *= multiplier(home.Consistency)
	diff *= 2 - multiplier(away.Consistency)

	ms1 := math.Max(minWinScore, 50+diff*diffScale)
	ms2 := math.Max(minWinScore, 50-diff*diffScale)
	ms0 := math.Max(minDrawScore, 100-(ms1+ms2))
	total := ms1 + ms0 + ms2

	r := Result{
		MS1: round2(ms1 / total * 100),
		MS0: round2(ms0 / total * 100),
		MS2: round2(ms2 / total * 100),
	}

	// Per-outcome rounding can drift the sum; keep it within 0.01 of 100.
	if residual := round2(100 - (r.MS1 + r.MS0 + r.MS2)); math.Abs(residual) > 0.01+1e-9 {
		switch {
		case r.MS1 >= r.MS0 && r.MS1 >= r.MS2:
			r.MS1 = round2(r.MS1 + residual)
		case r.MS2 >= r.MS0:
			r.MS2 = round2(r.MS2 + residual)
		default:
			r.MS0 = round2(r.MS0 + residual)
		}
	}
	return r
}

// OverGoals is the over-2.5-goals percentage with style bonuses, capped at 95.
func OverGoals(home, away stats.Profile) float64 {
	base := (clean(home.Over25Rate) + clean(away.Over25Rate)) / 2

	homeAttack, awayAttack := clean(home.AvgScored), clean(away.AvgScored)
	homeDefense, awayDefense := clean(home.AvgConceded), clean(away.AvgConceded)

	if homeAttack > 2.5 && awayAttack > 2.5 {
		base *= 1.15
	} else if homeAttack < 1.2 && awayAttack < 1.2 {
		base *= 0.80
	}
	if (homeAttack > 2.5 && awayDefense > 1.8) || (awayAttack > 2.5 && homeDefense > 1.8) {
		base *= 1.10
	}
	return math.Min(round2(base), 95)
}

// BothTeamsScore is the both-teams-to-score percentage, capped at 90.
func BothTeamsScore(home, away stats.Profile) float64 {
	base := (clean(home.BothScoredRate) + clean(away.BothScoredRate)) / 2

	homeAttack, awayAttack := clean(home.AvgScored), clean(away.AvgScored)
	if homeAttack > 2.0 && awayAttack > 2.0 {
		base *= 1.12
	}
	if homeAttack < 1.0 || awayAttack < 1.0 {
		base *= 0.85
	}
	return math.Min(round2(base), 90)
}

// FirstHalfGoals is the plain average of both first-half 1.5 rates.
func FirstHalfGoals(home, away stats.Profile) float64 {
	return round2((clean(home.FirstHalf15Rate) + clean(away.FirstHalf15Rate)) / 2)
}

// multiplier treats a missing or invalid consistency value as neutral.
func multiplier(c float64) float64 {
	if c <= 0 || math.IsNaN(c) || math.IsInf(c, 0) {
		return 1
	}
	return c
}
