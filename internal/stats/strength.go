package stats

import "math"

// Strength is a coarse 0–100 rating of overall quality:
// avg_scored*25 + (3-avg_conceded)*25, clamped.
func Strength(p Profile) float64 {
	attack := p.AvgScored * 25
	defense := (3 - p.AvgConceded) * 25
	s := attack + defense
	if math.IsNaN(s) {
		return 0
	}
	return math.Max(0, math.Min(100, s))
}
