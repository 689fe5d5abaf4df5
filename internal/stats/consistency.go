package stats

import "math"

// Consistency bands, ordered by upper CV bound.
var consistencyBands = []struct {
	maxCV      float64
	multiplier float64
}{
	{0.3, 1.15},
	{0.5, 1.05},
	{0.8, 1.00},
	{1.2, 0.92},
}

const (
	neutralConsistency  = 1.0
	erraticConsistency  = 0.80
	minConsistencyPoint = 3
)

// Consistency maps the coefficient of variation of a goals sequence to a
// confidence multiplier. Short or malformed input is neutral (1.0); a zero
// mean counts as perfectly consistent.
func Consistency(goals []int) float64 {
	if len(goals) < minConsistencyPoint {
		return neutralConsistency
	}

	var sum float64
	for _, g := range goals {
		if g < 0 {
			return neutralConsistency
		}
		sum += float64(g)
	}
	n := float64(len(goals))
	mean := sum / n

	var cv float64
	if mean > 0 {
		var sq float64
		for _, g := range goals {
			d := float64(g) - mean
			sq += d * d
		}
		cv = math.Sqrt(sq/n) / mean
	}
	if math.IsNaN(cv) || math.IsInf(cv, 0) {
		return neutralConsistency
	}

	for _, b := range consistencyBands {
		if cv < b.maxCV {
			return b.multiplier
		}
	}
	return erraticConsistency
}
