// Package coupon groups a day's picks into three tiers by descending value.
package coupon

import (
	"sort"

	"github.com/em1rekinci/analizsitesi/internal/markets"
)

// Tier windows over the sorted picks: [0,3) daily, [3,7) high odds,
// [7,12) super odds.
const (
	dailySize     = 3
	highOddsSize  = 4
	superOddsSize = 5
)

// Coupons holds the three tiers. Empty tiers serialize as [].
type Coupons struct {
	Daily     []markets.Pick `json:"daily"`
	HighOdds  []markets.Pick `json:"high_odds"`
	SuperOdds []markets.Pick `json:"super_odds"`
}

// Len returns the number of picks across all tiers.
func (c Coupons) Len() int {
	return len(c.Daily) + len(c.HighOdds) + len(c.SuperOdds)
}

// Build filters picks below threshold, orders the rest by value descending
// (equal values keep their input order) and slices them into tiers. Picks
// beyond the twelfth are dropped. The input slice is not modified.
func Build(picks []markets.Pick, threshold float64) Coupons {
	eligible := make([]markets.Pick, 0, len(picks))
	for _, p := range picks {
		if p.Value >= threshold {
			eligible = append(eligible, p)
		}
	}
	sort.SliceStable(eligible, func(i, j int) bool {
		return eligible[i].Value > eligible[j].Value
	})

	return Coupons{
		Daily:     window(eligible, 0, dailySize),
		HighOdds:  window(eligible, dailySize, dailySize+highOddsSize),
		SuperOdds: window(eligible, dailySize+highOddsSize, dailySize+highOddsSize+superOddsSize),
	}
}

// Empty returns coupons with three empty, non-nil tiers.
func Empty() Coupons {
	return Build(nil, 0)
}

func window(picks []markets.Pick, from, to int) []markets.Pick {
	out := []markets.Pick{}
	if from >= len(picks) {
		return out
	}
	if to > len(picks) {
		to = len(picks)
	}
	return append(out, picks[from:to]...)
}
