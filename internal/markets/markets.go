// Package markets derives per-match market probabilities from two team
// profiles, weights them by competition and selects the match's best market.
package markets

import "math"

// Code identifies a market.
type Code string

const (
	MS1  Code = "MS1"  // home win
	MS0  Code = "MS0"  // draw
	MS2  Code = "MS2"  // away win
	O25  Code = "O25"  // over 2.5 goals
	KG   Code = "KG"   // both teams score
	FH15 Code = "FH15" // over 1.5 first-half goals
)

// Codes lists every market in canonical order. Ties for the best market are
// resolved in this order.
var Codes = []Code{MS1, MS0, MS2, O25, KG, FH15}

// Markets holds one percentage per market.
type Markets struct {
	MS1  float64 `json:"MS1"`
	MS0  float64 `json:"MS0"`
	MS2  float64 `json:"MS2"`
	O25  float64 `json:"O25"`
	KG   float64 `json:"KG"`
	FH15 float64 `json:"FH15"`
}

// Value returns the percentage for code, or 0 for an unknown code.
func (m Markets) Value(code Code) float64 {
	switch code {
	case MS1:
		return m.MS1
	case MS0:
		return m.MS0
	case MS2:
		return m.MS2
	case O25:
		return m.O25
	case KG:
		return m.KG
	case FH15:
		return m.FH15
	}
	return 0
}

// Map transforms every market value with fn.
func (m Markets) Map(fn func(Code, float64) float64) Markets {
	return Markets{
		MS1:  fn(MS1, m.MS1),
		MS0:  fn(MS0, m.MS0),
		MS2:  fn(MS2, m.MS2),
		O25:  fn(O25, m.O25),
		KG:   fn(KG, m.KG),
		FH15: fn(FH15, m.FH15),
	}
}

// Scored is a match's weighted markets plus the strongest one.
type Scored struct {
	Markets
	Best      Code    `json:"best"`
	BestValue float64 `json:"best_value"`
}

// Pick is a match whose best weighted market reached the pick threshold.
type Pick struct {
	Match  string  `json:"match"`
	Market Code    `json:"market"`
	Value  float64 `json:"value"`
}

// round2 rounds to 2 decimal places.
func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// clean maps negative and non-finite values to 0.
func clean(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) || x < 0 {
		return 0
	}
	return x
}
