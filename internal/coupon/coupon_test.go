package coupon

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/em1rekinci/analizsitesi/internal/markets"
)

func picks(values ...float64) []markets.Pick {
	out := make([]markets.Pick, len(values))
	for i, v := range values {
		out[i] = markets.Pick{Match: fmt.Sprintf("M%d", i), Market: markets.FH15, Value: v}
	}
	return out
}

func TestBuild_FifteenPicks(t *testing.T) {
	in := picks(66, 90, 70, 80, 75, 68, 85, 72, 91, 67, 77, 65, 88, 69, 71)
	c := Build(in, 65)

	if len(c.Daily) != 3 || len(c.HighOdds) != 4 || len(c.SuperOdds) != 5 {
		t.Fatalf("tier sizes = %d/%d/%d, want 3/4/5", len(c.Daily), len(c.HighOdds), len(c.SuperOdds))
	}
	var got []float64
	for _, tier := range [][]markets.Pick{c.Daily, c.HighOdds, c.SuperOdds} {
		for _, p := range tier {
			got = append(got, p.Value)
		}
	}
	want := []float64{91, 90, 88, 85, 80, 77, 75, 72, 71, 70, 69, 68}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d = %v, want %v (all: %v)", i, got[i], want[i], got)
		}
	}
	if in[0].Value != 66 {
		t.Errorf("input slice was reordered")
	}
}

func TestBuild_FewPicks(t *testing.T) {
	c := Build(picks(70, 80), 65)
	if len(c.Daily) != 2 || c.Daily[0].Value != 80 {
		t.Errorf("Daily = %+v, want [80 70]", c.Daily)
	}
	if c.HighOdds == nil || c.SuperOdds == nil || len(c.HighOdds) != 0 || len(c.SuperOdds) != 0 {
		t.Errorf("higher tiers should be empty, non-nil: %+v", c)
	}
}

func TestBuild_FiltersBelowThreshold(t *testing.T) {
	c := Build(picks(64.99, 65, 50), 65)
	if c.Len() != 1 || c.Daily[0].Value != 65 {
		t.Errorf("coupons = %+v, want only the 65 pick", c)
	}
}

func TestBuild_TiesKeepInputOrder(t *testing.T) {
	in := []markets.Pick{
		{Match: "first", Market: markets.O25, Value: 70},
		{Match: "second", Market: markets.KG, Value: 70},
		{Match: "top", Market: markets.MS1, Value: 80},
		{Match: "third", Market: markets.FH15, Value: 70},
	}
	c := Build(in, 65)
	order := []string{c.Daily[0].Match, c.Daily[1].Match, c.Daily[2].Match, c.HighOdds[0].Match}
	want := []string{"top", "first", "second", "third"}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestBuild_EmptySerializesAsArrays(t *testing.T) {
	data, err := json.Marshal(Empty())
	if err != nil {
		t.Fatal(err)
	}
	if s := string(data); s != `{"daily":[],"high_odds":[],"super_odds":[]}` {
		t.Errorf("json = %s", s)
	}
	if strings.Contains(string(data), "null") {
		t.Errorf("empty tier serialized as null")
	}
}
