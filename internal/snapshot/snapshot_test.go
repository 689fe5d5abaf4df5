package snapshot

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/em1rekinci/analizsitesi/internal/coupon"
	"github.com/em1rekinci/analizsitesi/internal/markets"
	"github.com/em1rekinci/analizsitesi/internal/provider"
)

func fixture(home, away string) Match {
	return Match{HomeTeam: provider.Team{Name: home}, AwayTeam: provider.Team{Name: away}}
}

func sampleSnapshot(n int) *Snapshot {
	s := New("2025-03-01", time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC))
	for i := 0; i < n; i++ {
		s.Matches["Premier League"] = append(s.Matches["Premier League"], fixture(string(rune('A'+i)), "Z"))
	}
	s.Picks = []markets.Pick{
		{Match: "A - Z", Market: markets.O25, Value: 70},
		{Match: "B - Z", Market: markets.KG, Value: 80},
		{Match: "C - Z", Market: markets.FH15, Value: 75},
		{Match: "D - Z", Market: markets.MS1, Value: 90},
	}
	s.Coupons = coupon.Build(s.Picks, markets.DefaultPickThreshold)
	return s
}

func TestFreeCount(t *testing.T) {
	tests := []struct{ total, want int }{{0, 2}, {9, 2}, {10, 3}, {25, 3}}
	for _, tt := range tests {
		if got := FreeCount(tt.total); got != tt.want {
			t.Errorf("FreeCount(%d) = %d, want %d", tt.total, got, tt.want)
		}
	}
}

func freeLabels(v View) map[string]bool {
	out := map[string]bool{}
	for _, ms := range v.Matches {
		for _, m := range ms {
			if m.IsFree {
				out[m.Label()] = true
			}
		}
	}
	return out
}

func TestNewView_FreeTier(t *testing.T) {
	v := NewView(sampleSnapshot(5), false)
	if v.FreeCount != 2 || v.TotalMatches != 5 {
		t.Fatalf("FreeCount/Total = %d/%d, want 2/5", v.FreeCount, v.TotalMatches)
	}
	free := freeLabels(v)
	if len(free) != 2 || !free["D - Z"] || !free["B - Z"] {
		t.Errorf("free = %v, want D - Z and B - Z", free)
	}

	v = NewView(sampleSnapshot(12), false)
	if v.FreeCount != 3 || len(freeLabels(v)) != 3 || !freeLabels(v)["C - Z"] {
		t.Errorf("with 12 matches: free = %v (count %d)", freeLabels(v), v.FreeCount)
	}
}

func TestNewView_PremiumSeesEverything(t *testing.T) {
	v := NewView(sampleSnapshot(5), true)
	if len(freeLabels(v)) != 5 || !v.IsPremium {
		t.Errorf("premium free = %v", freeLabels(v))
	}
}

func TestNewView_DoesNotMutateSnapshot(t *testing.T) {
	s := sampleSnapshot(5)
	NewView(s, false)
	if s.Picks[0].Match != "A - Z" {
		t.Errorf("picks reordered: %+v", s.Picks)
	}
}

func TestSnapshot_JSONShape(t *testing.T) {
	data, err := json.Marshal(New("2025-03-01", time.Time{}))
	if err != nil {
		t.Fatal(err)
	}
	var got map[string]json.RawMessage
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if string(got["picks"]) != "[]" || string(got["matches"]) != "{}" {
		t.Errorf("empty snapshot = %s", data)
	}
}
