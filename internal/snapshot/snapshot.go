// Package snapshot defines the persisted daily result of the prediction
// pipeline and the store contract its backends implement.
package snapshot

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/em1rekinci/analizsitesi/internal/coupon"
	"github.com/em1rekinci/analizsitesi/internal/markets"
	"github.com/em1rekinci/analizsitesi/internal/provider"
	"github.com/em1rekinci/analizsitesi/internal/stats"
)

// ErrNotFound is returned by a Store when no entry exists for the day.
var ErrNotFound = errors.New("snapshot not found")

// DayFormat is the layout of snapshot day keys.
const DayFormat = "2006-01-02"

// Match is one scored fixture as shown on the dashboard.
type Match struct {
	ID          int            `json:"id"`
	Competition string         `json:"competition"`
	Kickoff     time.Time      `json:"kickoff"`
	Time        string         `json:"time"`
	Status      string         `json:"status"`
	HomeTeam    provider.Team  `json:"home_team"`
	AwayTeam    provider.Team  `json:"away_team"`
	Score       provider.Score `json:"score"`
	Markets     markets.Scored `json:"markets"`
}

// Label is the "Home - Away" form shared with picks.
func (m Match) Label() string {
	return m.HomeTeam.Name + " - " + m.AwayTeam.Name
}

// Snapshot is one day's complete output. Regeneration replaces it whole.
type Snapshot struct {
	Date        string             `json:"date"`
	GeneratedAt time.Time          `json:"generated_at"`
	Matches     map[string][]Match `json:"matches"`
	Picks       []markets.Pick     `json:"picks"`
	Coupons     coupon.Coupons     `json:"coupons"`
}

// New returns an empty snapshot for day with non-nil collections.
func New(day string, generatedAt time.Time) *Snapshot {
	return &Snapshot{
		Date:        day,
		GeneratedAt: generatedAt,
		Matches:     make(map[string][]Match),
		Picks:       []markets.Pick{},
		Coupons:     coupon.Empty(),
	}
}

// TotalMatches counts matches across all competitions.
func (s *Snapshot) TotalMatches() int {
	n := 0
	for _, ms := range s.Matches {
		n += len(ms)
	}
	return n
}

// Store persists snapshots and the per-day team cache.
type Store interface {
	Load(ctx context.Context, day string) (*Snapshot, error)
	Save(ctx context.Context, s *Snapshot) error
	LoadTeams(ctx context.Context, day string) (map[string]stats.Profile, error)
	SaveTeams(ctx context.Context, day string, teams map[string]stats.Profile) error
	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error
}

// ---------------------------------------------------------------------------
// Free-tier view
// ---------------------------------------------------------------------------

// FreeCount is how many top picks a free user gets for a day with total
// matches.
func FreeCount(total int) int {
	if total >= 10 {
		return 3
	}
	return 2
}

// MatchView is a dashboard match with its visibility flag.
type MatchView struct {
	Match
	IsFree bool `json:"is_free"`
}

// View is the dashboard payload for one user.
type View struct {
	Date         string                 `json:"date"`
	GeneratedAt  time.Time              `json:"generated_at"`
	Matches      map[string][]MatchView `json:"matches"`
	Picks        []markets.Pick         `json:"picks"`
	Coupons      coupon.Coupons         `json:"coupons"`
	TotalMatches int                    `json:"total_matches"`
	FreeCount    int                    `json:"free_count"`
	IsPremium    bool                   `json:"is_premium"`
}

// NewView flags each match as visible when the user is premium or the match
// is among the day's FreeCount highest-valued picks. The snapshot is not
// modified.
func NewView(s *Snapshot, premium bool) View {
	total := s.TotalMatches()
	freeCount := FreeCount(total)

	sorted := append([]markets.Pick(nil), s.Picks...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Value > sorted[j].Value })
	if len(sorted) > freeCount {
		sorted = sorted[:freeCount]
	}
	free := make(map[string]bool, len(sorted))
	for _, p := range sorted {
		free[p.Match] = true
	}

	matches := make(map[string][]MatchView, len(s.Matches))
	for comp, ms := range s.Matches {
		views := make([]MatchView, len(ms))
		for i, m := range ms {
			views[i] = MatchView{Match: m, IsFree: premium || free[m.Label()]}
		}
		matches[comp] = views
	}

	picks := s.Picks
	if picks == nil {
		picks = []markets.Pick{}
	}
	return View{
		Date:         s.Date,
		GeneratedAt:  s.GeneratedAt,
		Matches:      matches,
		Picks:        picks,
		Coupons:      s.Coupons,
		TotalMatches: total,
		FreeCount:    freeCount,
		IsPremium:    premium,
	}
}
