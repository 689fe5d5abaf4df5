// Package provider defines the canonical match shapes the prediction core
// consumes. Upstream clients decode their payloads into these structs; the
// stats and markets packages never see provider-specific JSON.
package provider

import "context"

// Status values used by the upstream API for match state.
const (
	StatusFinished  = "FINISHED"
	StatusTimed     = "TIMED"
)

// Team is a home or away side reference on a match.
type Team struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	ShortName string `json:"short_name,omitempty"`
	Crest     string `json:"crest,omitempty"`
}

// Goals is one half of a scoreline. Nil means not played yet or unknown.
type Goals struct {
	Home *int `json:"home"`
	Away *int `json:"away"`
}

// Known reports whether both sides of the scoreline are present.
func (g Goals) Known() bool {
	return g.Home != nil && g.Away != nil
}

// Score carries the full-time and half-time scorelines.
type Score struct {
	FullTime Goals `json:"full_time"`
	HalfTime Goals `json:"half_time"`
}

// Match is a fixture or finished match record.
// UTCDate is kept as the raw upstream timestamp; callers parse it.
type Match struct {
	ID       int    `json:"id"`
	UTCDate  string `json:"utc_date"`
	Status   string `json:"status"`
	Matchday *int   `json:"matchday,omitempty"`
	HomeTeam Team   `json:"home_team"`
	AwayTeam Team   `json:"away_team"`
	Score    Score  `json:"score"`
}

// Label is the "Home - Away" form used to identify a match in picks.
func (m Match) Label() string {
	return m.HomeTeam.Name + " - " + m.AwayTeam.Name
}

// Source is the match data provider the prediction core depends on.
// Both calls return an empty slice instead of an error when the upstream
// has no data or fails; "no data" is a normal outcome.
type Source interface {
	RecentMatches(ctx context.Context, teamID, limit int) []Match
	Fixtures(ctx context.Context, competitionCode, dateFrom, dateTo string) []Match
}

// IntPtr is a small helper for building Goals literals.
func IntPtr(n int) *int { return &n }
