package footballdata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/em1rekinci/analizsitesi/internal/provider"
)

var _ provider.Source = (*Client)(nil)

// --------------------------------------------------------------------------
// Raw payload shapes
// --------------------------------------------------------------------------

type fdTeam struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	ShortName string `json:"shortName"`
	Crest     string `json:"crest"`
}

type fdGoals struct {
	Home *int `json:"home"`
	Away *int `json:"away"`
}

type fdMatch struct {
	ID       int    `json:"id"`
	UTCDate  string `json:"utcDate"`
	Status   string `json:"status"`
	Matchday *int   `json:"matchday"`
	HomeTeam fdTeam `json:"homeTeam"`
	AwayTeam fdTeam `json:"awayTeam"`
	Score    struct {
		FullTime fdGoals `json:"fullTime"`
		HalfTime fdGoals `json:"halfTime"`
	} `json:"score"`
}

type matchesResponse struct {
	Matches []fdMatch `json:"matches"`
}

func normalizeMatch(raw fdMatch) provider.Match {
	return provider.Match{
		ID:       raw.ID,
		UTCDate:  raw.UTCDate,
		Status:   raw.Status,
		Matchday: raw.Matchday,
		HomeTeam: provider.Team{ID: raw.HomeTeam.ID, Name: raw.HomeTeam.Name, ShortName: raw.HomeTeam.ShortName, Crest: raw.HomeTeam.Crest},
		AwayTeam: provider.Team{ID: raw.AwayTeam.ID, Name: raw.AwayTeam.Name, ShortName: raw.AwayTeam.ShortName, Crest: raw.AwayTeam.Crest},
		Score: provider.Score{
			FullTime: provider.Goals{Home: raw.Score.FullTime.Home, Away: raw.Score.FullTime.Away},
			HalfTime: provider.Goals{Home: raw.Score.HalfTime.Home, Away: raw.Score.HalfTime.Away},
		},
	}
}

func decodeMatches(body []byte) ([]provider.Match, error) {
	var resp matchesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode matches: %w", err)
	}
	out := make([]provider.Match, 0, len(resp.Matches))
	for _, m := range resp.Matches {
		out = append(out, normalizeMatch(m))
	}
	return out, nil
}

// --------------------------------------------------------------------------
// Source implementation
// --------------------------------------------------------------------------

// RecentMatches returns up to limit finished matches of a team.
// Any failure is logged and yields an empty slice.
func (c *Client) RecentMatches(ctx context.Context, teamID, limit int) []provider.Match {
	matches, err := c.fetchMatches(ctx, "team_matches",
		fmt.Sprintf("/teams/%d/matches", teamID),
		url.Values{
			"limit":  {strconv.Itoa(limit)},
			"status": {provider.StatusFinished},
		})
	if err != nil {
		c.logFailure("team_matches", err, "team_id", teamID)
		return []provider.Match{}
	}
	return matches
}

// Fixtures returns a competition's matches between dateFrom and dateTo
// (inclusive, YYYY-MM-DD). Any failure is logged and yields an empty slice.
func (c *Client) Fixtures(ctx context.Context, competitionCode, dateFrom, dateTo string) []provider.Match {
	matches, err := c.fetchMatches(ctx, "competition_matches",
		fmt.Sprintf("/competitions/%s/matches", url.PathEscape(competitionCode)),
		url.Values{
			"dateFrom": {dateFrom},
			"dateTo":   {dateTo},
		})
	if err != nil {
		c.logFailure("competition_matches", err, "competition", competitionCode)
		return []provider.Match{}
	}
	return matches
}

func (c *Client) fetchMatches(ctx context.Context, endpoint, path string, params url.Values) ([]provider.Match, error) {
	body, err := c.get(ctx, endpoint, path, params)
	if err != nil {
		return nil, err
	}
	matches, err := decodeMatches(body)
	if err != nil {
		c.metrics.Upstream(endpoint, "decode")
		return nil, err
	}
	return matches, nil
}

func (c *Client) logFailure(endpoint string, err error, attrs ...any) {
	args := append([]any{"endpoint", endpoint, "error", err}, attrs...)
	if errors.Is(err, errPermanent) {
		c.logger.Error("Upstream request rejected", args...)
		return
	}
	c.logger.Warn("Upstream request gave no data", args...)
}
