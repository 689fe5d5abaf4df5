// Package stats turns a team's recent finished matches into the statistics
// profile the market calculators consume, and derives the team strength and
// form consistency values from it.
package stats

import "github.com/em1rekinci/analizsitesi/internal/provider"

// DefaultSampleSize is the number of recent finished matches per team.
const DefaultSampleSize = 10

// Profile is a team's form summary over its recent finished matches.
// Rates are percentages in [0,100]. Split averages are computed only from
// the matches played in that role and are 0 when the role never occurs.
type Profile struct {
	Matches         int     `json:"matches"`
	AvgScored       float64 `json:"avg_scored"`
	AvgConceded     float64 `json:"avg_conceded"`
	Over25Rate      float64 `json:"over25"`
	BothScoredRate  float64 `json:"kg"`
	FirstHalf15Rate float64 `json:"fh15"`
	HomeRate        float64 `json:"home_rate"`

	HomeAvgScored   float64 `json:"home_avg_scored"`
	HomeAvgConceded float64 `json:"home_avg_conceded"`
	AwayAvgScored   float64 `json:"away_avg_scored"`
	AwayAvgConceded float64 `json:"away_avg_conceded"`

	RecentGoals []int `json:"goals_list"`
}

// Aggregate builds the profile of teamID from its match history.
// Matches without a full-time score are ignored. An empty history gives a
// zero profile, never an error.
func Aggregate(teamID int, matches []provider.Match) Profile {
	var (
		considered                        int
		goalsFor, goalsAgainst            int
		over25, bothScored, firstHalf15   int
		homeFor, homeAgainst, homeMatches int
		awayFor, awayAgainst, awayMatches int
	)
	recent := make([]int, 0, len(matches))

	for _, m := range matches {
		ft := m.Score.FullTime
		if !ft.Known() {
			continue
		}
		considered++

		isHome := m.HomeTeam.ID == teamID
		scored, conceded := *ft.Home, *ft.Away
		if !isHome {
			scored, conceded = conceded, scored
		}

		goalsFor += scored
		goalsAgainst += conceded
		recent = append(recent, scored)

		if isHome {
			homeFor += scored
			homeAgainst += conceded
			homeMatches++
		} else {
			awayFor += scored
			awayAgainst += conceded
			awayMatches++
		}

		if scored+conceded >= 3 {
			over25++
		}
		if scored > 0 && conceded > 0 {
			bothScored++
		}
		if ht := m.Score.HalfTime; ht.Known() && *ht.Home+*ht.Away >= 2 {
			firstHalf15++
		}
	}

	total := float64(max(considered, 1))
	return Profile{
		Matches:         considered,
		AvgScored:       float64(goalsFor) / total,
		AvgConceded:     float64(goalsAgainst) / total,
		Over25Rate:      float64(over25) / total * 100,
		BothScoredRate:  float64(bothScored) / total * 100,
		FirstHalf15Rate: float64(firstHalf15) / total * 100,
		HomeRate:        float64(homeMatches) / total * 100,

		HomeAvgScored:   float64(homeFor) / float64(max(homeMatches, 1)),
		HomeAvgConceded: float64(homeAgainst) / float64(max(homeMatches, 1)),
		AwayAvgScored:   float64(awayFor) / float64(max(awayMatches, 1)),
		AwayAvgConceded: float64(awayAgainst) / float64(max(awayMatches, 1)),

		RecentGoals: recent,
	}
}
