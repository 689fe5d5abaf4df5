package daily

import (
	"fmt"
	"time"
)

// State is the orchestrator's progress through one run.
type State string

const (
	StateNotStarted State = "not_started"
	StateFetching   State = "fetching"
	StateScoring    State = "scoring"
	StatePersisted  State = "persisted"
	StateFailed     State = "failed"
)

// RunResult tracks counts and errors from one daily run.
type RunResult struct {
	Day            string        `json:"day"`
	State          State         `json:"state"`
	Competitions   int           `json:"competitions"`
	MatchesFound   int           `json:"matches_found"`
	MatchesScored  int           `json:"matches_scored"`
	MatchesSkipped int           `json:"matches_skipped"`
	Picks          int           `json:"picks"`
	TeamsPersisted int           `json:"teams_persisted"`
	Errors         []string      `json:"errors"`
	Duration       time.Duration `json:"duration_ns"`
}

// AddErrorf records a formatted error message.
func (r *RunResult) AddErrorf(format string, args ...interface{}) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// Summary returns a human-readable summary of the run.
func (r *RunResult) Summary() string {
	return fmt.Sprintf(
		"day=%s state=%s competitions=%d matches=%d scored=%d skipped=%d picks=%d teams=%d errors=%d dur=%s",
		r.Day, r.State, r.Competitions, r.MatchesFound, r.MatchesScored,
		r.MatchesSkipped, r.Picks, r.TeamsPersisted, len(r.Errors),
		r.Duration.Round(time.Millisecond),
	)
}
