package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/em1rekinci/analizsitesi/internal/api/respond"
	"github.com/em1rekinci/analizsitesi/internal/cache"
	"github.com/em1rekinci/analizsitesi/internal/stats"
)

// teamResponse is the body of GET /teams/{teamID}.
type teamResponse struct {
	TeamID      int           `json:"team_id"`
	Day         string        `json:"day"`
	Profile     stats.Profile `json:"profile"`
	Strength    float64       `json:"strength"`
	Consistency float64       `json:"consistency"`
}

// GetTeam returns a team's recent-form profile for today.
// @Summary Get team form
// @Description Returns the team's profile over its last finished matches, plus strength (0-100) and form consistency multiplier.
// @Tags teams
// @Produce json
// @Param teamID path int true "Upstream team ID"
// @Success 200 {object} teamResponse
// @Failure 400 {object} respond.ErrorResponse
// @Router /teams/{teamID} [get]
func (h *Handler) GetTeam(w http.ResponseWriter, r *http.Request) {
	teamID, err := strconv.Atoi(chi.URLParam(r, "teamID"))
	if err != nil || teamID <= 0 {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_ID", "teamID must be a positive integer")
		return
	}

	day := h.snapshots.Day()
	cacheKey := fmt.Sprintf("team:%s:%d", day, teamID)
	ttl := cache.TTLTeam

	if data, etag, ok := h.cache.Get(cacheKey); ok {
		if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
			respond.WriteNotModified(w, etag)
			return
		}
		respond.WriteJSON(w, data, etag, ttl, true)
		return
	}

	profile := h.teams.Profile(r.Context(), teamID)
	data, err := json.Marshal(teamResponse{
		TeamID:      teamID,
		Day:         day,
		Profile:     profile,
		Strength:    h.teams.Strength(r.Context(), teamID),
		Consistency: stats.Consistency(profile.RecentGoals),
	})
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "ENCODE_FAILED", "Failed to encode response")
		return
	}

	etag := h.cache.Set(cacheKey, data, ttl)
	respond.WriteJSON(w, data, etag, ttl, false)
}
