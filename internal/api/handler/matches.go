package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/em1rekinci/analizsitesi/internal/api/respond"
	"github.com/em1rekinci/analizsitesi/internal/cache"
	"github.com/em1rekinci/analizsitesi/internal/snapshot"
)

// retryNotReady is the Retry-After hint while today's snapshot is missing.
const retryNotReady = 5 * time.Second

// GetMatches returns today's dashboard: grouped matches flagged with
// is_free, all picks and the coupons. The first request of the day runs the
// daily fetch.
// @Summary Get today's matches
// @Description Returns today's scored matches grouped by competition. Free users see full markets only for the top picks (2, or 3 on days with 10+ matches).
// @Tags predictions
// @Produce json
// @Success 200 {object} snapshot.View
// @Success 304 "Not modified"
// @Failure 503 {object} respond.ErrorResponse
// @Router /matches [get]
func (h *Handler) GetMatches(w http.ResponseWriter, r *http.Request) {
	premium := h.access.IsPremium(r)
	tier := "free"
	if premium {
		tier = "premium"
	}
	cacheKey := fmt.Sprintf("matches:%s:%s", h.snapshots.Day(), tier)
	ttl := cache.TTLSnapshot

	if data, etag, ok := h.cache.Get(cacheKey); ok {
		if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
			respond.WriteNotModified(w, etag)
			return
		}
		respond.WriteJSON(w, data, etag, ttl, true)
		return
	}

	snap, err := h.snapshots.Today(r.Context())
	if err != nil {
		h.logger.Error("Snapshot unavailable", "error", err)
		respond.WriteError(w, http.StatusServiceUnavailable, "DATA_NOT_READY", "Predictions are being prepared, retry in a few seconds",
			respond.WithDay(h.snapshots.Day()), respond.WithRetryAfter(retryNotReady))
		return
	}

	h.writeCached(w, r, cacheKey, snapshot.NewView(snap, premium))
}

// GetCoupons returns today's coupons without triggering a run.
// @Summary Get today's coupons
// @Description Returns the daily, high-odds and super-odds coupons of today's snapshot.
// @Tags predictions
// @Produce json
// @Success 200 {object} coupon.Coupons
// @Success 304 "Not modified"
// @Failure 503 {object} respond.ErrorResponse
// @Router /coupons [get]
func (h *Handler) GetCoupons(w http.ResponseWriter, r *http.Request) {
	cacheKey := fmt.Sprintf("coupons:%s", h.snapshots.Day())
	ttl := cache.TTLSnapshot

	if data, etag, ok := h.cache.Get(cacheKey); ok {
		if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
			respond.WriteNotModified(w, etag)
			return
		}
		respond.WriteJSON(w, data, etag, ttl, true)
		return
	}

	snap, err := h.snapshots.Cached(r.Context())
	if errors.Is(err, snapshot.ErrNotFound) {
		respond.WriteError(w, http.StatusServiceUnavailable, "DATA_NOT_READY", "Coupons are not ready yet",
			respond.WithDay(h.snapshots.Day()), respond.WithRetryAfter(retryNotReady))
		return
	}
	if err != nil {
		h.logger.Error("Snapshot store unavailable", "error", err)
		respond.WriteError(w, http.StatusServiceUnavailable, "STORE_UNAVAILABLE", "Snapshot store unavailable")
		return
	}

	h.writeCached(w, r, cacheKey, map[string]interface{}{
		"date":    snap.Date,
		"coupons": snap.Coupons,
	})
}

// PostRefresh regenerates today's snapshot and drops cached responses.
// @Summary Refresh today's predictions
// @Description Re-runs the daily fetch and scoring, replacing today's snapshot.
// @Tags predictions
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} respond.ErrorResponse
// @Router /refresh [post]
func (h *Handler) PostRefresh(w http.ResponseWriter, r *http.Request) {
	snap, result, err := h.snapshots.Refresh(r.Context())
	if err != nil {
		h.logger.Error("Refresh failed", "error", err, "summary", result.Summary())
		respond.WriteError(w, http.StatusServiceUnavailable, "REFRESH_FAILED", "Predictions could not be regenerated",
			respond.WithDetail(err.Error()), respond.WithDay(result.Day), respond.WithState(string(result.State)))
		return
	}

	dropped := h.cache.DeletePrefix("matches:") + h.cache.DeletePrefix("coupons:")
	h.logger.Info("Snapshot refreshed", "summary", result.Summary(), "cache_dropped", dropped)

	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"date":    snap.Date,
		"result":  result,
		"summary": result.Summary(),
	})
}

// writeCached encodes v, stores it under key and writes it with an ETag.
func (h *Handler) writeCached(w http.ResponseWriter, r *http.Request, key string, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "ENCODE_FAILED", "Failed to encode response")
		return
	}
	ttl := cache.TTLSnapshot
	etag := h.cache.Set(key, data, ttl)
	if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
		respond.WriteNotModified(w, etag)
		return
	}
	respond.WriteJSON(w, data, etag, ttl, false)
}
