// Package respond writes the API's JSON bodies, error envelopes and cache
// headers.
package respond

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// ErrorBody is the payload of every API error. Day and State are set when
// the error concerns a daily snapshot or a run.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
	Day     string `json:"day,omitempty"`
	State   string `json:"state,omitempty"`
}

// ErrorResponse is the error envelope.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

type errorReply struct {
	body       ErrorBody
	retryAfter time.Duration
}

// ErrorOption adds optional context to an error reply.
type ErrorOption func(*errorReply)

// WithDetail attaches a free-form detail, usually the wrapped error.
func WithDetail(detail string) ErrorOption {
	return func(e *errorReply) { e.body.Detail = detail }
}

// WithDay names the snapshot day the error refers to.
func WithDay(day string) ErrorOption {
	return func(e *errorReply) { e.body.Day = day }
}

// WithState reports the state a daily run ended in.
func WithState(state string) ErrorOption {
	return func(e *errorReply) { e.body.State = state }
}

// WithRetryAfter sets the Retry-After header, rounded up to whole seconds.
func WithRetryAfter(d time.Duration) ErrorOption {
	return func(e *errorReply) { e.retryAfter = d }
}

// WriteError sends an error envelope. Errors are never cacheable.
func WriteError(w http.ResponseWriter, status int, code, message string, opts ...ErrorOption) {
	reply := errorReply{body: ErrorBody{Code: code, Message: message}}
	for _, opt := range opts {
		opt(&reply)
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	if reply.retryAfter > 0 {
		secs := int((reply.retryAfter + time.Second - 1) / time.Second)
		w.Header().Set("Retry-After", strconv.Itoa(secs))
	}
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: reply.body})
}

// WriteJSON writes a cached snapshot body with its ETag. Bodies only change
// when a run replaces the day's snapshot, so clients may serve them stale
// while revalidating.
func WriteJSON(w http.ResponseWriter, data []byte, etag string, ttl time.Duration, cacheHit bool) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("ETag", etag)
	w.Header().Set("Vary", "Accept-Encoding")
	if cacheHit {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	maxAge := int(ttl.Seconds())
	w.Header().Set("Cache-Control",
		fmt.Sprintf("public, max-age=%d, stale-while-revalidate=%d", maxAge, maxAge/2))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// WriteNotModified sends a 304 with the matching ETag.
func WriteNotModified(w http.ResponseWriter, etag string) {
	w.Header().Set("ETag", etag)
	w.WriteHeader(http.StatusNotModified)
}

// WriteJSONObject encodes v for uncached responses such as health checks
// and refresh results.
func WriteJSONObject(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
