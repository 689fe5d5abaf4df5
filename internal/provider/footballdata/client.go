// Package footballdata provides the HTTP client for the football-data.org v4
// API.
//
// football-data.org uses header auth (X-Auth-Token), no pagination for the
// endpoints used here, and answers 429 when the per-minute quota is spent.
// Requests are paced by a token bucket limiter and retried per RetryPolicy.
package footballdata

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/em1rekinci/analizsitesi/internal/metrics"
)

// RetryPolicy controls how transient upstream failures are retried.
// A 429 waits RateLimitWait*(attempt+1); the other waits are fixed.
type RetryPolicy struct {
	MaxAttempts     int
	RateLimitWait   time.Duration
	ServerErrorWait time.Duration
	TimeoutWait     time.Duration
	ConnErrorWait   time.Duration
}

// DefaultRetryPolicy returns the production retry schedule.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:     2,
		RateLimitWait:   20 * time.Second,
		ServerErrorWait: 5 * time.Second,
		TimeoutWait:     3 * time.Second,
		ConnErrorWait:   5 * time.Second,
	}
}

// errPermanent marks failures that must not be retried (403, 404, other 4xx).
var errPermanent = errors.New("permanent upstream failure")

// Client is the HTTP client for football-data.org endpoints.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	limiter    *rate.Limiter
	retry      RetryPolicy
	metrics    *metrics.Recorder
	logger     *slog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithRetryPolicy replaces the default retry schedule.
func WithRetryPolicy(p RetryPolicy) Option {
	return func(c *Client) { c.retry = p }
}

// WithHTTPClient replaces the default *http.Client (30s timeout).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithMetrics attaches a metrics recorder.
func WithMetrics(m *metrics.Recorder) Option {
	return func(c *Client) { c.metrics = m }
}

// NewClient creates a football-data.org HTTP client with rate limiting.
func NewClient(baseURL, apiKey string, requestsPerMinute int, logger *slog.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if requestsPerMinute < 1 {
		requestsPerMinute = 10
	}
	rps := float64(requestsPerMinute) / 60.0
	c := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    baseURL,
		apiKey:     apiKey,
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		retry:      DefaultRetryPolicy(),
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.retry.MaxAttempts < 1 {
		c.retry.MaxAttempts = 1
	}
	return c
}

// get performs a rate-limited GET with retries and returns the response body.
// endpoint is a low-cardinality label used for logs and metrics.
func (c *Client) get(ctx context.Context, endpoint, path string, params url.Values) ([]byte, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	for attempt := 0; attempt < c.retry.MaxAttempts; attempt++ {
		last := attempt == c.retry.MaxAttempts-1

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("X-Auth-Token", c.apiKey)
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("http request %s: %w", path, ctx.Err())
			}
			reason, wait := "connection", c.retry.ConnErrorWait
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				reason, wait = "timeout", c.retry.TimeoutWait
			}
			c.metrics.Upstream(endpoint, reason)
			c.logger.Warn("Upstream request failed",
				"endpoint", endpoint, "reason", reason,
				"attempt", attempt+1, "max_attempts", c.retry.MaxAttempts, "error", err)
			if last {
				return nil, fmt.Errorf("http request %s: %w", path, err)
			}
			c.metrics.Retry(reason)
			if err := sleep(ctx, wait); err != nil {
				return nil, err
			}
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("read response body: %w", err)
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			c.metrics.Upstream(endpoint, "ok")
			return body, nil

		case resp.StatusCode == http.StatusTooManyRequests:
			c.metrics.Upstream(endpoint, "rate_limited")
			if last {
				return nil, fmt.Errorf("football-data %s: rate limited after %d attempts", path, c.retry.MaxAttempts)
			}
			wait := c.retry.RateLimitWait * time.Duration(attempt+1)
			c.logger.Warn("Upstream rate limit, backing off",
				"endpoint", endpoint, "wait", wait, "attempt", attempt+1)
			c.metrics.Retry("rate_limited")
			if err := sleep(ctx, wait); err != nil {
				return nil, err
			}

		case resp.StatusCode == http.StatusForbidden:
			c.metrics.Upstream(endpoint, "forbidden")
			return nil, fmt.Errorf("football-data %s returned 403, check FOOTBALL_API_KEY: %w", path, errPermanent)

		case resp.StatusCode == http.StatusNotFound:
			c.metrics.Upstream(endpoint, "not_found")
			return nil, fmt.Errorf("football-data %s returned 404: %w", path, errPermanent)

		case resp.StatusCode >= 500:
			c.metrics.Upstream(endpoint, "server_error")
			if last {
				return nil, fmt.Errorf("football-data %s returned %d: %s", path, resp.StatusCode, truncate(body, 200))
			}
			c.logger.Warn("Upstream server error, retrying",
				"endpoint", endpoint, "status", resp.StatusCode, "attempt", attempt+1)
			c.metrics.Retry("server_error")
			if err := sleep(ctx, c.retry.ServerErrorWait); err != nil {
				return nil, err
			}

		default:
			c.metrics.Upstream(endpoint, "unexpected_status")
			return nil, fmt.Errorf("football-data %s returned %d: %s: %w",
				path, resp.StatusCode, truncate(body, 200), errPermanent)
		}
	}

	return nil, fmt.Errorf("football-data %s: all %d attempts failed", path, c.retry.MaxAttempts)
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// truncate returns a truncated string for error messages.
func truncate(b []byte, maxLen int) string {
	if len(b) <= maxLen {
		return string(b)
	}
	return string(b[:maxLen]) + "..."
}
