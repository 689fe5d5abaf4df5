package footballdata

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

const teamMatchesBody = `{
  "matches": [
    {
      "id": 1001,
      "utcDate": "2025-03-01T15:00:00Z",
      "status": "FINISHED",
      "homeTeam": {"id": 57, "name": "Arsenal FC", "shortName": "Arsenal"},
      "awayTeam": {"id": 61, "name": "Chelsea FC", "shortName": "Chelsea"},
      "score": {"fullTime": {"home": 2, "away": 1}, "halfTime": {"home": 1, "away": 1}}
    },
    {
      "id": 1002,
      "utcDate": "2025-03-08T17:30:00Z",
      "status": "FINISHED",
      "homeTeam": {"id": 65, "name": "Manchester City FC"},
      "awayTeam": {"id": 57, "name": "Arsenal FC"},
      "score": {"fullTime": {"home": 0, "away": 0}, "halfTime": {"home": null, "away": null}}
    }
  ]
}`

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fastPolicy(attempts int) RetryPolicy {
	return RetryPolicy{
		MaxAttempts:     attempts,
		RateLimitWait:   time.Millisecond,
		ServerErrorWait: time.Millisecond,
		TimeoutWait:     time.Millisecond,
		ConnErrorWait:   time.Millisecond,
	}
}

func newTestClient(srv *httptest.Server, attempts int) *Client {
	return NewClient(srv.URL, "secret", 60000, quietLogger(), WithRetryPolicy(fastPolicy(attempts)))
}

func TestRecentMatches_Decodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/teams/57/matches" {
			t.Errorf("path = %q, want /teams/57/matches", r.URL.Path)
		}
		if got := r.Header.Get("X-Auth-Token"); got != "secret" {
			t.Errorf("X-Auth-Token = %q, want secret", got)
		}
		q := r.URL.Query()
		if q.Get("limit") != "10" || q.Get("status") != "FINISHED" {
			t.Errorf("query = %v, want limit=10 status=FINISHED", q)
		}
		io.WriteString(w, teamMatchesBody)
	}))
	defer srv.Close()

	got := newTestClient(srv, 2).RecentMatches(context.Background(), 57, 10)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	m := got[0]
	if m.HomeTeam.ID != 57 || m.AwayTeam.Name != "Chelsea FC" {
		t.Errorf("teams = %+v / %+v", m.HomeTeam, m.AwayTeam)
	}
	if !m.Score.FullTime.Known() || *m.Score.FullTime.Home != 2 || *m.Score.FullTime.Away != 1 {
		t.Errorf("full time = %+v, want 2-1", m.Score.FullTime)
	}
	if got[1].Score.HalfTime.Known() {
		t.Errorf("second match half time should be unknown")
	}
}

func TestFixtures_QueryParams(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/competitions/PL/matches" {
			t.Errorf("path = %q", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("dateFrom") != "2025-03-01" || q.Get("dateTo") != "2025-03-01" {
			t.Errorf("query = %v", q)
		}
		io.WriteString(w, `{"matches": []}`)
	}))
	defer srv.Close()

	got := newTestClient(srv, 2).Fixtures(context.Background(), "PL", "2025-03-01", "2025-03-01")
	if got == nil || len(got) != 0 {
		t.Fatalf("got %v, want empty non-nil slice", got)
	}
}

func TestGet_RetriesRateLimit(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		io.WriteString(w, teamMatchesBody)
	}))
	defer srv.Close()

	got := newTestClient(srv, 2).RecentMatches(context.Background(), 57, 10)
	if len(got) != 2 {
		t.Errorf("len = %d, want 2 after retry", len(got))
	}
	if n := atomic.LoadInt32(&calls); n != 2 {
		t.Errorf("calls = %d, want 2", n)
	}
}

func TestGet_ServerErrorExhaustsToEmpty(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	got := newTestClient(srv, 3).RecentMatches(context.Background(), 57, 10)
	if len(got) != 0 {
		t.Errorf("len = %d, want 0", len(got))
	}
	if n := atomic.LoadInt32(&calls); n != 3 {
		t.Errorf("calls = %d, want 3", n)
	}
}

func TestGet_PermanentFailuresNotRetried(t *testing.T) {
	for _, status := range []int{http.StatusForbidden, http.StatusNotFound, http.StatusBadRequest} {
		var calls int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			w.WriteHeader(status)
		}))

		got := newTestClient(srv, 3).Fixtures(context.Background(), "PL", "2025-03-01", "2025-03-01")
		if len(got) != 0 {
			t.Errorf("status %d: len = %d, want 0", status, len(got))
		}
		if n := atomic.LoadInt32(&calls); n != 1 {
			t.Errorf("status %d: calls = %d, want 1", status, n)
		}
		srv.Close()
	}
}

func TestGet_MalformedPayloadIsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"matches": [`)
	}))
	defer srv.Close()

	got := newTestClient(srv, 2).RecentMatches(context.Background(), 57, 10)
	if len(got) != 0 {
		t.Errorf("len = %d, want 0", len(got))
	}
}

func TestGet_ConnectionErrorIsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewClient(url, "secret", 60000, quietLogger(), WithRetryPolicy(fastPolicy(2)))
	if got := c.RecentMatches(context.Background(), 57, 10); len(got) != 0 {
		t.Errorf("len = %d, want 0", len(got))
	}
}
