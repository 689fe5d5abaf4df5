// Package metrics exposes Prometheus instruments for the upstream client and
// the daily run. A nil *Recorder is valid and records nothing.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder holds all application metrics.
type Recorder struct {
	registry       *prometheus.Registry
	upstreamTotal  *prometheus.CounterVec
	upstreamRetry  *prometheus.CounterVec
	runDuration    prometheus.Histogram
	matchesScored  *prometheus.CounterVec
	matchErrors    prometheus.Counter
	lastRunPicks   prometheus.Gauge
	teamCacheLoads prometheus.Counter
}

// New creates a Recorder backed by its own registry.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewGoCollector(), prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &Recorder{
		registry: reg,
		upstreamTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "analiz_upstream_requests_total",
				Help: "Upstream football API requests by endpoint and outcome",
			},
			[]string{"endpoint", "outcome"},
		),
		upstreamRetry: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "analiz_upstream_retries_total",
				Help: "Upstream football API retries by reason",
			},
			[]string{"reason"},
		),
		runDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "analiz_daily_run_duration_seconds",
			Help:    "Duration of daily fetch runs",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
		}),
		matchesScored: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "analiz_matches_scored_total",
				Help: "Matches scored by competition",
			},
			[]string{"competition"},
		),
		matchErrors: f.NewCounter(prometheus.CounterOpts{
			Name: "analiz_match_errors_total",
			Help: "Matches skipped because of processing errors",
		}),
		lastRunPicks: f.NewGauge(prometheus.GaugeOpts{
			Name: "analiz_last_run_picks",
			Help: "Number of picks produced by the last daily run",
		}),
		teamCacheLoads: f.NewCounter(prometheus.CounterOpts{
			Name: "analiz_team_profile_loads_total",
			Help: "Team profiles computed from upstream history",
		}),
	}
}

// Handler serves the registry in Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Upstream records one upstream request outcome ("ok", "rate_limited",
// "server_error", "not_found", "forbidden", "timeout", "connection", "decode", ...).
func (r *Recorder) Upstream(endpoint, outcome string) {
	if r == nil {
		return
	}
	r.upstreamTotal.WithLabelValues(endpoint, outcome).Inc()
}

// Retry records a retry caused by reason.
func (r *Recorder) Retry(reason string) {
	if r == nil {
		return
	}
	r.upstreamRetry.WithLabelValues(reason).Inc()
}

// RunFinished records a completed daily run.
func (r *Recorder) RunFinished(seconds float64, picks int) {
	if r == nil {
		return
	}
	r.runDuration.Observe(seconds)
	r.lastRunPicks.Set(float64(picks))
}

// MatchScored records a successfully scored match.
func (r *Recorder) MatchScored(competition string) {
	if r == nil {
		return
	}
	r.matchesScored.WithLabelValues(competition).Inc()
}

// MatchSkipped records a match dropped because of an error.
func (r *Recorder) MatchSkipped() {
	if r == nil {
		return
	}
	r.matchErrors.Inc()
}

// TeamProfileLoaded records a profile computed from upstream history.
func (r *Recorder) TeamProfileLoaded() {
	if r == nil {
		return
	}
	r.teamCacheLoads.Inc()
}
