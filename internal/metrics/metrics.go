package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"playmate/internal/services"
)

// Recorder holds the playmate collectors.
type Recorder struct {
	stageLatency *prometheus.HistogramVec
	stageErrors  *prometheus.CounterVec
	runs         *prometheus.CounterVec
	picks        prometheus.Histogram
	httpRequests *prometheus.CounterVec
	httpLatency  *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg. A nil reg uses the
// default registry.
func New(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	r := &Recorder{
		stageLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "playmate_stage_duration_seconds",
			Help:    "Latency of recommendation pipeline stages",
			Buckets: prometheus.DefBuckets,
		}, []string{"stage"}),
		stageErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "playmate_stage_errors_total",
			Help: "Pipeline stage failures by kind",
		}, []string{"stage", "kind"}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "playmate_runs_total",
			Help: "Recommendation runs by outcome",
		}, []string{"outcome"}),
		picks: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "playmate_recommendations_per_run",
			Help:    "Number of recommendations returned by successful runs",
			Buckets: []float64{0, 1, 2, 3, 5, 8, 13},
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "playmate_http_requests_total",
			Help: "HTTP API requests by route and status",
		}, []string{"route", "status"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "playmate_http_request_duration_seconds",
			Help:    "HTTP API latency by route",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}
	reg.MustRegister(
		r.stageLatency,
		r.stageErrors,
		r.runs,
		r.picks,
		r.httpRequests,
		r.httpLatency,
	)
	return r
}

// ObserveStage records one pipeline stage.
func (r *Recorder) ObserveStage(stage string, elapsed time.Duration, err error) {
	if r == nil {
		return
	}
	r.stageLatency.WithLabelValues(stage).Observe(elapsed.Seconds())
	if err != nil {
		r.stageErrors.WithLabelValues(stage, services.FailureKind(err)).Inc()
	}
}

// ObserveRun records the outcome of one run.
func (r *Recorder) ObserveRun(outcome string, recommendations int) {
	if r == nil {
		return
	}
	r.runs.WithLabelValues(outcome).Inc()
	if outcome == "ok" || outcome == "empty" {
		r.picks.Observe(float64(recommendations))
	}
}

// ObserveHTTP records one API request.
func (r *Recorder) ObserveHTTP(route string, status int, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.httpRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
	r.httpLatency.WithLabelValues(route).Observe(elapsed.Seconds())
}
