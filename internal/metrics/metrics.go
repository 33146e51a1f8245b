package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spigell/ares/internal/interview"
)

// Recorder collects interview and HTTP metrics on its own registry. It
// implements interview.Observer.
type Recorder struct {
	registry *prometheus.Registry

	sessionsStarted   *prometheus.CounterVec
	sessionsCompleted *prometheus.CounterVec
	turns             *prometheus.CounterVec
	collaboratorCalls *prometheus.HistogramVec
	activeSessions    prometheus.GaugeFunc

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// New creates a recorder. active, when set, reports the number of live sessions.
func New(active func() int) *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		sessionsStarted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ares_sessions_started_total",
				Help: "Interviews started by starting depth",
			},
			[]string{"depth"},
		),
		sessionsCompleted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ares_sessions_completed_total",
				Help: "Interviews completed by end reason and recommendation",
			},
			[]string{"reason", "recommendation"},
		),
		turns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ares_turns_total",
				Help: "Recorded interview turns by depth and verdict",
			},
			[]string{"depth", "verdict"},
		),
		collaboratorCalls: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ares_collaborator_call_duration_seconds",
				Help:    "Duration of question source and evaluator calls",
				Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
			},
			[]string{"collaborator", "outcome"},
		),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests",
				Buckets: []float64{0.1, 0.5, 1, 2, 5},
			},
			[]string{"method", "endpoint"},
		),
	}

	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.sessionsStarted,
		r.sessionsCompleted,
		r.turns,
		r.collaboratorCalls,
		r.requests,
		r.requestDuration,
	)

	if active != nil {
		r.activeSessions = prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "ares_active_sessions",
				Help: "Sessions currently held in memory",
			},
			func() float64 { return float64(active()) },
		)
		r.registry.MustRegister(r.activeSessions)
	}

	return r
}

func (r *Recorder) SessionStarted(_ string, depth interview.Depth) {
	if r == nil {
		return
	}
	r.sessionsStarted.WithLabelValues(depth.String()).Inc()
}

func (r *Recorder) TurnRecorded(_ string, turn interview.Turn) {
	if r == nil {
		return
	}
	r.turns.WithLabelValues(turn.Depth.String(), string(turn.Evaluation.Quality)).Inc()
}

func (r *Recorder) SessionCompleted(summary interview.Summary) {
	if r == nil {
		return
	}
	r.sessionsCompleted.WithLabelValues(summary.EndReason, string(summary.Recommendation)).Inc()
}

func (r *Recorder) CollaboratorCalled(collaborator string, took time.Duration, err error) {
	if r == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	r.collaboratorCalls.WithLabelValues(collaborator, outcome).Observe(took.Seconds())
}

// Middleware counts requests and their duration by route template.
func (r *Recorder) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		if r == nil {
			return
		}

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}

		r.requests.WithLabelValues(
			c.Request.Method,
			endpoint,
			strconv.Itoa(c.Writer.Status()),
		).Inc()

		r.requestDuration.WithLabelValues(
			c.Request.Method,
			endpoint,
		).Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the registry in the Prometheus text format.
func (r *Recorder) Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
