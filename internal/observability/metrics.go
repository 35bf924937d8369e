package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

var (
	CompletionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "advisor_completions_total",
			Help: "Completion calls by provider and outcome",
		},
		[]string{"provider", "outcome"},
	)
	CompletionDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "advisor_completion_duration_seconds",
			Help:    "Completion call duration in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"provider"},
	)
	SessionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "advisor_sessions_active",
			Help: "Sessions currently held by the HTTP host",
		},
	)
	TurnsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "advisor_turns_total",
			Help: "Conversation turns appended, by role",
		},
		[]string{"role"},
	)
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "method", "status"},
	)
)

// InitMetrics registers the collectors with the default registry. Call once.
func InitMetrics() {
	prometheus.MustRegister(CompletionsTotal)
	prometheus.MustRegister(CompletionDuration)
	prometheus.MustRegister(SessionsActive)
	prometheus.MustRegister(TurnsTotal)
	prometheus.MustRegister(HTTPRequestsTotal)
}

// ObserveCompletion records one completion call.
func ObserveCompletion(provider string, start time.Time, err error) {
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
	}
	CompletionsTotal.WithLabelValues(provider, outcome).Inc()
	CompletionDuration.WithLabelValues(provider).Observe(time.Since(start).Seconds())
}

// HTTPMetricsMiddleware counts requests by chi route pattern.
func HTTPMetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil {
			if p := rc.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		HTTPRequestsTotal.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
	})
}
