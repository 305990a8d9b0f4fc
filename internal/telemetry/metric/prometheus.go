package metric

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "taskadmin"

// Registry holds all application metrics.
type Registry struct {
	registry *prometheus.Registry

	// Client metrics
	APICalls           *prometheus.CounterVec
	APIDuration        *prometheus.HistogramVec
	SessionTransitions *prometheus.CounterVec

	// Backend metrics
	HTTPRequests    *prometheus.CounterVec
	HTTPDuration    *prometheus.HistogramVec
	RateLimited     prometheus.Counter
	LoginsTotal     *prometheus.CounterVec
	InFlightRequest prometheus.Gauge
}

// NewRegistry creates a registry with Go and process collectors attached.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	r := &Registry{
		registry: reg,
		APICalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_calls_total",
			Help:      "Backend API calls made by the client, by operation and outcome.",
		}, []string{"operation", "outcome"}),
		APIDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "api_call_duration_seconds",
			Help:      "Latency of backend API calls.",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		}, []string{"operation"}),
		SessionTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_transitions_total",
			Help:      "Session status changes, by target status.",
		}, []string{"status"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests served, by method, route and status code.",
		}, []string{"method", "route", "code"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Latency of served HTTP requests.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		RateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_rate_limited_total",
			Help:      "Requests rejected by the rate limiter.",
		}),
		LoginsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logins_total",
			Help:      "Token requests, by result.",
		}, []string{"result"}),
		InFlightRequest: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "Requests currently being served.",
		}),
	}

	reg.MustRegister(
		r.APICalls,
		r.APIDuration,
		r.SessionTransitions,
		r.HTTPRequests,
		r.HTTPDuration,
		r.RateLimited,
		r.LoginsTotal,
		r.InFlightRequest,
	)
	return r
}

var (
	globalOnce sync.Once
	global     *Registry
)

// Global returns the process-wide registry.
func Global() *Registry {
	globalOnce.Do(func() {
		global = NewRegistry()
	})
	return global
}

// Handler returns an HTTP handler for the global registry.
func Handler() http.Handler {
	return Global().Handler()
}

// Handler returns an HTTP handler exposing r in Prometheus text format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// MustRegister adds extra collectors to r.
func (r *Registry) MustRegister(cs ...prometheus.Collector) {
	r.registry.MustRegister(cs...)
}

// RecordAPICall records one client call. outcome is "ok" or an error kind.
func (r *Registry) RecordAPICall(operation, outcome string, d time.Duration) {
	r.APICalls.WithLabelValues(operation, outcome).Inc()
	r.APIDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// RecordSessionTransition counts a move to status.
func (r *Registry) RecordSessionTransition(status string) {
	r.SessionTransitions.WithLabelValues(status).Inc()
}

// RecordHTTPRequest records one served request.
func (r *Registry) RecordHTTPRequest(method, route, code string, d time.Duration) {
	r.HTTPRequests.WithLabelValues(method, route, code).Inc()
	r.HTTPDuration.WithLabelValues(route).Observe(d.Seconds())
}

// IncRateLimited counts a rejected request.
func (r *Registry) IncRateLimited() {
	r.RateLimited.Inc()
}

// RecordLogin counts a token request with result "success" or "failure".
func (r *Registry) RecordLogin(result string) {
	r.LoginsTotal.WithLabelValues(result).Inc()
}
