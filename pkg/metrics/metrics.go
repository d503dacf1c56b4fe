// Package metrics collects and exposes Prometheus metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Notification delivery outcomes
const (
	ResultDelivered = "delivered"
	ResultDuplicate = "duplicate"
	ResultFailed    = "failed"
)

// MetricsCollector is what usecases, workers and middleware record into.
type MetricsCollector interface {
	RecordHTTPRequest(method, route string, status int, duration time.Duration)
	RecordApplicationSubmitted()
	RecordTransition(from, to string)
	RecordNotification(notificationType, result string)
	RecordRateLimited(scope string)
}

// Collector is the Prometheus implementation.
type Collector struct {
	httpRequests  *prometheus.CounterVec
	httpLatency   *prometheus.HistogramVec
	submitted     prometheus.Counter
	transitions   *prometheus.CounterVec
	notifications *prometheus.CounterVec
	rateLimited   *prometheus.CounterVec
}

// NewCollector creates a Collector and registers it with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "talenthub_http_requests_total",
			Help: "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status_code"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "talenthub_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		submitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "talenthub_applications_submitted_total",
			Help: "Applications successfully submitted.",
		}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "talenthub_application_transitions_total",
			Help: "Application status changes by from and to status.",
		}, []string{"from", "to"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "talenthub_notifications_total",
			Help: "Notification deliveries by type and result.",
		}, []string{"type", "result"}),
		rateLimited: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "talenthub_rate_limited_total",
			Help: "Requests rejected by a rate limiter.",
		}, []string{"scope"}),
	}

	reg.MustRegister(
		c.httpRequests,
		c.httpLatency,
		c.submitted,
		c.transitions,
		c.notifications,
		c.rateLimited,
	)

	return c
}

func (c *Collector) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpLatency.WithLabelValues(method, route).Observe(duration.Seconds())
}

func (c *Collector) RecordApplicationSubmitted() {
	c.submitted.Inc()
}

func (c *Collector) RecordTransition(from, to string) {
	c.transitions.WithLabelValues(from, to).Inc()
}

func (c *Collector) RecordNotification(notificationType, result string) {
	c.notifications.WithLabelValues(notificationType, result).Inc()
}

func (c *Collector) RecordRateLimited(scope string) {
	c.rateLimited.WithLabelValues(scope).Inc()
}

// Nop discards everything. Used in tests and when metrics are disabled.
type Nop struct{}

func (Nop) RecordHTTPRequest(string, string, int, time.Duration) {}
func (Nop) RecordApplicationSubmitted() {}
func (Nop) RecordTransition(string, string) {}
func (Nop) RecordNotification(string, string) {}
func (Nop) RecordRateLimited(string) {}

// Handler returns the scrape handler for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
