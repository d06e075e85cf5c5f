// internal/observability/metrics/metrics.go
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Common label names for consistent metrics
const (
	LabelStatus  = "status"
	LabelMethod  = "method"
	LabelPath    = "path"
	LabelKind    = "kind"
	LabelQuery   = "query"
	LabelSuccess = "success"
)

var (
	// RequestsTotal counts all HTTP requests
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "authgate_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	// RequestDuration tracks the duration of HTTP requests
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "authgate_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	// AuthenticationTotal counts filter outcomes; failed outcomes carry the
	// error kind, successful ones the kind "none"
	AuthenticationTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "authgate_authentication_total",
			Help: "Total number of authentication attempts",
		},
		[]string{LabelKind, LabelSuccess},
	)

	// AuthorizationTotal counts path authorization decisions
	AuthorizationTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "authgate_authorization_total",
			Help: "Total number of path authorization checks",
		},
		[]string{LabelSuccess},
	)

	// StoreQueryDuration tracks the duration of user store queries
	StoreQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "authgate_store_query_duration_seconds",
			Help:    "Duration of user store queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{LabelQuery},
	)

	// UpstreamRequestTotal counts requests proxied to the upstream
	UpstreamRequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "authgate_upstream_requests_total",
			Help: "Total number of requests proxied to the upstream",
		},
		[]string{LabelMethod, LabelStatus},
	)
)

// Collector provides methods for recording metrics
type Collector struct{}

// NewCollector creates a new metrics collector
func NewCollector() *Collector {
	return &Collector{}
}

// RecordRequest records metrics for an HTTP request
func (c *Collector) RecordRequest(method, path string, status int, duration time.Duration) {
	RequestsTotal.WithLabelValues(method, path, http.StatusText(status)).Inc()
	RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordAuthentication records a filter outcome. kind is the error kind for
// failures and "none" for successes.
func (c *Collector) RecordAuthentication(kind string, success bool) {
	AuthenticationTotal.WithLabelValues(kind, boolToString(success)).Inc()
}

// RecordAuthorization records a path authorization decision
func (c *Collector) RecordAuthorization(success bool) {
	AuthorizationTotal.WithLabelValues(boolToString(success)).Inc()
}

// RecordStoreQuery records the duration of a user store query
func (c *Collector) RecordStoreQuery(query string, duration time.Duration) {
	StoreQueryDuration.WithLabelValues(query).Observe(duration.Seconds())
}

// RecordUpstreamRequest records a request proxied to the upstream
func (c *Collector) RecordUpstreamRequest(method string, status int) {
	UpstreamRequestTotal.WithLabelValues(method, http.StatusText(status)).Inc()
}

// Handler returns an HTTP handler for exposing metrics
func Handler() http.Handler {
	return promhttp.Handler()
}

// boolToString converts a boolean to a string representation
func boolToString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
