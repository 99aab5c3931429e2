package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// API metrics
	APIRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint", "status"},
	)
	APIRequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total API requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// Upstream metrics (auth delegate, rate provider)
	UpstreamRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "upstream_request_duration_seconds",
			Help:    "Outbound call duration",
			Buckets: []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 7.5},
		},
		[]string{"upstream", "outcome"},
	)
	UpstreamErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_errors_total",
			Help: "Outbound call failures by error kind",
		},
		[]string{"upstream", "kind"},
	)

	// Quote metrics
	QuotesIssued = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "exchange_quotes_issued_total",
			Help: "Total quotes returned to clients",
		})
	QuoteFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "exchange_quote_failures_total",
			Help: "Quote requests that ended in an error",
		},
		[]string{"kind"},
	)

	// Authentication metrics
	AuthMiddlewareErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_middleware_errors_total",
			Help: "Requests rejected before token verification",
		},
		[]string{"error_type"},
	)
)

// Upstream label values.
const (
	UpstreamAuth  = "auth_delegate"
	UpstreamRates = "rate_provider"
)

func init() {
	// MustRegister panics if registration fails (e.g. duplicate)
	prometheus.MustRegister(
		APIRequestDuration, APIRequestTotal,
		UpstreamRequestDuration, UpstreamErrors,
		QuotesIssued, QuoteFailures,
		AuthMiddlewareErrors,
	)
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Outcome returns "success" or "error" for duration labels.
func Outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
