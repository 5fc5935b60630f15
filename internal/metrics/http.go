package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Count of served HTTP requests.",
	}, []string{"method", "route", "code"})
	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "Duration of served HTTP requests.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "code"})
)

// ObserveHTTPRequest records a served request. Route must be the matched
// pattern, not the raw path, to keep label cardinality bounded.
func ObserveHTTPRequest(method, route string, code int, started time.Time) {
	if route == "" {
		route = "unmatched"
	}
	statusCode := strconv.Itoa(code)

	httpRequestsTotal.WithLabelValues(method, route, statusCode).Inc()
	httpRequestDuration.WithLabelValues(method, route, statusCode).Observe(time.Since(started).Seconds())
}
