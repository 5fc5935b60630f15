package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	quoteRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "quoter",
		Name:      "requests_total",
		Help:      "Count of quote requests per source.",
	}, []string{"source", "status"})
	quoteRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "quoter",
		Name:      "request_duration_seconds",
		Help:      "Duration of quote requests per source.",
		Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	}, []string{"source", "status"})
)

func ObserveQuote(source string, err error, started time.Time) {
	if source == "" {
		source = "unknown"
	}
	status := statusLabel(err)

	quoteRequestsTotal.WithLabelValues(source, status).Inc()
	quoteRequestDuration.WithLabelValues(source, status).Observe(time.Since(started).Seconds())
}
