package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "invisible"

var (
	commitmentOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "commitment",
		Name:      "operations_total",
		Help:      "Count of commitment operations.",
	}, []string{"operation", "status"})
	commitmentOperationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "commitment",
		Name:      "operation_duration_seconds",
		Help:      "Duration of commitment operations.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation", "status"})
)

// ObserveCommitmentOperation records duration and outcome of a commitment
// service operation.
func ObserveCommitmentOperation(operation string, err error, started time.Time) {
	status := statusLabel(err)

	commitmentOperationsTotal.WithLabelValues(operation, status).Inc()
	commitmentOperationDuration.WithLabelValues(operation, status).Observe(time.Since(started).Seconds())
}

func statusLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
