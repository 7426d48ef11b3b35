package authz

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	checkRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "authz",
		Subsystem: "gate",
		Name:      "requests_total",
		Help:      "Total number of permission-key evaluations broken down by mode and result.",
	}, []string{"mode", "result"})

	checkLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "authz",
		Subsystem: "gate",
		Name:      "latency_seconds",
		Help:      "Latency distribution for permission-key evaluations.",
		Buckets: []float64{
			0.0005, 0.001, 0.002, 0.005,
			0.01, 0.02, 0.05, 0.1,
			0.2, 0.5, 1, 2,
		},
	}, []string{"mode", "result"})
)

func recordCheckMetrics(mode Mode, allowed bool, latency time.Duration) {
	result := "denied"
	if allowed {
		result = "allowed"
	}
	labels := prometheus.Labels{
		"mode":   string(mode),
		"result": result,
	}
	checkRequests.With(labels).Inc()
	checkLatency.With(labels).Observe(latency.Seconds())
}
