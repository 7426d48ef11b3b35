package services

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/cleanops/erp-sdk/modules/core/domain/entities/policy"
)

var (
	resolutions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "scopes",
		Subsystem: "engine",
		Name:      "resolutions_total",
		Help:      "Total number of scope resolutions broken down by result and winning scope.",
	}, []string{"result", "scope"})

	resolutionLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "scopes",
		Subsystem: "engine",
		Name:      "resolution_latency_seconds",
		Help:      "Latency distribution for scope resolutions.",
		Buckets: []float64{
			0.0005, 0.001, 0.002, 0.005,
			0.01, 0.02, 0.05, 0.1,
			0.2, 0.5, 1, 2,
		},
	}, []string{"result"})
)

func recordResolutionMetrics(scope policy.Scope, err error, latency time.Duration) {
	result := "resolved"
	scopeLabel := scope.Winner().String()
	switch {
	case errors.Is(err, policy.ErrDenied):
		result = "denied"
		scopeLabel = "none"
	case err != nil:
		result = "error"
		scopeLabel = "none"
	}
	resolutions.With(prometheus.Labels{"result": result, "scope": scopeLabel}).Inc()
	resolutionLatency.With(prometheus.Labels{"result": result}).Observe(latency.Seconds())
}
