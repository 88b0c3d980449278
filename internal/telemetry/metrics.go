package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	storeOpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_kv_operations_total",
			Help: "Device key-value store operations by backend, operation and result",
		},
		[]string{"backend", "op", "result"},
	)

	storeOpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storefront_kv_operation_duration_seconds",
			Help:    "Device key-value store operation latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"backend", "op"},
	)

	persistFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_persist_failures_total",
			Help: "Write-through persistence failures left unrolled in memory",
		},
		[]string{"component", "key"},
	)

	catalogFetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_catalog_fetch_total",
			Help: "Remote product source fetches by endpoint and result",
		},
		[]string{"endpoint", "result"},
	)

	catalogFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storefront_catalog_fetch_duration_seconds",
			Help:    "Remote product source fetch latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)
)

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// ObserveStoreOp records one key-value operation.
func ObserveStoreOp(backend, op string, start time.Time, err error) {
	storeOpsTotal.WithLabelValues(backend, op, result(err)).Inc()
	storeOpDuration.WithLabelValues(backend, op).Observe(time.Since(start).Seconds())
}

func PersistFailure(component, key string) {
	persistFailuresTotal.WithLabelValues(component, key).Inc()
}

func ObserveCatalogFetch(endpoint string, start time.Time, err error) {
	catalogFetchTotal.WithLabelValues(endpoint, result(err)).Inc()
	catalogFetchDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
}
