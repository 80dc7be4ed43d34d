package metrics

import "github.com/prometheus/client_golang/prometheus"

// Store Prometheus metrics.
var (
	StoreOperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "edgardex",
			Name:      "store_operations_total",
			Help:      "Total number of store operations",
		},
		[]string{"driver", "operation", "status"},
	)

	StoreOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "edgardex",
			Name:      "store_operation_duration_seconds",
			Help:      "Store operation duration in seconds",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"driver", "operation"},
	)

	StoreDocumentsTracked = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "edgardex",
			Name:      "store_documents_tracked_total",
			Help:      "Total documents accepted for tracking",
		},
		[]string{"driver"},
	)

	StoreHealthy = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "edgardex",
			Name:      "store_healthy",
			Help:      "Whether the last health probe succeeded (1) or failed (0)",
		},
		[]string{"driver"},
	)
)

var storeMetricsRegistered bool

// RegisterStoreMetrics registers Prometheus store metrics. Must be called once from main.
func RegisterStoreMetrics() {
	if storeMetricsRegistered {
		return
	}
	prometheus.MustRegister(StoreOperationsTotal)
	prometheus.MustRegister(StoreOperationDuration)
	prometheus.MustRegister(StoreDocumentsTracked)
	prometheus.MustRegister(StoreHealthy)
	storeMetricsRegistered = true
}
