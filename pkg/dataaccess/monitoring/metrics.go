package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// StorageLatency is the duration of storage queries.
	StorageLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "dataaccess_storage_latency",
			Help: "Duration of storage queries",
		},
		[]string{"backend", "query", "collection"},
	)

	// StorageTotalRequests is the total number of storage requests.
	StorageTotalRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dataaccess_storage_total_requests",
			Help: "Total number of storage requests",
		},
		[]string{"backend", "query", "collection"},
	)

	// StorageFallbacks is the number of document-store to relational-store
	// fallbacks. At most one per process, but a counter keeps it visible
	// across scrapes.
	StorageFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dataaccess_storage_fallback_total",
			Help: "Total number of backend fallbacks",
		},
	)
)
