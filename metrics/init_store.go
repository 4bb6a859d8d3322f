package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initStoreMetrics() {
	r.NodesTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "uapubsub_store_nodes_total",
			Help: "Total number of nodes in the address space",
		},
	)

	r.NodeOperations = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "uapubsub_store_operations_total",
			Help: "Total number of address space operations",
		},
		[]string{"operation", "status"},
	)

	r.HookErrorsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "uapubsub_store_hook_errors_total",
			Help: "Total number of errors returned by value and lifecycle hooks",
		},
		[]string{"hook"},
	)
}
