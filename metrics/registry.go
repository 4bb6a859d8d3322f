// Copyright 2021 Converter Systems LLC. All rights reserved.

package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds the metrics of the information model and the publish pipeline.
type Registry struct {
	// Store metrics
	NodesTotal      prometheus.Gauge
	NodeOperations  *prometheus.CounterVec
	HookErrorsTotal *prometheus.CounterVec

	// Pipeline metrics
	TicksTotal           *prometheus.CounterVec
	TicksSkippedTotal    *prometheus.CounterVec
	TickDuration         *prometheus.HistogramVec
	MessagesPublished    *prometheus.CounterVec
	KeyFramesPublished   *prometheus.CounterVec
	PublishErrorsTotal   *prometheus.CounterVec
	FieldReadErrorsTotal *prometheus.CounterVec
	WriterGroupsEnabled  prometheus.Gauge

	registry *prometheus.Registry
}

var (
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the process wide registry.
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized.
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),
	}
	r.initStoreMetrics()
	r.initPipelineMetrics()
	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}

// Handler returns an http.Handler that serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}
