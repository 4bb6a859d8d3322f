// Copyright 2021 Converter Systems LLC. All rights reserved.

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initPipelineMetrics() {
	r.TicksTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "uapubsub_writergroup_ticks_total",
			Help: "Total number of publishing ticks executed",
		},
		[]string{"writer_group"},
	)

	r.TicksSkippedTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "uapubsub_writergroup_ticks_skipped_total",
			Help: "Total number of publishing ticks skipped because the previous tick was still running",
		},
		[]string{"writer_group"},
	)

	r.TickDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "uapubsub_writergroup_tick_duration_seconds",
			Help:    "Publishing tick duration in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		},
		[]string{"writer_group"},
	)

	r.MessagesPublished = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "uapubsub_messages_published_total",
			Help: "Total number of DataSetMessages handed to the transport",
		},
		[]string{"writer"},
	)

	r.KeyFramesPublished = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "uapubsub_keyframes_published_total",
			Help: "Total number of key frame DataSetMessages handed to the transport",
		},
		[]string{"writer"},
	)

	r.PublishErrorsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "uapubsub_publish_errors_total",
			Help: "Total number of transport failures",
		},
		[]string{"writer"},
	)

	r.FieldReadErrorsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "uapubsub_field_read_errors_total",
			Help: "Total number of DataSetField reads that returned a bad status",
		},
		[]string{"writer"},
	)

	r.WriterGroupsEnabled = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "uapubsub_writergroups_enabled",
			Help: "Number of writer groups currently enabled",
		},
	)
}
