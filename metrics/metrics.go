// Copyright 2021 Converter Systems LLC. All rights reserved.

package metrics

import (
	"strconv"
	"time"
)

// RecordNodeOperation records an address space mutation.
func (r *Registry) RecordNodeOperation(operation string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	r.NodeOperations.WithLabelValues(operation, status).Inc()
}

// SetNodeCount sets the current number of nodes.
func (r *Registry) SetNodeCount(n int) {
	r.NodesTotal.Set(float64(n))
}

// RecordHookError records a failed hook, e.g. "read", "write", "constructor" or "destructor".
func (r *Registry) RecordHookError(hook string) {
	r.HookErrorsTotal.WithLabelValues(hook).Inc()
}

// RecordTick records a completed publishing tick of a writer group.
func (r *Registry) RecordTick(writerGroupID uint16, duration time.Duration) {
	id := strconv.Itoa(int(writerGroupID))
	r.TicksTotal.WithLabelValues(id).Inc()
	r.TickDuration.WithLabelValues(id).Observe(duration.Seconds())
}

// RecordSkippedTick records a publishing tick that found the writer group still running.
func (r *Registry) RecordSkippedTick(writerGroupID uint16) {
	r.TicksSkippedTotal.WithLabelValues(strconv.Itoa(int(writerGroupID))).Inc()
}

// RecordPublish records the outcome of handing a message to the transport.
func (r *Registry) RecordPublish(dataSetWriterID uint16, keyFrame bool, err error) {
	id := strconv.Itoa(int(dataSetWriterID))
	if err != nil {
		r.PublishErrorsTotal.WithLabelValues(id).Inc()
		return
	}
	r.MessagesPublished.WithLabelValues(id).Inc()
	if keyFrame {
		r.KeyFramesPublished.WithLabelValues(id).Inc()
	}
}

// RecordFieldReadError records a field that was published with a bad status.
func (r *Registry) RecordFieldReadError(dataSetWriterID uint16) {
	r.FieldReadErrorsTotal.WithLabelValues(strconv.Itoa(int(dataSetWriterID))).Inc()
}
