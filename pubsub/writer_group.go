// Copyright 2021 Converter Systems LLC. All rights reserved.

package pubsub

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/awcullen/opcua-pubsub/server"
	"github.com/awcullen/opcua-pubsub/ua"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type connection struct {
	config    ConnectionConfig
	transport Transport
	groups    []*writerGroup
}

type publishedDataSet struct {
	sync.RWMutex
	config PublishedDataSetConfig
	fields []DataSetFieldConfig
}

func (p *publishedDataSet) snapshot() []DataSetFieldConfig {
	p.RLock()
	defer p.RUnlock()
	res := make([]DataSetFieldConfig, len(p.fields))
	copy(res, p.fields)
	return res
}

type dataSetWriter struct {
	sync.Mutex
	config       DataSetWriterConfig
	dataSet      *publishedDataSet
	frameCounter uint32
	seqNum       uint16
}

// next returns whether the tick is a key frame, and the sequence number of the message.
// The first tick is a key frame, then every KeyFrameCount-th tick.
func (w *dataSetWriter) next() (bool, uint16) {
	w.Lock()
	defer w.Unlock()
	k := w.config.KeyFrameCount
	if k == 0 {
		k = 1
	}
	keyFrame := w.frameCounter%k == 0
	w.frameCounter++
	if w.frameCounter == k {
		w.frameCounter = 0
	}
	seqNum := w.seqNum
	if w.seqNum != math.MaxUint16 {
		w.seqNum++
	} else {
		w.seqNum = 1
	}
	return keyFrame, seqNum
}

// writerGroup publishes the messages of its writers every publishing interval.
// Disabled -> Enabled -> Running -> Enabled|Disabled
type writerGroup struct {
	sync.Mutex
	config    WriterGroupConfig
	manager   *Manager
	conn      *connection
	writers   []*dataSetWriter
	state     WriterGroupState
	disabling bool
	idle      *sync.Cond
	pollGroup *server.PollGroup
}

func newWriterGroup(m *Manager, conn *connection, config WriterGroupConfig) *writerGroup {
	g := &writerGroup{
		config:  config,
		manager: m,
		conn:    conn,
		state:   WriterGroupStateDisabled,
	}
	g.idle = sync.NewCond(&g.Mutex)
	return g
}

func (g *writerGroup) State() WriterGroupState {
	g.Lock()
	defer g.Unlock()
	return g.state
}

// enable subscribes the group to the poll group of its interval. If a disable is
// waiting for a tick, enable waits for the disable to complete.
func (g *writerGroup) enable() error {
	g.Lock()
	defer g.Unlock()
	if !g.conn.config.Enabled {
		return errors.Wrapf(ua.BadInvalidState, "connection '%s' is disabled", g.conn.config.Name)
	}
	// a pending disable completes first.
	for g.disabling {
		g.idle.Wait()
	}
	if g.state != WriterGroupStateDisabled {
		return nil
	}
	g.state = WriterGroupStateEnabled
	g.pollGroup = g.manager.server.Scheduler().GetPollGroup(g.config.PublishingInterval)
	g.pollGroup.Subscribe(g)
	g.manager.metrics.WriterGroupsEnabled.Inc()
	g.manager.logger.WithFields(logrus.Fields{
		"writerGroup": g.config.WriterGroupID,
		"interval":    g.pollGroup.Interval().String(),
	}).Info("Enabled writer group")
	return nil
}

// disable stops the ticks. If a tick is running, disable returns after the tick completes.
// Calling disable from the Transport of the group deadlocks.
func (g *writerGroup) disable() {
	g.Lock()
	defer g.Unlock()
	if g.state == WriterGroupStateDisabled {
		return
	}
	g.pollGroup.Unsubscribe(g)
	g.pollGroup = nil
	if g.state == WriterGroupStateRunning {
		g.disabling = true
		for g.state == WriterGroupStateRunning {
			g.idle.Wait()
		}
		g.disabling = false
		g.idle.Broadcast()
	}
	g.state = WriterGroupStateDisabled
	g.manager.metrics.WriterGroupsEnabled.Dec()
	g.manager.logger.WithField("writerGroup", g.config.WriterGroupID).Info("Disabled writer group")
}

// Poll runs one tick. A tick that finds the group Running is skipped.
func (g *writerGroup) Poll() {
	g.Lock()
	switch g.state {
	case WriterGroupStateEnabled:
	case WriterGroupStateRunning:
		g.Unlock()
		g.manager.metrics.RecordSkippedTick(g.config.WriterGroupID)
		g.manager.logger.WithField("writerGroup", g.config.WriterGroupID).Debug("Skipped tick")
		return
	default:
		g.Unlock()
		return
	}
	g.state = WriterGroupStateRunning
	writers := make([]*dataSetWriter, len(g.writers))
	copy(writers, g.writers)
	g.Unlock()

	start := time.Now()
	for _, w := range writers {
		g.publish(g.manager.ctx, w)
	}
	g.manager.metrics.RecordTick(g.config.WriterGroupID, time.Since(start))

	g.Lock()
	if g.disabling {
		g.state = WriterGroupStateDisabled
	} else {
		g.state = WriterGroupStateEnabled
	}
	g.idle.Broadcast()
	g.Unlock()
}

// publish reads the fields of the writer and hands the message to the transport.
// Failures are logged and counted.
func (g *writerGroup) publish(ctx context.Context, w *dataSetWriter) {
	m := g.manager
	fields := w.dataSet.snapshot()
	msg := &DataSetMessage{
		PublisherID:     g.conn.config.PublisherID,
		WriterGroupID:   g.config.WriterGroupID,
		DataSetWriterID: w.config.DataSetWriterID,
		Timestamp:       m.clock(),
		Fields:          make([]DataSetFieldValue, 0, len(fields)),
	}
	for _, f := range fields {
		dv, err := m.server.ReadAttribute(ctx, ua.ReadValueID{NodeID: f.NodeID, AttributeID: f.AttributeID})
		if err != nil {
			code, ok := errors.Cause(err).(ua.StatusCode)
			if !ok {
				code = ua.BadInternalError
			}
			dv = ua.NewDataValue(nil, code, time.Time{}, msg.Timestamp)
			m.metrics.RecordFieldReadError(w.config.DataSetWriterID)
			m.logger.WithFields(logrus.Fields{
				"dataSetWriter": w.config.DataSetWriterID,
				"field":         f.Alias,
				"error":         err,
			}).Warn("Error reading field")
		}
		msg.Fields = append(msg.Fields, DataSetFieldValue{Name: f.Alias, Value: dv})
	}
	msg.KeyFrame, msg.SequenceNumber = w.next()

	err := g.conn.transport.Publish(ctx, msg)
	m.metrics.RecordPublish(w.config.DataSetWriterID, msg.KeyFrame, err)
	if err != nil {
		m.logger.WithFields(logrus.Fields{
			"writerGroup":   g.config.WriterGroupID,
			"dataSetWriter": w.config.DataSetWriterID,
			"error":         err,
		}).Warn("Error publishing message")
	}
}
