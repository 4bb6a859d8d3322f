// Copyright 2021 Converter Systems LLC. All rights reserved.

package pubsub

import (
	"time"

	"github.com/awcullen/opcua-pubsub/metrics"
	"github.com/sirupsen/logrus"
)

// Option is a functional option to be applied to a Manager during initialization.
type Option func(*Manager) error

// WithLogger sets the logger. (default: the logger of the server)
func WithLogger(value *logrus.Logger) Option {
	return func(m *Manager) error {
		m.logger = value
		return nil
	}
}

// WithMetrics sets the metrics registry. (default: the registry of the server)
func WithMetrics(value *metrics.Registry) Option {
	return func(m *Manager) error {
		m.metrics = value
		return nil
	}
}

// WithClock sets the source of message timestamps. (default: time.Now)
func WithClock(value func() time.Time) Option {
	return func(m *Manager) error {
		m.clock = value
		return nil
	}
}
