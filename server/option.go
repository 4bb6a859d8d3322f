// Copyright 2021 Converter Systems LLC. All rights reserved.

package server

import (
	"time"

	"github.com/awcullen/opcua-pubsub/metrics"
	"github.com/sirupsen/logrus"
)

// Option is a functional option to be applied to a server during initialization.
type Option func(*Server) error

// WithLogger sets the logger. (default: logrus.StandardLogger())
func WithLogger(value *logrus.Logger) Option {
	return func(srv *Server) error {
		srv.logger = value
		return nil
	}
}

// WithMetrics sets the metrics registry. (default: a new registry)
func WithMetrics(value *metrics.Registry) Option {
	return func(srv *Server) error {
		srv.metrics = value
		return nil
	}
}

// WithHookErrorHandler sets a func that receives the errors of value handlers and destructors.
// These errors never fail the operation that called the handler.
func WithHookErrorHandler(value func(error)) Option {
	return func(srv *Server) error {
		srv.hookErrorHandler = value
		return nil
	}
}

// WithMaxWorkerThreads sets the default number of worker threads that may be created. (default: 4)
func WithMaxWorkerThreads(value int) Option {
	return func(srv *Server) error {
		srv.maxWorkerThreads = value
		return nil
	}
}

// WithMinPublishingInterval sets the smallest interval of the scheduler. (default: 1ms)
func WithMinPublishingInterval(value time.Duration) Option {
	return func(srv *Server) error {
		srv.minPublishingInterval = value
		return nil
	}
}

// WithClock sets the source of timestamps. (default: time.Now)
func WithClock(value func() time.Time) Option {
	return func(srv *Server) error {
		srv.clock = value
		return nil
	}
}
