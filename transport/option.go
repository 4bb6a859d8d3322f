// Copyright 2021 Converter Systems LLC. All rights reserved.

package transport

import (
	"time"

	"github.com/sirupsen/logrus"
)

const (
	// the largest datagram sent by the udp transport.
	defaultMaxMessageSize = 65507
	// the timeout of a write if the context has no deadline.
	defaultWriteTimeout = 5 * time.Second
)

// MQTTConfig configures the mqtt transport.
type MQTTConfig struct {
	ClientID       string
	User           string
	Password       string
	QoS            byte
	Retain         bool
	KeepAlive      uint16
	ConnectRetry   time.Duration
	ConnectTimeout time.Duration
	// Topic is used if the uri has no path.
	Topic string
}

// DefaultMQTTConfig returns the defaults of the mqtt transport.
func DefaultMQTTConfig() MQTTConfig {
	return MQTTConfig{
		QoS:            0,
		KeepAlive:      10,
		ConnectRetry:   5 * time.Second,
		ConnectTimeout: 10 * time.Second,
		Topic:          "uapubsub/json",
	}
}

type options struct {
	logger         *logrus.Logger
	maxMessageSize int
	writeTimeout   time.Duration
	mqtt           MQTTConfig
}

// Option is a functional option to be applied to a transport during initialization.
type Option func(*options)

// WithLogger sets the logger. (default: logrus.StandardLogger())
func WithLogger(value *logrus.Logger) Option {
	return func(o *options) {
		o.logger = value
	}
}

// WithMaxMessageSize sets the size limit of a udp datagram. (default: 65507)
func WithMaxMessageSize(value int) Option {
	return func(o *options) {
		o.maxMessageSize = value
	}
}

// WithWriteTimeout sets the timeout of a udp write if the context has no deadline. (default: 5s)
func WithWriteTimeout(value time.Duration) Option {
	return func(o *options) {
		o.writeTimeout = value
	}
}

// WithMQTTConfig sets the configuration of the mqtt transport.
func WithMQTTConfig(value MQTTConfig) Option {
	return func(o *options) {
		o.mqtt = value
	}
}

func newOptions(opts []Option) *options {
	o := &options{
		logger:         logrus.StandardLogger(),
		maxMessageSize: defaultMaxMessageSize,
		writeTimeout:   defaultWriteTimeout,
		mqtt:           DefaultMQTTConfig(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
