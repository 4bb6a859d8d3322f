// Copyright 2021 Converter Systems LLC. All rights reserved.

package transport

import (
	"context"

	"github.com/awcullen/opcua-pubsub/pubsub"
	"github.com/awcullen/opcua-pubsub/ua"
	"github.com/pkg/errors"
)

// New returns the transport of the endpoint's profile.
// The link-layer profile is served by the log transport, since sending raw frames is not supported.
func New(ctx context.Context, ep Endpoint, opts ...Option) (pubsub.Transport, error) {
	switch ep.TransportProfileURI {
	case pubsub.TransportProfileUDPUADP:
		return NewUDPTransport(ep, opts...)
	case pubsub.TransportProfileMQTTJSON:
		return NewMQTTTransport(ctx, ep, opts...)
	case pubsub.TransportProfileEthUADP:
		o := newOptions(opts)
		o.logger.WithField("interface", ep.NetworkInterface).Warn("Link-layer transport is not supported, messages are logged.")
		return NewLogTransport(o.logger), nil
	default:
		return nil, errors.Wrapf(ua.BadConfigurationError, "unknown transport profile '%s'", ep.TransportProfileURI)
	}
}
