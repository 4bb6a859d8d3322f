// Copyright 2021 Converter Systems LLC. All rights reserved.

package transport

import (
	"net/url"
	"strings"

	"github.com/awcullen/opcua-pubsub/pubsub"
	"github.com/awcullen/opcua-pubsub/ua"
	"github.com/pkg/errors"
)

// DefaultURI is the multicast address used if no uri is given.
const DefaultURI = "opc.udp://224.0.0.22:4840/"

// Endpoint is a parsed transport uri.
type Endpoint struct {
	TransportProfileURI string
	// URL is the uri as given.
	URL    string
	Scheme string
	// Host is host:port, or the link-layer address of opc.eth.
	Host             string
	Path             string
	NetworkInterface string
}

// ParseURI selects the transport profile of the uri, e.g. "opc.udp://224.0.0.22:4840/".
// The link-layer profile "opc.eth://" requires the network interface.
func ParseURI(uri, networkInterface string) (Endpoint, error) {
	if uri == "" {
		uri = DefaultURI
	}
	u, err := url.Parse(uri)
	if err != nil {
		return Endpoint{}, errors.Wrapf(ua.BadConfigurationError, "uri '%s': %s", uri, err)
	}
	ep := Endpoint{
		URL:              uri,
		Scheme:           strings.ToLower(u.Scheme),
		Host:             u.Host,
		Path:             strings.TrimPrefix(u.Path, "/"),
		NetworkInterface: networkInterface,
	}
	if ep.Host == "" {
		return Endpoint{}, errors.Wrapf(ua.BadConfigurationError, "uri '%s' has no host", uri)
	}
	switch ep.Scheme {
	case "opc.udp":
		ep.TransportProfileURI = pubsub.TransportProfileUDPUADP
		if u.Port() == "" {
			return Endpoint{}, errors.Wrapf(ua.BadConfigurationError, "uri '%s' has no port", uri)
		}
	case "opc.eth":
		ep.TransportProfileURI = pubsub.TransportProfileEthUADP
		if networkInterface == "" {
			return Endpoint{}, errors.Wrapf(ua.BadConfigurationError, "uri '%s' needs a network interface", uri)
		}
	case "mqtt", "mqtts":
		ep.TransportProfileURI = pubsub.TransportProfileMQTTJSON
	default:
		return Endpoint{}, errors.Wrapf(ua.BadConfigurationError, "unknown uri '%s'", uri)
	}
	return ep, nil
}
