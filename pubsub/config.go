// Copyright 2021 Converter Systems LLC. All rights reserved.

package pubsub

import (
	"time"

	"github.com/awcullen/opcua-pubsub/ua"
)

// Transport profiles of a PubSubConnection.
const (
	TransportProfileUDPUADP  = "http://opcfoundation.org/UA-Profile/Transport/pubsub-udp-uadp"
	TransportProfileEthUADP  = "http://opcfoundation.org/UA-Profile/Transport/pubsub-eth-uadp"
	TransportProfileMQTTJSON = "http://opcfoundation.org/UA-Profile/Transport/pubsub-mqtt-json"
)

// ConnectionConfig describes a PubSubConnection.
type ConnectionConfig struct {
	Name                string
	TransportProfileURI string
	// Address is the network address url, e.g. "opc.udp://224.0.0.22:4840/".
	Address string
	// NetworkInterface is required by link-layer transports.
	NetworkInterface string
	PublisherID      uint32
	Enabled          bool
}

// PublishedDataSetConfig describes a PublishedDataSet.
type PublishedDataSetConfig struct {
	Name string
}

// DataSetFieldConfig describes a field of a PublishedDataSet.
type DataSetFieldConfig struct {
	// Alias is the name of the field in the message.
	Alias  string
	NodeID ua.NodeID
	// AttributeID defaults to the Value attribute.
	AttributeID uint32
}

// WriterGroupConfig describes a WriterGroup.
type WriterGroupConfig struct {
	Name               string
	WriterGroupID      uint16
	PublishingInterval time.Duration
	// Enabled enables the group when it is added.
	Enabled bool
}

// DataSetWriterConfig describes a DataSetWriter.
type DataSetWriterConfig struct {
	Name            string
	DataSetWriterID uint16
	// KeyFrameCount is the number of ticks between key frames. Zero or one publishes key frames only.
	KeyFrameCount uint32
}

// WriterGroupState is the state of a WriterGroup.
type WriterGroupState int32

const (
	// WriterGroupStateDisabled - no ticks are scheduled.
	WriterGroupStateDisabled WriterGroupState = iota
	// WriterGroupStateEnabled - ticks are scheduled at the publishing interval.
	WriterGroupStateEnabled
	// WriterGroupStateRunning - a tick is in progress.
	WriterGroupStateRunning
)

func (s WriterGroupState) String() string {
	switch s {
	case WriterGroupStateDisabled:
		return "Disabled"
	case WriterGroupStateEnabled:
		return "Enabled"
	case WriterGroupStateRunning:
		return "Running"
	default:
		return "Unknown"
	}
}
