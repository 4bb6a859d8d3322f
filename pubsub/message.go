// Copyright 2021 Converter Systems LLC. All rights reserved.

package pubsub

import (
	"context"
	"time"

	"github.com/awcullen/opcua-pubsub/ua"
)

// DataSetMessage is the payload of one DataSetWriter for one tick of its WriterGroup.
type DataSetMessage struct {
	PublisherID     uint32
	WriterGroupID   uint16
	DataSetWriterID uint16
	SequenceNumber  uint16
	// KeyFrame is true if the message is a full snapshot of the PublishedDataSet.
	KeyFrame  bool
	Timestamp time.Time
	// Fields are in the order of the PublishedDataSet.
	Fields []DataSetFieldValue
}

// DataSetFieldValue is the value of a field. A field that could not be read carries a bad StatusCode.
type DataSetFieldValue struct {
	Name  string
	Value ua.DataValue
}

// MessageType returns "ua-keyframe" or "ua-deltaframe".
func (m *DataSetMessage) MessageType() string {
	if m.KeyFrame {
		return "ua-keyframe"
	}
	return "ua-deltaframe"
}

// Transport sends messages of a PubSubConnection.
type Transport interface {
	Publish(ctx context.Context, msg *DataSetMessage) error
	Close() error
}

// TransportFunc adapts a func to a Transport.
type TransportFunc func(ctx context.Context, msg *DataSetMessage) error

// Publish calls f(ctx, msg).
func (f TransportFunc) Publish(ctx context.Context, msg *DataSetMessage) error {
	return f(ctx, msg)
}

// Close does nothing.
func (f TransportFunc) Close() error {
	return nil
}

// Encoder encodes a DataSetMessage for a transport.
type Encoder interface {
	Encode(msg *DataSetMessage) ([]byte, error)
	ContentType() string
}
