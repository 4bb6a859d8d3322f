// Copyright 2021 Converter Systems LLC. All rights reserved.

package transport

import (
	"context"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/awcullen/opcua-pubsub/pubsub"
	"github.com/awcullen/opcua-pubsub/ua"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"gotest.tools/assert"
)

func testMessage() *pubsub.DataSetMessage {
	now := time.Now().UTC()
	return &pubsub.DataSetMessage{
		PublisherID:     1,
		WriterGroupID:   100,
		DataSetWriterID: 62541,
		SequenceNumber:  1,
		KeyFrame:        true,
		Timestamp:       now,
		Fields: []pubsub.DataSetFieldValue{
			{Name: "temperature", Value: ua.NewDataValue(12.34, ua.Good, now, now)},
		},
	}
}

func TestUDPTransportSendsDatagram(t *testing.T) {
	listener, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	assert.NilError(t, err)
	defer listener.Close()

	logger, _ := test.NewNullLogger()
	ep, err := ParseURI("opc.udp://"+listener.LocalAddr().String()+"/", "")
	assert.NilError(t, err)
	tr, err := New(context.Background(), ep, WithLogger(logger))
	assert.NilError(t, err)
	defer tr.Close()

	msg := testMessage()
	assert.NilError(t, tr.Publish(context.Background(), msg))

	buf := make([]byte, 2048)
	listener.SetReadDeadline(time.Now().Add(2 * time.Second))
	n, _, err := listener.ReadFromUDP(buf)
	assert.NilError(t, err)

	dec, err := pubsub.NewCBOREncoder()
	assert.NilError(t, err)
	got, err := dec.Decode(buf[:n])
	assert.NilError(t, err)
	assert.Equal(t, got.DataSetWriterID, uint16(62541))
	assert.Equal(t, got.KeyFrame, true)
	assert.Equal(t, got.Fields[0].Name, "temperature")
	assert.Equal(t, got.Fields[0].Value.Value, 12.34)
}

func TestUDPTransportLimits(t *testing.T) {
	logger, _ := test.NewNullLogger()
	ep, err := ParseURI("opc.udp://127.0.0.1:4840/", "")
	assert.NilError(t, err)
	tr, err := NewUDPTransport(ep, WithLogger(logger), WithMaxMessageSize(16))
	assert.NilError(t, err)

	err = tr.Publish(context.Background(), testMessage())
	assert.Equal(t, errors.Cause(err), error(ua.BadEncodingLimitsExceeded))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = tr.Publish(ctx, testMessage())
	assert.Equal(t, errors.Cause(err), error(ua.BadCommunicationError))

	assert.NilError(t, tr.Close())
	err = NewLogTransport(logger).Close()
	assert.NilError(t, err)
	tr2, _ := NewUDPTransport(ep, WithLogger(logger))
	tr2.Close()
	err = tr2.Publish(context.Background(), testMessage())
	assert.Equal(t, errors.Cause(err), error(ua.BadCommunicationError))
}

func TestEthernetUsesLogTransport(t *testing.T) {
	logger, hook := test.NewNullLogger()
	ep, err := ParseURI("opc.eth://01-00-5E-00-00-01", "eth0")
	assert.NilError(t, err)
	tr, err := New(context.Background(), ep, WithLogger(logger))
	assert.NilError(t, err)
	_, ok := tr.(*LogTransport)
	assert.Assert(t, ok)
	assert.Equal(t, hook.LastEntry().Level, logrus.WarnLevel)

	assert.NilError(t, tr.Publish(context.Background(), testMessage()))
	entry := hook.LastEntry()
	assert.Equal(t, entry.Level, logrus.InfoLevel)
	assert.Assert(t, strings.Contains(entry.Message, `"temperature":12.34`))
	assert.Equal(t, entry.Data["dataSetWriter"], uint16(62541))
}
