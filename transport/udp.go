// Copyright 2021 Converter Systems LLC. All rights reserved.

package transport

import (
	"context"
	"io"
	"net"
	"sync"
	"time"

	"github.com/awcullen/opcua-pubsub/pubsub"
	"github.com/awcullen/opcua-pubsub/ua"
	"github.com/djherbis/buffer"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// bufferPool is a pool of capacity buffers
var bufferPool = buffer.NewMemPoolAt(int64(defaultMaxMessageSize))

// bytesPool is a pool of byte slices
var bytesPool = sync.Pool{New: func() interface{} { b := make([]byte, defaultMaxMessageSize); return &b }}

// UDPTransport sends each message as one CBOR encoded datagram, e.g. to a multicast group.
type UDPTransport struct {
	sync.Mutex
	conn           *net.UDPConn
	encoder        *pubsub.CBOREncoder
	logger         *logrus.Logger
	maxMessageSize int
	writeTimeout   time.Duration
}

// NewUDPTransport dials the host of the endpoint.
func NewUDPTransport(ep Endpoint, opts ...Option) (*UDPTransport, error) {
	o := newOptions(opts)
	if o.maxMessageSize <= 0 || o.maxMessageSize > defaultMaxMessageSize {
		o.maxMessageSize = defaultMaxMessageSize
	}
	addr, err := net.ResolveUDPAddr("udp", ep.Host)
	if err != nil {
		return nil, errors.Wrapf(ua.BadConfigurationError, "address '%s': %s", ep.Host, err)
	}
	conn, err := net.DialUDP("udp", nil, addr)
	if err != nil {
		return nil, errors.Wrapf(ua.BadCommunicationError, "dial '%s': %s", ep.Host, err)
	}
	encoder, err := pubsub.NewCBOREncoder()
	if err != nil {
		conn.Close()
		return nil, err
	}
	o.logger.WithField("address", addr.String()).Info("Opened udp transport")
	return &UDPTransport{
		conn:           conn,
		encoder:        encoder,
		logger:         o.logger,
		maxMessageSize: o.maxMessageSize,
		writeTimeout:   o.writeTimeout,
	}, nil
}

// Publish sends the message. Messages larger than the maximum message size are not sent.
func (t *UDPTransport) Publish(ctx context.Context, msg *pubsub.DataSetMessage) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrap(ua.BadCommunicationError, err.Error())
	}
	var bodyStream = buffer.NewPartitionAt(bufferPool)
	defer bodyStream.Reset()

	if err := t.encoder.EncodeTo(bodyStream, msg); err != nil {
		return err
	}
	if i := int64(t.maxMessageSize); bodyStream.Len() > i {
		return errors.Wrapf(ua.BadEncodingLimitsExceeded, "message of %d bytes", bodyStream.Len())
	}

	sendBuffer := bytesPool.Get().(*[]byte)
	defer bytesPool.Put(sendBuffer)
	n, err := io.ReadFull(bodyStream, (*sendBuffer)[:bodyStream.Len()])
	if err != nil {
		return errors.Wrap(ua.BadEncodingError, err.Error())
	}

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(t.writeTimeout)
	}
	t.Lock()
	defer t.Unlock()
	if t.conn == nil {
		return errors.Wrap(ua.BadCommunicationError, "transport closed")
	}
	t.conn.SetWriteDeadline(deadline)
	if _, err := t.conn.Write((*sendBuffer)[:n]); err != nil {
		return errors.Wrap(ua.BadCommunicationError, err.Error())
	}
	return nil
}

// Close closes the socket.
func (t *UDPTransport) Close() error {
	t.Lock()
	defer t.Unlock()
	if t.conn == nil {
		return nil
	}
	err := t.conn.Close()
	t.conn = nil
	return err
}
