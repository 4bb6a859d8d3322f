// Copyright 2021 Converter Systems LLC. All rights reserved.

package transport

import (
	"context"
	"net/url"
	"strings"
	"sync"

	"github.com/awcullen/opcua-pubsub/pubsub"
	"github.com/awcullen/opcua-pubsub/ua"
	"github.com/eclipse/paho.golang/autopaho"
	"github.com/eclipse/paho.golang/paho"
	nanoid "github.com/matoous/go-nanoid/v2"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// MQTTTransport publishes each message as a JSON NetworkMessage to a broker.
// The connection is re-established in the background.
type MQTTTransport struct {
	sync.Mutex
	closed  bool
	cm      *autopaho.ConnectionManager
	cancel  context.CancelFunc
	topic   string
	qos     byte
	retain  bool
	encoder pubsub.JSONEncoder
	logger  *logrus.Logger
}

// NewMQTTTransport starts connecting to the broker of the endpoint. The topic is the path of the uri.
func NewMQTTTransport(ctx context.Context, ep Endpoint, opts ...Option) (*MQTTTransport, error) {
	o := newOptions(opts)
	cfg := o.mqtt
	srvURL, err := url.Parse(ep.URL)
	if err != nil {
		return nil, errors.Wrapf(ua.BadConfigurationError, "uri '%s': %s", ep.URL, err)
	}
	// the broker url has no path.
	srvURL.Path = ""

	cliID := cfg.ClientID
	if cliID == "" {
		id, err := nanoid.New()
		if err != nil {
			return nil, errors.Wrap(err, "generating client id")
		}
		cliID = "uapubsub::" + id
	}
	logger := o.logger.WithField("ClientId", cliID)

	cliCfg := autopaho.ClientConfig{
		BrokerUrls:        []*url.URL{srvURL},
		KeepAlive:         cfg.KeepAlive,
		ConnectRetryDelay: cfg.ConnectRetry,
		ConnectTimeout:    cfg.ConnectTimeout,
		OnConnectionUp: func(cm *autopaho.ConnectionManager, c *paho.Connack) {
			logger.Info("MQTT connection up")
		},
		OnConnectError: func(err error) {
			logger.WithError(err).Error("Error whilst attempting connection")
		},
		ClientConfig: paho.ClientConfig{
			ClientID: cliID,
			OnClientError: func(err error) {
				logger.WithError(err).Error("MQTT client error")
			},
			OnServerDisconnect: func(d *paho.Disconnect) {
				if d.Properties != nil {
					logger.Errorf("Server requested disconnect: %s", d.Properties.ReasonString)
				} else {
					logger.Errorf("Server requested disconnect; reason code: %d", d.ReasonCode)
				}
			},
		},
	}
	if cfg.User != "" {
		cliCfg.SetUsernamePassword(cfg.User, []byte(cfg.Password))
	}

	ctx, cancel := context.WithCancel(ctx)
	cm, err := autopaho.NewConnection(ctx, cliCfg)
	if err != nil {
		cancel()
		return nil, errors.Wrapf(ua.BadCommunicationError, "connecting to '%s': %s", srvURL, err)
	}
	logger.Infof("Trying to establish an MQTT session to %v", cliCfg.BrokerUrls)
	return &MQTTTransport{
		cm:     cm,
		cancel: cancel,
		topic:  topicOf(ep, cfg),
		qos:    cfg.QoS,
		retain: cfg.Retain,
		logger: o.logger,
	}, nil
}

// topicOf returns the path of the uri, or the configured topic.
func topicOf(ep Endpoint, cfg MQTTConfig) string {
	if t := strings.Trim(ep.Path, "/"); t != "" {
		return t
	}
	return cfg.Topic
}

// Topic returns the topic of the messages.
func (t *MQTTTransport) Topic() string {
	return t.topic
}

// Publish sends the message. It fails if the connection is down.
func (t *MQTTTransport) Publish(ctx context.Context, msg *pubsub.DataSetMessage) error {
	t.Lock()
	closed := t.closed
	t.Unlock()
	if closed {
		return errors.Wrapf(ua.BadCommunicationError, "publish to '%s': transport closed", t.topic)
	}
	payload, err := t.encoder.Encode(msg)
	if err != nil {
		return err
	}
	resp, err := t.cm.Publish(ctx, &paho.Publish{
		QoS:     t.qos,
		Topic:   t.topic,
		Retain:  t.retain,
		Payload: payload,
	})
	if err != nil {
		return errors.Wrapf(ua.BadCommunicationError, "publish to '%s': %s", t.topic, err)
	}
	// 16 = the broker received the message but there are no subscribers
	if resp != nil && resp.ReasonCode != 0 && resp.ReasonCode != 16 {
		return errors.Wrapf(ua.BadCommunicationError, "publish to '%s': reason code %d", t.topic, resp.ReasonCode)
	}
	return nil
}

// Close disconnects from the broker. Closing twice is a no-op.
func (t *MQTTTransport) Close() error {
	t.Lock()
	if t.closed {
		t.Unlock()
		return nil
	}
	t.closed = true
	t.Unlock()
	defer t.cancel()
	ctx, cancel := context.WithTimeout(context.Background(), defaultWriteTimeout)
	defer cancel()
	if err := t.cm.Disconnect(ctx); err != nil {
		t.logger.WithError(err).Debug("Error disconnecting from broker")
	}
	return nil
}
