package transport

import (
	"context"

	"github.com/awcullen/opcua-pubsub/pubsub"
	"github.com/sirupsen/logrus"
)

// LogTransport writes each message to the logger at info level.
type LogTransport struct {
	logger  *logrus.Logger
	encoder pubsub.JSONEncoder
}

// NewLogTransport returns a LogTransport.
func NewLogTransport(logger *logrus.Logger) *LogTransport {
	return &LogTransport{logger: logger}
}

func (t *LogTransport) Publish(ctx context.Context, msg *pubsub.DataSetMessage) error {
	b, err := t.encoder.Encode(msg)
	if err != nil {
		return err
	}
	t.logger.WithFields(logrus.Fields{
		"writerGroup":   msg.WriterGroupID,
		"dataSetWriter": msg.DataSetWriterID,
		"keyFrame":      msg.KeyFrame,
		"sequence":      msg.SequenceNumber,
	}).Info(string(b))
	return nil
}

func (t *LogTransport) Close() error {
	return nil
}
