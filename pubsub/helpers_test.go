package pubsub

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/awcullen/opcua-pubsub/metrics"
	"github.com/awcullen/opcua-pubsub/server"
	"github.com/awcullen/opcua-pubsub/ua"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

var (
	temperatureID = ua.NewNodeIDString(1, "temperature")
	missingID     = ua.NewNodeIDString(1, "missing")
)

// recordingTransport collects the published messages.
type recordingTransport struct {
	sync.Mutex
	msgs   []*DataSetMessage
	err    error
	closed bool
}

func (t *recordingTransport) Publish(ctx context.Context, msg *DataSetMessage) error {
	t.Lock()
	defer t.Unlock()
	t.msgs = append(t.msgs, msg)
	return t.err
}

func (t *recordingTransport) Close() error {
	t.Lock()
	defer t.Unlock()
	t.closed = true
	return nil
}

func (t *recordingTransport) messages() []*DataSetMessage {
	t.Lock()
	defer t.Unlock()
	res := make([]*DataSetMessage, len(t.msgs))
	copy(res, t.msgs)
	return res
}

type fixture struct {
	srv       *server.Server
	mgr       *Manager
	hook      *test.Hook
	metrics   *metrics.Registry
	transport *recordingTransport
}

// newFixture returns a manager with a connection, a data set with a temperature and a missing field,
// writer group 100 and data set writer 62541 with the given key frame count.
// The publishing interval is long, so tests drive the ticks with Tick.
func newFixture(t *testing.T, keyFrameCount uint32) *fixture {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	reg := metrics.NewRegistry()
	srv, err := server.New("urn:test:pubsub", server.WithLogger(logger), server.WithMetrics(reg))
	if err != nil {
		t.Fatalf("Error creating server: %v", err)
	}
	t.Cleanup(func() { srv.Close() })
	if _, err := srv.NamespaceManager().AddVariable(ua.ObjectIDObjectsFolder, ua.NewQualifiedName(1, "temperature"), ua.DataTypeIDDouble, ua.AccessLevelsCurrentRead, 21.5, temperatureID, false); err != nil {
		t.Fatalf("Error adding variable: %v", err)
	}
	mgr, err := NewManager(srv)
	if err != nil {
		t.Fatalf("Error creating manager: %v", err)
	}
	tr := &recordingTransport{}
	mustNoError(t, mgr.AddConnection(ConnectionConfig{Name: "conn", TransportProfileURI: TransportProfileUDPUADP, PublisherID: 7, Enabled: true}, tr))
	mustNoError(t, mgr.AddPublishedDataSet(PublishedDataSetConfig{Name: "pds"}))
	mustNoError(t, mgr.AddDataSetField("pds", DataSetFieldConfig{Alias: "temperature", NodeID: temperatureID}))
	mustNoError(t, mgr.AddDataSetField("pds", DataSetFieldConfig{Alias: "missing", NodeID: missingID}))
	mustNoError(t, mgr.AddWriterGroup("conn", WriterGroupConfig{Name: "wg", WriterGroupID: 100, PublishingInterval: time.Hour, Enabled: true}))
	mustNoError(t, mgr.AddDataSetWriter(100, "pds", DataSetWriterConfig{Name: "dsw", DataSetWriterID: 62541, KeyFrameCount: keyFrameCount}))
	return &fixture{srv: srv, mgr: mgr, hook: hook, metrics: reg, transport: tr}
}

func mustNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
}
