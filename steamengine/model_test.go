// Copyright 2021 Converter Systems LLC. All rights reserved.

package steamengine

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/awcullen/opcua-pubsub/pubsub"
	"github.com/awcullen/opcua-pubsub/server"
	"github.com/awcullen/opcua-pubsub/ua"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus/hooks/test"
	"gotest.tools/assert"
)

var startTime = time.Date(2021, 6, 1, 12, 0, 0, 0, time.UTC)

func newServer(t *testing.T) (*server.Server, *test.Hook) {
	logger, hook := test.NewNullLogger()
	srv, err := server.New("urn:steamengine:test", server.WithLogger(logger), server.WithClock(func() time.Time { return startTime }))
	assert.NilError(t, err)
	t.Cleanup(func() { srv.Close() })
	assert.NilError(t, Setup(context.Background(), srv))
	return srv, hook
}

func countMessages(hook *test.Hook, msg string) int {
	n := 0
	for _, e := range hook.AllEntries() {
		if e.Message == msg {
			n++
		}
	}
	return n
}

func TestSetup(t *testing.T) {
	srv, hook := newServer(t)
	nm := srv.NamespaceManager()

	assert.Equal(t, countMessages(hook, "New temperature sensor created"), len(Sensors))
	for _, s := range Sensors {
		n, ok := nm.FindObject(ua.NewNodeIDNumeric(Namespace, s.ID))
		assert.Assert(t, ok, s.Name)
		assert.Equal(t, n.TypeDefinition(), TemperatureSensorTypeID)
		for _, child := range []string{"SensorName", "Location", "temp.value"} {
			_, ok := nm.FindVariable(ua.NewNodeIDString(Namespace, s.Name+"/"+child))
			assert.Assert(t, ok, s.Name+"/"+child)
		}
	}

	id, err := nm.TranslateBrowsePath(ua.ObjectIDObjectsFolder, "temp2/Location")
	assert.NilError(t, err)
	dv, err := srv.Read(context.Background(), id)
	assert.NilError(t, err)
	assert.Equal(t, dv.Value, "Heater")

	// A second Setup collides with the existing type.
	err = Setup(context.Background(), srv)
	assert.Equal(t, errors.Cause(err), ua.BadNodeIDExists)
}

func TestTemperatureSensorScenario(t *testing.T) {
	srv, hook := newServer(t)
	ctx := context.Background()

	dv, err := srv.Read(ctx, ua.NewNodeIDString(Namespace, "temp1/SensorName"))
	assert.NilError(t, err)
	assert.Equal(t, dv.Value, "PT100")

	err = srv.Write(ctx, ua.NewNodeIDString(Namespace, "temp1/SensorName"), "PT1000")
	assert.Equal(t, errors.Cause(err), ua.BadNotWritable)

	dv, err = srv.Read(ctx, Temp1ValueID)
	assert.NilError(t, err)
	assert.Equal(t, dv.Value, 47.11)

	assert.NilError(t, srv.Write(ctx, Temp1ValueID, 12.34))
	dv, err = srv.Read(ctx, Temp1ValueID)
	assert.NilError(t, err)
	assert.Equal(t, dv.Value, 12.34)
	assert.Equal(t, countMessages(hook, "The variable was updated"), 1)

	// The other sensors have no hooks.
	assert.NilError(t, srv.Write(ctx, ua.NewNodeIDString(Namespace, "temp2/temp.value"), 20.0))
	assert.Equal(t, countMessages(hook, "The variable was updated"), 1)
}

func TestReadOfTemp1UpdatesCurrentTime(t *testing.T) {
	srv, _ := newServer(t)
	ctx := context.Background()
	n, ok := srv.NamespaceManager().FindVariable(CurrentTimeID)
	assert.Assert(t, ok)
	n.SetValue(ua.NewDataValue(time.Time{}, ua.Good, time.Time{}, time.Time{}))

	_, err := srv.Read(ctx, Temp1ValueID)
	assert.NilError(t, err)
	dv, err := srv.Read(ctx, CurrentTimeID)
	assert.NilError(t, err)
	assert.Equal(t, dv.Value, startTime)
}

type recordingTransport struct {
	sync.Mutex
	msgs []*pubsub.DataSetMessage
}

func (t *recordingTransport) Publish(ctx context.Context, msg *pubsub.DataSetMessage) error {
	t.Lock()
	defer t.Unlock()
	t.msgs = append(t.msgs, msg)
	return nil
}

func (t *recordingTransport) Close() error { return nil }

func TestPublishedDataSet(t *testing.T) {
	srv, _ := newServer(t)
	ctx := context.Background()
	mgr, err := pubsub.NewManager(srv)
	assert.NilError(t, err)
	defer mgr.Close()

	tr := &recordingTransport{}
	assert.NilError(t, mgr.AddConnection(pubsub.ConnectionConfig{Name: "UADP Connection 1", PublisherID: 2234, Enabled: true}, tr))
	assert.NilError(t, AddPublishedDataSet(mgr))
	assert.NilError(t, mgr.AddWriterGroup("UADP Connection 1", pubsub.WriterGroupConfig{Name: "Demo WriterGroup", WriterGroupID: 100, PublishingInterval: time.Hour, Enabled: true}))
	assert.NilError(t, mgr.AddDataSetWriter(100, PublishedDataSetName, pubsub.DataSetWriterConfig{Name: "Demo DataSetWriter", DataSetWriterID: 62541, KeyFrameCount: 10}))

	assert.NilError(t, srv.Write(ctx, Temp1ValueID, 12.34))
	assert.NilError(t, mgr.Tick(100))

	tr.Lock()
	defer tr.Unlock()
	assert.Equal(t, len(tr.msgs), 1)
	msg := tr.msgs[0]
	assert.Equal(t, msg.PublisherID, uint32(2234))
	assert.Equal(t, msg.DataSetWriterID, uint16(62541))
	assert.Assert(t, msg.KeyFrame)
	assert.Equal(t, len(msg.Fields), 2)
	assert.Equal(t, msg.Fields[0].Name, "Server localtime")
	assert.Equal(t, msg.Fields[0].Value.Value, startTime)
	assert.Equal(t, msg.Fields[1].Name, "temperature")
	assert.Equal(t, msg.Fields[1].Value.Value, 12.34)

	err = AddPublishedDataSet(mgr)
	assert.Assert(t, err != nil)
}
