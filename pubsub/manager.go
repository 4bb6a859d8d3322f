// Copyright 2021 Converter Systems LLC. All rights reserved.

package pubsub

import (
	"context"
	"sync"
	"time"

	"github.com/awcullen/opcua-pubsub/metrics"
	"github.com/awcullen/opcua-pubsub/server"
	"github.com/awcullen/opcua-pubsub/ua"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Manager manages the PubSub entities of a server and runs the WriterGroups.
// Ticks run on the worker pool of the server.
type Manager struct {
	sync.RWMutex
	server       *server.Server
	logger       *logrus.Logger
	metrics      *metrics.Registry
	clock        func() time.Time
	ctx          context.Context
	cancel       context.CancelFunc
	closed       bool
	connections  map[string]*connection
	dataSets     map[string]*publishedDataSet
	writerGroups map[uint16]*writerGroup
	writers      map[uint16]*dataSetWriter
}

// NewManager instantiates a new Manager for the server.
func NewManager(srv *server.Server, options ...Option) (*Manager, error) {
	m := &Manager{
		server:       srv,
		logger:       srv.Logger(),
		metrics:      srv.Metrics(),
		clock:        time.Now,
		connections:  make(map[string]*connection),
		dataSets:     make(map[string]*publishedDataSet),
		writerGroups: make(map[uint16]*writerGroup),
		writers:      make(map[uint16]*dataSetWriter),
	}
	for _, opt := range options {
		if err := opt(m); err != nil {
			return nil, err
		}
	}
	m.ctx, m.cancel = context.WithCancel(context.Background())
	return m, nil
}

// AddConnection adds a PubSubConnection that sends its messages with the transport.
func (m *Manager) AddConnection(config ConnectionConfig, transport Transport) error {
	if config.Name == "" || transport == nil {
		return errors.Wrap(ua.BadInvalidArgument, "connection requires a name and a transport")
	}
	m.Lock()
	defer m.Unlock()
	if m.closed {
		return ua.BadInvalidState
	}
	if _, ok := m.connections[config.Name]; ok {
		return errors.Wrapf(ua.BadNodeIDExists, "connection '%s'", config.Name)
	}
	m.connections[config.Name] = &connection{config: config, transport: transport}
	m.logger.WithFields(logrus.Fields{
		"connection": config.Name,
		"profile":    config.TransportProfileURI,
		"address":    config.Address,
	}).Info("Added connection")
	return nil
}

// RemoveConnection disables and removes the WriterGroups of the connection, then closes its transport.
func (m *Manager) RemoveConnection(name string) error {
	m.Lock()
	conn, ok := m.connections[name]
	if !ok {
		m.Unlock()
		return errors.Wrapf(ua.BadNotFound, "connection '%s'", name)
	}
	delete(m.connections, name)
	groups := conn.groups
	for _, g := range groups {
		m.deleteWriterGroup(g)
	}
	m.Unlock()

	for _, g := range groups {
		g.disable()
	}
	if err := conn.transport.Close(); err != nil {
		return errors.Wrapf(err, "closing connection '%s'", name)
	}
	return nil
}

// AddPublishedDataSet adds an empty PublishedDataSet.
func (m *Manager) AddPublishedDataSet(config PublishedDataSetConfig) error {
	if config.Name == "" {
		return errors.Wrap(ua.BadInvalidArgument, "published data set requires a name")
	}
	m.Lock()
	defer m.Unlock()
	if _, ok := m.dataSets[config.Name]; ok {
		return errors.Wrapf(ua.BadNodeIDExists, "published data set '%s'", config.Name)
	}
	m.dataSets[config.Name] = &publishedDataSet{config: config}
	return nil
}

// AddDataSetField appends a field to the PublishedDataSet. The node is not required to exist;
// a field that cannot be read is published with a bad status.
func (m *Manager) AddDataSetField(dataSetName string, config DataSetFieldConfig) error {
	if config.Alias == "" || ua.IsNil(config.NodeID) {
		return errors.Wrap(ua.BadInvalidArgument, "field requires an alias and a node")
	}
	if config.AttributeID == 0 {
		config.AttributeID = ua.AttributeIDValue
	}
	m.RLock()
	pds, ok := m.dataSets[dataSetName]
	m.RUnlock()
	if !ok {
		return errors.Wrapf(ua.BadNotFound, "published data set '%s'", dataSetName)
	}
	pds.Lock()
	defer pds.Unlock()
	for _, f := range pds.fields {
		if f.Alias == config.Alias {
			return errors.Wrapf(ua.BadBrowseNameInvalid, "field '%s' exists in '%s'", config.Alias, dataSetName)
		}
	}
	pds.fields = append(pds.fields, config)
	return nil
}

// AddWriterGroup adds a WriterGroup to the connection. The group is enabled if the config says so.
func (m *Manager) AddWriterGroup(connectionName string, config WriterGroupConfig) error {
	if config.PublishingInterval <= 0 {
		return errors.Wrap(ua.BadInvalidArgument, "publishing interval must be positive")
	}
	m.Lock()
	conn, ok := m.connections[connectionName]
	if !ok {
		m.Unlock()
		return errors.Wrapf(ua.BadNotFound, "connection '%s'", connectionName)
	}
	if _, ok := m.writerGroups[config.WriterGroupID]; ok {
		m.Unlock()
		return errors.Wrapf(ua.BadNodeIDExists, "writer group %d", config.WriterGroupID)
	}
	if config.Enabled && !conn.config.Enabled {
		m.Unlock()
		return errors.Wrapf(ua.BadInvalidState, "connection '%s' is disabled", connectionName)
	}
	g := newWriterGroup(m, conn, config)
	m.writerGroups[config.WriterGroupID] = g
	conn.groups = append(conn.groups, g)
	m.Unlock()

	if config.Enabled {
		return g.enable()
	}
	return nil
}

// AddDataSetWriter adds a DataSetWriter to the WriterGroup, bound to the PublishedDataSet.
func (m *Manager) AddDataSetWriter(writerGroupID uint16, dataSetName string, config DataSetWriterConfig) error {
	m.Lock()
	defer m.Unlock()
	g, ok := m.writerGroups[writerGroupID]
	if !ok {
		return errors.Wrapf(ua.BadNotFound, "writer group %d", writerGroupID)
	}
	pds, ok := m.dataSets[dataSetName]
	if !ok {
		return errors.Wrapf(ua.BadNotFound, "published data set '%s'", dataSetName)
	}
	if _, ok := m.writers[config.DataSetWriterID]; ok {
		return errors.Wrapf(ua.BadNodeIDExists, "data set writer %d", config.DataSetWriterID)
	}
	w := &dataSetWriter{config: config, dataSet: pds, seqNum: 1}
	m.writers[config.DataSetWriterID] = w
	g.Lock()
	g.writers = append(g.writers, w)
	g.Unlock()
	return nil
}

// RemoveWriterGroup disables and removes the WriterGroup and its DataSetWriters.
func (m *Manager) RemoveWriterGroup(writerGroupID uint16) error {
	m.Lock()
	g, ok := m.writerGroups[writerGroupID]
	if !ok {
		m.Unlock()
		return errors.Wrapf(ua.BadNotFound, "writer group %d", writerGroupID)
	}
	m.deleteWriterGroup(g)
	groups := g.conn.groups[:0]
	for _, g2 := range g.conn.groups {
		if g2 != g {
			groups = append(groups, g2)
		}
	}
	g.conn.groups = groups
	m.Unlock()

	g.disable()
	return nil
}

// deleteWriterGroup removes the group and its writers from the maps. The caller holds the lock.
func (m *Manager) deleteWriterGroup(g *writerGroup) {
	delete(m.writerGroups, g.config.WriterGroupID)
	g.Lock()
	for _, w := range g.writers {
		delete(m.writers, w.config.DataSetWriterID)
	}
	g.Unlock()
}

// Enable transitions the WriterGroup from Disabled to Enabled and schedules its ticks at the publishing interval.
func (m *Manager) Enable(writerGroupID uint16) error {
	g, err := m.writerGroup(writerGroupID)
	if err != nil {
		return err
	}
	return g.enable()
}

// Disable stops the ticks of the WriterGroup. If a tick is running, Disable returns after it completes.
func (m *Manager) Disable(writerGroupID uint16) error {
	g, err := m.writerGroup(writerGroupID)
	if err != nil {
		return err
	}
	g.disable()
	return nil
}

// State returns the state of the WriterGroup.
func (m *Manager) State(writerGroupID uint16) (WriterGroupState, error) {
	g, err := m.writerGroup(writerGroupID)
	if err != nil {
		return WriterGroupStateDisabled, err
	}
	return g.State(), nil
}

// Tick runs one tick of the WriterGroup on the calling goroutine, as if its timer fired.
func (m *Manager) Tick(writerGroupID uint16) error {
	g, err := m.writerGroup(writerGroupID)
	if err != nil {
		return err
	}
	g.Poll()
	return nil
}

func (m *Manager) writerGroup(writerGroupID uint16) (*writerGroup, error) {
	m.RLock()
	defer m.RUnlock()
	if m.closed {
		return nil, ua.BadInvalidState
	}
	g, ok := m.writerGroups[writerGroupID]
	if !ok {
		return nil, errors.Wrapf(ua.BadNotFound, "writer group %d", writerGroupID)
	}
	return g, nil
}

// Close disables all WriterGroups, waiting for running ticks, then closes the transports.
func (m *Manager) Close() error {
	m.Lock()
	if m.closed {
		m.Unlock()
		return ua.BadInvalidState
	}
	m.closed = true
	groups := make([]*writerGroup, 0, len(m.writerGroups))
	for _, g := range m.writerGroups {
		groups = append(groups, g)
	}
	conns := make([]*connection, 0, len(m.connections))
	for _, c := range m.connections {
		conns = append(conns, c)
	}
	m.Unlock()

	for _, g := range groups {
		g.disable()
	}
	m.cancel()
	var err error
	for _, c := range conns {
		if err2 := c.transport.Close(); err2 != nil {
			m.logger.WithError(err2).WithField("connection", c.config.Name).Error("Error closing connection")
			if err == nil {
				err = errors.Wrapf(err2, "closing connection '%s'", c.config.Name)
			}
		}
	}
	m.logger.Info("PubSub closed.")
	return err
}
