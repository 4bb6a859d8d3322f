// Copyright 2021 Converter Systems LLC. All rights reserved.

package server

import (
	"context"

	"github.com/awcullen/opcua-pubsub/ua"
	"github.com/pkg/errors"
)

// Read returns the value of the variable. The ReadValueHandler of the node is called first, so
// it may refresh the stored value. A failing handler does not fail the Read.
func (srv *Server) Read(ctx context.Context, nodeID ua.NodeID) (ua.DataValue, error) {
	n, ok := srv.namespaceManager.FindVariable(nodeID)
	if !ok {
		return ua.NilDataValue, srv.notVariable(nodeID, ua.BadNotReadable)
	}
	if n.AccessLevel()&ua.AccessLevelsCurrentRead == 0 {
		return ua.NilDataValue, errors.Wrapf(ua.BadNotReadable, "node '%s'", nodeID)
	}
	return srv.readValue(ctx, n), nil
}

func (srv *Server) readValue(ctx context.Context, n *VariableNode) ua.DataValue {
	n.access.Lock()
	defer n.access.Unlock()
	if h, _ := n.handlers(); h != nil {
		if err := h(ctx, n); err != nil {
			srv.hookError(errors.Wrapf(err, "read handler of '%s'", n.NodeID()), "read")
		}
	}
	return n.Value()
}

// Write checks the value against the DataType of the variable, stores it, then calls
// the WriteValueHandler of the node. A failing handler does not undo the Write.
func (srv *Server) Write(ctx context.Context, nodeID ua.NodeID, value ua.Variant) error {
	n, ok := srv.namespaceManager.FindVariable(nodeID)
	if !ok {
		return srv.notVariable(nodeID, ua.BadNotWritable)
	}
	if n.AccessLevel()&ua.AccessLevelsCurrentWrite == 0 {
		return errors.Wrapf(ua.BadNotWritable, "node '%s'", nodeID)
	}
	now := srv.now()
	return srv.writeValue(ctx, n, ua.NewDataValue(value, ua.Good, now, now))
}

// WriteValue stores the value regardless of the AccessLevel of the variable.
// The value is still checked against the DataType and the WriteValueHandler is still called.
func (srv *Server) WriteValue(ctx context.Context, nodeID ua.NodeID, value ua.DataValue) error {
	n, ok := srv.namespaceManager.FindVariable(nodeID)
	if !ok {
		return srv.notVariable(nodeID, ua.BadNotWritable)
	}
	if value.ServerTimestamp.IsZero() {
		value.ServerTimestamp = srv.now()
	}
	if value.SourceTimestamp.IsZero() {
		value.SourceTimestamp = value.ServerTimestamp
	}
	return srv.writeValue(ctx, n, value)
}

func (srv *Server) writeValue(ctx context.Context, n *VariableNode, value ua.DataValue) error {
	if !ua.IsValueOfDataType(value.Value, n.DataType()) {
		return errors.Wrapf(ua.BadTypeMismatch, "node '%s' expects %s, got %T", n.NodeID(), n.DataType(), value.Value)
	}
	n.access.Lock()
	defer n.access.Unlock()
	n.SetValue(value)
	if _, h := n.handlers(); h != nil {
		if err := h(ctx, n, value); err != nil {
			srv.hookError(errors.Wrapf(err, "write handler of '%s'", n.NodeID()), "write")
		}
	}
	return nil
}

// ReadAttribute returns the value of an attribute of a node. The Value attribute is read with Read.
func (srv *Server) ReadAttribute(ctx context.Context, req ua.ReadValueID) (ua.DataValue, error) {
	n, ok := srv.namespaceManager.FindNode(req.NodeID)
	if !ok {
		return ua.NilDataValue, errors.Wrapf(ua.BadNodeIDUnknown, "node '%v'", req.NodeID)
	}
	if !n.IsAttributeIDValid(req.AttributeID) {
		return ua.NilDataValue, errors.Wrapf(ua.BadAttributeIDInvalid, "node '%s' attribute %d", req.NodeID, req.AttributeID)
	}
	now := srv.now()
	switch req.AttributeID {
	case ua.AttributeIDValue:
		return srv.Read(ctx, req.NodeID)
	case ua.AttributeIDNodeID:
		return ua.NewDataValue(n.NodeID(), ua.Good, now, now), nil
	case ua.AttributeIDNodeClass:
		return ua.NewDataValue(int32(n.NodeClass()), ua.Good, now, now), nil
	case ua.AttributeIDBrowseName:
		return ua.NewDataValue(n.BrowseName(), ua.Good, now, now), nil
	case ua.AttributeIDDisplayName:
		return ua.NewDataValue(n.DisplayName(), ua.Good, now, now), nil
	case ua.AttributeIDDescription:
		return ua.NewDataValue(n.Description(), ua.Good, now, now), nil
	case ua.AttributeIDIsAbstract:
		if t, ok := n.(*ObjectTypeNode); ok {
			return ua.NewDataValue(t.IsAbstract(), ua.Good, now, now), nil
		}
	case ua.AttributeIDDataType:
		if v, ok := n.(*VariableNode); ok {
			return ua.NewDataValue(v.DataType(), ua.Good, now, now), nil
		}
	case ua.AttributeIDAccessLevel:
		if v, ok := n.(*VariableNode); ok {
			return ua.NewDataValue(v.AccessLevel(), ua.Good, now, now), nil
		}
	}
	return ua.NilDataValue, errors.Wrapf(ua.BadAttributeIDInvalid, "node '%s' attribute %d", req.NodeID, req.AttributeID)
}

// notVariable returns BadNodeIDUnknown, or the given code if the node exists but has no value.
func (srv *Server) notVariable(nodeID ua.NodeID, code ua.StatusCode) error {
	if _, ok := srv.namespaceManager.FindNode(nodeID); ok {
		return errors.Wrapf(code, "node '%s' is not a variable", nodeID)
	}
	return errors.Wrapf(ua.BadNodeIDUnknown, "node '%v'", nodeID)
}
