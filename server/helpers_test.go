// Copyright 2021 Converter Systems LLC. All rights reserved.

package server

import (
	"testing"

	"github.com/awcullen/opcua-pubsub/ua"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

// Helper function to create a minimal test server
func createTestServer(t *testing.T, options ...Option) (*Server, *test.Hook) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	srv, err := New("urn:test:uapubsub", append([]Option{WithLogger(logger)}, options...)...)
	if err != nil {
		t.Fatalf("Error creating server: %v", err)
	}
	t.Cleanup(func() { srv.Close() })
	return srv, hook
}

// addSensorType adds a type with two mandatory strings, one mandatory double and one optional string.
func addSensorType(t *testing.T, nm *NamespaceManager, ns uint16) ua.NodeID {
	typeID, err := nm.AddObjectType(ua.NewNodeIDNumeric(ns, 1001), ua.ObjectTypeIDBaseObjectType, ua.NewQualifiedName(ns, "SensorType"),
		VariableTemplate{BrowseName: ua.NewQualifiedName(ns, "SensorName"), DataType: ua.DataTypeIDString, AccessLevel: ua.AccessLevelsCurrentRead, Value: "PT100", Mandatory: true},
		VariableTemplate{BrowseName: ua.NewQualifiedName(ns, "Location"), DataType: ua.DataTypeIDString, AccessLevel: ua.AccessLevelsCurrentRead, Value: "Heater", Mandatory: true},
		VariableTemplate{NodeID: ua.NewNodeIDString(ns, "temp.value"), BrowseName: ua.NewQualifiedName(ns, "temp.value"), DataType: ua.DataTypeIDDouble, AccessLevel: ua.AccessLevelsCurrentRead | ua.AccessLevelsCurrentWrite, Value: 47.11, Mandatory: true},
		VariableTemplate{BrowseName: ua.NewQualifiedName(ns, "Comment"), DataType: ua.DataTypeIDString, AccessLevel: ua.AccessLevelsCurrentRead, Value: "optional"},
	)
	if err != nil {
		t.Fatalf("Error adding type: %v", err)
	}
	return typeID
}

func hasReference(n Node, referenceTypeID ua.NodeID, isInverse bool, targetID ua.NodeID) bool {
	for _, r := range n.References() {
		if r.ReferenceTypeID == referenceTypeID && r.IsInverse == isInverse && r.TargetID == targetID {
			return true
		}
	}
	return false
}

func quietLogger() *logrus.Logger {
	logger, _ := test.NewNullLogger()
	return logger
}
