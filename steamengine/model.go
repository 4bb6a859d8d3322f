// Copyright 2021 Converter Systems LLC. All rights reserved.

// Package steamengine builds the information model of a steam engine with temperature sensors
// and publishes the values of its first sensor.
package steamengine

import (
	"context"

	"github.com/awcullen/opcua-pubsub/pubsub"
	"github.com/awcullen/opcua-pubsub/server"
	"github.com/awcullen/opcua-pubsub/ua"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Namespace is the index of the namespace that holds the model.
const Namespace uint16 = 1

// NodeIDs of the model.
var (
	TemperatureSensorTypeID = ua.NewNodeIDNumeric(Namespace, 1001)
	CurrentTimeID           = ua.NewNodeIDString(Namespace, "current-time")
	Temp1ValueID            = ua.NewNodeIDString(Namespace, "temp1/temp.value")
)

// Sensor is an instance of the TemperatureSensorType.
type Sensor struct {
	ID   uint32
	Name string
}

// Sensors are the instances created by Setup.
var Sensors = []Sensor{
	{ID: 2000, Name: "temp1"},
	{ID: 2001, Name: "temp2"},
	{ID: 2002, Name: "temp3"},
}

// PublishedDataSetName is the name of the data set added by AddPublishedDataSet.
const PublishedDataSetName = "Demo PDS"

// DefineTemperatureSensorType adds the TemperatureSensorType. Each sensor carries a name,
// a location and the measured value.
func DefineTemperatureSensorType(srv *server.Server) error {
	_, err := srv.NamespaceManager().AddObjectType(
		TemperatureSensorTypeID,
		ua.ObjectTypeIDBaseObjectType,
		ua.NewQualifiedName(Namespace, "TemperatureSensorType"),
		server.VariableTemplate{
			BrowseName:  ua.NewQualifiedName(Namespace, "SensorName"),
			DataType:    ua.DataTypeIDString,
			AccessLevel: ua.AccessLevelsCurrentRead,
			Value:       "PT100",
			Mandatory:   true,
		},
		server.VariableTemplate{
			BrowseName:  ua.NewQualifiedName(Namespace, "Location"),
			DataType:    ua.DataTypeIDString,
			AccessLevel: ua.AccessLevelsCurrentRead,
			Value:       "Heater",
			Mandatory:   true,
		},
		server.VariableTemplate{
			NodeID:      ua.NewNodeIDString(Namespace, "temp.value"),
			BrowseName:  ua.NewQualifiedName(Namespace, "temp.value"),
			DataType:    ua.DataTypeIDDouble,
			AccessLevel: ua.AccessLevelsCurrentRead | ua.AccessLevelsCurrentWrite,
			Value:       47.11,
			Mandatory:   true,
		},
	)
	return errors.Wrap(err, "define TemperatureSensorType")
}

// AddTemperatureSensorInstance adds a sensor to the Objects folder.
func AddTemperatureSensorInstance(ctx context.Context, srv *server.Server, ns uint16, id uint32, name string) error {
	_, err := srv.NamespaceManager().AddInstance(
		ctx,
		ua.ObjectIDObjectsFolder,
		TemperatureSensorTypeID,
		ua.NewQualifiedName(ns, name),
		ua.NewNodeIDNumeric(ns, id),
	)
	return errors.Wrapf(err, "add sensor '%s'", name)
}

// AddTemperatureTypeConstructor logs each sensor that is created.
func AddTemperatureTypeConstructor(srv *server.Server) error {
	ctor := server.ConstructorFunc(func(ctx context.Context, typeID, nodeID ua.NodeID) error {
		srv.Logger().WithField("node", nodeID.String()).Info("New temperature sensor created")
		return nil
	})
	return srv.NamespaceManager().SetLifecycle(TemperatureSensorTypeID, ctor, nil)
}

// AddCurrentTimeVariable adds the variable that records when the value of temp1 was last read.
func AddCurrentTimeVariable(srv *server.Server) error {
	_, err := srv.NamespaceManager().AddVariable(
		ua.ObjectIDObjectsFolder,
		ua.NewQualifiedName(Namespace, "current-time"),
		ua.DataTypeIDDateTime,
		ua.AccessLevelsCurrentRead,
		srv.Now(),
		CurrentTimeID,
		false,
	)
	return errors.Wrap(err, "add current-time")
}

// AddValueCallbackToCurrentTemp1Variable stores the time of each read of temp1 in the
// current-time variable and logs each write.
func AddValueCallbackToCurrentTemp1Variable(srv *server.Server) error {
	n, ok := srv.NamespaceManager().FindVariable(Temp1ValueID)
	if !ok {
		return errors.Wrapf(ua.BadNodeIDUnknown, "node '%s'", Temp1ValueID)
	}
	n.SetReadValueHandler(func(ctx context.Context, n *server.VariableNode) error {
		now := srv.Now()
		return srv.WriteValue(ctx, CurrentTimeID, ua.NewDataValue(now, ua.Good, now, now))
	})
	n.SetWriteValueHandler(func(ctx context.Context, n *server.VariableNode, value ua.DataValue) error {
		srv.Logger().WithFields(logrus.Fields{
			"node":  n.NodeID().String(),
			"value": value.Value,
		}).Info("The variable was updated")
		return nil
	})
	return nil
}

// AddPublishedDataSet adds the data set with the local time of the server and the value of temp1.
func AddPublishedDataSet(mgr *pubsub.Manager) error {
	if err := mgr.AddPublishedDataSet(pubsub.PublishedDataSetConfig{Name: PublishedDataSetName}); err != nil {
		return err
	}
	fields := []pubsub.DataSetFieldConfig{
		{Alias: "Server localtime", NodeID: ua.VariableIDServerServerStatusCurrentTime, AttributeID: ua.AttributeIDValue},
		{Alias: "temperature", NodeID: Temp1ValueID, AttributeID: ua.AttributeIDValue},
	}
	for _, f := range fields {
		if err := mgr.AddDataSetField(PublishedDataSetName, f); err != nil {
			return err
		}
	}
	return nil
}

// Setup adds the model to the server. The constructor is registered before the sensors are added.
func Setup(ctx context.Context, srv *server.Server) error {
	if err := DefineTemperatureSensorType(srv); err != nil {
		return err
	}
	if err := AddTemperatureTypeConstructor(srv); err != nil {
		return err
	}
	for _, s := range Sensors {
		if err := AddTemperatureSensorInstance(ctx, srv, Namespace, s.ID, s.Name); err != nil {
			return err
		}
	}
	if err := AddCurrentTimeVariable(srv); err != nil {
		return err
	}
	return AddValueCallbackToCurrentTemp1Variable(srv)
}
