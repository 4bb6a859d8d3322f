// Copyright 2021 Converter Systems LLC. All rights reserved.

package server

import (
	"context"
	"errors"
	"testing"

	"github.com/awcullen/opcua-pubsub/ua"
	pkgerrors "github.com/pkg/errors"
	"gotest.tools/assert"
)

type recorder struct {
	calls []string
}

func (r *recorder) ctor(name string, err error) Constructor {
	return ConstructorFunc(func(ctx context.Context, typeID, nodeID ua.NodeID) error {
		r.calls = append(r.calls, "construct "+name)
		return err
	})
}

func (r *recorder) dtor(name string) Destructor {
	return DestructorFunc(func(ctx context.Context, typeID, nodeID ua.NodeID) error {
		r.calls = append(r.calls, "destruct "+name)
		return nil
	})
}

func addTypeChain(t *testing.T, nm *NamespaceManager) (base, middle, leaf ua.NodeID) {
	base = addSensorType(t, nm, 1)
	middle, err := nm.AddObjectType(nil, base, ua.NewQualifiedName(1, "MiddleType"))
	assert.NilError(t, err)
	leaf, err = nm.AddObjectType(nil, middle, ua.NewQualifiedName(1, "LeafType"),
		VariableTemplate{BrowseName: ua.NewQualifiedName(1, "Extra"), DataType: ua.DataTypeIDInt32, AccessLevel: ua.AccessLevelsCurrentRead, Value: int32(7), Mandatory: true})
	assert.NilError(t, err)
	return
}

func TestSetLifecycleErrors(t *testing.T) {
	srv, _ := createTestServer(t)
	nm := srv.NamespaceManager()
	err := nm.SetLifecycle(ua.NewNodeIDNumeric(1, 4242), nil, nil)
	assert.Equal(t, err, error(ua.BadNodeIDUnknown))
	err = nm.SetLifecycle(ua.ObjectIDObjectsFolder, nil, nil)
	assert.Equal(t, err, error(ua.BadNodeClassInvalid))
}

func TestConstructorsRunSupertypeFirst(t *testing.T) {
	srv, _ := createTestServer(t)
	nm := srv.NamespaceManager()
	base, middle, leaf := addTypeChain(t, nm)
	r := &recorder{}
	assert.NilError(t, nm.SetLifecycle(base, r.ctor("base", nil), r.dtor("base")))
	assert.NilError(t, nm.SetLifecycle(middle, r.ctor("middle", nil), nil))
	assert.NilError(t, nm.SetLifecycle(leaf, r.ctor("leaf", nil), r.dtor("leaf")))

	id, err := nm.AddInstance(context.Background(), ua.ObjectIDObjectsFolder, leaf, ua.NewQualifiedName(1, "s1"), nil)
	assert.NilError(t, err)
	assert.DeepEqual(t, r.calls, []string{"construct base", "construct middle", "construct leaf"})

	r.calls = nil
	assert.NilError(t, nm.RemoveNode(context.Background(), id))
	assert.DeepEqual(t, r.calls, []string{"destruct leaf", "destruct base"})
}

func TestConstructorFailureRollsBack(t *testing.T) {
	srv, _ := createTestServer(t)
	nm := srv.NamespaceManager()
	base, middle, leaf := addTypeChain(t, nm)
	r := &recorder{}
	errNoSensor := errors.New("no sensor attached")
	assert.NilError(t, nm.SetLifecycle(base, r.ctor("base", nil), r.dtor("base")))
	assert.NilError(t, nm.SetLifecycle(middle, r.ctor("middle", nil), r.dtor("middle")))
	assert.NilError(t, nm.SetLifecycle(leaf, r.ctor("leaf", errNoSensor), r.dtor("leaf")))
	count := nm.NodeCount()
	objects, _ := nm.FindNode(ua.ObjectIDObjectsFolder)
	refs := len(objects.References())

	_, err := nm.AddInstance(context.Background(), ua.ObjectIDObjectsFolder, leaf, ua.NewQualifiedName(1, "s1"), ua.NewNodeIDNumeric(1, 3000))
	assert.Equal(t, pkgerrors.Cause(err), errNoSensor)
	assert.DeepEqual(t, r.calls, []string{"construct base", "construct middle", "construct leaf", "destruct middle", "destruct base"})

	assert.Equal(t, nm.NodeCount(), count)
	assert.Equal(t, len(objects.References()), refs)
	for _, id := range []ua.NodeID{ua.NewNodeIDNumeric(1, 3000), ua.NewNodeIDString(1, "s1/SensorName"), ua.NewNodeIDString(1, "s1/Extra")} {
		_, ok := nm.FindNode(id)
		assert.Assert(t, !ok, "%s should have been rolled back", id)
	}
}

func TestConstructorFailureRemovesAddedChildren(t *testing.T) {
	srv, _ := createTestServer(t)
	nm := srv.NamespaceManager()
	typeID := addSensorType(t, nm, 1)
	errCalibration := errors.New("calibration failed")
	ctor := ConstructorFunc(func(ctx context.Context, typeID, nodeID ua.NodeID) error {
		if _, err := nm.AddVariable(nodeID, ua.NewQualifiedName(1, "Calibration"), ua.DataTypeIDDouble, ua.AccessLevelsCurrentRead, 1.0, nil, false); err != nil {
			return err
		}
		return errCalibration
	})
	assert.NilError(t, nm.SetLifecycle(typeID, ctor, nil))
	count := nm.NodeCount()

	_, err := nm.AddInstance(context.Background(), ua.ObjectIDObjectsFolder, typeID, ua.NewQualifiedName(1, "s1"), nil)
	assert.Equal(t, pkgerrors.Cause(err), errCalibration)
	assert.Equal(t, nm.NodeCount(), count)
	_, ok := nm.FindNode(ua.NewNodeIDString(1, "s1/Calibration"))
	assert.Assert(t, !ok, "variable added by the constructor should have been rolled back")

	// the id is free again.
	assert.NilError(t, nm.SetLifecycle(typeID, nil, nil))
	_, err = nm.AddInstance(context.Background(), ua.ObjectIDObjectsFolder, typeID, ua.NewQualifiedName(1, "s1"), nil)
	assert.NilError(t, err)
}
