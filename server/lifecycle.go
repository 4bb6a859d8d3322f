// Copyright 2021 Converter Systems LLC. All rights reserved.

package server

import (
	"context"

	"github.com/awcullen/opcua-pubsub/ua"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Constructor is called after an instance of a type and its mandatory children are added.
// Returning an error removes the instance again.
type Constructor interface {
	Construct(ctx context.Context, typeID, nodeID ua.NodeID) error
}

// Destructor is called before an instance of a type is removed.
type Destructor interface {
	Destruct(ctx context.Context, typeID, nodeID ua.NodeID) error
}

// ConstructorFunc adapts a func to a Constructor.
type ConstructorFunc func(ctx context.Context, typeID, nodeID ua.NodeID) error

// Construct calls f(ctx, typeID, nodeID).
func (f ConstructorFunc) Construct(ctx context.Context, typeID, nodeID ua.NodeID) error {
	return f(ctx, typeID, nodeID)
}

// DestructorFunc adapts a func to a Destructor.
type DestructorFunc func(ctx context.Context, typeID, nodeID ua.NodeID) error

// Destruct calls f(ctx, typeID, nodeID).
func (f DestructorFunc) Destruct(ctx context.Context, typeID, nodeID ua.NodeID) error {
	return f(ctx, typeID, nodeID)
}

// SetLifecycle registers the constructor and destructor of the ObjectType. Either may be nil.
func (m *NamespaceManager) SetLifecycle(typeID ua.NodeID, constructor Constructor, destructor Destructor) error {
	n, ok := m.FindNode(typeID)
	if !ok {
		return ua.BadNodeIDUnknown
	}
	t, ok := n.(*ObjectTypeNode)
	if !ok {
		return ua.BadNodeClassInvalid
	}
	t.SetLifecycle(constructor, destructor)
	return nil
}

// typeHierarchy returns the ObjectTypes from the given type up to the root type, most derived first.
func (m *NamespaceManager) typeHierarchy(typeID ua.NodeID) []*ObjectTypeNode {
	types := []*ObjectTypeNode{}
	for i := 0; i < 100 && !ua.IsNil(typeID); i++ {
		n, ok := m.FindNode(typeID)
		if !ok {
			break
		}
		t, ok := n.(*ObjectTypeNode)
		if !ok {
			break
		}
		types = append(types, t)
		typeID = m.FindSuperType(typeID)
	}
	return types
}

// construct calls the constructors of the type hierarchy, supertype first.
// If a constructor fails, the destructors of the types already constructed are called in reverse order.
func (m *NamespaceManager) construct(ctx context.Context, typeID, nodeID ua.NodeID) error {
	types := m.typeHierarchy(typeID)
	for i := len(types) - 1; i >= 0; i-- {
		ctor, _ := types[i].Lifecycle()
		if ctor == nil {
			continue
		}
		if err := ctor.Construct(ctx, types[i].NodeID(), nodeID); err != nil {
			m.server.metrics.RecordHookError("constructor")
			for j := i + 1; j < len(types); j++ {
				if _, dtor := types[j].Lifecycle(); dtor != nil {
					if err2 := dtor.Destruct(ctx, types[j].NodeID(), nodeID); err2 != nil {
						m.server.hookError(errors.Wrapf(err2, "destructor of %s failed for %s", types[j].NodeID(), nodeID), "destructor")
					}
				}
			}
			return errors.Wrapf(err, "constructor of %s failed for %s", types[i].NodeID(), nodeID)
		}
	}
	return nil
}

// destruct calls the destructors of the type hierarchy, most derived first.
// Errors are reported and do not stop the remaining destructors.
func (m *NamespaceManager) destruct(ctx context.Context, node *ObjectNode) {
	typeID := node.TypeDefinition()
	if ua.IsNil(typeID) {
		return
	}
	for _, t := range m.typeHierarchy(typeID) {
		_, dtor := t.Lifecycle()
		if dtor == nil {
			continue
		}
		if err := dtor.Destruct(ctx, t.NodeID(), node.NodeID()); err != nil {
			m.server.hookError(errors.Wrapf(err, "destructor of %s failed for %s", t.NodeID(), node.NodeID()), "destructor")
			continue
		}
		m.server.logger.WithFields(logrus.Fields{
			"type": t.NodeID().String(),
			"node": node.NodeID().String(),
		}).Debug("Destructed instance")
	}
}
