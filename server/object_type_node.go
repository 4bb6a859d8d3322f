// Copyright 2021 Converter Systems LLC. All rights reserved.

package server

import (
	"sync"

	"github.com/awcullen/opcua-pubsub/ua"
)

// ObjectTypeNode declares the children and the lifecycle of its instances.
type ObjectTypeNode struct {
	sync.RWMutex
	nodeID      ua.NodeID
	browseName  ua.QualifiedName
	displayName ua.LocalizedText
	description ua.LocalizedText
	references  []ua.Reference
	isAbstract  bool
	constructor Constructor
	destructor  Destructor
}

var _ Node = (*ObjectTypeNode)(nil)

// NewObjectTypeNode ...
func NewObjectTypeNode(nodeID ua.NodeID, browseName ua.QualifiedName, displayName ua.LocalizedText, description ua.LocalizedText, references []ua.Reference, isAbstract bool) *ObjectTypeNode {
	return &ObjectTypeNode{
		nodeID:      nodeID,
		browseName:  browseName,
		displayName: displayName,
		description: description,
		references:  references,
		isAbstract:  isAbstract,
	}
}

// NodeID returns the NodeID attribute of this node.
func (n *ObjectTypeNode) NodeID() ua.NodeID {
	return n.nodeID
}

// NodeClass returns the NodeClass attribute of this node.
func (n *ObjectTypeNode) NodeClass() ua.NodeClass {
	return ua.NodeClassObjectType
}

// BrowseName returns the BrowseName attribute of this node.
func (n *ObjectTypeNode) BrowseName() ua.QualifiedName {
	return n.browseName
}

// DisplayName returns the DisplayName attribute of this node.
func (n *ObjectTypeNode) DisplayName() ua.LocalizedText {
	return n.displayName
}

// Description returns the Description attribute of this node.
func (n *ObjectTypeNode) Description() ua.LocalizedText {
	return n.description
}

// References returns the References of this node.
func (n *ObjectTypeNode) References() []ua.Reference {
	n.RLock()
	res := n.references
	n.RUnlock()
	return res
}

// SetReferences sets the References of this node.
func (n *ObjectTypeNode) SetReferences(value []ua.Reference) {
	n.Lock()
	n.references = value
	n.Unlock()
}

// IsAbstract returns the IsAbstract attribute of this node.
func (n *ObjectTypeNode) IsAbstract() bool {
	return n.isAbstract
}

// Lifecycle returns the constructor and destructor of this type. Either may be nil.
func (n *ObjectTypeNode) Lifecycle() (Constructor, Destructor) {
	n.RLock()
	defer n.RUnlock()
	return n.constructor, n.destructor
}

// SetLifecycle sets the constructor and destructor of this type.
func (n *ObjectTypeNode) SetLifecycle(constructor Constructor, destructor Destructor) {
	n.Lock()
	n.constructor = constructor
	n.destructor = destructor
	n.Unlock()
}

// IsAttributeIDValid returns true if attributeId is supported for the node.
func (n *ObjectTypeNode) IsAttributeIDValid(attributeID uint32) bool {
	switch attributeID {
	case ua.AttributeIDNodeID, ua.AttributeIDNodeClass, ua.AttributeIDBrowseName,
		ua.AttributeIDDisplayName, ua.AttributeIDDescription, ua.AttributeIDIsAbstract:
		return true
	default:
		return false
	}
}
