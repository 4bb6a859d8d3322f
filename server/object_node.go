// Copyright 2021 Converter Systems LLC. All rights reserved.

package server

import (
	"sync"

	"github.com/awcullen/opcua-pubsub/ua"
)

// ObjectNode is an instance of an ObjectType, or a folder.
type ObjectNode struct {
	sync.RWMutex
	nodeID      ua.NodeID
	browseName  ua.QualifiedName
	displayName ua.LocalizedText
	description ua.LocalizedText
	references  []ua.Reference
}

var _ Node = (*ObjectNode)(nil)

// NewObjectNode ...
func NewObjectNode(nodeID ua.NodeID, browseName ua.QualifiedName, displayName ua.LocalizedText, description ua.LocalizedText, references []ua.Reference) *ObjectNode {
	return &ObjectNode{
		nodeID:      nodeID,
		browseName:  browseName,
		displayName: displayName,
		description: description,
		references:  references,
	}
}

// NodeID returns the NodeID attribute of this node.
func (n *ObjectNode) NodeID() ua.NodeID {
	return n.nodeID
}

// NodeClass returns the NodeClass attribute of this node.
func (n *ObjectNode) NodeClass() ua.NodeClass {
	return ua.NodeClassObject
}

// BrowseName returns the BrowseName attribute of this node.
func (n *ObjectNode) BrowseName() ua.QualifiedName {
	return n.browseName
}

// DisplayName returns the DisplayName attribute of this node.
func (n *ObjectNode) DisplayName() ua.LocalizedText {
	return n.displayName
}

// Description returns the Description attribute of this node.
func (n *ObjectNode) Description() ua.LocalizedText {
	return n.description
}

// References returns the References of this node.
func (n *ObjectNode) References() []ua.Reference {
	n.RLock()
	res := n.references
	n.RUnlock()
	return res
}

// SetReferences sets the References of this node.
func (n *ObjectNode) SetReferences(value []ua.Reference) {
	n.Lock()
	n.references = value
	n.Unlock()
}

// TypeDefinition returns the target of the HasTypeDefinition reference, or nil.
func (n *ObjectNode) TypeDefinition() ua.NodeID {
	for _, r := range n.References() {
		if !r.IsInverse && r.ReferenceTypeID == ua.ReferenceTypeIDHasTypeDefinition {
			return r.TargetID
		}
	}
	return nil
}

// IsAttributeIDValid returns true if attributeId is supported for the node.
func (n *ObjectNode) IsAttributeIDValid(attributeID uint32) bool {
	switch attributeID {
	case ua.AttributeIDNodeID, ua.AttributeIDNodeClass, ua.AttributeIDBrowseName,
		ua.AttributeIDDisplayName, ua.AttributeIDDescription:
		return true
	default:
		return false
	}
}
