// Copyright 2021 Converter Systems LLC. All rights reserved.

package server

import (
	"sync"

	"github.com/awcullen/opcua-pubsub/ua"
)

// VariableTypeNode is the type definition of variables.
type VariableTypeNode struct {
	sync.RWMutex
	nodeId      ua.NodeID
	browseName  ua.QualifiedName
	displayName ua.LocalizedText
	description ua.LocalizedText
	references  []ua.Reference
	dataType    ua.NodeID
	isAbstract  bool
}

var _ Node = (*VariableTypeNode)(nil)

func NewVariableTypeNode(nodeId ua.NodeID, browseName ua.QualifiedName, displayName ua.LocalizedText, description ua.LocalizedText, references []ua.Reference, dataType ua.NodeID, isAbstract bool) *VariableTypeNode {
	return &VariableTypeNode{
		nodeId:      nodeId,
		browseName:  browseName,
		displayName: displayName,
		description: description,
		references:  references,
		dataType:    dataType,
		isAbstract:  isAbstract,
	}
}

// NodeID returns the NodeID attribute of this node.
func (n *VariableTypeNode) NodeID() ua.NodeID {
	return n.nodeId
}

// NodeClass returns the NodeClass attribute of this node.
func (n *VariableTypeNode) NodeClass() ua.NodeClass {
	return ua.NodeClassVariableType
}

// BrowseName returns the BrowseName attribute of this node.
func (n *VariableTypeNode) BrowseName() ua.QualifiedName {
	return n.browseName
}

// DisplayName returns the DisplayName attribute of this node.
func (n *VariableTypeNode) DisplayName() ua.LocalizedText {
	return n.displayName
}

// Description returns the Description attribute of this node.
func (n *VariableTypeNode) Description() ua.LocalizedText {
	return n.description
}

// References returns the References of this node.
func (n *VariableTypeNode) References() []ua.Reference {
	n.RLock()
	res := n.references
	n.RUnlock()
	return res
}

// SetReferences sets the References of this node.
func (n *VariableTypeNode) SetReferences(value []ua.Reference) {
	n.Lock()
	n.references = value
	n.Unlock()
}

// DataType returns the DataType attribute of this node.
func (n *VariableTypeNode) DataType() ua.NodeID {
	return n.dataType
}

// IsAbstract returns the IsAbstract attribute of this node.
func (n *VariableTypeNode) IsAbstract() bool {
	return n.isAbstract
}

// IsAttributeIDValid returns true if attributeId is supported for the node.
func (n *VariableTypeNode) IsAttributeIDValid(attributeID uint32) bool {
	switch attributeID {
	case ua.AttributeIDNodeID, ua.AttributeIDNodeClass, ua.AttributeIDBrowseName,
		ua.AttributeIDDisplayName, ua.AttributeIDDescription, ua.AttributeIDDataType,
		ua.AttributeIDIsAbstract:
		return true
	default:
		return false
	}
}
