// Copyright 2021 Converter Systems LLC. All rights reserved.

package server

import (
	"context"
	"sync"

	"github.com/awcullen/opcua-pubsub/ua"
)

// ReadValueHandler is called by Read before the stored value is returned.
// The handler may refresh the value with SetValue.
type ReadValueHandler func(ctx context.Context, node *VariableNode) error

// WriteValueHandler is called by Write after the value has been stored.
type WriteValueHandler func(ctx context.Context, node *VariableNode, value ua.DataValue) error

// VariableNode holds a value of a declared DataType.
type VariableNode struct {
	sync.RWMutex
	// access serializes Read and Write of this node, including the handlers.
	access            sync.Mutex
	nodeID            ua.NodeID
	browseName        ua.QualifiedName
	displayName       ua.LocalizedText
	description       ua.LocalizedText
	references        []ua.Reference
	value             ua.DataValue
	dataType          ua.NodeID
	accessLevel       byte
	readValueHandler  ReadValueHandler
	writeValueHandler WriteValueHandler
}

var _ Node = (*VariableNode)(nil)

// NewVariableNode returns a VariableNode with no handlers.
func NewVariableNode(nodeID ua.NodeID, browseName ua.QualifiedName, displayName ua.LocalizedText, description ua.LocalizedText, references []ua.Reference, value ua.DataValue, dataType ua.NodeID, accessLevel byte) *VariableNode {
	return &VariableNode{
		nodeID:      nodeID,
		browseName:  browseName,
		displayName: displayName,
		description: description,
		references:  references,
		value:       value,
		dataType:    dataType,
		accessLevel: accessLevel,
	}
}

// NodeID returns the NodeID attribute of this node.
func (n *VariableNode) NodeID() ua.NodeID {
	return n.nodeID
}

// NodeClass returns the NodeClass attribute of this node.
func (n *VariableNode) NodeClass() ua.NodeClass {
	return ua.NodeClassVariable
}

// BrowseName returns the BrowseName attribute of this node.
func (n *VariableNode) BrowseName() ua.QualifiedName {
	return n.browseName
}

// DisplayName returns the DisplayName attribute of this node.
func (n *VariableNode) DisplayName() ua.LocalizedText {
	return n.displayName
}

// Description returns the Description attribute of this node.
func (n *VariableNode) Description() ua.LocalizedText {
	return n.description
}

// References returns the References of this node.
func (n *VariableNode) References() []ua.Reference {
	n.RLock()
	res := n.references
	n.RUnlock()
	return res
}

// SetReferences sets the References of this node.
func (n *VariableNode) SetReferences(value []ua.Reference) {
	n.Lock()
	n.references = value
	n.Unlock()
}

// Value returns the stored value of the Variable without calling the ReadValueHandler.
func (n *VariableNode) Value() ua.DataValue {
	n.RLock()
	res := n.value
	n.RUnlock()
	return res
}

// SetValue stores the value of the Variable without calling the WriteValueHandler.
func (n *VariableNode) SetValue(value ua.DataValue) {
	n.Lock()
	n.value = value
	n.Unlock()
}

// DataType returns the DataType attribute of this node.
func (n *VariableNode) DataType() ua.NodeID {
	return n.dataType
}

// AccessLevel returns the AccessLevel attribute of this node.
func (n *VariableNode) AccessLevel() byte {
	return n.accessLevel
}

// IsMandatory returns true if the node carries the Mandatory modelling rule.
func (n *VariableNode) IsMandatory() bool {
	for _, r := range n.References() {
		if !r.IsInverse && r.ReferenceTypeID == ua.ReferenceTypeIDHasModellingRule && r.TargetID == ua.ObjectIDModellingRuleMandatory {
			return true
		}
	}
	return false
}

// SetReadValueHandler sets the ReadValueHandler of this node.
// The handler must not Read or Write this same node.
func (n *VariableNode) SetReadValueHandler(value ReadValueHandler) {
	n.Lock()
	n.readValueHandler = value
	n.Unlock()
}

// SetWriteValueHandler sets the WriteValueHandler of this node.
// The handler must not Read or Write this same node.
func (n *VariableNode) SetWriteValueHandler(value WriteValueHandler) {
	n.Lock()
	n.writeValueHandler = value
	n.Unlock()
}

func (n *VariableNode) handlers() (ReadValueHandler, WriteValueHandler) {
	n.RLock()
	defer n.RUnlock()
	return n.readValueHandler, n.writeValueHandler
}

// IsAttributeIDValid returns true if attributeId is supported for the node.
func (n *VariableNode) IsAttributeIDValid(attributeID uint32) bool {
	switch attributeID {
	case ua.AttributeIDNodeID, ua.AttributeIDNodeClass, ua.AttributeIDBrowseName,
		ua.AttributeIDDisplayName, ua.AttributeIDDescription, ua.AttributeIDValue,
		ua.AttributeIDDataType, ua.AttributeIDAccessLevel:
		return true
	default:
		return false
	}
}
