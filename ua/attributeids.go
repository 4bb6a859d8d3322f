// Copyright 2021 Converter Systems LLC. All rights reserved.

package ua

// AttributeID selects which attribute of the node to read or write.
const (
	AttributeIDNodeID      uint32 = 1
	AttributeIDNodeClass   uint32 = 2
	AttributeIDBrowseName  uint32 = 3
	AttributeIDDisplayName uint32 = 4
	AttributeIDDescription uint32 = 5
	AttributeIDIsAbstract  uint32 = 8
	AttributeIDValue       uint32 = 13
	AttributeIDDataType    uint32 = 14
	AttributeIDAccessLevel uint32 = 17
)

// ReadValueID names the node and attribute to read.
type ReadValueID struct {
	NodeID      NodeID
	AttributeID uint32
}
