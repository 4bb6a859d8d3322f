// Copyright 2021 Converter Systems LLC. All rights reserved.

package ua

// NodeClass enumerates the classes of nodes held in the address space.
type NodeClass int32

// NodeClass values.
const (
	NodeClassUnspecified  NodeClass = 0
	NodeClassObject       NodeClass = 1
	NodeClassVariable     NodeClass = 2
	NodeClassObjectType   NodeClass = 8
	NodeClassVariableType NodeClass = 16
)

func (c NodeClass) String() string {
	switch c {
	case NodeClassObject:
		return "Object"
	case NodeClassVariable:
		return "Variable"
	case NodeClassObjectType:
		return "ObjectType"
	case NodeClassVariableType:
		return "VariableType"
	default:
		return "Unspecified"
	}
}
