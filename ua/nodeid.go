// Copyright 2021 Converter Systems LLC. All rights reserved.

package ua

import (
	"fmt"
	"strconv"
	"strings"
)

// NodeID identifies a Node.
// A NodeID is either a NodeIDNumeric or a NodeIDString. NodeIDs are comparable
// and may be used as map keys.
type NodeID interface {
	nodeID()
	GetNamespaceIndex() uint16
	String() string
}

// NodeIDNumeric is a NodeID of numeric type.
type NodeIDNumeric struct {
	NamespaceIndex uint16
	ID             uint32
}

// NewNodeIDNumeric makes a NodeID of numeric type.
func NewNodeIDNumeric(ns uint16, id uint32) NodeIDNumeric {
	return NodeIDNumeric{ns, id}
}

func (n NodeIDNumeric) nodeID() {}

// GetNamespaceIndex returns the namespace index.
func (n NodeIDNumeric) GetNamespaceIndex() uint16 {
	return n.NamespaceIndex
}

// String returns a string representation, e.g. "i=85"
func (n NodeIDNumeric) String() string {
	if n.NamespaceIndex == 0 {
		return fmt.Sprintf("i=%d", n.ID)
	}
	return fmt.Sprintf("ns=%d;i=%d", n.NamespaceIndex, n.ID)
}

// MarshalText encodes the NodeID as text.
func (n NodeIDNumeric) MarshalText() ([]byte, error) {
	return []byte(n.String()), nil
}

// NodeIDString is a NodeID of string type.
type NodeIDString struct {
	NamespaceIndex uint16
	ID             string
}

// NewNodeIDString makes a NodeID of string type.
func NewNodeIDString(ns uint16, id string) NodeIDString {
	return NodeIDString{ns, id}
}

func (n NodeIDString) nodeID() {}

// GetNamespaceIndex returns the namespace index.
func (n NodeIDString) GetNamespaceIndex() uint16 {
	return n.NamespaceIndex
}

// String returns a string representation, e.g. "ns=2;s=Demo.Static.Scalar.Float"
func (n NodeIDString) String() string {
	if n.NamespaceIndex == 0 {
		return fmt.Sprintf("s=%s", n.ID)
	}
	return fmt.Sprintf("ns=%d;s=%s", n.NamespaceIndex, n.ID)
}

// MarshalText encodes the NodeID as text.
func (n NodeIDString) MarshalText() ([]byte, error) {
	return []byte(n.String()), nil
}

// ParseNodeID returns a NodeID from a string representation.
//   - ParseNodeID("i=85") // integer, assumes ns=0
//   - ParseNodeID("ns=1;s=temp.value") // string
//
// Returns nil if the string is not a valid NodeID.
func ParseNodeID(s string) NodeID {
	var ns uint64
	var err error
	if strings.HasPrefix(s, "ns=") {
		var pos = strings.Index(s, ";")
		if pos == -1 {
			return nil
		}
		ns, err = strconv.ParseUint(s[3:pos], 10, 16)
		if err != nil {
			return nil
		}
		s = s[pos+1:]
	}
	switch {
	case strings.HasPrefix(s, "i="):
		var id, err = strconv.ParseUint(s[2:], 10, 32)
		if err != nil {
			return nil
		}
		return NewNodeIDNumeric(uint16(ns), uint32(id))
	case strings.HasPrefix(s, "s="):
		if len(s) == 2 {
			return nil
		}
		return NewNodeIDString(uint16(ns), s[2:])
	}
	return nil
}

// IsNil returns true if the NodeID is nil or the null NodeID (ns=0;i=0).
func IsNil(n NodeID) bool {
	switch n2 := n.(type) {
	case nil:
		return true
	case NodeIDNumeric:
		return n2.NamespaceIndex == 0 && n2.ID == 0
	case NodeIDString:
		return n2.NamespaceIndex == 0 && len(n2.ID) == 0
	}
	return false
}

// WithNamespaceIndex returns a copy of the NodeID moved to the given namespace.
func WithNamespaceIndex(n NodeID, ns uint16) NodeID {
	switch n2 := n.(type) {
	case NodeIDNumeric:
		n2.NamespaceIndex = ns
		return n2
	case NodeIDString:
		n2.NamespaceIndex = ns
		return n2
	}
	return n
}
