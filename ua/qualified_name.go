// Copyright 2021 Converter Systems LLC. All rights reserved.

package ua

import (
	"fmt"
	"strconv"
	"strings"
)

// QualifiedName pairs a name and a namespace index.
type QualifiedName struct {
	NamespaceIndex uint16
	Name           string
}

// NewQualifiedName constructs a QualifiedName from a namespace index and a name.
func NewQualifiedName(ns uint16, text string) QualifiedName {
	return QualifiedName{ns, text}
}

// ParseQualifiedName returns a QualifiedName from a string, e.g. ParseQualifiedName("1:SensorName")
func ParseQualifiedName(s string) QualifiedName {
	pos := strings.Index(s, ":")
	if pos == -1 {
		return QualifiedName{0, s}
	}
	ns, err := strconv.ParseUint(s[:pos], 10, 16)
	if err != nil {
		return QualifiedName{0, s}
	}
	return QualifiedName{uint16(ns), s[pos+1:]}
}

// ParseBrowsePath splits a relative path into its elements, e.g. ParseBrowsePath("temp1/SensorName").
// Elements without a namespace prefix match by name in any namespace.
func ParseBrowsePath(s string) []QualifiedName {
	if len(s) == 0 {
		return []QualifiedName{}
	}
	toks := strings.Split(strings.Trim(s, "/"), "/")
	path := make([]QualifiedName, len(toks))
	for i, tok := range toks {
		path[i] = ParseQualifiedName(tok)
	}
	return path
}

// String returns a string representation, e.g. "1:SensorName"
func (a QualifiedName) String() string {
	return fmt.Sprintf("%d:%s", a.NamespaceIndex, a.Name)
}

func (a QualifiedName) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}
