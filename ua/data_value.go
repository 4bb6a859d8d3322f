// Copyright 2021 Converter Systems LLC. All rights reserved.

package ua

import (
	"time"
)

// DataValue holds the value, quality and timestamp
type DataValue struct {
	Value           Variant
	StatusCode      StatusCode
	SourceTimestamp time.Time
	ServerTimestamp time.Time
}

// NewDataValue returns a new DataValue.
func NewDataValue(value Variant, status StatusCode, sourceTimestamp time.Time, serverTimestamp time.Time) DataValue {
	return DataValue{value, status, sourceTimestamp, serverTimestamp}
}

// NilDataValue is the nil value.
var NilDataValue = DataValue{}
