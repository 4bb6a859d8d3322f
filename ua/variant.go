// Copyright 2021 Converter Systems LLC. All rights reserved.

package ua

import (
	"time"
)

// Variant stores a value of one of the built-in types.
type Variant interface{}

// IsValueOfDataType returns true if the value can be stored in a variable of the given DataType.
// A nil value is accepted for every DataType. BaseDataType accepts any value.
func IsValueOfDataType(value Variant, dataType NodeID) bool {
	if value == nil || IsNil(dataType) || dataType == DataTypeIDBaseDataType {
		return true
	}
	switch value.(type) {
	case bool:
		return dataType == DataTypeIDBoolean
	case int8:
		return dataType == DataTypeIDSByte
	case uint8:
		return dataType == DataTypeIDByte
	case int16:
		return dataType == DataTypeIDInt16
	case uint16:
		return dataType == DataTypeIDUInt16
	case int32:
		return dataType == DataTypeIDInt32
	case uint32:
		return dataType == DataTypeIDUInt32
	case int64:
		return dataType == DataTypeIDInt64
	case uint64:
		return dataType == DataTypeIDUInt64
	case float32:
		return dataType == DataTypeIDFloat
	case float64:
		return dataType == DataTypeIDDouble
	case string:
		return dataType == DataTypeIDString
	case time.Time:
		return dataType == DataTypeIDDateTime
	}
	return false
}
