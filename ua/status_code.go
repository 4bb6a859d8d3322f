// Copyright 2021 Converter Systems LLC. All rights reserved.

package ua

// StatusCode is the result of an operation. Bad status codes are returned as errors.
type StatusCode uint32

// IsGood returns true if the StatusCode is good.
func (c StatusCode) IsGood() bool {
	return (uint32(c) & SeverityMask) == SeverityGood
}

// IsBad returns true if the StatusCode is bad.
func (c StatusCode) IsBad() bool {
	return (uint32(c) & SeverityMask) == SeverityBad
}

// IsUncertain returns true if the StatusCode is uncertain.
func (c StatusCode) IsUncertain() bool {
	return (uint32(c) & SeverityMask) == SeverityUncertain
}

const (
	// SeverityMask - .
	SeverityMask uint32 = 0xC0000000
	// SeverityGood - .
	SeverityGood uint32 = 0x00000000
	// SeverityUncertain - .
	SeverityUncertain uint32 = 0x40000000
	// SeverityBad - .
	SeverityBad uint32 = 0x80000000
)

const (
	// Good - The operation completed successfully.
	Good StatusCode = 0x00000000
	// BadUnexpectedError - An unexpected error occurred.
	BadUnexpectedError StatusCode = 0x80010000
	// BadInternalError - An internal error occurred as a result of a programming or configuration error.
	BadInternalError StatusCode = 0x80020000
	// BadCommunicationError - A low level communication error occurred.
	BadCommunicationError StatusCode = 0x80050000
	// BadEncodingError - Encoding halted because of invalid data in the objects being serialized.
	BadEncodingError StatusCode = 0x80060000
	// BadEncodingLimitsExceeded - The message encoding/decoding limits imposed by the stack have been exceeded.
	BadEncodingLimitsExceeded StatusCode = 0x80080000
	// BadServerHalted - The server has stopped and cannot process any requests.
	BadServerHalted StatusCode = 0x800E0000
	// BadNodeIDInvalid - The syntax of the node id is not valid.
	BadNodeIDInvalid StatusCode = 0x80330000
	// BadNodeIDUnknown - The node id refers to a node that does not exist in the server address space.
	BadNodeIDUnknown StatusCode = 0x80340000
	// BadAttributeIDInvalid - The attribute is not supported for the specified Node.
	BadAttributeIDInvalid StatusCode = 0x80350000
	// BadNotReadable - The access level does not allow reading or subscribing to the Node.
	BadNotReadable StatusCode = 0x803A0000
	// BadNotWritable - The access level does not allow writing to the Node.
	BadNotWritable StatusCode = 0x803B0000
	// BadNotFound - A requested item was not found or a search operation ended without success.
	BadNotFound StatusCode = 0x803E0000
	// BadTypeDefinitionInvalid - The type definition node id does not reference an appropriate type node.
	BadTypeDefinitionInvalid StatusCode = 0x804C0000
	// BadParentNodeIDInvalid - The parent node id does not to refer to a valid node.
	BadParentNodeIDInvalid StatusCode = 0x805B0000
	// BadNodeIDExists - The requested node id is already used by another node.
	BadNodeIDExists StatusCode = 0x805E0000
	// BadNodeClassInvalid - The node class is not valid.
	BadNodeClassInvalid StatusCode = 0x805F0000
	// BadBrowseNameInvalid - The browse name is invalid.
	BadBrowseNameInvalid StatusCode = 0x80600000
	// BadTypeMismatch - The value supplied for the attribute is not of the same type as the attribute's value.
	BadTypeMismatch StatusCode = 0x80740000
	// BadConfigurationError - There is a problem with the configuration that affects the usefulness of the value.
	BadConfigurationError StatusCode = 0x80890000
	// BadInvalidArgument - One or more arguments are invalid.
	BadInvalidArgument StatusCode = 0x80AB0000
	// BadInvalidState - The operation cannot be completed because the object is closed, uninitialized or in some other invalid state.
	BadInvalidState StatusCode = 0x80AF0000
)

// Error returns the StatusCode message.
func (c StatusCode) Error() string {
	switch c {
	case Good:
		return "The operation completed successfully."
	case BadUnexpectedError:
		return "An unexpected error occurred."
	case BadInternalError:
		return "An internal error occurred as a result of a programming or configuration error."
	case BadCommunicationError:
		return "A low level communication error occurred."
	case BadEncodingError:
		return "Encoding halted because of invalid data in the objects being serialized."
	case BadEncodingLimitsExceeded:
		return "The message encoding/decoding limits imposed by the stack have been exceeded."
	case BadServerHalted:
		return "The server has stopped and cannot process any requests."
	case BadNodeIDInvalid:
		return "The syntax of the node id is not valid."
	case BadNodeIDUnknown:
		return "The node id refers to a node that does not exist in the server address space."
	case BadAttributeIDInvalid:
		return "The attribute is not supported for the specified Node."
	case BadNotReadable:
		return "The access level does not allow reading or subscribing to the Node."
	case BadNotWritable:
		return "The access level does not allow writing to the Node."
	case BadNotFound:
		return "A requested item was not found or a search operation ended without success."
	case BadTypeDefinitionInvalid:
		return "The type definition node id does not reference an appropriate type node."
	case BadParentNodeIDInvalid:
		return "The parent node id does not to refer to a valid node."
	case BadNodeIDExists:
		return "The requested node id is already used by another node."
	case BadNodeClassInvalid:
		return "The node class is not valid."
	case BadBrowseNameInvalid:
		return "The browse name is invalid."
	case BadTypeMismatch:
		return "The value supplied for the attribute is not of the same type as the attribute's value."
	case BadConfigurationError:
		return "There is a problem with the configuration that affects the usefulness of the value."
	case BadInvalidArgument:
		return "One or more arguments are invalid."
	case BadInvalidState:
		return "The operation cannot be completed because the object is closed, uninitialized or in some other invalid state."
	default:
		return "An unknown error occurred."
	}
}
