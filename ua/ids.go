// Copyright 2021 Converter Systems LLC. All rights reserved.

package ua

// Well-known nodes of namespace 0.
var (
	// DataTypeIDs
	DataTypeIDBoolean      = NewNodeIDNumeric(0, 1)
	DataTypeIDSByte        = NewNodeIDNumeric(0, 2)
	DataTypeIDByte         = NewNodeIDNumeric(0, 3)
	DataTypeIDInt16        = NewNodeIDNumeric(0, 4)
	DataTypeIDUInt16       = NewNodeIDNumeric(0, 5)
	DataTypeIDInt32        = NewNodeIDNumeric(0, 6)
	DataTypeIDUInt32       = NewNodeIDNumeric(0, 7)
	DataTypeIDInt64        = NewNodeIDNumeric(0, 8)
	DataTypeIDUInt64       = NewNodeIDNumeric(0, 9)
	DataTypeIDFloat        = NewNodeIDNumeric(0, 10)
	DataTypeIDDouble       = NewNodeIDNumeric(0, 11)
	DataTypeIDString       = NewNodeIDNumeric(0, 12)
	DataTypeIDDateTime     = NewNodeIDNumeric(0, 13)
	DataTypeIDBaseDataType = NewNodeIDNumeric(0, 24)

	// ReferenceTypeIDs
	ReferenceTypeIDOrganizes         = NewNodeIDNumeric(0, 35)
	ReferenceTypeIDHasModellingRule  = NewNodeIDNumeric(0, 37)
	ReferenceTypeIDHasTypeDefinition = NewNodeIDNumeric(0, 40)
	ReferenceTypeIDHasSubtype        = NewNodeIDNumeric(0, 45)
	ReferenceTypeIDHasProperty       = NewNodeIDNumeric(0, 46)
	ReferenceTypeIDHasComponent      = NewNodeIDNumeric(0, 47)

	// ObjectTypeIDs
	ObjectTypeIDBaseObjectType = NewNodeIDNumeric(0, 58)
	ObjectTypeIDFolderType     = NewNodeIDNumeric(0, 61)

	// VariableTypeIDs
	VariableTypeIDBaseVariableType     = NewNodeIDNumeric(0, 62)
	VariableTypeIDBaseDataVariableType = NewNodeIDNumeric(0, 63)
	VariableTypeIDPropertyType         = NewNodeIDNumeric(0, 68)

	// ObjectIDs
	ObjectIDModellingRuleMandatory = NewNodeIDNumeric(0, 78)
	ObjectIDModellingRuleOptional  = NewNodeIDNumeric(0, 80)
	ObjectIDRootFolder             = NewNodeIDNumeric(0, 84)
	ObjectIDObjectsFolder          = NewNodeIDNumeric(0, 85)
	ObjectIDTypesFolder            = NewNodeIDNumeric(0, 86)
	ObjectIDObjectTypesFolder      = NewNodeIDNumeric(0, 88)
	ObjectIDVariableTypesFolder    = NewNodeIDNumeric(0, 89)
	ObjectIDServer                 = NewNodeIDNumeric(0, 2253)

	// VariableIDs
	VariableIDServerServerStatus            = NewNodeIDNumeric(0, 2256)
	VariableIDServerServerStatusCurrentTime = NewNodeIDNumeric(0, 2258)
)
