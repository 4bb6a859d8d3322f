// Copyright 2021 Converter Systems LLC. All rights reserved.

package server

import (
	"context"

	"github.com/awcullen/opcua-pubsub/ua"
)

func folder(id ua.NodeID, name string, refs ...ua.Reference) *ObjectNode {
	refs = append(refs, ua.NewReference(ua.ReferenceTypeIDHasTypeDefinition, false, ua.ObjectTypeIDFolderType))
	return NewObjectNode(id, ua.NewQualifiedName(0, name), ua.NewLocalizedText(name, ""), ua.NewLocalizedText("", ""), refs)
}

func organizedBy(parent ua.NodeID) ua.Reference {
	return ua.NewReference(ua.ReferenceTypeIDOrganizes, true, parent)
}

// initializeNamespace adds the nodes of namespace 0 that the information model builds on.
func (srv *Server) initializeNamespace() error {
	nm := srv.namespaceManager
	now := srv.now()
	nodes := []Node{
		folder(ua.ObjectIDRootFolder, "Root"),
		folder(ua.ObjectIDObjectsFolder, "Objects", organizedBy(ua.ObjectIDRootFolder)),
		folder(ua.ObjectIDTypesFolder, "Types", organizedBy(ua.ObjectIDRootFolder)),
		folder(ua.ObjectIDObjectTypesFolder, "ObjectTypes", organizedBy(ua.ObjectIDTypesFolder)),
		folder(ua.ObjectIDVariableTypesFolder, "VariableTypes", organizedBy(ua.ObjectIDTypesFolder)),
		NewObjectTypeNode(
			ua.ObjectTypeIDBaseObjectType,
			ua.NewQualifiedName(0, "BaseObjectType"),
			ua.NewLocalizedText("BaseObjectType", ""),
			ua.NewLocalizedText("The base type for all object nodes.", ""),
			[]ua.Reference{organizedBy(ua.ObjectIDObjectTypesFolder)},
			false,
		),
		NewObjectTypeNode(
			ua.ObjectTypeIDFolderType,
			ua.NewQualifiedName(0, "FolderType"),
			ua.NewLocalizedText("FolderType", ""),
			ua.NewLocalizedText("The type for objects that organize other nodes.", ""),
			[]ua.Reference{ua.NewReference(ua.ReferenceTypeIDHasSubtype, true, ua.ObjectTypeIDBaseObjectType)},
			false,
		),
		NewVariableTypeNode(
			ua.VariableTypeIDBaseVariableType,
			ua.NewQualifiedName(0, "BaseVariableType"),
			ua.NewLocalizedText("BaseVariableType", ""),
			ua.NewLocalizedText("The abstract base type for all variable nodes.", ""),
			[]ua.Reference{organizedBy(ua.ObjectIDVariableTypesFolder)},
			ua.DataTypeIDBaseDataType,
			true,
		),
		NewVariableTypeNode(
			ua.VariableTypeIDBaseDataVariableType,
			ua.NewQualifiedName(0, "BaseDataVariableType"),
			ua.NewLocalizedText("BaseDataVariableType", ""),
			ua.NewLocalizedText("The type for variable that represents a process value.", ""),
			[]ua.Reference{ua.NewReference(ua.ReferenceTypeIDHasSubtype, true, ua.VariableTypeIDBaseVariableType)},
			ua.DataTypeIDBaseDataType,
			false,
		),
		NewVariableTypeNode(
			ua.VariableTypeIDPropertyType,
			ua.NewQualifiedName(0, "PropertyType"),
			ua.NewLocalizedText("PropertyType", ""),
			ua.NewLocalizedText("The type for variable that represents a property of another node.", ""),
			[]ua.Reference{ua.NewReference(ua.ReferenceTypeIDHasSubtype, true, ua.VariableTypeIDBaseVariableType)},
			ua.DataTypeIDBaseDataType,
			false,
		),
		NewObjectNode(
			ua.ObjectIDModellingRuleMandatory,
			ua.NewQualifiedName(0, "Mandatory"),
			ua.NewLocalizedText("Mandatory", ""),
			ua.NewLocalizedText("Specifies that an instance with the attributes and references of the instance declaration must appear when a type is instantiated.", ""),
			[]ua.Reference{ua.NewReference(ua.ReferenceTypeIDHasTypeDefinition, false, ua.ObjectTypeIDBaseObjectType)},
		),
		NewObjectNode(
			ua.ObjectIDModellingRuleOptional,
			ua.NewQualifiedName(0, "Optional"),
			ua.NewLocalizedText("Optional", ""),
			ua.NewLocalizedText("Specifies that an instance with the attributes and references of the instance declaration may appear when a type is instantiated.", ""),
			[]ua.Reference{ua.NewReference(ua.ReferenceTypeIDHasTypeDefinition, false, ua.ObjectTypeIDBaseObjectType)},
		),
		NewObjectNode(
			ua.ObjectIDServer,
			ua.NewQualifiedName(0, "Server"),
			ua.NewLocalizedText("Server", ""),
			ua.NewLocalizedText("", ""),
			[]ua.Reference{
				organizedBy(ua.ObjectIDObjectsFolder),
				ua.NewReference(ua.ReferenceTypeIDHasTypeDefinition, false, ua.ObjectTypeIDBaseObjectType),
			},
		),
		NewVariableNode(
			ua.VariableIDServerServerStatus,
			ua.NewQualifiedName(0, "ServerStatus"),
			ua.NewLocalizedText("ServerStatus", ""),
			ua.NewLocalizedText("", ""),
			[]ua.Reference{
				ua.NewReference(ua.ReferenceTypeIDHasComponent, true, ua.ObjectIDServer),
				ua.NewReference(ua.ReferenceTypeIDHasTypeDefinition, false, ua.VariableTypeIDBaseDataVariableType),
			},
			ua.NewDataValue(nil, ua.Good, now, now),
			ua.DataTypeIDBaseDataType,
			ua.AccessLevelsCurrentRead,
		),
		NewVariableNode(
			ua.VariableIDServerServerStatusCurrentTime,
			ua.NewQualifiedName(0, "CurrentTime"),
			ua.NewLocalizedText("CurrentTime", ""),
			ua.NewLocalizedText("", ""),
			[]ua.Reference{
				ua.NewReference(ua.ReferenceTypeIDHasComponent, true, ua.VariableIDServerServerStatus),
				ua.NewReference(ua.ReferenceTypeIDHasTypeDefinition, false, ua.VariableTypeIDBaseDataVariableType),
			},
			ua.NewDataValue(now, ua.Good, now, now),
			ua.DataTypeIDDateTime,
			ua.AccessLevelsCurrentRead,
		),
	}
	nm.Lock()
	nm.addNodes(nodes)
	nm.Unlock()

	if n, ok := nm.FindVariable(ua.VariableIDServerServerStatus); ok {
		n.SetReadValueHandler(func(ctx context.Context, n *VariableNode) error {
			now := srv.now()
			n.SetValue(ua.NewDataValue(ua.ServerStatusDataType{
				StartTime:   srv.startTime,
				CurrentTime: now,
				State:       srv.State(),
			}, ua.Good, now, now))
			return nil
		})
	}
	if n, ok := nm.FindVariable(ua.VariableIDServerServerStatusCurrentTime); ok {
		n.SetReadValueHandler(func(ctx context.Context, n *VariableNode) error {
			now := srv.now()
			n.SetValue(ua.NewDataValue(now, ua.Good, now, now))
			return nil
		})
	}
	return nil
}
