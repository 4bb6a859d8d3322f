// Copyright 2021 Converter Systems LLC. All rights reserved.

package server

import (
	"context"
	"sync"

	"github.com/awcullen/opcua-pubsub/ua"
	"github.com/gammazero/deque"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var (
	// structural references form the tree of the address space. A node has exactly one inverse structural reference.
	structuralReferenceTypes = []ua.NodeID{ua.ReferenceTypeIDHasComponent, ua.ReferenceTypeIDHasProperty, ua.ReferenceTypeIDOrganizes, ua.ReferenceTypeIDHasSubtype}
	childReferenceTypes      = []ua.NodeID{ua.ReferenceTypeIDHasComponent, ua.ReferenceTypeIDHasProperty, ua.ReferenceTypeIDOrganizes}
)

// VariableTemplate declares a child variable of an ObjectType.
// Mandatory templates are materialized in every instance of the type.
type VariableTemplate struct {
	// NodeID of the declaration. If nil, the id is derived from the type and browse names.
	NodeID      ua.NodeID
	BrowseName  ua.QualifiedName
	DisplayName ua.LocalizedText
	Description ua.LocalizedText
	DataType    ua.NodeID
	AccessLevel byte
	Value       ua.Variant
	Mandatory   bool
}

// NamespaceManager manages the namespaces for a server.
type NamespaceManager struct {
	sync.RWMutex
	server     *Server
	namespaces []string
	nodes      map[ua.NodeID]Node
}

// NewNamespaceManager instantiates a new NamespaceManager.
func NewNamespaceManager(server *Server) *NamespaceManager {
	return &NamespaceManager{
		server:     server,
		namespaces: []string{"http://opcfoundation.org/UA/", server.applicationURI},
		nodes:      make(map[ua.NodeID]Node, 256),
	}
}

// Add adds a namespace to the end of the table and returns the index.
// If the namespace already exists then returns the index.
func (m *NamespaceManager) Add(nsu string) uint16 {
	m.Lock()
	defer m.Unlock()
	for i, ns := range m.namespaces {
		if ns == nsu {
			return uint16(i)
		}
	}
	m.namespaces = append(m.namespaces, nsu)
	return uint16(len(m.namespaces) - 1)
}

// Len returns the number of namespace.
func (m *NamespaceManager) Len() int {
	m.RLock()
	defer m.RUnlock()
	return len(m.namespaces)
}

// NamespaceUris returns the namespace table of the server.
func (m *NamespaceManager) NamespaceUris() []string {
	m.RLock()
	defer m.RUnlock()
	res := make([]string, len(m.namespaces))
	copy(res, m.namespaces)
	return res
}

// NodeCount returns the number of nodes in the address space.
func (m *NamespaceManager) NodeCount() int {
	m.RLock()
	defer m.RUnlock()
	return len(m.nodes)
}

// FindNode returns the node with the given NodeID from the namespace.
func (m *NamespaceManager) FindNode(id ua.NodeID) (node Node, ok bool) {
	m.RLock()
	defer m.RUnlock()
	node, ok = m.nodes[id]
	return
}

// FindObject returns the node with the given NodeID from the namespace.
func (m *NamespaceManager) FindObject(id ua.NodeID) (node *ObjectNode, ok bool) {
	m.RLock()
	defer m.RUnlock()
	if node1, ok1 := m.nodes[id]; ok1 {
		node, ok = node1.(*ObjectNode)
	}
	return
}

// FindVariable returns the node with the given NodeID from the namespace.
func (m *NamespaceManager) FindVariable(id ua.NodeID) (node *VariableNode, ok bool) {
	m.RLock()
	defer m.RUnlock()
	if node1, ok1 := m.nodes[id]; ok1 {
		node, ok = node1.(*VariableNode)
	}
	return
}

// FindObjectType returns the node with the given NodeID from the namespace.
func (m *NamespaceManager) FindObjectType(id ua.NodeID) (node *ObjectTypeNode, ok bool) {
	m.RLock()
	defer m.RUnlock()
	if node1, ok1 := m.nodes[id]; ok1 {
		node, ok = node1.(*ObjectTypeNode)
	}
	return
}

// FindComponent returns the child with the given browseName.
func (m *NamespaceManager) FindComponent(startNode Node, browseName ua.QualifiedName) (node Node, ok bool) {
	m.RLock()
	defer m.RUnlock()
	return m.findChild(startNode, browseName)
}

// findChild matches the name, and the namespace index unless it is zero.
func (m *NamespaceManager) findChild(startNode Node, browseName ua.QualifiedName) (Node, bool) {
	for _, r := range startNode.References() {
		if !r.IsInverse && Contains(childReferenceTypes, r.ReferenceTypeID) {
			if node1, ok1 := m.nodes[r.TargetID]; ok1 {
				bn := node1.BrowseName()
				if bn.Name == browseName.Name && (browseName.NamespaceIndex == 0 || bn.NamespaceIndex == browseName.NamespaceIndex) {
					return node1, true
				}
			}
		}
	}
	return nil, false
}

// TranslateBrowsePath follows the path of browse names from the start node, e.g. "temp1/SensorName".
func (m *NamespaceManager) TranslateBrowsePath(startID ua.NodeID, path string) (ua.NodeID, error) {
	m.RLock()
	defer m.RUnlock()
	node, ok := m.nodes[startID]
	if !ok {
		return nil, ua.BadNodeIDUnknown
	}
	for _, elem := range ua.ParseBrowsePath(path) {
		if node, ok = m.findChild(node, elem); !ok {
			return nil, errors.Wrapf(ua.BadNotFound, "browse path '%s' at '%s'", path, elem.Name)
		}
	}
	return node.NodeID(), nil
}

// IsSubtype returns whether the subtype is derived from the given supertype in the namespace.
func (m *NamespaceManager) IsSubtype(subtype, supertype ua.NodeID) bool {
	id := subtype
	for i := 0; i < 100; i++ {
		id = m.FindSuperType(id)
		if id == nil {
			return false
		}
		if id == supertype {
			return true
		}
	}
	m.server.logger.Warn("IsSubtype() exceeded limits.")
	return false
}

// FindSuperType returns the immediate supertype for the type.
func (m *NamespaceManager) FindSuperType(typeid ua.NodeID) ua.NodeID {
	if n, ok := m.FindNode(typeid); ok {
		return superTypeOf(n)
	}
	return nil
}

func superTypeOf(n Node) ua.NodeID {
	for _, r := range n.References() {
		if r.IsInverse && ua.ReferenceTypeIDHasSubtype == r.ReferenceTypeID {
			return r.TargetID
		}
	}
	return nil
}

// AddObjectType adds an ObjectType derived from the supertype, along with the declarations of its child variables.
// If typeID is nil, the NodeID is derived from the browse name.
func (m *NamespaceManager) AddObjectType(typeID, superTypeID ua.NodeID, browseName ua.QualifiedName, templates ...VariableTemplate) (ua.NodeID, error) {
	if ua.IsNil(typeID) {
		typeID = ua.NewNodeIDString(browseName.NamespaceIndex, browseName.Name)
	}
	m.Lock()
	defer m.Unlock()
	if _, ok := m.nodes[typeID]; ok {
		return nil, m.recordOperation("add_type", errors.Wrapf(ua.BadNodeIDExists, "type '%s'", typeID))
	}
	if super, ok := m.nodes[superTypeID]; !ok || super.NodeClass() != ua.NodeClassObjectType {
		return nil, m.recordOperation("add_type", errors.Wrapf(ua.BadTypeDefinitionInvalid, "supertype '%v'", superTypeID))
	}
	typeNode := NewObjectTypeNode(
		typeID,
		browseName,
		ua.NewLocalizedText(browseName.Name, ""),
		ua.NewLocalizedText("", ""),
		[]ua.Reference{ua.NewReference(ua.ReferenceTypeIDHasSubtype, true, superTypeID)},
		false,
	)
	nodes := []Node{typeNode}
	seen := map[ua.NodeID]struct{}{typeID: {}}
	for _, t := range templates {
		id := t.NodeID
		if ua.IsNil(id) {
			id = childNodeID(t.BrowseName.NamespaceIndex, browseName, t.BrowseName)
		}
		if _, ok := m.nodes[id]; ok {
			return nil, m.recordOperation("add_type", errors.Wrapf(ua.BadNodeIDExists, "declaration '%s'", id))
		}
		if _, ok := seen[id]; ok {
			return nil, m.recordOperation("add_type", errors.Wrapf(ua.BadNodeIDExists, "declaration '%s'", id))
		}
		seen[id] = struct{}{}
		if !ua.IsValueOfDataType(t.Value, t.DataType) {
			return nil, m.recordOperation("add_type", errors.Wrapf(ua.BadTypeMismatch, "declaration '%s'", id))
		}
		displayName := t.DisplayName
		if displayName.Text == "" {
			displayName = ua.NewLocalizedText(t.BrowseName.Name, "")
		}
		nodes = append(nodes, NewVariableNode(
			id,
			t.BrowseName,
			displayName,
			t.Description,
			[]ua.Reference{
				ua.NewReference(ua.ReferenceTypeIDHasComponent, true, typeID),
				ua.NewReference(ua.ReferenceTypeIDHasTypeDefinition, false, ua.VariableTypeIDBaseDataVariableType),
				ua.NewReference(ua.ReferenceTypeIDHasModellingRule, false, modellingRule(t.Mandatory)),
			},
			ua.NewDataValue(t.Value, ua.Good, m.server.now(), m.server.now()),
			t.DataType,
			t.AccessLevel,
		))
	}
	m.addNodes(nodes)
	return typeID, m.recordOperation("add_type", nil)
}

// AddVariable adds a VariableNode to the parent. If the parent is an ObjectType, the variable becomes
// a declaration that is materialized in instances of the type when mandatory is true.
// If nodeID is nil, the NodeID is derived from the parent and browse names.
func (m *NamespaceManager) AddVariable(parentID ua.NodeID, browseName ua.QualifiedName, dataType ua.NodeID, accessLevel byte, value ua.Variant, nodeID ua.NodeID, mandatory bool) (ua.NodeID, error) {
	m.Lock()
	defer m.Unlock()
	parent, ok := m.nodes[parentID]
	if !ok {
		return nil, m.recordOperation("add_variable", errors.Wrapf(ua.BadParentNodeIDInvalid, "parent '%v'", parentID))
	}
	if ua.IsNil(nodeID) {
		nodeID = childNodeID(browseName.NamespaceIndex, parent.BrowseName(), browseName)
	}
	if _, ok := m.nodes[nodeID]; ok {
		return nil, m.recordOperation("add_variable", errors.Wrapf(ua.BadNodeIDExists, "variable '%s'", nodeID))
	}
	if !ua.IsValueOfDataType(value, dataType) {
		return nil, m.recordOperation("add_variable", errors.Wrapf(ua.BadTypeMismatch, "variable '%s'", nodeID))
	}
	refs := []ua.Reference{
		ua.NewReference(m.parentReferenceType(parent), true, parentID),
		ua.NewReference(ua.ReferenceTypeIDHasTypeDefinition, false, ua.VariableTypeIDBaseDataVariableType),
	}
	if mandatory || parent.NodeClass() == ua.NodeClassObjectType {
		refs = append(refs, ua.NewReference(ua.ReferenceTypeIDHasModellingRule, false, modellingRule(mandatory)))
	}
	m.addNodes([]Node{NewVariableNode(
		nodeID,
		browseName,
		ua.NewLocalizedText(browseName.Name, ""),
		ua.NewLocalizedText("", ""),
		refs,
		ua.NewDataValue(value, ua.Good, m.server.now(), m.server.now()),
		dataType,
		accessLevel,
	)})
	return nodeID, m.recordOperation("add_variable", nil)
}

// AddObject adds a folder to the parent.
func (m *NamespaceManager) AddObject(parentID ua.NodeID, browseName ua.QualifiedName, nodeID ua.NodeID) (ua.NodeID, error) {
	if ua.IsNil(nodeID) {
		nodeID = ua.NewNodeIDString(browseName.NamespaceIndex, browseName.Name)
	}
	m.Lock()
	defer m.Unlock()
	parent, ok := m.nodes[parentID]
	if !ok {
		return nil, m.recordOperation("add_object", errors.Wrapf(ua.BadParentNodeIDInvalid, "parent '%v'", parentID))
	}
	if _, ok := m.nodes[nodeID]; ok {
		return nil, m.recordOperation("add_object", errors.Wrapf(ua.BadNodeIDExists, "object '%s'", nodeID))
	}
	m.addNodes([]Node{NewObjectNode(
		nodeID,
		browseName,
		ua.NewLocalizedText(browseName.Name, ""),
		ua.NewLocalizedText("", ""),
		[]ua.Reference{
			ua.NewReference(m.parentReferenceType(parent), true, parentID),
			ua.NewReference(ua.ReferenceTypeIDHasTypeDefinition, false, ua.ObjectTypeIDFolderType),
		},
	)})
	return nodeID, m.recordOperation("add_object", nil)
}

// AddInstance adds an ObjectNode of the given type to the parent, materializes the mandatory
// declarations of the type and its supertypes, then calls the constructors of the type hierarchy.
// Child NodeIDs are "<instance name>/<child name>" strings in the namespace of the instance.
// No node is added if any of the NodeIDs exists. If a constructor fails, the instance is removed again.
func (m *NamespaceManager) AddInstance(ctx context.Context, parentID, typeID ua.NodeID, browseName ua.QualifiedName, nodeID ua.NodeID) (ua.NodeID, error) {
	if ua.IsNil(nodeID) {
		nodeID = ua.NewNodeIDString(browseName.NamespaceIndex, browseName.Name)
	}
	m.Lock()
	parent, ok := m.nodes[parentID]
	if !ok {
		m.Unlock()
		return nil, m.recordOperation("add_instance", errors.Wrapf(ua.BadParentNodeIDInvalid, "parent '%v'", parentID))
	}
	typeNode, ok := m.nodes[typeID].(*ObjectTypeNode)
	if !ok || typeNode.IsAbstract() {
		m.Unlock()
		return nil, m.recordOperation("add_instance", errors.Wrapf(ua.BadTypeDefinitionInvalid, "type '%v'", typeID))
	}
	if _, ok := m.nodes[nodeID]; ok {
		m.Unlock()
		return nil, m.recordOperation("add_instance", errors.Wrapf(ua.BadNodeIDExists, "instance '%s'", nodeID))
	}
	instance := NewObjectNode(
		nodeID,
		browseName,
		ua.NewLocalizedText(browseName.Name, ""),
		ua.NewLocalizedText("", ""),
		[]ua.Reference{
			ua.NewReference(m.parentReferenceType(parent), true, parentID),
			ua.NewReference(ua.ReferenceTypeIDHasTypeDefinition, false, typeID),
		},
	)
	nodes := []Node{instance}
	for _, decl := range m.mandatoryDeclarations(typeNode) {
		childID := childNodeID(nodeID.GetNamespaceIndex(), browseName, decl.BrowseName())
		if _, ok := m.nodes[childID]; ok || childID == nodeID {
			m.Unlock()
			return nil, m.recordOperation("add_instance", errors.Wrapf(ua.BadNodeIDExists, "child '%s'", childID))
		}
		value := decl.Value()
		value.SourceTimestamp, value.ServerTimestamp = m.server.now(), m.server.now()
		nodes = append(nodes, NewVariableNode(
			childID,
			decl.BrowseName(),
			decl.DisplayName(),
			decl.Description(),
			[]ua.Reference{
				ua.NewReference(ua.ReferenceTypeIDHasComponent, true, nodeID),
				ua.NewReference(ua.ReferenceTypeIDHasTypeDefinition, false, ua.VariableTypeIDBaseDataVariableType),
			},
			value,
			decl.DataType(),
			decl.AccessLevel(),
		))
	}
	m.addNodes(nodes)
	m.Unlock()

	if err := m.construct(ctx, typeID, nodeID); err != nil {
		// remove the children the constructors added, too.
		m.Lock()
		m.deleteNodes(append([]Node{instance}, m.getChildren(instance, structuralReferenceTypes)...))
		m.Unlock()
		return nil, m.recordOperation("add_instance", err)
	}
	m.server.logger.WithFields(logrus.Fields{
		"node":     nodeID.String(),
		"type":     typeID.String(),
		"children": len(nodes) - 1,
	}).Debug("Added instance")
	return nodeID, m.recordOperation("add_instance", nil)
}

// mandatoryDeclarations returns the mandatory child variables of the type and its supertypes.
// A declaration of a derived type overrides a declaration with the same browse name of a supertype.
func (m *NamespaceManager) mandatoryDeclarations(typeNode *ObjectTypeNode) []*VariableNode {
	decls := []*VariableNode{}
	names := map[string]struct{}{}
	var t Node = typeNode
	for i := 0; i < 100 && t != nil; i++ {
		for _, r := range t.References() {
			if r.IsInverse || !Contains(childReferenceTypes, r.ReferenceTypeID) {
				continue
			}
			v, ok := m.nodes[r.TargetID].(*VariableNode)
			if !ok || !v.IsMandatory() {
				continue
			}
			if _, ok := names[v.BrowseName().Name]; ok {
				continue
			}
			names[v.BrowseName().Name] = struct{}{}
			decls = append(decls, v)
		}
		t = m.nodes[superTypeOf(t)]
	}
	return decls
}

// RemoveNode removes the node and its descendants from the namespace.
// Destructors of removed instances are called before the nodes are detached.
func (m *NamespaceManager) RemoveNode(ctx context.Context, id ua.NodeID) error {
	if ua.IsNil(id) || id.GetNamespaceIndex() == 0 {
		return m.recordOperation("remove_node", errors.Wrapf(ua.BadNodeIDInvalid, "node '%s' is part of namespace 0", id))
	}
	m.RLock()
	node, ok := m.nodes[id]
	if !ok {
		m.RUnlock()
		return m.recordOperation("remove_node", errors.Wrapf(ua.BadNodeIDUnknown, "node '%s'", id))
	}
	nodes := append([]Node{node}, m.getChildren(node, structuralReferenceTypes)...)
	m.RUnlock()

	for _, n := range nodes {
		if o, ok := n.(*ObjectNode); ok {
			m.destruct(ctx, o)
		}
	}

	m.Lock()
	m.deleteNodes(nodes)
	m.Unlock()
	return m.recordOperation("remove_node", nil)
}

func (m *NamespaceManager) addNodes(nodes []Node) {
	for _, node := range nodes {
		m.nodes[node.NodeID()] = node
	}
	// add inverse refs of added nodes
	for _, node := range nodes {
		id := node.NodeID()
		for _, r := range node.References() {
			if r.ReferenceTypeID == ua.ReferenceTypeIDHasTypeDefinition || r.ReferenceTypeID == ua.ReferenceTypeIDHasModellingRule {
				continue
			}
			t, ok := m.nodes[r.TargetID]
			if !ok {
				m.server.logger.Errorf("Error finding reference target: %s", r.TargetID)
				continue
			}
			flag := false
			for _, tr := range t.References() {
				if tr.ReferenceTypeID == r.ReferenceTypeID && tr.IsInverse != r.IsInverse && tr.TargetID == id {
					flag = true
					break
				}
			}
			if !flag {
				t.SetReferences(append(t.References(), ua.NewReference(r.ReferenceTypeID, !r.IsInverse, id)))
			}
		}
	}
	m.server.metrics.SetNodeCount(len(m.nodes))
}

func (m *NamespaceManager) deleteNodes(nodes []Node) {
	for _, node := range nodes {
		if _, ok := m.nodes[node.NodeID()]; ok {
			m.deleteNodeandInverseReferences(node)
		}
	}
	m.server.metrics.SetNodeCount(len(m.nodes))
}

func (m *NamespaceManager) deleteNodeandInverseReferences(node Node) {
	id := node.NodeID()
	// delete inverse references from target nodes.
	for _, r := range node.References() {
		if r.ReferenceTypeID == ua.ReferenceTypeIDHasTypeDefinition || r.ReferenceTypeID == ua.ReferenceTypeIDHasModellingRule {
			continue
		}
		t, ok := m.nodes[r.TargetID]
		if !ok {
			continue
		}
		refs := []ua.Reference{}
		for _, tr := range t.References() {
			if tr.ReferenceTypeID == r.ReferenceTypeID && tr.IsInverse != r.IsInverse && tr.TargetID == id {
				continue
			}
			refs = append(refs, tr)
		}
		t.SetReferences(refs)
	}
	// delete node from namespace.
	delete(m.nodes, id)
}

// GetChildren traverses the tree to get all target nodes with the given reference types.
func (m *NamespaceManager) GetChildren(node Node, withRefTypes []ua.NodeID) []Node {
	m.RLock()
	defer m.RUnlock()
	return m.getChildren(node, withRefTypes)
}

func (m *NamespaceManager) getChildren(node Node, withRefTypes []ua.NodeID) []Node {
	children := []Node{}
	visited := map[ua.NodeID]struct{}{node.NodeID(): {}}
	var queue deque.Deque[Node]
	queue.PushBack(node)
	for queue.Len() > 0 {
		item := queue.PopFront()
		for _, r := range item.References() {
			if !r.IsInverse && (withRefTypes == nil || Contains(withRefTypes, r.ReferenceTypeID)) {
				if _, ok := visited[r.TargetID]; ok {
					continue
				}
				if target, ok := m.nodes[r.TargetID]; ok {
					visited[r.TargetID] = struct{}{}
					queue.PushBack(target)
					children = append(children, target)
				}
			}
		}
	}
	return children
}

func (m *NamespaceManager) parentReferenceType(parent Node) ua.NodeID {
	if o, ok := parent.(*ObjectNode); ok && o.TypeDefinition() == ua.ObjectTypeIDFolderType {
		return ua.ReferenceTypeIDOrganizes
	}
	return ua.ReferenceTypeIDHasComponent
}

func (m *NamespaceManager) recordOperation(operation string, err error) error {
	m.server.metrics.RecordNodeOperation(operation, err)
	return err
}

func childNodeID(ns uint16, parentName, childName ua.QualifiedName) ua.NodeID {
	return ua.NewNodeIDString(ns, parentName.Name+"/"+childName.Name)
}

func modellingRule(mandatory bool) ua.NodeID {
	if mandatory {
		return ua.ObjectIDModellingRuleMandatory
	}
	return ua.ObjectIDModellingRuleOptional
}

// Contains returns true if the given node is found to equal any of the given nodes.
func Contains(nodes []ua.NodeID, node ua.NodeID) bool {
	for _, n := range nodes {
		if n == node {
			return true
		}
	}
	return false
}
