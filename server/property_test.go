package server

import (
	"context"
	"fmt"
	"testing"

	"github.com/awcullen/opcua-pubsub/ua"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestInstanceChildrenProperty checks that an instance gets exactly one child per mandatory declaration.
func TestInstanceChildrenProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("mandatory declarations are materialized", prop.ForAll(
		func(flags []bool) bool {
			srv, err := New("urn:test:property", WithLogger(quietLogger()))
			if err != nil {
				return false
			}
			defer srv.Close()
			nm := srv.NamespaceManager()
			templates := make([]VariableTemplate, len(flags))
			mandatory := 0
			for i, m := range flags {
				templates[i] = VariableTemplate{
					BrowseName:  ua.NewQualifiedName(1, fmt.Sprintf("V%d", i)),
					DataType:    ua.DataTypeIDInt32,
					AccessLevel: ua.AccessLevelsCurrentRead,
					Value:       int32(i),
					Mandatory:   m,
				}
				if m {
					mandatory++
				}
			}
			typeID, err := nm.AddObjectType(nil, ua.ObjectTypeIDBaseObjectType, ua.NewQualifiedName(1, "T"), templates...)
			if err != nil {
				return false
			}
			id, err := nm.AddInstance(context.Background(), ua.ObjectIDObjectsFolder, typeID, ua.NewQualifiedName(1, "i"), nil)
			if err != nil {
				return false
			}
			n, _ := nm.FindNode(id)
			children := nm.GetChildren(n, []ua.NodeID{ua.ReferenceTypeIDHasComponent})
			if len(children) != mandatory {
				return false
			}
			for i, m := range flags {
				_, ok := nm.FindNode(ua.NewNodeIDString(1, fmt.Sprintf("i/V%d", i)))
				if ok != m {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.Bool()),
	))

	properties.TestingRun(t)
}
