// Copyright 2021 Converter Systems LLC. All rights reserved.

package server

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/awcullen/opcua-pubsub/ua"
	pkgerrors "github.com/pkg/errors"
)

// TestRemoveNode_Instance tests removing an instance with its materialized children
func TestRemoveNode_Instance(t *testing.T) {
	srv, _ := createTestServer(t)
	nm := srv.NamespaceManager()
	typeID := addSensorType(t, nm, 1)
	count := nm.NodeCount()

	id, err := nm.AddInstance(context.Background(), ua.ObjectIDObjectsFolder, typeID, ua.NewQualifiedName(1, "temp1"), ua.NewNodeIDNumeric(1, 2000))
	if err != nil {
		t.Fatalf("Error adding instance: %v", err)
	}
	if err := nm.RemoveNode(context.Background(), id); err != nil {
		t.Fatalf("Error removing instance: %v", err)
	}
	if nm.NodeCount() != count {
		t.Errorf("Expected %d nodes after removal, got %d", count, nm.NodeCount())
	}
	for _, child := range []string{"temp1/SensorName", "temp1/Location", "temp1/temp.value"} {
		if _, ok := nm.FindNode(ua.NewNodeIDString(1, child)); ok {
			t.Errorf("Child %s should have been removed", child)
		}
	}
	objects, _ := nm.FindNode(ua.ObjectIDObjectsFolder)
	if hasReference(objects, ua.ReferenceTypeIDOrganizes, false, id) {
		t.Error("Inverse reference from Objects folder should have been removed")
	}
	// the literal id can be reused after removal.
	if _, err := nm.AddInstance(context.Background(), ua.ObjectIDObjectsFolder, typeID, ua.NewQualifiedName(1, "temp1"), id); err != nil {
		t.Fatalf("Error adding instance again: %v", err)
	}
}

// TestRemoveNode_Errors tests the protected and unknown cases
func TestRemoveNode_Errors(t *testing.T) {
	srv, _ := createTestServer(t)
	nm := srv.NamespaceManager()

	if err := nm.RemoveNode(context.Background(), ua.ObjectIDObjectsFolder); pkgerrors.Cause(err) != ua.BadNodeIDInvalid {
		t.Errorf("Expected BadNodeIDInvalid for namespace 0, got %v", err)
	}
	if _, ok := nm.FindNode(ua.ObjectIDObjectsFolder); !ok {
		t.Error("Objects folder should still exist")
	}
	if err := nm.RemoveNode(context.Background(), ua.NewNodeIDString(1, "nothing")); pkgerrors.Cause(err) != ua.BadNodeIDUnknown {
		t.Errorf("Expected BadNodeIDUnknown, got %v", err)
	}
}

// TestRemoveNode_Folder tests that removing a folder removes the organized instances
func TestRemoveNode_Folder(t *testing.T) {
	srv, _ := createTestServer(t)
	nm := srv.NamespaceManager()
	typeID := addSensorType(t, nm, 1)
	ctx := context.Background()

	var destructed []ua.NodeID
	nm.SetLifecycle(typeID, nil, DestructorFunc(func(ctx context.Context, typeID, nodeID ua.NodeID) error {
		destructed = append(destructed, nodeID)
		return nil
	}))
	folderID, _ := nm.AddObject(ua.ObjectIDObjectsFolder, ua.NewQualifiedName(1, "Boiler"), nil)
	nm.AddInstance(ctx, folderID, typeID, ua.NewQualifiedName(1, "temp1"), ua.NewNodeIDNumeric(1, 2000))
	nm.AddInstance(ctx, folderID, typeID, ua.NewQualifiedName(1, "temp2"), ua.NewNodeIDNumeric(1, 2001))

	if err := nm.RemoveNode(ctx, folderID); err != nil {
		t.Fatalf("Error removing folder: %v", err)
	}
	if len(destructed) != 2 {
		t.Fatalf("Expected 2 destructor calls, got %d", len(destructed))
	}
	for _, id := range []ua.NodeID{folderID, ua.NewNodeIDNumeric(1, 2000), ua.NewNodeIDNumeric(1, 2001), ua.NewNodeIDString(1, "temp2/Location")} {
		if _, ok := nm.FindNode(id); ok {
			t.Errorf("Node %s should have been removed", id)
		}
	}
	// the type and its declarations are untouched.
	if _, ok := nm.FindNode(ua.NewNodeIDString(1, "temp.value")); !ok {
		t.Error("Declaration temp.value should still exist")
	}
}

// TestRemoveNode_DestructorFailure tests that a failing destructor does not block removal
func TestRemoveNode_DestructorFailure(t *testing.T) {
	var mu sync.Mutex
	var reported []error
	srv, hook := createTestServer(t, WithHookErrorHandler(func(err error) {
		mu.Lock()
		reported = append(reported, err)
		mu.Unlock()
	}))
	nm := srv.NamespaceManager()
	typeID := addSensorType(t, nm, 1)
	ctx := context.Background()
	errBusy := errors.New("sensor busy")
	nm.SetLifecycle(typeID, nil, DestructorFunc(func(ctx context.Context, typeID, nodeID ua.NodeID) error {
		return errBusy
	}))
	id, _ := nm.AddInstance(ctx, ua.ObjectIDObjectsFolder, typeID, ua.NewQualifiedName(1, "temp1"), nil)

	if err := nm.RemoveNode(ctx, id); err != nil {
		t.Fatalf("Removal must succeed, got %v", err)
	}
	if _, ok := nm.FindNode(id); ok {
		t.Error("Instance should have been removed")
	}
	if len(reported) != 1 || pkgerrors.Cause(reported[0]) != errBusy {
		t.Errorf("Expected destructor error to be reported once, got %v", reported)
	}
	if hook.LastEntry() == nil || hook.LastEntry().Message != "Hook failed" {
		t.Errorf("Expected a warning to be logged, got %v", hook.LastEntry())
	}
}
