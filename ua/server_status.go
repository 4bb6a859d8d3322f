// Copyright 2021 Converter Systems LLC. All rights reserved.

package ua

import "time"

// ServerState of the server.
type ServerState int32

// ServerState values.
const (
	ServerStateRunning  ServerState = 0
	ServerStateFailed   ServerState = 1
	ServerStateShutdown ServerState = 4
	ServerStateUnknown  ServerState = 7
)

// ServerStatusDataType is the value of the ServerStatus variable.
type ServerStatusDataType struct {
	StartTime   time.Time
	CurrentTime time.Time
	State       ServerState
}
