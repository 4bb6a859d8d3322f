// Copyright 2021 Converter Systems LLC. All rights reserved.

package ua

// AccessLevels set for the AccessLevel attribute.
const (
	AccessLevelsNone         byte = 0x0
	AccessLevelsCurrentRead  byte = 0x1
	AccessLevelsCurrentWrite byte = 0x2
)
