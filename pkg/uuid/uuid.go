// Copyright (c) 2026 Qumran. All rights reserved.

// Package uuid issues the time-ordered ids used for accounts and request ids.
package uuid

import "github.com/google/uuid"

// New returns a UUIDv7, so account ids sort by creation time. If the clock
// sequence cannot be read it falls back to a random v4.
func New() string {
	if id, err := uuid.NewV7(); err == nil {
		return id.String()
	}
	return uuid.NewString()
}

// Valid reports whether s parses as a UUID of any version.
func Valid(s string) bool {
	return uuid.Validate(s) == nil
}
