// Copyright (c) 2026 Qumran. All rights reserved.

// Package ctxkey holds the request context keys. Values are only read and
// written through ctxutil and middleware.
package ctxkey

type key uint8

const (
	KeyRequestID key = iota + 1
	KeyLogger
	// KeyUser holds the verified *sec.AuthClaims.
	KeyUser
	// KeyActor holds the slot StructuredLogger reads the acting editor from.
	KeyActor
	KeyDiagnostics
)
