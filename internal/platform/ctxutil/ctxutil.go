// Copyright (c) 2026 Qumran. All rights reserved.

// Package ctxutil reads and writes the per-request values that the middleware
// chain stores in a [context.Context]: request id, logger, dashboard claims and
// the diagnostics flag.
package ctxutil

import (
	"context"
	"log/slog"

	"github.com/qumran/qumran/internal/platform/ctxkey"
	"github.com/qumran/qumran/internal/platform/sec"
)

// # Request Tracing

// WithRequestID returns a new context with the provided request ID attached.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxkey.KeyRequestID, id)
}

// GetRequestID retrieves the request ID from the context.
// Returns an empty string if not found.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxkey.KeyRequestID).(string)
	return id
}

// # Structured Logging

// WithLogger returns a new context with the provided logger attached.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxkey.KeyLogger, logger)
}

// GetLogger retrieves the logger from the context.
// If no logger is found, it returns the global default logger.
func GetLogger(ctx context.Context) *slog.Logger {
	logger, ok := ctx.Value(ctxkey.KeyLogger).(*slog.Logger)
	if !ok {
		return slog.Default()
	}
	return logger
}

// # Identity & Access

// WithAuthUser returns a new context with the provided auth claims attached.
func WithAuthUser(ctx context.Context, user *sec.AuthClaims) context.Context {
	return context.WithValue(ctx, ctxkey.KeyUser, user)
}

// GetAuthUser returns the dashboard claims, or nil for anonymous requests.
func GetAuthUser(ctx context.Context) *sec.AuthClaims {
	claims, ok := ctx.Value(ctxkey.KeyUser).(*sec.AuthClaims)
	if !ok {
		return nil
	}
	return claims
}

// SystemActor names writes that do not come from a dashboard session.
const SystemActor = "system"

// Actor returns the "actor" log attribute for catalog writes: the username of
// the signed-in editor, or [SystemActor].
func Actor(ctx context.Context) slog.Attr {
	if claims := GetAuthUser(ctx); claims != nil && claims.Username != "" {
		return slog.String("actor", claims.Username)
	}
	return slog.String("actor", SystemActor)
}

// # Diagnostics

// WithDiagnostics marks the context as allowed to expose raw error causes.
func WithDiagnostics(ctx context.Context, enabled bool) context.Context {
	return context.WithValue(ctx, ctxkey.KeyDiagnostics, enabled)
}

// Diagnostics reports whether raw error causes may be returned to the client.
func Diagnostics(ctx context.Context) bool {
	enabled, _ := ctx.Value(ctxkey.KeyDiagnostics).(bool)
	return enabled
}
