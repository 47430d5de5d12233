// Copyright (c) 2026 Qumran. All rights reserved.

// Package pointer helps with optional values, which the catalog models as
// pointers (ISBN, year, secondary author).
package pointer

import "strings"

func To[T any](v T) *T {
	return &v
}

// Val dereferences p, or returns the zero value for nil.
func Val[T any](p *T) T {
	var zero T
	return Fallback(p, zero)
}

// Fallback dereferences p, or returns fallback for nil.
func Fallback[T any](p *T, fallback T) T {
	if p == nil {
		return fallback
	}
	return *p
}

// NilIfBlank returns nil for a nil or whitespace-only string, otherwise a
// pointer to the trimmed value.
func NilIfBlank(p *string) *string {
	if p == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*p)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
