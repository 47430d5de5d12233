// Copyright (c) 2026 Qumran. All rights reserved.

// Package slice has the generic transforms the standard [slices] package
// lacks.
package slice

// Map applies transform to every element. The result is never nil, so an
// empty input still encodes as [].
func Map[T, U any](input []T, transform func(T) U) []U {
	out := make([]U, 0, len(input))
	for _, item := range input {
		out = append(out, transform(item))
	}
	return out
}

// Filter keeps the elements accepted by keep, in order.
func Filter[T any](input []T, keep func(T) bool) []T {
	var out []T
	for _, item := range input {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}

// UniqueBy keeps the first element for each key.
func UniqueBy[T any, K comparable](input []T, keyOf func(T) K) []T {
	seen := make(map[K]struct{}, len(input))
	return Filter(input, func(item T) bool {
		key := keyOf(item)
		if _, dup := seen[key]; dup {
			return false
		}
		seen[key] = struct{}{}
		return true
	})
}
