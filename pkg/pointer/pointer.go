// Copyright (c) 2026 Minbar. All rights reserved.

// Package pointer provides generic helpers for optional (PATCH-style) fields.
package pointer

// To returns a pointer to the provided value.
func To[T any](v T) *T {
	return &v
}

// Val dereferences p, returning the zero value if p is nil.
func Val[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}
