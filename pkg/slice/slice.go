// Copyright (c) 2026 Minbar. All rights reserved.

// Package slice complements the standard [slices] package with a generic Map.
package slice

// Map transforms every element of input. A nil input yields nil.
func Map[T any, U any](input []T, transform func(T) U) []U {
	if input == nil {
		return nil
	}

	result := make([]U, len(input))
	for i, v := range input {
		result[i] = transform(v)
	}
	return result
}
