// Copyright (c) 2026 Minbar. All rights reserved.

/*
Package convert provides fault-tolerant conversions for query-string values.

Do not use it when malformed input must be distinguished from a zero value.
*/
package convert

import "strconv"

// ToIntD converts s to an int, returning def when s is empty or malformed.
func ToIntD(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

// ToBoolPtr parses "true"/"false"/"1"/"0" into a tri-state filter.
// Empty or malformed input yields nil, meaning "no filter".
func ToBoolPtr(s string) *bool {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return nil
	}
	return &v
}
