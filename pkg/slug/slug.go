// Copyright (c) 2026 Minbar. All rights reserved.

// Package slug generates ASCII URL slugs from arbitrary Unicode strings.
//
// Slugs are the human-readable identifiers of articles (e.g. "the-virtues-of-ramadan").
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxLength bounds generated slugs so a suffix can still be appended within the column size.
const MaxLength = 80

var (
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)
)

// From converts an arbitrary Unicode string into a URL-safe ASCII slug.
//
// # Transformation Pipeline
//
//  1. NFD-normalize and drop combining marks (á → a, ṣ → s).
//  2. Lowercase.
//  3. Replace every run of non [a-z0-9] characters with a single hyphen.
//  4. Trim hyphens and cut to [MaxLength] on a word boundary when possible.
func From(s string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn), norm.NFC)
	result, _, _ := transform.String(t, s)

	result = strings.ToLower(result)
	result = nonAlphanumeric.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")

	if len(result) > MaxLength {
		result = result[:MaxLength]
		if cut := strings.LastIndexByte(result, '-'); cut > MaxLength/2 {
			result = result[:cut]
		}
		result = strings.Trim(result, "-")
	}

	return result
}

// WithSuffix appends a short disambiguator, e.g. for a slug that already exists.
func WithSuffix(base, suffix string) string {
	if base == "" {
		return suffix
	}
	return base + "-" + suffix
}

func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}
