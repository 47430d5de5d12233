// Copyright (c) 2026 Qumran. All rights reserved.

// Package slug generates ASCII URL slugs from display names.
//
// # Usage
//
// Slugs are the public identifiers of authors, publishers, categories and
// locations (e.g. "jorge-luis-borges"). Each entity type keeps its slugs
// unique; [Unique] picks the numeric suffix when a name collides.
package slug

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// disallowed matches anything outside word characters, whitespace and hyphens.
	disallowed = regexp.MustCompile(`[^a-z0-9_\s-]+`)
	// whitespace matches runs of whitespace.
	whitespace = regexp.MustCompile(`\s+`)
	// multiHyphen collapses multiple consecutive hyphens into one.
	multiHyphen = regexp.MustCompile(`-{2,}`)
)

// From converts an arbitrary Unicode string into a URL-safe ASCII slug.
//
// # Transformation Pipeline
//
// 1. Normalizes to NFD and removes combining marks (é → e).
// 2. Lowercases and trims.
// 3. Strips characters outside word characters, whitespace and hyphens.
// 4. Collapses whitespace runs into single hyphens.
// 5. Collapses repeated hyphens and trims leading/trailing hyphens.
func From(s string) string {
	// 1. Normalize and remove accents
	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn))
	result, _, _ := transform.String(t, s)

	// 2. Lowercase and trim
	result = strings.TrimSpace(strings.ToLower(result))

	// 3. Drop punctuation and symbols
	result = disallowed.ReplaceAllString(result, "")

	// 4. Whitespace becomes a single hyphen
	result = whitespace.ReplaceAllString(result, "-")

	// 5. Clean up hyphenation
	result = multiHyphen.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")

	return result
}

// Unique returns base when it is not in taken, otherwise the first of
// base-1, base-2, … that is free.
func Unique(base string, taken []string) string {
	used := make(map[string]struct{}, len(taken))
	for _, s := range taken {
		used[s] = struct{}{}
	}

	if _, clash := used[base]; !clash {
		return base
	}

	for i := 1; ; i++ {
		candidate := base + "-" + strconv.Itoa(i)
		if _, clash := used[candidate]; !clash {
			return candidate
		}
	}
}

// isMn reports whether r is a Unicode non-spacing mark (e.g., accents).
func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}
