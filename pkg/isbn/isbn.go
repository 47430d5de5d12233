// Copyright (c) 2026 Qumran. All rights reserved.

// Package isbn normalizes and shape-checks ISBN strings.
package isbn

import (
	"regexp"
	"strings"
	"unicode"
)

// shape accepts ISBN-13 digits or ISBN-10 digits with an optional X check character.
var shape = regexp.MustCompile(`^(\d{13}|\d{9}[\dX])$`)

// Normalize strips hyphens and whitespace. It is idempotent.
func Normalize(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '-' || unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToUpper(r)
	}, s)
}

// Valid reports whether the normalized form of s has the length and
// character set of an ISBN-10 or ISBN-13. Check digits are not verified.
func Valid(s string) bool {
	return shape.MatchString(Normalize(s))
}
