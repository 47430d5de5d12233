// Copyright (c) 2026 Qumran. All rights reserved.

/*
Package sortkey builds the accent- and case-insensitive keys used to order
books and authors alphabetically.

Keys are computed when a name or title is written and stored next to it, so
"Álvarez", "alvarez" and "ALVAREZ" compare equal in plain byte order and sort
adjacently regardless of the database collation.
*/
package sortkey

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// placeholders are folded last names of stand-in authors that sort after
// every real author.
var placeholders = []string{
	"anonimo",
	"anonymous",
	"anon",
	"desconocido",
	"unknown",
	"varios",
	"various",
	"varios autores",
	"various authors",
}

// Fold returns the comparison key for s: decomposed, stripped of combining
// marks, case-folded, with whitespace runs collapsed to one space.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), cases.Fold(), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = strings.ToLower(s)
	}

	return strings.Join(strings.Fields(folded), " ")
}

// Placeholders returns the folded last names treated as stand-in authors.
func Placeholders() []string {
	out := make([]string, len(placeholders))
	copy(out, placeholders)
	return out
}

// IsPlaceholder reports whether lastName names a stand-in author such as
// "Anónimo" or "Various".
func IsPlaceholder(lastName string) bool {
	key := Fold(lastName)
	for _, p := range placeholders {
		if key == p {
			return true
		}
	}
	return false
}
