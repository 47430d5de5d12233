// Copyright (c) 2026 Qumran. All rights reserved.

package slug_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/qumran/qumran/pkg/slug"
)

/*
TestFrom covers accent folding, punctuation stripping and hyphen collapsing.
*/
func TestFrom(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "Jorge Luis Borges", "jorge-luis-borges"},
		{"accents", "Gabriel García Márquez", "gabriel-garcia-marquez"},
		{"trim", "  Anagrama  ", "anagrama"},
		{"punctuation_stripped", "C++ & Go: A Guide!", "c-go-a-guide"},
		{"apostrophe", "O'Brien", "obrien"},
		{"repeated_hyphens", "Sci -- Fi", "sci-fi"},
		{"underscore_kept", "snake_case name", "snake_case-name"},
		{"tabs_and_newlines", "a\t\tb\nc", "a-b-c"},
		{"only_symbols", "???", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, slug.From(tt.input))
		})
	}
}

/*
TestUnique verifies suffixes are appended in order until a free slug is found.
*/
func TestUnique(t *testing.T) {
	assert.Equal(t, "borges", slug.Unique("borges", nil))
	assert.Equal(t, "borges", slug.Unique("borges", []string{"borges-1"}))
	assert.Equal(t, "borges-1", slug.Unique("borges", []string{"borges"}))
	assert.Equal(t, "borges-2", slug.Unique("borges", []string{"borges", "borges-1"}))
	assert.Equal(t, "borges-1", slug.Unique("borges", []string{"borges", "borges-2"}))
}
