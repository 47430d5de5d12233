// Copyright (c) 2026 Qumran. All rights reserved.

package slice_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/qumran/qumran/pkg/slice"
)

func TestMap(t *testing.T) {
	assert.Equal(t, []int{1, 2}, slice.Map([]string{"a", "bb"}, func(s string) int { return len(s) }))
	assert.Equal(t, []int{}, slice.Map[string, int](nil, func(s string) int { return len(s) }))
}

func TestFilter(t *testing.T) {
	got := slice.Filter([]string{"poesia", "", "ensayo"}, func(s string) bool { return strings.TrimSpace(s) != "" })
	assert.Equal(t, []string{"poesia", "ensayo"}, got)
}

func TestUniqueBy(t *testing.T) {
	got := slice.UniqueBy([]string{"Poesia", "ensayo", "poesia"}, strings.ToLower)
	assert.Equal(t, []string{"Poesia", "ensayo"}, got)
	assert.Nil(t, slice.UniqueBy[string](nil, strings.ToLower))
}
