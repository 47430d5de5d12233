// Copyright (c) 2026 Qumran. All rights reserved.

package query_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/qumran/qumran/pkg/query"
)

func TestFirst(t *testing.T) {
	values := url.Values{"authslug": {"borges"}, "title": {"  "}}

	assert.Equal(t, "borges", query.First(values, "authorSlug", "authslug"))
	assert.Equal(t, "", query.First(values, "title", "q"))
	assert.Equal(t, "", query.First(values))
}

func TestStringSlice(t *testing.T) {
	assert.Nil(t, query.StringSlice(""))
	assert.Equal(t, []string{"poesia", "clasicos"}, query.StringSlice(" poesia, ,clasicos "))
}
