// Copyright (c) 2026 Qumran. All rights reserved.

// Package query reads URL query parameters that accept several spellings.
package query

import (
	"net/url"
	"strings"
)

// First returns the trimmed value of the first non-blank key, so a filter can
// accept its legacy alias too: First(q, "authorSlug", "authslug").
func First(values url.Values, keys ...string) string {
	for _, key := range keys {
		if value := strings.TrimSpace(values.Get(key)); value != "" {
			return value
		}
	}
	return ""
}

// StringSlice splits a comma separated value, trimming items and dropping
// blanks. It returns nil when nothing is left.
func StringSlice(value string) []string {
	var items []string
	for item := range strings.SplitSeq(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
