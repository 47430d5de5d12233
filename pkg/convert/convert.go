// Copyright (c) 2026 Qumran. All rights reserved.

/*
Package convert provides fault-tolerant string conversions for handler code.

Parsing failures collapse to a zero or default value. Use it only where a
malformed value and a missing one lead to the same outcome, such as a numeric
path id that is then looked up and reported as not found.
*/
package convert

import (
	"strconv"
	"strings"
)

// ToInt parses s, returning 0 when it is blank or malformed.
func ToInt(s string) int {
	v, _ := strconv.Atoi(strings.TrimSpace(s))
	return v
}

// ToIntD is [ToInt] with a fallback: def is returned for a blank or
// malformed value, such as "?page=two".
func ToIntD(str string, def int) int {
	if v, err := strconv.Atoi(strings.TrimSpace(str)); err == nil {
		return v
	}
	return def
}
