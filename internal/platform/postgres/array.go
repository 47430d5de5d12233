// Copyright (c) 2026 Qumran. All rights reserved.

package postgres

import (
	"strings"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
)

// TextArray renders values as a text[] constructor with one bound parameter
// per element: ARRAY[$1, $2]::text[]. goqu would otherwise expand a slice
// into a parenthesised list.
func TextArray(values []string) exp.LiteralExpression {
	if len(values) == 0 {
		return goqu.L("'{}'::text[]")
	}

	args := make([]any, len(values))
	for i, value := range values {
		args[i] = value
	}

	return goqu.L("ARRAY["+strings.TrimSuffix(strings.Repeat("?, ", len(values)), ", ")+"]::text[]", args...)
}
