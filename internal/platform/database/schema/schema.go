// Copyright (c) 2026 Qumran. All rights reserved.

/*
Package schema names every table and column the repositories touch.

Repositories never spell identifiers inline; they reference these descriptors
so that a renamed column is a one-line change here plus a migration.
*/
package schema

import (
	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
)

// Col qualifies a column with a table alias, e.g. Col("b", "title") renders
// "b"."title".
func Col(alias, column string) exp.IdentifierExpression {
	return goqu.T(alias).Col(column)
}
