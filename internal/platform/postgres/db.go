// Copyright (c) 2026 Qumran. All rights reserved.

package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/doug-martin/goqu/v9"
	// postgres dialect registers "$n" placeholders and RETURNING support.
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Dialect builds every statement executed through [DB].
var Dialect = goqu.Dialect("postgres")

func init() {
	// Values are always sent as bound parameters, never interpolated.
	goqu.SetDefaultPrepared(true)
}

// Querier is satisfied by [*pgxpool.Pool], [*pgx.Conn] and [pgx.Tx].
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Statement is a built query: any goqu dataset.
type Statement interface {
	ToSQL() (string, []any, error)
}

// DB executes [Statement] values against a [Querier].
//
// It never swallows errors; repositories classify them with dberr.
type DB struct {
	querier Querier
}

// NewDB wraps a pool or transaction.
func NewDB(querier Querier) *DB {
	return &DB{querier: querier}
}

/*
One scans zero-or-one row into dest.

Returns:
  - error: pgx.ErrNoRows when the statement matched nothing
*/
func (db *DB) One(context context.Context, dest any, stmt Statement) error {
	query, args, err := stmt.ToSQL()
	if err != nil {
		return fmt.Errorf("postgres: build statement: %w", err)
	}
	return pgxscan.Get(context, db.querier, dest, query, args...)
}

/*
Many scans every row into dest, a pointer to a slice.
*/
func (db *DB) Many(context context.Context, dest any, stmt Statement) error {
	query, args, err := stmt.ToSQL()
	if err != nil {
		return fmt.Errorf("postgres: build statement: %w", err)
	}
	return pgxscan.Select(context, db.querier, dest, query, args...)
}

/*
Scalar reads the single column of a single-row statement: counts and
existence checks.
*/
func (db *DB) Scalar(context context.Context, dest any, stmt Statement) error {
	query, args, err := stmt.ToSQL()
	if err != nil {
		return fmt.Errorf("postgres: build statement: %w", err)
	}
	rows, err := db.querier.Query(context, query, args...)
	if err != nil {
		return err
	}
	return pgxscan.ScanOne(dest, rows)
}

/*
Exec runs a statement and returns the raw command tag so callers can read
RowsAffected of an UPDATE or DELETE.
*/
func (db *DB) Exec(context context.Context, stmt Statement) (pgconn.CommandTag, error) {
	query, args, err := stmt.ToSQL()
	if err != nil {
		return pgconn.CommandTag{}, fmt.Errorf("postgres: build statement: %w", err)
	}
	return db.querier.Exec(context, query, args...)
}

// SelfTest runs a trivial query and reports whether the store answered.
//
// It is the only helper that swallows its error, which is logged instead.
func (db *DB) SelfTest(context context.Context, logger *slog.Logger) bool {
	var one int
	if err := db.One(context, &one, Dialect.Select(goqu.L("1"))); err != nil {
		logger.ErrorContext(context, "postgres_self_test_failed", slog.Any("error", err))
		return false
	}
	return one == 1
}
