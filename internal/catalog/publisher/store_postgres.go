// Copyright (c) 2026 Qumran. All rights reserved.

package publisher

import (
	"context"
	"strings"

	"github.com/doug-martin/goqu/v9"

	"github.com/qumran/qumran/internal/catalog/named"
	"github.com/qumran/qumran/internal/platform/apperr"
	"github.com/qumran/qumran/internal/platform/database/schema"
	"github.com/qumran/qumran/internal/platform/dberr"
	"github.com/qumran/qumran/internal/platform/postgres"
)

// conflictTarget matches the unique index on lower(name).
const conflictTarget = "(lower(name))"

// PostgresRepository implements [Repository].
type PostgresRepository struct {
	*named.PostgresRepository
	db *postgres.DB
}

// NewPostgresRepository creates the publisher repository.
func NewPostgresRepository(db *postgres.DB) *PostgresRepository {
	return &PostgresRepository{
		PostgresRepository: named.NewPostgresRepository(db, schema.Publisher, Resource),
		db:                 db,
	}
}

// upserted is the RETURNING row of [UpsertStatement].
type upserted struct {
	ID       int  `db:"id"`
	Inserted bool `db:"inserted"`
}

/*
UpsertStatement inserts a publisher or, when the name already exists in any
case, touches nothing and returns the existing id.

xmax is zero only for a freshly inserted tuple, which tells the caller which
branch ran.
*/
func UpsertStatement(name, publisherSlug string) *goqu.InsertDataset {
	table := schema.Publisher
	return postgres.Dialect.
		Insert(table.Table).
		Rows(goqu.Record{table.Name: strings.TrimSpace(name), table.Slug: publisherSlug}).
		OnConflict(goqu.DoUpdate(conflictTarget, goqu.Record{
			table.UpdatedAt: goqu.I(table.Table + "." + table.UpdatedAt),
		})).
		Returning(goqu.C(table.ID), goqu.L("(xmax = 0)").As("inserted"))
}

/*
FindOrCreate resolves a publisher name.

A plain lookup serves the common case. When it misses, a single upsert on
the lower(name) index inserts the row; a concurrent writer inserting the
same name makes the upsert return that writer's row instead of a duplicate.
*/
func (repository *PostgresRepository) FindOrCreate(context context.Context, name string) (*Publisher, bool, error) {
	existing, err := repository.FindByName(context, name)
	if err == nil {
		return existing, false, nil
	}
	if !apperr.HasCode(err, apperr.CodeNotFound) {
		return nil, false, err
	}

	publisherSlug, err := repository.UniqueSlug(context, name)
	if err != nil {
		return nil, false, err
	}

	var row upserted
	if err := repository.db.One(context, &row, UpsertStatement(name, publisherSlug)); err != nil {
		return nil, false, dberr.Wrap(err, Resource)
	}

	created, err := repository.GetByID(context, row.ID)
	if err != nil {
		return nil, false, err
	}
	return created, row.Inserted, nil
}
