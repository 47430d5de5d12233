// Copyright (c) 2026 Qumran. All rights reserved.

package named

import (
	"context"
	"strings"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"

	"github.com/qumran/qumran/internal/catalog/listing"
	"github.com/qumran/qumran/internal/platform/apperr"
	"github.com/qumran/qumran/internal/platform/database/schema"
	"github.com/qumran/qumran/internal/platform/dberr"
	"github.com/qumran/qumran/internal/platform/postgres"
	"github.com/qumran/qumran/pkg/slug"
)

// Table aliases used in every statement.
const (
	entityAlias = "e"
	bookAlias   = "b"
)

// PostgresRepository implements [Repository] for one named table.
type PostgresRepository struct {
	db       *postgres.DB
	table    schema.NamedTable
	resource string
}

// NewPostgresRepository creates a repository over table. resource names the
// entity in error messages ("Publisher").
func NewPostgresRepository(db *postgres.DB, table schema.NamedTable, resource string) *PostgresRepository {
	return &PostgresRepository{db: db, table: table, resource: resource}
}

// # Statements

func (repository *PostgresRepository) col(name string) exp.IdentifierExpression {
	return schema.Col(entityAlias, name)
}

// selectWithCount joins books on the owning key and projects book_count.
func (repository *PostgresRepository) selectWithCount() *goqu.SelectDataset {
	table := repository.table
	return postgres.Dialect.
		From(goqu.T(table.Table).As(entityAlias)).
		LeftJoin(
			goqu.T(schema.Book.Table).As(bookAlias),
			goqu.On(schema.Col(bookAlias, table.BookFK).Eq(repository.col(table.ID))),
		).
		Select(
			repository.col(table.ID),
			repository.col(table.Name),
			repository.col(table.Slug),
			goqu.COUNT(schema.Col(bookAlias, schema.Book.ID)).As(listing.BookCount),
			repository.col(table.CreatedAt),
			repository.col(table.UpdatedAt),
		).
		GroupBy(repository.col(table.ID))
}

func (repository *PostgresRepository) where(filter listing.Filter) []exp.Expression {
	if filter.Query == "" {
		return nil
	}
	return []exp.Expression{repository.col(repository.table.Name).ILike(listing.Contains(filter.Query))}
}

// ListStatements builds the page and count statements of a listing.
func (repository *PostgresRepository) ListStatements(filter listing.Filter, limit, offset int) (page, count *goqu.SelectDataset) {
	table := repository.table
	where := repository.where(filter)

	page = repository.selectWithCount().
		Where(where...).
		Order(filter.Sort.Order(repository.col(table.ID), goqu.Func("lower", repository.col(table.Name)))...)
	if limit > 0 {
		page = page.Limit(uint(limit)).Offset(uint(offset))
	}

	count = postgres.Dialect.
		From(goqu.T(table.Table).As(entityAlias)).
		Select(goqu.COUNT(goqu.Star())).
		Where(where...)

	return page, count
}

// ByID returns the single-entity statement for id.
func (repository *PostgresRepository) ByID(id int) *goqu.SelectDataset {
	return repository.selectWithCount().Where(repository.col(repository.table.ID).Eq(id))
}

// BySlug returns the single-entity statement for slug.
func (repository *PostgresRepository) BySlug(value string) *goqu.SelectDataset {
	return repository.selectWithCount().Where(repository.col(repository.table.Slug).Eq(value))
}

// ByName matches name case-insensitively and exactly.
func (repository *PostgresRepository) ByName(name string) *goqu.SelectDataset {
	return repository.selectWithCount().
		Where(goqu.Func("lower", repository.col(repository.table.Name)).Eq(strings.ToLower(strings.TrimSpace(name))))
}

// TakenSlugs selects the existing slugs that share base as a prefix.
func (repository *PostgresRepository) TakenSlugs(base string) *goqu.SelectDataset {
	column := goqu.C(repository.table.Slug)
	return postgres.Dialect.
		From(repository.table.Table).
		Select(column).
		Where(goqu.Or(column.Eq(base), column.Like(base+"-%")))
}

// Insert builds the INSERT of a new row.
func (repository *PostgresRepository) Insert(name, entitySlug string) *goqu.InsertDataset {
	table := repository.table
	return postgres.Dialect.
		Insert(table.Table).
		Rows(goqu.Record{table.Name: strings.TrimSpace(name), table.Slug: entitySlug}).
		Returning(goqu.C(table.ID))
}

// # Operations

/*
List returns one page of entities matching filter and the total count.

Parameters:
  - context: context.Context
  - filter: listing.Filter
  - limit: int (0 means all)
  - offset: int

Returns:
  - []*Entity: the page
  - int: total matches
  - error: classified store failure
*/
func (repository *PostgresRepository) List(context context.Context, filter listing.Filter, limit, offset int) ([]*Entity, int, error) {
	page, count := repository.ListStatements(filter, limit, offset)

	var total int
	if err := repository.db.Scalar(context, &total, count); err != nil {
		return nil, 0, dberr.Wrap(err, repository.resource)
	}

	entities := []*Entity{}
	if err := repository.db.Many(context, &entities, page); err != nil {
		return nil, 0, dberr.Wrap(err, repository.resource)
	}

	return entities, total, nil
}

// GetByID returns the entity with its book count.
func (repository *PostgresRepository) GetByID(context context.Context, id int) (*Entity, error) {
	entity := &Entity{}
	if err := repository.db.One(context, entity, repository.ByID(id)); err != nil {
		return nil, dberr.Wrap(err, repository.resource)
	}
	return entity, nil
}

// GetBySlug returns the entity with its book count.
func (repository *PostgresRepository) GetBySlug(context context.Context, value string) (*Entity, error) {
	entity := &Entity{}
	if err := repository.db.One(context, entity, repository.BySlug(value)); err != nil {
		return nil, dberr.Wrap(err, repository.resource)
	}
	return entity, nil
}

// FindByName returns the entity whose name equals name ignoring case.
func (repository *PostgresRepository) FindByName(context context.Context, name string) (*Entity, error) {
	entity := &Entity{}
	if err := repository.db.One(context, entity, repository.ByName(name)); err != nil {
		return nil, dberr.Wrap(err, repository.resource)
	}
	return entity, nil
}

// UniqueSlug returns the first free slug for name.
func (repository *PostgresRepository) UniqueSlug(context context.Context, name string) (string, error) {
	base := slug.From(name)

	var taken []string
	if err := repository.db.Many(context, &taken, repository.TakenSlugs(base)); err != nil {
		return "", dberr.Wrap(err, repository.resource)
	}

	return slug.Unique(base, taken), nil
}

/*
Create inserts a new entity and returns it as stored.

The slug is derived from name; existing slugs sharing the same base are read
in one query and the first free suffix is used.
*/
func (repository *PostgresRepository) Create(context context.Context, name string) (*Entity, error) {
	entitySlug, err := repository.UniqueSlug(context, name)
	if err != nil {
		return nil, err
	}

	var id int
	if err := repository.db.One(context, &id, repository.Insert(name, entitySlug)); err != nil {
		return nil, dberr.Wrap(err, repository.resource)
	}

	return repository.GetByID(context, id)
}

// Update renames the entity and returns it as stored.
func (repository *PostgresRepository) Update(context context.Context, id int, name string) (*Entity, error) {
	table := repository.table
	statement := postgres.Dialect.
		Update(table.Table).
		Set(goqu.Record{table.Name: strings.TrimSpace(name), table.UpdatedAt: goqu.L("NOW()")}).
		Where(goqu.C(table.ID).Eq(id))

	tag, err := repository.db.Exec(context, statement)
	if err != nil {
		return nil, dberr.Wrap(err, repository.resource)
	}
	if tag.RowsAffected() == 0 {
		return nil, apperr.NotFound(repository.resource)
	}

	return repository.GetByID(context, id)
}

// Delete hard-deletes the entity. Books still referencing it block the delete.
func (repository *PostgresRepository) Delete(context context.Context, id int) error {
	table := repository.table
	statement := postgres.Dialect.Delete(table.Table).Where(goqu.C(table.ID).Eq(id))

	tag, err := repository.db.Exec(context, statement)
	if err != nil {
		return dberr.Wrap(err, repository.resource)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(repository.resource)
	}
	return nil
}
