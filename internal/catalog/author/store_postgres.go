// Copyright (c) 2026 Qumran. All rights reserved.

package author

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
	"github.com/qumran/qumran/pkg/pointer"
	"github.com/qumran/qumran/pkg/slug"
	"github.com/qumran/qumran/pkg/sortkey"
)

const (
	authorAlias = "a"
	bookAlias   = "b"

	// naturalKey matches the unique index authors_natural_key.
	naturalKey = "(lower(last_name)), (lower(coalesce(first_name, '')))"
)

var table = schema.Author

func col(name string) exp.IdentifierExpression {
	return schema.Col(authorAlias, name)
}

// PostgresRepository implements [Repository].
type PostgresRepository struct {
	db *postgres.DB
}

// NewPostgresRepository creates the author repository.
func NewPostgresRepository(db *postgres.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// # Statements

// selectWithCount counts books crediting the author in either slot.
func selectWithCount() *goqu.SelectDataset {
	return postgres.Dialect.
		From(goqu.T(table.Table).As(authorAlias)).
		LeftJoin(
			goqu.T(schema.Book.Table).As(bookAlias),
			goqu.On(goqu.Or(
				schema.Col(bookAlias, schema.Book.Author1ID).Eq(col(table.ID)),
				schema.Col(bookAlias, schema.Book.Author2ID).Eq(col(table.ID)),
			)),
		).
		Select(
			col(table.ID),
			col(table.FirstName),
			col(table.LastName),
			col(table.Slug),
			goqu.COUNT(schema.Col(bookAlias, schema.Book.ID)).As(listing.BookCount),
			col(table.CreatedAt),
			col(table.UpdatedAt),
		).
		GroupBy(col(table.ID))
}

func where(filter listing.Filter) []exp.Expression {
	if filter.Query == "" {
		return nil
	}
	pattern := listing.Contains(filter.Query)
	return []exp.Expression{goqu.Or(
		col(table.FirstName).ILike(pattern),
		col(table.LastName).ILike(pattern),
	)}
}

// ListStatements builds the page and count statements of a listing. Names
// order by their folded sort keys, last name first.
func ListStatements(filter listing.Filter, limit, offset int) (page, count *goqu.SelectDataset) {
	conditions := where(filter)

	page = selectWithCount().
		Where(conditions...).
		Order(filter.Sort.Order(col(table.ID), col(table.SortLastName), col(table.SortFirstName))...)
	if limit > 0 {
		page = page.Limit(uint(limit)).Offset(uint(offset))
	}

	count = postgres.Dialect.
		From(goqu.T(table.Table).As(authorAlias)).
		Select(goqu.COUNT(goqu.Star())).
		Where(conditions...)

	return page, count
}

// ByNaturalKey matches last and first name ignoring case. A missing first
// name only matches authors without one.
func ByNaturalKey(input Input) *goqu.SelectDataset {
	normalized := input.Normalized()
	return selectWithCount().Where(
		goqu.Func("lower", col(table.LastName)).Eq(strings.ToLower(normalized.LastName)),
		goqu.L("lower(coalesce(?, ''))", col(table.FirstName)).Eq(strings.ToLower(pointer.Val(normalized.FirstName))),
	)
}

// TakenSlugs selects the existing slugs that share base as a prefix.
func TakenSlugs(base string) *goqu.SelectDataset {
	column := goqu.C(table.Slug)
	return postgres.Dialect.
		From(table.Table).
		Select(column).
		Where(goqu.Or(column.Eq(base), column.Like(base+"-%")))
}

// record is the column set written for input, sort keys included.
func record(input Input) goqu.Record {
	normalized := input.Normalized()
	return goqu.Record{
		table.FirstName:     normalized.FirstName,
		table.LastName:      normalized.LastName,
		table.SortFirstName: sortkey.Fold(pointer.Val(normalized.FirstName)),
		table.SortLastName:  sortkey.Fold(normalized.LastName),
	}
}

// InsertStatement inserts a new author.
func InsertStatement(input Input, authorSlug string) *goqu.InsertDataset {
	row := record(input)
	row[table.Slug] = authorSlug
	return postgres.Dialect.Insert(table.Table).Rows(row).Returning(goqu.C(table.ID))
}

/*
UpsertStatement inserts an author or, when the natural key already exists,
leaves the row untouched and returns its id.

inserted is true only when this statement created the row.
*/
func UpsertStatement(input Input, authorSlug string) *goqu.InsertDataset {
	row := record(input)
	row[table.Slug] = authorSlug
	return postgres.Dialect.
		Insert(table.Table).
		Rows(row).
		OnConflict(goqu.DoUpdate(naturalKey, goqu.Record{
			table.UpdatedAt: goqu.I(table.Table + "." + table.UpdatedAt),
		})).
		Returning(goqu.C(table.ID), goqu.L("(xmax = 0)").As("inserted"))
}

// UpdateStatement replaces the names of author id.
func UpdateStatement(id int, input Input) *goqu.UpdateDataset {
	row := record(input)
	row[table.UpdatedAt] = goqu.L("NOW()")
	return postgres.Dialect.Update(table.Table).Set(row).Where(goqu.C(table.ID).Eq(id))
}

// # Operations

/*
List returns one page of authors and the total match count.

Parameters:
  - context: context.Context
  - filter: listing.Filter
  - limit: int (0 means all)
  - offset: int

Returns:
  - []*Author: the page
  - int: total matches
  - error: classified store failure
*/
func (repository *PostgresRepository) List(context context.Context, filter listing.Filter, limit, offset int) ([]*Author, int, error) {
	page, count := ListStatements(filter, limit, offset)

	var total int
	if err := repository.db.Scalar(context, &total, count); err != nil {
		return nil, 0, dberr.Wrap(err, Resource)
	}

	authors := []*Author{}
	if err := repository.db.Many(context, &authors, page); err != nil {
		return nil, 0, dberr.Wrap(err, Resource)
	}

	return authors, total, nil
}

/*
GetByID returns the author with its book count.
*/
func (repository *PostgresRepository) GetByID(context context.Context, id int) (*Author, error) {
	author := &Author{}
	if err := repository.db.One(context, author, selectWithCount().Where(col(table.ID).Eq(id))); err != nil {
		return nil, dberr.Wrap(err, Resource)
	}
	return author, nil
}

/*
GetBySlug returns the author with its book count.
*/
func (repository *PostgresRepository) GetBySlug(context context.Context, value string) (*Author, error) {
	author := &Author{}
	if err := repository.db.One(context, author, selectWithCount().Where(col(table.Slug).Eq(value))); err != nil {
		return nil, dberr.Wrap(err, Resource)
	}
	return author, nil
}

func (repository *PostgresRepository) uniqueSlug(context context.Context, input Input) (string, error) {
	base := slug.From(input.FullName())

	var taken []string
	if err := repository.db.Many(context, &taken, TakenSlugs(base)); err != nil {
		return "", dberr.Wrap(err, Resource)
	}

	return slug.Unique(base, taken), nil
}

/*
Create inserts a new author and returns it as stored.
*/
func (repository *PostgresRepository) Create(context context.Context, input Input) (*Author, error) {
	authorSlug, err := repository.uniqueSlug(context, input)
	if err != nil {
		return nil, err
	}

	var id int
	if err := repository.db.One(context, &id, InsertStatement(input, authorSlug)); err != nil {
		return nil, dberr.Wrap(err, Resource)
	}

	return repository.GetByID(context, id)
}

/*
Update replaces the author's names and sort keys.
*/
func (repository *PostgresRepository) Update(context context.Context, id int, input Input) (*Author, error) {
	tag, err := repository.db.Exec(context, UpdateStatement(id, input))
	if err != nil {
		return nil, dberr.Wrap(err, Resource)
	}
	if tag.RowsAffected() == 0 {
		return nil, apperr.NotFound(Resource)
	}

	return repository.GetByID(context, id)
}

/*
Delete hard-deletes the author. Books crediting the author block the delete
through their foreign keys.
*/
func (repository *PostgresRepository) Delete(context context.Context, id int) error {
	tag, err := repository.db.Exec(context, postgres.Dialect.Delete(table.Table).Where(goqu.C(table.ID).Eq(id)))
	if err != nil {
		return dberr.Wrap(err, Resource)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(Resource)
	}
	return nil
}

/*
FindOrCreate resolves an author by natural key.

The lookup serves the common case; on a miss one upsert against the natural
key index inserts the row, so two concurrent submissions naming the same new
author end with a single row.
*/
func (repository *PostgresRepository) FindOrCreate(context context.Context, input Input) (*Author, bool, error) {
	existing := &Author{}
	err := repository.db.One(context, existing, ByNaturalKey(input))
	if err == nil {
		return existing, false, nil
	}
	if wrapped := dberr.Wrap(err, Resource); !apperr.HasCode(wrapped, apperr.CodeNotFound) {
		return nil, false, wrapped
	}

	authorSlug, err := repository.uniqueSlug(context, input)
	if err != nil {
		return nil, false, err
	}

	var row struct {
		ID       int  `db:"id"`
		Inserted bool `db:"inserted"`
	}
	if err := repository.db.One(context, &row, UpsertStatement(input, authorSlug)); err != nil {
		return nil, false, dberr.Wrap(err, Resource)
	}

	author, err := repository.GetByID(context, row.ID)
	if err != nil {
		return nil, false, err
	}
	return author, row.Inserted, nil
}
