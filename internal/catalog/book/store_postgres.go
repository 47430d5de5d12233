// Copyright (c) 2026 Qumran. All rights reserved.

package book

import (
	"context"
	"fmt"
	"strings"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"

	"github.com/qumran/qumran/internal/catalog/listing"
	"github.com/qumran/qumran/internal/platform/apperr"
	"github.com/qumran/qumran/internal/platform/database/schema"
	"github.com/qumran/qumran/internal/platform/dberr"
	"github.com/qumran/qumran/internal/platform/postgres"
	"github.com/qumran/qumran/pkg/isbn"
	"github.com/qumran/qumran/pkg/pointer"
	"github.com/qumran/qumran/pkg/sortkey"
)

const bookAlias = "bk"

var table = schema.Book

func col(name string) exp.IdentifierExpression {
	return schema.Col(bookAlias, name)
}

// # Relations

// relation is one of the tables a book row is joined with.
type relation int

const (
	relAuthor1 relation = iota
	relAuthor2
	relPublisher
	relCategory
	relLocation
	relationCount
)

var relations = [relationCount]struct {
	table, alias, id, fk string
}{
	relAuthor1:   {schema.Author.Table, "a1", schema.Author.ID, table.Author1ID},
	relAuthor2:   {schema.Author.Table, "a2", schema.Author.ID, table.Author2ID},
	relPublisher: {schema.Publisher.Table, "p", schema.Publisher.ID, table.PublisherID},
	relCategory:  {schema.Category.Table, "c", schema.Category.ID, table.CategoryID},
	relLocation:  {schema.Location.Table, "l", schema.Location.ID, table.LocationID},
}

// column addresses a column of a joined relation.
func (rel relation) column(name string) exp.IdentifierExpression {
	return schema.Col(relations[rel].alias, name)
}

// join adds the LEFT JOIN of rel. Optional references leave the joined
// columns NULL instead of dropping the book.
func (rel relation) join(dataset *goqu.SelectDataset) *goqu.SelectDataset {
	r := relations[rel]
	return dataset.LeftJoin(
		goqu.T(r.table).As(r.alias),
		goqu.On(schema.Col(r.alias, r.id).Eq(col(r.fk))),
	)
}

// # Predicates

type predicateKind int

const (
	titleContains predicateKind = iota
	authorIs
	publisherIs
	categoryIs
	locationIs
	taggedWith
)

/*
predicate is one condition of a book search.

The set of kinds is closed. Each kind renders its own goqu expression, so
the placeholder of every value is numbered by the builder and can never
drift from its argument.
*/
type predicate struct {
	kind  predicateKind
	value string
	tags  []string
}

// predicates lists the conditions filter asks for, in a fixed order.
func predicates(filter Filter) []predicate {
	var out []predicate
	if filter.Title != "" {
		out = append(out, predicate{kind: titleContains, value: filter.Title})
	}
	if filter.AuthorSlug != "" {
		out = append(out, predicate{kind: authorIs, value: filter.AuthorSlug})
	}
	if filter.PublisherSlug != "" {
		out = append(out, predicate{kind: publisherIs, value: filter.PublisherSlug})
	}
	if filter.CategorySlug != "" {
		out = append(out, predicate{kind: categoryIs, value: filter.CategorySlug})
	}
	if filter.LocationSlug != "" {
		out = append(out, predicate{kind: locationIs, value: filter.LocationSlug})
	}
	if len(filter.Tags) > 0 {
		out = append(out, predicate{kind: taggedWith, tags: filter.Tags})
	}
	return out
}

func (p predicate) expression() exp.Expression {
	switch p.kind {
	case titleContains:
		return col(table.Title).ILike(listing.Contains(p.value))
	case authorIs:
		return goqu.Or(
			relAuthor1.column(schema.Author.Slug).Eq(p.value),
			relAuthor2.column(schema.Author.Slug).Eq(p.value),
		)
	case publisherIs:
		return relPublisher.column(schema.Publisher.Slug).Eq(p.value)
	case categoryIs:
		return relCategory.column(schema.Category.Slug).Eq(p.value)
	case locationIs:
		return relLocation.column(schema.Location.Slug).Eq(p.value)
	case taggedWith:
		return goqu.L("? @> ?", col(table.Tags), postgres.TextArray(p.tags))
	}
	panic(fmt.Sprintf("book: unknown predicate kind %d", p.kind))
}

// relations names the joins the predicate reads from.
func (p predicate) relations() []relation {
	switch p.kind {
	case authorIs:
		return []relation{relAuthor1, relAuthor2}
	case publisherIs:
		return []relation{relPublisher}
	case categoryIs:
		return []relation{relCategory}
	case locationIs:
		return []relation{relLocation}
	}
	return nil
}

func where(preds []predicate) []exp.Expression {
	expressions := make([]exp.Expression, 0, len(preds))
	for _, p := range preds {
		expressions = append(expressions, p.expression())
	}
	return expressions
}

// # Statements

func from() *goqu.SelectDataset {
	return postgres.Dialect.From(goqu.T(table.Table).As(bookAlias))
}

// selectBooks is the denormalized row shape shared by every read.
func selectBooks() *goqu.SelectDataset {
	dataset := from()
	for rel := range relationCount {
		dataset = rel.join(dataset)
	}

	return dataset.Select(
		col(table.ID),
		col(table.Title),
		col(table.ISBN),
		col(table.Year),
		col(table.Pages),
		col(table.Description),
		col(table.Tags),
		col(table.Author1ID),
		relAuthor1.column(schema.Author.FirstName).As("author1_first_name"),
		relAuthor1.column(schema.Author.LastName).As("author1_last_name"),
		relAuthor1.column(schema.Author.Slug).As("author1_slug"),
		col(table.Author2ID),
		relAuthor2.column(schema.Author.FirstName).As("author2_first_name"),
		relAuthor2.column(schema.Author.LastName).As("author2_last_name"),
		relAuthor2.column(schema.Author.Slug).As("author2_slug"),
		col(table.PublisherID),
		relPublisher.column(schema.Publisher.Name).As("publisher_name"),
		relPublisher.column(schema.Publisher.Slug).As("publisher_slug"),
		col(table.CategoryID),
		relCategory.column(schema.Category.Name).As("category_name"),
		relCategory.column(schema.Category.Slug).As("category_slug"),
		col(table.LocationID),
		relLocation.column(schema.Location.Name).As("location_name"),
		relLocation.column(schema.Location.Slug).As("location_slug"),
		col(table.ExternalLink),
		col(table.DirectDL),
		col(table.Filename),
		col(table.CID),
		col(table.CreatedAt),
		col(table.UpdatedAt),
	)
}

// placeholderBucket is 1 for books whose primary author is a stand-in such
// as "Anónimo" and 0 otherwise.
func placeholderBucket() exp.CaseExpression {
	return goqu.Case().
		When(relAuthor1.column(schema.Author.SortLastName).In(sortkey.Placeholders()), goqu.L("1")).
		Else(goqu.L("0"))
}

/*
Order turns a sort into ORDER BY terms. An empty sort means [SortAuthor].

The author order puts stand-in authors last in both directions, then orders
by the folded last name, first name and title. Every order ends on the id
so repeated queries return the same sequence.
*/
func Order(sort Sort) []exp.OrderedExpression {
	direction := func(term exp.Orderable) exp.OrderedExpression {
		if sort.Descending() {
			return term.Desc()
		}
		return term.Asc()
	}

	switch sort {
	case SortTitle, SortTitleDesc:
		return []exp.OrderedExpression{direction(col(table.SortTitle)), direction(col(table.ID))}
	case SortCreated, SortCreatedDesc:
		return []exp.OrderedExpression{direction(col(table.CreatedAt)), direction(col(table.ID))}
	}

	return []exp.OrderedExpression{
		placeholderBucket().Asc(),
		direction(relAuthor1.column(schema.Author.SortLastName)),
		direction(relAuthor1.column(schema.Author.SortFirstName)),
		direction(col(table.SortTitle)),
		direction(col(table.ID)),
	}
}

/*
ListStatements builds the page and count statements of a search.

Both share the WHERE clause. The count joins only the relations its
predicates read and has no GROUP BY: every join follows a foreign key to a
primary key, so it never multiplies rows.
*/
func ListStatements(filter Filter, limit, offset int) (page, count *goqu.SelectDataset) {
	preds := predicates(filter)
	conditions := where(preds)

	page = selectBooks().Where(conditions...).Order(Order(filter.Sort)...)
	if limit > 0 {
		page = page.Limit(uint(limit)).Offset(uint(offset))
	}

	var needed [relationCount]bool
	for _, p := range preds {
		for _, rel := range p.relations() {
			needed[rel] = true
		}
	}
	count = from()
	for rel := range relationCount {
		if needed[rel] {
			count = rel.join(count)
		}
	}
	count = count.Select(goqu.COUNT(goqu.Star())).Where(conditions...)

	return page, count
}

// ByID selects one denormalized book.
func ByID(id int) *goqu.SelectDataset {
	return selectBooks().Where(col(table.ID).Eq(id))
}

// InsertStatement inserts record, normalizing the ISBN and computing the
// title sort key.
func InsertStatement(record Record) *goqu.InsertDataset {
	title := strings.TrimSpace(record.Title)
	row := goqu.Record{
		table.Title:        title,
		table.SortTitle:    sortkey.Fold(title),
		table.ISBN:         NormalizeISBN(record.ISBN),
		table.Year:         record.Year,
		table.Pages:        record.Pages,
		table.Description:  pointer.NilIfBlank(record.Description),
		table.Tags:         postgres.TextArray(NormalizeTags(record.Tags)),
		table.Author1ID:    record.Author1ID,
		table.Author2ID:    record.Author2ID,
		table.PublisherID:  record.PublisherID,
		table.CategoryID:   record.CategoryID,
		table.LocationID:   record.LocationID,
		table.ExternalLink: pointer.NilIfBlank(record.ExternalLink),
		table.DirectDL:     record.DirectDownload,
		table.Filename:     pointer.NilIfBlank(record.Filename),
		table.CID:          pointer.NilIfBlank(record.CID),
	}
	return postgres.Dialect.Insert(table.Table).Rows(row).Returning(goqu.C(table.ID))
}

// record maps the fields present in patch to columns.
func (patch Patch) record() goqu.Record {
	row := goqu.Record{}

	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		row[table.Title] = title
		row[table.SortTitle] = sortkey.Fold(title)
	}
	if patch.ISBN != nil {
		row[table.ISBN] = NormalizeISBN(patch.ISBN)
	}
	if patch.Year != nil {
		row[table.Year] = *patch.Year
	}
	if patch.Pages != nil {
		row[table.Pages] = *patch.Pages
	}
	if patch.Description != nil {
		row[table.Description] = pointer.NilIfBlank(patch.Description)
	}
	if patch.Tags != nil {
		row[table.Tags] = postgres.TextArray(NormalizeTags(*patch.Tags))
	}
	if patch.Author1ID != nil {
		row[table.Author1ID] = *patch.Author1ID
	}
	if patch.ClearAuthor2 {
		row[table.Author2ID] = nil
	} else if patch.Author2ID != nil {
		row[table.Author2ID] = *patch.Author2ID
	}
	if patch.PublisherID != nil {
		row[table.PublisherID] = *patch.PublisherID
	}
	if patch.CategoryID != nil {
		row[table.CategoryID] = *patch.CategoryID
	}
	if patch.ClearLocation {
		row[table.LocationID] = nil
	} else if patch.LocationID != nil {
		row[table.LocationID] = *patch.LocationID
	}
	if patch.ExternalLink != nil {
		row[table.ExternalLink] = pointer.NilIfBlank(patch.ExternalLink)
	}
	if patch.DirectDownload != nil {
		row[table.DirectDL] = *patch.DirectDownload
	}
	if patch.Filename != nil {
		row[table.Filename] = pointer.NilIfBlank(patch.Filename)
	}
	if patch.CID != nil {
		row[table.CID] = pointer.NilIfBlank(patch.CID)
	}

	return row
}

// UpdateStatement writes the fields present in patch. The patch must not
// be empty.
func UpdateStatement(id int, patch Patch) *goqu.UpdateDataset {
	row := patch.record()
	row[table.UpdatedAt] = goqu.L("NOW()")
	return postgres.Dialect.Update(table.Table).Set(row).Where(goqu.C(table.ID).Eq(id))
}

// ISBNExistsStatement asks whether a book other than excludeID carries the
// normalized isbn.
func ISBNExistsStatement(normalized string, excludeID int) *goqu.SelectDataset {
	match := postgres.Dialect.
		From(table.Table).
		Select(goqu.L("1")).
		Where(goqu.C(table.ISBN).Eq(normalized))
	if excludeID != 0 {
		match = match.Where(goqu.C(table.ID).Neq(excludeID))
	}
	return postgres.Dialect.Select(goqu.L("EXISTS ?", match))
}

// # Operations

// PostgresRepository implements [Repository].
type PostgresRepository struct {
	db *postgres.DB
}

// NewPostgresRepository creates the book repository.
func NewPostgresRepository(db *postgres.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

/*
List counts the matches first, then reads the requested page. A page past
the last match skips the second query and returns no items.

Parameters:
  - context: context.Context
  - filter: Filter
  - limit: int (0 means all)
  - offset: int

Returns:
  - []*Book: the page
  - int: total matches
  - error: classified store failure
*/
func (repository *PostgresRepository) List(context context.Context, filter Filter, limit, offset int) ([]*Book, int, error) {
	page, count := ListStatements(filter, limit, offset)

	var total int
	if err := repository.db.Scalar(context, &total, count); err != nil {
		return nil, 0, dberr.Wrap(err, Resource)
	}

	books := []*Book{}
	if total == 0 || offset >= total {
		return books, total, nil
	}

	if err := repository.db.Many(context, &books, page); err != nil {
		return nil, 0, dberr.Wrap(err, Resource)
	}
	return books, total, nil
}

func (repository *PostgresRepository) GetByID(context context.Context, id int) (*Book, error) {
	book := &Book{}
	if err := repository.db.One(context, book, ByID(id)); err != nil {
		return nil, dberr.Wrap(err, Resource)
	}
	return book, nil
}

func (repository *PostgresRepository) Create(context context.Context, record Record) (*Book, error) {
	var id int
	if err := repository.db.One(context, &id, InsertStatement(record)); err != nil {
		return nil, dberr.Wrap(err, Resource)
	}
	return repository.GetByID(context, id)
}

func (repository *PostgresRepository) Update(context context.Context, id int, patch Patch) (*Book, error) {
	if patch.Empty() {
		return nil, apperr.ValidationError("No fields to update")
	}

	tag, err := repository.db.Exec(context, UpdateStatement(id, patch))
	if err != nil {
		return nil, dberr.Wrap(err, Resource)
	}
	if tag.RowsAffected() == 0 {
		return nil, apperr.NotFound(Resource)
	}

	return repository.GetByID(context, id)
}

func (repository *PostgresRepository) Delete(context context.Context, id int) (bool, error) {
	tag, err := repository.db.Exec(context, postgres.Dialect.Delete(table.Table).Where(goqu.C(table.ID).Eq(id)))
	if err != nil {
		return false, dberr.Wrap(err, Resource)
	}
	return tag.RowsAffected() > 0, nil
}

func (repository *PostgresRepository) ISBNExists(context context.Context, value string, excludeID int) (bool, error) {
	normalized := isbn.Normalize(value)
	if normalized == "" {
		return false, nil
	}

	var exists bool
	if err := repository.db.Scalar(context, &exists, ISBNExistsStatement(normalized, excludeID)); err != nil {
		return false, dberr.Wrap(err, Resource)
	}
	return exists, nil
}
