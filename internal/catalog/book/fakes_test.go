// Copyright (c) 2026 Qumran. All rights reserved.

package book_test

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/qumran/qumran/internal/catalog/author"
	"github.com/qumran/qumran/internal/catalog/book"
	"github.com/qumran/qumran/internal/catalog/named"
	"github.com/qumran/qumran/internal/catalog/publisher"
	"github.com/qumran/qumran/internal/platform/apperr"
	"github.com/qumran/qumran/internal/platform/assets"
	"github.com/qumran/qumran/internal/platform/viewcache/viewcachetest"
	"github.com/qumran/qumran/pkg/isbn"
	"github.com/qumran/qumran/pkg/pointer"
	"github.com/qumran/qumran/pkg/slug"
)

var quietLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// catalog is the in-memory state behind every fake.
type catalog struct {
	authors    map[int]*author.Author
	publishers map[int]*named.Entity
	categories map[int]*named.Entity
	locations  map[int]*named.Entity
	books      map[int]*book.Book
	nextID     int
	bookWrites int
}

func newCatalog() *catalog {
	c := &catalog{
		authors:    map[int]*author.Author{},
		publishers: map[int]*named.Entity{},
		categories: map[int]*named.Entity{},
		locations:  map[int]*named.Entity{},
		books:      map[int]*book.Book{},
	}
	c.addNamed(c.locations, "Default")
	return c
}

func (c *catalog) id() int {
	c.nextID++
	return c.nextID
}

func (c *catalog) addNamed(rows map[int]*named.Entity, name string) *named.Entity {
	entity := &named.Entity{ID: c.id(), Name: name, Slug: slug.From(name)}
	rows[entity.ID] = entity
	return entity
}

func (c *catalog) addAuthor(first *string, last string) *author.Author {
	input := author.Input{FirstName: first, LastName: last}
	row := &author.Author{ID: c.id(), FirstName: first, LastName: last, Slug: slug.From(input.FullName())}
	c.authors[row.ID] = row
	return row
}

// # Directories

type authorsFake struct{ *catalog }

func (f authorsFake) Get(_ context.Context, id int) (*author.Author, error) {
	if row, ok := f.authors[id]; ok {
		return row, nil
	}
	return nil, apperr.NotFound(author.Resource)
}

func (f authorsFake) FindOrCreate(_ context.Context, input author.Input) (*author.Author, error) {
	input = input.Normalized()
	for _, row := range f.authors {
		if strings.EqualFold(row.LastName, input.LastName) &&
			strings.EqualFold(pointer.Val(row.FirstName), pointer.Val(input.FirstName)) {
			return row, nil
		}
	}
	return f.addAuthor(input.FirstName, input.LastName), nil
}

type publishersFake struct{ *catalog }

func (f publishersFake) Get(_ context.Context, id int) (*publisher.Publisher, error) {
	if row, ok := f.publishers[id]; ok {
		return row, nil
	}
	return nil, apperr.NotFound(publisher.Resource)
}

func (f publishersFake) FindOrCreate(_ context.Context, name string) (*publisher.Publisher, error) {
	for _, row := range f.publishers {
		if strings.EqualFold(row.Name, strings.TrimSpace(name)) {
			return row, nil
		}
	}
	return f.addNamed(f.publishers, strings.TrimSpace(name)), nil
}

type categoriesFake struct{ *catalog }

func (f categoriesFake) Get(_ context.Context, id int) (*named.Entity, error) {
	if row, ok := f.categories[id]; ok {
		return row, nil
	}
	return nil, apperr.NotFound("Category")
}

type locationsFake struct{ *catalog }

func (f locationsFake) Get(_ context.Context, id int) (*named.Entity, error) {
	if row, ok := f.locations[id]; ok {
		return row, nil
	}
	return nil, apperr.NotFound("Location")
}

func (f locationsFake) Default(_ context.Context) (*named.Entity, error) {
	for _, row := range f.locations {
		if row.Slug == "default" {
			return row, nil
		}
	}
	return nil, apperr.NotFound("Location")
}

// # Repository

// booksFake is an in-memory [book.Repository] that denormalizes rows the
// way the joins do.
type booksFake struct{ *catalog }

func (f booksFake) denormalize(row *book.Book) *book.Book {
	out := *row
	first := f.authors[row.Author1ID]
	out.Author1FirstName, out.Author1LastName, out.Author1Slug = first.FirstName, first.LastName, first.Slug
	out.Author2FirstName, out.Author2LastName, out.Author2Slug = nil, nil, nil
	if row.Author2ID != nil {
		second := f.authors[*row.Author2ID]
		out.Author2FirstName, out.Author2LastName, out.Author2Slug = second.FirstName, &second.LastName, &second.Slug
	}
	out.PublisherName, out.PublisherSlug = f.publishers[row.PublisherID].Name, f.publishers[row.PublisherID].Slug
	out.CategoryName, out.CategorySlug = f.categories[row.CategoryID].Name, f.categories[row.CategoryID].Slug
	out.LocationName, out.LocationSlug = nil, nil
	if row.LocationID != nil {
		location := f.locations[*row.LocationID]
		out.LocationName, out.LocationSlug = &location.Name, &location.Slug
	}
	return &out
}

func (f booksFake) matches(row *book.Book, filter book.Filter) bool {
	row = f.denormalize(row)
	if filter.Title != "" && !strings.Contains(strings.ToLower(row.Title), strings.ToLower(filter.Title)) {
		return false
	}
	if filter.AuthorSlug != "" && row.Author1Slug != filter.AuthorSlug && pointer.Val(row.Author2Slug) != filter.AuthorSlug {
		return false
	}
	if filter.CategorySlug != "" && row.CategorySlug != filter.CategorySlug {
		return false
	}
	return true
}

func (f booksFake) List(_ context.Context, filter book.Filter, limit, offset int) ([]*book.Book, int, error) {
	var matched []*book.Book
	for _, row := range f.books {
		if f.matches(row, filter) {
			matched = append(matched, f.denormalize(row))
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	total := len(matched)
	if offset >= total {
		return []*book.Book{}, total, nil
	}
	end := total
	if limit > 0 && offset+limit < total {
		end = offset + limit
	}
	return matched[offset:end], total, nil
}

func (f booksFake) GetByID(_ context.Context, id int) (*book.Book, error) {
	row, ok := f.books[id]
	if !ok {
		return nil, apperr.NotFound(book.Resource)
	}
	return f.denormalize(row), nil
}

func (f booksFake) Create(ctx context.Context, record book.Record) (*book.Book, error) {
	f.catalog.bookWrites++
	row := &book.Book{
		ID:             f.id(),
		Title:          strings.TrimSpace(record.Title),
		ISBN:           book.NormalizeISBN(record.ISBN),
		Year:           record.Year,
		Pages:          record.Pages,
		Tags:           book.NormalizeTags(record.Tags),
		Author1ID:      record.Author1ID,
		Author2ID:      record.Author2ID,
		PublisherID:    record.PublisherID,
		CategoryID:     record.CategoryID,
		LocationID:     record.LocationID,
		DirectDownload: record.DirectDownload,
		Filename:       record.Filename,
	}
	f.books[row.ID] = row
	return f.GetByID(ctx, row.ID)
}

func (f booksFake) Update(ctx context.Context, id int, patch book.Patch) (*book.Book, error) {
	if patch.Empty() {
		return nil, apperr.ValidationError("No fields to update")
	}
	row, ok := f.books[id]
	if !ok {
		return nil, apperr.NotFound(book.Resource)
	}
	f.catalog.bookWrites++

	if patch.Title != nil {
		row.Title = *patch.Title
	}
	if patch.ISBN != nil {
		row.ISBN = book.NormalizeISBN(patch.ISBN)
	}
	if patch.Author1ID != nil {
		row.Author1ID = *patch.Author1ID
	}
	if patch.ClearAuthor2 {
		row.Author2ID = nil
	} else if patch.Author2ID != nil {
		row.Author2ID = patch.Author2ID
	}
	if patch.PublisherID != nil {
		row.PublisherID = *patch.PublisherID
	}
	if patch.CategoryID != nil {
		row.CategoryID = *patch.CategoryID
	}
	if patch.ClearLocation {
		row.LocationID = nil
	} else if patch.LocationID != nil {
		row.LocationID = patch.LocationID
	}
	return f.GetByID(ctx, id)
}

func (f booksFake) Delete(_ context.Context, id int) (bool, error) {
	if _, ok := f.books[id]; !ok {
		return false, nil
	}
	f.catalog.bookWrites++
	delete(f.books, id)
	return true, nil
}

func (f booksFake) ISBNExists(_ context.Context, value string, excludeID int) (bool, error) {
	normalized := isbn.Normalize(value)
	if normalized == "" {
		return false, nil
	}
	for _, row := range f.books {
		if row.ID != excludeID && pointer.Val(row.ISBN) == normalized {
			return true, nil
		}
	}
	return false, nil
}

// # Links

type linksFake struct{}

func (linksFake) Links(_ context.Context, filename *string, directDownload bool) (*assets.Links, error) {
	if filename == nil {
		return nil, nil
	}
	links := &assets.Links{Cover: "https://cdn.example/covers/" + *filename}
	if directDownload {
		links.Download = "https://cdn.example/books/" + *filename + "?signed"
	}
	return links, nil
}

// # Wiring

type fixture struct {
	*catalog
	service *book.Service
	views   *viewcachetest.Recorder
}

func newFixture(links book.Linker) *fixture {
	c := newCatalog()
	views := &viewcachetest.Recorder{}
	resolver := book.NewResolver(authorsFake{c}, publishersFake{c})
	service := book.NewService(booksFake{c}, resolver, categoriesFake{c}, locationsFake{c}, links, views, quietLogger)
	return &fixture{catalog: c, service: service, views: views}
}

func (c *catalog) defaultLocation() *named.Entity {
	for _, row := range c.locations {
		if row.Slug == "default" {
			return row
		}
	}
	return nil
}
