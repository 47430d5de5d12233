// Copyright (c) 2026 Qumran. All rights reserved.

/*
Package book manages the catalog's books: the filtered, sorted and paginated
listing, the denormalized single-book view and the create/update flows that
resolve free-text author and publisher names into entities.

Every row is returned with the names and slugs of its authors, publisher,
category and location joined in, so callers never need a second lookup.
*/
package book

import (
	"net/url"
	"strings"
	"time"

	"github.com/qumran/qumran/internal/platform/assets"
	"github.com/qumran/qumran/internal/platform/constants"
	"github.com/qumran/qumran/pkg/isbn"
	"github.com/qumran/qumran/pkg/query"
	"github.com/qumran/qumran/pkg/slice"
)

// Resource names the entity in messages.
const Resource = "Book"

// # Domain Entities

// Book is a catalog entry with its referenced entities denormalized.
type Book struct {
	ID          int      `db:"id" json:"id"`
	Title       string   `db:"title" json:"title"`
	ISBN        *string  `db:"isbn" json:"isbn"`
	Year        *int     `db:"year" json:"year"`
	Pages       *int     `db:"pages" json:"pages"`
	Description *string  `db:"description" json:"description"`
	Tags        []string `db:"tags" json:"tags"`

	Author1ID        int     `db:"author1_id" json:"author1_id"`
	Author1FirstName *string `db:"author1_first_name" json:"author1_first_name"`
	Author1LastName  string  `db:"author1_last_name" json:"author1_last_name"`
	Author1Slug      string  `db:"author1_slug" json:"author1_slug"`

	// Secondary author; all nil when the book has one author.
	Author2ID        *int    `db:"author2_id" json:"author2_id"`
	Author2FirstName *string `db:"author2_first_name" json:"author2_first_name"`
	Author2LastName  *string `db:"author2_last_name" json:"author2_last_name"`
	Author2Slug      *string `db:"author2_slug" json:"author2_slug"`

	PublisherID   int    `db:"publisher_id" json:"publisher_id"`
	PublisherName string `db:"publisher_name" json:"publisher_name"`
	PublisherSlug string `db:"publisher_slug" json:"publisher_slug"`

	CategoryID   int    `db:"category_id" json:"category_id"`
	CategoryName string `db:"category_name" json:"category_name"`
	CategorySlug string `db:"category_slug" json:"category_slug"`

	LocationID   *int    `db:"location_id" json:"location_id"`
	LocationName *string `db:"location_name" json:"location_name"`
	LocationSlug *string `db:"location_slug" json:"location_slug"`

	ExternalLink   *string `db:"external_link" json:"external_link"`
	DirectDownload bool    `db:"dir_dwl" json:"dir_dwl"`
	Filename       *string `db:"filename" json:"filename"`
	CID            *string `db:"cid" json:"cid"`

	// Links is filled by the service for single-book views when the
	// object store is configured.
	Links *assets.Links `db:"-" json:"links,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Slugs returns the slugs of every entity the book references, keyed by
// the collection path they live under.
func (book *Book) Slugs() map[string][]string {
	authors := []string{book.Author1Slug}
	if book.Author2Slug != nil {
		authors = append(authors, *book.Author2Slug)
	}
	slugs := map[string][]string{
		constants.PathAuthors:    authors,
		constants.PathPublishers: {book.PublisherSlug},
		constants.PathCategories: {book.CategorySlug},
	}
	if book.LocationSlug != nil {
		slugs[constants.PathLocations] = []string{*book.LocationSlug}
	}
	return slugs
}

// Record is the full column set of a new book, with references already
// resolved to ids.
type Record struct {
	Title          string
	ISBN           *string
	Year           *int
	Pages          *int
	Description    *string
	Tags           []string
	Author1ID      int
	Author2ID      *int
	PublisherID    int
	CategoryID     int
	LocationID     *int
	ExternalLink   *string
	DirectDownload bool
	Filename       *string
	CID            *string
}

/*
Patch is a partial update. Nil fields are left untouched; the set of
updatable columns is closed.

ISBN, Description, ExternalLink, Filename and CID are cleared by an empty
string. ClearAuthor2 and ClearLocation drop the optional references.
*/
type Patch struct {
	Title          *string
	ISBN           *string
	Year           *int
	Pages          *int
	Description    *string
	Tags           *[]string
	Author1ID      *int
	Author2ID      *int
	ClearAuthor2   bool
	PublisherID    *int
	CategoryID     *int
	LocationID     *int
	ClearLocation  bool
	ExternalLink   *string
	DirectDownload *bool
	Filename       *string
	CID            *string
}

// Empty reports whether the patch changes nothing.
func (patch Patch) Empty() bool {
	return patch == (Patch{})
}

// # Filtering

// Sort orders a book listing.
type Sort string

const (
	SortAuthor      Sort = "author"
	SortAuthorDesc  Sort = "-author"
	SortTitle       Sort = "title"
	SortTitleDesc   Sort = "-title"
	SortCreated     Sort = "created_at"
	SortCreatedDesc Sort = "-created_at"
)

// Sorts lists the accepted sort values.
var Sorts = []string{
	string(SortAuthor), string(SortAuthorDesc),
	string(SortTitle), string(SortTitleDesc),
	string(SortCreated), string(SortCreatedDesc),
}

// Descending reports whether s orders from last to first.
func (s Sort) Descending() bool {
	return strings.HasPrefix(string(s), "-")
}

// Filter holds the parameters of a book search. Zero fields do not filter.
type Filter struct {
	// Title is a case-insensitive substring of the title.
	Title string
	// AuthorSlug matches the primary or the secondary author.
	AuthorSlug    string
	PublisherSlug string
	CategorySlug  string
	LocationSlug  string
	// Tags must all be present on a book.
	Tags []string
	Sort Sort
}

/*
FilterFromQuery reads a book filter from a query string.

Each field accepts the spellings older links still use: "authslug" or
"authorSlug", "pubslug" or "publisherSlug", "catslug" or "categorySlug",
"locslug" or "locationSlug", "tags" or "tag" (comma separated) and "q" or
"title".
*/
func FilterFromQuery(values url.Values) Filter {
	tags := query.StringSlice(query.First(values, "tags", "tag"))
	return Filter{
		Title:         query.First(values, "q", "title"),
		AuthorSlug:    query.First(values, "authorSlug", "authslug", "author"),
		PublisherSlug: query.First(values, "publisherSlug", "pubslug", "publisher"),
		CategorySlug:  query.First(values, "categorySlug", "catslug", "category"),
		LocationSlug:  query.First(values, "locationSlug", "locslug", "location"),
		Tags:          NormalizeTags(tags),
		Sort:          Sort(query.First(values, "sort")),
	}
}

// NormalizeTags trims tags, drops blanks and duplicates, keeping the first
// spelling seen.
func NormalizeTags(tags []string) []string {
	trimmed := slice.Filter(slice.Map(tags, strings.TrimSpace), func(tag string) bool { return tag != "" })
	return slice.UniqueBy(trimmed, strings.ToLower)
}

// NormalizeISBN returns the stored form of an ISBN, or nil when it is blank.
func NormalizeISBN(value *string) *string {
	if value == nil {
		return nil
	}
	normalized := isbn.Normalize(*value)
	if normalized == "" {
		return nil
	}
	return &normalized
}

// Field names for validation.
const (
	FieldTitle        = "title"
	FieldISBN         = "isbn"
	FieldYear         = "year"
	FieldPages        = "pages"
	FieldDescription  = "description"
	FieldTags         = "tags"
	FieldAuthor       = "author"
	FieldSecondAuthor = "second_author"
	FieldPublisher    = "publisher"
	FieldCategory     = "category_id"
	FieldLocation     = "location_id"
	FieldExternalLink = "external_link"
	FieldFilename     = "filename"
	FieldCID          = "cid"
)

// Input limits.
const (
	MaxTitleLength       = 500
	MaxDescriptionLength = 10000
	MaxTags              = 30
	MaxTagLength         = 60
	MaxFilenameLength    = 255
	MinYear              = -3000
	MaxYear              = 2100
	MaxPages             = 100000
)
