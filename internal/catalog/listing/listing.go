// Copyright (c) 2026 Qumran. All rights reserved.

/*
Package listing holds what the author, publisher, category and location
listings have in common: the search filter, the sort enum, the ordering it
produces and the way a list is written back to the client.
*/
package listing

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"

	"github.com/qumran/qumran/internal/platform/constants"
	"github.com/qumran/qumran/internal/platform/respond"
	"github.com/qumran/qumran/pkg/pagination"
	"github.com/qumran/qumran/pkg/query"
)

// BookCount is the alias of the computed book count column.
const BookCount = "book_count"

// Sort orders an entity listing.
type Sort string

const (
	SortName          Sort = "name"
	SortNameDesc      Sort = "-name"
	SortBookCount     Sort = "book_count"
	SortBookCountDesc Sort = "-book_count"
)

// Sorts lists the accepted sort values, for validation messages.
var Sorts = []string{string(SortName), string(SortNameDesc), string(SortBookCount), string(SortBookCountDesc)}

// FieldSort and FieldQuery are the validated filter fields.
const (
	FieldSort  = "sort"
	FieldQuery = "q"
)

// Filter holds the parameters of an entity search.
type Filter struct {
	// Query is a case-insensitive substring of the name.
	Query string
	Sort  Sort
}

// FilterFromQuery reads "q" (alias "name") and "sort" from a query string.
func FilterFromQuery(values url.Values) Filter {
	return Filter{
		Query: query.First(values, "q", "name"),
		Sort:  Sort(query.First(values, "sort")),
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Contains returns the ILIKE pattern matching s anywhere, with the LIKE
// wildcards in s escaped.
func Contains(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

/*
Order turns a sort into ORDER BY terms.

names are the name columns in significance order (an author passes last
name then first name). The id is always the final tiebreak so that repeated
queries return the same order. An empty sort means [SortName].
*/
func (s Sort) Order(id exp.Orderable, names ...exp.Orderable) []exp.OrderedExpression {
	count := goqu.C(BookCount)

	terms := make([]exp.OrderedExpression, 0, len(names)+2)
	switch s {
	case SortNameDesc:
		for _, name := range names {
			terms = append(terms, name.Desc())
		}
		return append(terms, id.Desc())
	case SortBookCount:
		terms = append(terms, count.Asc())
	case SortBookCountDesc:
		terms = append(terms, count.Desc())
	}

	for _, name := range names {
		terms = append(terms, name.Asc())
	}
	return append(terms, id.Asc())
}

// # Views

/*
ViewPaths lists the cached view prefixes a write to an entity type makes
stale: its public and dashboard listings, the book views that embed its
names and, when entitySlug is set, the entity's own page.

path is the collection path below the API root, e.g. constants.PathAuthors.
*/
func ViewPaths(path, entitySlug string) []string {
	paths := []string{
		constants.PathAPI + path,
		constants.PathDashboard + path,
		constants.PathAPI + constants.PathBooks,
	}
	if entitySlug != "" {
		paths = append(paths, constants.PathAPI+path+"/"+entitySlug)
	}
	return paths
}

// # HTTP

// Window reads the requested page. When the client asked for none, the whole
// listing is returned: limit and offset are both zero.
func Window(request *http.Request) (params pagination.Params, limit, offset int, paginated bool) {
	params = pagination.FromRequest(request)
	if !pagination.Requested(request) {
		return params, 0, 0, false
	}
	return params, params.Limit, params.Offset(), true
}

// Write renders a listing: the paginated envelope when a page was requested,
// the plain {items, total} payload otherwise.
func Write[T any](writer http.ResponseWriter, items []T, total int, params pagination.Params, paginated bool) {
	if items == nil {
		items = []T{}
	}
	if !paginated {
		respond.List(writer, items, total)
		return
	}
	respond.Paginated(writer, items, params.Meta(total))
}
