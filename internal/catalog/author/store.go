// Copyright (c) 2026 Qumran. All rights reserved.

package author

import (
	"context"

	"github.com/qumran/qumran/internal/catalog/listing"
)

// Repository defines the data access contract for authors.
type Repository interface {

	/*
		List returns one page of authors matching filter, with their book
		counts, and the total number of matches.

		Parameters:
		  - context: context.Context
		  - filter: substring of the first or last name, and the sort
		  - limit: page size; 0 returns every match
		  - offset: rows to skip

		Returns:
		  - []*Author: the page
		  - int: total matches
		  - error: classified store failure
	*/
	List(context context.Context, filter listing.Filter, limit, offset int) ([]*Author, int, error)

	/*
		GetByID returns the author with the given id.

		Returns:
		  - error: NOT_FOUND when no row matched
	*/
	GetByID(context context.Context, id int) (*Author, error)

	/*
		GetBySlug returns the author with the given slug.

		Returns:
		  - error: NOT_FOUND when no row matched
	*/
	GetBySlug(context context.Context, slug string) (*Author, error)

	/*
		Create inserts an author under a unique slug derived from its full
		name.

		Returns:
		  - error: CONFLICT when the natural key already exists
	*/
	Create(context context.Context, input Input) (*Author, error)

	/*
		Update replaces both names. The slug does not change.

		Returns:
		  - error: NOT_FOUND when no row matched
	*/
	Update(context context.Context, id int, input Input) (*Author, error)

	/*
		Delete removes the author.

		Returns:
		  - error: NOT_FOUND when no row matched, REFERENCED while books
		    credit the author
	*/
	Delete(context context.Context, id int) error

	/*
		FindOrCreate returns the author matching the natural key of input,
		creating it when absent.

		Returns:
		  - *Author: the existing or new row
		  - bool: true when this call created the row
		  - error: classified store failure
	*/
	FindOrCreate(context context.Context, input Input) (*Author, bool, error)
}
