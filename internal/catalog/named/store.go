// Copyright (c) 2026 Qumran. All rights reserved.

package named

import (
	"context"

	"github.com/qumran/qumran/internal/catalog/listing"
)

// Repository defines the data access contract of a named entity table.
type Repository interface {

	/*
		List returns one page of entities matching filter, with their book
		counts, and the total number of matches.

		Parameters:
		  - limit: page size; 0 returns every match
		  - offset: rows to skip
	*/
	List(context context.Context, filter listing.Filter, limit, offset int) ([]*Entity, int, error)

	// GetByID returns the entity or a NOT_FOUND error.
	GetByID(context context.Context, id int) (*Entity, error)

	// GetBySlug returns the entity or a NOT_FOUND error.
	GetBySlug(context context.Context, slug string) (*Entity, error)

	// Create inserts a new entity under a unique slug derived from name.
	Create(context context.Context, name string) (*Entity, error)

	// Update renames the entity. Its slug does not change.
	Update(context context.Context, id int, name string) (*Entity, error)

	/*
		Delete removes the entity.

		Returns:
		  - error: NOT_FOUND when no row matched, REFERENCED while books
		    still point at it
	*/
	Delete(context context.Context, id int) error
}
