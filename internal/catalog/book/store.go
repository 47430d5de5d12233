// Copyright (c) 2026 Qumran. All rights reserved.

package book

import "context"

// Repository defines the data access contract for books.
type Repository interface {
	/*
		List returns one page of books matching filter and the total match count.

		Returns:
		  - []*Book: the page, empty when offset is past the last match
		  - int: total matches over all pages
		  - error: classified store failure
	*/
	List(ctx context.Context, filter Filter, limit, offset int) ([]*Book, int, error)

	// GetByID returns the denormalized book. NotFound when absent.
	GetByID(ctx context.Context, id int) (*Book, error)

	// Create inserts a book and returns it re-read through GetByID.
	Create(ctx context.Context, record Record) (*Book, error)

	/*
		Update applies patch and returns the book re-read through GetByID.

		It fails with a validation error when the patch is empty and with
		NotFound when no book has the id.
	*/
	Update(ctx context.Context, id int, patch Patch) (*Book, error)

	// Delete removes the book and reports whether a row was removed.
	Delete(ctx context.Context, id int) (bool, error)

	// ISBNExists reports whether another book already carries isbn after
	// normalization. A blank isbn never exists. excludeID 0 excludes nothing.
	ISBNExists(ctx context.Context, isbn string, excludeID int) (bool, error)
}
