// Copyright (c) 2026 Qumran. All rights reserved.

package schema

// AuthorTable represents the 'authors' table.
type AuthorTable struct {
	Table         string
	ID            string
	FirstName     string
	LastName      string
	Slug          string
	SortLastName  string
	SortFirstName string
	CreatedAt     string
	UpdatedAt     string
}

// Author is the schema definition for authors.
var Author = AuthorTable{
	Table:         "authors",
	ID:            "id",
	FirstName:     "first_name",
	LastName:      "last_name",
	Slug:          "slug",
	SortLastName:  "sort_last_name",
	SortFirstName: "sort_first_name",
	CreatedAt:     "created_at",
	UpdatedAt:     "updated_at",
}
