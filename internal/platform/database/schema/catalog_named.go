// Copyright (c) 2026 Qumran. All rights reserved.

package schema

// NamedTable describes the name+slug tables: publishers, categories and
// locations share one shape.
type NamedTable struct {
	Table     string
	ID        string
	Name      string
	Slug      string
	CreatedAt string
	UpdatedAt string
	// BookFK is the books column referencing this table.
	BookFK string
}

// Publisher is the schema definition for publishers.
var Publisher = NamedTable{
	Table:     "publishers",
	ID:        "id",
	Name:      "name",
	Slug:      "slug",
	CreatedAt: "created_at",
	UpdatedAt: "updated_at",
	BookFK:    "publisher_id",
}

// Category is the schema definition for categories.
var Category = NamedTable{
	Table:     "categories",
	ID:        "id",
	Name:      "name",
	Slug:      "slug",
	CreatedAt: "created_at",
	UpdatedAt: "updated_at",
	BookFK:    "category_id",
}

// Location is the schema definition for locations.
var Location = NamedTable{
	Table:     "locations",
	ID:        "id",
	Name:      "name",
	Slug:      "slug",
	CreatedAt: "created_at",
	UpdatedAt: "updated_at",
	BookFK:    "location_id",
}
