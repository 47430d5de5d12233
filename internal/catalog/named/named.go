// Copyright (c) 2026 Qumran. All rights reserved.

/*
Package named implements the catalog entities that are nothing more than a
name and a slug: publishers, categories and locations.

Each of those packages wraps the repository, service and handler defined
here and adds its own behaviour (publisher find-or-create, the protected
default location).
*/
package named

import "time"

// Entity is a named catalog entry with its computed book count.
type Entity struct {
	ID        int       `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Slug      string    `db:"slug" json:"slug"`
	BookCount int       `db:"book_count" json:"book_count"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Input is the writable part of an [Entity].
type Input struct {
	Name string `json:"name"`
}

// Field names for validation.
const (
	FieldName = "name"
)

// MaxNameLength bounds every entity name.
const MaxNameLength = 200
