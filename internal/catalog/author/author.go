// Copyright (c) 2026 Qumran. All rights reserved.

/*
Package author manages book authors.

An author's natural key is its last name plus optional first name, compared
without regard to case; "no first name" is a key of its own. Book
submissions name authors as free text and resolve them through
[Service.FindOrCreate].
*/
package author

import (
	"strings"
	"time"

	"github.com/qumran/qumran/pkg/pointer"
)

// Author represents a writer credited on one or more books.
type Author struct {
	ID        int       `db:"id" json:"id"`
	FirstName *string   `db:"first_name" json:"first_name"`
	LastName  string    `db:"last_name" json:"last_name"`
	Slug      string    `db:"slug" json:"slug"`
	BookCount int       `db:"book_count" json:"book_count"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Input is the writable part of an [Author].
type Input struct {
	FirstName *string `json:"first_name"`
	LastName  string  `json:"last_name"`
}

// Normalized trims both names and turns a blank first name into none.
func (input Input) Normalized() Input {
	first := pointer.NilIfBlank(input.FirstName)
	if first != nil {
		first = pointer.To(strings.TrimSpace(*first))
	}
	return Input{FirstName: first, LastName: strings.TrimSpace(input.LastName)}
}

// FullName is "first last", or the last name alone.
func (input Input) FullName() string {
	normalized := input.Normalized()
	if normalized.FirstName == nil {
		return normalized.LastName
	}
	return *normalized.FirstName + " " + normalized.LastName
}

// Resource names the entity in messages.
const Resource = "Author"

// Field names for validation.
const (
	FieldFirstName = "first_name"
	FieldLastName  = "last_name"
)

// MaxNameLength bounds each name part.
const MaxNameLength = 200
