// Copyright (c) 2026 Qumran. All rights reserved.

package book

import (
	"context"

	"github.com/qumran/qumran/internal/catalog/author"
	"github.com/qumran/qumran/internal/catalog/named"
	"github.com/qumran/qumran/internal/catalog/publisher"
	"github.com/qumran/qumran/internal/platform/apperr"
	"github.com/qumran/qumran/pkg/pointer"
)

// # References

// AuthorRef names an author in a book submission: by id, or by name for
// find-or-create. An id wins when both are given.
type AuthorRef struct {
	ID        *int    `json:"id"`
	FirstName *string `json:"first_name"`
	LastName  string  `json:"last_name"`
}

// IsZero reports whether the reference names nobody.
func (ref AuthorRef) IsZero() bool {
	return ref.ID == nil && pointer.NilIfBlank(&ref.LastName) == nil
}

// PublisherRef names a publisher by id or by name.
type PublisherRef struct {
	ID   *int   `json:"id"`
	Name string `json:"name"`
}

// IsZero reports whether the reference names nothing.
func (ref PublisherRef) IsZero() bool {
	return ref.ID == nil && pointer.NilIfBlank(&ref.Name) == nil
}

// # Collaborators

// AuthorDirectory is what resolution needs from the author service.
type AuthorDirectory interface {
	Get(ctx context.Context, id int) (*author.Author, error)
	FindOrCreate(ctx context.Context, input author.Input) (*author.Author, error)
}

// PublisherDirectory is what resolution needs from the publisher service.
type PublisherDirectory interface {
	Get(ctx context.Context, id int) (*publisher.Publisher, error)
	FindOrCreate(ctx context.Context, name string) (*publisher.Publisher, error)
}

// EntityDirectory looks up a category or location by id.
type EntityDirectory interface {
	Get(ctx context.Context, id int) (*named.Entity, error)
}

// LocationDirectory adds the fallback location.
type LocationDirectory interface {
	EntityDirectory
	Default(ctx context.Context) (*named.Entity, error)
}

// # Resolver

/*
Resolver turns author and publisher references into entities.

A reference by name goes through find-or-create, so a submission naming a
new author or publisher creates it as a side effect. Those inserts are not
rolled back when the book write later fails.
*/
type Resolver struct {
	authors    AuthorDirectory
	publishers PublisherDirectory
}

// NewResolver creates a resolver over the author and publisher services.
func NewResolver(authors AuthorDirectory, publishers PublisherDirectory) *Resolver {
	return &Resolver{authors: authors, publishers: publishers}
}

/*
Author resolves one reference. field names the submission field in errors.

Returns:
  - *author.Author: the existing or newly created author
  - error: validation error for an unknown id, or the service error
*/
func (resolver *Resolver) Author(context context.Context, field string, ref AuthorRef) (*author.Author, error) {
	if ref.ID != nil {
		found, err := resolver.authors.Get(context, *ref.ID)
		if apperr.HasCode(err, apperr.CodeNotFound) {
			return nil, fieldError(field, "Unknown author")
		}
		return found, err
	}
	return resolver.authors.FindOrCreate(context, author.Input{FirstName: ref.FirstName, LastName: ref.LastName})
}

/*
Authors resolves the primary and optional secondary author and rejects a
secondary author that is the primary one.
*/
func (resolver *Resolver) Authors(context context.Context, primary AuthorRef, secondary *AuthorRef) (*author.Author, *author.Author, error) {
	first, err := resolver.Author(context, FieldAuthor, primary)
	if err != nil {
		return nil, nil, err
	}
	if secondary == nil || secondary.IsZero() {
		return first, nil, nil
	}

	second, err := resolver.Author(context, FieldSecondAuthor, *secondary)
	if err != nil {
		return nil, nil, err
	}
	if second.ID == first.ID {
		return nil, nil, sameAuthor()
	}
	return first, second, nil
}

// Publisher resolves a publisher reference.
func (resolver *Resolver) Publisher(context context.Context, ref PublisherRef) (*publisher.Publisher, error) {
	if ref.ID != nil {
		found, err := resolver.publishers.Get(context, *ref.ID)
		if apperr.HasCode(err, apperr.CodeNotFound) {
			return nil, fieldError(FieldPublisher, "Unknown publisher")
		}
		return found, err
	}
	return resolver.publishers.FindOrCreate(context, ref.Name)
}

func fieldError(field, message string) error {
	return apperr.ValidationError(field+": "+message, apperr.FieldError{Field: field, Message: message})
}

func sameAuthor() error {
	return fieldError(FieldSecondAuthor, "Must differ from the primary author")
}
