// Copyright (c) 2026 Qumran. All rights reserved.

package book

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/qumran/qumran/internal/platform/apperr"
	"github.com/qumran/qumran/internal/platform/assets"
	"github.com/qumran/qumran/internal/platform/constants"
	"github.com/qumran/qumran/internal/platform/ctxutil"
	"github.com/qumran/qumran/internal/platform/validate"
	"github.com/qumran/qumran/internal/platform/viewcache"
	"github.com/qumran/qumran/pkg/pagination"
	"github.com/qumran/qumran/pkg/pointer"
)

// # Submissions

// Input is a new book as submitted by the dashboard.
type Input struct {
	Title          string       `json:"title"`
	ISBN           *string      `json:"isbn"`
	Year           *int         `json:"year"`
	Pages          *int         `json:"pages"`
	Description    *string      `json:"description"`
	Tags           []string     `json:"tags"`
	Author         AuthorRef    `json:"author"`
	SecondAuthor   *AuthorRef   `json:"second_author"`
	Publisher      PublisherRef `json:"publisher"`
	CategoryID     int          `json:"category_id"`
	LocationID     *int         `json:"location_id"`
	ExternalLink   *string      `json:"external_link"`
	DirectDownload bool         `json:"dir_dwl"`
	Filename       *string      `json:"filename"`
	CID            *string      `json:"cid"`
}

// Changes is a partial edit. Absent fields keep their value.
type Changes struct {
	Title              *string       `json:"title"`
	ISBN               *string       `json:"isbn"`
	Year               *int          `json:"year"`
	Pages              *int          `json:"pages"`
	Description        *string       `json:"description"`
	Tags               *[]string     `json:"tags"`
	Author             *AuthorRef    `json:"author"`
	SecondAuthor       *AuthorRef    `json:"second_author"`
	RemoveSecondAuthor bool          `json:"remove_second_author"`
	Publisher          *PublisherRef `json:"publisher"`
	CategoryID         *int          `json:"category_id"`
	LocationID         *int          `json:"location_id"`
	RemoveLocation     bool          `json:"remove_location"`
	ExternalLink       *string       `json:"external_link"`
	DirectDownload     *bool         `json:"dir_dwl"`
	Filename           *string       `json:"filename"`
	CID                *string       `json:"cid"`
}

// Linker builds asset links for a book's filename.
type Linker interface {
	Links(ctx context.Context, filename *string, directDownload bool) (*assets.Links, error)
}

// # Service

// Service orchestrates book reads and writes: validation, reference
// resolution, the ISBN check and view invalidation.
type Service struct {
	repo       Repository
	resolver   *Resolver
	categories EntityDirectory
	locations  LocationDirectory
	links      Linker
	views      viewcache.Invalidator
	logger     *slog.Logger
}

/*
NewService creates the book service.

links may be nil when no object store is configured; books are then served
without asset links.
*/
func NewService(
	repo Repository,
	resolver *Resolver,
	categories EntityDirectory,
	locations LocationDirectory,
	links Linker,
	views viewcache.Invalidator,
	logger *slog.Logger,
) *Service {
	return &Service{
		repo:       repo,
		resolver:   resolver,
		categories: categories,
		locations:  locations,
		links:      links,
		views:      views,
		logger:     logger,
	}
}

/*
List returns one page of a book search.

Parameters:
  - context: context.Context
  - filter: Filter
  - params: pagination.Params (1-based page and page size)

Returns:
  - pagination.Page[*Book]: items plus total and total pages; a page past
    the end has no items but the same totals
  - error: validation error for an unknown sort, or a store failure
*/
func (service *Service) List(context context.Context, filter Filter, params pagination.Params) (pagination.Page[*Book], error) {
	validator := (&validate.Validator{}).Sort("sort", string(filter.Sort), Sorts...)
	if err := validator.Err(); err != nil {
		return pagination.Page[*Book]{}, err
	}

	books, total, err := service.repo.List(context, filter, params.Limit, params.Offset())
	if err != nil {
		return pagination.Page[*Book]{}, err
	}
	return pagination.NewPage(books, total, params), nil
}

// Get returns one book with its asset links.
func (service *Service) Get(context context.Context, id int) (*Book, error) {
	book, err := service.repo.GetByID(context, id)
	if err != nil {
		return nil, err
	}
	service.attachLinks(context, book)
	return book, nil
}

/*
Create validates and stores a new book.

Authors and the publisher named by text are found or created first, then a
missing location falls back to the default one, then the ISBN is checked
for duplicates.
*/
func (service *Service) Create(context context.Context, input Input) (*Book, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	primary, secondary, err := service.resolver.Authors(context, input.Author, input.SecondAuthor)
	if err != nil {
		return nil, err
	}
	publisher, err := service.resolver.Publisher(context, input.Publisher)
	if err != nil {
		return nil, err
	}
	if err := service.checkCategory(context, input.CategoryID); err != nil {
		return nil, err
	}
	locationID, err := service.location(context, input.LocationID)
	if err != nil {
		return nil, err
	}
	if err := service.checkISBN(context, input.ISBN, 0); err != nil {
		return nil, err
	}

	record := Record{
		Title:          input.Title,
		ISBN:           input.ISBN,
		Year:           input.Year,
		Pages:          input.Pages,
		Description:    input.Description,
		Tags:           input.Tags,
		Author1ID:      primary.ID,
		PublisherID:    publisher.ID,
		CategoryID:     input.CategoryID,
		LocationID:     &locationID,
		ExternalLink:   input.ExternalLink,
		DirectDownload: input.DirectDownload,
		Filename:       input.Filename,
		CID:            input.CID,
	}
	if secondary != nil {
		record.Author2ID = &secondary.ID
	}

	book, err := service.repo.Create(context, record)
	if err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "book_created",
		ctxutil.Actor(context),
		slog.Int("book_id", book.ID),
		slog.String("title", book.Title),
	)
	service.invalidate(context, book)
	return book, nil
}

/*
Update applies a partial edit.

References are resolved only when present. The primary and secondary
author are compared after merging with the stored book, so an edit can
never leave both slots on the same author.
*/
func (service *Service) Update(context context.Context, id int, changes Changes) (*Book, error) {
	if err := validateChanges(changes); err != nil {
		return nil, err
	}

	existing, err := service.repo.GetByID(context, id)
	if err != nil {
		return nil, err
	}

	patch, err := service.patch(context, existing, changes)
	if err != nil {
		return nil, err
	}
	if err := service.checkISBN(context, changes.ISBN, id); err != nil {
		return nil, err
	}

	book, err := service.repo.Update(context, id, patch)
	if err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "book_updated", ctxutil.Actor(context), slog.Int("book_id", id))
	service.invalidate(context, existing, book)
	return book, nil
}

// Delete removes a book.
func (service *Service) Delete(context context.Context, id int) error {
	existing, err := service.repo.GetByID(context, id)
	if err != nil {
		return err
	}

	deleted, err := service.repo.Delete(context, id)
	if err != nil {
		return err
	}
	if !deleted {
		return apperr.NotFound(Resource)
	}

	service.logger.WarnContext(context, "book_deleted",
		ctxutil.Actor(context),
		slog.Int("book_id", id),
		slog.String("title", existing.Title),
	)
	service.invalidate(context, existing)
	return nil
}

// # Helpers

func (service *Service) patch(context context.Context, existing *Book, changes Changes) (Patch, error) {
	patch := Patch{
		Title:          changes.Title,
		ISBN:           changes.ISBN,
		Year:           changes.Year,
		Pages:          changes.Pages,
		Description:    changes.Description,
		Tags:           changes.Tags,
		ExternalLink:   changes.ExternalLink,
		DirectDownload: changes.DirectDownload,
		Filename:       changes.Filename,
		CID:            changes.CID,
		ClearAuthor2:   changes.RemoveSecondAuthor,
		ClearLocation:  changes.RemoveLocation,
	}

	if changes.Author != nil {
		primary, err := service.resolver.Author(context, FieldAuthor, *changes.Author)
		if err != nil {
			return Patch{}, err
		}
		patch.Author1ID = &primary.ID
	}
	if !changes.RemoveSecondAuthor && changes.SecondAuthor != nil && !changes.SecondAuthor.IsZero() {
		secondary, err := service.resolver.Author(context, FieldSecondAuthor, *changes.SecondAuthor)
		if err != nil {
			return Patch{}, err
		}
		patch.Author2ID = &secondary.ID
	}

	primaryID := pointer.Fallback(patch.Author1ID, existing.Author1ID)
	secondaryID := patch.Author2ID
	if secondaryID == nil && !patch.ClearAuthor2 {
		secondaryID = existing.Author2ID
	}
	if secondaryID != nil && *secondaryID == primaryID {
		return Patch{}, sameAuthor()
	}

	if changes.Publisher != nil {
		publisher, err := service.resolver.Publisher(context, *changes.Publisher)
		if err != nil {
			return Patch{}, err
		}
		patch.PublisherID = &publisher.ID
	}
	if changes.CategoryID != nil {
		if err := service.checkCategory(context, *changes.CategoryID); err != nil {
			return Patch{}, err
		}
		patch.CategoryID = changes.CategoryID
	}
	if !changes.RemoveLocation && changes.LocationID != nil {
		if _, err := service.location(context, changes.LocationID); err != nil {
			return Patch{}, err
		}
		patch.LocationID = changes.LocationID
	}

	return patch, nil
}

func (service *Service) checkCategory(context context.Context, id int) error {
	_, err := service.categories.Get(context, id)
	if apperr.HasCode(err, apperr.CodeNotFound) {
		return fieldError(FieldCategory, "Unknown category")
	}
	return err
}

// location returns id when that location exists, or the default location
// when id is nil.
func (service *Service) location(context context.Context, id *int) (int, error) {
	if id == nil {
		fallback, err := service.locations.Default(context)
		if err != nil {
			return 0, err
		}
		return fallback.ID, nil
	}

	found, err := service.locations.Get(context, *id)
	if apperr.HasCode(err, apperr.CodeNotFound) {
		return 0, fieldError(FieldLocation, "Unknown location")
	}
	if err != nil {
		return 0, err
	}
	return found.ID, nil
}

// checkISBN rejects an ISBN another book already carries. A nil or blank
// ISBN passes.
func (service *Service) checkISBN(context context.Context, value *string, excludeID int) error {
	normalized := NormalizeISBN(value)
	if normalized == nil {
		return nil
	}

	exists, err := service.repo.ISBNExists(context, *normalized, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return apperr.Conflict(fmt.Sprintf("A book with ISBN %s already exists", *normalized))
	}
	return nil
}

func (service *Service) attachLinks(context context.Context, book *Book) {
	if service.links == nil {
		return
	}
	links, err := service.links.Links(context, book.Filename, book.DirectDownload)
	if err != nil {
		service.logger.WarnContext(context, "book_links_failed",
			slog.Int("book_id", book.ID),
			slog.Any("error", err),
		)
		return
	}
	book.Links = links
}

/*
ViewPaths lists the cached views a write to books makes stale: the book
listings, every entity listing (their book counts change) and the pages of
the entities the given books reference.
*/
func ViewPaths(books ...*Book) []string {
	paths := []string{
		constants.PathAPI + constants.PathBooks,
		constants.PathDashboard + constants.PathBooks,
	}
	for _, collection := range []string{constants.PathAuthors, constants.PathPublishers, constants.PathCategories, constants.PathLocations} {
		paths = append(paths, constants.PathAPI+collection, constants.PathDashboard+collection)
	}
	for _, book := range books {
		for collection, slugs := range book.Slugs() {
			for _, entitySlug := range slugs {
				paths = append(paths, constants.PathAPI+collection+"/"+entitySlug)
			}
		}
	}

	slices.Sort(paths)
	return slices.Compact(paths)
}

func (service *Service) invalidate(context context.Context, books ...*Book) {
	if err := service.views.Invalidate(context, ViewPaths(books...)...); err != nil {
		service.logger.WarnContext(context, "view_invalidation_failed",
			slog.String("resource", Resource),
			slog.Any("error", err),
		)
	}
}

// # Validation

func validateInput(input Input) error {
	validator := &validate.Validator{}

	validator.Required(FieldTitle, input.Title).MaxLen(FieldTitle, input.Title, MaxTitleLength)
	validator.Custom(FieldAuthor, input.Author.IsZero(), "Provide an author id or last name")
	validator.Custom(FieldPublisher, input.Publisher.IsZero(), "Provide a publisher id or name")
	validator.Positive(FieldCategory, input.CategoryID)
	validateOptional(validator, optionalFields{
		isbn:         input.ISBN,
		year:         input.Year,
		pages:        input.Pages,
		description:  input.Description,
		tags:         input.Tags,
		externalLink: input.ExternalLink,
		filename:     input.Filename,
		cid:          input.CID,
	})

	return validator.Err()
}

func validateChanges(changes Changes) error {
	if changes == (Changes{}) {
		return apperr.ValidationError("No fields to update")
	}

	validator := &validate.Validator{}
	if changes.Title != nil {
		validator.Required(FieldTitle, *changes.Title).MaxLen(FieldTitle, *changes.Title, MaxTitleLength)
	}
	if changes.Author != nil {
		validator.Custom(FieldAuthor, changes.Author.IsZero(), "Provide an author id or last name")
	}
	if changes.Publisher != nil {
		validator.Custom(FieldPublisher, changes.Publisher.IsZero(), "Provide a publisher id or name")
	}
	if changes.CategoryID != nil {
		validator.Positive(FieldCategory, *changes.CategoryID)
	}
	validateOptional(validator, optionalFields{
		isbn:         changes.ISBN,
		year:         changes.Year,
		pages:        changes.Pages,
		description:  changes.Description,
		tags:         pointer.Val(changes.Tags),
		externalLink: changes.ExternalLink,
		filename:     changes.Filename,
		cid:          changes.CID,
	})

	return validator.Err()
}

type optionalFields struct {
	isbn         *string
	year         *int
	pages        *int
	description  *string
	tags         []string
	externalLink *string
	filename     *string
	cid          *string
}

func validateOptional(validator *validate.Validator, fields optionalFields) {
	validator.
		OptionalISBN(FieldISBN, fields.isbn).
		OptionalRange(FieldYear, fields.year, MinYear, MaxYear).
		OptionalRange(FieldPages, fields.pages, 1, MaxPages).
		OptionalMaxLen(FieldDescription, fields.description, MaxDescriptionLength).
		Tags(FieldTags, fields.tags, MaxTags, MaxTagLength).
		OptionalURL(FieldExternalLink, fields.externalLink).
		OptionalMaxLen(FieldFilename, fields.filename, MaxFilenameLength).
		OptionalMaxLen(FieldCID, fields.cid, MaxFilenameLength)
}
