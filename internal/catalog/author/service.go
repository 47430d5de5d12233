// Copyright (c) 2026 Qumran. All rights reserved.

package author

import (
	"context"
	"log/slog"

	"github.com/qumran/qumran/internal/catalog/listing"
	"github.com/qumran/qumran/internal/platform/constants"
	"github.com/qumran/qumran/internal/platform/ctxutil"
	"github.com/qumran/qumran/internal/platform/validate"
	"github.com/qumran/qumran/internal/platform/viewcache"
)

// Service validates author input and keeps cached views in step with writes.
type Service struct {
	repo   Repository
	views  viewcache.Invalidator
	logger *slog.Logger
}

// NewService creates the author service.
func NewService(repo Repository, views viewcache.Invalidator, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		views:  views,
		logger: logger,
	}
}

func (service *Service) List(context context.Context, filter listing.Filter, limit, offset int) ([]*Author, int, error) {
	if err := (&validate.Validator{}).Sort(listing.FieldSort, string(filter.Sort), listing.Sorts...).Err(); err != nil {
		return nil, 0, err
	}

	return service.repo.List(context, filter, limit, offset)
}

func (service *Service) Get(context context.Context, id int) (*Author, error) {
	return service.repo.GetByID(context, id)
}

func (service *Service) GetBySlug(context context.Context, value string) (*Author, error) {
	return service.repo.GetBySlug(context, value)
}

func (service *Service) Create(context context.Context, input Input) (*Author, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	author, err := service.repo.Create(context, input.Normalized())
	if err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "author_created",
		ctxutil.Actor(context),
		slog.Int("author_id", author.ID),
		slog.String("slug", author.Slug),
	)
	service.invalidate(context, "")
	return author, nil
}

func (service *Service) Update(context context.Context, id int, input Input) (*Author, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	author, err := service.repo.Update(context, id, input.Normalized())
	if err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "author_updated", ctxutil.Actor(context), slog.Int("author_id", id))
	service.invalidate(context, author.Slug)
	return author, nil
}

func (service *Service) Delete(context context.Context, id int) error {
	author, err := service.repo.GetByID(context, id)
	if err != nil {
		return err
	}

	if err := service.repo.Delete(context, id); err != nil {
		return err
	}

	service.logger.WarnContext(context, "author_deleted", ctxutil.Actor(context), slog.Int("author_id", id))
	service.invalidate(context, author.Slug)
	return nil
}

/*
FindOrCreate resolves an author named in a book submission.

Two calls with the same names, in any letter case, return the same author.
*/
func (service *Service) FindOrCreate(context context.Context, input Input) (*Author, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	author, created, err := service.repo.FindOrCreate(context, input.Normalized())
	if err != nil {
		return nil, err
	}

	if created {
		service.logger.InfoContext(context, "author_created",
			ctxutil.Actor(context),
			slog.Int("author_id", author.ID),
			slog.String("slug", author.Slug),
			slog.Bool("resolved", true),
		)
		service.invalidate(context, "")
	}
	return author, nil
}

func (service *Service) invalidate(context context.Context, authorSlug string) {
	if err := service.views.Invalidate(context, listing.ViewPaths(constants.PathAuthors, authorSlug)...); err != nil {
		service.logger.WarnContext(context, "view_invalidation_failed",
			slog.String("resource", Resource),
			slog.Any("error", err),
		)
	}
}

func validateInput(input Input) error {
	validator := &validate.Validator{}

	validator.Required(FieldLastName, input.LastName).MaxLen(FieldLastName, input.LastName, MaxNameLength)
	validator.OptionalMaxLen(FieldFirstName, input.FirstName, MaxNameLength)
	if !validator.HasErrors() {
		validator.Nameable(FieldLastName, input.FullName())
	}

	return validator.Err()
}
