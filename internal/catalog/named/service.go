// Copyright (c) 2026 Qumran. All rights reserved.

package named

import (
	"context"
	"log/slog"
	"strings"

	"github.com/qumran/qumran/internal/catalog/listing"
	"github.com/qumran/qumran/internal/platform/ctxutil"
	"github.com/qumran/qumran/internal/platform/validate"
	"github.com/qumran/qumran/internal/platform/viewcache"
)

// Operations is the behaviour a [Handler] serves. [*Service] implements it;
// wrapping packages may override single methods.
type Operations interface {
	List(context context.Context, filter listing.Filter, limit, offset int) ([]*Entity, int, error)
	Get(context context.Context, id int) (*Entity, error)
	GetBySlug(context context.Context, slug string) (*Entity, error)
	Create(context context.Context, input Input) (*Entity, error)
	Update(context context.Context, id int, input Input) (*Entity, error)
	Delete(context context.Context, id int) error
}

// Service validates input and keeps cached views in step with writes.
type Service struct {
	repo     Repository
	views    viewcache.Invalidator
	logger   *slog.Logger
	resource string
	path     string
}

/*
NewService creates the service for one entity type.

Parameters:
  - resource: entity name used in messages and log events ("Publisher")
  - path: collection path below the API root (constants.PathPublishers)
*/
func NewService(repo Repository, views viewcache.Invalidator, logger *slog.Logger, resource, path string) *Service {
	return &Service{
		repo:     repo,
		views:    views,
		logger:   logger,
		resource: resource,
		path:     path,
	}
}

// List validates the filter and returns one page of entities.
func (service *Service) List(context context.Context, filter listing.Filter, limit, offset int) ([]*Entity, int, error) {
	if err := ValidateFilter(filter); err != nil {
		return nil, 0, err
	}
	return service.repo.List(context, filter, limit, offset)
}

func (service *Service) Get(context context.Context, id int) (*Entity, error) {
	return service.repo.GetByID(context, id)
}

func (service *Service) GetBySlug(context context.Context, value string) (*Entity, error) {
	return service.repo.GetBySlug(context, value)
}

func (service *Service) Create(context context.Context, input Input) (*Entity, error) {
	if err := ValidateInput(input); err != nil {
		return nil, err
	}

	entity, err := service.repo.Create(context, input.Name)
	if err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, service.event("created"),
		ctxutil.Actor(context),
		slog.Int("id", entity.ID),
		slog.String("slug", entity.Slug),
	)
	service.Invalidate(context, "")
	return entity, nil
}

func (service *Service) Update(context context.Context, id int, input Input) (*Entity, error) {
	if err := ValidateInput(input); err != nil {
		return nil, err
	}

	entity, err := service.repo.Update(context, id, input.Name)
	if err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, service.event("updated"), ctxutil.Actor(context), slog.Int("id", id))
	service.Invalidate(context, entity.Slug)
	return entity, nil
}

func (service *Service) Delete(context context.Context, id int) error {
	entity, err := service.repo.GetByID(context, id)
	if err != nil {
		return err
	}

	if err := service.repo.Delete(context, id); err != nil {
		return err
	}

	service.logger.WarnContext(context, service.event("deleted"), ctxutil.Actor(context), slog.Int("id", id))
	service.Invalidate(context, entity.Slug)
	return nil
}

// Invalidate drops the cached views touched by a write to this entity type.
// A cache failure never fails the write that triggered it; it is logged.
func (service *Service) Invalidate(context context.Context, entitySlug string) {
	if err := service.views.Invalidate(context, listing.ViewPaths(service.path, entitySlug)...); err != nil {
		service.logger.WarnContext(context, "view_invalidation_failed",
			slog.String("resource", service.resource),
			slog.Any("error", err),
		)
	}
}

// Resource returns the entity name used in messages.
func (service *Service) Resource() string {
	return service.resource
}

func (service *Service) event(action string) string {
	return strings.ToLower(service.resource) + "_" + action
}

// # Validation

// ValidateInput checks a name before any store access.
func ValidateInput(input Input) error {
	validator := &validate.Validator{}

	validator.Required(FieldName, input.Name).MaxLen(FieldName, input.Name, MaxNameLength).Nameable(FieldName, input.Name)

	return validator.Err()
}

// ValidateFilter checks the listing sort.
func ValidateFilter(filter listing.Filter) error {
	return (&validate.Validator{}).Sort(listing.FieldSort, string(filter.Sort), listing.Sorts...).Err()
}
