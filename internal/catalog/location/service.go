// Copyright (c) 2026 Qumran. All rights reserved.

package location

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/qumran/qumran/internal/catalog/named"
	"github.com/qumran/qumran/internal/platform/apperr"
	"github.com/qumran/qumran/internal/platform/constants"
	"github.com/qumran/qumran/internal/platform/viewcache"
)

// Service adds the default-location rules to the named-entity service.
type Service struct {
	*named.Service
	repo        named.Repository
	defaultSlug string
}

// NewService creates the location service. defaultSlug identifies the
// default location.
func NewService(repo named.Repository, views viewcache.Invalidator, logger *slog.Logger, defaultSlug string) *Service {
	return &Service{
		Service:     named.NewService(repo, views, logger, Resource, constants.PathLocations),
		repo:        repo,
		defaultSlug: defaultSlug,
	}
}

// Default returns the location books fall back to.
func (service *Service) Default(context context.Context) (*Location, error) {
	location, err := service.repo.GetBySlug(context, service.defaultSlug)
	if apperr.HasCode(err, apperr.CodeNotFound) {
		return nil, apperr.Internal(fmt.Errorf("location: default location %q is missing: %w", service.defaultSlug, err))
	}
	return location, err
}

// Delete removes a location unless it is the default one.
func (service *Service) Delete(context context.Context, id int) error {
	location, err := service.repo.GetByID(context, id)
	if err != nil {
		return err
	}
	if location.Slug == service.defaultSlug {
		return apperr.Conflict("The default location cannot be deleted")
	}

	return service.Service.Delete(context, id)
}
