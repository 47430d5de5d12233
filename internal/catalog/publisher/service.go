// Copyright (c) 2026 Qumran. All rights reserved.

package publisher

import (
	"context"
	"log/slog"

	"github.com/qumran/qumran/internal/catalog/named"
	"github.com/qumran/qumran/internal/platform/constants"
	"github.com/qumran/qumran/internal/platform/ctxutil"
	"github.com/qumran/qumran/internal/platform/viewcache"
)

// Service adds publisher resolution to the named-entity service.
type Service struct {
	*named.Service
	repo   Repository
	logger *slog.Logger
}

// NewService creates the publisher service.
func NewService(repo Repository, views viewcache.Invalidator, logger *slog.Logger) *Service {
	return &Service{
		Service: named.NewService(repo, views, logger, Resource, constants.PathPublishers),
		repo:    repo,
		logger:  logger,
	}
}

// FindOrCreate validates name and resolves it to a publisher, creating one
// when no publisher has that name.
func (service *Service) FindOrCreate(context context.Context, name string) (*Publisher, error) {
	if err := named.ValidateInput(Input{Name: name}); err != nil {
		return nil, err
	}

	entity, created, err := service.repo.FindOrCreate(context, name)
	if err != nil {
		return nil, err
	}

	if created {
		service.logger.InfoContext(context, "publisher_created",
			ctxutil.Actor(context),
			slog.Int("id", entity.ID),
			slog.String("slug", entity.Slug),
			slog.Bool("resolved", true),
		)
		service.Invalidate(context, "")
	}
	return entity, nil
}
