// Copyright (c) 2026 Qumran. All rights reserved.

// Package category manages the small, mostly fixed book taxonomy.
package category

import (
	"log/slog"

	"github.com/qumran/qumran/internal/catalog/named"
	"github.com/qumran/qumran/internal/platform/constants"
	"github.com/qumran/qumran/internal/platform/database/schema"
	"github.com/qumran/qumran/internal/platform/postgres"
	"github.com/qumran/qumran/internal/platform/viewcache"
)

// Category is a taxonomy entry with its computed book count.
type Category = named.Entity

// Resource names the entity in messages.
const Resource = "Category"

// NewPostgresRepository creates the category repository.
func NewPostgresRepository(db *postgres.DB) *named.PostgresRepository {
	return named.NewPostgresRepository(db, schema.Category, Resource)
}

// NewService creates the category service.
func NewService(repo named.Repository, views viewcache.Invalidator, logger *slog.Logger) *named.Service {
	return named.NewService(repo, views, logger, Resource, constants.PathCategories)
}

// NewHandler serves the category routes.
func NewHandler(service named.Operations) *named.Handler {
	return named.NewHandler(service, Resource)
}
