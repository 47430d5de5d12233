// Copyright (c) 2026 Qumran. All rights reserved.

package location

import (
	"github.com/qumran/qumran/internal/catalog/named"
	"github.com/qumran/qumran/internal/platform/database/schema"
	"github.com/qumran/qumran/internal/platform/postgres"
)

// NewPostgresRepository creates the location repository.
func NewPostgresRepository(db *postgres.DB) *named.PostgresRepository {
	return named.NewPostgresRepository(db, schema.Location, Resource)
}
