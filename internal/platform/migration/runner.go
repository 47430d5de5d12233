// Copyright (c) 2026 Qumran. All rights reserved.

// Package migration applies the versioned SQL files under data/migrations.
//
// Both binaries call [RunUp] before touching the catalog: the API at startup
// and cmd/admin before provisioning an account, so a fresh database gets the
// catalog tables, the default location and the users table in one step.
package migration

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	// Registers the "pgx5" database scheme.
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	// Registers the "file" source scheme.
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// Result reports the schema version before and after a run.
type Result struct {
	From uint
	To   uint
}

// Applied reports whether the run changed the schema.
func (result Result) Applied() bool {
	return result.From != result.To
}

// RunUp applies every pending migration from dir to the database at dsn.
//
// A dirty schema (a migration that failed halfway) stops the run; it needs a
// manual `migrate force` after the database has been repaired.
func RunUp(dsn, dir string, logger *slog.Logger) (Result, error) {
	migrator, err := migrate.New("file://"+dir, ToPgx5DSN(dsn))
	if err != nil {
		return Result{}, fmt.Errorf("migration: open %s: %w", dir, err)
	}
	defer func() {
		sourceErr, databaseErr := migrator.Close()
		if err := errors.Join(sourceErr, databaseErr); err != nil {
			logger.Warn("migration_close_failed", slog.Any("error", err))
		}
	}()
	migrator.Log = migrateLogger{logger: logger}

	from, err := version(migrator)
	if err != nil {
		return Result{}, err
	}

	if err := migrator.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return Result{From: from, To: from}, fmt.Errorf("migration: up from version %d: %w", from, err)
	}

	to, err := version(migrator)
	if err != nil {
		return Result{From: from, To: from}, err
	}

	result := Result{From: from, To: to}
	if result.Applied() {
		logger.Info("migration_applied", slog.Uint64("from_version", uint64(from)), slog.Uint64("to_version", uint64(to)))
	} else {
		logger.Info("migration_up_to_date", slog.Uint64("version", uint64(to)))
	}
	return result, nil
}

// version treats an empty schema as version 0.
func version(migrator *migrate.Migrate) (uint, error) {
	current, dirty, err := migrator.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		return 0, nil
	case err != nil:
		return 0, fmt.Errorf("migration: read version: %w", err)
	case dirty:
		return current, fmt.Errorf("migration: schema is dirty at version %d", current)
	}
	return current, nil
}

// ToPgx5DSN rewrites postgres:// and postgresql:// URLs to the pgx5:// scheme
// the golang-migrate driver registers. Other values are returned unchanged.
func ToPgx5DSN(dsn string) string {
	for _, prefix := range []string{"postgres://", "postgresql://"} {
		if rest, ok := strings.CutPrefix(dsn, prefix); ok {
			return "pgx5://" + rest
		}
	}
	return dsn
}

type migrateLogger struct {
	logger *slog.Logger
}

func (l migrateLogger) Printf(format string, args ...any) {
	l.logger.Debug("migration_step", slog.String("detail", strings.TrimSpace(fmt.Sprintf(format, args...))))
}

func (l migrateLogger) Verbose() bool {
	return false
}
