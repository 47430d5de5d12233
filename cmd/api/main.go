// Copyright (c) 2026 Qumran. All rights reserved.

// Command api serves the public catalog and the dashboard API.
//
// Startup connects Postgres and Redis, migrates the schema, wires the catalog
// services and listens until SIGINT or SIGTERM. Any startup failure exits 1.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/qumran/qumran/internal/api"
	"github.com/qumran/qumran/internal/catalog/author"
	"github.com/qumran/qumran/internal/catalog/book"
	"github.com/qumran/qumran/internal/catalog/category"
	"github.com/qumran/qumran/internal/catalog/location"
	"github.com/qumran/qumran/internal/catalog/publisher"
	"github.com/qumran/qumran/internal/platform/assets"
	"github.com/qumran/qumran/internal/platform/config"
	"github.com/qumran/qumran/internal/platform/constants"
	"github.com/qumran/qumran/internal/platform/migration"
	pgstore "github.com/qumran/qumran/internal/platform/postgres"
	redisstore "github.com/qumran/qumran/internal/platform/redis"
	"github.com/qumran/qumran/internal/platform/sec"
	"github.com/qumran/qumran/internal/platform/viewcache"
	"github.com/qumran/qumran/internal/users/account"
	"github.com/qumran/qumran/internal/users/auth"
)

func main() {
	log := newLogger(slog.LevelInfo)
	slog.SetDefault(log)

	log.Info("service_initializing", slog.String("version", constants.AppVersion))

	// ── Config ────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.Bool("storage", cfg.StorageEnabled()),
	)

	startupCtx, startupCancel := context.WithTimeout(context.Background(), constants.StartupTimeout)
	defer startupCancel()

	// ── Stores ────────────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, pgstore.PoolConfig{
		DSN:      cfg.DatabaseURL,
		MaxConns: cfg.DBMaxConns,
		MinConns: cfg.DBMinConns,
	}, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing_postgres_pool")
		pool.Close()
	}()

	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing_redis_client")
		if err := rdb.Close(); err != nil {
			log.Error("redis_close_failed", slog.Any("error", err))
		}
	}()

	_, err = migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log)
	must(log, err, "run migrations")

	db := pgstore.NewDB(pool)
	if !db.SelfTest(startupCtx, log) {
		must(log, errors.New("self test query failed"), "verify postgres")
	}

	tokens, err := sec.NewTokenService(cfg.JWTPrivKeyPath, cfg.JWTPubKeyPath, constants.AuthIssuer)
	must(log, err, "load signing keys")

	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		"postgres": func(ctx context.Context) error { return pgstore.Ping(ctx, pool) },
		"redis":    func(ctx context.Context) error { return redisstore.Ping(ctx, rdb) },
	}, log)

	// ── Catalog ───────────────────────────────────────────────────────────
	views := viewcache.New(viewcache.NewRedisStore(rdb), cfg.ViewCacheTTL, log)

	authorService := author.NewService(author.NewPostgresRepository(db), views, log)
	publisherService := publisher.NewService(publisher.NewPostgresRepository(db), views, log)
	categoryService := category.NewService(category.NewPostgresRepository(db), views, log)
	locationService := location.NewService(location.NewPostgresRepository(db), views, log, cfg.DefaultLocationSlug)

	// A nil *assets.Linker must not reach the service as a non-nil interface.
	var links book.Linker
	if cfg.StorageEnabled() {
		linker, err := assets.NewLinker(assets.Config{
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			UseSSL:    cfg.S3UseSSL,
			LinkTTL:   cfg.AssetLinkTTL,
		})
		must(log, err, "initialize asset links")
		links = linker
	}

	bookService := book.NewService(
		book.NewPostgresRepository(db),
		book.NewResolver(authorService, publisherService),
		categoryService,
		locationService,
		links,
		views,
		log,
	)

	authService := auth.NewService(account.NewPostgresRepository(db), auth.NewSessionRepository(rdb), tokens, log)

	// ── HTTP ──────────────────────────────────────────────────────────────
	// ctx ends on the first SIGINT or SIGTERM; a second one kills the process.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server := api.NewServer(ctx, cfg, log, tokens, api.Handlers{
		Liveness:   liveness,
		Readiness:  readiness,
		Auth:       auth.NewHandler(authService),
		Views:      views.Middleware,
		Books:      book.NewHandler(bookService),
		Authors:    author.NewHandler(authorService),
		Publishers: publisher.NewHandler(publisherService),
		Categories: category.NewHandler(categoryService),
		Locations:  location.NewHandler(locationService),
	})

	listenErr := make(chan error, 1)
	go func() {
		log.Info("server_listening", slog.String("port", cfg.ServerPort))
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			listenErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		stop()
		log.Info("shutdown_requested", slog.Duration("timeout", constants.ShutdownTimeout))
	case err := <-listenErr:
		log.Error("server_listen_failed", slog.Any("error", err))
	}

	if err := server.Shutdown(constants.ShutdownTimeout); err != nil {
		log.Error("shutdown_failed", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server_stopped_cleanly")
}

// newLogger builds the JSON process logger tagged with the app name.
func newLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})).
		With(slog.String("app", constants.AppName))
}

// must ends startup with exit code 1 when err is set.
func must(log *slog.Logger, err error, step string) {
	if err == nil {
		return
	}
	log.Error("startup_failed", slog.String("step", step), slog.Any("error", err))
	os.Exit(1)
}
