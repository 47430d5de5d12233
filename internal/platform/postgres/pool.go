// Copyright (c) 2026 Qumran. All rights reserved.

// Package postgres provides the managed PostgreSQL connection pool and the
// statement helper used by every catalog repository.
//
// # Architecture
//
// The pool is constructed once in main and injected into repositories; there
// is no package-level connection state.
package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/qumran/qumran/internal/platform/constants"
)

const (
	maxConnLifetime   = 60 * time.Minute
	maxConnIdleTime   = 10 * time.Minute
	healthCheckPeriod = 1 * time.Minute
	connectTimeout    = 5 * time.Second
	pingTimeout       = 2 * time.Second
)

// PoolConfig holds the deployment-specific pool settings.
//
// The catalog is read-mostly and every request issues at most a count and a
// page query, so small pools go a long way: the API defaults to 10
// connections and cmd/admin uses 2.
type PoolConfig struct {
	DSN      string
	MaxConns int32
	MinConns int32

	// ApplicationName shows up in pg_stat_activity; empty means AppName.
	ApplicationName string

	// StatementTimeout is enforced by the server on every statement; zero
	// means the API request timeout.
	StatementTimeout time.Duration
}

// ParseConfig turns cfg into a pgxpool configuration without connecting.
func ParseConfig(cfg PoolConfig, logger *slog.Logger) (*pgxpool.Config, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("postgres: invalid DSN: %w", err)
	}

	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}
	poolConfig.MinConns = min(cfg.MinConns, poolConfig.MaxConns)
	poolConfig.MaxConnLifetime = maxConnLifetime
	poolConfig.MaxConnIdleTime = maxConnIdleTime
	poolConfig.HealthCheckPeriod = healthCheckPeriod
	poolConfig.ConnConfig.ConnectTimeout = connectTimeout
	poolConfig.ConnConfig.Tracer = NewTracer(logger)

	name := cfg.ApplicationName
	if name == "" {
		name = constants.AppName
	}
	timeout := cfg.StatementTimeout
	if timeout <= 0 {
		timeout = constants.GlobalRequestTimeout
	}

	// Sent in the startup packet, so no extra round trip per connection.
	poolConfig.ConnConfig.RuntimeParams["application_name"] = name
	poolConfig.ConnConfig.RuntimeParams["statement_timeout"] = strconv.FormatInt(timeout.Milliseconds(), 10)

	return poolConfig, nil
}

// NewPool connects the pool and pings it once.
func NewPool(ctx context.Context, cfg PoolConfig, logger *slog.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := ParseConfig(cfg, logger)
	if err != nil {
		return nil, err
	}

	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("postgres: create pool: %w", err)
	}

	if err := Ping(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	logger.Info("postgres_pool_connected",
		slog.String("application_name", poolConfig.ConnConfig.RuntimeParams["application_name"]),
		slog.Int("max_conns", int(poolConfig.MaxConns)),
		slog.Int("min_conns", int(poolConfig.MinConns)),
	)

	return pool, nil
}

// Ping backs the /ready check.
func Ping(ctx context.Context, pool *pgxpool.Pool) error {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		return fmt.Errorf("postgres: ping failed: %w", err)
	}
	return nil
}
