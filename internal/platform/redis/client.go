// Copyright (c) 2026 Qumran. All rights reserved.

/*
Package redis provides the managed client for volatile catalog data.

Two concerns live in Redis: the rendered public list views (see viewcache)
and the hashed dashboard refresh sessions. Both carry a TTL, so losing the
instance costs a cold cache and a re-login, never catalog data.
*/
package redis

import (
	stdctx "context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/qumran/qumran/internal/platform/constants"
)

const (
	dialTimeout  = 3 * time.Second
	readTimeout  = 2 * time.Second
	writeTimeout = 2 * time.Second
	pingTimeout  = 2 * time.Second

	// A cached view is a single GET or SET; viewcache.Invalidate adds SCAN
	// batches. Ten connections cover both with the request concurrency the
	// API runs at.
	poolSize     = 10
	minIdleConns = 2
	maxIdleConns = 5
)

// NewClient connects to redisURL and pings it once, so a misconfigured cache
// fails startup rather than the first request.
func NewClient(context stdctx.Context, redisURL string, logger *slog.Logger) (*redis.Client, error) {
	options, err := ParseOptions(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(options)

	if err := Ping(context, client); err != nil {
		_ = client.Close()
		return nil, err
	}

	logger.Info("redis_client_connected",
		slog.String("addr", options.Addr),
		slog.Int("pool_size", options.PoolSize),
	)

	return client, nil
}

// ParseOptions turns a redis:// or rediss:// URL into tuned client options.
// Connections are named after the app so CLIENT LIST tells them apart from
// other tenants of a shared instance.
func ParseOptions(redisURL string) (*redis.Options, error) {
	options, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: invalid URL: %w", err)
	}

	options.ClientName = constants.AppName
	options.PoolSize = poolSize
	options.MinIdleConns = minIdleConns
	options.MaxIdleConns = maxIdleConns

	options.DialTimeout = dialTimeout
	options.ReadTimeout = readTimeout
	options.WriteTimeout = writeTimeout

	return options, nil
}

// Ping backs the /ready check.
func Ping(context stdctx.Context, client redis.UniversalClient) error {
	pingCtx, cancel := stdctx.WithTimeout(context, pingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		return fmt.Errorf("redis: ping failed: %w", err)
	}

	return nil
}
