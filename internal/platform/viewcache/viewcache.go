// Copyright (c) 2026 Qumran. All rights reserved.

/*
Package viewcache caches rendered public GET responses in Redis.

Each response body is stored under "view:<path>?<query>". Catalog services
call [Invalidator.Invalidate] after every successful mutation with the path
prefixes whose content changed, so a cached list never outlives the write
that made it stale.
*/
package viewcache

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/qumran/qumran/internal/platform/constants"
	"github.com/qumran/qumran/internal/platform/ctxutil"
)

// Cache status values written to the X-Cache header.
const (
	StatusHit  = "HIT"
	StatusMiss = "MISS"
)

// Invalidator drops cached views under the given path prefixes.
type Invalidator interface {
	Invalidate(context context.Context, paths ...string) error
}

// Cache serves and stores rendered views.
type Cache struct {
	store  Store
	ttl    time.Duration
	logger *slog.Logger
}

// New creates a cache whose entries live for ttl.
func New(store Store, ttl time.Duration, logger *slog.Logger) *Cache {
	return &Cache{store: store, ttl: ttl, logger: logger}
}

// Key returns the storage key of a request path and raw query.
func Key(path, rawQuery string) string {
	return constants.RedisPrefixView + path + "?" + rawQuery
}

// Invalidate removes every cached view whose path starts with one of paths.
//
// All prefixes are attempted; the joined error reports the ones that failed.
func (cache *Cache) Invalidate(context context.Context, paths ...string) error {
	var errs []error
	for _, path := range paths {
		removed, err := cache.store.DeletePrefix(context, constants.RedisPrefixView+path)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if removed > 0 {
			cache.logger.DebugContext(context, "views_invalidated",
				slog.String("path", path),
				slog.Int("removed", removed),
			)
		}
	}
	return errors.Join(errs...)
}

// Middleware answers GET requests from the cache and stores fresh 200
// responses. Cache failures are logged and the request is served normally.
func (cache *Cache) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if request.Method != http.MethodGet {
			next.ServeHTTP(writer, request)
			return
		}

		context := request.Context()
		logger := ctxutil.GetLogger(context)
		key := Key(request.URL.Path, request.URL.RawQuery)

		body, err := cache.store.Get(context, key)
		switch {
		case err == nil:
			writer.Header().Set("Content-Type", "application/json; charset=utf-8")
			writer.Header().Set(constants.HeaderCache, StatusHit)
			writer.WriteHeader(http.StatusOK)
			_, _ = writer.Write(body)
			return
		case !errors.Is(err, ErrMiss):
			logger.WarnContext(context, "view_cache_read_failed", slog.Any("error", err))
		}

		writer.Header().Set(constants.HeaderCache, StatusMiss)
		recorder := &bodyRecorder{ResponseWriter: writer, status: http.StatusOK}
		next.ServeHTTP(recorder, request)

		if recorder.status != http.StatusOK {
			return
		}
		if err := cache.store.Set(context, key, recorder.body.Bytes(), cache.ttl); err != nil {
			logger.WarnContext(context, "view_cache_write_failed", slog.Any("error", err))
		}
	})
}

// bodyRecorder tees the response body while it is written to the client.
type bodyRecorder struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (recorder *bodyRecorder) WriteHeader(code int) {
	recorder.status = code
	recorder.ResponseWriter.WriteHeader(code)
}

func (recorder *bodyRecorder) Write(p []byte) (int, error) {
	recorder.body.Write(p)
	return recorder.ResponseWriter.Write(p)
}
