// Copyright (c) 2026 Qumran. All rights reserved.

package viewcache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrMiss is returned by [Store.Get] when no view is cached under the key.
var ErrMiss = errors.New("viewcache: miss")

// Store is the byte-level storage behind [Cache].
type Store interface {
	Get(context context.Context, key string) ([]byte, error)
	Set(context context.Context, key string, value []byte, ttl time.Duration) error
	DeletePrefix(context context.Context, prefix string) (int, error)
}

// scanBatch is the COUNT hint passed to SCAN.
const scanBatch = 200

// RedisStore implements [Store] on a go-redis client.
type RedisStore struct {
	client redis.UniversalClient
}

// NewRedisStore wraps client.
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

// Get returns the cached bytes or [ErrMiss].
func (store *RedisStore) Get(context context.Context, key string) ([]byte, error) {
	value, err := store.client.Get(context, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("viewcache: get %s: %w", key, err)
	}
	return value, nil
}

// Set stores value under key for ttl.
func (store *RedisStore) Set(context context.Context, key string, value []byte, ttl time.Duration) error {
	if err := store.client.Set(context, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("viewcache: set %s: %w", key, err)
	}
	return nil
}

/*
DeletePrefix removes every key starting with prefix.

Keys are collected with SCAN rather than KEYS so a large cache never blocks
the server, then deleted in batches.

Returns:
  - int: number of keys removed
*/
func (store *RedisStore) DeletePrefix(context context.Context, prefix string) (int, error) {
	iterator := store.client.Scan(context, 0, escapeGlob(prefix)+"*", scanBatch).Iterator()

	removed := 0
	batch := make([]string, 0, scanBatch)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		count, err := store.client.Del(context, batch...).Result()
		if err != nil {
			return fmt.Errorf("viewcache: delete %s*: %w", prefix, err)
		}
		removed += int(count)
		batch = batch[:0]
		return nil
	}

	for iterator.Next(context) {
		batch = append(batch, iterator.Val())
		if len(batch) == scanBatch {
			if err := flush(); err != nil {
				return removed, err
			}
		}
	}
	if err := iterator.Err(); err != nil {
		return removed, fmt.Errorf("viewcache: scan %s*: %w", prefix, err)
	}

	return removed, flush()
}

// escapeGlob quotes the characters MATCH treats as wildcards.
func escapeGlob(s string) string {
	escaped := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '*', '?', '[', ']', '\\':
			escaped = append(escaped, '\\')
		}
		escaped = append(escaped, s[i])
	}
	return string(escaped)
}
