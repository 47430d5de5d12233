// Copyright (c) 2026 Qumran. All rights reserved.

package redis_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qumran/qumran/internal/platform/redis"
)

func TestParseOptions(t *testing.T) {
	options, err := redis.ParseOptions("redis://:secret@cache.internal:6380/2")
	require.NoError(t, err)

	assert.Equal(t, "cache.internal:6380", options.Addr)
	assert.Equal(t, "secret", options.Password)
	assert.Equal(t, 2, options.DB)
	assert.Equal(t, 10, options.PoolSize)
	assert.Equal(t, 3*time.Second, options.DialTimeout)
	assert.Equal(t, "qumran-api", options.ClientName)
}

func TestParseOptions_TLS(t *testing.T) {
	options, err := redis.ParseOptions("rediss://cache.internal:6380")
	require.NoError(t, err)
	assert.NotNil(t, options.TLSConfig)
}

func TestParseOptions_Invalid(t *testing.T) {
	_, err := redis.ParseOptions("http://not-redis")
	assert.Error(t, err)
}
