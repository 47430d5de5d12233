// Copyright (c) 2026 Qumran. All rights reserved.

package auth

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/qumran/qumran/internal/platform/apperr"
	"github.com/qumran/qumran/internal/platform/constants"
)

// Hash fields of a stored session.
const (
	sessionUserID    = "user_id"
	sessionUserAgent = "user_agent"
	sessionIPAddress = "ip_address"
	sessionCreatedAt = "created_at"
	sessionExpiresAt = "expires_at"
)

// RedisSessionRepository implements [SessionRepository] with one hash per
// session under [constants.RedisPrefixSession].
type RedisSessionRepository struct {
	client redis.UniversalClient
}

// NewSessionRepository creates a Redis-backed [SessionRepository].
func NewSessionRepository(client redis.UniversalClient) *RedisSessionRepository {
	return &RedisSessionRepository{client: client}
}

// SessionKey is the Redis key holding the session for a token digest.
func SessionKey(tokenHash string) string {
	return constants.RedisPrefixSession + tokenHash
}

/*
Create stores the session hash and its TTL in one MULTI block.
*/
func (repository *RedisSessionRepository) Create(context context.Context, tokenHash string, session *Session, ttl time.Duration) error {
	key := SessionKey(tokenHash)

	_, err := repository.client.TxPipelined(context, func(pipe redis.Pipeliner) error {
		pipe.HSet(context, key, map[string]any{
			sessionUserID:    session.UserID,
			sessionUserAgent: session.UserAgent,
			sessionIPAddress: session.IPAddress,
			sessionCreatedAt: session.CreatedAt.Unix(),
			sessionExpiresAt: session.ExpiresAt.Unix(),
		})
		pipe.Expire(context, key, ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis_session_create_failed: %w", err)
	}
	return nil
}

/*
Consume reads and deletes the session in one MULTI block. Of two concurrent
refreshes with the same token only one sees the session.

Returns:
  - error: apperr.Unauthorized when the session is absent or expired
*/
func (repository *RedisSessionRepository) Consume(context context.Context, tokenHash string) (*Session, error) {
	key := SessionKey(tokenHash)

	var read *redis.MapStringStringCmd
	_, err := repository.client.TxPipelined(context, func(pipe redis.Pipeliner) error {
		read = pipe.HGetAll(context, key)
		pipe.Del(context, key)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("redis_session_consume_failed: %w", err)
	}

	values := read.Val()
	if values[sessionUserID] == "" {
		return nil, apperr.Unauthorized("Invalid or expired refresh token")
	}

	return &Session{
		UserID:    values[sessionUserID],
		UserAgent: values[sessionUserAgent],
		IPAddress: values[sessionIPAddress],
		CreatedAt: unixField(values[sessionCreatedAt]),
		ExpiresAt: unixField(values[sessionExpiresAt]),
	}, nil
}

// Delete removes the session if present.
func (repository *RedisSessionRepository) Delete(context context.Context, tokenHash string) error {
	if err := repository.client.Del(context, SessionKey(tokenHash)).Err(); err != nil {
		return fmt.Errorf("redis_session_delete_failed: %w", err)
	}
	return nil
}

func unixField(value string) time.Time {
	seconds, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.Unix(seconds, 0)
}
