// Copyright (c) 2026 Qumran. All rights reserved.

package auth

import (
	"context"
	"time"

	"github.com/qumran/qumran/internal/users/account"
)

// # Domain Entities

// Session is an issued refresh token, stored under the digest of the token.
type Session struct {
	UserID    string
	UserAgent string
	IPAddress string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// # Data Access

// UserFinder is the part of the account store authentication needs.
type UserFinder interface {
	FindByID(context context.Context, id string) (*account.User, error)
	FindByLogin(context context.Context, login string) (*account.User, error)
}

// SessionRepository stores refresh sessions keyed by token digest.
type SessionRepository interface {

	/*
		Create stores a session that expires after ttl.

		Parameters:
		  - tokenHash: digest of the refresh token, never the token itself
	*/
	Create(context context.Context, tokenHash string, session *Session, ttl time.Duration) error

	/*
		Consume returns the session and removes it in one step, so a refresh
		token can be exchanged at most once.

		Returns:
		  - error: apperr.Unauthorized when the session is absent or expired
	*/
	Consume(context context.Context, tokenHash string) (*Session, error)

	// Delete removes the session if present.
	Delete(context context.Context, tokenHash string) error
}
