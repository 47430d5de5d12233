// Copyright (c) 2026 Qumran. All rights reserved.

/*
Package auth signs dashboard users in and out.

Access tokens are short-lived RS256 JWTs verified by middleware.Authenticate.
Refresh tokens are random strings handed to the browser in an httpOnly
cookie; Redis keeps only their SHA-256 digest. Every refresh consumes the old
session and issues a new one.
*/
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/qumran/qumran/internal/platform/apperr"
	"github.com/qumran/qumran/internal/platform/sec"
	"github.com/qumran/qumran/internal/users/account"
)

// # Contracts & Types

// TokenProvider signs access tokens.
type TokenProvider interface {
	GenerateAccessToken(principal sec.Principal, ttl time.Duration) (string, error)
}

// Service implements the dashboard authentication use cases.
type Service struct {
	users    UserFinder
	sessions SessionRepository
	tokens   TokenProvider
	logger   *slog.Logger
	now      func() time.Time
}

// NewService constructs a new [Service].
func NewService(users UserFinder, sessions SessionRepository, tokens TokenProvider, logger *slog.Logger) *Service {
	return &Service{
		users:    users,
		sessions: sessions,
		tokens:   tokens,
		logger:   logger,
		now:      time.Now,
	}
}

// LoginInput holds the credentials of a sign-in attempt.
type LoginInput struct {
	Login     string // username or email
	Password  string
	UserAgent string
	IPAddress string
}

// LoginSession is a freshly issued token pair.
type LoginSession struct {
	AccessToken           string
	RefreshToken          string
	RefreshTokenExpiresAt time.Time
	User                  *account.User
}

// # Authentication Flow

/*
Login verifies credentials and opens a session.

Unknown logins and wrong passwords produce the same Unauthorized error.
*/
func (service *Service) Login(context context.Context, input LoginInput) (*LoginSession, error) {
	user, err := service.users.FindByLogin(context, input.Login)
	if err != nil {
		if apperr.HasCode(err, apperr.CodeNotFound) {
			service.logger.WarnContext(context, "login_failed", slog.String("reason", "unknown_login"))
			return nil, invalidCredentials()
		}
		return nil, err
	}

	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		service.logger.WarnContext(context, "login_failed",
			slog.String("reason", "wrong_password"),
			slog.String("user_id", user.ID),
		)
		return nil, invalidCredentials()
	}

	session, err := service.issue(context, user, input.UserAgent, input.IPAddress)
	if err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "login_succeeded",
		slog.String("user_id", user.ID),
		slog.String("role", string(user.Role)),
	)
	return session, nil
}

/*
Refresh exchanges a refresh token for a new token pair.

The presented token is consumed before anything else, so it is dead even
when the rest of the exchange fails.
*/
func (service *Service) Refresh(context context.Context, refreshToken, userAgent, ipAddress string) (*LoginSession, error) {
	previous, err := service.sessions.Consume(context, sec.HashToken(refreshToken))
	if err != nil {
		return nil, err
	}

	user, err := service.users.FindByID(context, previous.UserID)
	if err != nil {
		if apperr.HasCode(err, apperr.CodeNotFound) {
			return nil, apperr.Unauthorized("Account no longer exists")
		}
		return nil, err
	}

	return service.issue(context, user, userAgent, ipAddress)
}

// Logout revokes the session of refreshToken. Unknown tokens are not an error.
func (service *Service) Logout(context context.Context, refreshToken string) error {
	if err := service.sessions.Delete(context, sec.HashToken(refreshToken)); err != nil {
		return fmt.Errorf("auth_service_logout_failed: %w", err)
	}
	return nil
}

// Me returns the account behind an access token.
func (service *Service) Me(context context.Context, userID string) (*account.User, error) {
	return service.users.FindByID(context, userID)
}

// # Helpers

func (service *Service) issue(context context.Context, user *account.User, userAgent, ipAddress string) (*LoginSession, error) {
	accessToken, err := service.tokens.GenerateAccessToken(sec.Principal{UserID: user.ID, Username: user.Username, Role: user.Role}, AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	refreshToken, err := sec.GenerateSecureToken(RefreshTokenLength)
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_token_failed: %w", err)
	}

	now := service.now()
	session := &Session{
		UserID:    user.ID,
		UserAgent: userAgent,
		IPAddress: ipAddress,
		CreatedAt: now,
		ExpiresAt: now.Add(RefreshTokenTTL),
	}
	if err := service.sessions.Create(context, sec.HashToken(refreshToken), session, RefreshTokenTTL); err != nil {
		return nil, fmt.Errorf("auth_service_session_creation_failed: %w", err)
	}

	return &LoginSession{
		AccessToken:           accessToken,
		RefreshToken:          refreshToken,
		RefreshTokenExpiresAt: session.ExpiresAt,
		User:                  user,
	}, nil
}

func invalidCredentials() error {
	return apperr.Unauthorized("Invalid login credentials")
}
