// Copyright (c) 2026 Qumran. All rights reserved.

package auth_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/qumran/qumran/internal/platform/apperr"
	"github.com/qumran/qumran/internal/platform/sec"
	"github.com/qumran/qumran/internal/users/account"
	"github.com/qumran/qumran/internal/users/auth"
)

const (
	testIssuer   = "qumran.test"
	testPassword = "correct horse"
)

type usersFake struct {
	byID map[string]*account.User
}

func (users *usersFake) FindByID(_ context.Context, id string) (*account.User, error) {
	if user, ok := users.byID[id]; ok {
		return user, nil
	}
	return nil, apperr.NotFound(account.Resource)
}

func (users *usersFake) FindByLogin(_ context.Context, login string) (*account.User, error) {
	for _, user := range users.byID {
		if strings.EqualFold(user.Username, login) || strings.EqualFold(user.Email, login) {
			return user, nil
		}
	}
	return nil, apperr.NotFound(account.Resource)
}

type sessionsFake struct {
	mu    sync.Mutex
	items map[string]*auth.Session
	ttls  map[string]time.Duration
}

func newSessionsFake() *sessionsFake {
	return &sessionsFake{items: map[string]*auth.Session{}, ttls: map[string]time.Duration{}}
}

func (sessions *sessionsFake) Create(_ context.Context, tokenHash string, session *auth.Session, ttl time.Duration) error {
	sessions.mu.Lock()
	defer sessions.mu.Unlock()
	sessions.items[tokenHash] = session
	sessions.ttls[tokenHash] = ttl
	return nil
}

func (sessions *sessionsFake) Consume(_ context.Context, tokenHash string) (*auth.Session, error) {
	sessions.mu.Lock()
	defer sessions.mu.Unlock()
	session, ok := sessions.items[tokenHash]
	if !ok {
		return nil, apperr.Unauthorized("Invalid or expired refresh token")
	}
	delete(sessions.items, tokenHash)
	return session, nil
}

func (sessions *sessionsFake) Delete(_ context.Context, tokenHash string) error {
	sessions.mu.Lock()
	defer sessions.mu.Unlock()
	delete(sessions.items, tokenHash)
	return nil
}

func (sessions *sessionsFake) count() int {
	sessions.mu.Lock()
	defer sessions.mu.Unlock()
	return len(sessions.items)
}

type fixture struct {
	service  *auth.Service
	tokens   *sec.TokenService
	users    *usersFake
	sessions *sessionsFake
	editor   *account.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	hash, err := sec.HashPassword(testPassword)
	require.NoError(t, err)

	editor := &account.User{
		ID:           "0190-editor",
		Username:     "librarian",
		Email:        "lib@example.org",
		PasswordHash: hash,
		Role:         sec.RoleEditor,
	}
	users := &usersFake{byID: map[string]*account.User{editor.ID: editor}}
	sessions := newSessionsFake()
	tokens := newTokenService(t)

	return &fixture{
		service:  auth.NewService(users, sessions, tokens, slog.New(slog.NewTextHandler(io.Discard, nil))),
		tokens:   tokens,
		users:    users,
		sessions: sessions,
		editor:   editor,
	}
}

func newTokenService(t *testing.T) *sec.TokenService {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	privatePEM := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)})
	publicDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	publicPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: publicDER})

	service, err := sec.NewTokenServiceFromPEM(privatePEM, publicPEM, testIssuer)
	require.NoError(t, err)
	return service
}
