// Copyright (c) 2026 Qumran. All rights reserved.

package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qumran/qumran/internal/platform/apperr"
	"github.com/qumran/qumran/internal/platform/sec"
	"github.com/qumran/qumran/internal/users/auth"
)

func TestLogin_ByUsernameOrEmail(t *testing.T) {
	f := newFixture(t)

	for _, login := range []string{"librarian", "LIB@example.org"} {
		session, err := f.service.Login(context.Background(), auth.LoginInput{
			Login:     login,
			Password:  testPassword,
			UserAgent: "test",
			IPAddress: "10.0.0.1",
		})
		require.NoError(t, err, login)

		claims, err := f.tokens.VerifyToken(session.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, f.editor.ID, claims.UserID)
		assert.Equal(t, string(sec.RoleEditor), claims.Role)
		assert.NotEmpty(t, session.RefreshToken)
		assert.Equal(t, f.editor.ID, session.User.ID)
	}
	assert.Equal(t, 2, f.sessions.count())
}

func TestLogin_StoresDigestOnly(t *testing.T) {
	f := newFixture(t)

	session, err := f.service.Login(context.Background(), auth.LoginInput{Login: "librarian", Password: testPassword})
	require.NoError(t, err)

	_, plain := f.sessions.items[session.RefreshToken]
	assert.False(t, plain)

	digest := sec.HashToken(session.RefreshToken)
	require.Contains(t, f.sessions.items, digest)
	assert.Equal(t, auth.RefreshTokenTTL, f.sessions.ttls[digest])
	assert.Equal(t, session.RefreshTokenExpiresAt, f.sessions.items[digest].ExpiresAt)
}

func TestLogin_SameErrorForUnknownAndWrongPassword(t *testing.T) {
	f := newFixture(t)

	_, unknown := f.service.Login(context.Background(), auth.LoginInput{Login: "nobody", Password: testPassword})
	_, wrong := f.service.Login(context.Background(), auth.LoginInput{Login: "librarian", Password: "wrong password"})

	require.Error(t, unknown)
	require.Error(t, wrong)
	assert.True(t, apperr.HasCode(unknown, apperr.CodeUnauthorized))
	assert.Equal(t, unknown.Error(), wrong.Error())
	assert.Zero(t, f.sessions.count())
}

func TestRefresh_RotatesAndRejectsReuse(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.service.Login(ctx, auth.LoginInput{Login: "librarian", Password: testPassword})
	require.NoError(t, err)

	second, err := f.service.Refresh(ctx, first.RefreshToken, "test", "10.0.0.1")
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)
	assert.Equal(t, 1, f.sessions.count())

	_, err = f.service.Refresh(ctx, first.RefreshToken, "test", "10.0.0.1")
	assert.True(t, apperr.HasCode(err, apperr.CodeUnauthorized))
}

func TestRefresh_DeletedAccount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	session, err := f.service.Login(ctx, auth.LoginInput{Login: "librarian", Password: testPassword})
	require.NoError(t, err)
	delete(f.users.byID, f.editor.ID)

	_, err = f.service.Refresh(ctx, session.RefreshToken, "", "")
	assert.True(t, apperr.HasCode(err, apperr.CodeUnauthorized))
	assert.Zero(t, f.sessions.count())
}

func TestLogout(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	session, err := f.service.Login(ctx, auth.LoginInput{Login: "librarian", Password: testPassword})
	require.NoError(t, err)

	require.NoError(t, f.service.Logout(ctx, session.RefreshToken))
	require.NoError(t, f.service.Logout(ctx, session.RefreshToken))
	assert.Zero(t, f.sessions.count())

	_, err = f.service.Refresh(ctx, session.RefreshToken, "", "")
	assert.True(t, apperr.HasCode(err, apperr.CodeUnauthorized))
}

func TestSessionKey(t *testing.T) {
	assert.Equal(t, "auth:session:abc", auth.SessionKey("abc"))
}
