// Copyright (c) 2026 Qumran. All rights reserved.

package sec_test

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qumran/qumran/internal/platform/sec"
)

func newTokenService(t *testing.T, issuer string) *sec.TokenService {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	privatePEM := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)})
	publicDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	publicPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: publicDER})

	service, err := sec.NewTokenServiceFromPEM(privatePEM, publicPEM, issuer)
	require.NoError(t, err)
	return service
}

/*
TestTokenService_RoundTrip signs an access token and verifies its claims.
*/
func TestTokenService_RoundTrip(t *testing.T) {
	service := newTokenService(t, "qumran.app")

	token, err := service.GenerateAccessToken(sec.Principal{UserID: "u-1", Username: "librarian", Role: sec.RoleEditor}, time.Minute)
	require.NoError(t, err)

	claims, err := service.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "librarian", claims.Username)
	assert.Equal(t, "editor", claims.Role)
	assert.Equal(t, "u-1", claims.Subject)
	assert.Contains(t, claims.Audience, sec.Audience)
}

func TestTokenService_RejectsUnknownRole(t *testing.T) {
	service := newTokenService(t, "qumran.app")

	token, err := service.GenerateAccessToken(sec.Principal{UserID: "u-1", Username: "guest", Role: "reader"}, time.Minute)
	require.NoError(t, err)

	_, err = service.VerifyToken(token)
	assert.ErrorContains(t, err, "unknown role")
}

func TestTokenService_RejectsGarbage(t *testing.T) {
	service := newTokenService(t, "qumran.app")

	_, err := service.VerifyToken("not.a.token")
	assert.Error(t, err)
}

func TestTokenService_RejectsExpired(t *testing.T) {
	service := newTokenService(t, "qumran.app")

	token, err := service.GenerateAccessToken(sec.Principal{UserID: "u-1", Username: "librarian", Role: sec.RoleEditor}, -time.Minute)
	require.NoError(t, err)

	_, err = service.VerifyToken(token)
	assert.Error(t, err)
}

func TestTokenService_RejectsForeignIssuer(t *testing.T) {
	signer := newTokenService(t, "elsewhere")
	token, err := signer.GenerateAccessToken(sec.Principal{UserID: "u-1", Username: "x", Role: sec.RoleAdmin}, time.Minute)
	require.NoError(t, err)

	_, err = signer.VerifyToken(token)
	require.NoError(t, err)

	verifier := newTokenService(t, "qumran.app")
	_, err = verifier.VerifyToken(token)
	assert.Error(t, err)
}

func TestPasswordHash(t *testing.T) {
	hash, err := sec.HashPassword("correct horse")
	require.NoError(t, err)

	assert.True(t, sec.CheckPasswordHash("correct horse", hash))
	assert.False(t, sec.CheckPasswordHash("wrong", hash))
}

func TestSecureTokenAndDigest(t *testing.T) {
	first, err := sec.GenerateSecureToken(32)
	require.NoError(t, err)
	second, err := sec.GenerateSecureToken(32)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.Equal(t, sec.HashToken(first), sec.HashToken(first))
	assert.Len(t, sec.HashToken(first), 64)
}

func TestUserRole(t *testing.T) {
	assert.True(t, sec.RoleAdmin.AtLeast(sec.RoleEditor))
	assert.False(t, sec.RoleEditor.AtLeast(sec.RoleAdmin))
	assert.False(t, sec.UserRole("member").Valid())
	assert.False(t, sec.UserRole("").AtLeast(sec.RoleEditor))
	assert.False(t, sec.UserRole("member").AtLeast(sec.UserRole("guest")))
	assert.Equal(t, []string{"editor", "admin"}, sec.RoleNames())
}
