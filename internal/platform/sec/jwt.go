// Copyright (c) 2026 Qumran. All rights reserved.

// Package sec holds the dashboard's credentials: bcrypt password hashes,
// opaque refresh tokens and RS256 access tokens.
package sec

import (
	"crypto/rsa"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Audience is the "aud" claim of every access token. Tokens minted for any
// other audience are refused even when signed with the same key.
const Audience = "qumran-dashboard"

// clockSkew tolerates small clock differences between API replicas.
const clockSkew = 5 * time.Second

// Principal is the account an access token speaks for.
type Principal struct {
	UserID   string
	Username string
	Role     UserRole
}

// AuthClaims is the access token payload. [middleware.Authenticate] trusts it
// without a database lookup, so a role change takes effect when the token
// expires.
type AuthClaims struct {
	jwt.RegisteredClaims

	UserID   string `json:"uid"`
	Username string `json:"unm"`
	Role     string `json:"rol"`
}

// TokenService signs and verifies access tokens with one RSA key pair.
type TokenService struct {
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
	issuer     string
}

// NewTokenService reads PEM keys from disk (JWT_PRIVATE_KEY_PATH,
// JWT_PUBLIC_KEY_PATH).
func NewTokenService(privateKeyPath, publicKeyPath, issuer string) (*TokenService, error) {
	privatePEM, err := os.ReadFile(privateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("sec: read private key %s: %w", privateKeyPath, err)
	}
	publicPEM, err := os.ReadFile(publicKeyPath)
	if err != nil {
		return nil, fmt.Errorf("sec: read public key %s: %w", publicKeyPath, err)
	}
	return NewTokenServiceFromPEM(privatePEM, publicPEM, issuer)
}

// NewTokenServiceFromPEM builds a TokenService from PEM-encoded keys.
func NewTokenServiceFromPEM(privatePEM, publicPEM []byte, issuer string) (*TokenService, error) {
	privateKey, err := jwt.ParseRSAPrivateKeyFromPEM(privatePEM)
	if err != nil {
		return nil, fmt.Errorf("sec: parse private key: %w", err)
	}
	publicKey, err := jwt.ParseRSAPublicKeyFromPEM(publicPEM)
	if err != nil {
		return nil, fmt.Errorf("sec: parse public key: %w", err)
	}

	return &TokenService{privateKey: privateKey, publicKey: publicKey, issuer: issuer}, nil
}

// GenerateAccessToken signs a token for principal that expires after ttl.
func (service *TokenService) GenerateAccessToken(principal Principal, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   principal.UserID,
			Issuer:    service.issuer,
			Audience:  jwt.ClaimStrings{Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID:   principal.UserID,
		Username: principal.Username,
		Role:     string(principal.Role),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(service.privateKey)
	if err != nil {
		return "", fmt.Errorf("sec: sign token: %w", err)
	}
	return signed, nil
}

// VerifyToken accepts only unexpired RS256 tokens from this issuer for the
// dashboard audience, carrying a known role.
func (service *TokenService) VerifyToken(tokenString string) (*AuthClaims, error) {
	claims := &AuthClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (any, error) { return service.publicKey, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithIssuer(service.issuer),
		jwt.WithAudience(Audience),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(clockSkew),
	)
	if err != nil {
		return nil, fmt.Errorf("sec: invalid token: %w", err)
	}

	if !UserRole(claims.Role).Valid() {
		return nil, fmt.Errorf("sec: invalid token: unknown role %q", claims.Role)
	}
	return claims, nil
}
