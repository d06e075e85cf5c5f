// internal/auth/jwt/manager.go

// Package jwt implements the bearer token verifier on HMAC-signed compact
// JWS tokens.
package jwt

import (
	"context"
	"errors"
	"fmt"
	"time"

	"authgate/internal/auth"

	"github.com/golang-jwt/jwt/v5"
)

// Config holds token manager configuration
type Config struct {
	// Secret is the HMAC signing secret
	Secret string

	// Issuer is the value of the iss claim on issued tokens
	Issuer string

	// TTL is the validity duration of issued tokens
	TTL time.Duration
}

// Manager creates and verifies HS256 tokens. It is stateless after
// construction and safe for concurrent use.
type Manager struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// New creates a new token manager
func New(config Config) (*Manager, error) {
	if config.Secret == "" {
		return nil, fmt.Errorf("JWT secret is required")
	}

	return &Manager{
		secret: []byte(config.Secret),
		issuer: config.Issuer,
		ttl:    config.TTL,
	}, nil
}

// Issue creates a signed token whose subject is username
func (m *Manager) Issue(username string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   username,
		Issuer:    m.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// Verify implements auth.TokenVerifier. Expired tokens fail with
// auth.ErrTokenExpired; any other parse or signature failure fails with
// auth.ErrTokenMalformed.
func (m *Manager) Verify(_ context.Context, tokenStr string) (*auth.Claims, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims, m.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %v", auth.ErrTokenExpired, err)
		}
		return nil, fmt.Errorf("%w: %v", auth.ErrTokenMalformed, err)
	}

	out := &auth.Claims{Subject: claims.Subject}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}

	return out, nil
}

func (m *Manager) keyFunc(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
	return m.secret, nil
}
