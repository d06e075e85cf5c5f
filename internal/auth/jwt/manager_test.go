// internal/auth/jwt/manager_test.go
package jwt

import (
	"context"
	"testing"
	"time"

	"authgate/internal/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestManager(t *testing.T, ttl time.Duration) *Manager {
	t.Helper()
	m, err := New(Config{Secret: testSecret, Issuer: "authgate-test", TTL: ttl})
	require.NoError(t, err)
	return m
}

func TestNewRequiresSecret(t *testing.T) {
	_, err := New(Config{Issuer: "authgate-test", TTL: time.Hour})
	assert.Error(t, err)
}

func TestIssueAndVerify(t *testing.T) {
	m := newTestManager(t, time.Hour)

	token, err := m.Issue("alice")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := m.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)
	assert.WithinDuration(t, time.Now(), claims.IssuedAt, time.Minute)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt, time.Minute)
}

func TestVerifyEmptySubject(t *testing.T) {
	m := newTestManager(t, time.Hour)

	token, err := m.Issue("")
	require.NoError(t, err)

	// An empty subject is a valid token as far as the verifier is concerned;
	// rejecting it is the filter's job.
	claims, err := m.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Empty(t, claims.Subject)
}

func TestVerifyExpired(t *testing.T) {
	m := newTestManager(t, -time.Hour)

	token, err := m.Issue("alice")
	require.NoError(t, err)

	_, err = m.Verify(context.Background(), token)
	require.Error(t, err)
	assert.ErrorIs(t, err, auth.ErrTokenExpired)
	assert.NotErrorIs(t, err, auth.ErrTokenMalformed)
}

func TestVerifyTamperedSignature(t *testing.T) {
	other, err := New(Config{Secret: "another-secret-another-secret!!!", TTL: time.Hour})
	require.NoError(t, err)

	token, err := other.Issue("alice")
	require.NoError(t, err)

	m := newTestManager(t, time.Hour)
	_, err = m.Verify(context.Background(), token)
	require.Error(t, err)
	assert.ErrorIs(t, err, auth.ErrTokenMalformed)
	assert.NotErrorIs(t, err, auth.ErrTokenExpired)
}

func TestVerifyMalformed(t *testing.T) {
	m := newTestManager(t, time.Hour)

	for _, token := range []string{
		"not-a-token",
		"a.b",
		"a.b.c",
		"eyJhbGciOiJIUzI1NiJ9..",
	} {
		_, err := m.Verify(context.Background(), token)
		assert.ErrorIs(t, err, auth.ErrTokenMalformed, "token=%q", token)
	}
}
