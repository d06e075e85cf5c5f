// internal/auth/filter/filter_test.go
package filter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"authgate/internal/auth"
	"authgate/internal/observability/logging"
	"authgate/internal/observability/metrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubVerifier struct {
	claims *auth.Claims
	err    error
	calls  int
}

func (v *stubVerifier) Verify(_ context.Context, _ string) (*auth.Claims, error) {
	v.calls++
	if v.err != nil {
		return nil, v.err
	}
	return v.claims, nil
}

type stubUsers struct {
	user  *auth.User
	err   error
	calls int
}

func (u *stubUsers) FindByUsername(_ context.Context, _ string) (*auth.User, error) {
	u.calls++
	return u.user, u.err
}

type stubAuthorities struct {
	patterns []string
	err      error
	calls    int
}

func (a *stubAuthorities) AuthoritiesOf(_ context.Context, _ *auth.User) ([]string, error) {
	a.calls++
	if a.err != nil {
		return nil, a.err
	}
	return a.patterns, nil
}

type recordingRenderer struct {
	rendered *auth.Error
	calls    int
}

func (r *recordingRenderer) Render(w http.ResponseWriter, _ *http.Request, authErr *auth.Error) {
	r.calls++
	r.rendered = authErr
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(authErr.Status())
	json.NewEncoder(w).Encode(map[string]string{"error": string(authErr.Kind)})
}

type fixture struct {
	verifier    *stubVerifier
	users       *stubUsers
	authorities *stubAuthorities
	renderer    *recordingRenderer
	filter      *Filter
	logs        *bytes.Buffer

	nextCalls int
	principal *auth.Principal
}

func validClaims(subject string) *auth.Claims {
	now := time.Now()
	return &auth.Claims{Subject: subject, IssuedAt: now, ExpiresAt: now.Add(time.Hour)}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	logs := &bytes.Buffer{}
	logger := &logging.Logger{Logger: slog.New(slog.NewTextHandler(logs, nil))}

	fx := &fixture{
		verifier:    &stubVerifier{claims: validClaims("alice")},
		users:       &stubUsers{user: &auth.User{ID: 1, Username: "alice"}},
		authorities: &stubAuthorities{patterns: []string{"/api/**"}},
		renderer:    &recordingRenderer{},
		logs:        logs,
	}
	fx.filter = New(fx.verifier, fx.users, fx.authorities, fx.renderer,
		logger, metrics.NewCollector())
	return fx
}

func (fx *fixture) next() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fx.nextCalls++
		fx.principal = auth.PrincipalFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func (fx *fixture) do(t *testing.T, header string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	fx.filter.Middleware(fx.next()).ServeHTTP(rec, req)
	return rec
}

func TestHappyPath(t *testing.T) {
	fx := newFixture(t)

	rec := fx.do(t, "Bearer some-token")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, fx.nextCalls)
	assert.Equal(t, 0, fx.renderer.calls)

	require.NotNil(t, fx.principal)
	assert.Equal(t, "alice", fx.principal.Username)
	assert.Equal(t, int64(1), fx.principal.User.ID)
	assert.Empty(t, fx.principal.Roles)
	assert.NotEmpty(t, fx.principal.Connection.RemoteAddr)
}

func TestCollaboratorsCalledOnce(t *testing.T) {
	fx := newFixture(t)

	fx.do(t, "Bearer some-token")

	assert.Equal(t, 1, fx.verifier.calls)
	assert.Equal(t, 1, fx.users.calls)
	assert.Equal(t, 1, fx.authorities.calls)
}

func TestSessionStamp(t *testing.T) {
	fx := newFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	req.AddCookie(&http.Cookie{Name: "session", Value: "sess-42"})
	rec := httptest.NewRecorder()
	fx.filter.Middleware(fx.next()).ServeHTTP(rec, req)

	require.NotNil(t, fx.principal)
	assert.Equal(t, "sess-42", fx.principal.Connection.SessionID)
}

func TestMissingToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"whitespace header", "   "},
		{"lowercase prefix", "bearer xyz"},
		{"wrong scheme", "Basic xyz"},
		{"no space after scheme", "Bearerxyz"},
		{"prefix only", "Bearer "},
		{"whitespace token", "Bearer    "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newFixture(t)

			rec := fx.do(t, tt.header)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, 0, fx.nextCalls)
			require.Equal(t, 1, fx.renderer.calls)
			assert.Equal(t, auth.ErrorMissingToken, fx.renderer.rendered.Kind)
			assert.Equal(t, 0, fx.verifier.calls)
		})
	}
}

func TestExpiredToken(t *testing.T) {
	fx := newFixture(t)
	fx.verifier.err = fmt.Errorf("%w: exp check", auth.ErrTokenExpired)

	rec := fx.do(t, "Bearer expired-token")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, 0, fx.nextCalls)
	require.Equal(t, 1, fx.renderer.calls)
	assert.Equal(t, auth.ErrorTokenExpired, fx.renderer.rendered.Kind)
	assert.Equal(t, 0, fx.users.calls)
}

func TestInvalidToken(t *testing.T) {
	fx := newFixture(t)
	fx.verifier.err = fmt.Errorf("%w: signature mismatch", auth.ErrTokenMalformed)

	rec := fx.do(t, "Bearer tampered-token")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, 1, fx.renderer.calls)
	assert.Equal(t, auth.ErrorTokenInvalid, fx.renderer.rendered.Kind)
}

func TestVerifierInternalError(t *testing.T) {
	fx := newFixture(t)
	fx.verifier.err = errors.New("key source unavailable")

	rec := fx.do(t, "Bearer some-token")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, 1, fx.renderer.calls)
	assert.Equal(t, auth.ErrorTokenInternal, fx.renderer.rendered.Kind)
}

func TestEmptySubject(t *testing.T) {
	for _, subject := range []string{"", "   "} {
		fx := newFixture(t)
		fx.verifier.claims = validClaims(subject)

		rec := fx.do(t, "Bearer some-token")

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		require.Equal(t, 1, fx.renderer.calls)
		assert.Equal(t, auth.ErrorTokenInternal, fx.renderer.rendered.Kind)
		assert.Equal(t, "empty subject", fx.renderer.rendered.Message)
		assert.Equal(t, 0, fx.users.calls)
	}
}

func TestUnknownSubjectIsDenied(t *testing.T) {
	fx := newFixture(t)
	fx.verifier.claims = validClaims("ghost")
	fx.users.user = nil

	rec := fx.do(t, "Bearer some-token")

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, 0, fx.nextCalls)
	require.Equal(t, 1, fx.renderer.calls)
	assert.Equal(t, auth.ErrorAccessDenied, fx.renderer.rendered.Kind)
	// Without a user there is nothing to resolve authorities for.
	assert.Equal(t, 0, fx.authorities.calls)
}

func TestForbiddenPath(t *testing.T) {
	fx := newFixture(t)
	fx.authorities.patterns = []string{"/api/public/**"}

	req := httptest.NewRequest(http.MethodGet, "/api/admin", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	rec := httptest.NewRecorder()
	fx.filter.Middleware(fx.next()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, 0, fx.nextCalls)
	require.Equal(t, 1, fx.renderer.calls)
	assert.Equal(t, auth.ErrorAccessDenied, fx.renderer.rendered.Kind)
}

func TestFailureLogCarriesSubjectAndPath(t *testing.T) {
	fx := newFixture(t)
	fx.authorities.patterns = []string{"/api/public/**"}

	req := httptest.NewRequest(http.MethodGet, "/api/admin", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	fx.filter.Middleware(fx.next()).ServeHTTP(httptest.NewRecorder(), req)

	logged := fx.logs.String()
	assert.Contains(t, logged, "kind=access_denied")
	assert.Contains(t, logged, "subject=alice")
	assert.Contains(t, logged, "uri=/api/admin")
}

func TestFailureLogBeforeSubjectKnown(t *testing.T) {
	fx := newFixture(t)
	fx.verifier.err = fmt.Errorf("%w: exp check", auth.ErrTokenExpired)

	fx.do(t, "Bearer expired-token")

	logged := fx.logs.String()
	assert.Contains(t, logged, "kind=token_expired")
	assert.Contains(t, logged, `subject=""`)
}

func TestEmptyAuthorityList(t *testing.T) {
	fx := newFixture(t)
	fx.authorities.patterns = nil

	rec := fx.do(t, "Bearer some-token")

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, auth.ErrorAccessDenied, fx.renderer.rendered.Kind)
}

func TestQueryStringIgnored(t *testing.T) {
	fx := newFixture(t)
	fx.authorities.patterns = []string{"/api/users"}

	req := httptest.NewRequest(http.MethodGet, "/api/users?role=admin&page=2", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	rec := httptest.NewRecorder()
	fx.filter.Middleware(fx.next()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, fx.nextCalls)
}

func TestResolverFault(t *testing.T) {
	fx := newFixture(t)
	fx.users.err = errors.New("store unavailable")

	rec := fx.do(t, "Bearer some-token")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, 0, fx.nextCalls)
	// A store fault is not an authentication outcome.
	assert.Equal(t, 0, fx.renderer.calls)
}

func TestCancelledRequestGetsNoResponse(t *testing.T) {
	fx := newFixture(t)
	fx.users.err = context.Canceled

	rec := fx.do(t, "Bearer some-token")

	assert.Equal(t, 0, fx.nextCalls)
	assert.Equal(t, 0, fx.renderer.calls)
	assert.Zero(t, rec.Body.Len())
}

func TestRunsAtMostOncePerRequest(t *testing.T) {
	fx := newFixture(t)

	// Simulate an infrastructure that re-invokes the middleware on an
	// internal forward.
	handler := fx.filter.Middleware(fx.filter.Middleware(fx.next()))

	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, fx.nextCalls)
	assert.Equal(t, 1, fx.verifier.calls)
	assert.Equal(t, 1, fx.users.calls)
}
