// internal/auth/filter/filter.go

// Package filter implements the per-request authentication and path
// authorization pipeline: it extracts the bearer token, verifies it,
// resolves the user and their permitted path patterns, matches the request
// path, and either publishes a principal to the request context or routes a
// tagged failure through the error renderer.
package filter

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"authgate/internal/auth"
	"authgate/internal/authz/pathmatch"
	"authgate/internal/contextutil"
	"authgate/internal/observability/logging"
	"authgate/internal/observability/metrics"
)

// tokenPrefix is the required Authorization scheme, compared exactly
// (lowercase "bearer " is rejected).
const tokenPrefix = "Bearer "

// sessionCookie is the cookie whose value is stamped on the principal's
// connection details when present.
const sessionCookie = "session"

// Filter authenticates and authorizes incoming requests. It holds no
// per-request state and is safe for concurrent use.
type Filter struct {
	logger      *logging.Logger
	metrics     *metrics.Collector
	verifier    auth.TokenVerifier
	users       auth.UserResolver
	authorities auth.AuthorityResolver
	renderer    auth.ErrorRenderer
}

// New creates a new filter with its collaborators injected
func New(verifier auth.TokenVerifier, users auth.UserResolver,
	authorities auth.AuthorityResolver, renderer auth.ErrorRenderer,
	logger *logging.Logger, metricsCollector *metrics.Collector) *Filter {
	return &Filter{
		logger:      logger.WithModule("auth.filter"),
		metrics:     metricsCollector,
		verifier:    verifier,
		users:       users,
		authorities: authorities,
		renderer:    renderer,
	}
}

// Middleware returns an http.Handler middleware that performs
// authentication and path authorization. A request either reaches next with
// exactly one principal in its context, or is terminated with exactly one
// rendered failure.
func (f *Filter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		// Run at most once per request, even if an inner handler forwards
		// back through the middleware chain.
		if auth.FilterApplied(ctx) {
			next.ServeHTTP(w, r)
			return
		}
		ctx = auth.ContextWithFilterApplied(ctx)
		r = r.WithContext(ctx)

		logger := contextutil.GetLogger(ctx)
		if logger == nil {
			logger = f.logger
		}

		header := r.Header.Get("Authorization")
		if strings.TrimSpace(header) == "" || !strings.HasPrefix(header, tokenPrefix) {
			f.fail(w, r, logger, "", auth.NewError(auth.ErrorMissingToken, "authorization token not found"))
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(header, tokenPrefix))
		if token == "" {
			f.fail(w, r, logger, "", auth.NewError(auth.ErrorMissingToken, "authorization token is empty"))
			return
		}

		claims, err := f.verifier.Verify(ctx, token)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrTokenExpired):
				f.fail(w, r, logger, "", auth.WrapError(auth.ErrorTokenExpired, "token has expired", err))
			case errors.Is(err, auth.ErrTokenMalformed):
				f.fail(w, r, logger, "", auth.WrapError(auth.ErrorTokenInvalid, err.Error(), err))
			default:
				f.fail(w, r, logger, "", auth.WrapError(auth.ErrorTokenInternal, "token verification failed", err))
			}
			return
		}

		username := strings.TrimSpace(claims.Subject)
		if username == "" {
			f.fail(w, r, logger, "", auth.NewError(auth.ErrorTokenInternal, "empty subject"))
			return
		}

		user, err := f.users.FindByUsername(ctx, username)
		if err != nil {
			f.fault(w, r, logger, "user lookup failed", err)
			return
		}

		// An unknown subject is not a distinguished outcome: it proceeds
		// with an empty authority list and is denied below.
		var patterns []string
		if user != nil {
			patterns, err = f.authorities.AuthoritiesOf(ctx, user)
			if err != nil {
				f.fault(w, r, logger, "authority lookup failed", err)
				return
			}
		}

		// Query string is not considered; only the decoded path.
		if !pathmatch.MatchesAny(patterns, r.URL.Path) {
			f.metrics.RecordAuthorization(false)
			f.fail(w, r, logger, username, auth.NewError(auth.ErrorAccessDenied, "access denied"))
			return
		}
		f.metrics.RecordAuthorization(true)

		principal := &auth.Principal{
			Username: username,
			User:     user,
			Roles:    []string{},
			Connection: auth.ConnectionDetails{
				RemoteAddr: r.RemoteAddr,
				SessionID:  sessionID(r),
			},
		}

		f.metrics.RecordAuthentication("none", true)

		ctx = contextutil.WithPrincipal(ctx, principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// fail renders a tagged authentication failure and terminates the request.
// subject is empty when the failure happens before a subject is known.
func (f *Filter) fail(w http.ResponseWriter, r *http.Request, logger *logging.Logger, subject string, authErr *auth.Error) {
	logger.Error("Authentication failed",
		"kind", string(authErr.Kind),
		"reason", authErr.Message,
		"subject", subject,
		"uri", r.URL.Path,
	)
	f.metrics.RecordAuthentication(string(authErr.Kind), false)
	f.renderer.Render(w, r, authErr)
}

// fault handles a resolver fault. It is a runtime failure, not an
// authentication outcome, so it bypasses the renderer. A cancelled request
// gets no response at all.
func (f *Filter) fault(w http.ResponseWriter, r *http.Request, logger *logging.Logger, msg string, err error) {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		logger.Debug("Request cancelled during resolution", "uri", r.URL.Path)
		return
	}
	logger.Error(msg, logging.Err(err), "uri", r.URL.Path)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

// sessionID returns the session cookie value, or empty when absent
func sessionID(r *http.Request) string {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil {
		return ""
	}
	return cookie.Value
}
