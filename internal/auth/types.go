// internal/auth/types.go
package auth

import (
	"context"
	"net/http"
	"time"
)

// User is a user record materialized from the persistent store.
type User struct {
	// ID is the stable numeric identifier of the user
	ID int64

	// Username is the unique login name, matched against the token subject
	Username string

	// DisplayName is the human-readable name shown downstream
	DisplayName string

	// Status is the account status (0 = active, 1 = disabled)
	Status int

	// CreatedAt is the account creation time
	CreatedAt time.Time
}

// Claims is the verified content of a bearer token.
type Claims struct {
	// Subject is the username asserted by the token
	Subject string

	// IssuedAt is the token issue time
	IssuedAt time.Time

	// ExpiresAt is the token expiry time
	ExpiresAt time.Time
}

// ConnectionDetails is a per-request stamp captured when a principal is attached.
type ConnectionDetails struct {
	// RemoteAddr is the client address as seen by the server
	RemoteAddr string

	// SessionID is the session cookie value, empty when the client has none
	SessionID string
}

// Principal is the authenticated identity published to downstream handlers.
type Principal struct {
	// Username is the subject of the verified token
	Username string

	// User is the resolved user record
	User *User

	// Roles holds granted role tags. Path authority is enforced before the
	// principal is attached, so the filter leaves this empty.
	Roles []string

	// Connection is the connection stamp for this request
	Connection ConnectionDetails
}

// TokenVerifier parses and cryptographically verifies a bearer token.
type TokenVerifier interface {
	// Verify returns the claims of a valid token. Expected failures are
	// classified with ErrTokenExpired and ErrTokenMalformed; any other
	// error is an internal verifier fault.
	Verify(ctx context.Context, token string) (*Claims, error)
}

// UserResolver looks up user records by username.
type UserResolver interface {
	// FindByUsername returns the user with the given username, or nil when
	// no such user exists. A non-nil error is a store fault, not an
	// authentication outcome.
	FindByUsername(ctx context.Context, username string) (*User, error)
}

// AuthorityResolver enumerates the path patterns a user may access.
type AuthorityResolver interface {
	// AuthoritiesOf returns every permitted path pattern for the user, in
	// any order. The list may be empty.
	AuthoritiesOf(ctx context.Context, user *User) ([]string, error)
}

// ErrorRenderer produces the terminal response for a failed request.
type ErrorRenderer interface {
	// Render writes the response for authErr and must not invoke any
	// further handler.
	Render(w http.ResponseWriter, r *http.Request, authErr *Error)
}
