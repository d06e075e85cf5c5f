// internal/auth/context.go
package auth

import (
	"context"
)

// ContextKey is a type-safe key for context values
type ContextKey string

const (
	// PrincipalContextKey is the key used to store the principal in the context
	PrincipalContextKey ContextKey = "auth:principal"

	// filterAppliedContextKey marks a request already processed by the filter
	filterAppliedContextKey ContextKey = "auth:filter_applied"
)

// PrincipalFromContext extracts the principal from the request context
func PrincipalFromContext(ctx context.Context) *Principal {
	if principal, ok := ctx.Value(PrincipalContextKey).(*Principal); ok {
		return principal
	}
	return nil
}

// ContextWithPrincipal adds a principal to a context
func ContextWithPrincipal(ctx context.Context, principal *Principal) context.Context {
	return context.WithValue(ctx, PrincipalContextKey, principal)
}

// FilterApplied reports whether the authentication filter already ran for
// this request. Guards against re-entry on internal forwards.
func FilterApplied(ctx context.Context) bool {
	applied, ok := ctx.Value(filterAppliedContextKey).(bool)
	return ok && applied
}

// ContextWithFilterApplied marks the request as processed by the filter
func ContextWithFilterApplied(ctx context.Context) context.Context {
	return context.WithValue(ctx, filterAppliedContextKey, true)
}
