// internal/authz/pathmatch/matcher.go

// Package pathmatch implements ant-style path pattern matching for
// authorization decisions.
//
// Pattern semantics:
//   - `?` matches exactly one character other than `/`
//   - `*` matches zero or more characters within a single path segment
//   - `**` matches zero or more complete path segments
//   - any other character matches literally, case-sensitive
//
// Matching is anchored at both ends: the pattern must cover the whole path.
package pathmatch

import (
	"github.com/bmatcuk/doublestar/v4"
)

// Matches reports whether pattern matches path. It is a pure predicate:
// deterministic, side-effect free, and it never fails — a pattern that does
// not parse matches nothing. The empty pattern matches only the empty path.
func Matches(pattern, path string) bool {
	ok, err := doublestar.Match(pattern, path)
	if err != nil {
		return false
	}
	return ok
}

// MatchesAny reports whether any pattern in patterns matches path,
// short-circuiting on the first match.
func MatchesAny(patterns []string, path string) bool {
	for _, pattern := range patterns {
		if Matches(pattern, path) {
			return true
		}
	}
	return false
}
