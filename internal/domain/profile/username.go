package profile

import (
	"strings"
	"unicode"
)

// MinUsernameLength is the shortest handle accepted after normalization.
const MinUsernameLength = 3

const urlMarker = "instagram.com/"

// NormalizeUsername lowercases a handle and strips "@", URL prefixes and
// trailing path or query fragments. Normalizing twice yields the same value.
func NormalizeUsername(raw string) string {
	u := strings.ToLower(strings.TrimSpace(raw))
	if i := strings.Index(u, urlMarker); i >= 0 {
		u = u[i+len(urlMarker):]
	}
	u = strings.TrimLeftFunc(u, isHandlePrefix)
	if i := strings.IndexByte(u, '/'); i >= 0 {
		u = u[:i]
	}
	if i := strings.IndexByte(u, '?'); i >= 0 {
		u = u[:i]
	}
	return strings.TrimSpace(u)
}

func isHandlePrefix(r rune) bool {
	return r == '@' || unicode.IsSpace(r)
}

// ValidUsername reports whether a normalized handle is usable as a dedup key.
func ValidUsername(u string) bool {
	if len(u) < MinUsernameLength {
		return false
	}
	return !strings.ContainsFunc(u, unicode.IsSpace)
}
