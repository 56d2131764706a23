package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidQuery signals an empty or oversized search keyword.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrNoResults signals that no profile survived extraction and deduplication.
	ErrNoResults = errors.New("no profiles found")
	// ErrRateLimited signals a rate limit or quota hit at the generator.
	ErrRateLimited = errors.New("rate limited")
	// ErrGeneratorError signals a generator (model provider) failure.
	ErrGeneratorError = errors.New("generator error")
	// ErrEmptyResponse signals a generator reply without text.
	ErrEmptyResponse = errors.New("empty generator response")
	// ErrUnknownProvider signals an unsupported generator provider name.
	ErrUnknownProvider = errors.New("unknown generator provider")
	// ErrTokenBudgetExceeded signals that the configured generation token budget is spent.
	// It is always returned together with ErrRateLimited.
	ErrTokenBudgetExceeded = errors.New("generation token budget exceeded")
)

// rateLimitMarkers are lowercase fragments providers put in rate limit and quota errors.
var rateLimitMarkers = []string{
	"429",
	"quota",
	"resource_exhausted",
	"rate limit",
	"ratelimit",
	"too many requests",
}

// IsRateLimitText reports whether an error text looks like a rate limit or quota failure.
func IsRateLimitText(text string) bool {
	lower := strings.ToLower(text)
	for _, m := range rateLimitMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

// MarkRateLimited wraps a raw generator error with ErrRateLimited when its
// text carries a rate limit marker. Only provider errors go through it; errors
// that embed user input are classified by sentinel alone.
func MarkRateLimited(err error) error {
	if err == nil || errors.Is(err, ErrRateLimited) || !IsRateLimitText(err.Error()) {
		return err
	}
	return fmt.Errorf("%w: %w", err, ErrRateLimited)
}

// IsRateLimited reports whether err carries ErrRateLimited.
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}
