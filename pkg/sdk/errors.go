package leadscout

import "github.com/kailas-cloud/leadscout/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check. A search where every batch failed and at least
// one hit a rate limit matches both ErrNoResults and ErrRateLimited.
var (
	ErrInvalidQuery   = domain.ErrInvalidQuery
	ErrNoResults      = domain.ErrNoResults
	ErrRateLimited    = domain.ErrRateLimited
	ErrGeneratorError = domain.ErrGeneratorError
)

// UserMessage returns the Portuguese text a UI should show for err.
func UserMessage(err error) string {
	return domain.UserMessage(err)
}
