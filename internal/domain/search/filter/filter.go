package filter

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/kailas-cloud/leadscout/internal/domain"
)

// MaxBioKeywordLength bounds the bio keyword hint, in characters.
const MaxBioKeywordLength = 100

// Filters are optional prompt hints: follower bounds and a bio keyword.
// They only change the prompt text; results are never filtered by them.
type Filters struct {
	minFollowers string
	maxFollowers string
	bioKeyword   string
}

// New trims and validates filter values. Follower bounds are free text
// (the model understands "1000" as well as "10k").
func New(minFollowers, maxFollowers, bioKeyword string) (Filters, error) {
	f := Filters{
		minFollowers: strings.TrimSpace(minFollowers),
		maxFollowers: strings.TrimSpace(maxFollowers),
		bioKeyword:   strings.TrimSpace(bioKeyword),
	}
	if utf8.RuneCountInString(f.bioKeyword) > MaxBioKeywordLength {
		return Filters{}, fmt.Errorf("%w: bio keyword too long (max %d chars)", domain.ErrInvalidQuery, MaxBioKeywordLength)
	}
	return f, nil
}

// MinFollowers returns the lower follower bound, empty if unset.
func (f Filters) MinFollowers() string { return f.minFollowers }

// MaxFollowers returns the upper follower bound, empty if unset.
func (f Filters) MaxFollowers() string { return f.maxFollowers }

// BioKeyword returns the bio keyword hint, empty if unset.
func (f Filters) BioKeyword() string { return f.bioKeyword }

// HasFollowerRange reports whether any follower bound is set.
func (f Filters) HasFollowerRange() bool {
	return f.minFollowers != "" || f.maxFollowers != ""
}

// IsActive reports whether any filter is set.
func (f Filters) IsActive() bool {
	return f.HasFollowerRange() || f.bioKeyword != ""
}
