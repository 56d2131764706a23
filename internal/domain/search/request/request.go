package request

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/kailas-cloud/leadscout/internal/domain"
	"github.com/kailas-cloud/leadscout/internal/domain/search/filter"
)

// MaxKeywordLength is the maximum keyword length in characters.
const MaxKeywordLength = 200

// Request is a validated lead search.
type Request struct {
	keyword string
	filters filter.Filters
}

// New trims and validates the keyword. Errors wrap domain.ErrInvalidQuery.
func New(keyword string, filters filter.Filters) (Request, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return Request{}, fmt.Errorf("%w: keyword is required", domain.ErrInvalidQuery)
	}
	if utf8.RuneCountInString(keyword) > MaxKeywordLength {
		return Request{}, fmt.Errorf("%w: keyword too long (max %d chars)", domain.ErrInvalidQuery, MaxKeywordLength)
	}
	return Request{keyword: keyword, filters: filters}, nil
}

// Keyword returns the profession or niche keyword.
func (r *Request) Keyword() string { return r.keyword }

// Filters returns the prompt filters.
func (r *Request) Filters() filter.Filters { return r.filters }
