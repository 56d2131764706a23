package chi

import (
	"time"

	"github.com/kailas-cloud/leadscout/internal/domain/profile"
	"github.com/kailas-cloud/leadscout/internal/domain/search/filter"
	"github.com/kailas-cloud/leadscout/internal/domain/search/result"
	domusage "github.com/kailas-cloud/leadscout/internal/domain/usage"
)

// ErrorResponseCode is the machine-readable error code of an API error.
type ErrorResponseCode string

// Error codes.
const (
	ErrorResponseCodeBadRequest       ErrorResponseCode = "bad_request"
	ErrorResponseCodeUnauthorized     ErrorResponseCode = "unauthorized"
	ErrorResponseCodeValidationFailed ErrorResponseCode = "validation_failed"
	ErrorResponseCodeRateLimited      ErrorResponseCode = "rate_limited"
	ErrorResponseCodeNoResults        ErrorResponseCode = "no_results"
	ErrorResponseCodeGeneratorError   ErrorResponseCode = "generator_error"
	ErrorResponseCodeInternalError    ErrorResponseCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Code    ErrorResponseCode `json:"code"`
	Message string            `json:"message"`
}

// SearchFilters carries the optional prompt hints.
type SearchFilters struct {
	MinFollowers string `json:"min_followers,omitempty"`
	MaxFollowers string `json:"max_followers,omitempty"`
	BioKeyword   string `json:"bio_keyword,omitempty"`
}

// SearchRequest is the POST /api/v1/search body.
type SearchRequest struct {
	Keyword string         `json:"keyword"`
	Filters *SearchFilters `json:"filters,omitempty"`
}

// SearchParams are the GET /api/v1/search query parameters.
type SearchParams struct {
	Keyword      string
	MinFollowers *string
	MaxFollowers *string
	BioKeyword   *string
}

// ProfileResponse is one lead with its card links.
type ProfileResponse struct {
	Name         string `json:"name"`
	Username     string `json:"username"`
	Bio          string `json:"bio"`
	Followers    string `json:"followers,omitempty"`
	ProfilePic   string `json:"profile_pic,omitempty"`
	InstagramURL string `json:"instagram_url"`
	Whatsapp     string `json:"whatsapp,omitempty"`
	AvatarURL    string `json:"avatar_url"`
	ContactURL   string `json:"contact_url,omitempty"`
	HasContact   bool   `json:"has_contact"`
}

// SearchStats summarizes the fan-out.
type SearchStats struct {
	Variations    int   `json:"variations"`
	FailedBatches int   `json:"failed_batches"`
	RawProfiles   int   `json:"raw_profiles"`
	Unique        int   `json:"unique_profiles"`
	DurationMs    int64 `json:"duration_ms"`
}

// SearchResponse is the body of a successful search.
type SearchResponse struct {
	ID       string            `json:"id"`
	Keyword  string            `json:"keyword"`
	Filters  SearchFilters     `json:"filters"`
	Profiles []ProfileResponse `json:"profiles"`
	Total    int               `json:"total"`
	Stats    SearchStats       `json:"stats"`
}

// SuggestionsResponse lists sample keywords.
type SuggestionsResponse struct {
	Suggestions []string `json:"suggestions"`
}

// UsageMetrics is the consumption part of UsageResponse.
type UsageMetrics struct {
	GenerationRequests int64 `json:"generation_requests"`
	Tokens             int64 `json:"tokens"`
}

// BudgetStatus is the budget part of UsageResponse. Limit and remaining are
// omitted when no budget is configured.
type BudgetStatus struct {
	TokensLimit     *int64     `json:"tokens_limit,omitempty"`
	TokensRemaining *int64     `json:"tokens_remaining,omitempty"`
	IsExhausted     bool       `json:"is_exhausted"`
	ResetsAt        *time.Time `json:"resets_at,omitempty"`
}

// UsageResponse is the GET /api/v1/usage body.
type UsageResponse struct {
	Period        string       `json:"period"`
	Provider      string       `json:"provider"`
	PeriodStartAt time.Time    `json:"period_start_at"`
	PeriodEndAt   time.Time    `json:"period_end_at"`
	Usage         UsageMetrics `json:"usage"`
	Budget        BudgetStatus `json:"budget"`
}

// HealthResponse is the GET /health body.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func usageToDTO(report *domusage.Report) UsageResponse {
	b := report.Budget()
	resp := UsageResponse{
		Period:        string(report.Period()),
		Provider:      report.Provider(),
		PeriodStartAt: time.UnixMilli(report.PeriodStart()).UTC(),
		PeriodEndAt:   time.UnixMilli(report.PeriodEnd()).UTC(),
		Usage: UsageMetrics{
			GenerationRequests: report.Metrics().GenerationRequests(),
			Tokens:             report.Metrics().Tokens(),
		},
		Budget: BudgetStatus{IsExhausted: b.IsExhausted()},
	}
	if !b.Unlimited() {
		limit, remaining := b.TokensLimit(), b.TokensRemaining()
		resetsAt := time.UnixMilli(b.ResetsAt()).UTC()
		resp.Budget.TokensLimit = &limit
		resp.Budget.TokensRemaining = &remaining
		resp.Budget.ResetsAt = &resetsAt
	}
	return resp
}

func filtersToDTO(f filter.Filters) SearchFilters {
	return SearchFilters{
		MinFollowers: f.MinFollowers(),
		MaxFollowers: f.MaxFollowers(),
		BioKeyword:   f.BioKeyword(),
	}
}

func profileToDTO(p *profile.Profile, fallback profile.ContactFallback) ProfileResponse {
	card := profile.CardFor(p, fallback)
	return ProfileResponse{
		Name:         p.Name(),
		Username:     p.Username(),
		Bio:          p.Bio(),
		Followers:    p.Followers(),
		ProfilePic:   p.PictureURL(),
		InstagramURL: p.ProfileURL(),
		Whatsapp:     p.ContactURL(),
		AvatarURL:    card.AvatarURL,
		ContactURL:   card.ContactURL,
		HasContact:   card.HasContact,
	}
}

func resultToDTO(res *result.Result, fallback profile.ContactFallback) SearchResponse {
	profiles := res.Profiles()
	items := make([]ProfileResponse, len(profiles))
	for i := range profiles {
		items[i] = profileToDTO(&profiles[i], fallback)
	}
	stats := res.Stats()
	return SearchResponse{
		ID:       res.ID(),
		Keyword:  res.Keyword(),
		Filters:  filtersToDTO(res.Filters()),
		Profiles: items,
		Total:    len(items),
		Stats: SearchStats{
			Variations:    stats.Variations,
			FailedBatches: stats.FailedBatches,
			RawProfiles:   stats.RawProfiles,
			Unique:        stats.Unique,
			DurationMs:    stats.Duration.Milliseconds(),
		},
	}
}
