package result

import (
	"time"

	"github.com/kailas-cloud/leadscout/internal/domain/profile"
	"github.com/kailas-cloud/leadscout/internal/domain/search/filter"
)

// BatchOutcome classifies how a single variation ended.
type BatchOutcome string

// Batch outcomes.
const (
	OutcomeOK         BatchOutcome = "ok"
	OutcomeEmpty      BatchOutcome = "empty"
	OutcomeParseError BatchOutcome = "parse_error"
	OutcomeError      BatchOutcome = "error"
)

// Failed reports whether the batch failed (transport or parse error).
func (o BatchOutcome) Failed() bool {
	return o == OutcomeParseError || o == OutcomeError
}

// Stats summarizes how a search went.
type Stats struct {
	Variations    int
	FailedBatches int
	RawProfiles   int // valid profiles across all batches, before dedup
	Unique        int
	Duration      time.Duration
}

// Result is the merged, deduplicated outcome of one search.
type Result struct {
	id       string
	keyword  string
	filters  filter.Filters
	profiles []profile.Profile
	stats    Stats
}

// New creates a search result.
func New(id, keyword string, filters filter.Filters, profiles []profile.Profile, stats Stats) Result {
	return Result{id: id, keyword: keyword, filters: filters, profiles: profiles, stats: stats}
}

// ID returns the search identifier.
func (r *Result) ID() string { return r.id }

// Keyword returns the searched keyword.
func (r *Result) Keyword() string { return r.keyword }

// Filters returns the filters used in the prompts.
func (r *Result) Filters() filter.Filters { return r.filters }

// Profiles returns the unique profiles in first-seen order.
func (r *Result) Profiles() []profile.Profile { return r.profiles }

// Stats returns the search statistics.
func (r *Result) Stats() Stats { return r.stats }
