package metrics

// Metrics holds generation usage for a time period.
type Metrics struct {
	generationRequests int64
	tokens             int64
}

// New creates a Metrics snapshot.
func New(requests, tokens int64) Metrics {
	return Metrics{generationRequests: requests, tokens: tokens}
}

// GenerationRequests returns the number of completed generator calls.
func (m Metrics) GenerationRequests() int64 { return m.generationRequests }

// Tokens returns the total tokens consumed.
func (m Metrics) Tokens() int64 { return m.tokens }
