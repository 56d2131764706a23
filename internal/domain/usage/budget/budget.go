package budget

// Budget is a snapshot of the generation token budget for one period.
type Budget struct {
	tokensLimit     int64
	tokensRemaining int64
	isExhausted     bool
	resetsAt        int64 // unix millis, rendered as RFC 3339 by the transport layer
}

// New creates a Budget snapshot. limit 0 and remaining -1 mean unlimited.
func New(limit, remaining int64, isExhausted bool, resetsAt int64) Budget {
	return Budget{
		tokensLimit:     limit,
		tokensRemaining: remaining,
		isExhausted:     isExhausted,
		resetsAt:        resetsAt,
	}
}

// TokensLimit returns the token cap (0 when unlimited).
func (b Budget) TokensLimit() int64 { return b.tokensLimit }

// TokensRemaining returns tokens left (-1 when unlimited).
func (b Budget) TokensRemaining() int64 { return b.tokensRemaining }

// Unlimited reports whether no cap is configured.
func (b Budget) Unlimited() bool { return b.tokensLimit == 0 }

// IsExhausted reports whether the budget is spent.
func (b Budget) IsExhausted() bool { return b.isExhausted }

// ResetsAt returns the reset timestamp (unix millis).
func (b Budget) ResetsAt() int64 { return b.resetsAt }
