package domain

import (
	"context"
	"sync"
)

type generationUsageKey struct{}

// GenerationUsage collects token usage for a single search.
// Batches run concurrently, so writes are guarded.
type GenerationUsage struct {
	mu          sync.Mutex
	totalTokens int
	calls       int
}

// NewContextWithUsage returns a context with an embedded usage collector.
func NewContextWithUsage(ctx context.Context) (context.Context, *GenerationUsage) {
	u := &GenerationUsage{}
	return context.WithValue(ctx, generationUsageKey{}, u), u
}

// UsageFromContext extracts the usage collector from context. Returns nil if not set.
func UsageFromContext(ctx context.Context) *GenerationUsage {
	u, _ := ctx.Value(generationUsageKey{}).(*GenerationUsage)
	return u
}

// AddTokens records one generator call and its consumed tokens.
func (u *GenerationUsage) AddTokens(n int) {
	if u == nil {
		return
	}
	u.mu.Lock()
	u.totalTokens += n
	u.calls++
	u.mu.Unlock()
}

// TotalTokens returns the tokens recorded so far.
func (u *GenerationUsage) TotalTokens() int {
	if u == nil {
		return 0
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.totalTokens
}

// Calls returns the number of generator calls recorded.
func (u *GenerationUsage) Calls() int {
	if u == nil {
		return 0
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.calls
}
