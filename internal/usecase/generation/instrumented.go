package generation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/leadscout/internal/domain"
	"github.com/kailas-cloud/leadscout/internal/metrics"
)

// InstrumentedGenerator wraps a Generator with metrics, logging and
// per-search token accounting. Providers stay free of observability code.
type InstrumentedGenerator struct {
	inner    domain.Generator
	provider string
	model    string
	budget   BudgetChecker
	logger   *zap.Logger
}

// NewInstrumentedGenerator wraps a generator with observability.
func NewInstrumentedGenerator(inner domain.Generator, provider, model string, logger *zap.Logger) *InstrumentedGenerator {
	return &InstrumentedGenerator{
		inner:    inner,
		provider: provider,
		model:    model,
		logger:   logger,
	}
}

// WithBudget gates every call on b. A nil interface disables the check.
func (g *InstrumentedGenerator) WithBudget(b BudgetChecker) *InstrumentedGenerator {
	g.budget = b
	return g
}

// Generate delegates to the inner generator and records usage.
func (g *InstrumentedGenerator) Generate(
	ctx context.Context, req domain.GenerateRequest,
) (domain.GenerateResult, error) {
	if g.budget != nil {
		if err := g.budget.Check(ctx); err != nil {
			metrics.RecordGeneration(g.provider, g.model, 0, 0, 0, "budget_exceeded")
			return domain.GenerateResult{}, fmt.Errorf("generate: %w", err)
		}
	}

	start := time.Now()

	res, err := g.inner.Generate(ctx, req)

	duration := time.Since(start)

	if err != nil {
		err = domain.MarkRateLimited(err)
		metrics.RecordGeneration(g.provider, g.model, duration.Seconds(), 0, 0, errorType(err))
		g.logger.Warn("Generation request failed",
			zap.String("provider", g.provider),
			zap.String("model", g.model),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return domain.GenerateResult{}, fmt.Errorf("generate: %w", err)
	}

	metrics.RecordGeneration(g.provider, g.model, duration.Seconds(), res.PromptTokens, res.TotalTokens, "")
	domain.UsageFromContext(ctx).AddTokens(res.TotalTokens)
	if g.budget != nil {
		g.budget.Record(int64(res.TotalTokens))
	}

	g.logger.Debug("Generation request completed",
		zap.String("provider", g.provider),
		zap.String("model", g.model),
		zap.Duration("duration", duration),
		zap.Int("response_chars", len(res.Text)),
		zap.Int("prompt_tokens", res.PromptTokens),
		zap.Int("total_tokens", res.TotalTokens),
	)

	return res, nil
}

// HealthCheck forwards to the inner generator when it supports health checks.
func (g *InstrumentedGenerator) HealthCheck(ctx context.Context) error {
	hc, ok := g.inner.(domain.HealthChecker)
	if !ok {
		return nil
	}
	if err := hc.HealthCheck(ctx); err != nil {
		return fmt.Errorf("%s health check: %w", g.provider, err)
	}
	return nil
}

func errorType(err error) string {
	switch {
	case domain.IsRateLimited(err):
		return "rate_limited"
	case errors.Is(err, domain.ErrEmptyResponse):
		return "empty_response"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return "api_error"
	}
}
