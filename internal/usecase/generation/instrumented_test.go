package generation

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kailas-cloud/leadscout/internal/domain"
	"github.com/kailas-cloud/leadscout/internal/metrics"
)

type stubGenerator struct {
	res       domain.GenerateResult
	err       error
	healthErr error
}

func (s *stubGenerator) Generate(_ context.Context, _ domain.GenerateRequest) (domain.GenerateResult, error) {
	return s.res, s.err
}

func (s *stubGenerator) HealthCheck(_ context.Context) error { return s.healthErr }

type plainGenerator struct{}

func (plainGenerator) Generate(_ context.Context, _ domain.GenerateRequest) (domain.GenerateResult, error) {
	return domain.GenerateResult{}, nil
}

func TestInstrumented_RecordsUsage(t *testing.T) {
	inner := &stubGenerator{res: domain.GenerateResult{Text: "[]", PromptTokens: 30, TotalTokens: 80}}
	g := NewInstrumentedGenerator(inner, "stub", "usage-model", zap.NewNop())

	ctx, usage := domain.NewContextWithUsage(context.Background())
	res, err := g.Generate(ctx, domain.GenerateRequest{Prompt: "p"})
	require.NoError(t, err)

	assert.Equal(t, "[]", res.Text)
	assert.Equal(t, 80, usage.TotalTokens())
	assert.Equal(t, 1, usage.Calls())
	assert.GreaterOrEqual(t,
		testutil.ToFloat64(metrics.GenerationRequestsTotal.WithLabelValues("stub", "usage-model", "success")), 1.0)
}

func TestInstrumented_WrapsErrors(t *testing.T) {
	inner := &stubGenerator{err: fmt.Errorf("api: %w", domain.ErrRateLimited)}
	g := NewInstrumentedGenerator(inner, "stub", "err-model", zap.NewNop())

	ctx, usage := domain.NewContextWithUsage(context.Background())
	_, err := g.Generate(ctx, domain.GenerateRequest{Prompt: "p"})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRateLimited)
	assert.Zero(t, usage.Calls())
	assert.GreaterOrEqual(t,
		testutil.ToFloat64(metrics.GenerationErrorsTotal.WithLabelValues("stub", "err-model", "rate_limited")), 1.0)
}

func TestInstrumented_MarksRateLimitText(t *testing.T) {
	inner := &stubGenerator{err: errors.New("HTTP 429 Too Many Requests")}
	g := NewInstrumentedGenerator(inner, "stub", "text-model", zap.NewNop())

	_, err := g.Generate(context.Background(), domain.GenerateRequest{Prompt: "p"})
	require.ErrorIs(t, err, domain.ErrRateLimited)
	assert.GreaterOrEqual(t,
		testutil.ToFloat64(metrics.GenerationErrorsTotal.WithLabelValues("stub", "text-model", "rate_limited")), 1.0)
}

func TestInstrumented_HealthCheck(t *testing.T) {
	g := NewInstrumentedGenerator(&stubGenerator{healthErr: errors.New("down")}, "stub", "m", zap.NewNop())
	assert.Error(t, g.HealthCheck(context.Background()))

	g = NewInstrumentedGenerator(plainGenerator{}, "plain", "m", zap.NewNop())
	assert.NoError(t, g.HealthCheck(context.Background()))
}

func TestErrorType(t *testing.T) {
	assert.Equal(t, "rate_limited", errorType(fmt.Errorf("x: %w", domain.ErrRateLimited)))
	assert.Equal(t, "api_error", errorType(errors.New("HTTP 429")))
	assert.Equal(t, "empty_response", errorType(fmt.Errorf("x: %w", domain.ErrEmptyResponse)))
	assert.Equal(t, "timeout", errorType(context.DeadlineExceeded))
	assert.Equal(t, "api_error", errorType(errors.New("boom")))
}

func TestInstrumented_BudgetRejects(t *testing.T) {
	inner := &stubGenerator{res: domain.GenerateResult{Text: "[]", TotalTokens: 60}}
	budget := NewBudgetTracker("stub", 50, 0, BudgetActionReject, zap.NewNop())
	g := NewInstrumentedGenerator(inner, "stub", "budget-model", zap.NewNop()).WithBudget(budget)

	_, err := g.Generate(context.Background(), domain.GenerateRequest{Prompt: "p"})
	require.NoError(t, err)
	assert.Equal(t, int64(60), budget.DailyUsed())

	_, err = g.Generate(context.Background(), domain.GenerateRequest{Prompt: "p"})
	require.ErrorIs(t, err, domain.ErrTokenBudgetExceeded)
	assert.True(t, domain.IsRateLimited(err))
	assert.Equal(t, int64(1), budget.DailyCalls())
	assert.GreaterOrEqual(t,
		testutil.ToFloat64(metrics.GenerationErrorsTotal.WithLabelValues("stub", "budget-model", "budget_exceeded")), 1.0)
}
