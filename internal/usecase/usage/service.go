package usage

import (
	"context"
	"time"

	domusage "github.com/kailas-cloud/leadscout/internal/domain/usage"
	"github.com/kailas-cloud/leadscout/internal/domain/usage/budget"
	"github.com/kailas-cloud/leadscout/internal/domain/usage/metrics"
)

// Service handles usage reporting.
type Service struct {
	br       BudgetReader
	provider string
	now      func() time.Time
}

// New creates a Service. br can be nil, in which case reports are empty and unlimited.
func New(br BudgetReader, provider string) *Service {
	return &Service{br: br, provider: provider, now: time.Now}
}

// GetReport builds a usage report for the given period.
func (s *Service) GetReport(_ context.Context, period domusage.Period) domusage.Report {
	now := s.now().UTC()
	var start, end time.Time
	var limit, used, calls int64
	remaining := int64(-1)

	switch period {
	case domusage.PeriodMonth:
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		end = start.AddDate(0, 1, 0)
		if s.br != nil {
			limit = s.br.MonthlyLimit()
			used = s.br.MonthlyUsed()
			calls = s.br.MonthlyCalls()
			remaining = s.br.RemainingMonthly()
		}
	default:
		period = domusage.PeriodDay
		start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		end = start.Add(24 * time.Hour)
		if s.br != nil {
			limit = s.br.DailyLimit()
			used = s.br.DailyUsed()
			calls = s.br.DailyCalls()
			remaining = s.br.RemainingDaily()
		}
	}

	exhausted := limit > 0 && remaining <= 0
	b := budget.New(limit, remaining, exhausted, end.UnixMilli())
	m := metrics.New(calls, used)

	return domusage.NewReport(period, start.UnixMilli(), end.UnixMilli(), s.provider, m, b)
}
