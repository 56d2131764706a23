package leadscout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/leadscout/internal/domain"
	"github.com/kailas-cloud/leadscout/internal/domain/profile"
	"github.com/kailas-cloud/leadscout/internal/domain/search/filter"
	"github.com/kailas-cloud/leadscout/internal/domain/search/mode"
	"github.com/kailas-cloud/leadscout/internal/domain/search/request"
	"github.com/kailas-cloud/leadscout/internal/domain/search/result"
	"github.com/kailas-cloud/leadscout/internal/domain/search/suggestion"
	"github.com/kailas-cloud/leadscout/internal/transport/provider"
	generationuc "github.com/kailas-cloud/leadscout/internal/usecase/generation"
	healthuc "github.com/kailas-cloud/leadscout/internal/usecase/health"
	searchuc "github.com/kailas-cloud/leadscout/internal/usecase/search"
)

var defaultModels = map[string]string{
	provider.Gemini: "gemini-2.5-flash",
	provider.OpenAI: "gpt-4o-mini",
	provider.Ollama: "llama3.1",
}

// searchUseCase is the internal interface for substitution in tests.
type searchUseCase interface {
	Search(ctx context.Context, req *request.Request) (result.Result, error)
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

// Client is the leadscout SDK entry point. It is safe for concurrent use.
type Client struct {
	searchSvc searchUseCase
	healthSvc healthUseCase
	fallback  profile.ContactFallback
	obs       *observer
}

// New creates a Client. A provider option (WithGemini, WithOpenAI, WithOllama
// or WithGenerator) is required.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}
	if cfg.provider == "" {
		return nil, errors.New("leadscout: generator required (use WithGemini, WithOpenAI, WithOllama or WithGenerator)")
	}

	logger := cfg.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	obs, err := newObserver(logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	base, err := buildGenerator(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if cfg.model == "" {
		cfg.model = defaultModels[cfg.provider]
	}
	gen := generationuc.NewInstrumentedGenerator(base, cfg.provider, cfg.model, logger)
	if cfg.dailyTokens > 0 || cfg.monthlyTokens > 0 {
		gen.WithBudget(generationuc.NewBudgetTracker(
			cfg.provider, cfg.dailyTokens, cfg.monthlyTokens, generationuc.BudgetActionReject, logger,
		))
	}

	return &Client{
		searchSvc: searchuc.New(gen, searchConfig(cfg), logger),
		healthSvc: healthuc.New(gen),
		fallback:  profile.ContactFallback{Number: cfg.fallbackNumber, Greeting: cfg.fallbackGreeting},
		obs:       obs,
	}, nil
}

func buildGenerator(ctx context.Context, cfg *clientConfig) (domain.Generator, error) {
	if cfg.provider == "custom" {
		if cfg.generator == nil {
			return nil, errors.New("leadscout: WithGenerator(nil)")
		}
		return &generatorAdapter{inner: cfg.generator}, nil
	}
	g, err := provider.New(ctx, provider.Settings{
		Provider: cfg.provider,
		APIKey:   cfg.apiKey,
		BaseURL:  cfg.baseURL,
		Model:    cfg.model,
	})
	if err != nil {
		return nil, fmt.Errorf("leadscout: %w", err)
	}
	return g, nil
}

func searchConfig(cfg *clientConfig) searchuc.Config {
	prompt := domain.DefaultPromptConfig()
	if cfg.model != "" {
		prompt.Model = cfg.model
	}
	if cfg.temperature != nil {
		prompt.Temperature = *cfg.temperature
	}
	if cfg.searchEnabled != nil {
		prompt.SearchEnabled = *cfg.searchEnabled
	}
	if cfg.batchSize > 0 {
		prompt.BatchSize = cfg.batchSize
	}
	if cfg.country != "" {
		prompt.Country = cfg.country
	}
	if cfg.region != "" {
		prompt.Region = cfg.region
	}
	if cfg.language != "" {
		prompt.Language = cfg.language
	}
	if cfg.phonePrefix != "" {
		prompt.PhonePrefix = cfg.phonePrefix
	}

	m := mode.Compact
	if cfg.extended {
		m = mode.Extended
	}
	return searchuc.Config{
		Prompt:         prompt,
		Mode:           m,
		MaxConcurrency: cfg.maxConcurrency,
		BatchTimeout:   cfg.batchTimeout,
	}
}

// Search finds profiles for a profession or niche keyword.
func (c *Client) Search(ctx context.Context, keyword string, filters Filters) (_ Result, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search", start, err) }()

	f, err := filter.New(filters.MinFollowers, filters.MaxFollowers, filters.BioKeyword)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrInvalidQuery, err)
	}
	req, err := request.New(keyword, f)
	if err != nil {
		return Result{}, fmt.Errorf("build request: %w", err)
	}

	ctx, usage := domain.NewContextWithUsage(ctx)
	res, err := c.searchSvc.Search(ctx, &req)
	if err != nil {
		return Result{}, fmt.Errorf("search: %w", err)
	}

	out := resultFromDomain(&res, c.fallback, usage.TotalTokens())
	c.obs.profilesReturned(len(out.Profiles))
	return out, nil
}

// Suggestions returns the sample keywords shown next to a search box.
func (c *Client) Suggestions() []string {
	return suggestion.List(suggestion.DefaultShown)
}

// Health checks the generator provider.
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.healthSvc.Check(ctx)
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	return HealthStatus{
		Status: string(report.Status),
		Checks: checks,
	}
}
