package search

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/leadscout/internal/domain"
	"github.com/kailas-cloud/leadscout/internal/domain/profile"
	"github.com/kailas-cloud/leadscout/internal/domain/search/mode"
	"github.com/kailas-cloud/leadscout/internal/domain/search/query"
	"github.com/kailas-cloud/leadscout/internal/domain/search/request"
	"github.com/kailas-cloud/leadscout/internal/domain/search/result"
	logpkg "github.com/kailas-cloud/leadscout/internal/logger"
	"github.com/kailas-cloud/leadscout/internal/metrics"
)

// DefaultBatchTimeout bounds a single generator call.
const DefaultBatchTimeout = 60 * time.Second

// Config tunes the search pipeline.
type Config struct {
	Prompt         domain.PromptConfig
	Mode           mode.Mode
	MaxConcurrency int           // 0 runs every variation at once
	BatchTimeout   time.Duration // 0 means DefaultBatchTimeout
}

// Service fans a keyword out into query variations, asks the generator for
// each one concurrently and merges the profiles it finds.
type Service struct {
	gen    Generator
	cfg    Config
	logger *zap.Logger
}

// New creates a search service. Zero-valued config fields take defaults.
func New(gen Generator, cfg Config, logger *zap.Logger) *Service {
	def := domain.DefaultPromptConfig()
	if cfg.Prompt.Model == "" {
		cfg.Prompt.Model = def.Model
	}
	if cfg.Prompt.BatchSize <= 0 {
		cfg.Prompt.BatchSize = def.BatchSize
	}
	if cfg.Prompt.Country == "" {
		cfg.Prompt.Country = def.Country
	}
	if cfg.Prompt.Region == "" {
		cfg.Prompt.Region = def.Region
	}
	if cfg.Prompt.Language == "" {
		cfg.Prompt.Language = def.Language
	}
	if cfg.Prompt.PhonePrefix == "" {
		cfg.Prompt.PhonePrefix = def.PhonePrefix
	}
	if !cfg.Mode.IsValid() {
		cfg.Mode = mode.Compact
	}
	if cfg.BatchTimeout <= 0 {
		cfg.BatchTimeout = DefaultBatchTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{gen: gen, cfg: cfg, logger: logger}
}

// Mode returns the variation mode the service runs with.
func (s *Service) Mode() mode.Mode { return s.cfg.Mode }

type batch struct {
	variation   query.Variation
	profiles    []profile.Profile
	outcome     result.BatchOutcome
	rateLimited bool
}

// Search runs one lead search. It fails with domain.ErrNoResults when no
// profile survives the merge; when every batch failed and at least one was
// rate limited the error also matches domain.ErrRateLimited.
func (s *Service) Search(ctx context.Context, req *request.Request) (result.Result, error) {
	start := time.Now()
	id := uuid.NewString()
	log := logpkg.FromContextOr(ctx, s.logger).With(zap.String("search_id", id), zap.String("keyword", req.Keyword()))

	variations := query.Build(req.Keyword(), req.Filters().BioKeyword(), s.cfg.Prompt.Country, s.cfg.Mode)
	batches := make([]batch, len(variations))

	var g errgroup.Group
	if s.cfg.MaxConcurrency > 0 {
		g.SetLimit(s.cfg.MaxConcurrency)
	}
	for i, v := range variations {
		g.Go(func() error {
			batches[i] = s.runBatch(ctx, v, req, log)
			return nil
		})
	}
	_ = g.Wait() // batches never return errors; failures are recorded per slot

	profiles, stats := merge(batches)
	stats.Duration = time.Since(start)

	metrics.SearchProfilesTotal.WithLabelValues("raw").Add(float64(stats.RawProfiles))
	metrics.SearchProfilesTotal.WithLabelValues("unique").Add(float64(stats.Unique))
	metrics.SearchProfilesTotal.WithLabelValues("dropped").Add(float64(stats.RawProfiles - stats.Unique))

	log.Info("search finished",
		zap.Int("variations", stats.Variations),
		zap.Int("failed_batches", stats.FailedBatches),
		zap.Int("raw_profiles", stats.RawProfiles),
		zap.Int("unique_profiles", stats.Unique),
		zap.Duration("duration", stats.Duration),
	)

	if len(profiles) == 0 {
		if err := ctx.Err(); err != nil {
			return result.Result{}, fmt.Errorf("search %q: %w", req.Keyword(), err)
		}
		if stats.FailedBatches == stats.Variations && anyRateLimited(batches) {
			return result.Result{}, fmt.Errorf("search %q: %w: %w", req.Keyword(), domain.ErrNoResults, domain.ErrRateLimited)
		}
		return result.Result{}, fmt.Errorf("search %q: %w", req.Keyword(), domain.ErrNoResults)
	}

	return result.New(id, req.Keyword(), req.Filters(), profiles, stats), nil
}

func (s *Service) runBatch(ctx context.Context, v query.Variation, req *request.Request, log *zap.Logger) batch {
	b := batch{variation: v}
	defer func() {
		metrics.SearchBatchesTotal.WithLabelValues(string(v.Kind), string(b.outcome)).Inc()
	}()

	bctx, cancel := context.WithTimeout(ctx, s.cfg.BatchTimeout)
	defer cancel()

	res, err := s.gen.Generate(bctx, domain.GenerateRequest{
		Model:         s.cfg.Prompt.Model,
		Prompt:        buildPrompt(v.Text, req.Filters(), s.cfg.Prompt),
		SearchEnabled: s.cfg.Prompt.SearchEnabled,
		Temperature:   s.cfg.Prompt.Temperature,
	})
	if err != nil {
		b.outcome = result.OutcomeError
		err = domain.MarkRateLimited(err)
		b.rateLimited = domain.IsRateLimited(err)
		log.Warn("batch failed",
			zap.String("kind", string(v.Kind)),
			zap.Bool("rate_limited", b.rateLimited),
			zap.Error(err),
		)
		return b
	}

	profiles, skipped, err := extractProfiles(res.Text)
	if err != nil {
		b.outcome = result.OutcomeParseError
		log.Warn("batch output unparseable", zap.String("kind", string(v.Kind)), zap.Error(err))
		return b
	}
	if skipped > 0 {
		log.Debug("skipped incomplete entries", zap.String("kind", string(v.Kind)), zap.Int("skipped", skipped))
	}

	b.profiles = profiles
	b.outcome = result.OutcomeOK
	if len(profiles) == 0 {
		b.outcome = result.OutcomeEmpty
	}
	return b
}

// merge deduplicates profiles by normalized username, keeping the first
// occurrence in variation order. Profiles whose username normalizes to
// something invalid are dropped.
func merge(batches []batch) ([]profile.Profile, result.Stats) {
	stats := result.Stats{Variations: len(batches)}
	seen := make(map[string]struct{})
	var out []profile.Profile

	for _, b := range batches {
		if b.outcome.Failed() {
			stats.FailedBatches++
			continue
		}
		stats.RawProfiles += len(b.profiles)
		for _, p := range b.profiles {
			u := profile.NormalizeUsername(p.Username())
			if !profile.ValidUsername(u) {
				continue
			}
			if _, dup := seen[u]; dup {
				continue
			}
			seen[u] = struct{}{}
			out = append(out, p.WithUsername(u))
		}
	}

	stats.Unique = len(out)
	return out, stats
}

func anyRateLimited(batches []batch) bool {
	for _, b := range batches {
		if b.rateLimited {
			return true
		}
	}
	return false
}
