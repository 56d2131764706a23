package search

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/kailas-cloud/leadscout/internal/domain"
	"github.com/kailas-cloud/leadscout/internal/domain/search/filter"
	"github.com/kailas-cloud/leadscout/internal/domain/search/mode"
	"github.com/kailas-cloud/leadscout/internal/domain/search/request"
	logpkg "github.com/kailas-cloud/leadscout/internal/logger"
)

// --- Mocks ---

// scriptedGenerator answers by matching a marker of the query variation in the prompt.
type scriptedGenerator struct {
	mu       sync.Mutex
	prompts  []string
	replies  map[string]string
	errs     map[string]error
	fallback string
	block    bool

	inFlight atomic.Int32
	maxSeen  atomic.Int32
}

func (g *scriptedGenerator) Generate(ctx context.Context, req domain.GenerateRequest) (domain.GenerateResult, error) {
	n := g.inFlight.Add(1)
	defer g.inFlight.Add(-1)
	for {
		cur := g.maxSeen.Load()
		if n <= cur || g.maxSeen.CompareAndSwap(cur, n) {
			break
		}
	}

	g.mu.Lock()
	g.prompts = append(g.prompts, req.Prompt)
	g.mu.Unlock()

	if g.block {
		<-ctx.Done()
		return domain.GenerateResult{}, ctx.Err()
	}
	time.Sleep(5 * time.Millisecond)

	for marker, err := range g.errs {
		if strings.Contains(req.Prompt, marker) {
			return domain.GenerateResult{}, err
		}
	}
	for marker, text := range g.replies {
		if strings.Contains(req.Prompt, marker) {
			return domain.GenerateResult{Text: text}, nil
		}
	}
	return domain.GenerateResult{Text: g.fallback}, nil
}

func (g *scriptedGenerator) calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.prompts)
}

// Markers that identify each compact variation inside a prompt.
const (
	nicheMarker      = "site:instagram.com"
	commercialMarker = "orçamentos contato"
	authorityMarker  = "especialista profissional"
)

func newRequest(t *testing.T, keyword, bio string) *request.Request {
	t.Helper()
	f, err := filter.New("", "", bio)
	require.NoError(t, err)
	req, err := request.New(keyword, f)
	require.NoError(t, err)
	return &req
}

// --- Tests ---

func TestSearch_DeduplicatesAcrossBatches(t *testing.T) {
	gen := &scriptedGenerator{
		replies: map[string]string{
			nicheMarker:      `[{"name":"João","username":"@Joao_Tattoo/","instagram_url":"https://instagram.com/joao_tattoo"}]`,
			commercialMarker: `[{"name":"João Tattoo Studio","username":"joao_tattoo","instagram_url":"https://instagram.com/joao_tattoo"}]`,
		},
		fallback: `[]`,
	}
	svc := New(gen, Config{}, nil)

	res, err := svc.Search(context.Background(), newRequest(t, "tatuador", ""))
	require.NoError(t, err)

	profiles := res.Profiles()
	require.Len(t, profiles, 1)
	assert.Equal(t, "joao_tattoo", profiles[0].Username())
	assert.Equal(t, "João", profiles[0].Name())

	stats := res.Stats()
	assert.Equal(t, 3, stats.Variations)
	assert.Equal(t, 0, stats.FailedBatches)
	assert.Equal(t, 2, stats.RawProfiles)
	assert.Equal(t, 1, stats.Unique)
	assert.NotEmpty(t, res.ID())
	assert.Equal(t, "tatuador", res.Keyword())
}

func TestSearch_FirstSeenOrderFollowsVariations(t *testing.T) {
	gen := &scriptedGenerator{
		replies: map[string]string{
			nicheMarker:      `[{"name":"A","username":"aaa","instagram_url":"u"},{"name":"B","username":"bbb","instagram_url":"u"}]`,
			commercialMarker: `[{"name":"C","username":"ccc","instagram_url":"u"},{"name":"A2","username":"AAA","instagram_url":"u"}]`,
			authorityMarker:  `[{"name":"D","username":"ddd","instagram_url":"u"}]`,
		},
	}
	svc := New(gen, Config{}, nil)

	res, err := svc.Search(context.Background(), newRequest(t, "dentista", ""))
	require.NoError(t, err)

	var got []string
	for _, p := range res.Profiles() {
		got = append(got, p.Username())
	}
	assert.Equal(t, []string{"aaa", "bbb", "ccc", "ddd"}, got)
}

func TestSearch_DropsInvalidUsernames(t *testing.T) {
	gen := &scriptedGenerator{
		replies: map[string]string{
			nicheMarker: `[
				{"name":"Short","username":"ab","instagram_url":"u"},
				{"name":"Space","username":"joao silva","instagram_url":"u"},
				{"name":"Ok","username":"maria.fit","instagram_url":"u"}
			]`,
		},
		fallback: `[]`,
	}
	svc := New(gen, Config{}, nil)

	res, err := svc.Search(context.Background(), newRequest(t, "personal", ""))
	require.NoError(t, err)
	require.Len(t, res.Profiles(), 1)
	assert.Equal(t, "maria.fit", res.Profiles()[0].Username())
}

func TestSearch_PartialFailureStillReturnsProfiles(t *testing.T) {
	gen := &scriptedGenerator{
		errs: map[string]error{
			commercialMarker: errors.New("boom"),
		},
		replies: map[string]string{
			nicheMarker:     `not json at all`,
			authorityMarker: `[{"name":"Ana","username":"ana_nails","instagram_url":"u"}]`,
		},
	}
	svc := New(gen, Config{}, nil)

	res, err := svc.Search(context.Background(), newRequest(t, "manicure", ""))
	require.NoError(t, err)
	assert.Len(t, res.Profiles(), 1)
	assert.Equal(t, 2, res.Stats().FailedBatches)
}

func TestSearch_AllEmptyIsNoResults(t *testing.T) {
	svc := New(&scriptedGenerator{fallback: `[]`}, Config{}, nil)

	_, err := svc.Search(context.Background(), newRequest(t, "xyz", ""))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNoResults)
	assert.NotErrorIs(t, err, domain.ErrRateLimited)
}

func TestSearch_KeywordWithRateLimitWordsIsPlainNoResults(t *testing.T) {
	for _, kw := range []string{"loja 429", "consultor de quota", "too many requests"} {
		t.Run(kw, func(t *testing.T) {
			svc := New(&scriptedGenerator{fallback: `[]`}, Config{}, nil)

			_, err := svc.Search(context.Background(), newRequest(t, kw, ""))
			require.ErrorIs(t, err, domain.ErrNoResults)
			assert.NotErrorIs(t, err, domain.ErrRateLimited)
			assert.False(t, domain.IsRateLimited(err))
			assert.Equal(t, domain.MessageNoResults, domain.UserMessage(err))
		})
	}
}

func TestSearch_AllFailedWithRateLimit(t *testing.T) {
	gen := &scriptedGenerator{
		errs: map[string]error{
			nicheMarker:      errors.New("googleapi: Error 429: RESOURCE_EXHAUSTED"),
			commercialMarker: errors.New("connection reset"),
			authorityMarker:  errors.New("connection reset"),
		},
	}
	svc := New(gen, Config{}, nil)

	_, err := svc.Search(context.Background(), newRequest(t, "advogado", ""))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNoResults)
	assert.ErrorIs(t, err, domain.ErrRateLimited)
	assert.Equal(t, domain.MessageRateLimited, domain.UserMessage(err))
}

func TestSearch_RateLimitWithOtherBatchEmptyIsPlainNoResults(t *testing.T) {
	gen := &scriptedGenerator{
		errs: map[string]error{
			nicheMarker: domain.ErrRateLimited,
		},
		fallback: `[]`,
	}
	svc := New(gen, Config{}, nil)

	_, err := svc.Search(context.Background(), newRequest(t, "advogado", ""))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNoResults)
	assert.NotErrorIs(t, err, domain.ErrRateLimited)
}

func TestSearch_ExtendedModeRunsFiveBatches(t *testing.T) {
	gen := &scriptedGenerator{fallback: `[{"name":"X","username":"xxx","instagram_url":"u"}]`}
	svc := New(gen, Config{Mode: mode.Extended}, nil)

	res, err := svc.Search(context.Background(), newRequest(t, "nutricionista", ""))
	require.NoError(t, err)
	assert.Equal(t, 5, gen.calls())
	assert.Equal(t, 5, res.Stats().Variations)
	assert.Len(t, res.Profiles(), 1)
}

func TestSearch_BioKeywordReachesEveryPrompt(t *testing.T) {
	gen := &scriptedGenerator{fallback: `[{"name":"X","username":"xxx","instagram_url":"u"}]`}
	svc := New(gen, Config{}, nil)

	_, err := svc.Search(context.Background(), newRequest(t, "psicólogo", "TCC"))
	require.NoError(t, err)

	gen.mu.Lock()
	defer gen.mu.Unlock()
	require.Len(t, gen.prompts, 3)
	for _, p := range gen.prompts {
		assert.Contains(t, p, `"TCC"`)
		assert.Contains(t, p, "BIO KEYWORD FILTER")
	}
}

func TestSearch_MaxConcurrency(t *testing.T) {
	gen := &scriptedGenerator{fallback: `[{"name":"X","username":"xxx","instagram_url":"u"}]`}
	svc := New(gen, Config{Mode: mode.Extended, MaxConcurrency: 1}, nil)

	_, err := svc.Search(context.Background(), newRequest(t, "barbeiro", ""))
	require.NoError(t, err)
	assert.Equal(t, int32(1), gen.maxSeen.Load())
}

func TestSearch_BatchTimeout(t *testing.T) {
	gen := &scriptedGenerator{block: true}
	svc := New(gen, Config{BatchTimeout: 20 * time.Millisecond}, nil)

	start := time.Now()
	_, err := svc.Search(context.Background(), newRequest(t, "fotógrafo", ""))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNoResults)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestSearch_CanceledContext(t *testing.T) {
	gen := &scriptedGenerator{block: true}
	svc := New(gen, Config{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Search(ctx, newRequest(t, "fotógrafo", ""))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNew_Defaults(t *testing.T) {
	svc := New(&scriptedGenerator{}, Config{Mode: "bogus"}, nil)

	assert.Equal(t, mode.Compact, svc.Mode())
	assert.Equal(t, DefaultBatchTimeout, svc.cfg.BatchTimeout)
	assert.Equal(t, domain.DefaultPromptConfig().BatchSize, svc.cfg.Prompt.BatchSize)
	assert.Equal(t, domain.DefaultPromptConfig().Model, svc.cfg.Prompt.Model)
}

func TestSearch_LogsWithRequestLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	reqLogger := zap.New(core).With(zap.String("request_id", "req-7"))
	ctx := logpkg.ContextWithLogger(context.Background(), reqLogger)

	gen := &scriptedGenerator{fallback: `[{"name":"Ana","username":"ana_nails","instagram_url":"https://instagram.com/ana_nails"}]`}
	_, err := New(gen, Config{}, zap.NewNop()).Search(ctx, newRequest(t, "manicure", ""))
	require.NoError(t, err)

	entries := logs.FilterMessage("search finished").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "req-7", fields["request_id"])
	assert.Equal(t, "manicure", fields["keyword"])
	assert.Equal(t, int64(1), fields["unique_profiles"])
}
