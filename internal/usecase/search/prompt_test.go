package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/leadscout/internal/domain"
	"github.com/kailas-cloud/leadscout/internal/domain/search/filter"
)

func TestBuildPrompt_NoFilters(t *testing.T) {
	f, err := filter.New("", "", "")
	require.NoError(t, err)

	p := buildPrompt(`site:instagram.com "dentista" brasil`, f, domain.DefaultPromptConfig())

	assert.Contains(t, p, "find 12 REAL")
	assert.Contains(t, p, "BRAZIL ONLY")
	assert.Contains(t, p, "+55 numbers")
	assert.Contains(t, p, "https://wa.me/55[AREA][NUMBER]")
	assert.Contains(t, p, "Return ONLY a raw JSON array")
	assert.NotContains(t, p, "FOLLOWER REQUIREMENT")
	assert.NotContains(t, p, "BIO KEYWORD FILTER")
}

func TestBuildPrompt_EmbedsQueryVerbatim(t *testing.T) {
	f, err := filter.New("", "", "unhas de gel")
	require.NoError(t, err)

	p := buildPrompt(`site:instagram.com "tatuador" brasil`, f, domain.DefaultPromptConfig())

	assert.Contains(t, p, `related to: "site:instagram.com "tatuador" brasil".`)
	assert.Contains(t, p, `profiles containing: "unhas de gel".`)
	assert.NotContains(t, p, `\"`)
}

func TestBuildPrompt_FollowerRange(t *testing.T) {
	f, err := filter.New("1000", "", "")
	require.NoError(t, err)

	p := buildPrompt("q", f, domain.DefaultPromptConfig())

	assert.Contains(t, p, "between 1000 and any")
}

func TestBuildPrompt_CustomRegion(t *testing.T) {
	cfg := domain.DefaultPromptConfig()
	cfg.BatchSize = 5
	cfg.Region = "PORTUGAL"
	cfg.Language = "European Portuguese"
	cfg.PhonePrefix = "351"

	f, err := filter.New("", "", "")
	require.NoError(t, err)

	p := buildPrompt("q", f, cfg)

	assert.Contains(t, p, "find 5 REAL")
	assert.Contains(t, p, "PORTUGAL ONLY")
	assert.Contains(t, p, "+351 numbers")
}
