package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/kailas-cloud/leadscout/internal/domain"
	"github.com/kailas-cloud/leadscout/internal/domain/search/mode"
	logpkg "github.com/kailas-cloud/leadscout/internal/logger"
	"github.com/kailas-cloud/leadscout/internal/transport/console"
	"github.com/kailas-cloud/leadscout/internal/version"
	leadscout "github.com/kailas-cloud/leadscout/pkg/sdk"
)

func init() {
	color.NoColor = true
}

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	require.NoError(t, cmd.ExecuteContext(context.Background()))
	return out.String()
}

func TestVersionCommand(t *testing.T) {
	assert.Equal(t, version.String()+"\n", execute(t, "version"))
}

func TestSuggestionsCommand(t *testing.T) {
	out := execute(t, "suggestions", "-n", "2")
	assert.Equal(t, "1. Tatuador em São Paulo\n2. Advogado trabalhista\n", out)
}

func TestLoadConfigFromFlag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
generator:
  provider: ollama
  model: llama3.1
search:
  profile: extended
`), 0o600))

	opts := &rootOptions{configPath: path}
	cfg, err := opts.loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "ollama", cfg.Generator.Provider)
	assert.Equal(t, mode.Extended, cfg.Mode())

	client, err := leadscout.New(context.Background(), clientOptions(&cfg, zap.NewNop())...)
	require.NoError(t, err)
	assert.Len(t, client.Suggestions(), 3)
}

type fakeSearcher struct {
	res leadscout.Result
	err error
}

func (f fakeSearcher) Search(context.Context, string, leadscout.Filters) (leadscout.Result, error) {
	return f.res, f.err
}

func TestRunSearch(t *testing.T) {
	res := leadscout.Result{
		Keyword:  "Tatuador",
		Profiles: []leadscout.Profile{{Username: "joao_tattoo", Name: "João", InstagramURL: "https://instagram.com/joao_tattoo"}},
	}

	t.Run("cards", func(t *testing.T) {
		var out, progress bytes.Buffer
		err := runSearch(context.Background(), fakeSearcher{res: res}, console.NewPrinter(&out), &progress, "Tatuador", &searchOptions{})
		require.NoError(t, err)
		assert.Contains(t, out.String(), `1 resultados para "Tatuador"`)
		assert.Contains(t, out.String(), "@joao_tattoo")
	})

	t.Run("json", func(t *testing.T) {
		var out, progress bytes.Buffer
		err := runSearch(context.Background(), fakeSearcher{res: res}, console.NewPrinter(&out), &progress, "Tatuador", &searchOptions{json: true})
		require.NoError(t, err)
		assert.Empty(t, progress.String())

		var decoded leadscout.Result
		require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
		assert.Equal(t, "joao_tattoo", decoded.Profiles[0].Username)
	})

	t.Run("error", func(t *testing.T) {
		var out, progress bytes.Buffer
		err := runSearch(context.Background(), fakeSearcher{err: domain.ErrNoResults}, console.NewPrinter(&out), &progress, "x", &searchOptions{})
		require.ErrorIs(t, err, errReported)
		assert.Contains(t, out.String(), domain.MessageNoResults)
	})
}

func TestJSONRecoverer(t *testing.T) {
	h := jsonRecoverer(zap.NewNop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(errors.New("boom"))
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/search", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"code":"internal_error","message":"internal error"}`, rec.Body.String())
}

func TestWideEventMiddleware(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	var gotLogger *zap.Logger

	h := chiMiddleware.RequestID(wideEventMiddleware(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotLogger = logpkg.FromContext(r.Context())
		w.Header().Set("X-Generation-Tokens", "42")
		w.WriteHeader(http.StatusTeapot)
	})))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/search?q=x", nil))

	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	require.NotNil(t, gotLogger)

	entries := logs.FilterMessage("http_request").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, int64(http.StatusTeapot), fields["status"])
	assert.Equal(t, "42", fields["generation_tokens"])
	assert.Equal(t, "q=x", fields["query"])
	assert.Equal(t, rec.Header().Get("X-Request-ID"), fields["request_id"])
}
