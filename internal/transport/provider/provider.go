// Package provider builds the generator for a configured provider name.
package provider

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/leadscout/internal/domain"
	"github.com/kailas-cloud/leadscout/internal/transport/gemini"
	"github.com/kailas-cloud/leadscout/internal/transport/ollama"
	"github.com/kailas-cloud/leadscout/internal/transport/openai"
)

// Provider names.
const (
	Gemini = "gemini"
	OpenAI = "openai"
	Ollama = "ollama"
)

// Settings selects and configures a provider.
type Settings struct {
	Provider string
	APIKey   string
	BaseURL  string
	Model    string
}

// New returns the base generator for s.Provider.
func New(ctx context.Context, s Settings) (domain.Generator, error) {
	switch s.Provider {
	case Gemini:
		g, err := gemini.NewGenerator(ctx, &gemini.Config{APIKey: s.APIKey, BaseURL: s.BaseURL, Model: s.Model})
		if err != nil {
			return nil, fmt.Errorf("gemini generator: %w", err)
		}
		return g, nil
	case OpenAI:
		return openai.NewGenerator(&openai.Config{APIKey: s.APIKey, BaseURL: s.BaseURL}), nil
	case Ollama:
		g, err := ollama.NewGenerator(&ollama.Config{ServerURL: s.BaseURL, Model: s.Model})
		if err != nil {
			return nil, fmt.Errorf("ollama generator: %w", err)
		}
		return g, nil
	default:
		return nil, fmt.Errorf("provider %q: %w", s.Provider, domain.ErrUnknownProvider)
	}
}
