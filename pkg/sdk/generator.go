package leadscout

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/leadscout/internal/domain"
)

// Generator sends one prompt to a generative model.
// Implement it to plug in a provider the SDK does not ship.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, error)
}

// GenerateRequest is one model call.
type GenerateRequest struct {
	Model         string
	Prompt        string
	SearchEnabled bool // ground the answer in a live web search when the provider can
	Temperature   float32
}

// GenerateResponse carries the raw model text and token counts.
type GenerateResponse struct {
	Text         string
	PromptTokens int
	TotalTokens  int
}

// generatorAdapter wraps a public Generator to satisfy domain.Generator.
type generatorAdapter struct {
	inner Generator
}

func (a *generatorAdapter) Generate(ctx context.Context, req domain.GenerateRequest) (domain.GenerateResult, error) {
	r, err := a.inner.Generate(ctx, GenerateRequest{
		Model:         req.Model,
		Prompt:        req.Prompt,
		SearchEnabled: req.SearchEnabled,
		Temperature:   req.Temperature,
	})
	if err != nil {
		return domain.GenerateResult{}, fmt.Errorf("custom generator: %w", domain.MarkRateLimited(err))
	}
	return domain.GenerateResult{
		Text:         r.Text,
		PromptTokens: r.PromptTokens,
		TotalTokens:  r.TotalTokens,
	}, nil
}
