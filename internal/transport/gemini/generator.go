// Package gemini implements the generator on Google's Gemini API with
// Google Search grounding.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/kailas-cloud/leadscout/internal/domain"
)

// Generator sends prompts to Gemini, optionally with the Google Search tool.
type Generator struct {
	client      *genai.Client
	healthModel string
}

// Config holds the Gemini provider settings.
type Config struct {
	APIKey  string
	BaseURL string // empty uses the public endpoint
	Model   string // probed by HealthCheck
}

// NewGenerator creates a Gemini generator.
func NewGenerator(ctx context.Context, cfg *Config) (*Generator, error) {
	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Generator{client: client, healthModel: cfg.Model}, nil
}

// Generate implements domain.Generator.
func (g *Generator) Generate(ctx context.Context, req domain.GenerateRequest) (domain.GenerateResult, error) {
	temp := req.Temperature
	config := &genai.GenerateContentConfig{Temperature: &temp}
	if req.SearchEnabled {
		config.Tools = []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
	}

	resp, err := g.client.Models.GenerateContent(ctx, req.Model, genai.Text(req.Prompt), config)
	if err != nil {
		return domain.GenerateResult{}, classify(err)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return domain.GenerateResult{}, fmt.Errorf("gemini: %w", domain.ErrEmptyResponse)
	}

	res := domain.GenerateResult{Text: text}
	if resp.UsageMetadata != nil {
		res.PromptTokens = int(resp.UsageMetadata.PromptTokenCount)
		res.TotalTokens = int(resp.UsageMetadata.TotalTokenCount)
	}
	return res, nil
}

// HealthCheck fetches the configured model's metadata.
func (g *Generator) HealthCheck(ctx context.Context) error {
	if _, err := g.client.Models.Get(ctx, g.healthModel, nil); err != nil {
		return fmt.Errorf("get model %s: %w", g.healthModel, err)
	}
	return nil
}

// classify maps a Gemini API failure onto domain errors. The SDK reports quota
// exhaustion as HTTP 429 / RESOURCE_EXHAUSTED in the error text.
func classify(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("gemini: %w", err)
	}
	if domain.IsRateLimitText(err.Error()) {
		return fmt.Errorf("gemini: %v: %w", err, domain.ErrRateLimited)
	}
	return fmt.Errorf("gemini: %v: %w", err, domain.ErrGeneratorError)
}
