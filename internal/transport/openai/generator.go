package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"

	"github.com/kailas-cloud/leadscout/internal/domain"
)

// Generator is a chat-completion generator using the OpenAI-compatible API.
// Chat completions cannot ground answers in a live web search, so
// GenerateRequest.SearchEnabled is ignored here.
type Generator struct {
	client *openai.Client
	user   string
}

// Config holds the OpenAI-compatible provider settings.
type Config struct {
	APIKey  string
	BaseURL string
	User    string
}

// NewGenerator creates an OpenAI-compatible generator.
func NewGenerator(cfg *Config) *Generator {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &Generator{
		client: openai.NewClientWithConfig(clientCfg),
		user:   cfg.User,
	}
}

// Generate implements domain.Generator.
func (g *Generator) Generate(ctx context.Context, req domain.GenerateRequest) (domain.GenerateResult, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: req.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
		Temperature: req.Temperature,
		User:        g.user,
	})
	if err != nil {
		return domain.GenerateResult{}, parseAPIError(err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return domain.GenerateResult{}, fmt.Errorf("chat completion: %w", domain.ErrEmptyResponse)
	}

	return domain.GenerateResult{
		Text:         resp.Choices[0].Message.Content,
		PromptTokens: resp.Usage.PromptTokens,
		TotalTokens:  resp.Usage.TotalTokens,
	}, nil
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (g *Generator) HealthCheck(ctx context.Context) error {
	if _, err := g.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

// parseAPIError extracts a human-readable error from the API response.
// 429 maps to domain.ErrRateLimited, everything else to domain.ErrGeneratorError.
func parseAPIError(err error) error {
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		detail := extractDetail(reqErr.Body)
		if detail == "" {
			detail = string(reqErr.Body)
		}
		return fmt.Errorf("chat API error %d: %s: %w",
			reqErr.HTTPStatusCode, detail, wrapFor(reqErr.HTTPStatusCode))
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("chat API error %d: %s: %w",
			apiErr.HTTPStatusCode, apiErr.Message, wrapFor(apiErr.HTTPStatusCode))
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("chat request: %w", err)
	}
	return fmt.Errorf("chat request failed: %v: %w", err, domain.ErrGeneratorError)
}

func wrapFor(status int) error {
	if status == http.StatusTooManyRequests {
		return domain.ErrRateLimited
	}
	return domain.ErrGeneratorError
}

// extractDetail extracts the "detail" field from a JSON error body (Nebius error format).
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return ""
}
