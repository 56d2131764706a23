// Package ollama implements the generator on a local Ollama server through langchaingo.
package ollama

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"

	"github.com/kailas-cloud/leadscout/internal/domain"
)

// DefaultServerURL is the Ollama listen address.
const DefaultServerURL = "http://localhost:11434"

// Generator runs prompts on a local model. Local models have no web search,
// so GenerateRequest.SearchEnabled is ignored and results come from model memory.
type Generator struct {
	llm llms.Model
}

// Config holds the Ollama provider settings.
type Config struct {
	ServerURL string
	Model     string
}

// NewGenerator creates an Ollama generator.
func NewGenerator(cfg *Config) (*Generator, error) {
	serverURL := cfg.ServerURL
	if serverURL == "" {
		serverURL = DefaultServerURL
	}
	llm, err := ollama.New(ollama.WithModel(cfg.Model), ollama.WithServerURL(serverURL))
	if err != nil {
		return nil, fmt.Errorf("init ollama: %w", err)
	}
	return &Generator{llm: llm}, nil
}

// Generate implements domain.Generator.
func (g *Generator) Generate(ctx context.Context, req domain.GenerateRequest) (domain.GenerateResult, error) {
	content := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeHuman, req.Prompt),
	}
	opts := []llms.CallOption{llms.WithTemperature(float64(req.Temperature))}
	if req.Model != "" {
		opts = append(opts, llms.WithModel(req.Model))
	}

	resp, err := g.llm.GenerateContent(ctx, content, opts...)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return domain.GenerateResult{}, fmt.Errorf("ollama: %w", err)
		}
		return domain.GenerateResult{}, fmt.Errorf("ollama: %v: %w", err, domain.ErrGeneratorError)
	}
	if resp == nil || len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Content) == "" {
		return domain.GenerateResult{}, fmt.Errorf("ollama: %w", domain.ErrEmptyResponse)
	}

	choice := resp.Choices[0]
	return domain.GenerateResult{
		Text:         choice.Content,
		PromptTokens: intInfo(choice.GenerationInfo, "PromptTokens"),
		TotalTokens:  intInfo(choice.GenerationInfo, "TotalTokens"),
	}, nil
}

func intInfo(info map[string]any, key string) int {
	switch v := info[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}
