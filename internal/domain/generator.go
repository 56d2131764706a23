package domain

import "context"

// Generator is the contract for the hosted generative-search model.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (GenerateResult, error)
}

// HealthChecker verifies generator availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// GenerateRequest is a single prompt sent to the model.
type GenerateRequest struct {
	Model         string
	Prompt        string
	SearchEnabled bool // ask the provider to ground the answer on web search
	Temperature   float32
}

// GenerateResult carries the model text and token usage through the decorator chain.
type GenerateResult struct {
	Text         string
	PromptTokens int
	TotalTokens  int
}
