package search

import (
	"context"

	"github.com/kailas-cloud/leadscout/internal/domain"
)

// Generator sends one prompt to the hosted generative-search model.
type Generator interface {
	Generate(ctx context.Context, req domain.GenerateRequest) (domain.GenerateResult, error)
}
