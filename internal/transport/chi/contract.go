package chi

import (
	"context"

	"github.com/kailas-cloud/leadscout/internal/domain/search/request"
	"github.com/kailas-cloud/leadscout/internal/domain/search/result"
)

// Searcher runs a lead search.
type Searcher interface {
	Search(ctx context.Context, req *request.Request) (result.Result, error)
}
