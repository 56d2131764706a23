package health

import "context"

// GeneratorChecker checks generator provider availability.
type GeneratorChecker interface {
	HealthCheck(ctx context.Context) error
}
