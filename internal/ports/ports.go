package ports

import "context"

// HealthChecker probes a dependency the API cannot serve without.
// The Postgres pool satisfies it.
type HealthChecker interface {
	Health(ctx context.Context) error
}
