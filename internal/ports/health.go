package ports

import "context"

// HealthChecker reports the health of one connection pool.
type HealthChecker interface {
	// Name is the pool name used as the key in readiness reports.
	Name() string

	// HealthCheck returns nil when the pool can serve reservations. It
	// must return once ctx is done.
	HealthCheck(ctx context.Context) error
}

// HealthRegistry aggregates pool checks for the readiness endpoint.
type HealthRegistry interface {
	// Register adds checker, replacing any checker with the same name.
	Register(checker HealthChecker)

	// CheckAll runs every check and returns the results by name. A nil
	// error means healthy.
	CheckAll(ctx context.Context) map[string]error
}
