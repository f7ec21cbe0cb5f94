package ports

import "context"

// Connection is a pooled resource reserved for the duration of one call
// tree. The call engine ends every reservation with exactly one Commit or
// Rollback followed by one Release on the owning Pool.
type Connection interface {
	// Pool returns the name of the pool the connection came from.
	Pool() string

	// Commit makes the work done through the connection permanent.
	Commit(ctx context.Context) error

	// Rollback discards the work done through the connection.
	Rollback(ctx context.Context) error
}

// Pool hands out connections for one named resource (a database, an HTTP
// endpoint).
type Pool interface {
	// Name returns the pool name referenced by connection bindings.
	Name() string

	// Reserve checks out a connection. Implementations may block until one
	// is available or ctx is done.
	Reserve(ctx context.Context) (Connection, error)

	// Release returns a connection to the pool.
	Release(ctx context.Context, conn Connection) error
}

// Environment resolves pool names to pools.
type Environment interface {
	// Pool returns the named pool. Returns an error wrapping
	// procedure.ErrNotFound if no such pool is configured.
	Pool(name string) (Pool, error)

	// Pools returns all configured pool names in sorted order.
	Pools() []string
}
