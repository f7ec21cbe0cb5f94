// Package pool assembles the named connection pools declared in
// configuration into a ports.Environment.
package pool

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"

	"github.com/jsamuelsen11/rapidcontext/internal/adapters/pool/httppool"
	"github.com/jsamuelsen11/rapidcontext/internal/adapters/pool/sqlpool"
	"github.com/jsamuelsen11/rapidcontext/internal/domain/procedure"
	"github.com/jsamuelsen11/rapidcontext/internal/platform/config"
	"github.com/jsamuelsen11/rapidcontext/internal/platform/telemetry"
	"github.com/jsamuelsen11/rapidcontext/internal/ports"
)

// Compile-time interface check.
var _ ports.Environment = (*Environment)(nil)

// Environment is an immutable set of named pools.
type Environment struct {
	pools map[string]ports.Pool
}

// NewEnvironment creates an environment holding pools. Later pools replace
// earlier ones with the same name.
func NewEnvironment(pools ...ports.Pool) *Environment {
	m := make(map[string]ports.Pool, len(pools))
	for _, p := range pools {
		m[p.Name()] = p
	}
	return &Environment{pools: m}
}

// FromConfig opens every configured pool. Pools opened before a failure are
// closed again.
func FromConfig(cfgs map[string]config.PoolConfig, metrics *telemetry.Metrics, logger *slog.Logger) (*Environment, error) {
	pools := make([]ports.Pool, 0, len(cfgs))
	for _, name := range slices.Sorted(maps.Keys(cfgs)) {
		cfg := cfgs[name]
		switch cfg.Type {
		case config.PoolTypeSQL:
			p, err := sqlpool.Open(name, &cfg, logger)
			if err != nil {
				_ = NewEnvironment(pools...).Close()
				return nil, err
			}
			pools = append(pools, p)
		case config.PoolTypeHTTP:
			pools = append(pools, httppool.New(name, &cfg.HTTP, metrics, logger))
		default:
			_ = NewEnvironment(pools...).Close()
			return nil, fmt.Errorf("pool %q: unsupported type %q", name, cfg.Type)
		}
	}
	return NewEnvironment(pools...), nil
}

// Pool implements ports.Environment.
func (e *Environment) Pool(name string) (ports.Pool, error) {
	p, ok := e.pools[name]
	if !ok {
		return nil, procedure.Errorf(procedure.ErrNotFound, "no connection pool %q configured", name)
	}
	return p, nil
}

// Pools implements ports.Environment.
func (e *Environment) Pools() []string {
	return slices.Sorted(maps.Keys(e.pools))
}

// HealthCheckers returns the pools that can report their health, in name
// order.
func (e *Environment) HealthCheckers() []ports.HealthChecker {
	var checkers []ports.HealthChecker
	for _, name := range e.Pools() {
		if hc, ok := e.pools[name].(ports.HealthChecker); ok {
			checkers = append(checkers, hc)
		}
	}
	return checkers
}

// Close closes every pool holding external resources.
func (e *Environment) Close() error {
	var errs []error
	for _, name := range e.Pools() {
		if c, ok := e.pools[name].(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, fmt.Errorf("closing pool %q: %w", name, err))
			}
		}
	}
	return errors.Join(errs...)
}
