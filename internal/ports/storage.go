package ports

import (
	"context"
	"time"

	"github.com/jsamuelsen11/rapidcontext/internal/domain/procedure"
)

// Metadata describes a stored procedure definition without loading it.
type Metadata struct {
	ID       string
	Modified time.Time
}

// ProcedureStore persists procedure definitions. Paths are procedure ids.
type ProcedureStore interface {
	// Lookup returns the metadata for id. Returns an error wrapping
	// procedure.ErrNotFound if nothing is stored under id.
	Lookup(ctx context.Context, id string) (*Metadata, error)

	// Load reads the full definition for id.
	Load(ctx context.Context, id string) (*procedure.Definition, error)

	// Store writes a definition, replacing any previous version.
	Store(ctx context.Context, def *procedure.Definition) error

	// Remove deletes the definition for id.
	Remove(ctx context.Context, id string) error

	// Query lists all stored procedure ids in sorted order.
	Query(ctx context.Context) ([]string, error)
}

// CallSample is one procedure call outcome reported to a MetricsSink.
type CallSample struct {
	Procedure string
	Time      time.Time
	Duration  time.Duration
	Success   bool
	Error     string
}

// CallStats aggregates the samples reported for one procedure.
type CallStats struct {
	Procedure     string        `json:"procedure"`
	Calls         int64         `json:"calls"`
	Failures      int64         `json:"failures"`
	TotalDuration time.Duration `json:"total_duration"`
	MaxDuration   time.Duration `json:"max_duration"`
	LastCall      time.Time     `json:"last_call"`
	LastError     string        `json:"last_error,omitempty"`
}

// MetricsSink records procedure usage statistics.
type MetricsSink interface {
	// Report adds one call sample.
	Report(ctx context.Context, sample CallSample) error

	// Stats returns aggregated statistics for every reported procedure.
	Stats(ctx context.Context) ([]CallStats, error)
}
