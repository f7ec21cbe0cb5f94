package ports

import (
	"context"
	"time"

	"github.com/jsamuelsen11/rapidcontext/internal/domain/procedure"
)

type callIDKey struct{}

// WithCallID returns a context carrying the identifier the next top-level
// call tree should use. Inbound adapters set it to their request id so logs
// and traces of one request share a single id.
func WithCallID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, callIDKey{}, id)
}

// CallIDFromContext returns the call tree identifier stored by WithCallID,
// or the empty string.
func CallIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(callIDKey{}).(string)
	return id
}

// ProcedureService defines the service port for procedure calls and
// introspection. Implemented by the application layer; called by inbound
// adapters (HTTP handlers, CLI commands).
type ProcedureService interface {
	// Call executes the named procedure with positional arguments in a new
	// call tree. Connections reserved by the call are committed on success
	// and rolled back on failure. When trace is true the call log is
	// returned in CallResult.Log.
	// Returns an error wrapping procedure.ErrNotFound if no such procedure
	// exists. Procedure failures are reported in CallResult.Error, not as
	// the returned error, so the trace survives.
	Call(ctx context.Context, name string, args []any, trace bool) (*CallResult, error)

	// List returns the names of all available procedures in sorted order.
	List(ctx context.Context) ([]string, error)

	// Describe returns the definition of the named procedure.
	// Returns an error wrapping procedure.ErrNotFound if no such procedure
	// exists.
	Describe(ctx context.Context, name string) (*procedure.Definition, error)
}

// CallResult holds the outcome of one top-level procedure call.
type CallResult struct {
	// ID is the call tree identifier.
	ID string

	// Procedure is the resolved procedure id.
	Procedure string

	// Data is the procedure response, nil on failure.
	Data any

	// Error is the procedure failure, nil on success.
	Error error

	// Log is the call trace, empty unless tracing was enabled.
	Log string

	// Stack lists the procedure ids active at the innermost failure,
	// newest first.
	Stack []string

	Start time.Time
	End   time.Time
}

// Duration returns the wall-clock time spent in the call.
func (r *CallResult) Duration() time.Duration {
	return r.End.Sub(r.Start)
}
