package callctx

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sort"
	"time"
	"unicode/utf8"

	"github.com/jsamuelsen11/rapidcontext/internal/domain/procedure"
	"github.com/jsamuelsen11/rapidcontext/internal/ports"
)

// ReserveFunc reserves every resource proc needs before it is called.
type ReserveFunc func(cx *Context, proc procedure.Procedure) error

// CallFunc invokes proc with fully bound arguments.
type CallFunc func(cx *Context, proc procedure.Procedure, args *procedure.Bindings) (any, error)

// ReleaseFunc commits or rolls back, then releases, every reserved
// connection of the call tree.
type ReleaseFunc func(cx *Context, commit bool)

// Interceptor wraps one or more of the three call phases. A nil field passes
// the phase through unchanged. Each non-nil field receives the next function
// in the chain and decides whether and how to call it.
type Interceptor struct {
	Name    string
	Reserve func(next ReserveFunc) ReserveFunc
	Call    func(next CallFunc) CallFunc
	Release func(next ReleaseFunc) ReleaseFunc
}

// Chain is a composed interceptor pipeline around the terminal reserve, call
// and release actions. A Chain is immutable and safe for concurrent use.
type Chain struct {
	names   []string
	reserve ReserveFunc
	call    CallFunc
	release ReleaseFunc
}

// NewChain composes interceptors around the terminal actions. The first
// interceptor becomes the outermost one, so
//
//	NewChain(Recovery(), Logging(logger))
//
// runs Recovery first on the way in and last on the way out.
func NewChain(interceptors ...Interceptor) *Chain {
	c := &Chain{
		reserve: reserveProcedure,
		call:    callProcedure,
		release: releaseConnections,
	}
	for i := len(interceptors) - 1; i >= 0; i-- {
		ic := interceptors[i]
		if ic.Reserve != nil {
			c.reserve = ic.Reserve(c.reserve)
		}
		if ic.Call != nil {
			c.call = ic.Call(c.call)
		}
		if ic.Release != nil {
			c.release = ic.Release(c.release)
		}
	}
	for _, ic := range interceptors {
		c.names = append(c.names, ic.Name)
	}
	return c
}

// Names returns the interceptor names, outermost first.
func (c *Chain) Names() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// defaultChain is used by contexts created without WithChain.
var defaultChain = NewChain()

// reserveProcedure walks the default bindings of proc. Connection bindings
// are reserved in the context; procedure bindings are reserved recursively.
func reserveProcedure(cx *Context, proc procedure.Procedure) error {
	defaults := proc.Bindings()
	for _, name := range defaults.Names() {
		typ, err := defaults.Type(name)
		if err != nil {
			return annotate(err, proc.ID())
		}
		value := defaults.StringOr(name, "")
		switch typ {
		case procedure.TypeConnection:
			if value == "" {
				continue
			}
			if _, err := cx.ReserveConnection(value); err != nil {
				return annotate(err, proc.ID())
			}
		case procedure.TypeProcedure:
			sub, err := cx.lookup(value)
			if err != nil {
				return annotate(err, proc.ID())
			}
			if err := cx.Reserve(sub); err != nil {
				return err
			}
		}
	}
	return nil
}

// callProcedure traces the call, invokes the procedure and reports the
// outcome to the library metrics. A panic inside the procedure becomes an
// execution error and is reported like any other failure.
func callProcedure(cx *Context, proc procedure.Procedure, args *procedure.Bindings) (res any, err error) {
	start := time.Now()
	id := proc.ID()

	if cx.IsTracing() {
		cx.Log(fmt.Sprintf("Call %s(%s)", id, preview(argumentValues(args), cx.previewLimit)))
	}
	cx.logger.DebugContext(cx, "calling procedure",
		slog.String("operation", "callctx.Call"),
		slog.String("call_id", cx.id),
		slog.String("procedure", id),
		slog.Int("depth", cx.stack.Height()),
	)

	defer func() {
		if rec := recover(); rec != nil {
			cx.logger.ErrorContext(cx, "procedure panicked",
				slog.String("operation", "callctx.Call"),
				slog.String("call_id", cx.id),
				slog.String("procedure", id),
				slog.Any("panic", rec),
				slog.String("stack", string(debug.Stack())),
			)
			res, err = nil, cx.failed(id, start, &procedure.Error{
				Kind:      procedure.ErrExecution,
				Procedure: id,
				Msg:       "procedure panicked",
				Err:       fmt.Errorf("%v", rec),
			})
		}
	}()

	res, err = proc.Call(cx, args)
	if err != nil {
		return nil, cx.failed(id, start, err)
	}

	if cx.IsTracing() {
		cx.Log("Response: " + preview(res, cx.previewLimit))
	}
	cx.report(ports.CallSample{Procedure: id, Time: start, Duration: time.Since(start), Success: true})
	return res, nil
}

// failed converts err into an annotated procedure error, records the stack
// of the innermost failure and reports the failed call.
func (cx *Context) failed(id string, start time.Time, err error) error {
	duration := time.Since(start)
	err = annotate(procedure.Wrap(id, err), id)
	if cx.Attribute(AttrStack) == nil {
		// The innermost failure records the deepest stack.
		cx.SetAttribute(AttrStack, cx.stack.ToStackTrace(cx.traceDepth))
	}
	if cx.IsTracing() {
		cx.Log("Error: " + err.Error())
	}
	cx.report(ports.CallSample{Procedure: id, Time: start, Duration: duration, Error: err.Error()})
	return err
}

// releaseConnections ends every reservation exactly once. Individual
// failures are logged and do not stop the remaining releases.
func releaseConnections(cx *Context, commit bool) {
	ctx := context.WithoutCancel(cx)
	for _, r := range cx.takeReservations() {
		var err error
		op := "rollback"
		if commit {
			op = "commit"
			err = r.conn.Commit(ctx)
		} else {
			err = r.conn.Rollback(ctx)
		}
		if err != nil {
			cx.logger.ErrorContext(ctx, "connection "+op+" failed",
				slog.String("operation", "callctx.ReleaseAll"),
				slog.String("call_id", cx.id),
				slog.String("pool", r.name),
				slog.Any("error", err),
			)
		}
		if err := r.pool.Release(ctx, r.conn); err != nil {
			cx.logger.ErrorContext(ctx, "connection release failed",
				slog.String("operation", "callctx.ReleaseAll"),
				slog.String("call_id", cx.id),
				slog.String("pool", r.name),
				slog.Any("error", err),
			)
		}
	}
}

// argumentValues collects the local argument values of a call in order.
func argumentValues(args *procedure.Bindings) []any {
	if args == nil {
		return nil
	}
	var vals []any
	for _, e := range args.Local() {
		if e.Type == procedure.TypeArgument {
			vals = append(vals, e.Value)
		}
	}
	return vals
}

// preview serializes v for trace output, truncated to at most limit bytes
// on a rune boundary.
func preview(v any, limit int) string {
	var s string
	if bs, err := json.Marshal(v); err == nil {
		s = string(bs)
	} else {
		s = fmt.Sprintf("%v", v)
	}
	if limit > 0 && len(s) > limit {
		cut := limit
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		s = s[:cut] + stackTraceMarker
	}
	return s
}

// annotate adds a procedure id to procedure errors that have none.
func annotate(err error, id string) error {
	if perr, ok := err.(*procedure.Error); ok {
		return perr.WithProcedure(id)
	}
	return err
}

// sortedReservations returns reservations ordered by pool name.
func sortedReservations(m map[string]reservation) []reservation {
	out := make([]reservation, 0, len(m))
	for _, r := range m {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}
