// Package callctx implements the procedure call engine: a per-request call
// tree that reserves connections, binds arguments, invokes procedures through
// an interceptor chain and finally commits or rolls back every connection it
// reserved.
//
// Typical use from a transport adapter:
//
//	cx := callctx.New(ctx, lib, callctx.WithEnvironment(env), callctx.WithTrace(true))
//	res, err := cx.Execute("System.Procedure.List", nil)
//	trace := cx.LogString()
//
// A Context serves exactly one call tree and must not be reused.
package callctx

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/jsamuelsen11/rapidcontext/internal/domain/procedure"
	"github.com/jsamuelsen11/rapidcontext/internal/platform/logging"
	"github.com/jsamuelsen11/rapidcontext/internal/ports"
)

// Attribute names recorded for every call tree.
const (
	AttrProcedure = "procedure"
	AttrStartTime = "startTime"
	AttrEndTime   = "endTime"
	AttrTrace     = "trace"
	AttrLog       = "log"
	AttrResult    = "result"
	AttrError     = "error"
	AttrStack     = "stack"
)

// DefaultPreviewLimit bounds argument and response previews in the trace.
const DefaultPreviewLimit = 1000

// DefaultTraceDepth bounds the procedure stack recorded for a failed call.
const DefaultTraceDepth = 20

// Library is the procedure source used by a Context.
type Library interface {
	// Procedure resolves a procedure by id or alias.
	Procedure(ctx context.Context, name string) (procedure.Procedure, error)

	// IsTracing reports whether calls to id are always traced.
	IsTracing(id string) bool

	// Report records the outcome of a single procedure call.
	Report(ctx context.Context, sample ports.CallSample)
}

// reservation is one reserved connection and the pool it came from.
type reservation struct {
	name string
	pool ports.Pool
	conn ports.Connection
}

// Context is the execution environment of one call tree. It embeds a
// cancellable context.Context, so it can be passed to any blocking API.
type Context struct {
	context.Context
	cancel context.CancelFunc

	id           string
	library      Library
	env          ports.Environment
	chain        *Chain
	logger       *slog.Logger
	previewLimit int
	logLimit     int
	traceDepth   int

	stack Stack

	mu    sync.Mutex
	conns map[string]reservation
	attrs map[string]any
	log   *LogBuffer

	interrupted atomic.Bool
	tracing     atomic.Bool
}

// Option configures a Context.
type Option func(*Context)

// WithEnvironment sets the connection pool environment.
func WithEnvironment(env ports.Environment) Option {
	return func(cx *Context) { cx.env = env }
}

// WithChain replaces the default interceptor chain.
func WithChain(chain *Chain) Option {
	return func(cx *Context) {
		if chain != nil {
			cx.chain = chain
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(cx *Context) {
		if logger != nil {
			cx.logger = logger
		}
	}
}

// WithTrace enables the trace log for the call tree.
func WithTrace(trace bool) Option {
	return func(cx *Context) { cx.tracing.Store(trace) }
}

// WithLogLimit sets the trace log capacity in bytes.
func WithLogLimit(limit int) Option {
	return func(cx *Context) { cx.logLimit = limit }
}

// WithPreviewLimit sets the maximum length of argument and response
// previews. A non-positive limit keeps the default.
func WithPreviewLimit(limit int) Option {
	return func(cx *Context) {
		if limit > 0 {
			cx.previewLimit = limit
		}
	}
}

// WithTraceDepth sets how many stack entries are recorded in the stack
// attribute when a procedure fails.
func WithTraceDepth(depth int) Option {
	return func(cx *Context) {
		if depth > 0 {
			cx.traceDepth = depth
		}
	}
}

// WithID sets the call tree identifier instead of a generated one.
func WithID(id string) Option {
	return func(cx *Context) {
		if id != "" {
			cx.id = id
		}
	}
}

// New creates a Context for one call tree. The returned Context is cancelled
// when parent is, or when Interrupt is called.
func New(parent context.Context, library Library, opts ...Option) *Context {
	ctx, cancel := context.WithCancel(parent)
	cx := &Context{
		Context:      ctx,
		cancel:       cancel,
		id:           uuid.NewString(),
		library:      library,
		chain:        defaultChain,
		logger:       logging.FromContext(parent),
		previewLimit: DefaultPreviewLimit,
		traceDepth:   DefaultTraceDepth,
		conns:        make(map[string]reservation),
		attrs:        make(map[string]any),
	}
	for _, opt := range opts {
		opt(cx)
	}
	cx.logger = cx.logger.With(slog.String("call_id", cx.id))
	cx.log = NewLogBuffer(cx.logLimit)
	return cx
}

// ID returns the call tree identifier.
func (cx *Context) ID() string {
	return cx.id
}

// Stack returns the call stack of the tree.
func (cx *Context) Stack() *Stack {
	return &cx.stack
}

// Environment returns the pool environment, or nil.
func (cx *Context) Environment() ports.Environment {
	return cx.env
}

// Library returns the procedure library.
func (cx *Context) Library() Library {
	return cx.library
}

// Logger returns the structured logger of the call tree.
func (cx *Context) Logger() *slog.Logger {
	return cx.logger
}

// Attribute returns a call tree attribute, or nil.
func (cx *Context) Attribute(key string) any {
	cx.mu.Lock()
	defer cx.mu.Unlock()
	return cx.attrs[key]
}

// SetAttribute sets a call tree attribute. A nil value removes it.
func (cx *Context) SetAttribute(key string, value any) {
	cx.mu.Lock()
	defer cx.mu.Unlock()
	if value == nil {
		delete(cx.attrs, key)
		return
	}
	cx.attrs[key] = value
}

// IsTracing reports whether trace output is recorded.
func (cx *Context) IsTracing() bool {
	return cx.tracing.Load()
}

// Log appends msg to the trace log, indented by the current call depth. It
// does nothing unless tracing is enabled.
func (cx *Context) Log(msg string) {
	if !cx.IsTracing() {
		return
	}
	cx.log.Write(max(cx.stack.Height()-1, 0), msg)
}

// LogString returns the trace log collected so far.
func (cx *Context) LogString() string {
	return cx.log.String()
}

// Interrupt cancels the call tree. Running and future calls fail with
// ErrInterrupted; procedures blocked on the context observe cancellation.
func (cx *Context) Interrupt() {
	cx.interrupted.Store(true)
	cx.cancel()
}

// IsInterrupted reports whether Interrupt was called or the parent context
// was cancelled.
func (cx *Context) IsInterrupted() bool {
	if cx.interrupted.Load() {
		return true
	}
	return cx.Err() != nil
}

// Execute runs the named procedure as the root of the call tree. It resolves
// the procedure, reserves all connections, binds args, calls it and finally
// commits on success or rolls back on failure. When called from inside a
// running procedure it joins the current tree and leaves connection release
// to the outermost call.
func (cx *Context) Execute(name string, args []any) (res any, err error) {
	if cx.stack.Height() > 0 {
		proc, err := cx.lookup(name)
		if err != nil {
			return nil, err
		}
		if err := cx.Reserve(proc); err != nil {
			return nil, err
		}
		return cx.Invoke(proc, args...)
	}

	start := time.Now()
	cx.SetAttribute(AttrProcedure, name)
	cx.SetAttribute(AttrStartTime, start)

	proc, err := cx.lookup(name)
	if err != nil {
		cx.finish(nil, err)
		return nil, err
	}
	if cx.library != nil && cx.library.IsTracing(proc.ID()) {
		cx.tracing.Store(true)
	}
	if cx.IsTracing() {
		cx.SetAttribute(AttrTrace, true)
	}

	commit := false
	defer func() {
		cx.ReleaseAll(commit)
		cx.finish(res, err)
	}()

	if err = cx.Reserve(proc); err != nil {
		return nil, cx.logFailure(name, err)
	}
	if res, err = cx.Invoke(proc, args...); err != nil {
		return nil, cx.logFailure(name, err)
	}
	commit = true
	return res, nil
}

// finish stores the end time, result and error attributes.
func (cx *Context) finish(res any, err error) {
	cx.SetAttribute(AttrEndTime, time.Now())
	if err != nil {
		cx.SetAttribute(AttrError, err.Error())
	} else {
		cx.SetAttribute(AttrResult, res)
	}
	if cx.IsTracing() {
		cx.SetAttribute(AttrLog, cx.LogString())
	}
}

// logFailure logs err at a level matching its kind and wraps unexpected
// errors as execution errors.
func (cx *Context) logFailure(name string, err error) error {
	if procedure.IsKnown(err) {
		cx.logger.DebugContext(cx, "procedure call failed",
			slog.String("operation", "callctx.Execute"),
			slog.String("call_id", cx.id),
			slog.String("procedure", name),
			slog.Any("error", err),
		)
		return err
	}
	cx.logger.WarnContext(cx, "procedure call failed unexpectedly",
		slog.String("operation", "callctx.Execute"),
		slog.String("call_id", cx.id),
		slog.String("procedure", name),
		slog.Any("error", err),
	)
	return procedure.Wrap(name, err)
}

// Reserve reserves the connections required by proc and, recursively, by
// every procedure it binds. Procedures already on the stack are skipped, so
// recursive bindings terminate.
func (cx *Context) Reserve(proc procedure.Procedure) error {
	if cx.IsInterrupted() {
		return procedure.Errorf(procedure.ErrInterrupted, "call interrupted").WithProcedure(proc.ID())
	}
	if cx.stack.Contains(proc) {
		return nil
	}
	cx.stack.Push(proc)
	defer cx.stack.Pop()
	return cx.chain.reserve(cx, proc)
}

// ReserveConnection reserves a connection from the named pool. Reserving the
// same pool again returns the existing connection.
func (cx *Context) ReserveConnection(pool string) (ports.Connection, error) {
	cx.mu.Lock()
	defer cx.mu.Unlock()

	if r, ok := cx.conns[pool]; ok {
		return r.conn, nil
	}
	if cx.env == nil {
		return nil, procedure.Errorf(procedure.ErrReservation,
			"failed to reserve connection %q: no environment loaded", pool)
	}
	p, err := cx.env.Pool(pool)
	if err != nil {
		return nil, &procedure.Error{
			Kind: procedure.ErrReservation,
			Msg:  fmt.Sprintf("failed to reserve connection %q", pool),
			Err:  err,
		}
	}
	conn, err := p.Reserve(cx)
	if err != nil {
		return nil, &procedure.Error{
			Kind: procedure.ErrReservation,
			Msg:  fmt.Sprintf("failed to reserve connection %q", pool),
			Err:  err,
		}
	}
	cx.conns[pool] = reservation{name: pool, pool: p, conn: conn}
	return conn, nil
}

// Connection returns a previously reserved connection.
func (cx *Context) Connection(pool string) (ports.Connection, bool) {
	cx.mu.Lock()
	defer cx.mu.Unlock()
	r, ok := cx.conns[pool]
	return r.conn, ok
}

// Reservations returns the names of pools with a reserved connection.
func (cx *Context) Reservations() []string {
	cx.mu.Lock()
	defer cx.mu.Unlock()
	names := make([]string, 0, len(cx.conns))
	for _, r := range sortedReservations(cx.conns) {
		names = append(names, r.name)
	}
	return names
}

// takeReservations removes and returns all reservations in pool order.
func (cx *Context) takeReservations() []reservation {
	cx.mu.Lock()
	defer cx.mu.Unlock()
	out := sortedReservations(cx.conns)
	clear(cx.conns)
	return out
}

// ReleaseAll commits or rolls back every reserved connection and returns it
// to its pool. It is safe to call more than once; later calls find nothing
// to release.
func (cx *Context) ReleaseAll(commit bool) {
	cx.chain.release(cx, commit)
}

// Call invokes proc with already bound args through the interceptor chain.
func (cx *Context) Call(proc procedure.Procedure, args *procedure.Bindings) (any, error) {
	if cx.IsInterrupted() {
		return nil, procedure.Errorf(procedure.ErrInterrupted, "call interrupted").WithProcedure(proc.ID())
	}
	cx.stack.Push(proc)
	defer cx.stack.Pop()
	return cx.chain.call(cx, proc, args)
}

// Invoke binds positional args to proc and calls it.
func (cx *Context) Invoke(proc procedure.Procedure, args ...any) (any, error) {
	bound, err := cx.bind(proc, args)
	if err != nil {
		return nil, err
	}
	return cx.Call(proc, bound)
}

// bind creates the call bindings for proc. Procedure bindings resolve to
// procedure objects, connection bindings to reserved connections and
// argument bindings consume args in declaration order.
func (cx *Context) bind(proc procedure.Procedure, args []any) (*procedure.Bindings, error) {
	defaults := proc.Bindings()
	bb := procedure.NewBuilder(defaults)
	pos := 0
	for _, name := range defaults.Names() {
		typ, err := defaults.Type(name)
		if err != nil {
			return nil, annotate(err, proc.ID())
		}
		value := defaults.StringOr(name, "")
		switch typ {
		case procedure.TypeProcedure:
			sub, err := cx.lookup(value)
			if err != nil {
				return nil, annotate(err, proc.ID())
			}
			if err := bb.Set(name, typ, sub, ""); err != nil {
				return nil, annotate(err, proc.ID())
			}
		case procedure.TypeConnection:
			var conn ports.Connection
			if value != "" {
				c, ok := cx.Connection(value)
				if !ok {
					return nil, procedure.Errorf(procedure.ErrReservation,
						"connection %q not reserved", value).WithProcedure(proc.ID())
				}
				conn = c
			}
			if err := bb.Set(name, typ, conn, ""); err != nil {
				return nil, annotate(err, proc.ID())
			}
		case procedure.TypeArgument:
			if pos >= len(args) {
				return nil, procedure.Errorf(procedure.ErrArgument,
					"missing argument %d %q", pos+1, name).WithProcedure(proc.ID())
			}
			if err := bb.Set(name, typ, args[pos], ""); err != nil {
				return nil, annotate(err, proc.ID())
			}
			pos++
		}
	}
	if pos < len(args) {
		return nil, procedure.Errorf(procedure.ErrArgument,
			"too many arguments: expected %d, got %d", pos, len(args)).WithProcedure(proc.ID())
	}
	return bb.Seal(), nil
}

// lookup resolves a procedure through the library.
func (cx *Context) lookup(name string) (procedure.Procedure, error) {
	if cx.library == nil {
		return nil, procedure.Errorf(procedure.ErrNotFound, "no procedure library loaded")
	}
	proc, err := cx.library.Procedure(cx, name)
	if err != nil {
		return nil, procedure.Wrap(name, err)
	}
	return proc, nil
}

// report forwards a call sample to the library. A missing library is
// ignored.
func (cx *Context) report(sample ports.CallSample) {
	if cx.library == nil {
		return
	}
	cx.library.Report(context.WithoutCancel(cx), sample)
}
