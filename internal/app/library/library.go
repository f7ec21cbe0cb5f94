// Package library implements the process-wide procedure registry. It
// resolves procedure names (and legacy aliases) to Procedure objects, caches
// procedures loaded from storage, tracks per-procedure tracing flags and
// forwards call statistics to a metrics sink.
//
// Readers never block: the cache, the alias map and the tracing flags are
// immutable snapshots swapped atomically. Writers serialize on a mutex and
// publish a modified copy.
package library

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/jsamuelsen11/rapidcontext/internal/app/fanout"
	"github.com/jsamuelsen11/rapidcontext/internal/domain/procedure"
	"github.com/jsamuelsen11/rapidcontext/internal/ports"
)

// defaultWorkers bounds concurrent storage loads during RefreshAliases.
const defaultWorkers = 8

// Factory builds a procedure from its stored definition.
type Factory func(def *procedure.Definition) (procedure.Procedure, error)

// SinkOpener opens the metrics sink on first use.
type SinkOpener func() (ports.MetricsSink, error)

// Library is the procedure registry. Create instances with New.
type Library struct {
	store   ports.ProcedureStore
	env     ports.Environment
	logger  *slog.Logger
	workers int

	factories map[string]Factory
	builtins  map[string]procedure.Procedure

	mu      sync.Mutex
	cache   atomic.Pointer[map[string]procedure.Procedure]
	aliases atomic.Pointer[map[string]string]
	tracing atomic.Pointer[map[string]bool]

	openSink SinkOpener
	sinkOnce sync.Once
	sink     ports.MetricsSink
}

// Option configures a Library.
type Option func(*Library)

// WithStore sets the procedure definition store.
func WithStore(store ports.ProcedureStore) Option {
	return func(l *Library) { l.store = store }
}

// WithEnvironment sets the pool environment listed by System.Connection.List.
func WithEnvironment(env ports.Environment) Option {
	return func(l *Library) { l.env = env }
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Library) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithFactory registers the factory for a procedure type.
func WithFactory(typ string, f Factory) Option {
	return func(l *Library) { l.factories[typ] = f }
}

// WithMetricsSink sets the function opening the metrics sink. It is called
// at most once, on the first reported sample.
func WithMetricsSink(open SinkOpener) Option {
	return func(l *Library) { l.openSink = open }
}

// WithWorkers sets the number of concurrent storage loads used by
// RefreshAliases.
func WithWorkers(n int) Option {
	return func(l *Library) {
		if n > 0 {
			l.workers = n
		}
	}
}

// New creates a Library with the built-in System procedures registered.
func New(opts ...Option) *Library {
	l := &Library{
		logger:    slog.New(slog.DiscardHandler),
		workers:   defaultWorkers,
		factories: make(map[string]Factory),
		builtins:  make(map[string]procedure.Procedure),
	}
	for _, opt := range opts {
		opt(l)
	}
	for _, p := range l.systemProcedures() {
		l.builtins[p.ID()] = p
	}
	l.cache.Store(&map[string]procedure.Procedure{})
	l.aliases.Store(&map[string]string{})
	l.tracing.Store(&map[string]bool{})
	return l
}

// Procedure resolves name to a procedure. Built-ins win over stored
// procedures; aliases are followed when no procedure has the given id.
func (l *Library) Procedure(ctx context.Context, name string) (procedure.Procedure, error) {
	return l.resolve(ctx, name, nil)
}

func (l *Library) resolve(ctx context.Context, name string, seen map[string]struct{}) (procedure.Procedure, error) {
	if p, ok := l.builtins[name]; ok {
		return p, nil
	}
	p, err := l.load(ctx, name)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, procedure.ErrNotFound) {
		return nil, err
	}
	target, ok := (*l.aliases.Load())[name]
	if !ok {
		return nil, err
	}
	if seen == nil {
		seen = make(map[string]struct{})
	}
	if _, dup := seen[name]; dup {
		return nil, procedure.Errorf(procedure.ErrNotFound, "alias cycle resolving procedure %q", name)
	}
	seen[name] = struct{}{}
	return l.resolve(ctx, target, seen)
}

// load returns the cached procedure for id unless storage holds a newer
// version, in which case the definition is reloaded.
func (l *Library) load(ctx context.Context, id string) (procedure.Procedure, error) {
	if l.store == nil {
		return nil, procedure.Errorf(procedure.ErrNotFound, "no procedure %q found", id)
	}
	meta, err := l.store.Lookup(ctx, id)
	if err != nil {
		if errors.Is(err, procedure.ErrNotFound) {
			l.Invalidate(id)
			return nil, procedure.Errorf(procedure.ErrNotFound, "no procedure %q found", id)
		}
		return nil, &procedure.Error{
			Kind:      procedure.ErrExecution,
			Procedure: id,
			Msg:       "procedure lookup failed",
			Err:       err,
		}
	}

	if cached, ok := (*l.cache.Load())[id]; ok && !isStale(cached, meta) {
		return cached, nil
	}

	def, err := l.store.Load(ctx, id)
	if err != nil {
		return nil, &procedure.Error{
			Kind:      procedure.ErrExecution,
			Procedure: id,
			Msg:       "procedure load failed",
			Err:       err,
		}
	}
	if def.Modified.IsZero() {
		def.Modified = meta.Modified
	}
	p, err := l.build(def)
	if err != nil {
		return nil, err
	}

	l.update(func(m map[string]procedure.Procedure) { m[id] = p })
	l.logger.DebugContext(ctx, "procedure loaded",
		slog.String("operation", "library.Load"),
		slog.String("procedure", id),
		slog.String("type", def.Type),
	)
	return p, nil
}

// isStale reports whether the stored version is newer than the cached one.
func isStale(cached procedure.Procedure, meta *ports.Metadata) bool {
	m, ok := cached.(procedure.Modifiable)
	if !ok {
		return true
	}
	return meta.Modified.After(m.Modified())
}

// build creates a procedure using the factory registered for its type.
func (l *Library) build(def *procedure.Definition) (procedure.Procedure, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}
	f, ok := l.factories[def.Type]
	if !ok {
		return nil, procedure.Errorf(procedure.ErrExecution,
			"unsupported procedure type %q", def.Type).WithProcedure(def.ID)
	}
	p, err := f(def)
	if err != nil {
		return nil, procedure.Wrap(def.ID, err)
	}
	return p, nil
}

// update applies fn to a copy of the cache and publishes it.
func (l *Library) update(fn func(map[string]procedure.Procedure)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	next := maps.Clone(*l.cache.Load())
	fn(next)
	l.cache.Store(&next)
}

// Invalidate drops the cached procedure for id, if any.
func (l *Library) Invalidate(id string) {
	if _, ok := (*l.cache.Load())[id]; !ok {
		return
	}
	l.update(func(m map[string]procedure.Procedure) { delete(m, id) })
}

// Cached returns the ids of procedures currently in the cache.
func (l *Library) Cached() []string {
	return slices.Sorted(maps.Keys(*l.cache.Load()))
}

// RefreshAliases rebuilds the alias map from every built-in and stored
// procedure. Procedures that fail to load are logged and skipped.
func (l *Library) RefreshAliases(ctx context.Context) error {
	aliases := make(map[string]string)
	for id, p := range l.builtins {
		if a := p.Alias(); a != "" {
			aliases[a] = id
		}
	}

	if l.store != nil {
		ids, err := l.store.Query(ctx)
		if err != nil {
			return fmt.Errorf("listing procedures: %w", err)
		}
		loaded, failed := fanout.Split(ids, fanout.Run(ctx, l.workers, ids, l.load))
		for id, err := range failed {
			l.logger.WarnContext(ctx, "skipping procedure during alias refresh",
				slog.String("operation", "library.RefreshAliases"),
				slog.String("procedure", id),
				slog.Any("error", err),
			)
		}
		for _, p := range loaded {
			if a := p.Alias(); a != "" {
				aliases[a] = p.ID()
			}
		}
	}

	l.mu.Lock()
	l.aliases.Store(&aliases)
	l.mu.Unlock()
	return nil
}

// Aliases returns a copy of the current alias map (alias to procedure id).
func (l *Library) Aliases() map[string]string {
	return maps.Clone(*l.aliases.Load())
}

// Names returns all built-in and stored procedure ids in sorted order.
func (l *Library) Names(ctx context.Context) ([]string, error) {
	set := make(map[string]struct{}, len(l.builtins))
	for id := range l.builtins {
		set[id] = struct{}{}
	}
	if l.store != nil {
		ids, err := l.store.Query(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing procedures: %w", err)
		}
		for _, id := range ids {
			set[id] = struct{}{}
		}
	}
	return slices.Sorted(maps.Keys(set)), nil
}

// SetTracing forces tracing on or off for every call tree rooted at id.
func (l *Library) SetTracing(id string, on bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	next := maps.Clone(*l.tracing.Load())
	if on {
		next[id] = true
	} else {
		delete(next, id)
	}
	l.tracing.Store(&next)
}

// IsTracing reports whether tracing is forced for id.
func (l *Library) IsTracing(id string) bool {
	return (*l.tracing.Load())[id]
}

// Report forwards a call sample to the metrics sink. The sink is opened on
// the first call; failures are logged and never returned.
func (l *Library) Report(ctx context.Context, sample ports.CallSample) {
	sink := l.metricsSink(ctx)
	if sink == nil {
		return
	}
	if err := sink.Report(ctx, sample); err != nil {
		l.logger.WarnContext(ctx, "failed to report procedure call",
			slog.String("operation", "library.Report"),
			slog.String("procedure", sample.Procedure),
			slog.Any("error", err),
		)
	}
}

// Stats returns the aggregated call statistics, or none if no sink is
// configured.
func (l *Library) Stats(ctx context.Context) ([]ports.CallStats, error) {
	sink := l.metricsSink(ctx)
	if sink == nil {
		return []ports.CallStats{}, nil
	}
	return sink.Stats(ctx)
}

func (l *Library) metricsSink(ctx context.Context) ports.MetricsSink {
	l.sinkOnce.Do(func() {
		if l.openSink == nil {
			return
		}
		sink, err := l.openSink()
		if err != nil {
			l.logger.ErrorContext(ctx, "failed to open metrics sink",
				slog.String("operation", "library.Report"),
				slog.Any("error", err),
			)
			return
		}
		l.sink = sink
	})
	return l.sink
}
