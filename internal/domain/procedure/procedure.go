package procedure

import (
	"context"
	"time"
)

// Procedure is a named, callable unit of business logic. Its default
// Bindings declare the data, connections, sub-procedures and arguments the
// call engine must provide.
type Procedure interface {
	// ID returns the unique procedure identifier (e.g. "System.Procedure.List").
	ID() string

	// Type returns the procedure type name used to build it from storage.
	Type() string

	// Alias returns an optional legacy name, or the empty string.
	Alias() string

	// Description returns a human-readable summary.
	Description() string

	// Bindings returns the sealed default bindings.
	Bindings() *Bindings

	// Call runs the procedure. The args bindings have the defaults as parent
	// and hold resolved connections, sub-procedures and argument values.
	Call(cx CallContext, args *Bindings) (any, error)
}

// Modifiable is implemented by procedures loaded from storage. The call
// engine compares Modified against the storage timestamp to detect stale
// cache entries.
type Modifiable interface {
	Modified() time.Time
}

// CallContext is the view of the call engine handed to a running procedure.
// It carries cancellation through the embedded context.Context.
type CallContext interface {
	context.Context

	// ID returns the call tree identifier.
	ID() string

	// Call invokes proc with fully bound arguments through the interceptor
	// chain. Connections must already be reserved.
	Call(proc Procedure, args *Bindings) (any, error)

	// Invoke binds positional args to proc's argument bindings and calls it.
	Invoke(proc Procedure, args ...any) (any, error)

	// Execute resolves a procedure by name, reserves what it needs and
	// invokes it within the current call tree.
	Execute(name string, args []any) (any, error)

	// IsTracing reports whether trace output is recorded for this call tree.
	IsTracing() bool

	// Log appends a line to the call trace (when tracing).
	Log(msg string)
}

// Func adapts an ordinary function to a procedure body.
type Func func(cx CallContext, args *Bindings) (any, error)

// Base holds the descriptive parts of a procedure. Implementations embed it
// and add a Call method.
type Base struct {
	id          string
	typ         string
	alias       string
	description string
	bindings    *Bindings
	modified    time.Time
}

// NewBase creates a Base from explicit values. A nil bindings becomes an
// empty sealed set.
func NewBase(id, typ, description string, bindings *Bindings) Base {
	if bindings == nil {
		bindings = NewBuilder(nil).Seal()
	}
	return Base{id: id, typ: typ, description: description, bindings: bindings}
}

// BaseFromDefinition creates a Base from a stored definition.
func BaseFromDefinition(def *Definition) (Base, error) {
	b, err := def.BuildBindings()
	if err != nil {
		return Base{}, err
	}
	base := NewBase(def.ID, def.Type, def.Description, b)
	base.alias = def.Alias
	base.modified = def.Modified
	return base, nil
}

func (b *Base) ID() string          { return b.id }
func (b *Base) Type() string        { return b.typ }
func (b *Base) Alias() string       { return b.alias }
func (b *Base) Description() string { return b.description }
func (b *Base) Bindings() *Bindings { return b.bindings }
func (b *Base) Modified() time.Time { return b.modified }

// Builtin is a procedure implemented by a Go function.
type Builtin struct {
	Base
	fn Func
}

// NewBuiltin creates a built-in procedure.
func NewBuiltin(id, description string, bindings *Bindings, fn Func) *Builtin {
	return &Builtin{Base: NewBase(id, "built-in", description, bindings), fn: fn}
}

// Call implements Procedure.
func (p *Builtin) Call(cx CallContext, args *Bindings) (any, error) {
	return p.fn(cx, args)
}
