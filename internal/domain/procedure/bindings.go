package procedure

import (
	"fmt"
	"strings"
)

// LegacyArgumentDescriptions keeps the old definition format working: an
// argument binding without a description reports its raw value as the
// description, since older definitions stored the description there.
var LegacyArgumentDescriptions = true

// Bindings is an immutable, ordered set of bindings with an optional parent.
// Lookups check local entries first and then the parent chain. A Bindings
// never owns its parent; a parent may be shared by any number of children.
//
// The zero value is not usable; create values with a Builder.
type Bindings struct {
	parent *Bindings
	local  []Binding
	index  map[string]int
}

// Parent returns the parent bindings, or nil.
func (b *Bindings) Parent() *Bindings {
	return b.parent
}

// Local returns a copy of the local entries in insertion order.
func (b *Bindings) Local() []Binding {
	out := make([]Binding, len(b.local))
	copy(out, b.local)
	return out
}

// find returns the nearest binding with the given name.
func (b *Bindings) find(name string) (Binding, bool) {
	for cur := b; cur != nil; cur = cur.parent {
		if i, ok := cur.index[name]; ok {
			return cur.local[i], true
		}
	}
	return Binding{}, false
}

// HasName returns true if the name resolves locally or through any ancestor.
func (b *Bindings) HasName(name string) bool {
	_, ok := b.find(name)
	return ok
}

// Names returns all names in the hierarchy, ancestor names first, each name
// exactly once in first-occurrence order.
func (b *Bindings) Names() []string {
	var names []string
	if b.parent != nil {
		names = b.parent.Names()
	}
	seen := make(map[string]struct{}, len(names)+len(b.local))
	for _, n := range names {
		seen[n] = struct{}{}
	}
	for _, e := range b.local {
		if _, ok := seen[e.Name]; ok {
			continue
		}
		seen[e.Name] = struct{}{}
		names = append(names, e.Name)
	}
	return names
}

// Type returns the binding type for name. It fails if the name is unknown or
// if the stored type tag is not one of the recognized types.
func (b *Bindings) Type(name string) (BindingType, error) {
	e, ok := b.find(name)
	if !ok {
		return "", Errorf(ErrBinding, "no binding for %q found", name)
	}
	if !e.Type.IsValid() {
		return "", Errorf(ErrBinding, "invalid type %q for binding %q", e.Type, name)
	}
	return e.Type, nil
}

// Value returns the value bound to name. It fails if the name is unknown.
func (b *Bindings) Value(name string) (any, error) {
	e, ok := b.find(name)
	if !ok {
		return nil, Errorf(ErrBinding, "no binding for %q found", name)
	}
	return e.Value, nil
}

// ValueOr returns the value bound to name, or def if the name is unknown or
// bound to nil.
func (b *Bindings) ValueOr(name string, def any) any {
	e, ok := b.find(name)
	if !ok || e.Value == nil {
		return def
	}
	return e.Value
}

// StringOr returns the value bound to name as text, or def if it is missing.
func (b *Bindings) StringOr(name, def string) string {
	e, ok := b.find(name)
	if !ok || e.Value == nil {
		return def
	}
	return e.String()
}

// Description returns the description for name. A blank description falls
// back to the nearest ancestor declaring the same name.
func (b *Bindings) Description(name string) (string, error) {
	e, ok := b.find(name)
	if !ok {
		return "", Errorf(ErrBinding, "no binding for %q found", name)
	}
	desc := e.Description
	if strings.TrimSpace(desc) == "" && b.parent != nil && b.parent.HasName(name) {
		var err error
		if desc, err = b.parent.Description(name); err != nil {
			return "", err
		}
	}
	if strings.TrimSpace(desc) == "" && e.Type == TypeArgument && LegacyArgumentDescriptions {
		desc = e.String()
	}
	return desc, nil
}

// Builder collects binding entries and seals them into an immutable
// Bindings. A Builder must not be used concurrently.
type Builder struct {
	parent *Bindings
	local  []Binding
	index  map[string]int
	sealed bool
}

// NewBuilder creates an empty builder on top of parent, which may be nil.
func NewBuilder(parent *Bindings) *Builder {
	return &Builder{parent: parent, index: make(map[string]int)}
}

// Set adds or replaces a local binding. An empty description defers to the
// ancestor description for the same name. Set fails with ErrSealed once Seal
// has been called.
func (b *Builder) Set(name string, typ BindingType, value any, description string) error {
	if b.sealed {
		return Errorf(ErrSealed, "cannot modify sealed bindings (%q)", name)
	}
	if name == "" {
		return Errorf(ErrBinding, "binding name must not be empty")
	}
	e := Binding{Name: name, Type: typ, Value: value, Description: description}
	if i, ok := b.index[name]; ok {
		b.local[i] = e
		return nil
	}
	b.index[name] = len(b.local)
	b.local = append(b.local, e)
	return nil
}

// Seal returns the immutable Bindings. Later calls to Set fail; later calls
// to Seal return an equivalent value.
func (b *Builder) Seal() *Bindings {
	b.sealed = true
	local := make([]Binding, len(b.local))
	copy(local, b.local)
	index := make(map[string]int, len(b.index))
	for k, v := range b.index {
		index[k] = v
	}
	return &Bindings{parent: b.parent, local: local, index: index}
}

// Sealed reports whether Seal has been called.
func (b *Builder) Sealed() bool {
	return b.sealed
}

// New builds sealed bindings from a list of entries. Duplicate names keep
// the last entry.
func New(parent *Bindings, entries ...Binding) (*Bindings, error) {
	bb := NewBuilder(parent)
	for _, e := range entries {
		if err := bb.Set(e.Name, e.Type, e.Value, e.Description); err != nil {
			return nil, err
		}
	}
	return bb.Seal(), nil
}

// MustNew is like New but panics on error. Intended for static built-in
// declarations.
func MustNew(parent *Bindings, entries ...Binding) *Bindings {
	b, err := New(parent, entries...)
	if err != nil {
		panic(fmt.Sprintf("procedure: invalid bindings: %v", err))
	}
	return b
}
