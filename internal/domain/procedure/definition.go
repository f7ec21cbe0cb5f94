package procedure

import (
	"strings"
	"time"
)

// Definition is the stored form of a procedure.
type Definition struct {
	ID          string              `yaml:"id" json:"id"`
	Type        string              `yaml:"type" json:"type"`
	Alias       string              `yaml:"alias,omitempty" json:"alias,omitempty"`
	Description string              `yaml:"description,omitempty" json:"description,omitempty"`
	Bindings    []BindingDefinition `yaml:"binding,omitempty" json:"binding,omitempty"`

	// Modified is the storage timestamp; it is not serialized.
	Modified time.Time `yaml:"-" json:"-"`
}

// BindingDefinition is the stored form of a binding.
type BindingDefinition struct {
	Name        string `yaml:"name" json:"name"`
	Type        string `yaml:"type" json:"type"`
	Value       any    `yaml:"value,omitempty" json:"value,omitempty"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// Validate checks the definition for required fields and known binding
// types.
func (d *Definition) Validate() error {
	if strings.TrimSpace(d.ID) == "" {
		return Errorf(ErrBinding, "procedure definition is missing an id")
	}
	if strings.TrimSpace(d.Type) == "" {
		return Errorf(ErrBinding, "procedure %s is missing a type", d.ID)
	}
	for _, b := range d.Bindings {
		if strings.TrimSpace(b.Name) == "" {
			return Errorf(ErrBinding, "procedure %s has a binding without name", d.ID)
		}
		if !BindingType(b.Type).IsValid() {
			return Errorf(ErrBinding, "procedure %s: invalid type %q for binding %q", d.ID, b.Type, b.Name)
		}
	}
	return nil
}

// BuildBindings converts the stored bindings into sealed Bindings.
func (d *Definition) BuildBindings() (*Bindings, error) {
	bb := NewBuilder(nil)
	for _, b := range d.Bindings {
		typ := BindingType(b.Type)
		if !typ.IsValid() {
			return nil, Errorf(ErrBinding, "procedure %s: invalid type %q for binding %q", d.ID, b.Type, b.Name)
		}
		if err := bb.Set(b.Name, typ, b.Value, b.Description); err != nil {
			return nil, err
		}
	}
	return bb.Seal(), nil
}

// DefinitionOf describes a procedure in its stored form.
func DefinitionOf(p Procedure) *Definition {
	def := &Definition{
		ID:          p.ID(),
		Type:        p.Type(),
		Alias:       p.Alias(),
		Description: p.Description(),
	}
	if m, ok := p.(Modifiable); ok {
		def.Modified = m.Modified()
	}
	b := p.Bindings()
	for _, e := range b.Local() {
		desc, _ := b.Description(e.Name)
		def.Bindings = append(def.Bindings, BindingDefinition{
			Name:        e.Name,
			Type:        e.Type.String(),
			Value:       e.Value,
			Description: desc,
		})
	}
	return def
}
