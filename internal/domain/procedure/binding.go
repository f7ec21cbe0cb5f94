package procedure

import "fmt"

// BindingType identifies how a binding value is interpreted.
type BindingType string

const (
	// TypeData is a static value stored with the procedure.
	TypeData BindingType = "data"
	// TypeProcedure is the id of a sub-procedure, resolved at call time.
	TypeProcedure BindingType = "procedure"
	// TypeConnection is the name of a connection pool, reserved before the call.
	TypeConnection BindingType = "connection"
	// TypeArgument is a positional call argument.
	TypeArgument BindingType = "argument"
)

// IsValid returns true if the type is one of the defined constants.
func (t BindingType) IsValid() bool {
	switch t {
	case TypeData, TypeProcedure, TypeConnection, TypeArgument:
		return true
	default:
		return false
	}
}

// String implements fmt.Stringer.
func (t BindingType) String() string {
	return string(t)
}

// ParseBindingType converts a stored type tag to a BindingType.
func ParseBindingType(s string) (BindingType, error) {
	t := BindingType(s)
	if !t.IsValid() {
		return "", Errorf(ErrBinding, "invalid binding type %q", s)
	}
	return t, nil
}

// Binding is one named parameter entry.
type Binding struct {
	Name        string
	Type        BindingType
	Value       any
	Description string
}

// String returns the binding value as text. Nil values are empty.
func (b Binding) String() string {
	switch v := b.Value.(type) {
	case nil:
		return ""
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
