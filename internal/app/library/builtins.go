package library

import (
	"fmt"
	"strconv"

	"github.com/jsamuelsen11/rapidcontext/internal/domain/procedure"
)

// Built-in procedure ids.
const (
	ProcList        = "System.Procedure.List"
	ProcRead        = "System.Procedure.Read"
	ProcTrace       = "System.Procedure.Trace"
	ProcMetrics     = "System.Procedure.Metrics"
	ProcConnections = "System.Connection.List"
)

func (l *Library) systemProcedures() []procedure.Procedure {
	return []procedure.Procedure{
		procedure.NewBuiltin(ProcList,
			"Returns the names of all available procedures.",
			nil,
			func(cx procedure.CallContext, _ *procedure.Bindings) (any, error) {
				return l.Names(cx)
			},
		),
		procedure.NewBuiltin(ProcRead,
			"Returns the definition of a procedure.",
			procedure.MustNew(nil,
				procedure.Binding{Name: "name", Type: procedure.TypeArgument, Description: "The procedure name."},
			),
			func(cx procedure.CallContext, args *procedure.Bindings) (any, error) {
				name := args.StringOr("name", "")
				p, err := l.Procedure(cx, name)
				if err != nil {
					return nil, err
				}
				return procedure.DefinitionOf(p), nil
			},
		),
		procedure.NewBuiltin(ProcTrace,
			"Enables or disables forced tracing of a procedure.",
			procedure.MustNew(nil,
				procedure.Binding{Name: "name", Type: procedure.TypeArgument, Description: "The procedure name."},
				procedure.Binding{Name: "enabled", Type: procedure.TypeArgument, Description: "The tracing flag."},
			),
			func(cx procedure.CallContext, args *procedure.Bindings) (any, error) {
				p, err := l.Procedure(cx, args.StringOr("name", ""))
				if err != nil {
					return nil, err
				}
				on, err := asBool(args.ValueOr("enabled", false))
				if err != nil {
					return nil, procedure.Errorf(procedure.ErrArgument, "invalid tracing flag: %v", err)
				}
				l.SetTracing(p.ID(), on)
				return on, nil
			},
		),
		procedure.NewBuiltin(ProcMetrics,
			"Returns the usage statistics of all called procedures.",
			nil,
			func(cx procedure.CallContext, _ *procedure.Bindings) (any, error) {
				return l.Stats(cx)
			},
		),
		procedure.NewBuiltin(ProcConnections,
			"Returns the names of all configured connection pools.",
			nil,
			func(procedure.CallContext, *procedure.Bindings) (any, error) {
				if l.env == nil {
					return []string{}, nil
				}
				return l.env.Pools(), nil
			},
		),
	}
}

// asBool accepts booleans and their common string forms.
func asBool(v any) (bool, error) {
	switch b := v.(type) {
	case bool:
		return b, nil
	case string:
		return strconv.ParseBool(b)
	case nil:
		return false, nil
	default:
		return false, fmt.Errorf("unsupported value %v (%T)", v, v)
	}
}
