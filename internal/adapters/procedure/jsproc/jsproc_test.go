package jsproc_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jsamuelsen11/rapidcontext/internal/adapters/procedure/jsproc"
	"github.com/jsamuelsen11/rapidcontext/internal/adapters/storage/filestore"
	"github.com/jsamuelsen11/rapidcontext/internal/app/callctx"
	"github.com/jsamuelsen11/rapidcontext/internal/app/library"
	"github.com/jsamuelsen11/rapidcontext/internal/domain/procedure"
)

func script(id, code string, bindings ...procedure.BindingDefinition) *procedure.Definition {
	return &procedure.Definition{
		ID:   id,
		Type: jsproc.Type,
		Bindings: append([]procedure.BindingDefinition{
			{Name: jsproc.BindingCode, Type: "data", Value: code},
		}, bindings...),
	}
}

func arg(name string) procedure.BindingDefinition {
	return procedure.BindingDefinition{Name: name, Type: "argument"}
}

func newLibrary(t *testing.T, defs ...*procedure.Definition) *library.Library {
	t.Helper()

	store := filestore.New(t.TempDir())
	for _, def := range defs {
		if err := store.Store(context.Background(), def); err != nil {
			t.Fatalf("Store(%s) error = %v", def.ID, err)
		}
	}
	return library.New(
		library.WithStore(store),
		library.WithFactory(jsproc.Type, jsproc.New),
	)
}

func TestProcedure_Results(t *testing.T) {
	t.Parallel()

	lib := newLibrary(t,
		script("Test.Add", "return a + b;", arg("a"), arg("b")),
		script("Test.Object", "return {sum: a + b, items: [a, b], label: label};",
			procedure.BindingDefinition{Name: "label", Type: "data", Value: "pair"},
			arg("a"), arg("b")),
		script("Test.Nothing", "var x = 1;"),
	)

	tests := []struct {
		name  string
		proc  string
		args  []any
		check func(t *testing.T, got any)
	}{
		{
			name: "number",
			proc: "Test.Add",
			args: []any{1, 2},
			check: func(t *testing.T, got any) {
				if got != int64(3) {
					t.Errorf("result = %v (%T), want 3", got, got)
				}
			},
		},
		{
			name: "object with data binding",
			proc: "Test.Object",
			args: []any{1, 2},
			check: func(t *testing.T, got any) {
				m, ok := got.(map[string]any)
				if !ok {
					t.Fatalf("result = %T, want map", got)
				}
				if m["sum"] != float64(3) || m["label"] != "pair" {
					t.Errorf("result = %v", m)
				}
				if items, _ := m["items"].([]any); len(items) != 2 {
					t.Errorf("items = %v", m["items"])
				}
			},
		},
		{
			name: "undefined",
			proc: "Test.Nothing",
			check: func(t *testing.T, got any) {
				if got != nil {
					t.Errorf("result = %v, want nil", got)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := callctx.New(context.Background(), lib).Execute(tt.proc, tt.args)
			if err != nil {
				t.Fatalf("Execute() error = %v", err)
			}
			tt.check(t, got)
		})
	}
}

func TestProcedure_SubProcedures(t *testing.T) {
	t.Parallel()

	lib := newLibrary(t,
		script("Test.Double", "return x * 2;", arg("x")),
		script("Test.Quad", "return double(double(n));",
			procedure.BindingDefinition{Name: "double", Type: "procedure", Value: "Test.Double"},
			arg("n")),
		script("Test.Names", `return call("System.Procedure.List").length;`),
	)

	got, err := callctx.New(context.Background(), lib).Execute("Test.Quad", []any{3})
	if err != nil {
		t.Fatalf("Execute(Test.Quad) error = %v", err)
	}
	if got != int64(12) {
		t.Errorf("Test.Quad(3) = %v (%T), want 12", got, got)
	}

	got, err = callctx.New(context.Background(), lib).Execute("Test.Names", nil)
	if err != nil {
		t.Fatalf("Execute(Test.Names) error = %v", err)
	}
	if n, ok := got.(int64); !ok || n < 3 {
		t.Errorf("Test.Names = %v (%T), want at least 3", got, got)
	}
}

func TestProcedure_Errors(t *testing.T) {
	t.Parallel()

	lib := newLibrary(t,
		script("Test.Throw", `throw new Error("bad input");`),
		script("Test.CallMissing", `return call("Missing.Procedure");`),
	)

	tests := []struct {
		proc    string
		want    error
		message string
	}{
		{proc: "Test.Throw", want: procedure.ErrExecution, message: "bad input"},
		{proc: "Test.CallMissing", want: procedure.ErrNotFound, message: "Missing.Procedure"},
	}

	for _, tt := range tests {
		t.Run(tt.proc, func(t *testing.T) {
			t.Parallel()

			_, err := callctx.New(context.Background(), lib).Execute(tt.proc, nil)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Execute() error = %v, want %v", err, tt.want)
			}
			if !strings.Contains(err.Error(), tt.message) {
				t.Errorf("Execute() error = %q, want it to contain %q", err, tt.message)
			}
		})
	}
}

func TestProcedure_Timeout(t *testing.T) {
	t.Parallel()

	lib := newLibrary(t, script("Test.Loop", "while (true) {}"))
	cx := callctx.New(context.Background(), lib,
		callctx.WithChain(callctx.NewChain(callctx.Timeout(50*time.Millisecond))),
	)

	_, err := cx.Execute("Test.Loop", nil)
	if !errors.Is(err, procedure.ErrInterrupted) {
		t.Errorf("Execute() error = %v, want ErrInterrupted", err)
	}
}

func TestProcedure_Log(t *testing.T) {
	t.Parallel()

	lib := newLibrary(t, script("Test.Log", `log("hello"); log({a: 1}); return 1;`))
	cx := callctx.New(context.Background(), lib, callctx.WithTrace(true))

	if _, err := cx.Execute("Test.Log", nil); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	out := cx.LogString()
	if !strings.Contains(out, "hello") || !strings.Contains(out, `{"a":1}`) {
		t.Errorf("log = %q, want script messages", out)
	}
}

func TestNew_InvalidScript(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		def  *procedure.Definition
	}{
		{name: "syntax error", def: script("X", "return (")},
		{name: "missing code", def: &procedure.Definition{ID: "X", Type: jsproc.Type}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := jsproc.New(tt.def); !errors.Is(err, procedure.ErrBinding) {
				t.Errorf("New() error = %v, want ErrBinding", err)
			}
		})
	}
}
