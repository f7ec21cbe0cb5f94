package app

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/jsamuelsen11/rapidcontext/internal/app/callctx"
	"github.com/jsamuelsen11/rapidcontext/internal/domain/procedure"
	"github.com/jsamuelsen11/rapidcontext/internal/platform/config"
	"github.com/jsamuelsen11/rapidcontext/internal/ports"
	"github.com/jsamuelsen11/rapidcontext/mocks"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// stubRegistry is an in-memory Registry.
type stubRegistry struct {
	mu      sync.Mutex
	procs   map[string]procedure.Procedure
	samples []ports.CallSample
	err     error
}

func newStubRegistry(procs ...procedure.Procedure) *stubRegistry {
	r := &stubRegistry{procs: make(map[string]procedure.Procedure)}
	for _, p := range procs {
		r.procs[p.ID()] = p
	}
	return r
}

func (r *stubRegistry) Procedure(_ context.Context, name string) (procedure.Procedure, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.procs[name]; ok {
		return p, nil
	}
	return nil, procedure.Errorf(procedure.ErrNotFound, "no procedure %q found", name)
}

func (r *stubRegistry) IsTracing(string) bool { return false }

func (r *stubRegistry) Report(_ context.Context, s ports.CallSample) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.samples = append(r.samples, s)
}

func (r *stubRegistry) Names(context.Context) ([]string, error) {
	if r.err != nil {
		return nil, r.err
	}
	return []string{"Test.Add", "Test.Fail"}, nil
}

func addProc() procedure.Procedure {
	return procedure.NewBuiltin("Test.Add", "Adds two numbers.",
		procedure.MustNew(nil,
			procedure.Binding{Name: "a", Type: procedure.TypeArgument, Description: "First"},
			procedure.Binding{Name: "b", Type: procedure.TypeArgument, Description: "Second"},
		),
		func(_ procedure.CallContext, args *procedure.Bindings) (any, error) {
			a, _ := args.Value("a")
			b, _ := args.Value("b")
			return a.(int) + b.(int), nil
		},
	)
}

func failProc() procedure.Procedure {
	return procedure.NewBuiltin("Test.Fail", "Always fails.", nil,
		func(procedure.CallContext, *procedure.Bindings) (any, error) {
			return nil, procedure.Errorf(procedure.ErrExecution, "boom")
		},
	)
}

func newTestService(t *testing.T, env ports.Environment, procs ...procedure.Procedure) *ProcedureService {
	t.Helper()
	return NewProcedureService(newStubRegistry(procs...), env, nil, config.CallConfig{
		LogLimit:     10_000,
		PreviewLimit: 100,
		TraceDepth:   5,
	}, discardLogger())
}

// --- NewProcedureService ---

func TestNewProcedureService_Defaults(t *testing.T) {
	t.Parallel()

	svc := NewProcedureService(newStubRegistry(), nil, nil, config.CallConfig{}, nil)
	if svc.logger == nil {
		t.Error("NewProcedureService(nil logger) should create a no-op logger, got nil")
	}
	if svc.chain == nil {
		t.Error("NewProcedureService(nil chain) should create an empty chain, got nil")
	}
}

// --- Call ---

func TestProcedureService_Call(t *testing.T) {
	t.Parallel()

	t.Run("returns data on success", func(t *testing.T) {
		t.Parallel()
		svc := newTestService(t, nil, addProc())

		got, err := svc.Call(context.Background(), "Test.Add", []any{2, 3}, false)
		if err != nil {
			t.Fatalf("Call() error = %v, want nil", err)
		}
		if got.Error != nil {
			t.Fatalf("Call() result error = %v, want nil", got.Error)
		}
		if got.Data != 5 {
			t.Errorf("Data = %v, want 5", got.Data)
		}
		if got.ID == "" {
			t.Error("ID is empty")
		}
		if got.Start.IsZero() || got.End.Before(got.Start) {
			t.Errorf("Start = %v, End = %v, want ordered non-zero times", got.Start, got.End)
		}
		if got.Log != "" {
			t.Errorf("Log = %q, want empty when not tracing", got.Log)
		}
	})

	t.Run("returns trace log when tracing", func(t *testing.T) {
		t.Parallel()
		svc := newTestService(t, nil, addProc())

		got, err := svc.Call(context.Background(), "Test.Add", []any{1, 1}, true)
		if err != nil {
			t.Fatalf("Call() error = %v, want nil", err)
		}
		if !strings.Contains(got.Log, "Call Test.Add(") {
			t.Errorf("Log = %q, want call line", got.Log)
		}
	})

	t.Run("uses call id from context", func(t *testing.T) {
		t.Parallel()
		svc := newTestService(t, nil, addProc())

		ctx := ports.WithCallID(context.Background(), "req-42")
		got, err := svc.Call(ctx, "Test.Add", []any{1, 2}, false)
		if err != nil {
			t.Fatalf("Call() error = %v, want nil", err)
		}
		if got.ID != "req-42" {
			t.Errorf("ID = %q, want %q", got.ID, "req-42")
		}
	})

	t.Run("returns error for unknown procedure", func(t *testing.T) {
		t.Parallel()
		svc := newTestService(t, nil)

		got, err := svc.Call(context.Background(), "Missing", nil, false)
		if !errors.Is(err, procedure.ErrNotFound) {
			t.Fatalf("Call() error = %v, want ErrNotFound", err)
		}
		if got != nil {
			t.Errorf("Call() result = %+v, want nil", got)
		}
	})

	t.Run("reports procedure failure in result", func(t *testing.T) {
		t.Parallel()
		svc := newTestService(t, nil, failProc())

		got, err := svc.Call(context.Background(), "Test.Fail", nil, false)
		if err != nil {
			t.Fatalf("Call() error = %v, want nil", err)
		}
		if !errors.Is(got.Error, procedure.ErrExecution) {
			t.Errorf("result error = %v, want ErrExecution", got.Error)
		}
		if len(got.Stack) != 1 || got.Stack[0] != "Test.Fail" {
			t.Errorf("Stack = %v, want [Test.Fail]", got.Stack)
		}
		if got.Data != nil {
			t.Errorf("Data = %v, want nil", got.Data)
		}
	})

	t.Run("reports argument errors in result", func(t *testing.T) {
		t.Parallel()
		svc := newTestService(t, nil, addProc())

		got, err := svc.Call(context.Background(), "Test.Add", []any{1, 2, 3}, false)
		if err != nil {
			t.Fatalf("Call() error = %v, want nil", err)
		}
		if !errors.Is(got.Error, procedure.ErrArgument) {
			t.Errorf("result error = %v, want ErrArgument", got.Error)
		}
	})

	t.Run("commits reserved connections", func(t *testing.T) {
		t.Parallel()
		env := mocks.NewMockEnvironment(t)
		pool := mocks.NewMockPool(t)
		conn := mocks.NewMockConnection(t)
		env.EXPECT().Pool("db").Return(pool, nil).Once()
		pool.EXPECT().Reserve(mock.Anything).Return(conn, nil).Once()
		conn.EXPECT().Commit(mock.Anything).Return(nil).Once()
		pool.EXPECT().Release(mock.Anything, conn).Return(nil).Once()

		proc := procedure.NewBuiltin("Test.Conn", "Uses a connection.",
			procedure.MustNew(nil,
				procedure.Binding{Name: "db", Type: procedure.TypeConnection, Value: "db"},
			),
			func(_ procedure.CallContext, args *procedure.Bindings) (any, error) {
				v, _ := args.Value("db")
				if v != conn {
					return nil, errors.New("connection not bound")
				}
				return "ok", nil
			},
		)
		svc := newTestService(t, env, proc)

		got, err := svc.Call(context.Background(), "Test.Conn", nil, false)
		if err != nil {
			t.Fatalf("Call() error = %v, want nil", err)
		}
		if got.Error != nil || got.Data != "ok" {
			t.Errorf("Call() = %v, %v; want ok, nil", got.Data, got.Error)
		}
	})

	t.Run("applies chain timeout", func(t *testing.T) {
		t.Parallel()
		slow := procedure.NewBuiltin("Test.Slow", "Waits for cancellation.", nil,
			func(cx procedure.CallContext, _ *procedure.Bindings) (any, error) {
				<-cx.Done()
				return nil, cx.Err()
			},
		)
		chain := callctx.NewChain(callctx.Timeout(20 * time.Millisecond))
		svc := NewProcedureService(newStubRegistry(slow), nil, chain, config.CallConfig{}, discardLogger())

		got, err := svc.Call(context.Background(), "Test.Slow", nil, false)
		if err != nil {
			t.Fatalf("Call() error = %v, want nil", err)
		}
		if !errors.Is(got.Error, procedure.ErrInterrupted) {
			t.Errorf("result error = %v, want ErrInterrupted", got.Error)
		}
	})
}

// --- List ---

func TestProcedureService_List(t *testing.T) {
	t.Parallel()

	t.Run("returns names on success", func(t *testing.T) {
		t.Parallel()
		svc := newTestService(t, nil)

		got, err := svc.List(context.Background())
		if err != nil {
			t.Fatalf("List() error = %v, want nil", err)
		}
		if len(got) != 2 || got[0] != "Test.Add" {
			t.Errorf("List() = %v, want [Test.Add Test.Fail]", got)
		}
	})

	t.Run("propagates storage error", func(t *testing.T) {
		t.Parallel()
		reg := newStubRegistry()
		reg.err = errors.New("disk gone")
		svc := NewProcedureService(reg, nil, nil, config.CallConfig{}, discardLogger())

		if _, err := svc.List(context.Background()); err == nil {
			t.Fatal("List() error = nil, want error")
		}
	})
}

// --- Describe ---

func TestProcedureService_Describe(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		proc    string
		wantErr error
		wantLen int
	}{
		{name: "returns bindings", proc: "Test.Add", wantLen: 2},
		{name: "unknown procedure", proc: "Missing", wantErr: procedure.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := newTestService(t, nil, addProc())

			got, err := svc.Describe(context.Background(), tt.proc)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Describe() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Describe() error = %v, want nil", err)
			}
			if got.ID != tt.proc || len(got.Bindings) != tt.wantLen {
				t.Errorf("Describe() = %+v, want id %s with %d bindings", got, tt.proc, tt.wantLen)
			}
		})
	}
}
