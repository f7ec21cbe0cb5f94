package httpproc_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jsamuelsen11/rapidcontext/internal/adapters/pool"
	"github.com/jsamuelsen11/rapidcontext/internal/adapters/pool/httppool"
	"github.com/jsamuelsen11/rapidcontext/internal/adapters/procedure/httpproc"
	"github.com/jsamuelsen11/rapidcontext/internal/adapters/storage/filestore"
	"github.com/jsamuelsen11/rapidcontext/internal/app/callctx"
	"github.com/jsamuelsen11/rapidcontext/internal/app/library"
	"github.com/jsamuelsen11/rapidcontext/internal/domain/procedure"
	"github.com/jsamuelsen11/rapidcontext/internal/platform/config"
)

// setup stores defs, points the "api" pool at handler and returns a
// function executing a procedure by name.
func setup(t *testing.T, handler http.HandlerFunc, defs ...*procedure.Definition) func(name string, args ...any) (any, error) {
	t.Helper()

	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	cfg := &config.ClientConfig{
		BaseURL: ts.URL,
		Timeout: 5 * time.Second,
		Retry:   config.RetryConfig{MaxAttempts: 1, Multiplier: 1},
		CircuitBreaker: config.CircuitBreakerConfig{
			MaxFailures:   5,
			Timeout:       time.Second,
			HalfOpenLimit: 1,
		},
	}
	env := pool.NewEnvironment(httppool.New("api", cfg, nil, nil))

	store := filestore.New(t.TempDir())
	for _, def := range defs {
		if err := store.Store(context.Background(), def); err != nil {
			t.Fatalf("Store(%s) error = %v", def.ID, err)
		}
	}
	lib := library.New(
		library.WithStore(store),
		library.WithEnvironment(env),
		library.WithFactory(httpproc.Type, httpproc.New),
	)

	return func(name string, args ...any) (any, error) {
		cx := callctx.New(context.Background(), lib, callctx.WithEnvironment(env))
		return cx.Execute(name, args)
	}
}

func definition(id string, bindings ...procedure.BindingDefinition) *procedure.Definition {
	all := append([]procedure.BindingDefinition{
		{Name: httpproc.BindingConnection, Type: "connection", Value: "api"},
	}, bindings...)
	return &procedure.Definition{ID: id, Type: httpproc.Type, Bindings: all}
}

func TestProcedure_GetJSON(t *testing.T) {
	t.Parallel()

	exec := setup(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %s, want GET", r.Method)
		}
		if r.URL.Path != "/items/a b" || r.URL.Query().Get("sort") != "name" {
			t.Errorf("url = %s", r.URL.String())
		}
		if got := r.Header.Get("Accept"); got != "application/json" {
			t.Errorf("Accept = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"a b","count":2}`))
	}, definition("Item.Get",
		procedure.BindingDefinition{Name: httpproc.BindingURL, Type: "data", Value: "/items/:id?sort=:sort"},
		procedure.BindingDefinition{Name: httpproc.BindingHeaders, Type: "data", Value: "Accept: application/json\n"},
		procedure.BindingDefinition{Name: "id", Type: "argument"},
		procedure.BindingDefinition{Name: "sort", Type: "argument"},
	))

	got, err := exec("Item.Get", "a b", "name")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	m, ok := got.(map[string]any)
	if !ok {
		t.Fatalf("result = %T, want map", got)
	}
	if m["id"] != "a b" || m["count"] != float64(2) {
		t.Errorf("result = %v", m)
	}
}

func TestProcedure_PostJSONData(t *testing.T) {
	t.Parallel()

	exec := setup(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if string(body) != `{"name":"say \"hi\""}` {
			t.Errorf("body = %s", body)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("Content-Type = %q", got)
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("created"))
	}, definition("Item.Create",
		procedure.BindingDefinition{Name: httpproc.BindingURL, Type: "data", Value: "/items"},
		procedure.BindingDefinition{Name: httpproc.BindingMethod, Type: "data", Value: "post"},
		procedure.BindingDefinition{Name: httpproc.BindingData, Type: "data", Value: `{"name":":name"}`},
		procedure.BindingDefinition{Name: httpproc.BindingFlags, Type: "data", Value: "jsondata status"},
		procedure.BindingDefinition{Name: "name", Type: "argument"},
	))

	got, err := exec("Item.Create", `say "hi"`)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	m, ok := got.(map[string]any)
	if !ok {
		t.Fatalf("result = %T, want map", got)
	}
	if m["status"] != http.StatusCreated || m["body"] != "created" {
		t.Errorf("result = %v", m)
	}
}

func TestProcedure_ErrorStatus(t *testing.T) {
	t.Parallel()

	exec := setup(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}, definition("Item.Missing",
		procedure.BindingDefinition{Name: httpproc.BindingURL, Type: "data", Value: "/missing"},
	))

	_, err := exec("Item.Missing")
	if !errors.Is(err, procedure.ErrNotFound) {
		t.Errorf("Execute() error = %v, want ErrNotFound", err)
	}
	var se *httppool.StatusError
	if !errors.As(err, &se) || se.Status != http.StatusNotFound {
		t.Errorf("Execute() error = %v, want 404 StatusError cause", err)
	}
}

func TestNew_RequiresBindings(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		def  *procedure.Definition
	}{
		{
			name: "missing url",
			def:  definition("X"),
		},
		{
			name: "missing connection",
			def: &procedure.Definition{ID: "X", Type: httpproc.Type, Bindings: []procedure.BindingDefinition{
				{Name: httpproc.BindingURL, Type: "data", Value: "/"},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := httpproc.New(tt.def); !errors.Is(err, procedure.ErrBinding) {
				t.Errorf("New() error = %v, want ErrBinding", err)
			}
		})
	}
}
