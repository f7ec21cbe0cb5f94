package http_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/mock"

	adapthttp "github.com/jsamuelsen11/rapidcontext/internal/adapters/http"
	"github.com/jsamuelsen11/rapidcontext/internal/adapters/http/handlers"
	"github.com/jsamuelsen11/rapidcontext/internal/ports"
	"github.com/jsamuelsen11/rapidcontext/mocks"
)

type routerDeps struct {
	svc      *mocks.MockProcedureService
	registry *mocks.MockHealthRegistry
}

func newTestRouter(t *testing.T, mws ...func(http.Handler) http.Handler) (http.Handler, routerDeps) {
	t.Helper()
	deps := routerDeps{
		svc:      mocks.NewMockProcedureService(t),
		registry: mocks.NewMockHealthRegistry(t),
	}
	router := adapthttp.NewRouter(
		handlers.NewProcedureHandler(deps.svc),
		handlers.NewHealthHandler(deps.registry),
		mws...,
	)
	return router, deps
}

func TestRouter_Routes(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t)
	mux, ok := router.(*chi.Mux)
	if !ok {
		t.Fatalf("router is %T, want *chi.Mux", router)
	}

	registered := make(map[string]bool)
	if err := chi.Walk(mux, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		registered[method+" "+route] = true
		return nil
	}); err != nil {
		t.Fatalf("chi.Walk() error = %v", err)
	}

	for _, want := range []string{
		"GET /health/live",
		"GET /health/ready",
		"GET /rapidcontext/procedures",
		"GET /rapidcontext/procedures/{name}",
		"POST /rapidcontext/procedure/{name}",
	} {
		if !registered[want] {
			t.Errorf("route %s not registered", want)
		}
	}
}

func TestRouter_Requests(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		method      string
		target      string
		body        string
		setup       func(routerDeps)
		wantStatus  int
		wantContent string
	}{
		{
			name: "list procedures", method: http.MethodGet, target: "/rapidcontext/procedures",
			setup: func(d routerDeps) {
				d.svc.EXPECT().List(mock.Anything).Return([]string{"System.Procedure.List"}, nil)
			},
			wantStatus: http.StatusOK, wantContent: "application/json",
		},
		{
			name: "call dotted name", method: http.MethodPost, target: "/rapidcontext/procedure/System.Procedure.Read",
			body: `{"args":["Example.Greet"]}`,
			setup: func(d routerDeps) {
				d.svc.EXPECT().Call(mock.Anything, "System.Procedure.Read", []any{"Example.Greet"}, false).
					Return(&ports.CallResult{Data: map[string]any{"id": "Example.Greet"}}, nil)
			},
			wantStatus: http.StatusOK, wantContent: "application/json",
		},
		{
			name: "readiness", method: http.MethodGet, target: "/health/ready",
			setup: func(d routerDeps) {
				d.registry.EXPECT().CheckAll(mock.Anything).Return(map[string]error{})
			},
			wantStatus: http.StatusOK, wantContent: "application/json",
		},
		{
			name: "unknown route", method: http.MethodGet, target: "/nonexistent",
			wantStatus: http.StatusNotFound, wantContent: "application/problem+json",
		},
		{
			name: "wrong method", method: http.MethodPut, target: "/rapidcontext/procedures",
			wantStatus: http.StatusMethodNotAllowed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			router, deps := newTestRouter(t)
			if tt.setup != nil {
				tt.setup(deps)
			}

			req := httptest.NewRequest(tt.method, tt.target, strings.NewReader(tt.body))
			if tt.body != "" {
				req.Header.Set("Content-Type", "application/json")
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d; body = %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantContent != "" && rec.Header().Get("Content-Type") != tt.wantContent {
				t.Errorf("Content-Type = %q, want %q", rec.Header().Get("Content-Type"), tt.wantContent)
			}
		})
	}
}

func TestRouter_MiddlewareOrder(t *testing.T) {
	t.Parallel()

	var order []string
	mw := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}
	router, _ := newTestRouter(t, mw("outer"), mw("inner"))

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health/live", nil))

	if len(order) != 2 || order[0] != "outer" || order[1] != "inner" {
		t.Errorf("middleware order = %v, want [outer inner]", order)
	}
}
