package dto_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jsamuelsen11/rapidcontext/internal/adapters/http/dto"
	"github.com/jsamuelsen11/rapidcontext/internal/domain/procedure"
)

func TestNewErrorResponse_StatusMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantTitle  string
	}{
		{
			name:       "ErrNotFound maps to 404",
			err:        procedure.Errorf(procedure.ErrNotFound, "no procedure %q found", "X"),
			wantStatus: http.StatusNotFound,
			wantTitle:  "Not Found",
		},
		{
			name:       "ErrArgument maps to 400",
			err:        procedure.Errorf(procedure.ErrArgument, "missing argument"),
			wantStatus: http.StatusBadRequest,
			wantTitle:  "Bad Request",
		},
		{
			name:       "ErrBinding maps to 400",
			err:        procedure.Errorf(procedure.ErrBinding, "bad binding"),
			wantStatus: http.StatusBadRequest,
			wantTitle:  "Bad Request",
		},
		{
			name:       "ErrInterrupted maps to 503",
			err:        procedure.Errorf(procedure.ErrInterrupted, "timed out"),
			wantStatus: http.StatusServiceUnavailable,
			wantTitle:  "Service Unavailable",
		},
		{
			name:       "ErrReservation maps to 502",
			err:        procedure.Errorf(procedure.ErrReservation, "pool exhausted"),
			wantStatus: http.StatusBadGateway,
			wantTitle:  "Bad Gateway",
		},
		{
			name:       "ErrExecution maps to 500",
			err:        procedure.Errorf(procedure.ErrExecution, "boom"),
			wantStatus: http.StatusInternalServerError,
			wantTitle:  "Internal Server Error",
		},
		{
			name:       "unknown error maps to 500",
			err:        errors.New("oops"),
			wantStatus: http.StatusInternalServerError,
			wantTitle:  "Internal Server Error",
		},
		{
			name:       "wrapped ErrNotFound preserves mapping",
			err:        fmt.Errorf("resolving: %w", procedure.ErrNotFound),
			wantStatus: http.StatusNotFound,
			wantTitle:  "Not Found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := httptest.NewRequest(http.MethodGet, "/rapidcontext/procedures/X", nil)
			got := dto.NewErrorResponse(r, tt.err)

			if got.Status != tt.wantStatus {
				t.Errorf("Status = %d, want %d", got.Status, tt.wantStatus)
			}
			if got.Title != tt.wantTitle {
				t.Errorf("Title = %q, want %q", got.Title, tt.wantTitle)
			}
		})
	}
}

func TestNewErrorResponse_Fields(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodPost, "/rapidcontext/procedure/Test.Add", nil)
	err := procedure.Errorf(procedure.ErrArgument, "missing argument 1 %q", "a").WithProcedure("Test.Add")

	got := dto.NewErrorResponse(r, err)

	if got.Type != "about:blank" {
		t.Errorf("Type = %q, want %q", got.Type, "about:blank")
	}
	if got.Instance != "/rapidcontext/procedure/Test.Add" {
		t.Errorf("Instance = %q, want %q", got.Instance, "/rapidcontext/procedure/Test.Add")
	}
	if got.Detail != err.Error() {
		t.Errorf("Detail = %q, want %q", got.Detail, err.Error())
	}
	if got.Procedure != "Test.Add" {
		t.Errorf("Procedure = %q, want %q", got.Procedure, "Test.Add")
	}
}

func TestNewErrorResponse_NoProcedureForPlainErrors(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodGet, "/rapidcontext/procedures", nil)
	got := dto.NewErrorResponse(r, errors.New("disk gone"))

	if got.Procedure != "" {
		t.Errorf("Procedure = %q, want empty for non-procedure error", got.Procedure)
	}
}

func TestWriteErrorResponse(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/rapidcontext/procedures/Missing", nil)

	dto.WriteErrorResponse(w, r, procedure.Errorf(procedure.ErrNotFound, "no procedure %q found", "Missing"))

	if ct := w.Header().Get("Content-Type"); ct != "application/problem+json" {
		t.Errorf("Content-Type = %q, want %q", ct, "application/problem+json")
	}
	if w.Code != http.StatusNotFound {
		t.Errorf("status code = %d, want %d", w.Code, http.StatusNotFound)
	}

	var resp dto.ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
	if resp.Status != http.StatusNotFound {
		t.Errorf("Status = %d, want %d", resp.Status, http.StatusNotFound)
	}
	if resp.Detail != `no procedure "Missing" found` {
		t.Errorf("Detail = %q", resp.Detail)
	}
}
