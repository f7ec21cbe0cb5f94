package dto_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/jsamuelsen11/rapidcontext/internal/adapters/http/dto"
	"github.com/jsamuelsen11/rapidcontext/internal/domain/procedure"
	"github.com/jsamuelsen11/rapidcontext/internal/ports"
)

var testTime = time.Date(2026, 2, 12, 15, 4, 5, 0, time.UTC)

func TestToCallResponse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		res       *ports.CallResult
		wantData  any
		wantError string
		wantStack int
	}{
		{
			name:     "success carries data",
			res:      &ports.CallResult{Data: "ok", Stack: []string{"ignored"}},
			wantData: "ok",
		},
		{
			name: "failure drops data and keeps stack",
			res: &ports.CallResult{
				Data:  "partial",
				Error: errors.New("procedure Test.Fail: boom"),
				Stack: []string{"Test.Fail", "Test.Outer"},
			},
			wantError: "procedure Test.Fail: boom",
			wantStack: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := dto.ToCallResponse(tt.res)
			if got.Data != tt.wantData {
				t.Errorf("Data = %v, want %v", got.Data, tt.wantData)
			}
			if got.Error != tt.wantError {
				t.Errorf("Error = %q, want %q", got.Error, tt.wantError)
			}
			if len(got.Stack) != tt.wantStack {
				t.Errorf("len(Stack) = %d, want %d", len(got.Stack), tt.wantStack)
			}
		})
	}
}

func TestCallResponse_JSONSerialization(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(dto.ToCallResponse(&ports.CallResult{Data: nil}))
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	if string(data) != `{"data":null}` {
		t.Errorf("JSON = %s, want {\"data\":null}", data)
	}
}

func TestToProcedureListResponse(t *testing.T) {
	t.Parallel()

	got := dto.ToProcedureListResponse(nil)
	if got.Procedures == nil || got.Count != 0 {
		t.Errorf("ToProcedureListResponse(nil) = %+v, want empty non-nil list", got)
	}

	got = dto.ToProcedureListResponse([]string{"A", "B"})
	if got.Count != 2 {
		t.Errorf("Count = %d, want 2", got.Count)
	}
}

func TestToProcedureResponse(t *testing.T) {
	t.Parallel()

	def := &procedure.Definition{
		ID:          "Test.Query",
		Type:        "sql.query",
		Alias:       "OldQuery",
		Description: "Finds rows.",
		Modified:    testTime,
		Bindings: []procedure.BindingDefinition{
			{Name: "db", Type: "connection", Value: "main"},
			{Name: "sql", Type: "data", Value: "SELECT 1"},
			{Name: "id", Type: "argument", Value: "ignored", Description: "Row id"},
		},
	}

	got := dto.ToProcedureResponse(def)
	if got.ID != "Test.Query" || got.Alias != "OldQuery" {
		t.Errorf("ID, Alias = %q, %q", got.ID, got.Alias)
	}
	if len(got.Bindings) != 3 {
		t.Fatalf("len(Bindings) = %d, want 3", len(got.Bindings))
	}
	if got.Bindings[1].Value != "SELECT 1" {
		t.Errorf("data binding value = %v, want SELECT 1", got.Bindings[1].Value)
	}
	if got.Bindings[2].Value != nil || got.Bindings[2].Description != "Row id" {
		t.Errorf("argument binding = %+v, want description only", got.Bindings[2])
	}
	if got.Modified != "2026-02-12T15:04:05Z" {
		t.Errorf("Modified = %q", got.Modified)
	}
}

func TestToHealthResponse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		results     map[string]error
		wantReady   bool
		wantStatus  string
		wantPoolMsg map[string]string
	}{
		{name: "no pools", results: map[string]error{}, wantReady: true, wantStatus: dto.HealthReady, wantPoolMsg: map[string]string{}},
		{
			name:        "all healthy",
			results:     map[string]error{"db": nil, "api": nil},
			wantReady:   true,
			wantStatus:  dto.HealthReady,
			wantPoolMsg: map[string]string{"db": dto.HealthOK, "api": dto.HealthOK},
		},
		{
			name:        "one failing",
			results:     map[string]error{"db": nil, "api": errors.New("api: failing")},
			wantReady:   false,
			wantStatus:  dto.HealthNotReady,
			wantPoolMsg: map[string]string{"db": dto.HealthOK, "api": "api: failing"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ready := dto.ToHealthResponse(tt.results)
			if ready != tt.wantReady {
				t.Errorf("ready = %v, want %v", ready, tt.wantReady)
			}
			if got.Status != tt.wantStatus {
				t.Errorf("Status = %q, want %q", got.Status, tt.wantStatus)
			}
			if len(got.Pools) != len(tt.wantPoolMsg) {
				t.Fatalf("Pools = %v, want %v", got.Pools, tt.wantPoolMsg)
			}
			for k, v := range tt.wantPoolMsg {
				if got.Pools[k] != v {
					t.Errorf("Pools[%s] = %q, want %q", k, got.Pools[k], v)
				}
			}
		})
	}
}
