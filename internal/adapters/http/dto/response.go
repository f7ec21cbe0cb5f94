// Package dto provides HTTP request/response data transfer objects and
// RFC 9457 Problem Details error responses for the inbound HTTP adapter layer.
package dto

import (
	"time"

	"github.com/jsamuelsen11/rapidcontext/internal/domain/procedure"
	"github.com/jsamuelsen11/rapidcontext/internal/ports"
)

// CallResponse is the envelope returned by the procedure call endpoint.
// Data is null on failure; Error and Trace are omitted when empty.
type CallResponse struct {
	Data  any      `json:"data"`
	Error string   `json:"error,omitempty"`
	Trace string   `json:"trace,omitempty"`
	Stack []string `json:"stack,omitempty"`
}

// ToCallResponse converts a call result to the response envelope.
func ToCallResponse(res *ports.CallResult) CallResponse {
	resp := CallResponse{
		Data:  res.Data,
		Trace: res.Log,
	}
	if res.Error != nil {
		resp.Data = nil
		resp.Error = res.Error.Error()
		resp.Stack = res.Stack
	}
	return resp
}

// ProcedureListResponse represents the list of procedure names.
type ProcedureListResponse struct {
	Procedures []string `json:"procedures"`
	Count      int      `json:"count"`
}

// ToProcedureListResponse wraps procedure names in a list response.
func ToProcedureListResponse(names []string) ProcedureListResponse {
	if names == nil {
		names = []string{}
	}
	return ProcedureListResponse{Procedures: names, Count: len(names)}
}

// BindingResponse represents one procedure binding.
type BindingResponse struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Value       any    `json:"value,omitempty"`
	Description string `json:"description,omitempty"`
}

// ProcedureResponse represents a procedure definition.
type ProcedureResponse struct {
	ID          string            `json:"id"`
	Type        string            `json:"type"`
	Alias       string            `json:"alias,omitempty"`
	Description string            `json:"description"`
	Bindings    []BindingResponse `json:"bindings"`
	Modified    string            `json:"modified,omitempty"`
}

// ToProcedureResponse converts a procedure definition to an HTTP response
// DTO. Argument bindings keep their description but never their value.
func ToProcedureResponse(def *procedure.Definition) ProcedureResponse {
	resp := ProcedureResponse{
		ID:          def.ID,
		Type:        def.Type,
		Alias:       def.Alias,
		Description: def.Description,
		Bindings:    make([]BindingResponse, len(def.Bindings)),
	}
	for i, b := range def.Bindings {
		resp.Bindings[i] = BindingResponse{
			Name:        b.Name,
			Type:        b.Type,
			Value:       b.Value,
			Description: b.Description,
		}
		if b.Type == procedure.TypeArgument.String() {
			resp.Bindings[i].Value = nil
		}
	}
	if !def.Modified.IsZero() {
		resp.Modified = def.Modified.UTC().Format(time.RFC3339)
	}
	return resp
}

// Health status values.
const (
	HealthOK       = "ok"
	HealthReady    = "ready"
	HealthNotReady = "not_ready"
)

// HealthResponse is the body of the liveness and readiness endpoints. Pools
// maps each probed connection pool to "ok" or its failure message.
type HealthResponse struct {
	Status string            `json:"status"`
	Pools  map[string]string `json:"pools,omitempty"`
}

// ToHealthResponse converts readiness check results. The response is ready
// only when every pool is healthy.
func ToHealthResponse(results map[string]error) (HealthResponse, bool) {
	resp := HealthResponse{Status: HealthReady, Pools: make(map[string]string, len(results))}
	healthy := true
	for name, err := range results {
		if err != nil {
			resp.Pools[name] = err.Error()
			healthy = false
			continue
		}
		resp.Pools[name] = HealthOK
	}
	if !healthy {
		resp.Status = HealthNotReady
	}
	return resp, healthy
}
