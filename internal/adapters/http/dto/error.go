package dto

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/jsamuelsen11/rapidcontext/internal/domain/procedure"
)

// ErrorResponse represents an RFC 9457 Problem Details response. Procedure
// is an extension member naming the procedure that raised the error.
type ErrorResponse struct {
	Type      string `json:"type"`
	Title     string `json:"title"`
	Status    int    `json:"status"`
	Detail    string `json:"detail,omitempty"`
	Instance  string `json:"instance,omitempty"`
	Procedure string `json:"procedure,omitempty"`
}

// NewErrorResponse creates an RFC 9457 ErrorResponse from a procedure error.
// The request is used to populate the instance field with the request URI.
func NewErrorResponse(r *http.Request, err error) ErrorResponse {
	status := ErrorStatus(err)

	resp := ErrorResponse{
		Type:     "about:blank",
		Title:    http.StatusText(status),
		Status:   status,
		Detail:   err.Error(),
		Instance: r.RequestURI,
	}

	var perr *procedure.Error
	if errors.As(err, &perr) {
		resp.Procedure = perr.Procedure
	}

	return resp
}

// WriteErrorResponse writes an RFC 9457 error response for the given error.
// It sets the Content-Type to application/problem+json, writes the
// appropriate HTTP status code, and marshals the error body as JSON.
func WriteErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	resp := NewErrorResponse(r, err)

	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(resp.Status)

	if encErr := json.NewEncoder(w).Encode(resp); encErr != nil {
		slog.ErrorContext(r.Context(), "failed to encode error response",
			slog.Any("error", encErr),
		)
	}
}

// ErrorStatus maps procedure error kinds to HTTP status codes.
func ErrorStatus(err error) int {
	switch {
	case errors.Is(err, procedure.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, procedure.ErrArgument), errors.Is(err, procedure.ErrBinding):
		return http.StatusBadRequest
	case errors.Is(err, procedure.ErrInterrupted):
		return http.StatusServiceUnavailable
	case errors.Is(err, procedure.ErrReservation):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
