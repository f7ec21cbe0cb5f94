package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/jsamuelsen11/rapidcontext/internal/adapters/http/dto"
	"github.com/jsamuelsen11/rapidcontext/internal/domain/procedure"
	"github.com/jsamuelsen11/rapidcontext/internal/platform/logging"
)

// maxBodyBytes caps request bodies at 1 MiB.
const maxBodyBytes = 1 << 20

// writeJSON encodes v as the response body. Encoding failures happen after
// the status line is sent and can only be logged.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.FromContext(r.Context()).ErrorContext(r.Context(), "failed to encode response",
			slog.String("path", r.URL.Path),
			slog.Any("error", err),
		)
	}
}

type validatable interface {
	Validate() error
}

// decodeAndValidate reads a JSON body into dst and validates it. An empty
// body leaves dst untouched. On failure an argument problem is written and
// false returned.
func decodeAndValidate[T validatable](w http.ResponseWriter, r *http.Request, dst T) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			dto.WriteErrorResponse(w, r, procedure.Errorf(procedure.ErrArgument,
				"request body exceeds %d bytes", tooLarge.Limit))
			return false
		}
		dto.WriteErrorResponse(w, r, procedure.Errorf(procedure.ErrArgument, "invalid JSON body"))
		return false
	}
	if err := dst.Validate(); err != nil {
		dto.WriteErrorResponse(w, r, err)
		return false
	}
	return true
}
