package handlers

import (
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jsamuelsen11/rapidcontext/internal/adapters/http/dto"
	"github.com/jsamuelsen11/rapidcontext/internal/domain/procedure"
	"github.com/jsamuelsen11/rapidcontext/internal/ports"
)

// ProcedureHandler handles the procedure call and introspection endpoints.
type ProcedureHandler struct {
	service ports.ProcedureService
}

// NewProcedureHandler creates a new ProcedureHandler with the given service.
func NewProcedureHandler(service ports.ProcedureService) *ProcedureHandler {
	return &ProcedureHandler{service: service}
}

// ListProcedures handles GET /rapidcontext/procedures.
func (h *ProcedureHandler) ListProcedures(w http.ResponseWriter, r *http.Request) {
	names, err := h.service.List(r.Context())
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.ToProcedureListResponse(names))
}

// GetProcedure handles GET /rapidcontext/procedures/{name}.
func (h *ProcedureHandler) GetProcedure(w http.ResponseWriter, r *http.Request) {
	def, err := h.service.Describe(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.ToProcedureResponse(def))
}

// CallProcedure handles POST /rapidcontext/procedure/{name}. Arguments come
// from a JSON body or from form fields. Procedure failures are returned in
// the 200 response envelope; only request and resolution errors produce a
// problem response.
func (h *ProcedureHandler) CallProcedure(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeCall(w, r)
	if !ok {
		return
	}

	res, err := h.service.Call(r.Context(), chi.URLParam(r, "name"), req.Args, req.Trace)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.ToCallResponse(res))
}

func (h *ProcedureHandler) decodeCall(w http.ResponseWriter, r *http.Request) (*dto.CallRequest, bool) {
	req := &dto.CallRequest{Args: []any{}}
	if isJSON(r) {
		if !decodeAndValidate(w, r, req) {
			return nil, false
		}
		if req.Args == nil {
			req.Args = []any{}
		}
		return req, true
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		dto.WriteErrorResponse(w, r, procedure.Errorf(procedure.ErrArgument, "invalid form body"))
		return nil, false
	}
	req, err := dto.CallRequestFromForm(r.Form)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return nil, false
	}
	return req, true
}

// isJSON reports whether the request body is declared as JSON.
func isJSON(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "application/json"
}
