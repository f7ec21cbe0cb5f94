// Package http is the inbound HTTP adapter: routing and server lifecycle.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jsamuelsen11/rapidcontext/internal/adapters/http/dto"
	"github.com/jsamuelsen11/rapidcontext/internal/adapters/http/handlers"
	"github.com/jsamuelsen11/rapidcontext/internal/domain/procedure"
)

// NewRouter registers the health probes and the /rapidcontext API behind
// middlewares, applied outermost first. Unknown routes answer with a
// not-found problem response.
func NewRouter(
	procedures *handlers.ProcedureHandler,
	health *handlers.HealthHandler,
	middlewares ...func(http.Handler) http.Handler,
) http.Handler {
	r := chi.NewRouter()
	r.Use(middlewares...)
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		dto.WriteErrorResponse(w, r, procedure.Errorf(procedure.ErrNotFound, "no route for %s", r.URL.Path))
	})

	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	r.Route("/rapidcontext", func(r chi.Router) {
		r.Get("/procedures", procedures.ListProcedures)
		r.Get("/procedures/{name}", procedures.GetProcedure)
		r.Post("/procedure/{name}", procedures.CallProcedure)
	})
	return r
}
