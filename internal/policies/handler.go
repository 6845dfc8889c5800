package policies

import (
	"log/slog"
	"net/http"

	"github.com/JaimeStill/claimflow/pkg/handlers"
	"github.com/JaimeStill/claimflow/pkg/routes"
)

// Handler exposes read-only policy endpoints.
type Handler struct {
	lookup Lookup
	logger *slog.Logger
}

// NewHandler creates a Handler over lookup.
func NewHandler(lookup Lookup, logger *slog.Logger) *Handler {
	return &Handler{
		lookup: lookup,
		logger: logger.With("handler", "policies"),
	}
}

// Routes returns the policy route group.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/policies",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find},
		},
	}
}

// List returns every policy.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.lookup.List(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, list)
}

// Find returns one policy by id.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	p, err := h.lookup.Find(r.Context(), r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, p)
}
