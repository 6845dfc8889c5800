package claims

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/JaimeStill/claimflow/internal/offers"
	"github.com/JaimeStill/claimflow/internal/workflow"
	"github.com/JaimeStill/claimflow/pkg/handlers"
	"github.com/JaimeStill/claimflow/pkg/pagination"
	"github.com/JaimeStill/claimflow/pkg/routes"
)

// Handler provides HTTP endpoints for claim operations.
type Handler struct {
	sys           System
	logger        *slog.Logger
	pagination    pagination.Config
	maxUploadSize int64
}

// NewHandler creates a Handler accepting images up to maxUploadSize bytes.
func NewHandler(
	sys System,
	logger *slog.Logger,
	pagination pagination.Config,
	maxUploadSize int64,
) *Handler {
	return &Handler{
		sys:           sys,
		logger:        logger.With("handler", "claims"),
		pagination:    pagination,
		maxUploadSize: maxUploadSize,
	}
}

// Routes returns the route group definition for claim endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/claims",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "POST", Pattern: "", Handler: h.Submit},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find},
			{Method: "GET", Pattern: "/{id}/document", Handler: h.Document},
		},
	}
}

// Submit processes a multipart claim: policy_id, image, and an optional email.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	if err := handlers.ParseUpload(w, r, h.maxUploadSize); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	image, err := handlers.FormFile(r, "image")
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	claim, err := h.sys.Process(r.Context(), workflow.Request{
		PolicyID: r.FormValue("policy_id"),
		Image:    image,
		Email:    r.FormValue("email"),
	})
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, claim)
}

// List returns a page of the claims processed since startup.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)

	claims, err := h.sys.List(r.Context(), page)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, claims)
}

// Find returns a single claim by its UUID path parameter.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	claim, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, claim)
}

// Document streams the claim's offer letter as a PDF.
func (h *Handler) Document(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	data, err := h.sys.Document(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, offers.MapHTTPStatus(err), err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set(
		"Content-Disposition",
		fmt.Sprintf("inline; filename=%q", "offer-"+id.String()+".pdf"),
	)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func parseID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s", ErrInvalidID, r.PathValue("id"))
	}
	return id, nil
}
