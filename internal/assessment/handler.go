package assessment

import (
	"log/slog"
	"net/http"

	"github.com/JaimeStill/claimflow/pkg/handlers"
	"github.com/JaimeStill/claimflow/pkg/routes"
)

// Handler exposes the estimator as a standalone tool endpoint.
type Handler struct {
	estimator     Estimator
	logger        *slog.Logger
	maxUploadSize int64
}

// NewHandler creates a Handler accepting images up to maxUploadSize bytes.
func NewHandler(estimator Estimator, logger *slog.Logger, maxUploadSize int64) *Handler {
	return &Handler{
		estimator:     estimator,
		logger:        logger.With("handler", "assessment"),
		maxUploadSize: maxUploadSize,
	}
}

// Routes returns the assessment tool route group.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/tools",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/assess", Handler: h.Assess},
		},
	}
}

// Assess estimates damage for a multipart "image" upload.
func (h *Handler) Assess(w http.ResponseWriter, r *http.Request) {
	if err := handlers.ParseUpload(w, r, h.maxUploadSize); err != nil {
		handlers.RespondError(w, h.logger, handlers.UploadStatus(err), err)
		return
	}

	image, err := handlers.FormFile(r, "image")
	if err != nil {
		handlers.RespondError(w, h.logger, handlers.UploadStatus(err), err)
		return
	}

	a, err := h.estimator.Assess(r.Context(), image)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, a)
}
