package claims

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/claimflow/internal/offers"
	"github.com/JaimeStill/claimflow/internal/workflow"
	"github.com/JaimeStill/claimflow/pkg/handlers"
)

// Domain errors for claim operations.
var (
	ErrNotFound  = errors.New("claim not found")
	ErrInvalidID = errors.New("invalid claim id")
)

// MapHTTPStatus maps claim, upload, and pipeline errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, offers.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidID):
		return http.StatusBadRequest
	case errors.Is(err, handlers.ErrFileTooLarge),
		errors.Is(err, handlers.ErrMissingFile),
		errors.Is(err, handlers.ErrInvalidForm):
		return handlers.UploadStatus(err)
	default:
		return workflow.MapHTTPStatus(err)
	}
}
