package payout

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/claimflow/internal/assessment"
	"github.com/JaimeStill/claimflow/internal/policies"
)

var (
	ErrInvalidAmount  = errors.New("invalid amount")
	ErrInvalidRequest = errors.New("invalid payout request")
)

// MapHTTPStatus maps payout errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrInvalidAmount),
		errors.Is(err, ErrInvalidRequest),
		errors.Is(err, assessment.ErrInvalidDamageType):
		return http.StatusBadRequest
	case errors.Is(err, policies.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
