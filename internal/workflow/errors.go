package workflow

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/claimflow/internal/assessment"
	"github.com/JaimeStill/claimflow/internal/payout"
)

var (
	ErrInvalidInput   = errors.New("invalid claim request")
	ErrPolicyNotFound = errors.New("policy not found")
	ErrEstimateFailed = errors.New("damage estimate failed")
	ErrPayoutFailed   = errors.New("payout calculation failed")
	ErrDocumentFailed = errors.New("offer document failed")
)

// MapHTTPStatus maps pipeline errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrInvalidInput),
		errors.Is(err, assessment.ErrEmptyImage),
		errors.Is(err, payout.ErrInvalidAmount):
		return http.StatusBadRequest
	case errors.Is(err, ErrPolicyNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
