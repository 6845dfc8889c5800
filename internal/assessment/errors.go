package assessment

import (
	"errors"
	"net/http"
)

var (
	ErrEmptyImage        = errors.New("image is empty")
	ErrInvalidDamageType = errors.New("invalid damage type")
)

// MapHTTPStatus maps assessment errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrEmptyImage) || errors.Is(err, ErrInvalidDamageType) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
