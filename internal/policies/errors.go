package policies

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound      = errors.New("policy not found")
	ErrInvalidPolicy = errors.New("invalid policy")
)

// MapHTTPStatus maps policy errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
