package storage

import (
	"context"
	"errors"
	"net/http"
)

// Sentinel errors shared by every provider.
var (
	ErrNotFound   = errors.New("blob not found")
	ErrEmptyKey   = errors.New("empty storage key")
	ErrInvalidKey = errors.New("storage key escapes its container")
)

// MapHTTPStatus maps a storage failure to the status a handler serving blobs
// should respond with. An expired deadline maps to 504.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrEmptyKey), errors.Is(err, ErrInvalidKey):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
