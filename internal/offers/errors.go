package offers

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/claimflow/pkg/storage"
)

var (
	ErrNotFound       = errors.New("offer document not found")
	ErrDocumentFailed = errors.New("offer document generation failed")

	errUnreadable = errors.New("stored offer letter is unreadable")
)

// MapHTTPStatus maps offer retrieval errors to HTTP status codes. Failures
// from the blob store fall through to storage.MapHTTPStatus.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	return storage.MapHTTPStatus(err)
}
