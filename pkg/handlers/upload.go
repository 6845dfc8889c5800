package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
)

// Upload errors.
var (
	ErrFileTooLarge = errors.New("upload exceeds maximum size")
	ErrMissingFile  = errors.New("upload file missing")
	ErrInvalidForm  = errors.New("invalid multipart form")
)

// ParseUpload parses a multipart body capped at maxSize bytes.
func ParseUpload(w http.ResponseWriter, r *http.Request, maxSize int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return fmt.Errorf("%w: limit %d bytes", ErrFileTooLarge, tooLarge.Limit)
		}
		return fmt.Errorf("%w: %v", ErrInvalidForm, err)
	}
	return nil
}

// FormFile reads the named file part of a parsed multipart form.
// An empty part is reported as ErrMissingFile.
func FormFile(r *http.Request, field string) ([]byte, error) {
	file, _, err := r.FormFile(field)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingFile, field)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", field, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingFile, field)
	}
	return data, nil
}

// UploadStatus maps upload errors to HTTP status codes.
func UploadStatus(err error) int {
	switch {
	case errors.Is(err, ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrMissingFile), errors.Is(err, ErrInvalidForm):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
