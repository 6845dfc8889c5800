package repository_test

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/JaimeStill/claimflow/pkg/repository"
)

var errNotFound = errors.New("not found")

func TestMapError(t *testing.T) {
	other := errors.New("connection refused")

	tests := []struct {
		name string
		in   error
		want error
	}{
		{"nil", nil, nil},
		{"no rows", sql.ErrNoRows, errNotFound},
		{"wrapped no rows", errors.Join(errors.New("scan"), sql.ErrNoRows), errNotFound},
		{"passthrough", other, other},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := repository.MapError(tt.in, errNotFound); !errors.Is(got, tt.want) && got != tt.want {
				t.Errorf("MapError(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
