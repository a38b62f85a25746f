package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDuplicateNameErrorMessage(t *testing.T) {
	err := NewDuplicateNameError("Server", "builder")
	assert.Equal(t, "More than one Server exists with the name 'builder'", err.Error())
	assert.ErrorIs(t, err, ErrDuplicateName)
}

func TestIsDuplicateName(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			name:     "typed error",
			err:      NewDuplicateNameError("Image", "base"),
			expected: true,
		},
		{
			name:     "wrapped typed error",
			err:      fmt.Errorf("cleanup: %w", NewDuplicateNameError("Cluster", "c1")),
			expected: true,
		},
		{
			name:     "provider wording, multiple matches",
			err:      fmt.Errorf("Multiple matches found for 'builder'"),
			expected: true,
		},
		{
			name:     "provider wording, more than one",
			err:      fmt.Errorf("More than one Volume exists with the name 'data'"),
			expected: true,
		},
		{
			name:     "unrelated error",
			err:      fmt.Errorf("quota exceeded"),
			expected: false,
		},
		{
			name:     "nil",
			err:      nil,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsDuplicateName(tt.err))
		})
	}
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(ErrNotFound))
	assert.True(t, IsNotFound(fmt.Errorf("volume: %w", ErrNotFound)))
	assert.True(t, IsNotFound(NewHTTPError(http.StatusNotFound, http.MethodGet, "http://x", "")))
	assert.False(t, IsNotFound(NewHTTPError(http.StatusBadGateway, http.MethodGet, "http://x", "")))
	assert.False(t, IsNotFound(nil))
}

func TestHTTPErrorStatusMatching(t *testing.T) {
	err := NewHTTPError(http.StatusForbidden, http.MethodPut, "http://x", "denied")
	assert.True(t, IsUnauthorized(err))
	assert.True(t, IsHTTPStatus(err, http.StatusForbidden))
	assert.False(t, IsHTTPStatus(err, http.StatusNotFound))
}

func TestUnsupportedError(t *testing.T) {
	err := NewUnsupportedError("vex", "COE cluster operations", "no container-infra endpoint in the service catalog")
	assert.True(t, IsUnsupported(err))
	assert.Contains(t, err.Error(), "vex")
	assert.Contains(t, err.Error(), "container-infra")
}

func TestCloudErrorUnwraps(t *testing.T) {
	inner := fmt.Errorf("connection refused")
	err := NewCloudError("vex", "server listing", inner)
	assert.ErrorIs(t, err, inner)
	assert.Contains(t, err.Error(), "vex")
	assert.Contains(t, err.Error(), "server listing")
}
