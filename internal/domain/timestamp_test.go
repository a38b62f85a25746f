package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCreated(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Time
		wantErr  bool
	}{
		{
			name:     "compute and image timestamp",
			input:    "2025-01-02T03:04:05Z",
			expected: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		},
		{
			name:     "block storage timestamp with microseconds",
			input:    "2025-01-02T03:04:05.123456",
			expected: time.Date(2025, 1, 2, 3, 4, 5, 123456000, time.UTC),
		},
		{
			name:    "empty timestamp",
			input:   "",
			wantErr: true,
		},
		{
			name:    "numeric offset instead of zulu",
			input:   "2025-01-02T03:04:05+02:00",
			wantErr: true,
		},
		{
			name:    "garbage",
			input:   "last tuesday",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCreated(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.expected), "got %v, want %v", got, tt.expected)
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}

func TestReformatCreatedRoundTrips(t *testing.T) {
	inputs := []string{
		"2025-01-02T03:04:05Z",
		"2024-12-31T23:59:59Z",
		"2025-01-02T03:04:05.123456",
		"2025-01-02T03:04:05.000000",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			got, err := ReformatCreated(input)
			require.NoError(t, err)
			assert.Equal(t, input, got)
		})
	}
}

func TestReformatCreatedRejectsUnknownLayouts(t *testing.T) {
	_, err := ReformatCreated("2025-01-02 03:04:05")
	assert.Error(t, err)
}
