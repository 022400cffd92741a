package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatDate(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"2025-06-01", "1. jun 2025."},
		{"2025-01-15", "15. januar 2025."},
		{"2024-12-31", "31. decembar 2024."},
		{"2025-09-05", "5. septembar 2025."},
		{"", ""},
		{"not-a-date", "not-a-date"},
		{"2025-13-01", "2025-13-01"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatDate(tt.input), "input %q", tt.input)
	}
}
