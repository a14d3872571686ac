package application

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeVisitDate(t *testing.T) {
	dp := &DateParser{}
	base := time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)

	cases := []struct {
		input string
		want  string
	}{
		{"2025-01-02", "2025-01-02"},
		{"02/01/2025", "2025-01-02"},
		{"02-01-2025", "2025-01-02"},
		{"2/1/2025", "2025-01-02"},
		{"2025-01-02T15:04:05.000Z", "2025-01-02"},
		{"", "2025-06-15"},          // vacío cae a la fecha base
		{"no es fecha", "2025-06-15"}, // ilegible cae a la fecha base
	}

	for _, tc := range cases {
		got := dp.NormalizeVisitDate(tc.input, base)
		assert.Equal(t, tc.want, got.Format("2006-01-02"), "input %q", tc.input)
	}
}
