package leave

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOverlapDays(t *testing.T) {
	d := func(y int, m time.Month, day int) time.Time { return time.Date(y, m, day, 0, 0, 0, 0, time.UTC) }

	tests := []struct {
		name         string
		startA, endA time.Time
		startB, endB time.Time
		expected     int
	}{
		{"across the new year", d(2023, 12, 31), d(2024, 1, 2), d(2024, 1, 1), d(2024, 1, 1), 1},
		{"same single day", d(2024, 3, 4), d(2024, 3, 4), d(2024, 3, 4), d(2024, 3, 4), 1},
		{"partial", d(2024, 3, 4), d(2024, 3, 8), d(2024, 3, 6), d(2024, 3, 12), 3},
		{"contained", d(2024, 3, 1), d(2024, 3, 31), d(2024, 3, 10), d(2024, 3, 11), 2},
		{"touching ends", d(2024, 3, 4), d(2024, 3, 5), d(2024, 3, 5), d(2024, 3, 9), 1},
		{"disjoint", d(2024, 3, 4), d(2024, 3, 5), d(2024, 3, 7), d(2024, 3, 9), -1},
		{"adjacent", d(2024, 3, 4), d(2024, 3, 5), d(2024, 3, 6), d(2024, 3, 9), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, OverlapDays(tt.startA, tt.endA, tt.startB, tt.endB))
			assert.Equal(t, tt.expected, OverlapDays(tt.startB, tt.endB, tt.startA, tt.endA))
		})
	}
}

func TestOverlapDays_IgnoresTimeOfDay(t *testing.T) {
	start := time.Date(2024, 3, 4, 23, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 5, 1, 0, 0, 0, time.UTC)
	day := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 1, OverlapDays(start, end, day, day))
}
