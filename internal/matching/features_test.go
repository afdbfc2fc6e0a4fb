package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sportsbuddy/sportsbuddy/internal/models"
)

func availability(days []string, timeRange string) models.Availability {
	return models.Availability{Days: days, TimeRange: timeRange}
}

func TestAvailabilityOverlap(t *testing.T) {
	tests := []struct {
		name     string
		a, b     models.Availability
		expected float64
	}{
		{
			name:     "Both missing gives neutral default",
			a:        availability(nil, ""),
			b:        availability(nil, ""),
			expected: 0.5,
		},
		{
			name:     "One side missing gives neutral default",
			a:        availability([]string{"Mon", "Wed"}, "18:00-20:00"),
			b:        availability(nil, ""),
			expected: 0.5,
		},
		{
			name:     "No common days",
			a:        availability([]string{"Mon", "Wed"}, "18:00-20:00"),
			b:        availability([]string{"Tue", "Thu"}, "18:00-20:00"),
			expected: 0.0,
		},
		{
			name:     "Identical days and time",
			a:        availability([]string{"Mon", "Wed", "Fri"}, "18:00-20:00"),
			b:        availability([]string{"Mon", "Wed", "Fri"}, "18:00-20:00"),
			expected: 1.0,
		},
		{
			name: "Partial days, overlapping windows",
			// 2 of max(3,3) common days = 2/3; windows overlap = 0.5
			a:        availability([]string{"Mon", "Wed", "Fri"}, "18:00-20:00"),
			b:        availability([]string{"Wed", "Fri", "Sat"}, "17:00-19:00"),
			expected: (2.0/3.0 + 0.5) / 2,
		},
		{
			name: "Common days, disjoint windows",
			a:        availability([]string{"Sat", "Sun"}, "06:00-08:00"),
			b:        availability([]string{"Sat", "Sun"}, "18:00-20:00"),
			expected: (1.0 + 0.0) / 2,
		},
		{
			name: "Malformed time counts as no time overlap",
			a:        availability([]string{"Sat"}, "whenever"),
			b:        availability([]string{"Sat"}, "18:00-20:00"),
			expected: (1.0 + 0.0) / 2,
		},
		{
			name: "Touching boundaries overlap inclusively",
			a:        availability([]string{"Sat"}, "16:00-18:00"),
			b:        availability([]string{"Sat"}, "18:00-20:00"),
			expected: (1.0 + 0.5) / 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := availabilityOverlap(tt.a, tt.b)
			assert.InDelta(t, tt.expected, got, 1e-9)
		})
	}
}

func TestParseTimeRange(t *testing.T) {
	tests := []struct {
		input      string
		start, end int
		ok         bool
	}{
		{"18:00-20:00", 1080, 1200, true},
		{"06:30-08:15", 390, 495, true},
		{"18:00", 0, 0, false},
		{"18-20", 0, 0, false},
		{"aa:bb-cc:dd", 0, 0, false},
		{"", 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			start, end, ok := parseTimeRange(tt.input)
			assert.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.start, start)
				assert.Equal(t, tt.end, end)
			}
		})
	}
}
