package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceKm(t *testing.T) {
	tests := []struct {
		name       string
		lat1, lon1 float64
		lat2, lon2 float64
		expected   float64
		tolerance  float64
	}{
		{
			name: "Same point is zero",
			lat1: 19.0760, lon1: 72.8777,
			lat2: 19.0760, lon2: 72.8777,
			expected: 0, tolerance: 0.0001,
		},
		{
			name: "Mumbai to Delhi",
			lat1: 19.0760, lon1: 72.8777,
			lat2: 28.7041, lon2: 77.1025,
			expected: 1153, tolerance: 15,
		},
		{
			name: "Short hop within Mumbai",
			lat1: 19.0760, lon1: 72.8777,
			lat2: 19.0822, lon2: 72.8812,
			expected: 0.78, tolerance: 0.05,
		},
		{
			name: "Across the equator",
			lat1: 1.0, lon1: 10.0,
			lat2: -1.0, lon2: 10.0,
			expected: 222.4, tolerance: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DistanceKm(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			assert.InDelta(t, tt.expected, got, tt.tolerance)
			assert.GreaterOrEqual(t, got, 0.0)
		})
	}
}

func TestDistanceKmSymmetric(t *testing.T) {
	pairs := [][4]float64{
		{19.0760, 72.8777, 28.7041, 77.1025},
		{12.9716, 77.5946, 13.0827, 80.2707},
		{-33.8688, 151.2093, 51.5074, -0.1278},
	}

	for _, p := range pairs {
		ab := DistanceKm(p[0], p[1], p[2], p[3])
		ba := DistanceKm(p[2], p[3], p[0], p[1])
		assert.InDelta(t, ab, ba, 1e-9)
	}
}
