package hotspot

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sportsbuddy/sportsbuddy/internal/models"
)

func clusterUser(id uint, lat, lng float64, sport, skill, city string, age int) models.User {
	return models.User{
		ID:         id,
		Name:       fmt.Sprintf("User %d", id),
		Sport:      sport,
		SkillLevel: skill,
		City:       city,
		Age:        age,
		Latitude:   lat,
		Longitude:  lng,
		Rating:     4.0,
	}
}

// makePopulation scatters count users around a center point
func makePopulation(startID uint, count int, lat, lng, spread float64, sport, city string) []models.User {
	rng := rand.New(rand.NewSource(int64(startID)))
	users := make([]models.User, 0, count)
	for i := 0; i < count; i++ {
		users = append(users, clusterUser(
			startID+uint(i),
			lat+rng.NormFloat64()*spread,
			lng+rng.NormFloat64()*spread,
			sport, models.SkillIntermediate, city, 20+rng.Intn(25),
		))
	}
	return users
}

func TestDetectHotspotsDropsSmallClusters(t *testing.T) {
	// Three users at one point, two users 500km away: the pair is below the
	// minimum cluster size and must vanish entirely.
	users := []models.User{
		clusterUser(1, 19.0760, 72.8777, "Cricket", models.SkillIntermediate, "Mumbai", 25),
		clusterUser(2, 19.0760, 72.8777, "Cricket", models.SkillIntermediate, "Mumbai", 27),
		clusterUser(3, 19.0760, 72.8777, "Cricket", models.SkillAdvanced, "Mumbai", 30),
		clusterUser(4, 23.5, 74.5, "Football", models.SkillBeginner, "Udaipur", 22),
		clusterUser(5, 23.5, 74.5, "Football", models.SkillBeginner, "Udaipur", 23),
	}

	hotspots := DetectHotspots(users, Config{Clusters: 2, MinClusterSize: 3})

	require.Len(t, hotspots, 1)
	assert.Equal(t, 3, hotspots[0].TotalPlayers)
	assert.InDelta(t, 0.0, hotspots[0].RadiusKm, 0.01)
	assert.Equal(t, 100.0, hotspots[0].DensityScore)
	assert.Equal(t, "Mumbai Cricket Hub", hotspots[0].SuggestedName)
	assert.InDelta(t, 19.0760, hotspots[0].Location.Latitude, 1e-6)
	assert.InDelta(t, 72.8777, hotspots[0].Location.Longitude, 1e-6)
}

func TestDetectHotspotsCharacteristics(t *testing.T) {
	users := append(
		makePopulation(1, 40, 19.0760, 72.8777, 0.01, "Cricket", "Mumbai"),
		makePopulation(100, 25, 28.7041, 77.1025, 0.01, "Football", "Delhi")...,
	)

	hotspots := DetectHotspots(users, Config{Clusters: 2, MinClusterSize: 3})
	require.Len(t, hotspots, 2)

	// Sorted by population descending
	assert.Equal(t, 40, hotspots[0].TotalPlayers)
	assert.Equal(t, 25, hotspots[1].TotalPlayers)
	assert.Equal(t, "Mumbai Cricket Hub", hotspots[0].SuggestedName)
	assert.Equal(t, "Delhi Football Hub", hotspots[1].SuggestedName)

	for _, h := range hotspots {
		// Percentages sum to 100 within rounding error
		sportTotal := 0.0
		memberTotal := 0
		for _, entry := range h.SportsDistribution {
			sportTotal += entry.Percentage
			memberTotal += entry.Count
		}
		assert.InDelta(t, 100.0, sportTotal, 0.5)
		assert.Equal(t, h.TotalPlayers, memberTotal)

		skillTotal := 0.0
		for _, entry := range h.SkillDistribution {
			skillTotal += entry.Percentage
		}
		assert.InDelta(t, 100.0, skillTotal, 0.5)

		assert.LessOrEqual(t, h.AgeRange.Min, h.AgeRange.Max)
		assert.GreaterOrEqual(t, h.AgeRange.Avg, float64(h.AgeRange.Min))
		assert.LessOrEqual(t, h.AgeRange.Avg, float64(h.AgeRange.Max))
		assert.GreaterOrEqual(t, h.DensityScore, 0.0)
		assert.LessOrEqual(t, h.DensityScore, 100.0)
		assert.GreaterOrEqual(t, h.RadiusKm, 0.0)
		assert.GreaterOrEqual(t, h.TotalPlayers, 3)
		assert.NotEmpty(t, h.PeakTimes.Weekday)
		assert.NotEmpty(t, h.PeakTimes.PreferredDays)
	}
}

func TestDetectHotspotsDeterministic(t *testing.T) {
	users := append(
		makePopulation(1, 30, 19.0760, 72.8777, 0.02, "Cricket", "Mumbai"),
		makePopulation(100, 30, 12.9716, 77.5946, 0.02, "Badminton", "Bangalore")...,
	)

	first := DetectHotspots(users, Config{Clusters: 5, MinClusterSize: 3})
	second := DetectHotspots(users, Config{Clusters: 5, MinClusterSize: 3})

	assert.Equal(t, first, second)
}

func TestDetectHotspotsDegenerateInputs(t *testing.T) {
	assert.Empty(t, DetectHotspots(nil, DefaultConfig()))
	assert.Empty(t, DetectHotspots([]models.User{}, DefaultConfig()))

	// Fewer points than clusters: k clamps, small clusters drop
	users := []models.User{
		clusterUser(1, 19.0, 72.8, "Cricket", models.SkillIntermediate, "Mumbai", 25),
		clusterUser(2, 28.7, 77.1, "Football", models.SkillBeginner, "Delhi", 30),
	}
	hotspots := DetectHotspots(users, Config{Clusters: 20, MinClusterSize: 3})
	assert.Empty(t, hotspots)
}

func TestPeakTimesBuckets(t *testing.T) {
	tests := []struct {
		avgAge  float64
		weekday string
	}{
		{22, "18:00-21:00"},
		{25, "06:00-08:00, 19:00-21:00"},
		{34.9, "06:00-08:00, 19:00-21:00"},
		{35, "06:00-09:00"},
		{50, "06:00-09:00"},
	}

	for _, tt := range tests {
		got := peakTimesForAge(tt.avgAge)
		assert.Equal(t, tt.weekday, got.Weekday, "avg age %.1f", tt.avgAge)
	}
}

func TestStandardize(t *testing.T) {
	points := [][2]float64{{10, 100}, {20, 200}, {30, 300}}
	scaled := standardize(points)

	require.Len(t, scaled, 3)
	// Zero mean
	var mean [2]float64
	for _, p := range scaled {
		mean[0] += p[0]
		mean[1] += p[1]
	}
	assert.InDelta(t, 0, mean[0]/3, 1e-9)
	assert.InDelta(t, 0, mean[1]/3, 1e-9)

	// Constant column stays finite
	constant := standardize([][2]float64{{5, 1}, {5, 2}, {5, 3}})
	for _, p := range constant {
		assert.False(t, p[0] != p[0], "NaN in standardized output")
	}
}

func TestKmeansSeparatesDistantGroups(t *testing.T) {
	var points [][2]float64
	for i := 0; i < 10; i++ {
		points = append(points, [2]float64{19.0 + float64(i)*0.001, 72.8})
	}
	for i := 0; i < 10; i++ {
		points = append(points, [2]float64{28.7 + float64(i)*0.001, 77.1})
	}

	labels := kmeans(standardize(points), 2)
	require.Len(t, labels, 20)

	// All of the first group shares one label, all of the second the other
	for i := 1; i < 10; i++ {
		assert.Equal(t, labels[0], labels[i])
	}
	for i := 11; i < 20; i++ {
		assert.Equal(t, labels[10], labels[i])
	}
	assert.NotEqual(t, labels[0], labels[10])
}
