package hotspot

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sportsbuddy/sportsbuddy/internal/models"
)

func venue(id uint, lat, lng float64) models.Venue {
	return models.Venue{ID: id, Name: "Venue", Latitude: lat, Longitude: lng}
}

func TestFindUnderservedAreas(t *testing.T) {
	// Dense pocket of players far from the only venue
	users := makePopulation(1, 30, 19.50, 73.30, 0.005, "Cricket", "Nashik")
	venues := []models.Venue{venue(1, 19.0760, 72.8777)} // ~60km away

	areas := FindUnderservedAreas(users, venues)

	require.NotEmpty(t, areas)
	assert.LessOrEqual(t, len(areas), 10)
	for _, a := range areas {
		assert.GreaterOrEqual(t, a.PotentialPlayers, 10)
		assert.Greater(t, a.NearestVenueKm, 10.0)
		assert.Greater(t, a.OpportunityScore, 0.0)
	}
	// Sorted descending by opportunity
	for i := 1; i < len(areas); i++ {
		assert.GreaterOrEqual(t, areas[i-1].OpportunityScore, areas[i].OpportunityScore)
	}
}

func TestFindUnderservedAreasSkipsServedCells(t *testing.T) {
	users := makePopulation(1, 30, 19.50, 73.30, 0.005, "Cricket", "Nashik")
	// A venue right in the middle of the pocket: nothing is underserved
	venues := []models.Venue{venue(1, 19.50, 73.30)}

	areas := FindUnderservedAreas(users, venues)
	assert.Empty(t, areas)
}

func TestFindUnderservedAreasSkipsSparseCells(t *testing.T) {
	// Fewer than 10 players anywhere on the grid
	users := makePopulation(1, 5, 19.50, 73.30, 0.005, "Cricket", "Nashik")

	areas := FindUnderservedAreas(users, nil)
	assert.Empty(t, areas)
}

func TestFindUnderservedAreasNoVenues(t *testing.T) {
	users := makePopulation(1, 40, 19.50, 73.30, 0.005, "Cricket", "Nashik")

	areas := FindUnderservedAreas(users, nil)

	// With no venues every dense cell qualifies, at infinite venue distance
	require.NotEmpty(t, areas)
	for _, a := range areas {
		assert.True(t, math.IsInf(a.NearestVenueKm, 1))
		assert.Equal(t, 0.0, a.OpportunityScore)
	}
}

func TestFindUnderservedAreasEmptyPopulation(t *testing.T) {
	assert.Empty(t, FindUnderservedAreas(nil, nil))
	assert.Empty(t, FindUnderservedAreas([]models.User{}, []models.Venue{venue(1, 19, 72)}))
}
