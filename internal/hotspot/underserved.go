package hotspot

import (
	"math"
	"sort"

	"github.com/sportsbuddy/sportsbuddy/internal/geo"
	"github.com/sportsbuddy/sportsbuddy/internal/models"
)

// Scan parameters for the underserved-area grid. The cell size is an
// equatorial approximation of 5km, which is close enough for ranking
// candidate cells.
const (
	gridStepDegrees      = 0.045
	playerSearchRadiusKm = 5.0
	minPotentialPlayers  = 10
	minVenueDistanceKm   = 10.0
	maxUnderservedAreas  = 10
)

// UnderservedArea is a grid cell with enough players but no venue nearby
type UnderservedArea struct {
	Location         Location `json:"location"`
	PotentialPlayers int      `json:"potential_players"`
	NearestVenueKm   float64  `json:"nearest_venue_km"`
	OpportunityScore float64  `json:"opportunity_score"`
}

// FindUnderservedAreas scans a grid over the users' bounding box and keeps
// cells with at least 10 players within 5km whose nearest venue is more
// than 10km away. Returns the top 10 by opportunity score. The linear scans
// are acceptable because this runs offline over a bounded sample.
func FindUnderservedAreas(users []models.User, venues []models.Venue) []UnderservedArea {
	if len(users) == 0 {
		return []UnderservedArea{}
	}

	latMin, latMax := users[0].Latitude, users[0].Latitude
	lngMin, lngMax := users[0].Longitude, users[0].Longitude
	for _, u := range users {
		latMin = math.Min(latMin, u.Latitude)
		latMax = math.Max(latMax, u.Latitude)
		lngMin = math.Min(lngMin, u.Longitude)
		lngMax = math.Max(lngMax, u.Longitude)
	}

	areas := make([]UnderservedArea, 0)
	for lat := latMin; lat < latMax; lat += gridStepDegrees {
		for lng := lngMin; lng < lngMax; lng += gridStepDegrees {
			nearby := countNearbyPlayers(users, lat, lng, playerSearchRadiusKm)
			if nearby < minPotentialPlayers {
				continue
			}

			venueKm := nearestVenueDistance(lat, lng, venues)
			if venueKm <= minVenueDistanceKm {
				continue
			}

			areas = append(areas, UnderservedArea{
				Location:         Location{Latitude: lat, Longitude: lng},
				PotentialPlayers: nearby,
				NearestVenueKm:   venueKm,
				OpportunityScore: float64(nearby) / math.Max(1, venueKm) * 10,
			})
		}
	}

	sort.SliceStable(areas, func(i, j int) bool {
		return areas[i].OpportunityScore > areas[j].OpportunityScore
	})

	if len(areas) > maxUnderservedAreas {
		areas = areas[:maxUnderservedAreas]
	}
	return areas
}

func countNearbyPlayers(users []models.User, lat, lng, radiusKm float64) int {
	count := 0
	for _, u := range users {
		if geo.DistanceKm(lat, lng, u.Latitude, u.Longitude) <= radiusKm {
			count++
		}
	}
	return count
}

// nearestVenueDistance returns +Inf when no venues exist, which the caller
// treats as "everything is far away"
func nearestVenueDistance(lat, lng float64, venues []models.Venue) float64 {
	if len(venues) == 0 {
		return math.Inf(1)
	}
	minDistance := math.Inf(1)
	for _, v := range venues {
		d := geo.DistanceKm(lat, lng, v.Latitude, v.Longitude)
		if d < minDistance {
			minDistance = d
		}
	}
	return minDistance
}
