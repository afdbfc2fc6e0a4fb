// Package hotspot clusters geolocated users into candidate venues and flags
// underserved areas. Both pipelines are pure functions over in-memory
// collections; sampling, caching and persistence live in the service layer.
package hotspot

import (
	"math"
	"sort"

	"github.com/sportsbuddy/sportsbuddy/internal/geo"
	"github.com/sportsbuddy/sportsbuddy/internal/models"
)

// Reference density (players per square km) that maps to a score of 100
const referenceDensity = 50.0

// Config tunes the detection pipeline
type Config struct {
	Clusters       int // k for the clustering pass
	MinClusterSize int // clusters below this size are dropped
}

// DefaultConfig returns the production detection settings
func DefaultConfig() Config {
	return Config{
		Clusters:       20,
		MinClusterSize: 3,
	}
}

// Location is a plain coordinate pair
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// DistributionEntry counts one category inside a cluster
type DistributionEntry struct {
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// AgeRange summarizes member ages in a cluster
type AgeRange struct {
	Min int     `json:"min"`
	Max int     `json:"max"`
	Avg float64 `json:"avg"`
}

// PeakTimes is the heuristic activity window for a cluster, keyed on its
// mean age. Derived from typical play patterns, not activity logs.
type PeakTimes struct {
	Weekday       string   `json:"weekday"`
	Weekend       string   `json:"weekend"`
	PreferredDays []string `json:"preferred_days"`
}

// Hotspot describes one detected venue cluster. The ID is scoped to a
// single detection call and carries no identity across calls.
type Hotspot struct {
	ID                 int                          `json:"id"`
	Location           Location                     `json:"location"`
	TotalPlayers       int                          `json:"total_players"`
	SportsDistribution map[string]DistributionEntry `json:"sports_distribution"`
	SkillDistribution  map[string]DistributionEntry `json:"skill_distribution"`
	AgeRange           AgeRange                     `json:"age_range"`
	City               string                       `json:"city"`
	RadiusKm           float64                      `json:"radius_km"`
	DensityScore       float64                      `json:"density_score"`
	PeakTimes          PeakTimes                    `json:"peak_times"`
	SuggestedName      string                       `json:"suggested_name"`
}

// DetectHotspots clusters users by location and characterizes each cluster
// with at least cfg.MinClusterSize members. Results are sorted by player
// count descending. Members of dropped clusters are simply excluded.
func DetectHotspots(users []models.User, cfg Config) []Hotspot {
	if len(users) == 0 || cfg.Clusters <= 0 {
		return []Hotspot{}
	}

	points := make([][2]float64, len(users))
	for i, u := range users {
		points[i] = [2]float64{u.Latitude, u.Longitude}
	}

	labels := kmeans(standardize(points), cfg.Clusters)

	byCluster := make(map[int][]models.User)
	for i, label := range labels {
		byCluster[label] = append(byCluster[label], users[i])
	}

	hotspots := make([]Hotspot, 0, len(byCluster))
	for clusterID := 0; clusterID < cfg.Clusters; clusterID++ {
		members := byCluster[clusterID]
		if len(members) < cfg.MinClusterSize {
			continue
		}

		var centerLat, centerLng float64
		for _, m := range members {
			centerLat += m.Latitude
			centerLng += m.Longitude
		}
		centerLat /= float64(len(members))
		centerLng /= float64(len(members))

		radius := clusterRadiusKm(members, centerLat, centerLng)
		city := modalValue(members, func(u models.User) string { return u.City })
		sport := modalValue(members, func(u models.User) string { return u.Sport })
		ages := ageRange(members)

		hotspots = append(hotspots, Hotspot{
			ID:                 clusterID,
			Location:           Location{Latitude: centerLat, Longitude: centerLng},
			TotalPlayers:       len(members),
			SportsDistribution: distribution(members, func(u models.User) string { return u.Sport }),
			SkillDistribution:  distribution(members, func(u models.User) string { return u.SkillLevel }),
			AgeRange:           ages,
			City:               city,
			RadiusKm:           round2(radius),
			DensityScore:       densityScore(len(members), radius),
			PeakTimes:          peakTimesForAge(ages.Avg),
			SuggestedName:      suggestedName(city, sport),
		})
	}

	sort.SliceStable(hotspots, func(i, j int) bool {
		return hotspots[i].TotalPlayers > hotspots[j].TotalPlayers
	})

	return hotspots
}

func clusterRadiusKm(members []models.User, centerLat, centerLng float64) float64 {
	maxDistance := 0.0
	for _, m := range members {
		d := geo.DistanceKm(centerLat, centerLng, m.Latitude, m.Longitude)
		if d > maxDistance {
			maxDistance = d
		}
	}
	return maxDistance
}

// densityScore normalizes players-per-square-km against the reference
// density, capped at 100. A zero radius is a single-point cluster and maxes
// out the score.
func densityScore(memberCount int, radiusKm float64) float64 {
	if radiusKm == 0 {
		return 100.0
	}
	area := math.Pi * radiusKm * radiusKm
	density := float64(memberCount) / area
	return round1(math.Min(100, density/referenceDensity*100))
}

func distribution(members []models.User, key func(models.User) string) map[string]DistributionEntry {
	counts := make(map[string]int)
	for _, m := range members {
		counts[key(m)]++
	}

	total := float64(len(members))
	dist := make(map[string]DistributionEntry, len(counts))
	for value, count := range counts {
		dist[value] = DistributionEntry{
			Count:      count,
			Percentage: round1(float64(count) / total * 100),
		}
	}
	return dist
}

func ageRange(members []models.User) AgeRange {
	minAge, maxAge, sum := members[0].Age, members[0].Age, 0
	for _, m := range members {
		if m.Age < minAge {
			minAge = m.Age
		}
		if m.Age > maxAge {
			maxAge = m.Age
		}
		sum += m.Age
	}
	return AgeRange{
		Min: minAge,
		Max: maxAge,
		Avg: round1(float64(sum) / float64(len(members))),
	}
}

// modalValue returns the most frequent non-empty value, with ties broken by
// the first value to reach the winning count. Empty when no member has one.
func modalValue(members []models.User, key func(models.User) string) string {
	counts := make(map[string]int)
	best := ""
	bestCount := 0
	for _, m := range members {
		v := key(m)
		if v == "" {
			continue
		}
		counts[v]++
		if counts[v] > bestCount {
			best = v
			bestCount = counts[v]
		}
	}
	return best
}

// peakTimesForAge buckets a cluster into one of three activity profiles.
// Younger crowds play evenings and weekends, working-age players fit games
// around office hours, older players prefer mornings.
func peakTimesForAge(avgAge float64) PeakTimes {
	switch {
	case avgAge < 25:
		return PeakTimes{
			Weekday:       "18:00-21:00",
			Weekend:       "09:00-12:00, 16:00-20:00",
			PreferredDays: []string{"Friday", "Saturday", "Sunday"},
		}
	case avgAge < 35:
		return PeakTimes{
			Weekday:       "06:00-08:00, 19:00-21:00",
			Weekend:       "07:00-10:00, 17:00-20:00",
			PreferredDays: []string{"Saturday", "Sunday"},
		}
	default:
		return PeakTimes{
			Weekday:       "06:00-09:00",
			Weekend:       "06:00-10:00",
			PreferredDays: []string{"Saturday", "Sunday", "Wednesday"},
		}
	}
}

func suggestedName(city, sport string) string {
	if city == "" {
		city = "Unknown"
	}
	if sport == "" {
		sport = "Sports"
	}
	return city + " " + sport + " Hub"
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
