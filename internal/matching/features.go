package matching

import (
	"math/rand"
	"strconv"
	"strings"

	"github.com/sportsbuddy/sportsbuddy/internal/geo"
	"github.com/sportsbuddy/sportsbuddy/internal/models"
)

// skillRank maps skill labels to an ordinal scale. Unknown labels fall
// back to Intermediate.
var skillRank = map[string]int{
	models.SkillBeginner:     1,
	models.SkillIntermediate: 2,
	models.SkillAdvanced:     3,
	models.SkillProfessional: 4,
}

// FeatureVector holds the normalized compatibility signals for one ordered
// pair of players. All fields are in [0,1]. PlayStyle and History are
// extracted but carry no weight in the final score; they are reserved for
// future behavioral signals.
type FeatureVector struct {
	SkillSimilarity     float64 `json:"skill_similarity"`
	DistanceScore       float64 `json:"distance"`
	AvailabilityOverlap float64 `json:"availability_overlap"`
	SportMatch          float64 `json:"sport_match"`
	AgeScore            float64 `json:"age_difference"`
	RatingScore         float64 `json:"rating"`
	PlayStyle           float64 `json:"play_style"`
	History             float64 `json:"history"`
}

// ExtractFeatures computes the feature vector for a target/candidate pair
func ExtractFeatures(a, b *models.User) FeatureVector {
	var f FeatureVector

	// Skill similarity: ordinal distance normalized over the 3-step range
	rankA := skillRankOf(a.SkillLevel)
	rankB := skillRankOf(b.SkillLevel)
	diff := rankA - rankB
	if diff < 0 {
		diff = -diff
	}
	f.SkillSimilarity = 1 - float64(diff)/3

	// Distance: linear falloff, zero beyond 50km
	distance := geo.DistanceKm(a.Latitude, a.Longitude, b.Latitude, b.Longitude)
	f.DistanceScore = clamp01(1 - distance/50)

	f.AvailabilityOverlap = availabilityOverlap(a.Availability, b.Availability)

	if a.Sport == b.Sport {
		f.SportMatch = 1.0
	}

	// Age: 30 year gap scores zero
	ageDiff := a.Age - b.Age
	if ageDiff < 0 {
		ageDiff = -ageDiff
	}
	f.AgeScore = clamp01(1 - float64(ageDiff)/30)

	f.RatingScore = (a.EffectiveRating() + b.EffectiveRating()) / 2 / 5.0

	f.PlayStyle = playStyleCompatibility(a, b)
	f.History = historyScore(a.ID, b.ID)

	return f
}

func skillRankOf(level string) int {
	if rank, ok := skillRank[level]; ok {
		return rank
	}
	return skillRank[models.SkillIntermediate]
}

// availabilityOverlap blends day overlap and time-window overlap. Missing
// data on either side yields the neutral 0.5.
func availabilityOverlap(a, b models.Availability) float64 {
	if a.IsEmpty() || b.IsEmpty() {
		return 0.5
	}
	if len(a.Days) == 0 || len(b.Days) == 0 {
		return 0.5
	}

	daysA := make(map[string]struct{}, len(a.Days))
	for _, d := range a.Days {
		daysA[d] = struct{}{}
	}
	common := 0
	for _, d := range b.Days {
		if _, ok := daysA[d]; ok {
			common++
		}
	}
	if common == 0 {
		return 0.0
	}

	maxDays := len(a.Days)
	if len(b.Days) > maxDays {
		maxDays = len(b.Days)
	}
	dayOverlap := float64(common) / float64(maxDays)

	// A missing window means "after work" for most players
	timeA := a.TimeRange
	if timeA == "" {
		timeA = "18:00-20:00"
	}
	timeB := b.TimeRange
	if timeB == "" {
		timeB = "18:00-20:00"
	}

	var timeOverlap float64
	switch {
	case timeA == timeB:
		timeOverlap = 1.0
	case timeRangesOverlap(timeA, timeB):
		timeOverlap = 0.5
	}

	return (dayOverlap + timeOverlap) / 2
}

// timeRangesOverlap compares two "HH:MM-HH:MM" windows with inclusive
// boundaries. Malformed input counts as no overlap rather than an error.
func timeRangesOverlap(range1, range2 string) bool {
	s1, e1, ok := parseTimeRange(range1)
	if !ok {
		return false
	}
	s2, e2, ok := parseTimeRange(range2)
	if !ok {
		return false
	}
	return !(e1 < s2 || e2 < s1)
}

func parseTimeRange(timeRange string) (start, end int, ok bool) {
	parts := strings.Split(timeRange, "-")
	if len(parts) != 2 {
		return 0, 0, false
	}
	start, ok = parseMinutes(parts[0])
	if !ok {
		return 0, 0, false
	}
	end, ok = parseMinutes(parts[1])
	if !ok {
		return 0, 0, false
	}
	return start, end, true
}

func parseMinutes(clock string) (int, bool) {
	parts := strings.Split(strings.TrimSpace(clock), ":")
	if len(parts) != 2 {
		return 0, false
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, false
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, false
	}
	return h*60 + m, true
}

// playStyleCompatibility is a deterministic placeholder for a future
// behavioral signal (preferred format, competitive vs casual). Seeded on the
// pair so repeated calls agree.
func playStyleCompatibility(a, b *models.User) float64 {
	rng := rand.New(rand.NewSource(int64(a.ID) + int64(b.ID)))
	return 0.4 + rng.Float64()*0.5
}

// historyScore will rank pairs by their past match outcomes once the
// matches table feeds back into scoring. Until then every pair is neutral.
func historyScore(_, _ uint) float64 {
	return 0.5
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
