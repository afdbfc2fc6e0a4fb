package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sportsbuddy/sportsbuddy/internal/models"
)

func testPlayer(id uint, sport, skill string, age int, lat, lng, rating float64) models.User {
	return models.User{
		ID:         id,
		Name:       "Player",
		Sport:      sport,
		SkillLevel: skill,
		Age:        age,
		Latitude:   lat,
		Longitude:  lng,
		Rating:     rating,
	}
}

func TestScoreIdenticalCricketPlayers(t *testing.T) {
	// Two players at the same point, same sport and skill, ages 25/25,
	// ratings 4.5/4.5, no availability data.
	a := testPlayer(1, "Cricket", models.SkillIntermediate, 25, 19.0760, 72.8777, 4.5)
	b := testPlayer(2, "Cricket", models.SkillIntermediate, 25, 19.0760, 72.8777, 4.5)

	f := ExtractFeatures(&a, &b)
	assert.Equal(t, 1.0, f.SkillSimilarity)
	assert.Equal(t, 1.0, f.DistanceScore)
	assert.Equal(t, 0.5, f.AvailabilityOverlap)
	assert.Equal(t, 1.0, f.SportMatch)
	assert.Equal(t, 1.0, f.AgeScore)
	assert.InDelta(t, 0.9, f.RatingScore, 1e-9)

	scorer := NewScorer(DefaultWeights())
	score, explanation := scorer.ScoreFeatures(f)

	// Weighted sum is 89.0, lifted to 97.9 by the 10% sport bonus
	assert.InDelta(t, 97.9, score, 1e-9)

	require.Contains(t, explanation, "skill_similarity")
	assert.InDelta(t, 25.0, explanation["skill_similarity"].Contribution, 1e-9)
	assert.InDelta(t, 9.0, explanation["rating"].Contribution, 1e-9)

	// Contributions are pre-bonus and sum to the unadjusted total
	total := 0.0
	for _, breakdown := range explanation {
		total += breakdown.Contribution
	}
	assert.InDelta(t, 89.0, total, 1e-9)
}

func TestSportMismatchScoresLower(t *testing.T) {
	target := testPlayer(1, "Cricket", models.SkillIntermediate, 25, 19.0760, 72.8777, 4.5)
	same := testPlayer(2, "Cricket", models.SkillIntermediate, 25, 19.0760, 72.8777, 4.5)
	other := testPlayer(3, "Football", models.SkillIntermediate, 25, 19.0760, 72.8777, 4.5)

	scorer := NewScorer(DefaultWeights())
	sameScore, _ := scorer.Score(&target, &same)
	otherScore, _ := scorer.Score(&target, &other)

	assert.Greater(t, sameScore, otherScore)
}

func TestScoreRange(t *testing.T) {
	tests := []struct {
		name string
		a, b models.User
	}{
		{
			name: "Worst case pair",
			a:    testPlayer(1, "Cricket", models.SkillBeginner, 18, 19.0, 72.8, 1.0),
			b:    testPlayer(2, "Chess", models.SkillProfessional, 60, 28.7, 77.1, 1.0),
		},
		{
			name: "Best case pair",
			a:    testPlayer(1, "Cricket", models.SkillAdvanced, 30, 19.0, 72.8, 5.0),
			b:    testPlayer(2, "Cricket", models.SkillAdvanced, 30, 19.0, 72.8, 5.0),
		},
		{
			name: "Missing ratings fall back to neutral default",
			a:    testPlayer(1, "Tennis", models.SkillIntermediate, 25, 19.0, 72.8, 0),
			b:    testPlayer(2, "Tennis", models.SkillIntermediate, 27, 19.01, 72.81, 0),
		},
	}

	scorer := NewScorer(DefaultWeights())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, explanation := scorer.Score(&tt.a, &tt.b)
			assert.GreaterOrEqual(t, score, 0.0)
			assert.LessOrEqual(t, score, 100.0)
			assert.Len(t, explanation, 6)
		})
	}
}

func TestUnknownSkillDefaultsToIntermediate(t *testing.T) {
	a := testPlayer(1, "Cricket", "National Level", 25, 19.0, 72.8, 4.5)
	b := testPlayer(2, "Cricket", models.SkillIntermediate, 25, 19.0, 72.8, 4.5)

	f := ExtractFeatures(&a, &b)
	assert.Equal(t, 1.0, f.SkillSimilarity)
}

func TestDistanceFalloff(t *testing.T) {
	// ~50km apart along a meridian: distance score should hit zero
	a := testPlayer(1, "Cricket", models.SkillIntermediate, 25, 19.0, 72.8, 4.5)
	b := testPlayer(2, "Cricket", models.SkillIntermediate, 25, 19.5, 72.8, 4.5)

	f := ExtractFeatures(&a, &b)
	assert.InDelta(t, 0.0, f.DistanceScore, 0.12)

	// Nearby pair keeps most of the distance score
	c := testPlayer(3, "Cricket", models.SkillIntermediate, 25, 19.01, 72.81, 4.5)
	f = ExtractFeatures(&a, &c)
	assert.Greater(t, f.DistanceScore, 0.9)
}

func TestPlayStylePlaceholderIsDeterministic(t *testing.T) {
	a := testPlayer(1, "Cricket", models.SkillIntermediate, 25, 19.0, 72.8, 4.5)
	b := testPlayer(2, "Cricket", models.SkillIntermediate, 25, 19.0, 72.8, 4.5)

	f1 := ExtractFeatures(&a, &b)
	f2 := ExtractFeatures(&a, &b)
	assert.Equal(t, f1.PlayStyle, f2.PlayStyle)
	assert.GreaterOrEqual(t, f1.PlayStyle, 0.4)
	assert.LessOrEqual(t, f1.PlayStyle, 0.9)
	assert.Equal(t, 0.5, f1.History)
}

type boostAdjuster struct{ delta float64 }

func (b boostAdjuster) Adjust(_ FeatureVector, score float64) float64 {
	return score + b.delta
}

func TestScoreAdjusterClipping(t *testing.T) {
	a := testPlayer(1, "Cricket", models.SkillIntermediate, 25, 19.0, 72.8, 4.5)
	b := testPlayer(2, "Football", models.SkillIntermediate, 25, 19.0, 72.8, 4.5)

	base := NewScorer(DefaultWeights())
	boosted := base.WithAdjuster(boostAdjuster{delta: 500})
	score, _ := boosted.Score(&a, &b)
	assert.Equal(t, 100.0, score)

	lowered := base.WithAdjuster(boostAdjuster{delta: -500})
	score, _ = lowered.Score(&a, &b)
	assert.Equal(t, 0.0, score)
}
