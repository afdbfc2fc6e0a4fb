// Package matching implements the pairwise player compatibility scorer and
// the top-K match ranker. Both are pure functions over in-memory records;
// persistence and caching belong to the service layer.
package matching

import "math"

// Weights holds the contribution of each scored factor. The six recognized
// weights sum to 1.0 so an unadjusted perfect pair scores 100.
type Weights struct {
	SkillSimilarity     float64 `json:"skill_similarity"`
	Distance            float64 `json:"distance"`
	AvailabilityOverlap float64 `json:"availability_overlap"`
	SportMatch          float64 `json:"sport_match"`
	AgeDifference       float64 `json:"age_difference"`
	Rating              float64 `json:"rating"`
}

// DefaultWeights returns the production weighting
func DefaultWeights() Weights {
	return Weights{
		SkillSimilarity:     0.25,
		Distance:            0.20,
		AvailabilityOverlap: 0.20,
		SportMatch:          0.15,
		AgeDifference:       0.10,
		Rating:              0.10,
	}
}

// FactorBreakdown explains one factor's contribution to a match score
type FactorBreakdown struct {
	Value        float64 `json:"value"`
	Weight       float64 `json:"weight"`
	Contribution float64 `json:"contribution"`
}

// Explanation maps factor names to their score breakdown. Contributions are
// recorded before the sport-match bonus, which applies to the total only.
type Explanation map[string]FactorBreakdown

// ScoreAdjuster lets downstream code nudge a computed score, e.g. from a
// model trained on historical match outcomes. The returned score is clipped
// to [0,100] by the scorer.
type ScoreAdjuster interface {
	Adjust(features FeatureVector, score float64) float64
}

// Scorer computes explainable 0-100 compatibility scores for player pairs
type Scorer struct {
	weights  Weights
	adjuster ScoreAdjuster
}

// NewScorer creates a scorer with the given weights
func NewScorer(weights Weights) *Scorer {
	return &Scorer{weights: weights}
}

// WithAdjuster returns a copy of the scorer with a score adjuster installed
func (s *Scorer) WithAdjuster(adj ScoreAdjuster) *Scorer {
	return &Scorer{weights: s.weights, adjuster: adj}
}

// ScoreFeatures turns an extracted feature vector into a score and its
// per-factor explanation
func (s *Scorer) ScoreFeatures(f FeatureVector) (float64, Explanation) {
	factors := []struct {
		name   string
		value  float64
		weight float64
	}{
		{"skill_similarity", f.SkillSimilarity, s.weights.SkillSimilarity},
		{"distance", f.DistanceScore, s.weights.Distance},
		{"availability_overlap", f.AvailabilityOverlap, s.weights.AvailabilityOverlap},
		{"sport_match", f.SportMatch, s.weights.SportMatch},
		{"age_difference", f.AgeScore, s.weights.AgeDifference},
		{"rating", f.RatingScore, s.weights.Rating},
	}

	score := 0.0
	explanation := make(Explanation, len(factors))
	for _, factor := range factors {
		contribution := factor.value * factor.weight * 100
		score += contribution
		explanation[factor.name] = FactorBreakdown{
			Value:        factor.value,
			Weight:       factor.weight,
			Contribution: contribution,
		}
	}

	// Perfect sport match earns a 10% bonus on the whole score
	if f.SportMatch == 1.0 {
		score = math.Min(100, score*1.1)
	}

	if s.adjuster != nil {
		score = s.adjuster.Adjust(f, score)
	}

	if score < 0 {
		score = 0
	} else if score > 100 {
		score = 100
	}

	return score, explanation
}
