package matching

import (
	"sort"

	"github.com/sportsbuddy/sportsbuddy/internal/models"
)

// MatchResult pairs a candidate with their compatibility score and the
// per-factor explanation
type MatchResult struct {
	User        models.User `json:"user"`
	Score       float64     `json:"match_score"`
	Explanation Explanation `json:"match_reason"`
}

// Score computes the compatibility score and explanation for one ordered
// pair of players
func (s *Scorer) Score(target, candidate *models.User) (float64, Explanation) {
	return s.ScoreFeatures(ExtractFeatures(target, candidate))
}

// FindBestMatches scores every candidate against the target and returns the
// top K by score. The target itself is skipped; ties keep the original
// candidate order, so results are deterministic for a fixed input ordering.
// Inputs are not mutated.
func (s *Scorer) FindBestMatches(target *models.User, candidates []models.User, topK int) []MatchResult {
	if topK <= 0 {
		return nil
	}

	results := make([]MatchResult, 0, len(candidates))
	for i := range candidates {
		if candidates[i].ID == target.ID {
			continue
		}
		score, explanation := s.Score(target, &candidates[i])
		results = append(results, MatchResult{
			User:        candidates[i],
			Score:       score,
			Explanation: explanation,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > topK {
		results = results[:topK]
	}
	return results
}
