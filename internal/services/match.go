package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"github.com/sportsbuddy/sportsbuddy/internal/geo"
	"github.com/sportsbuddy/sportsbuddy/internal/matching"
	"github.com/sportsbuddy/sportsbuddy/internal/models"
	"github.com/sportsbuddy/sportsbuddy/pkg/config"
	"github.com/sportsbuddy/sportsbuddy/pkg/database"
)

// Cache is the subset of CacheService the domain services depend on
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
}

// MatchService finds ranked player matches for a target user
type MatchService struct {
	db     *database.DB
	cfg    *config.Config
	cache  Cache
	scorer *matching.Scorer
	logger *logrus.Logger
}

// NewMatchService creates a match service with the configured weights
func NewMatchService(db *database.DB, cfg *config.Config, cache Cache, logger *logrus.Logger) *MatchService {
	weights := matching.Weights{
		SkillSimilarity:     cfg.WeightSkill,
		Distance:            cfg.WeightDistance,
		AvailabilityOverlap: cfg.WeightAvailability,
		SportMatch:          cfg.WeightSport,
		AgeDifference:       cfg.WeightAge,
		Rating:              cfg.WeightRating,
	}
	if weights == (matching.Weights{}) {
		weights = matching.DefaultWeights()
	}

	return &MatchService{
		db:     db,
		cfg:    cfg,
		cache:  cache,
		scorer: matching.NewScorer(weights),
		logger: logger,
	}
}

// FindMatches returns the best candidates for a user: same sport, active,
// within the configured radius, ranked by the compatibility scorer.
func (s *MatchService) FindMatches(ctx context.Context, userID uint, limit int) ([]matching.MatchResult, error) {
	if limit <= 0 || limit > s.cfg.MatchTopK*10 {
		limit = s.cfg.MatchTopK
	}

	cacheKey := MatchesCacheKey(userID, limit)
	var cached []matching.MatchResult
	if s.cache != nil {
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			return cached, nil
		}
	}

	var target models.User
	if err := s.db.WithContext(ctx).First(&target, userID).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch user %d: %w", userID, err)
	}
	if err := target.Validate(); err != nil {
		return nil, err
	}

	candidates, err := s.fetchCandidates(ctx, &target)
	if err != nil {
		return nil, err
	}

	results := s.scorer.FindBestMatches(&target, candidates, limit)

	s.storeAudit(ctx, &target, limit, results)

	if s.cache != nil {
		ttl := time.Duration(s.cfg.MatchCacheTTL) * time.Second
		if err := s.cache.Set(ctx, cacheKey, results, ttl); err != nil {
			s.logger.Warnf("Failed to cache matches for user %d: %v", userID, err)
		}
	}

	return results, nil
}

// fetchCandidates pulls same-sport active users inside a bounding box around
// the target, then trims to the true radius with the Haversine distance.
func (s *MatchService) fetchCandidates(ctx context.Context, target *models.User) ([]models.User, error) {
	latDelta := s.cfg.MatchRadiusKm / 111.0
	lngDelta := latDelta
	if cosLat := math.Cos(target.Latitude * math.Pi / 180); cosLat > 0.01 {
		lngDelta = s.cfg.MatchRadiusKm / (111.0 * cosLat)
	}

	var nearby []models.User
	err := s.db.WithContext(ctx).
		Where("id != ?", target.ID).
		Where("sport = ?", target.Sport).
		Where("is_active = ?", true).
		Where("latitude BETWEEN ? AND ?", target.Latitude-latDelta, target.Latitude+latDelta).
		Where("longitude BETWEEN ? AND ?", target.Longitude-lngDelta, target.Longitude+lngDelta).
		Limit(s.cfg.MatchCandidates).
		Find(&nearby).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch candidates: %w", err)
	}

	candidates := make([]models.User, 0, len(nearby))
	for _, c := range nearby {
		if geo.DistanceKm(target.Latitude, target.Longitude, c.Latitude, c.Longitude) <= s.cfg.MatchRadiusKm {
			candidates = append(candidates, c)
		}
	}
	return candidates, nil
}

// storeAudit records the request and ranked response for offline weight
// evaluation. Failures are logged, never surfaced.
func (s *MatchService) storeAudit(ctx context.Context, target *models.User, limit int, results []matching.MatchResult) {
	request, _ := json.Marshal(map[string]interface{}{
		"user_id":   target.ID,
		"sport":     target.Sport,
		"limit":     limit,
		"radius_km": s.cfg.MatchRadiusKm,
	})
	response, _ := json.Marshal(results)

	audit := models.MatchAudit{
		UserID:   target.ID,
		Request:  datatypes.JSON(request),
		Response: datatypes.JSON(response),
	}
	if len(results) > 0 {
		audit.TopScore = results[0].Score
	}

	if err := s.db.WithContext(ctx).Create(&audit).Error; err != nil {
		s.logger.Warnf("Failed to store match audit for user %d: %v", target.ID, err)
	}
}
