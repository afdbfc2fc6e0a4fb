package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sportsbuddy/sportsbuddy/internal/hotspot"
	"github.com/sportsbuddy/sportsbuddy/internal/models"
	"github.com/sportsbuddy/sportsbuddy/pkg/config"
	"github.com/sportsbuddy/sportsbuddy/pkg/database"
)

// AnalyticsService runs the hotspot and underserved-area pipelines over a
// bounded sample of active users. Both computations are CPU-bound, so
// results are cached and recomputed in the background by the refresher.
type AnalyticsService struct {
	db       *database.DB
	cfg      *config.Config
	cache    Cache
	resolver CityResolver
	logger   *logrus.Logger
}

// NewAnalyticsService creates an analytics service. resolver may be nil,
// in which case unnamed hotspots keep their "Unknown" placeholder.
func NewAnalyticsService(db *database.DB, cfg *config.Config, cache Cache, resolver CityResolver, logger *logrus.Logger) *AnalyticsService {
	return &AnalyticsService{
		db:       db,
		cfg:      cfg,
		cache:    cache,
		resolver: resolver,
		logger:   logger,
	}
}

func (s *AnalyticsService) detectionConfig() hotspot.Config {
	return hotspot.Config{
		Clusters:       s.cfg.HotspotClusters,
		MinClusterSize: s.cfg.HotspotMinClusterSize,
	}
}

// Hotspots detects venue clusters from current user locations, serving a
// cached result when fresh
func (s *AnalyticsService) Hotspots(ctx context.Context, limit int) ([]hotspot.Hotspot, error) {
	if limit <= 0 || limit > s.cfg.HotspotClusters {
		limit = s.cfg.HotspotClusters
	}

	cacheKey := HotspotsCacheKey(limit)
	var cached []hotspot.Hotspot
	if s.cache != nil {
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			return cached, nil
		}
	}

	hotspots, err := s.computeHotspots(ctx)
	if err != nil {
		return nil, err
	}
	if len(hotspots) > limit {
		hotspots = hotspots[:limit]
	}

	if s.cache != nil {
		ttl := time.Duration(s.cfg.HotspotCacheTTL) * time.Second
		if err := s.cache.Set(ctx, cacheKey, hotspots, ttl); err != nil {
			s.logger.Warnf("Failed to cache hotspots: %v", err)
		}
	}

	return hotspots, nil
}

func (s *AnalyticsService) computeHotspots(ctx context.Context) ([]hotspot.Hotspot, error) {
	users, err := s.sampleUsers(ctx)
	if err != nil {
		return nil, err
	}

	hotspots := hotspot.DetectHotspots(users, s.detectionConfig())
	s.nameUnknownHotspots(ctx, hotspots)
	return hotspots, nil
}

// nameUnknownHotspots fills in venue names for clusters whose members carry
// no city, using reverse geocoding when available
func (s *AnalyticsService) nameUnknownHotspots(ctx context.Context, hotspots []hotspot.Hotspot) {
	if s.resolver == nil {
		return
	}
	for i := range hotspots {
		if hotspots[i].City != "" {
			continue
		}
		city, err := s.resolver.ReverseCity(ctx, hotspots[i].Location.Latitude, hotspots[i].Location.Longitude)
		if err != nil {
			s.logger.Debugf("Reverse geocode failed for hotspot %d: %v", hotspots[i].ID, err)
			continue
		}
		hotspots[i].City = city

		sport := ""
		best := 0
		for name, entry := range hotspots[i].SportsDistribution {
			if entry.Count > best {
				best = entry.Count
				sport = name
			}
		}
		if sport == "" {
			sport = "Sports"
		}
		hotspots[i].SuggestedName = city + " " + sport + " Hub"
	}
}

// UnderservedAreas scans for dense player pockets far from any known venue
func (s *AnalyticsService) UnderservedAreas(ctx context.Context) ([]hotspot.UnderservedArea, error) {
	cacheKey := UnderservedCacheKey()
	var cached []hotspot.UnderservedArea
	if s.cache != nil {
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			return cached, nil
		}
	}

	areas, err := s.computeUnderservedAreas(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		ttl := time.Duration(s.cfg.HotspotCacheTTL) * time.Second
		if err := s.cache.Set(ctx, cacheKey, areas, ttl); err != nil {
			s.logger.Warnf("Failed to cache underserved areas: %v", err)
		}
	}

	return areas, nil
}

func (s *AnalyticsService) computeUnderservedAreas(ctx context.Context) ([]hotspot.UnderservedArea, error) {
	users, err := s.sampleUsers(ctx)
	if err != nil {
		return nil, err
	}

	var venues []models.Venue
	if err := s.db.WithContext(ctx).Find(&venues).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch venues: %w", err)
	}

	areas := hotspot.FindUnderservedAreas(users, venues)

	// An infinite venue distance means no venues exist yet; encode it as -1
	// so the result survives JSON serialization.
	for i := range areas {
		if math.IsInf(areas[i].NearestVenueKm, 1) {
			areas[i].NearestVenueKm = -1
		}
	}

	return areas, nil
}

// sampleUsers fetches active users for analysis, capped for performance
func (s *AnalyticsService) sampleUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := s.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("id").
		Limit(s.cfg.AnalysisSampleLimit).
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch users for analysis: %w", err)
	}
	return users, nil
}

// RefreshAll recomputes hotspots and underserved areas and rewrites the
// cache. Called by the background refresher.
func (s *AnalyticsService) RefreshAll(ctx context.Context) error {
	hotspots, err := s.computeHotspots(ctx)
	if err != nil {
		return err
	}

	areas, err := s.computeUnderservedAreas(ctx)
	if err != nil {
		return err
	}

	if s.cache != nil {
		ttl := time.Duration(s.cfg.HotspotCacheTTL) * time.Second
		limit := s.cfg.HotspotClusters
		capped := hotspots
		if len(capped) > limit {
			capped = capped[:limit]
		}
		if err := s.cache.Set(ctx, HotspotsCacheKey(limit), capped, ttl); err != nil {
			return fmt.Errorf("failed to refresh hotspot cache: %w", err)
		}
		if err := s.cache.Set(ctx, UnderservedCacheKey(), areas, ttl); err != nil {
			return fmt.Errorf("failed to refresh underserved cache: %w", err)
		}
	}

	s.logger.WithFields(logrus.Fields{
		"hotspots":    len(hotspots),
		"underserved": len(areas),
	}).Info("Analytics refreshed")

	return nil
}
