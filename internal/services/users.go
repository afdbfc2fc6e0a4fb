package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sportsbuddy/sportsbuddy/internal/geo"
	"github.com/sportsbuddy/sportsbuddy/internal/models"
	"github.com/sportsbuddy/sportsbuddy/pkg/config"
	"github.com/sportsbuddy/sportsbuddy/pkg/database"
)

// UserService answers the map-facing queries: radius search, viewport
// clustering and aggregate stats
type UserService struct {
	db     *database.DB
	cfg    *config.Config
	cache  Cache
	logger *logrus.Logger
}

// NewUserService creates a user query service
func NewUserService(db *database.DB, cfg *config.Config, cache Cache, logger *logrus.Logger) *UserService {
	return &UserService{
		db:     db,
		cfg:    cfg,
		cache:  cache,
		logger: logger,
	}
}

// NearbyUser is a user annotated with their distance from the query point
type NearbyUser struct {
	models.User
	DistanceKm float64 `json:"distance_km"`
}

// NearbyResult is the radius search response
type NearbyResult struct {
	Center      map[string]float64 `json:"center"`
	RadiusKm    float64            `json:"radius_km"`
	SportFilter string             `json:"sport_filter,omitempty"`
	Users       []NearbyUser       `json:"users"`
	Count       int                `json:"count"`
}

// Nearby returns active users within radiusKm of the given point, sorted by
// distance, optionally filtered by sport
func (s *UserService) Nearby(ctx context.Context, lat, lng, radiusKm float64, sport string, limit int) (*NearbyResult, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	cacheKey := NearbyCacheKey(lat, lng, radiusKm, sport, limit)
	var cached NearbyResult
	if s.cache != nil {
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	latDelta := radiusKm / 111.0
	lngDelta := latDelta
	if cosLat := math.Cos(lat * math.Pi / 180); cosLat > 0.01 {
		lngDelta = radiusKm / (111.0 * cosLat)
	}

	query := s.db.WithContext(ctx).
		Where("is_active = ?", true).
		Where("latitude BETWEEN ? AND ?", lat-latDelta, lat+latDelta).
		Where("longitude BETWEEN ? AND ?", lng-lngDelta, lng+lngDelta)
	if sport != "" {
		query = query.Where("sport = ?", sport)
	}

	var users []models.User
	if err := query.Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch nearby users: %w", err)
	}

	nearby := make([]NearbyUser, 0, len(users))
	for _, u := range users {
		d := geo.DistanceKm(lat, lng, u.Latitude, u.Longitude)
		if d <= radiusKm {
			nearby = append(nearby, NearbyUser{User: u, DistanceKm: math.Round(d*100) / 100})
		}
	}
	sort.SliceStable(nearby, func(i, j int) bool {
		return nearby[i].DistanceKm < nearby[j].DistanceKm
	})
	if len(nearby) > limit {
		nearby = nearby[:limit]
	}

	result := &NearbyResult{
		Center:      map[string]float64{"lat": lat, "lng": lng},
		RadiusKm:    radiusKm,
		SportFilter: sport,
		Users:       nearby,
		Count:       len(nearby),
	}

	if s.cache != nil {
		ttl := time.Duration(s.cfg.NearbyCacheTTL) * time.Second
		if err := s.cache.Set(ctx, cacheKey, result, ttl); err != nil {
			s.logger.Warnf("Failed to cache nearby result: %v", err)
		}
	}

	return result, nil
}

// MapCluster is one aggregated marker for the map viewport
type MapCluster struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Count     int     `json:"count"`
	Sport     string  `json:"sport"`
	IsCluster bool    `json:"is_cluster"`
}

// ClusterResult is the viewport clustering response
type ClusterResult struct {
	Bounds   map[string]float64 `json:"bounds"`
	Zoom     int                `json:"zoom"`
	Clusters []MapCluster       `json:"clusters"`
}

// clusterGridSize sizes grid cells so roughly 10x10 clusters cover a map
// tile at the given zoom
func clusterGridSize(zoom int) float64 {
	return 360.0 / (math.Pow(2, float64(zoom)) * 4)
}

// Clusters snaps users in the viewport to a zoom-dependent grid and returns
// one marker per occupied cell with its dominant sport
func (s *UserService) Clusters(ctx context.Context, north, south, east, west float64, zoom int, sport string) (*ClusterResult, error) {
	cacheKey := ClustersCacheKey(north, south, east, west, zoom, sport)
	var cached ClusterResult
	if s.cache != nil {
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	query := s.db.WithContext(ctx).
		Where("is_active = ?", true).
		Where("latitude BETWEEN ? AND ?", south, north).
		Where("longitude BETWEEN ? AND ?", west, east)
	if sport != "" {
		query = query.Where("sport = ?", sport)
	}

	var users []models.User
	if err := query.Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch users for clustering: %w", err)
	}

	grid := clusterGridSize(zoom)
	type cell struct {
		latSum, lngSum float64
		count          int
		sports         map[string]int
	}
	cells := make(map[[2]int]*cell)
	for _, u := range users {
		key := [2]int{int(math.Floor(u.Latitude / grid)), int(math.Floor(u.Longitude / grid))}
		c, ok := cells[key]
		if !ok {
			c = &cell{sports: make(map[string]int)}
			cells[key] = c
		}
		c.latSum += u.Latitude
		c.lngSum += u.Longitude
		c.count++
		c.sports[u.Sport]++
	}

	clusters := make([]MapCluster, 0, len(cells))
	for _, c := range cells {
		topSport := ""
		best := 0
		for name, count := range c.sports {
			if count > best || (count == best && name < topSport) {
				best = count
				topSport = name
			}
		}
		clusters = append(clusters, MapCluster{
			Latitude:  c.latSum / float64(c.count),
			Longitude: c.lngSum / float64(c.count),
			Count:     c.count,
			Sport:     topSport,
			IsCluster: true,
		})
	}
	sort.SliceStable(clusters, func(i, j int) bool {
		return clusters[i].Count > clusters[j].Count
	})

	result := &ClusterResult{
		Bounds:   map[string]float64{"north": north, "south": south, "east": east, "west": west},
		Zoom:     zoom,
		Clusters: clusters,
	}

	if s.cache != nil {
		ttl := time.Duration(s.cfg.ClusterCacheTTL) * time.Second
		if err := s.cache.Set(ctx, cacheKey, result, ttl); err != nil {
			s.logger.Warnf("Failed to cache cluster result: %v", err)
		}
	}

	return result, nil
}

// SportCount is one row of the sports aggregate
type SportCount struct {
	Sport string `json:"sport"`
	Count int64  `json:"count"`
}

// Sports lists every sport with its player count, most popular first
func (s *UserService) Sports(ctx context.Context) ([]SportCount, error) {
	var counts []SportCount
	err := s.db.WithContext(ctx).
		Model(&models.User{}).
		Select("sport, count(*) as count").
		Group("sport").
		Order("count DESC").
		Scan(&counts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sports: %w", err)
	}
	return counts, nil
}

// Stats summarizes the user base
type Stats struct {
	TotalUsers   int64 `json:"total_users"`
	ActiveUsers  int64 `json:"active_users"`
	SportsCount  int64 `json:"sports_count"`
	CitiesCount  int64 `json:"cities_count"`
}

// Stats returns application-level aggregates
func (s *UserService) Stats(ctx context.Context) (*Stats, error) {
	var stats Stats
	db := s.db.WithContext(ctx).Model(&models.User{})

	if err := db.Count(&stats.TotalUsers).Error; err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("is_active = ?", true).Count(&stats.ActiveUsers).Error; err != nil {
		return nil, fmt.Errorf("failed to count active users: %w", err)
	}
	if err := s.db.WithContext(ctx).Model(&models.User{}).Distinct("sport").Count(&stats.SportsCount).Error; err != nil {
		return nil, fmt.Errorf("failed to count sports: %w", err)
	}
	if err := s.db.WithContext(ctx).Model(&models.User{}).Distinct("city").Count(&stats.CitiesCount).Error; err != nil {
		return nil, fmt.Errorf("failed to count cities: %w", err)
	}

	return &stats, nil
}

// GetUser fetches a single user by id
func (s *UserService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
