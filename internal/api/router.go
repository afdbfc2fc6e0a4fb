package api

import (
	"github.com/gin-gonic/gin"

	"github.com/sportsbuddy/sportsbuddy/internal/api/handlers"
	"github.com/sportsbuddy/sportsbuddy/internal/services"
)

// SetupRoutes configures all API routes on the given router group
func SetupRoutes(group *gin.RouterGroup, users *services.UserService, matches *services.MatchService, analytics *services.AnalyticsService) {
	userHandler := handlers.NewUserHandler(users)
	matchHandler := handlers.NewMatchHandler(matches)
	hotspotHandler := handlers.NewHotspotHandler(analytics)

	// User discovery endpoints
	group.GET("/users/nearby", userHandler.GetNearby)
	group.GET("/users/clusters", userHandler.GetClusters)
	group.GET("/users/:id", userHandler.GetUser)
	group.GET("/users/:id/matches", matchHandler.GetMatches)

	// Analytics endpoints
	group.GET("/hotspots", hotspotHandler.GetHotspots)
	group.GET("/hotspots/underserved", hotspotHandler.GetUnderservedAreas)

	// Aggregates
	group.GET("/sports", userHandler.GetSports)
	group.GET("/stats", userHandler.GetStats)
}
