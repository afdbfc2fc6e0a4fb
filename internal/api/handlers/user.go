package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/sportsbuddy/sportsbuddy/internal/services"
	"github.com/sportsbuddy/sportsbuddy/pkg/utils"
)

type UserHandler struct {
	users *services.UserService
}

func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// GetNearby returns active users within a radius of a point
func (h *UserHandler) GetNearby(c *gin.Context) {
	lat, err := strconv.ParseFloat(c.Query("lat"), 64)
	if err != nil {
		utils.SendValidationError(c, "Invalid latitude", "lat must be a number")
		return
	}
	lng, err := strconv.ParseFloat(c.Query("lng"), 64)
	if err != nil {
		utils.SendValidationError(c, "Invalid longitude", "lng must be a number")
		return
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		utils.SendValidationError(c, "Coordinates out of range", "lat must be in [-90,90], lng in [-180,180]")
		return
	}

	radius, err := strconv.ParseFloat(c.DefaultQuery("radius", "10"), 64)
	if err != nil || radius <= 0 {
		utils.SendValidationError(c, "Invalid radius", "radius must be a positive number")
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	sport := c.Query("sport")

	result, err := h.users.Nearby(c.Request.Context(), lat, lng, radius, sport, limit)
	if err != nil {
		utils.SendInternalError(c, "Failed to fetch nearby users")
		return
	}

	utils.SendSuccess(c, result)
}

// GetClusters returns aggregated user markers for a map viewport
func (h *UserHandler) GetClusters(c *gin.Context) {
	north, err1 := strconv.ParseFloat(c.Query("north"), 64)
	south, err2 := strconv.ParseFloat(c.Query("south"), 64)
	east, err3 := strconv.ParseFloat(c.Query("east"), 64)
	west, err4 := strconv.ParseFloat(c.Query("west"), 64)
	zoom, err5 := strconv.Atoi(c.Query("zoom"))
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil || err5 != nil {
		utils.SendValidationError(c, "Invalid viewport", "north, south, east, west and zoom are required")
		return
	}
	if zoom < 0 || zoom > 22 {
		utils.SendValidationError(c, "Invalid zoom", "zoom must be between 0 and 22")
		return
	}
	if north < south {
		utils.SendValidationError(c, "Invalid viewport", "north must be greater than south")
		return
	}

	result, err := h.users.Clusters(c.Request.Context(), north, south, east, west, zoom, c.Query("sport"))
	if err != nil {
		utils.SendInternalError(c, "Failed to cluster users")
		return
	}

	utils.SendSuccess(c, result)
}

// GetUser returns a single user by id
func (h *UserHandler) GetUser(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.SendValidationError(c, "Invalid user ID", err.Error())
		return
	}

	user, err := h.users.GetUser(c.Request.Context(), uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.SendNotFound(c, "User not found")
			return
		}
		utils.SendInternalError(c, "Failed to fetch user")
		return
	}

	utils.SendSuccess(c, user)
}

// GetSports lists all sports with player counts
func (h *UserHandler) GetSports(c *gin.Context) {
	counts, err := h.users.Sports(c.Request.Context())
	if err != nil {
		utils.SendInternalError(c, "Failed to fetch sports")
		return
	}

	sports := make([]string, 0, len(counts))
	for _, sc := range counts {
		sports = append(sports, sc.Sport)
	}

	utils.SendSuccess(c, gin.H{
		"sports":  sports,
		"details": counts,
	})
}

// GetStats returns application statistics
func (h *UserHandler) GetStats(c *gin.Context) {
	stats, err := h.users.Stats(c.Request.Context())
	if err != nil {
		utils.SendInternalError(c, "Failed to fetch stats")
		return
	}

	utils.SendSuccess(c, stats)
}
