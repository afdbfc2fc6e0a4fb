package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sportsbuddy/sportsbuddy/internal/services"
	"github.com/sportsbuddy/sportsbuddy/pkg/utils"
)

type HotspotHandler struct {
	analytics *services.AnalyticsService
}

func NewHotspotHandler(analytics *services.AnalyticsService) *HotspotHandler {
	return &HotspotHandler{analytics: analytics}
}

// GetHotspots returns detected venue clusters, most populated first
func (h *HotspotHandler) GetHotspots(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	hotspots, err := h.analytics.Hotspots(c.Request.Context(), limit)
	if err != nil {
		utils.SendInternalError(c, "Failed to detect hotspots")
		return
	}

	utils.SendSuccess(c, gin.H{
		"count":    len(hotspots),
		"hotspots": hotspots,
	})
}

// GetUnderservedAreas returns dense player pockets far from known venues
func (h *HotspotHandler) GetUnderservedAreas(c *gin.Context) {
	areas, err := h.analytics.UnderservedAreas(c.Request.Context())
	if err != nil {
		utils.SendInternalError(c, "Failed to find underserved areas")
		return
	}

	utils.SendSuccess(c, gin.H{
		"count": len(areas),
		"areas": areas,
	})
}
