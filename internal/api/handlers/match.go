package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/sportsbuddy/sportsbuddy/internal/services"
	"github.com/sportsbuddy/sportsbuddy/pkg/utils"
)

type MatchHandler struct {
	matches *services.MatchService
}

func NewMatchHandler(matches *services.MatchService) *MatchHandler {
	return &MatchHandler{matches: matches}
}

// GetMatches returns ranked compatibility matches for a user
func (h *MatchHandler) GetMatches(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.SendValidationError(c, "Invalid user ID", err.Error())
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	results, err := h.matches.FindMatches(c.Request.Context(), uint(userID), limit)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.SendNotFound(c, "User not found")
			return
		}
		var appErr *utils.AppError
		if errors.As(err, &appErr) {
			utils.SendError(c, 422, appErr)
			return
		}
		utils.SendInternalError(c, "Failed to find matches")
		return
	}

	utils.SendSuccess(c, gin.H{
		"target_user_id": userID,
		"matches":        results,
	})
}
