package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"eden-api/internal/auth"
	"eden-api/internal/services"
)

// RewardHandler exposes the reward ledger
type RewardHandler struct {
	rewardService *services.RewardService
}

// NewRewardHandler creates a new RewardHandler
func NewRewardHandler(rewardService *services.RewardService) *RewardHandler {
	return &RewardHandler{rewardService: rewardService}
}

// List returns the user's reward ledger, newest first.
// GET /api/rewards
func (h *RewardHandler) List(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	rewards, err := h.rewardService.GetRewards(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"rewards": rewards})
}
