package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"eden-api/internal/auth"
	"eden-api/internal/services"
)

// MiningHandler handles mining session endpoints
type MiningHandler struct {
	miningService *services.MiningService
}

// NewMiningHandler creates a new MiningHandler
func NewMiningHandler(miningService *services.MiningService) *MiningHandler {
	return &MiningHandler{miningService: miningService}
}

// Start begins a mining session.
// POST /api/mining/start
func (h *MiningHandler) Start(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	activity, err := h.miningService.Start(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"activity": activity})
}

// Claim settles a finished session.
// POST /api/mining/claim
func (h *MiningHandler) Claim(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req struct {
		UseInspiration bool `json:"use_inspiration"`
	}
	// Body is optional; a missing body claims without a boost.
	_ = c.ShouldBindJSON(&req)

	result, err := h.miningService.Claim(c.Request.Context(), userID, req.UseInspiration)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
