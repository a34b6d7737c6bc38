package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"eden-api/internal/auth"
	"eden-api/internal/services"
)

// EnergyHandler handles energy sync and replenishment endpoints
type EnergyHandler struct {
	energyService *services.EnergyService
}

// NewEnergyHandler creates a new EnergyHandler
func NewEnergyHandler(energyService *services.EnergyService) *EnergyHandler {
	return &EnergyHandler{energyService: energyService}
}

// Sync credits energy regenerated since the last sync.
// POST /api/energy/sync
func (h *EnergyHandler) Sync(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	stats, err := h.energyService.SyncEnergy(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

// Replenish spends one replenishment to refill energy.
// POST /api/energy/replenish
func (h *EnergyHandler) Replenish(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	stats, err := h.energyService.Replenish(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"stats": stats})
}
