package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"eden-api/internal/auth"
	"eden-api/internal/services"
)

// AuthHandler handles registration, login and token refresh
type AuthHandler struct {
	userService *services.UserService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(userService *services.UserService) *AuthHandler {
	return &AuthHandler{userService: userService}
}

// Register creates a new user from bot-supplied identity.
// POST /auth/registration
func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		ChatID       int64  `json:"chat_id" binding:"required"`
		Country      string `json:"country"`
		Token        string `json:"token" binding:"required"`
		ReferralCode string `json:"referral_code"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	snapshot, err := h.userService.Register(c.Request.Context(), req.ChatID, req.Country, req.Token, req.ReferralCode)
	if err != nil {
		respondError(c, err)
		return
	}

	tokens, err := auth.GenerateTokenPair(req.ChatID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user":   snapshot,
		"tokens": tokens,
	})
}

// Login authenticates by chat id and bot token.
// POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		ChatID int64  `json:"chat_id" binding:"required"`
		Token  string `json:"token" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	snapshot, err := h.userService.Login(c.Request.Context(), req.ChatID, req.Token)
	if err != nil {
		respondError(c, err)
		return
	}

	tokens, err := auth.GenerateTokenPair(req.ChatID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":   snapshot,
		"tokens": tokens,
	})
}

// Refresh exchanges a refresh token for a new pair, applying the same daily
// reward and energy sync touch as login.
// PATCH /auth/refresh (refresh JWT required)
func (h *AuthHandler) Refresh(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	snapshot, err := h.userService.Touch(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	tokens, err := auth.GenerateTokenPair(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":   snapshot,
		"tokens": tokens,
	})
}

// Me returns the authenticated user's snapshot without side effects.
// GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	snapshot, err := h.userService.GetSnapshot(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": snapshot})
}
