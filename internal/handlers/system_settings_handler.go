package handlers

import (
	"net/http"

	"github.com/ArowuTest/loyalty-admin-backend/internal/middleware"
	"github.com/ArowuTest/loyalty-admin-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// SystemSettingsHandler handles HTTP requests related to system settings.
type SystemSettingsHandler struct {
	settingsService *services.SystemSettingsService
}

// NewSystemSettingsHandler creates a new SystemSettingsHandler.
func NewSystemSettingsHandler(settingsService *services.SystemSettingsService) *SystemSettingsHandler {
	return &SystemSettingsHandler{settingsService: settingsService}
}

// GetSettings handles GET /settings
func (h *SystemSettingsHandler) GetSettings(c *gin.Context) {
	settings, err := h.settingsService.GetSettings(c.Request.Context(), middleware.RestaurantID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

// UpdatePushGateway handles PUT /settings/push-gateway
func (h *SystemSettingsHandler) UpdatePushGateway(c *gin.Context) {
	var req struct {
		Gateway string `json:"gateway" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	settings, err := h.settingsService.UpdatePushGateway(c.Request.Context(), middleware.RestaurantID(c), req.Gateway, middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}
