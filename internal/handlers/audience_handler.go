package handlers

import (
	"net/http"

	"github.com/ArowuTest/loyalty-admin-backend/internal/middleware"
	"github.com/ArowuTest/loyalty-admin-backend/internal/services"
	"github.com/ArowuTest/loyalty-admin-backend/internal/targeting"
	"github.com/gin-gonic/gin"
)

// AudienceHandler answers targeting questions for the dispatch screen
type AudienceHandler struct {
	targetingService *services.TargetingService
}

// NewAudienceHandler creates a new AudienceHandler
func NewAudienceHandler(targetingService *services.TargetingService) *AudienceHandler {
	return &AudienceHandler{targetingService: targetingService}
}

// Estimate handles POST /audience/estimate. The count is for display only.
func (h *AudienceHandler) Estimate(c *gin.Context) {
	var q targeting.Query
	if err := c.ShouldBindJSON(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	n, err := h.targetingService.Estimate(c.Request.Context(), middleware.RestaurantID(c), q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"estimatedRecipients": n})
}

// Resolve handles POST /audience/resolve
func (h *AudienceHandler) Resolve(c *gin.Context) {
	var q targeting.Query
	if err := c.ShouldBindJSON(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ids, err := h.targetingService.Resolve(c.Request.Context(), middleware.RestaurantID(c), q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"customerIds": ids, "count": len(ids)})
}
