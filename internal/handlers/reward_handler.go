package handlers

import (
	"net/http"

	"github.com/ArowuTest/loyalty-admin-backend/internal/middleware"
	"github.com/ArowuTest/loyalty-admin-backend/internal/models"
	"github.com/ArowuTest/loyalty-admin-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// RewardHandler handles the reward catalog and order transactions
type RewardHandler struct {
	redemptionService *services.RedemptionService
}

// NewRewardHandler creates a new RewardHandler
func NewRewardHandler(redemptionService *services.RedemptionService) *RewardHandler {
	return &RewardHandler{redemptionService: redemptionService}
}

// GetRewards handles GET /rewards
func (h *RewardHandler) GetRewards(c *gin.Context) {
	rewards, err := h.redemptionService.ListRewards(c.Request.Context(), middleware.RestaurantID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if rewards == nil {
		rewards = []*models.CatalogReward{}
	}
	c.JSON(http.StatusOK, gin.H{"rewards": rewards})
}

// CreateReward handles POST /rewards
func (h *RewardHandler) CreateReward(c *gin.Context) {
	var reward models.CatalogReward
	if err := c.ShouldBindJSON(&reward); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.redemptionService.CreateReward(c.Request.Context(), middleware.RestaurantID(c), &reward); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, reward)
}

// RecordTransaction handles POST /transactions
func (h *RewardHandler) RecordTransaction(c *gin.Context) {
	var req services.OrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	tx, err := h.redemptionService.RecordTransaction(c.Request.Context(), middleware.RestaurantID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tx)
}

// GetCustomerTransactions handles GET /transactions/customer/:id
func (h *RewardHandler) GetCustomerTransactions(c *gin.Context) {
	page, limit := pagination(c)
	txs, err := h.redemptionService.ListTransactions(c.Request.Context(), middleware.RestaurantID(c), c.Param("id"), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	if txs == nil {
		txs = []*models.Transaction{}
	}
	c.JSON(http.StatusOK, gin.H{"transactions": txs, "page": page, "limit": limit})
}
