package handlers

import (
	"net/http"

	"github.com/ArowuTest/loyalty-admin-backend/internal/middleware"
	"github.com/ArowuTest/loyalty-admin-backend/internal/models"
	"github.com/ArowuTest/loyalty-admin-backend/internal/services"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CustomerHandler handles customer related HTTP requests
type CustomerHandler struct {
	customerService   *services.CustomerService
	redemptionService *services.RedemptionService
}

// NewCustomerHandler creates a new CustomerHandler
func NewCustomerHandler(customerService *services.CustomerService, redemptionService *services.RedemptionService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService, redemptionService: redemptionService}
}

// GetCustomers handles GET /customers
func (h *CustomerHandler) GetCustomers(c *gin.Context) {
	customers, err := h.customerService.List(c.Request.Context(), middleware.RestaurantID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if customers == nil {
		customers = []models.Customer{}
	}
	c.JSON(http.StatusOK, gin.H{"customers": customers, "total": len(customers)})
}

// GetCustomer handles GET /customers/:id
func (h *CustomerHandler) GetCustomer(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	customer, err := h.customerService.Get(c.Request.Context(), middleware.RestaurantID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

// CreateCustomer handles POST /customers
func (h *CustomerHandler) CreateCustomer(c *gin.Context) {
	var customer models.Customer
	if err := c.ShouldBindJSON(&customer); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.customerService.Create(c.Request.Context(), middleware.RestaurantID(c), &customer); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, customer)
}

// RedeemReward handles POST /customers/:id/redeem
func (h *CustomerHandler) RedeemReward(c *gin.Context) {
	customerID, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req struct {
		RewardID string `json:"rewardId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rewardID, err := primitive.ObjectIDFromHex(req.RewardID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reward ID format"})
		return
	}

	entry, err := h.redemptionService.RedeemReward(c.Request.Context(), middleware.RestaurantID(c), customerID, rewardID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// GetPointHistory handles GET /customers/:id/points
func (h *CustomerHandler) GetPointHistory(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	entries, err := h.redemptionService.PointHistory(c.Request.Context(), middleware.RestaurantID(c), id.Hex())
	if err != nil {
		respondError(c, err)
		return
	}
	if entries == nil {
		entries = []*models.PointTransaction{}
	}
	c.JSON(http.StatusOK, gin.H{"points": entries})
}
