package handlers

import (
	"net/http"

	"github.com/ArowuTest/loyalty-admin-backend/internal/middleware"
	"github.com/ArowuTest/loyalty-admin-backend/internal/models"
	"github.com/ArowuTest/loyalty-admin-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// NotificationHandler handles notification-related HTTP requests
type NotificationHandler struct {
	notificationService *services.NotificationService
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notificationService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// Dispatch handles POST /notifications/dispatch. Partial delivery is a
// successful response carrying the sent and failed counts.
func (h *NotificationHandler) Dispatch(c *gin.Context) {
	var req services.DispatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req.CreatedBy = middleware.UserID(c)

	record, err := h.notificationService.Dispatch(c.Request.Context(), middleware.RestaurantID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, record)
}

// GetNotifications handles GET /notifications
func (h *NotificationHandler) GetNotifications(c *gin.Context) {
	page, limit := pagination(c)
	records, total, err := h.notificationService.List(c.Request.Context(), middleware.RestaurantID(c), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	if records == nil {
		records = []*models.DispatchRecord{}
	}
	c.JSON(http.StatusOK, gin.H{"notifications": records, "total": total, "page": page, "limit": limit})
}

// GetNotificationByID handles GET /notifications/:id
func (h *NotificationHandler) GetNotificationByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	record, err := h.notificationService.Get(c.Request.Context(), middleware.RestaurantID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

// GetSummary handles GET /notifications/summary
func (h *NotificationHandler) GetSummary(c *gin.Context) {
	summary, err := h.notificationService.Summary(c.Request.Context(), middleware.RestaurantID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
