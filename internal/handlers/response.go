package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/ArowuTest/loyalty-admin-backend/internal/campaigns"
	"github.com/ArowuTest/loyalty-admin-backend/internal/repositories"
	"github.com/ArowuTest/loyalty-admin-backend/internal/services"
	"github.com/ArowuTest/loyalty-admin-backend/internal/targeting"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/exp/slog"
)

// respondError maps service errors onto HTTP status codes
func respondError(c *gin.Context, err error) {
	var verrs campaigns.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Validation failed", "fields": verrs})
	case errors.Is(err, repositories.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, repositories.ErrAlreadyExists),
		errors.Is(err, repositories.ErrConditionNotMet),
		errors.Is(err, services.ErrCampaignRetired):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidInput),
		errors.Is(err, services.ErrNoRecipients),
		errors.Is(err, services.ErrInsufficientPoints),
		errors.Is(err, targeting.ErrEmptySelection),
		errors.Is(err, targeting.ErrUnknownMode):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		slog.Error("Request failed", "path", c.Request.URL.Path, "error", err)
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// parseID reads an ObjectID path parameter, answering 400 when malformed
func parseID(c *gin.Context, param string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(param))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return primitive.NilObjectID, false
	}
	return id, true
}

// Page size bounds for list endpoints
const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// pagination parses page and limit query parameters. Out-of-range or
// malformed values are clamped so the response echoes what was served.
func pagination(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultPageSize)))
	if err != nil || limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return page, limit
}
