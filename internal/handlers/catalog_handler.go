package handlers

import (
	"net/http"

	"github.com/ArowuTest/loyalty-admin-backend/internal/middleware"
	"github.com/ArowuTest/loyalty-admin-backend/internal/models"
	"github.com/ArowuTest/loyalty-admin-backend/internal/services"
	"github.com/gin-gonic/gin"
)

type productView struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
}

type memberCount struct {
	Customers int64 `json:"customers"`
}

type segmentView struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Count       memberCount `json:"_count"`
}

type tierView struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	DisplayName string      `json:"displayName"`
	Color       string      `json:"color"`
	Level       int         `json:"level"`
	Count       memberCount `json:"_count"`
}

// CatalogHandler serves the product catalog and the segment/tier directory
type CatalogHandler struct {
	catalogService *services.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(catalogService *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// GetProducts handles GET /products
func (h *CatalogHandler) GetProducts(c *gin.Context) {
	products, err := h.catalogService.ListProducts(c.Request.Context(), middleware.RestaurantID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	views := make([]productView, 0, len(products))
	for _, p := range products {
		views = append(views, productView{ID: p.ID.Hex(), Name: p.Name, Category: p.Category, Price: p.Price})
	}
	c.JSON(http.StatusOK, gin.H{"products": views})
}

// CreateProduct handles POST /products
func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var product models.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.catalogService.CreateProduct(c.Request.Context(), middleware.RestaurantID(c), &product); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, productView{ID: product.ID.Hex(), Name: product.Name, Category: product.Category, Price: product.Price})
}

// GetCategories handles GET /categories
func (h *CatalogHandler) GetCategories(c *gin.Context) {
	categories, err := h.catalogService.ListCategories(c.Request.Context(), middleware.RestaurantID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// GetSegments handles GET /segments
func (h *CatalogHandler) GetSegments(c *gin.Context) {
	segments, err := h.catalogService.ListSegments(c.Request.Context(), middleware.RestaurantID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	views := make([]segmentView, 0, len(segments))
	for _, s := range segments {
		views = append(views, toSegmentView(s))
	}
	c.JSON(http.StatusOK, gin.H{"segments": views})
}

// CreateSegment handles POST /segments
func (h *CatalogHandler) CreateSegment(c *gin.Context) {
	var segment models.Segment
	if err := c.ShouldBindJSON(&segment); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.catalogService.CreateSegment(c.Request.Context(), middleware.RestaurantID(c), &segment); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toSegmentView(segment))
}

// GetTiers handles GET /tiers
func (h *CatalogHandler) GetTiers(c *gin.Context) {
	tiers, err := h.catalogService.ListTiers(c.Request.Context(), middleware.RestaurantID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	views := make([]tierView, 0, len(tiers))
	for _, t := range tiers {
		views = append(views, toTierView(t))
	}
	c.JSON(http.StatusOK, gin.H{"tiers": views})
}

// CreateTier handles POST /tiers
func (h *CatalogHandler) CreateTier(c *gin.Context) {
	var tier models.Tier
	if err := c.ShouldBindJSON(&tier); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.catalogService.CreateTier(c.Request.Context(), middleware.RestaurantID(c), &tier); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toTierView(tier))
}

// RecountMembers handles POST /directory/recount
func (h *CatalogHandler) RecountMembers(c *gin.Context) {
	res, err := h.catalogService.RecountMembers(c.Request.Context(), middleware.RestaurantID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func toSegmentView(s models.Segment) segmentView {
	return segmentView{ID: s.ID.Hex(), Name: s.Name, Description: s.Description, Count: memberCount{Customers: s.MemberCount}}
}

func toTierView(t models.Tier) tierView {
	return tierView{
		ID:          t.ID.Hex(),
		Name:        t.Name,
		DisplayName: t.DisplayName,
		Color:       t.Color,
		Level:       t.Level,
		Count:       memberCount{Customers: t.MemberCount},
	}
}
