package handlers

import (
	"net/http"

	"github.com/ArowuTest/loyalty-admin-backend/internal/campaigns"
	"github.com/ArowuTest/loyalty-admin-backend/internal/middleware"
	"github.com/ArowuTest/loyalty-admin-backend/internal/models"
	"github.com/ArowuTest/loyalty-admin-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// CampaignHandler handles campaign related HTTP requests
type CampaignHandler struct {
	campaignService   *services.CampaignService
	catalogService    *services.CatalogService
	redemptionService *services.RedemptionService
}

// NewCampaignHandler creates a new CampaignHandler
func NewCampaignHandler(campaignService *services.CampaignService, catalogService *services.CatalogService, redemptionService *services.RedemptionService) *CampaignHandler {
	return &CampaignHandler{
		campaignService:   campaignService,
		catalogService:    catalogService,
		redemptionService: redemptionService,
	}
}

// FormOptions handles GET /campaigns/form-options
func (h *CampaignHandler) FormOptions(c *gin.Context) {
	opts, err := h.catalogService.FormOptions(c.Request.Context(), middleware.RestaurantID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, opts)
}

// Validate handles POST /campaigns/validate?step=
func (h *CampaignHandler) Validate(c *gin.Context) {
	var step campaigns.Step
	if raw := c.Query("step"); raw != "" {
		parsed, ok := campaigns.ParseStep(raw)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown step " + raw})
			return
		}
		step = parsed
	}

	var draft models.Campaign
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	errs := h.campaignService.ValidateDraft(&draft, step)
	if errs == nil {
		errs = campaigns.ValidationErrors{}
	}
	c.JSON(http.StatusOK, gin.H{"valid": len(errs) == 0, "fields": errs})
}

// CreateCampaign handles POST /campaigns
func (h *CampaignHandler) CreateCampaign(c *gin.Context) {
	var campaign models.Campaign
	if err := c.ShouldBindJSON(&campaign); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.campaignService.Create(c.Request.Context(), middleware.RestaurantID(c), middleware.UserID(c), &campaign)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// GetCampaigns handles GET /campaigns
func (h *CampaignHandler) GetCampaigns(c *gin.Context) {
	page, limit := pagination(c)
	filter := models.CampaignFilter{
		RestaurantID: middleware.RestaurantID(c),
		Search:       c.Query("search"),
		Type:         models.CampaignType(c.Query("type")),
		Status:       models.CampaignStatus(c.Query("status")),
		Page:         page,
		Limit:        limit,
	}

	list, total, err := h.campaignService.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	if list == nil {
		list = []*models.Campaign{}
	}
	c.JSON(http.StatusOK, gin.H{"campaigns": list, "total": total, "page": page, "limit": limit})
}

// GetCampaign handles GET /campaigns/:id
func (h *CampaignHandler) GetCampaign(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	campaign, err := h.campaignService.Get(c.Request.Context(), middleware.RestaurantID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, campaign)
}

// GetCampaignForEdit handles GET /campaigns/:id/edit
func (h *CampaignHandler) GetCampaignForEdit(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	view, err := h.campaignService.GetForEdit(c.Request.Context(), middleware.RestaurantID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// UpdateCampaign handles PUT /campaigns/:id
func (h *CampaignHandler) UpdateCampaign(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var campaign models.Campaign
	if err := c.ShouldBindJSON(&campaign); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.campaignService.Update(c.Request.Context(), middleware.RestaurantID(c), id, &campaign)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// SetCampaignStatus handles PATCH /campaigns/:id/status
func (h *CampaignHandler) SetCampaignStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Active *bool `json:"active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	campaign, err := h.campaignService.SetActive(c.Request.Context(), middleware.RestaurantID(c), id, *req.Active)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, campaign)
}

// RetireCampaign handles POST /campaigns/:id/retire
func (h *CampaignHandler) RetireCampaign(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	campaign, err := h.campaignService.Retire(c.Request.Context(), middleware.RestaurantID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, campaign)
}

// DeleteCampaign handles DELETE /campaigns/:id
func (h *CampaignHandler) DeleteCampaign(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.campaignService.Delete(c.Request.Context(), middleware.RestaurantID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// EvaluateCampaign handles POST /campaigns/:id/evaluate
func (h *CampaignHandler) EvaluateCampaign(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req services.OrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.redemptionService.Evaluate(c.Request.Context(), middleware.RestaurantID(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
