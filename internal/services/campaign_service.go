package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ArowuTest/loyalty-admin-backend/internal/campaigns"
	"github.com/ArowuTest/loyalty-admin-backend/internal/models"
	"github.com/ArowuTest/loyalty-admin-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/exp/slog"
)

// CampaignService manages the campaign lifecycle
type CampaignService struct {
	campaignRepo repositories.CampaignRepository
	notifier     CampaignNotifier
}

// NewCampaignService creates a new CampaignService. notifier may be nil,
// in which case campaign announcements are skipped.
func NewCampaignService(campaignRepo repositories.CampaignRepository, notifier CampaignNotifier) *CampaignService {
	return &CampaignService{campaignRepo: campaignRepo, notifier: notifier}
}

// CreateResult is a stored campaign plus the outcome of its announcement
type CreateResult struct {
	Campaign      *models.Campaign       `json:"campaign"`
	Dispatch      *models.DispatchRecord `json:"dispatch,omitempty"`
	DispatchError string                 `json:"dispatchError,omitempty"`
}

// EditView is a campaign with the trigger/reward selection the wizard restores
type EditView struct {
	Campaign  *models.Campaign    `json:"campaign"`
	Selection campaigns.Selection `json:"selection"`
}

// Create validates and stores a new campaign. When notification.send is set
// the audience is notified; a failed announcement does not undo the campaign.
func (s *CampaignService) Create(ctx context.Context, restaurantID, createdBy string, campaign *models.Campaign) (*CreateResult, error) {
	campaigns.ApplyDefaults(campaign)
	if errs := campaigns.Validate(campaign); errs != nil {
		return nil, errs
	}
	if campaign.Status == models.CampaignStatusRetired {
		return nil, fmt.Errorf("%w: a new campaign cannot start retired", ErrInvalidInput)
	}

	campaign.ID = primitive.NilObjectID
	campaign.RestaurantID = restaurantID
	campaign.Type = campaigns.Classify(campaign.Trigger.Type, campaign.Reward.Type)
	campaign.UsageCount = 0
	campaign.CreatedBy = createdBy
	campaign.RetiredAt = nil

	if err := s.campaignRepo.Create(ctx, campaign); err != nil {
		slog.Error("Failed to create campaign", "error", err, "restaurantId", restaurantID)
		return nil, fmt.Errorf("failed to create campaign: %w", err)
	}
	slog.Info("Campaign created", "campaignId", campaign.ID.Hex(), "restaurantId", restaurantID, "type", campaign.Type)

	result := &CreateResult{Campaign: campaign}
	if campaign.Notification.Send && s.notifier != nil {
		record, err := s.notifier.DispatchForCampaign(ctx, restaurantID, campaign, createdBy)
		if err != nil {
			slog.Error("Campaign announcement failed", "error", err, "campaignId", campaign.ID.Hex())
			result.DispatchError = err.Error()
		}
		result.Dispatch = record
	}
	return result, nil
}

// Update replaces the editable fields of a campaign. Trigger, reward and
// audience are replaced wholesale and the type is derived again.
func (s *CampaignService) Update(ctx context.Context, restaurantID string, id primitive.ObjectID, campaign *models.Campaign) (*models.Campaign, error) {
	existing, err := s.campaignRepo.FindByID(ctx, restaurantID, id)
	if err != nil {
		return nil, err
	}
	if existing.Status == models.CampaignStatusRetired {
		return nil, ErrCampaignRetired
	}

	if campaign.Status == "" {
		campaign.Status = existing.Status
	}
	campaigns.ApplyDefaults(campaign)
	if errs := campaigns.Validate(campaign); errs != nil {
		return nil, errs
	}
	if campaign.Status == models.CampaignStatusRetired {
		return nil, fmt.Errorf("%w: use retire to retire a campaign", ErrInvalidInput)
	}

	campaign.ID = existing.ID
	campaign.RestaurantID = existing.RestaurantID
	campaign.Type = campaigns.Classify(campaign.Trigger.Type, campaign.Reward.Type)
	campaign.RetiredAt = nil

	if err := s.campaignRepo.Update(ctx, campaign); err != nil {
		if errors.Is(err, repositories.ErrConditionNotMet) {
			return nil, ErrCampaignRetired
		}
		return nil, fmt.Errorf("failed to update campaign: %w", err)
	}
	slog.Info("Campaign updated", "campaignId", id.Hex(), "restaurantId", restaurantID, "type", campaign.Type)
	return s.campaignRepo.FindByID(ctx, restaurantID, id)
}

// Get returns one campaign
func (s *CampaignService) Get(ctx context.Context, restaurantID string, id primitive.ObjectID) (*models.Campaign, error) {
	return s.campaignRepo.FindByID(ctx, restaurantID, id)
}

// GetForEdit returns a campaign and the selection the edit wizard starts from
func (s *CampaignService) GetForEdit(ctx context.Context, restaurantID string, id primitive.ObjectID) (*EditView, error) {
	campaign, err := s.campaignRepo.FindByID(ctx, restaurantID, id)
	if err != nil {
		return nil, err
	}
	return &EditView{Campaign: campaign, Selection: campaigns.EditSelection(campaign)}, nil
}

// List returns a page of campaigns and the total matching count
func (s *CampaignService) List(ctx context.Context, filter models.CampaignFilter) ([]*models.Campaign, int64, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}
	return s.campaignRepo.FindAll(ctx, filter)
}

// SetActive toggles a campaign between ACTIVE and INACTIVE
func (s *CampaignService) SetActive(ctx context.Context, restaurantID string, id primitive.ObjectID, active bool) (*models.Campaign, error) {
	existing, err := s.campaignRepo.FindByID(ctx, restaurantID, id)
	if err != nil {
		return nil, err
	}
	if existing.Status == models.CampaignStatusRetired {
		return nil, ErrCampaignRetired
	}
	status := models.CampaignStatusInactive
	if active {
		status = models.CampaignStatusActive
	}
	if err := s.campaignRepo.UpdateStatus(ctx, restaurantID, id, status, nil); err != nil {
		return nil, fmt.Errorf("failed to update campaign status: %w", err)
	}
	existing.Status = status
	slog.Info("Campaign status changed", "campaignId", id.Hex(), "status", status)
	return existing, nil
}

// Retire soft-deletes a campaign; it stays listed but can no longer apply
func (s *CampaignService) Retire(ctx context.Context, restaurantID string, id primitive.ObjectID) (*models.Campaign, error) {
	existing, err := s.campaignRepo.FindByID(ctx, restaurantID, id)
	if err != nil {
		return nil, err
	}
	if existing.Status == models.CampaignStatusRetired {
		return existing, nil
	}
	now := time.Now()
	if err := s.campaignRepo.UpdateStatus(ctx, restaurantID, id, models.CampaignStatusRetired, &now); err != nil {
		return nil, fmt.Errorf("failed to retire campaign: %w", err)
	}
	existing.Status = models.CampaignStatusRetired
	existing.RetiredAt = &now
	slog.Info("Campaign retired", "campaignId", id.Hex(), "restaurantId", restaurantID)
	return existing, nil
}

// Delete removes a campaign permanently
func (s *CampaignService) Delete(ctx context.Context, restaurantID string, id primitive.ObjectID) error {
	if err := s.campaignRepo.Delete(ctx, restaurantID, id); err != nil {
		return err
	}
	slog.Warn("Campaign deleted", "campaignId", id.Hex(), "restaurantId", restaurantID)
	return nil
}

// ValidateDraft checks a wizard draft without storing it. An empty step
// validates everything.
func (s *CampaignService) ValidateDraft(draft *models.Campaign, step campaigns.Step) campaigns.ValidationErrors {
	c := *draft
	campaigns.ApplyDefaults(&c)
	if step == "" {
		return campaigns.Validate(&c)
	}
	return campaigns.ValidateStep(&c, step)
}
