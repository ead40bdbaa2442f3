package services

import (
	"context"
	"errors"

	"github.com/ArowuTest/loyalty-admin-backend/internal/models"
)

var (
	// ErrInvalidInput wraps request problems that are not field validation
	ErrInvalidInput = errors.New("invalid input")
	// ErrNoRecipients is returned when a dispatch resolves to nobody
	ErrNoRecipients = errors.New("no recipients to notify")
	// ErrInsufficientPoints is returned when a redemption exceeds the balance
	ErrInsufficientPoints = errors.New("insufficient points")
	// ErrCampaignRetired is returned when changing a retired campaign
	ErrCampaignRetired = errors.New("campaign is retired")
	// ErrInvalidCredentials is returned for any failed login
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// CampaignNotifier announces a newly created campaign to its audience
type CampaignNotifier interface {
	DispatchForCampaign(ctx context.Context, restaurantID string, campaign *models.Campaign, createdBy string) (*models.DispatchRecord, error)
}
