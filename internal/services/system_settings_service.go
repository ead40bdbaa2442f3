package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/ArowuTest/loyalty-admin-backend/internal/models"
	"github.com/ArowuTest/loyalty-admin-backend/internal/repositories"
	"golang.org/x/exp/slog"
)

// SystemSettingsService manages per-restaurant settings
type SystemSettingsService struct {
	settingsRepo repositories.SystemSettingsRepository
	gateways     map[string]bool
}

// NewSystemSettingsService creates a new SystemSettingsService. Only the
// configured gateway names can be selected.
func NewSystemSettingsService(settingsRepo repositories.SystemSettingsRepository, gatewayNames []string) *SystemSettingsService {
	gateways := make(map[string]bool, len(gatewayNames))
	for _, name := range gatewayNames {
		gateways[name] = true
	}
	return &SystemSettingsService{
		settingsRepo: settingsRepo,
		gateways:     gateways,
	}
}

// GetSettings retrieves the current settings
func (s *SystemSettingsService) GetSettings(ctx context.Context, restaurantID string) (*models.SystemSettings, error) {
	return s.settingsRepo.GetSettings(ctx, restaurantID)
}

// UpdatePushGateway selects the gateway tried first for dispatches
func (s *SystemSettingsService) UpdatePushGateway(ctx context.Context, restaurantID, gateway, updatedBy string) (*models.SystemSettings, error) {
	gateway = strings.ToUpper(strings.TrimSpace(gateway))
	if !s.gateways[gateway] {
		return nil, fmt.Errorf("%w: gateway %q is not configured", ErrInvalidInput, gateway)
	}
	if err := s.settingsRepo.UpdatePushGateway(ctx, restaurantID, gateway, updatedBy); err != nil {
		return nil, fmt.Errorf("failed to update push gateway: %w", err)
	}
	slog.Info("Push gateway updated", "restaurantId", restaurantID, "gateway", gateway, "updatedBy", updatedBy)
	return s.settingsRepo.GetSettings(ctx, restaurantID)
}
