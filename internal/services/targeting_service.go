package services

import (
	"context"
	"fmt"

	"github.com/ArowuTest/loyalty-admin-backend/internal/models"
	"github.com/ArowuTest/loyalty-admin-backend/internal/repositories"
	"github.com/ArowuTest/loyalty-admin-backend/internal/targeting"
	"golang.org/x/exp/slog"
)

// TargetingService resolves audiences against the live customer roster
type TargetingService struct {
	customerRepo repositories.CustomerRepository
	catalog      *CatalogService
}

// NewTargetingService creates a new TargetingService
func NewTargetingService(customerRepo repositories.CustomerRepository, catalog *CatalogService) *TargetingService {
	return &TargetingService{customerRepo: customerRepo, catalog: catalog}
}

// Resolve returns the ids of the customers matching q. A roster failure
// yields no recipients and an error.
func (s *TargetingService) Resolve(ctx context.Context, restaurantID string, q targeting.Query) ([]string, error) {
	if err := q.Validate(); err != nil {
		return []string{}, err
	}
	roster, err := s.customerRepo.FindAll(ctx, restaurantID)
	if err != nil {
		slog.Error("Failed to fetch roster for targeting", "error", err, "restaurantId", restaurantID, "mode", q.Mode)
		return []string{}, fmt.Errorf("failed to fetch customer roster: %w", err)
	}
	return targeting.Resolve(q, roster), nil
}

// ResolveAudience returns the customers a campaign audience covers
func (s *TargetingService) ResolveAudience(ctx context.Context, restaurantID string, audience models.Audience) ([]string, error) {
	roster, err := s.customerRepo.FindAll(ctx, restaurantID)
	if err != nil {
		slog.Error("Failed to fetch roster for campaign audience", "error", err, "restaurantId", restaurantID)
		return []string{}, fmt.Errorf("failed to fetch customer roster: %w", err)
	}
	return targeting.ResolveAudience(audience, roster), nil
}

// FilterKnown splits ids into customers of the restaurant and unknown ids,
// keeping the input order. A roster failure yields no members and an error.
func (s *TargetingService) FilterKnown(ctx context.Context, restaurantID string, ids []string) (known, unknown []string, err error) {
	roster, err := s.customerRepo.FindAll(ctx, restaurantID)
	if err != nil {
		slog.Error("Failed to fetch roster for explicit recipients", "error", err, "restaurantId", restaurantID)
		return []string{}, nil, fmt.Errorf("failed to fetch customer roster: %w", err)
	}
	members := make(map[string]struct{}, len(roster))
	for i := range roster {
		members[roster[i].ID.Hex()] = struct{}{}
	}
	known = make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := members[id]; ok {
			known = append(known, id)
		} else {
			unknown = append(unknown, id)
		}
	}
	return known, unknown, nil
}

// Estimate returns the display-only audience size from the directory counts
func (s *TargetingService) Estimate(ctx context.Context, restaurantID string, q targeting.Query) (int64, error) {
	if err := q.Validate(); err != nil {
		return 0, err
	}
	var (
		segments []models.Segment
		tiers    []models.Tier
		total    int64
		err      error
	)
	switch q.Mode {
	case targeting.ModeAll:
		total, err = s.customerRepo.Count(ctx, restaurantID)
	case targeting.ModeSegment:
		segments, err = s.catalog.ListSegments(ctx, restaurantID)
	case targeting.ModeTier:
		tiers, err = s.catalog.ListTiers(ctx, restaurantID)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to estimate audience: %w", err)
	}
	return targeting.CountForAudience(q, segments, tiers, total), nil
}
