package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ArowuTest/loyalty-admin-backend/internal/models"
	"github.com/ArowuTest/loyalty-admin-backend/internal/repositories"
	"github.com/ArowuTest/loyalty-admin-backend/pkg/cache"
	"golang.org/x/exp/slog"
	"golang.org/x/sync/errgroup"
)

// CatalogService serves the product catalog and the segment/tier directories
type CatalogService struct {
	productRepo  repositories.ProductRepository
	segmentRepo  repositories.SegmentRepository
	tierRepo     repositories.TierRepository
	customerRepo repositories.CustomerRepository
	cache        cache.Cache
}

// NewCatalogService creates a new CatalogService. Directory listings are
// cached in c.
func NewCatalogService(
	productRepo repositories.ProductRepository,
	segmentRepo repositories.SegmentRepository,
	tierRepo repositories.TierRepository,
	customerRepo repositories.CustomerRepository,
	c cache.Cache,
) *CatalogService {
	return &CatalogService{
		productRepo:  productRepo,
		segmentRepo:  segmentRepo,
		tierRepo:     tierRepo,
		customerRepo: customerRepo,
		cache:        c,
	}
}

// FormOptions is everything the campaign wizard needs to render its pickers
type FormOptions struct {
	Products     []*models.Product    `json:"products"`
	Categories   []string             `json:"categories"`
	Segments     []models.Segment     `json:"segments"`
	Tiers        []models.Tier        `json:"tiers"`
	TriggerTypes []models.TriggerType `json:"triggerTypes"`
	RewardTypes  []models.RewardType  `json:"rewardTypes"`
}

// RecountResult reports the member counts written by RecountMembers
type RecountResult struct {
	Segments  map[string]int64 `json:"segments"`
	Tiers     map[string]int64 `json:"tiers"`
	CountedAt time.Time        `json:"countedAt"`
}

func segmentsKey(restaurantID string) string { return "segments:" + restaurantID }
func tiersKey(restaurantID string) string    { return "tiers:" + restaurantID }

// ListProducts returns the active products of a restaurant
func (s *CatalogService) ListProducts(ctx context.Context, restaurantID string) ([]*models.Product, error) {
	products, err := s.productRepo.FindAll(ctx, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// CreateProduct adds an active product to the catalog
func (s *CatalogService) CreateProduct(ctx context.Context, restaurantID string, product *models.Product) error {
	product.Name = strings.TrimSpace(product.Name)
	product.Category = strings.TrimSpace(product.Category)
	if product.Name == "" || product.Category == "" {
		return fmt.Errorf("%w: product name and category are required", ErrInvalidInput)
	}
	if product.Price < 0 {
		return fmt.Errorf("%w: product price must not be negative", ErrInvalidInput)
	}
	product.RestaurantID = restaurantID
	product.IsActive = true
	if err := s.productRepo.Create(ctx, product); err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	slog.Info("Product created", "restaurantId", restaurantID, "productId", product.ID.Hex(), "category", product.Category)
	return nil
}

// ListCategories returns the distinct product categories, sorted
func (s *CatalogService) ListCategories(ctx context.Context, restaurantID string) ([]string, error) {
	categories, err := s.productRepo.DistinctCategories(ctx, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	sort.Strings(categories)
	return categories, nil
}

// ListSegments returns the segment directory. Member counts may be stale.
func (s *CatalogService) ListSegments(ctx context.Context, restaurantID string) ([]models.Segment, error) {
	var segments []models.Segment
	if s.fromCache(ctx, segmentsKey(restaurantID), &segments) {
		return segments, nil
	}
	segments, err := s.segmentRepo.FindAll(ctx, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list segments: %w", err)
	}
	s.toCache(ctx, segmentsKey(restaurantID), segments)
	return segments, nil
}

// ListTiers returns the tier directory ordered by level
func (s *CatalogService) ListTiers(ctx context.Context, restaurantID string) ([]models.Tier, error) {
	var tiers []models.Tier
	if s.fromCache(ctx, tiersKey(restaurantID), &tiers) {
		return tiers, nil
	}
	tiers, err := s.tierRepo.FindAll(ctx, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tiers: %w", err)
	}
	sort.SliceStable(tiers, func(i, j int) bool { return tiers[i].Level < tiers[j].Level })
	s.toCache(ctx, tiersKey(restaurantID), tiers)
	return tiers, nil
}

// CreateSegment adds a segment to the directory
func (s *CatalogService) CreateSegment(ctx context.Context, restaurantID string, segment *models.Segment) error {
	segment.Name = strings.TrimSpace(segment.Name)
	if segment.Name == "" {
		return fmt.Errorf("%w: segment name is required", ErrInvalidInput)
	}
	segment.RestaurantID = restaurantID
	if err := s.segmentRepo.Create(ctx, segment); err != nil {
		return fmt.Errorf("failed to create segment: %w", err)
	}
	s.invalidate(ctx, segmentsKey(restaurantID))
	return nil
}

// CreateTier adds a tier to the directory
func (s *CatalogService) CreateTier(ctx context.Context, restaurantID string, tier *models.Tier) error {
	tier.Name = strings.TrimSpace(tier.Name)
	if tier.Name == "" {
		return fmt.Errorf("%w: tier name is required", ErrInvalidInput)
	}
	if tier.DisplayName == "" {
		tier.DisplayName = tier.Name
	}
	tier.RestaurantID = restaurantID
	if err := s.tierRepo.Create(ctx, tier); err != nil {
		return fmt.Errorf("failed to create tier: %w", err)
	}
	s.invalidate(ctx, tiersKey(restaurantID))
	return nil
}

// RecountMembers recomputes the precomputed member counts from the live roster
func (s *CatalogService) RecountMembers(ctx context.Context, restaurantID string) (*RecountResult, error) {
	bySegment, err := s.customerRepo.CountBySegment(ctx, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("failed to count customers by segment: %w", err)
	}
	byTier, err := s.customerRepo.CountByTier(ctx, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("failed to count customers by tier: %w", err)
	}

	now := time.Now()
	if err := s.segmentRepo.UpdateMemberCounts(ctx, restaurantID, bySegment, now); err != nil {
		return nil, fmt.Errorf("failed to store segment counts: %w", err)
	}
	if err := s.tierRepo.UpdateMemberCounts(ctx, restaurantID, byTier, now); err != nil {
		return nil, fmt.Errorf("failed to store tier counts: %w", err)
	}
	s.invalidate(ctx, segmentsKey(restaurantID), tiersKey(restaurantID))

	slog.Info("Directory member counts recomputed", "restaurantId", restaurantID, "segments", len(bySegment), "tiers", len(byTier))
	return &RecountResult{Segments: bySegment, Tiers: byTier, CountedAt: now}, nil
}

// FormOptions loads the wizard pickers concurrently. Any failing fetch fails
// the whole call.
func (s *CatalogService) FormOptions(ctx context.Context, restaurantID string) (*FormOptions, error) {
	opts := &FormOptions{
		TriggerTypes: models.TriggerTypes,
		RewardTypes:  models.RewardTypes,
	}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		opts.Products, err = s.ListProducts(gctx, restaurantID)
		return err
	})
	g.Go(func() (err error) {
		opts.Categories, err = s.ListCategories(gctx, restaurantID)
		return err
	})
	g.Go(func() (err error) {
		opts.Segments, err = s.ListSegments(gctx, restaurantID)
		return err
	})
	g.Go(func() (err error) {
		opts.Tiers, err = s.ListTiers(gctx, restaurantID)
		return err
	})
	if err := g.Wait(); err != nil {
		slog.Error("Failed to load campaign form options", "error", err, "restaurantId", restaurantID)
		return nil, err
	}
	return opts, nil
}

func (s *CatalogService) fromCache(ctx context.Context, key string, dst interface{}) bool {
	if s.cache == nil {
		return false
	}
	found, err := s.cache.Get(ctx, key, dst)
	if err != nil {
		slog.Warn("Directory cache read failed", "error", err, "key", key)
		return false
	}
	return found
}

func (s *CatalogService) toCache(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value); err != nil {
		slog.Warn("Directory cache write failed", "error", err, "key", key)
	}
}

func (s *CatalogService) invalidate(ctx context.Context, keys ...string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		slog.Warn("Directory cache invalidation failed", "error", err, "keys", keys)
	}
}
