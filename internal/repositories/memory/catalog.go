package memory

import (
	"context"
	"sort"
	"time"

	"github.com/ArowuTest/loyalty-admin-backend/internal/models"
	"github.com/ArowuTest/loyalty-admin-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	_ repositories.ProductRepository = (*ProductRepository)(nil)
	_ repositories.SegmentRepository = (*SegmentRepository)(nil)
	_ repositories.TierRepository    = (*TierRepository)(nil)
	_ repositories.RewardRepository  = (*RewardRepository)(nil)
)

// ProductRepository is the in-memory product catalog
type ProductRepository struct {
	s *Store
}

// Create adds a product
func (r *ProductRepository) Create(_ context.Context, product *models.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	product.ID = primitive.NewObjectID()
	product.CreatedAt = time.Now()
	stored := *product
	r.s.products = append(r.s.products, &stored)
	return nil
}

// FindAll returns active products sorted by name
func (r *ProductRepository) FindAll(_ context.Context, restaurantID string) ([]*models.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	products := []*models.Product{}
	for _, p := range r.s.products {
		if p.RestaurantID == restaurantID && p.IsActive {
			out := *p
			products = append(products, &out)
		}
	}
	sort.SliceStable(products, func(i, j int) bool { return products[i].Name < products[j].Name })
	return products, nil
}

// FindByIDs returns the products with the given ids
func (r *ProductRepository) FindByIDs(_ context.Context, restaurantID string, ids []primitive.ObjectID) ([]*models.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	products := []*models.Product{}
	for _, p := range r.s.products {
		if p.RestaurantID == restaurantID && containsID(ids, p.ID) {
			out := *p
			products = append(products, &out)
		}
	}
	return products, nil
}

// DistinctCategories returns the sorted categories of active products
func (r *ProductRepository) DistinctCategories(_ context.Context, restaurantID string) ([]string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	seen := map[string]bool{}
	categories := []string{}
	for _, p := range r.s.products {
		if p.RestaurantID == restaurantID && p.IsActive && p.Category != "" && !seen[p.Category] {
			seen[p.Category] = true
			categories = append(categories, p.Category)
		}
	}
	sort.Strings(categories)
	return categories, nil
}

// SegmentRepository is the in-memory segment directory
type SegmentRepository struct {
	s *Store
}

// Create adds a segment
func (r *SegmentRepository) Create(_ context.Context, segment *models.Segment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.segments {
		if existing.RestaurantID == segment.RestaurantID && existing.Name == segment.Name {
			return repositories.ErrAlreadyExists
		}
	}
	segment.ID = primitive.NewObjectID()
	stored := *segment
	r.s.segments = append(r.s.segments, &stored)
	return nil
}

// FindAll lists segments by name
func (r *SegmentRepository) FindAll(_ context.Context, restaurantID string) ([]models.Segment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	segments := []models.Segment{}
	for _, s := range r.s.segments {
		if s.RestaurantID == restaurantID {
			segments = append(segments, *s)
		}
	}
	sort.SliceStable(segments, func(i, j int) bool { return segments[i].Name < segments[j].Name })
	return segments, nil
}

// UpdateMemberCounts stores recomputed counts; absent segments get zero
func (r *SegmentRepository) UpdateMemberCounts(_ context.Context, restaurantID string, counts map[string]int64, countedAt time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, s := range r.s.segments {
		if s.RestaurantID == restaurantID {
			s.MemberCount = counts[s.Name]
			s.CountedAt = countedAt
		}
	}
	return nil
}

// TierRepository is the in-memory tier directory
type TierRepository struct {
	s *Store
}

// Create adds a tier
func (r *TierRepository) Create(_ context.Context, tier *models.Tier) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.tiers {
		if existing.RestaurantID == tier.RestaurantID && existing.Name == tier.Name {
			return repositories.ErrAlreadyExists
		}
	}
	tier.ID = primitive.NewObjectID()
	stored := *tier
	r.s.tiers = append(r.s.tiers, &stored)
	return nil
}

// FindAll lists tiers by level
func (r *TierRepository) FindAll(_ context.Context, restaurantID string) ([]models.Tier, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	tiers := []models.Tier{}
	for _, t := range r.s.tiers {
		if t.RestaurantID == restaurantID {
			tiers = append(tiers, *t)
		}
	}
	sort.SliceStable(tiers, func(i, j int) bool { return tiers[i].Level < tiers[j].Level })
	return tiers, nil
}

// UpdateMemberCounts stores recomputed counts; absent tiers get zero
func (r *TierRepository) UpdateMemberCounts(_ context.Context, restaurantID string, counts map[string]int64, countedAt time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, t := range r.s.tiers {
		if t.RestaurantID == restaurantID {
			t.MemberCount = counts[t.Name]
			t.CountedAt = countedAt
		}
	}
	return nil
}

// RewardRepository is the in-memory points reward catalog
type RewardRepository struct {
	s *Store
}

// Create adds a catalog reward
func (r *RewardRepository) Create(_ context.Context, reward *models.CatalogReward) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	reward.ID = primitive.NewObjectID()
	reward.CreatedAt = time.Now()
	stored := *reward
	r.s.rewards = append(r.s.rewards, &stored)
	return nil
}

// FindByID returns a catalog reward
func (r *RewardRepository) FindByID(_ context.Context, restaurantID string, id primitive.ObjectID) (*models.CatalogReward, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, rw := range r.s.rewards {
		if rw.ID == id && rw.RestaurantID == restaurantID {
			out := *rw
			return &out, nil
		}
	}
	return nil, repositories.ErrNotFound
}

// FindAll lists active rewards by points cost
func (r *RewardRepository) FindAll(_ context.Context, restaurantID string) ([]*models.CatalogReward, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rewards := []*models.CatalogReward{}
	for _, rw := range r.s.rewards {
		if rw.RestaurantID == restaurantID && rw.IsActive {
			out := *rw
			rewards = append(rewards, &out)
		}
	}
	sort.SliceStable(rewards, func(i, j int) bool { return rewards[i].PointsCost < rewards[j].PointsCost })
	return rewards, nil
}
