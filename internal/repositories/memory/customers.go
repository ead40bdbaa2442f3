package memory

import (
	"context"
	"errors"
	"time"

	"github.com/ArowuTest/loyalty-admin-backend/internal/models"
	"github.com/ArowuTest/loyalty-admin-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var _ repositories.CustomerRepository = (*CustomerRepository)(nil)

// CustomerRepository is the in-memory customer roster
type CustomerRepository struct {
	s *Store
}

// Create adds a customer to the roster
func (r *CustomerRepository) Create(_ context.Context, customer *models.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	customer.ID = primitive.NewObjectID()
	customer.CreatedAt = time.Now()
	customer.UpdatedAt = customer.CreatedAt
	stored := *customer
	r.s.customers = append(r.s.customers, &stored)
	return nil
}

func (r *CustomerRepository) byID(id primitive.ObjectID) *models.Customer {
	for _, c := range r.s.customers {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// FindByID returns a copy of the customer
func (r *CustomerRepository) FindByID(_ context.Context, restaurantID string, id primitive.ObjectID) (*models.Customer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c := r.byID(id)
	if c == nil || c.RestaurantID != restaurantID {
		return nil, repositories.ErrNotFound
	}
	out := *c
	return &out, nil
}

// FindByPhone returns the customer with the phone number
func (r *CustomerRepository) FindByPhone(_ context.Context, restaurantID, phone string) (*models.Customer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, c := range r.s.customers {
		if c.RestaurantID == restaurantID && c.Phone == phone {
			out := *c
			return &out, nil
		}
	}
	return nil, repositories.ErrNotFound
}

// Update replaces the stored customer
func (r *CustomerRepository) Update(_ context.Context, customer *models.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for i, c := range r.s.customers {
		if c.ID == customer.ID && c.RestaurantID == customer.RestaurantID {
			customer.UpdatedAt = time.Now()
			stored := *customer
			r.s.customers[i] = &stored
			return nil
		}
	}
	return repositories.ErrNotFound
}

// FindAll returns the roster of a restaurant in insertion order
func (r *CustomerRepository) FindAll(_ context.Context, restaurantID string) ([]models.Customer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	roster := []models.Customer{}
	for _, c := range r.s.customers {
		if c.RestaurantID == restaurantID {
			roster = append(roster, *c)
		}
	}
	return roster, nil
}

// Count counts the restaurant's customers
func (r *CustomerRepository) Count(_ context.Context, restaurantID string) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var n int64
	for _, c := range r.s.customers {
		if c.RestaurantID == restaurantID {
			n++
		}
	}
	return n, nil
}

// CountBySegment counts customers per segment name
func (r *CustomerRepository) CountBySegment(_ context.Context, restaurantID string) (map[string]int64, error) {
	return r.countBy(restaurantID, func(c *models.Customer) string { return c.Segment }), nil
}

// CountByTier counts customers per tier name
func (r *CustomerRepository) CountByTier(_ context.Context, restaurantID string) (map[string]int64, error) {
	return r.countBy(restaurantID, func(c *models.Customer) string { return c.LoyaltyTier }), nil
}

func (r *CustomerRepository) countBy(restaurantID string, key func(c *models.Customer) string) map[string]int64 {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	counts := make(map[string]int64)
	for _, c := range r.s.customers {
		if c.RestaurantID == restaurantID && key(c) != "" {
			counts[key(c)]++
		}
	}
	return counts
}

// IncrementPoints adjusts the points balance
func (r *CustomerRepository) IncrementPoints(_ context.Context, id primitive.ObjectID, points int) error {
	if points == 0 {
		return errors.New("points delta must be non-zero")
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c := r.byID(id)
	if c == nil {
		return repositories.ErrNotFound
	}
	c.TotalPoints += points
	c.UpdatedAt = time.Now()
	return nil
}

// DeductPoints removes points while the balance covers them
func (r *CustomerRepository) DeductPoints(_ context.Context, id primitive.ObjectID, points int) error {
	if points <= 0 {
		return errors.New("points to deduct must be positive")
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c := r.byID(id)
	if c == nil {
		return repositories.ErrNotFound
	}
	if c.TotalPoints < points {
		return repositories.ErrConditionNotMet
	}
	c.TotalPoints -= points
	c.UpdatedAt = time.Now()
	return nil
}

// RecordVisit increments the visit count
func (r *CustomerRepository) RecordVisit(_ context.Context, id primitive.ObjectID, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c := r.byID(id)
	if c == nil {
		return repositories.ErrNotFound
	}
	c.VisitCount++
	c.LastVisit = at
	c.UpdatedAt = time.Now()
	return nil
}
