package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ArowuTest/loyalty-admin-backend/internal/models"
	"github.com/ArowuTest/loyalty-admin-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/exp/slog"
)

// CustomerService handles customer roster operations
type CustomerService struct {
	customerRepo repositories.CustomerRepository
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(customerRepo repositories.CustomerRepository) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
	}
}

// List returns the full roster of a restaurant
func (s *CustomerService) List(ctx context.Context, restaurantID string) ([]models.Customer, error) {
	return s.customerRepo.FindAll(ctx, restaurantID)
}

// Get retrieves a customer by ID
func (s *CustomerService) Get(ctx context.Context, restaurantID string, id primitive.ObjectID) (*models.Customer, error) {
	return s.customerRepo.FindByID(ctx, restaurantID, id)
}

// Create adds a customer. Phone numbers are unique per restaurant.
func (s *CustomerService) Create(ctx context.Context, restaurantID string, customer *models.Customer) error {
	customer.Name = strings.TrimSpace(customer.Name)
	customer.Phone = strings.TrimSpace(customer.Phone)
	if customer.Name == "" || customer.Phone == "" {
		return fmt.Errorf("%w: customer name and phone are required", ErrInvalidInput)
	}

	_, err := s.customerRepo.FindByPhone(ctx, restaurantID, customer.Phone)
	switch {
	case err == nil:
		return fmt.Errorf("%w: phone %s", repositories.ErrAlreadyExists, customer.Phone)
	case !errors.Is(err, repositories.ErrNotFound):
		return fmt.Errorf("failed to check phone: %w", err)
	}

	customer.RestaurantID = restaurantID
	customer.TotalPoints = 0
	customer.VisitCount = 0
	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}
	slog.Info("Customer created", "customerId", customer.ID.Hex(), "restaurantId", restaurantID, "tier", customer.LoyaltyTier, "segment", customer.Segment)
	return nil
}
