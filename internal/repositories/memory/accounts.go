package memory

import (
	"context"
	"strings"
	"time"

	"github.com/ArowuTest/loyalty-admin-backend/internal/models"
	"github.com/ArowuTest/loyalty-admin-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	_ repositories.AdminUserRepository      = (*AdminUserRepository)(nil)
	_ repositories.SystemSettingsRepository = (*SystemSettingsRepository)(nil)
)

// AdminUserRepository is the in-memory admin account store
type AdminUserRepository struct {
	s *Store
}

// Create adds an admin user; the email must be unused
func (r *AdminUserRepository) Create(_ context.Context, adminUser *models.AdminUser) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	adminUser.Email = strings.ToLower(adminUser.Email)
	for _, a := range r.s.admins {
		if a.Email == adminUser.Email {
			return repositories.ErrAlreadyExists
		}
	}
	adminUser.ID = primitive.NewObjectID()
	adminUser.CreatedAt = time.Now()
	adminUser.UpdatedAt = adminUser.CreatedAt
	stored := *adminUser
	r.s.admins = append(r.s.admins, &stored)
	return nil
}

// FindByEmail finds an admin by email, case-insensitively
func (r *AdminUserRepository) FindByEmail(_ context.Context, email string) (*models.AdminUser, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	email = strings.ToLower(email)
	for _, a := range r.s.admins {
		if a.Email == email {
			out := *a
			return &out, nil
		}
	}
	return nil, repositories.ErrNotFound
}

// FindByID finds an admin by ID
func (r *AdminUserRepository) FindByID(_ context.Context, id primitive.ObjectID) (*models.AdminUser, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, a := range r.s.admins {
		if a.ID == id {
			out := *a
			return &out, nil
		}
	}
	return nil, repositories.ErrNotFound
}

// SystemSettingsRepository is the in-memory per-restaurant settings store
type SystemSettingsRepository struct {
	s *Store
}

// GetSettings returns the settings, creating defaults on first access
func (r *SystemSettingsRepository) GetSettings(_ context.Context, restaurantID string) (*models.SystemSettings, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	settings, ok := r.s.settings[restaurantID]
	if !ok {
		now := time.Now()
		settings = &models.SystemSettings{
			ID:           primitive.NewObjectID(),
			RestaurantID: restaurantID,
			PushGateway:  r.s.defaultGateway,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		r.s.settings[restaurantID] = settings
	}
	out := *settings
	return &out, nil
}

// UpdatePushGateway sets the preferred push gateway
func (r *SystemSettingsRepository) UpdatePushGateway(_ context.Context, restaurantID, gateway, updatedBy string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := time.Now()
	settings, ok := r.s.settings[restaurantID]
	if !ok {
		settings = &models.SystemSettings{ID: primitive.NewObjectID(), RestaurantID: restaurantID, CreatedAt: now}
		r.s.settings[restaurantID] = settings
	}
	settings.PushGateway = gateway
	settings.UpdatedBy = updatedBy
	settings.UpdatedAt = now
	return nil
}
