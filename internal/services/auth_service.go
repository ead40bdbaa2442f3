package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ArowuTest/loyalty-admin-backend/internal/models"
	"github.com/ArowuTest/loyalty-admin-backend/internal/repositories"
	"github.com/ArowuTest/loyalty-admin-backend/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/exp/slog"
)

// DefaultAdminRole is the role given to self-registered admins
const DefaultAdminRole = "admin"

// LoginResponse is returned on a successful login
type LoginResponse struct {
	Token     string            `json:"token"`
	ExpiresAt time.Time         `json:"expiresAt"`
	User      *models.AdminUser `json:"user"`
}

// AuthService handles admin registration and login
type AuthService struct {
	adminRepo repositories.AdminUserRepository
	tokens    *jwt.TokenService
}

// NewAuthService creates a new AuthService
func NewAuthService(adminRepo repositories.AdminUserRepository, tokens *jwt.TokenService) *AuthService {
	return &AuthService{
		adminRepo: adminRepo,
		tokens:    tokens,
	}
}

// Register creates an admin account with a bcrypt password hash
func (s *AuthService) Register(ctx context.Context, req *models.RegisterRequest) (*models.AdminUser, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.AdminUser{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Password:     string(hashedPassword),
		Role:         DefaultAdminRole,
		RestaurantID: req.RestaurantID,
	}
	if err := s.adminRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrAlreadyExists) {
			return nil, fmt.Errorf("%w: email %s", repositories.ErrAlreadyExists, user.Email)
		}
		return nil, fmt.Errorf("failed to create admin user: %w", err)
	}
	slog.Info("Admin user registered", "userId", user.ID.Hex(), "restaurantId", user.RestaurantID)
	return user, nil
}

// Login checks the credentials and issues a token
func (s *AuthService) Login(ctx context.Context, req *models.LoginRequest) (*LoginResponse, error) {
	user, err := s.adminRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			slog.Error("Login lookup failed", "error", err)
		}
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		slog.Warn("Login failed", "userId", user.ID.Hex())
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Issue(user.ID.Hex(), user.Email, user.Role, user.RestaurantID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &LoginResponse{Token: token, ExpiresAt: expiresAt, User: user}, nil
}
