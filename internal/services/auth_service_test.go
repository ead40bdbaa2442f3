package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ArowuTest/loyalty-admin-backend/internal/models"
	"github.com/ArowuTest/loyalty-admin-backend/internal/repositories"
	"github.com/ArowuTest/loyalty-admin-backend/pkg/jwt"
)

func TestAuthService_RegisterAndLogin(t *testing.T) {
	f := newFixture(t, 100)
	tokens := jwt.NewTokenService("secret", time.Hour)
	svc := NewAuthService(f.repos.AdminUsers, tokens)
	ctx := context.Background()

	user, err := svc.Register(ctx, &models.RegisterRequest{
		FirstName: "Ada", LastName: "Obi", Email: "Ada@Example.com", Password: "correct horse", RestaurantID: restaurant,
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if user.Password == "correct horse" || user.Email != "ada@example.com" {
		t.Errorf("user = %+v", user)
	}

	res, err := svc.Login(ctx, &models.LoginRequest{Email: "ada@example.com", Password: "correct horse"})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	claims, err := tokens.Parse(res.Token)
	if err != nil || claims.RestaurantID != restaurant || claims.UserID != user.ID.Hex() {
		t.Errorf("claims = %+v, err = %v", claims, err)
	}

	if _, err := svc.Login(ctx, &models.LoginRequest{Email: "ada@example.com", Password: "wrong"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password error = %v", err)
	}
	if _, err := svc.Login(ctx, &models.LoginRequest{Email: "nobody@example.com", Password: "x"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email error = %v", err)
	}
	if _, err := svc.Register(ctx, &models.RegisterRequest{Email: "ada@example.com", Password: "another one", RestaurantID: restaurant}); !errors.Is(err, repositories.ErrAlreadyExists) {
		t.Errorf("duplicate register error = %v", err)
	}
}

func TestCustomerService_Create(t *testing.T) {
	f := newFixture(t, 100)
	ctx := context.Background()
	f.addCustomer(t, "ada", "VIP", "Gold")

	dup := &models.Customer{Name: "Ada Two", Phone: "080ada"}
	if err := f.customers.Create(ctx, restaurant, dup); !errors.Is(err, repositories.ErrAlreadyExists) {
		t.Errorf("duplicate phone error = %v", err)
	}
	if err := f.customers.Create(ctx, restaurant, &models.Customer{Name: " ", Phone: "1"}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("blank name error = %v", err)
	}
	if err := f.customers.Create(ctx, "other", &models.Customer{Name: "Ada", Phone: "080ada"}); err != nil {
		t.Errorf("same phone in another restaurant error = %v", err)
	}

	roster, _ := f.customers.List(ctx, restaurant)
	if len(roster) != 1 {
		t.Errorf("roster = %d customers, want 1", len(roster))
	}
}

func TestSystemSettingsService_RejectsUnknownGateway(t *testing.T) {
	f := newFixture(t, 100)
	if _, err := f.settings.UpdatePushGateway(context.Background(), restaurant, "SMOKE_SIGNAL", "admin-1"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("error = %v, want ErrInvalidInput", err)
	}
	settings, err := f.settings.GetSettings(context.Background(), restaurant)
	if err != nil || settings.PushGateway != "MOCK" {
		t.Errorf("settings = %+v, %v", settings, err)
	}
}
