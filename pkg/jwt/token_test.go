package jwt

import (
	"errors"
	"testing"
	"time"
)

func TestTokenService_IssueAndParse(t *testing.T) {
	s := NewTokenService("secret", time.Hour)
	token, exp, err := s.Issue("u1", "admin@example.com", "ADMIN", "r1")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if !exp.After(time.Now()) {
		t.Errorf("expiry %v is not in the future", exp)
	}

	claims, err := s.Parse(token)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if claims.UserID != "u1" || claims.Email != "admin@example.com" || claims.Role != "ADMIN" || claims.RestaurantID != "r1" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestTokenService_Rejects(t *testing.T) {
	s := NewTokenService("secret", time.Hour)
	token, _, _ := s.Issue("u1", "a@b.c", "ADMIN", "r1")

	t.Run("wrong secret", func(t *testing.T) {
		other := NewTokenService("other", time.Hour)
		if _, err := other.Parse(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Parse() error = %v, want ErrInvalidToken", err)
		}
	})

	t.Run("expired", func(t *testing.T) {
		later := NewTokenService("secret", time.Hour)
		later.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		if _, err := later.Parse(token); !errors.Is(err, ErrExpiredToken) {
			t.Errorf("Parse() error = %v, want ErrExpiredToken", err)
		}
	})

	t.Run("missing restaurant", func(t *testing.T) {
		tok, _, _ := s.Issue("u1", "a@b.c", "ADMIN", "")
		if _, err := s.Parse(tok); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Parse() error = %v, want ErrInvalidToken", err)
		}
	})

	t.Run("garbage", func(t *testing.T) {
		if _, err := s.Parse("not.a.token"); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Parse() error = %v, want ErrInvalidToken", err)
		}
	})
}
