// Package jwt issues and parses the bearer tokens that guard the admin API.
package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken covers malformed, badly signed and incomplete tokens
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken is returned for a well-formed token past its exp
	ErrExpiredToken = errors.New("token has expired")
)

// Claims are the identity fields carried by an admin token
type Claims struct {
	UserID       string
	Email        string
	Role         string
	RestaurantID string
	ExpiresAt    time.Time
}

// TokenService signs and verifies HS256 admin tokens
type TokenService struct {
	secret    []byte
	expiresIn time.Duration
	now       func() time.Time
}

// NewTokenService creates a token service; expiresIn defaults to 24h
func NewTokenService(secret string, expiresIn time.Duration) *TokenService {
	if expiresIn <= 0 {
		expiresIn = 24 * time.Hour
	}
	return &TokenService{secret: []byte(secret), expiresIn: expiresIn, now: time.Now}
}

// Issue signs a token for the given identity
func (s *TokenService) Issue(userID, email, role, restaurantID string) (string, time.Time, error) {
	if len(s.secret) == 0 {
		return "", time.Time{}, errors.New("jwt secret is not configured")
	}
	now := s.now()
	exp := now.Add(s.expiresIn)
	claims := jwt.MapClaims{
		"sub":          userID,
		"email":        email,
		"role":         role,
		"restaurantId": restaurantID,
		"iat":          now.Unix(),
		"exp":          exp.Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, exp, nil
}

// Parse verifies tokenString and returns its claims. Tokens without a
// subject or restaurant are rejected.
func (s *TokenService) Parse(tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	claims := &Claims{
		UserID:       stringClaim(mapClaims, "sub"),
		Email:        stringClaim(mapClaims, "email"),
		Role:         stringClaim(mapClaims, "role"),
		RestaurantID: stringClaim(mapClaims, "restaurantId"),
	}
	if exp, err := mapClaims.GetExpirationTime(); err == nil && exp != nil {
		claims.ExpiresAt = exp.Time
	}
	if claims.UserID == "" || claims.RestaurantID == "" {
		return nil, fmt.Errorf("%w: missing subject or restaurant", ErrInvalidToken)
	}
	return claims, nil
}

func stringClaim(claims jwt.MapClaims, key string) string {
	v, _ := claims[key].(string)
	return v
}
