package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/ArowuTest/loyalty-admin-backend/pkg/jwt"
	"github.com/gin-gonic/gin"
	"golang.org/x/exp/slog"
)

// Context keys set by JWTAuthMiddleware
const (
	ContextUserID       = "userID"
	ContextUserEmail    = "userEmail"
	ContextUserRole     = "userRole"
	ContextRestaurantID = "restaurantID"
)

// JWTAuthMiddleware creates a gin middleware for JWT authentication.
// Every admin request is scoped to the restaurant named in the token.
func JWTAuthMiddleware(tokens *jwt.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const BearerSchema = "Bearer "
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			slog.Warn("Authorization header is missing", "path", c.Request.URL.Path)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			return
		}

		if !strings.HasPrefix(authHeader, BearerSchema) {
			slog.Warn("Authorization header format is invalid", "path", c.Request.URL.Path)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header must start with Bearer "})
			return
		}

		claims, err := tokens.Parse(authHeader[len(BearerSchema):])
		if err != nil {
			slog.Warn("Token validation failed", "error", err)
			if errors.Is(err, jwt.ErrExpiredToken) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token has expired"})
			} else {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			}
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUserEmail, claims.Email)
		c.Set(ContextUserRole, claims.Role)
		c.Set(ContextRestaurantID, claims.RestaurantID)
		c.Next()
	}
}

// RestaurantID returns the restaurant the authenticated admin belongs to
func RestaurantID(c *gin.Context) string {
	return c.GetString(ContextRestaurantID)
}

// UserID returns the authenticated admin's ID
func UserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}
