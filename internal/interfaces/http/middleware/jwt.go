package middleware

import (
	"net/http"
	"strings"

	"github.com/factorydirect/backend/internal/infrastructure/auth"
	"github.com/factorydirect/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Auth context keys
const (
	AuthClaimsKey    = "auth_claims"
	AuthAccountIDKey = "auth_account_id"
	AuthRoleKey      = "auth_role"
	AuthHeaderKey    = "Authorization"
	BearerPrefix     = "Bearer "
)

// JWTAuth creates authentication middleware that verifies bearer tokens
// and stores the claims in the request context.
func JWTAuth(verifier *auth.TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(AuthHeaderKey)
		if authHeader == "" {
			abortUnauthorized(c, "Missing authorization header")
			return
		}

		if !strings.HasPrefix(authHeader, BearerPrefix) {
			abortUnauthorized(c, "Invalid authorization header format")
			return
		}

		tokenString := strings.TrimPrefix(authHeader, BearerPrefix)
		if tokenString == "" {
			abortUnauthorized(c, "Missing token")
			return
		}

		claims, err := verifier.Verify(tokenString)
		if err != nil {
			abortUnauthorized(c, "Token validation failed")
			return
		}

		c.Set(AuthClaimsKey, claims)
		c.Set(AuthAccountIDKey, claims.AccountID)
		c.Set(AuthRoleKey, claims.Role)

		c.Next()
	}
}

// RequireStaff gates a route group to staff accounts. Must run after JWTAuth.
func RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil || !claims.IsStaff() {
			requestID := c.GetString("request_id")
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeForbidden,
				"Staff role required",
				requestID,
			))
			return
		}
		c.Next()
	}
}

// GetClaims returns the verified claims stored by JWTAuth, or nil
func GetClaims(c *gin.Context) *auth.Claims {
	value, exists := c.Get(AuthClaimsKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*auth.Claims)
	if !ok {
		return nil
	}
	return claims
}

// GetAccountID returns the authenticated account ID, or uuid.Nil
func GetAccountID(c *gin.Context) uuid.UUID {
	claims := GetClaims(c)
	if claims == nil {
		return uuid.Nil
	}
	id, err := claims.Account()
	if err != nil {
		return uuid.Nil
	}
	return id
}

// IsStaff reports whether the authenticated account has the staff role
func IsStaff(c *gin.Context) bool {
	claims := GetClaims(c)
	return claims != nil && claims.IsStaff()
}

func abortUnauthorized(c *gin.Context, message string) {
	requestID := c.GetString("request_id")
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponseWithRequestID(
		dto.ErrCodeUnauthorized,
		message,
		requestID,
	))
}
