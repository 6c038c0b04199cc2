package auth

import (
	"errors"

	"github.com/factorydirect/backend/internal/infrastructure/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Common errors
var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrExpiredToken  = errors.New("token has expired")
	ErrInvalidClaims = errors.New("invalid token claims")
)

// RoleStaff marks accounts allowed to manage inventory and all orders.
// Every other role value is treated as a regular shopper.
const RoleStaff = "staff"

// Claims are the token claims issued by the identity service. This
// service only verifies them; it never signs tokens.
type Claims struct {
	jwt.RegisteredClaims
	AccountID string `json:"account_id"`
	Name      string `json:"name,omitempty"`
	Email     string `json:"email,omitempty"`
	Role      string `json:"role,omitempty"`
}

// Account returns the account ID as a UUID
func (c *Claims) Account() (uuid.UUID, error) {
	id, err := uuid.Parse(c.AccountID)
	if err != nil {
		return uuid.Nil, ErrInvalidClaims
	}
	return id, nil
}

// IsStaff reports whether the token carries the staff role
func (c *Claims) IsStaff() bool {
	return c.Role == RoleStaff
}

// TokenVerifier validates bearer tokens against the shared signing secret
type TokenVerifier struct {
	secret []byte
	issuer string
}

// NewTokenVerifier creates a TokenVerifier from JWT configuration
func NewTokenVerifier(cfg config.JWTConfig) *TokenVerifier {
	return &TokenVerifier{
		secret: []byte(cfg.Secret),
		issuer: cfg.Issuer,
	}
}

// Verify parses and validates a token string and returns its claims
func (v *TokenVerifier) Verify(tokenString string) (*Claims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"})}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, opts...)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaims
	}

	if claims.AccountID == "" {
		return nil, ErrInvalidClaims
	}
	if _, err := uuid.Parse(claims.AccountID); err != nil {
		return nil, ErrInvalidClaims
	}

	return claims, nil
}
