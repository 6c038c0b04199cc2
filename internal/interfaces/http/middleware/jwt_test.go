package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/factorydirect/backend/internal/infrastructure/auth"
	"github.com/factorydirect/backend/internal/infrastructure/config"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "middleware-test-secret-key-32-chars!"

func signToken(t *testing.T, accountID uuid.UUID, role string) string {
	now := time.Now()
	claims := &auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "factorydirect",
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		AccountID: accountID.String(),
		Role:      role,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func newAuthRouter(t *testing.T, staffOnly bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	verifier := auth.NewTokenVerifier(config.JWTConfig{Secret: testSecret, Issuer: "factorydirect"})

	engine := gin.New()
	group := engine.Group("/", JWTAuth(verifier))
	if staffOnly {
		group.Use(RequireStaff())
	}
	group.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"account": GetAccountID(c).String(), "staff": IsStaff(c)})
	})
	return engine
}

func TestJWTAuth(t *testing.T) {
	t.Run("rejects requests without a token", func(t *testing.T) {
		engine := newAuthRouter(t, false)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("rejects malformed authorization headers", func(t *testing.T) {
		engine := newAuthRouter(t, false)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("Authorization", "Token abc")
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("accepts a valid bearer token", func(t *testing.T) {
		engine := newAuthRouter(t, false)
		accountID := uuid.New()

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, accountID, "user"))
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), accountID.String())
	})
}

func TestRequireStaff(t *testing.T) {
	t.Run("blocks regular shoppers", func(t *testing.T) {
		engine := newAuthRouter(t, true)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, uuid.New(), "user"))
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("admits staff accounts", func(t *testing.T) {
		engine := newAuthRouter(t, true)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, uuid.New(), auth.RoleStaff))
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"staff":true`)
	})
}
