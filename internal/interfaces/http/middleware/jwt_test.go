package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velocore/backend/internal/infrastructure/auth"
	"github.com/velocore/backend/internal/infrastructure/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		RefreshSecret:          "test-refresh-secret-key-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "velocore-test",
		MaxRefreshCount:        10,
	})
}

func newAuthedEngine(cfg JWTMiddlewareConfig) *gin.Engine {
	engine := gin.New()
	engine.Use(JWTAuthMiddlewareWithConfig(cfg))
	engine.GET("/api/v1/items", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": GetJWTUserID(c)})
	})
	engine.POST("/api/v1/auth/login", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return engine
}

func issueAccessToken(t *testing.T, svc *auth.JWTService, permissions ...string) (string, uuid.UUID) {
	t.Helper()
	userID := uuid.New()
	pair, err := svc.GenerateTokenPair(auth.GenerateTokenInput{
		UserID:      userID,
		Username:    "testuser",
		Permissions: permissions,
	})
	require.NoError(t, err)
	return pair.AccessToken, userID
}

func TestJWTAuthMiddleware_ValidToken(t *testing.T) {
	svc := newTestJWTService()
	engine := newAuthedEngine(JWTMiddlewareConfig{JWTService: svc})

	token, userID := issueAccessToken(t, svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/items", nil)
	req.Header.Set(AuthHeaderKey, BearerPrefix+token)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), userID.String())
}

func TestJWTAuthMiddleware_MissingHeader(t *testing.T) {
	engine := newAuthedEngine(JWTMiddlewareConfig{JWTService: newTestJWTService()})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/items", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuthMiddleware_MalformedHeader(t *testing.T) {
	engine := newAuthedEngine(JWTMiddlewareConfig{JWTService: newTestJWTService()})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/items", nil)
	req.Header.Set(AuthHeaderKey, "Basic dXNlcjpwYXNz")
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuthMiddleware_InvalidToken(t *testing.T) {
	engine := newAuthedEngine(JWTMiddlewareConfig{JWTService: newTestJWTService()})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/items", nil)
	req.Header.Set(AuthHeaderKey, BearerPrefix+"not-a-token")
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_TOKEN")
}

func TestJWTAuthMiddleware_ExpiredToken(t *testing.T) {
	expiredSvc := auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		AccessTokenExpiration:  -1 * time.Hour,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "velocore-test",
	})
	engine := newAuthedEngine(JWTMiddlewareConfig{JWTService: expiredSvc})

	token, _ := issueAccessToken(t, expiredSvc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/items", nil)
	req.Header.Set(AuthHeaderKey, BearerPrefix+token)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "TOKEN_EXPIRED")
}

func TestJWTAuthMiddleware_SkipPaths(t *testing.T) {
	engine := newAuthedEngine(JWTMiddlewareConfig{
		JWTService: newTestJWTService(),
		SkipPaths:  []string{"/api/v1/auth/login"},
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestJWTAuthMiddleware_SkipPathPrefixes(t *testing.T) {
	engine := gin.New()
	engine.Use(JWTAuthMiddlewareWithConfig(JWTMiddlewareConfig{
		JWTService:       newTestJWTService(),
		SkipPathPrefixes: []string{"/public"},
	}))
	engine.GET("/public/docs", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/public/docs", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestJWTAuthMiddleware_BlacklistedToken(t *testing.T) {
	svc := newTestJWTService()
	blacklist := auth.NewInMemoryTokenBlacklist()
	engine := newAuthedEngine(JWTMiddlewareConfig{
		JWTService:     svc,
		TokenBlacklist: blacklist,
	})

	token, _ := issueAccessToken(t, svc)
	claims, err := svc.ValidateAccessToken(token)
	require.NoError(t, err)
	require.NoError(t, blacklist.AddToBlacklist(context.Background(), claims.ID, time.Hour))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/items", nil)
	req.Header.Set(AuthHeaderKey, BearerPrefix+token)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "TOKEN_REVOKED")
}

func TestJWTAuthMiddleware_InvalidatedUserSession(t *testing.T) {
	svc := newTestJWTService()
	blacklist := auth.NewInMemoryTokenBlacklist()
	engine := newAuthedEngine(JWTMiddlewareConfig{
		JWTService:     svc,
		TokenBlacklist: blacklist,
	})

	token, userID := issueAccessToken(t, svc)
	time.Sleep(2 * time.Millisecond)
	require.NoError(t, blacklist.AddUserTokensToBlacklist(context.Background(), userID.String(), time.Hour))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/items", nil)
	req.Header.Set(AuthHeaderKey, BearerPrefix+token)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuthMiddleware_OnErrorCallback(t *testing.T) {
	called := false
	engine := newAuthedEngine(JWTMiddlewareConfig{
		JWTService: newTestJWTService(),
		OnError: func(c *gin.Context, err error) {
			called = true
			c.AbortWithStatus(http.StatusTeapot)
		},
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/items", nil)
	engine.ServeHTTP(w, req)

	assert.True(t, called)
	assert.Equal(t, http.StatusTeapot, w.Code)
}
