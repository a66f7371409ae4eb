package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/velocore/backend/internal/domain/identity"
	"github.com/velocore/backend/internal/infrastructure/auth"
)

func withClaims(permissions ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(JWTClaimsKey, &auth.Claims{
			UserID:      "00000000-0000-0000-0000-000000000001",
			Permissions: permissions,
		})
		c.Next()
	}
}

func performRequest(engine *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	engine.ServeHTTP(w, req)
	return w
}

func okHandler(c *gin.Context) {
	c.Status(http.StatusOK)
}

func TestRequirePermission_Granted(t *testing.T) {
	engine := gin.New()
	engine.Use(withClaims("item:read"))
	engine.GET("/items", RequirePermission("item:read"), okHandler)

	w := performRequest(engine, http.MethodGet, "/items")

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequirePermission_Denied(t *testing.T) {
	engine := gin.New()
	engine.Use(withClaims("item:read"))
	engine.DELETE("/items", RequirePermission("item:delete"), okHandler)

	w := performRequest(engine, http.MethodDelete, "/items")

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "ERR_FORBIDDEN")
}

func TestRequirePermission_NoClaims(t *testing.T) {
	engine := gin.New()
	engine.GET("/items", RequirePermission("item:read"), okHandler)

	w := performRequest(engine, http.MethodGet, "/items")

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireAnyPermission(t *testing.T) {
	engine := gin.New()
	engine.Use(withClaims("warehouse:read"))
	engine.GET("/either", RequireAnyPermission("item:read", "warehouse:read"), okHandler)
	engine.GET("/neither", RequireAnyPermission("item:read", "item:create"), okHandler)

	assert.Equal(t, http.StatusOK, performRequest(engine, http.MethodGet, "/either").Code)
	assert.Equal(t, http.StatusForbidden, performRequest(engine, http.MethodGet, "/neither").Code)
}

func TestRequireAllPermissions(t *testing.T) {
	engine := gin.New()
	engine.Use(withClaims("item:read", "item:create"))
	engine.GET("/both", RequireAllPermissions("item:read", "item:create"), okHandler)
	engine.GET("/missing", RequireAllPermissions("item:read", "item:delete"), okHandler)

	assert.Equal(t, http.StatusOK, performRequest(engine, http.MethodGet, "/both").Code)
	assert.Equal(t, http.StatusForbidden, performRequest(engine, http.MethodGet, "/missing").Code)
}

func TestRequireResource_MapsMethodToAction(t *testing.T) {
	engine := gin.New()
	engine.Use(withClaims("item:read", "item:create"))

	group := engine.Group("/items", RequireResource(identity.ResourceItem))
	{
		group.GET("", okHandler)
		group.POST("", okHandler)
		group.PUT("/1", okHandler)
		group.DELETE("/1", okHandler)
	}

	assert.Equal(t, http.StatusOK, performRequest(engine, http.MethodGet, "/items").Code)
	assert.Equal(t, http.StatusOK, performRequest(engine, http.MethodPost, "/items").Code)
	assert.Equal(t, http.StatusForbidden, performRequest(engine, http.MethodPut, "/items/1").Code)
	assert.Equal(t, http.StatusForbidden, performRequest(engine, http.MethodDelete, "/items/1").Code)
}

func TestRequireResourceAction(t *testing.T) {
	engine := gin.New()
	engine.Use(withClaims("goods_receipt:post"))
	engine.POST("/goods-receipts/1/post",
		RequireResourceAction(identity.ResourceGoodsReceipt, identity.ActionPost), okHandler)
	engine.POST("/goods-receipts/1/cancel",
		RequireResourceAction(identity.ResourceGoodsReceipt, identity.ActionCancel), okHandler)

	assert.Equal(t, http.StatusOK, performRequest(engine, http.MethodPost, "/goods-receipts/1/post").Code)
	assert.Equal(t, http.StatusForbidden, performRequest(engine, http.MethodPost, "/goods-receipts/1/cancel").Code)
}

func TestHasPermissionHelpers(t *testing.T) {
	engine := gin.New()
	engine.Use(withClaims("item:read"))
	engine.GET("/check", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"has_read":   HasPermission(c, "item:read"),
			"has_delete": HasPermission(c, "item:delete"),
			"has_any":    HasAnyPermission(c, "item:delete", "item:read"),
		})
	})

	w := performRequest(engine, http.MethodGet, "/check")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"has_read":true`)
	assert.Contains(t, w.Body.String(), `"has_delete":false`)
	assert.Contains(t, w.Body.String(), `"has_any":true`)
}
