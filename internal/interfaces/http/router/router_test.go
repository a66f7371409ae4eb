package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type pingRegistrar struct {
	registered bool
}

func (r *pingRegistrar) RegisterRoutes(rg *gin.RouterGroup) {
	r.registered = true
	rg.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
}

func TestRouter_SetupMountsRegistrarsUnderAPIVersion(t *testing.T) {
	engine := gin.New()
	registrar := &pingRegistrar{}

	NewRouter(engine).Register(registrar).Setup()

	assert.True(t, registrar.registered)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
}

func TestRouter_WithAPIVersion(t *testing.T) {
	engine := gin.New()

	NewRouter(engine, WithAPIVersion("v2")).Register(&pingRegistrar{}).Setup()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v2/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_UseAppliesMiddlewareToGroup(t *testing.T) {
	engine := gin.New()
	var order []string

	NewRouter(engine).
		Use(func(c *gin.Context) {
			order = append(order, "middleware")
			c.Next()
		}).
		Register(&pingRegistrar{}).
		Setup()

	engine.GET("/outside", func(c *gin.Context) {
		order = append(order, "outside")
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil))
	assert.Equal(t, []string{"middleware"}, order)

	// Group middleware must not apply to routes outside the API group
	order = nil
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/outside", nil))
	assert.Equal(t, []string{"outside"}, order)
}
