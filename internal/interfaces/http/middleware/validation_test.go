package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type createItemPayload struct {
	Code     string  `json:"code" binding:"required,max=50"`
	Name     string  `json:"name" binding:"required"`
	ItemType string  `json:"item_type" binding:"required,oneof=SPARE_PART ACCESSORY BATTERY ASSEMBLY"`
	Cost     float64 `json:"cost" binding:"omitempty,gte=0"`
}

func TestHandleValidationError_ReportsJSONFieldNames(t *testing.T) {
	SetupValidator()

	engine := gin.New()
	engine.POST("/items", func(c *gin.Context) {
		var req createItemPayload
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.Status(http.StatusOK)
	})

	body := `{"code": "BAT-48V", "item_type": "SOMETHING_ELSE", "cost": -2}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/items", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"name"`)
	assert.Contains(t, w.Body.String(), "This field is required")
	assert.Contains(t, w.Body.String(), `"item_type"`)
	assert.Contains(t, w.Body.String(), "Must be one of: SPARE_PART ACCESSORY BATTERY ASSEMBLY")
	assert.Contains(t, w.Body.String(), `"cost"`)
	assert.NotContains(t, w.Body.String(), "ItemType")
}

func TestHandleValidationError_ValidPayloadPasses(t *testing.T) {
	SetupValidator()

	engine := gin.New()
	engine.POST("/items", func(c *gin.Context) {
		var req createItemPayload
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.Status(http.StatusOK)
	})

	body := `{"code": "BAT-48V", "name": "48V Battery", "item_type": "BATTERY"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/items", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
