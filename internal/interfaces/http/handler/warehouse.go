package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	catalogapp "github.com/velocore/backend/internal/application/catalog"
	"github.com/velocore/backend/internal/domain/catalog"
	"github.com/velocore/backend/internal/domain/identity"
	"github.com/velocore/backend/internal/interfaces/http/dto"
	"github.com/velocore/backend/internal/interfaces/http/middleware"
)

// WarehouseHandler handles warehouse master data endpoints
type WarehouseHandler struct {
	BaseHandler
	warehouseService *catalogapp.WarehouseService
}

// NewWarehouseHandler creates a new WarehouseHandler
func NewWarehouseHandler(warehouseService *catalogapp.WarehouseService) *WarehouseHandler {
	return &WarehouseHandler{warehouseService: warehouseService}
}

// RegisterRoutes registers warehouse routes
func (h *WarehouseHandler) RegisterRoutes(rg *gin.RouterGroup) {
	warehouses := rg.Group("/warehouses")
	warehouses.Use(middleware.RequireResource(identity.ResourceWarehouse))
	{
		warehouses.POST("", h.Create)
		warehouses.GET("", h.List)
		warehouses.GET("/:id", h.Get)
		warehouses.PUT("/:id", h.Update)
		warehouses.DELETE("/:id", h.Delete)
		warehouses.POST("/:id/activate", h.Activate)
		warehouses.POST("/:id/deactivate", h.Deactivate)
	}
}

// CreateWarehouseRequest represents a request to create a warehouse
type CreateWarehouseRequest struct {
	Code    string `json:"code" binding:"required,min=1,max=50"`
	Name    string `json:"name" binding:"required,min=1,max=200"`
	Address string `json:"address" binding:"max=500"`
}

// Create creates a new warehouse
func (h *WarehouseHandler) Create(c *gin.Context) {
	var req CreateWarehouseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	warehouse, err := h.warehouseService.Create(c.Request.Context(), catalogapp.CreateWarehouseCommand{
		Code:    req.Code,
		Name:    req.Name,
		Address: req.Address,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, warehouse)
}

// WarehouseListRequest represents warehouse list query parameters
type WarehouseListRequest struct {
	dto.ListRequest
	ActiveOnly bool `form:"active_only"`
}

// List returns warehouses matching the filter
func (h *WarehouseHandler) List(c *gin.Context) {
	var req WarehouseListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := catalog.WarehouseFilter{
		Filter:     listFilter(req.ListRequest),
		ActiveOnly: req.ActiveOnly,
	}

	result, err := h.warehouseService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	Paginated(&h.BaseHandler, c, result)
}

// Get returns a warehouse by ID
func (h *WarehouseHandler) Get(c *gin.Context) {
	warehouseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid warehouse ID format")
		return
	}

	warehouse, err := h.warehouseService.Get(c.Request.Context(), warehouseID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, warehouse)
}

// UpdateWarehouseRequest represents a request to update a warehouse
type UpdateWarehouseRequest struct {
	Name    *string `json:"name" binding:"omitempty,min=1,max=200"`
	Address *string `json:"address" binding:"omitempty,max=500"`
}

// Update updates warehouse master data
func (h *WarehouseHandler) Update(c *gin.Context) {
	warehouseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid warehouse ID format")
		return
	}

	var req UpdateWarehouseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	warehouse, err := h.warehouseService.Update(c.Request.Context(), warehouseID, catalogapp.UpdateWarehouseCommand{
		Name:    req.Name,
		Address: req.Address,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, warehouse)
}

// Delete removes a warehouse that has no stock history
func (h *WarehouseHandler) Delete(c *gin.Context) {
	warehouseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid warehouse ID format")
		return
	}

	if err := h.warehouseService.Delete(c.Request.Context(), warehouseID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Activate reactivates a warehouse
func (h *WarehouseHandler) Activate(c *gin.Context) {
	h.transition(c, h.warehouseService.Activate)
}

// Deactivate marks a warehouse inactive
func (h *WarehouseHandler) Deactivate(c *gin.Context) {
	h.transition(c, h.warehouseService.Deactivate)
}

func (h *WarehouseHandler) transition(
	c *gin.Context,
	op func(ctx context.Context, id uuid.UUID) (*catalog.Warehouse, error),
) {
	warehouseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid warehouse ID format")
		return
	}

	warehouse, err := op(c.Request.Context(), warehouseID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, warehouse)
}
