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

// ItemHandler handles item master data endpoints
type ItemHandler struct {
	BaseHandler
	itemService *catalogapp.ItemService
}

// NewItemHandler creates a new ItemHandler
func NewItemHandler(itemService *catalogapp.ItemService) *ItemHandler {
	return &ItemHandler{itemService: itemService}
}

// RegisterRoutes registers item routes
func (h *ItemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	items := rg.Group("/items")
	items.Use(middleware.RequireResource(identity.ResourceItem))
	{
		items.POST("", h.Create)
		items.GET("", h.List)
		items.GET("/:id", h.Get)
		items.GET("/code/:code", h.GetByCode)
		items.PUT("/:id", h.Update)
		items.DELETE("/:id", h.Delete)
		items.POST("/:id/activate", h.Activate)
		items.POST("/:id/deactivate", h.Deactivate)
	}
}

// CreateItemRequest represents a request to create an item
type CreateItemRequest struct {
	Code          string  `json:"code" binding:"required,min=1,max=50"`
	Name          string  `json:"name" binding:"required,min=1,max=200"`
	ItemType      string  `json:"item_type" binding:"required,oneof=SPARE_PART ACCESSORY BATTERY ASSEMBLY"`
	Unit          string  `json:"unit" binding:"required,min=1,max=20"`
	BatchTracked  bool    `json:"batch_tracked"`
	SerialTracked bool    `json:"serial_tracked"`
	StandardCost  float64 `json:"standard_cost" binding:"min=0"`
	ReorderLevel  float64 `json:"reorder_level" binding:"min=0"`
	Description   string  `json:"description" binding:"max=1000"`
}

// Create creates a new item
func (h *ItemHandler) Create(c *gin.Context) {
	var req CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	item, err := h.itemService.Create(c.Request.Context(), catalogapp.CreateItemCommand{
		Code:          req.Code,
		Name:          req.Name,
		ItemType:      catalog.ItemType(req.ItemType),
		Unit:          req.Unit,
		BatchTracked:  req.BatchTracked,
		SerialTracked: req.SerialTracked,
		StandardCost:  toDecimal(req.StandardCost),
		ReorderLevel:  toDecimal(req.ReorderLevel),
		Description:   req.Description,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, item)
}

// ItemListRequest represents item list query parameters
type ItemListRequest struct {
	dto.ListRequest
	ItemType   string `form:"item_type" binding:"omitempty,oneof=SPARE_PART ACCESSORY BATTERY ASSEMBLY"`
	ActiveOnly bool   `form:"active_only"`
}

// List returns items matching the filter
func (h *ItemHandler) List(c *gin.Context) {
	var req ItemListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := catalog.ItemFilter{
		Filter:     listFilter(req.ListRequest),
		ActiveOnly: req.ActiveOnly,
	}
	if req.ItemType != "" {
		itemType := catalog.ItemType(req.ItemType)
		filter.ItemType = &itemType
	}

	result, err := h.itemService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	Paginated(&h.BaseHandler, c, result)
}

// Get returns an item by ID
func (h *ItemHandler) Get(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid item ID format")
		return
	}

	item, err := h.itemService.Get(c.Request.Context(), itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, item)
}

// GetByCode returns an item by its code
func (h *ItemHandler) GetByCode(c *gin.Context) {
	code := c.Param("code")
	if code == "" {
		h.BadRequest(c, "Item code is required")
		return
	}

	item, err := h.itemService.GetByCode(c.Request.Context(), code)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, item)
}

// UpdateItemRequest represents a request to update item master data
type UpdateItemRequest struct {
	Name         *string  `json:"name" binding:"omitempty,min=1,max=200"`
	Unit         *string  `json:"unit" binding:"omitempty,min=1,max=20"`
	StandardCost *float64 `json:"standard_cost" binding:"omitempty,min=0"`
	ReorderLevel *float64 `json:"reorder_level" binding:"omitempty,min=0"`
	Description  *string  `json:"description" binding:"omitempty,max=1000"`
}

// Update updates item master data
func (h *ItemHandler) Update(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid item ID format")
		return
	}

	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	item, err := h.itemService.Update(c.Request.Context(), itemID, catalogapp.UpdateItemCommand{
		Name:         req.Name,
		Unit:         req.Unit,
		StandardCost: toDecimalPtr(req.StandardCost),
		ReorderLevel: toDecimalPtr(req.ReorderLevel),
		Description:  req.Description,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, item)
}

// Delete removes an item that has no stock history
func (h *ItemHandler) Delete(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid item ID format")
		return
	}

	if err := h.itemService.Delete(c.Request.Context(), itemID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Activate reactivates an item
func (h *ItemHandler) Activate(c *gin.Context) {
	h.transition(c, h.itemService.Activate)
}

// Deactivate marks an item inactive
func (h *ItemHandler) Deactivate(c *gin.Context) {
	h.transition(c, h.itemService.Deactivate)
}

func (h *ItemHandler) transition(
	c *gin.Context,
	op func(ctx context.Context, id uuid.UUID) (*catalog.Item, error),
) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid item ID format")
		return
	}

	item, err := op(c.Request.Context(), itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, item)
}
