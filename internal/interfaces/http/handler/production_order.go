package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	manufacturingapp "github.com/velocore/backend/internal/application/manufacturing"
	"github.com/velocore/backend/internal/domain/identity"
	"github.com/velocore/backend/internal/domain/manufacturing"
	"github.com/velocore/backend/internal/interfaces/http/dto"
	"github.com/velocore/backend/internal/interfaces/http/middleware"
)

// ProductionOrderHandler handles production order endpoints
type ProductionOrderHandler struct {
	BaseHandler
	orderService *manufacturingapp.ProductionOrderService
}

// NewProductionOrderHandler creates a new ProductionOrderHandler
func NewProductionOrderHandler(orderService *manufacturingapp.ProductionOrderService) *ProductionOrderHandler {
	return &ProductionOrderHandler{orderService: orderService}
}

// RegisterRoutes registers production order routes
func (h *ProductionOrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/production-orders")
	orders.Use(middleware.RequireResource(identity.ResourceProductionOrder))
	{
		orders.POST("", h.Create)
		orders.GET("", h.List)
		orders.GET("/:id", h.Get)
		orders.DELETE("/:id", h.Delete)
		orders.POST("/:id/release", h.Release)
		orders.POST("/:id/start", h.Start)
	}

	orders.POST("/:id/cancel",
		middleware.RequireResourceAction(identity.ResourceProductionOrder, identity.ActionCancel), h.Cancel)
}

// CreateProductionOrderRequest represents a request to create a production order
type CreateProductionOrderRequest struct {
	FinishedItemID  string     `json:"finished_item_id" binding:"required,uuid"`
	WarehouseID     string     `json:"warehouse_id" binding:"required,uuid"`
	PlannedQuantity float64    `json:"planned_quantity" binding:"required,gt=0"`
	PlannedDate     *time.Time `json:"planned_date"`
	Notes           string     `json:"notes" binding:"max=1000"`
}

// Create creates a draft production order
func (h *ProductionOrderHandler) Create(c *gin.Context) {
	var req CreateProductionOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	finishedItemID, err := uuid.Parse(req.FinishedItemID)
	if err != nil {
		h.BadRequest(c, "Invalid finished item ID format")
		return
	}
	warehouseID, err := uuid.Parse(req.WarehouseID)
	if err != nil {
		h.BadRequest(c, "Invalid warehouse ID format")
		return
	}

	order, err := h.orderService.Create(c.Request.Context(), manufacturingapp.CreateProductionOrderCommand{
		FinishedItemID:  finishedItemID,
		WarehouseID:     warehouseID,
		PlannedQuantity: toDecimal(req.PlannedQuantity),
		PlannedDate:     req.PlannedDate,
		Notes:           req.Notes,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, order)
}

// ProductionOrderListRequest represents production order list query parameters
type ProductionOrderListRequest struct {
	dto.ListRequest
	Status         string `form:"status" binding:"omitempty,oneof=DRAFT RELEASED IN_PROGRESS COMPLETED CANCELLED"`
	FinishedItemID string `form:"finished_item_id" binding:"omitempty,uuid"`
	WarehouseID    string `form:"warehouse_id" binding:"omitempty,uuid"`
}

// List returns production orders matching the filter
func (h *ProductionOrderHandler) List(c *gin.Context) {
	var req ProductionOrderListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := manufacturing.ProductionOrderFilter{Filter: listFilter(req.ListRequest)}
	if req.Status != "" {
		status := manufacturing.ProductionStatus(req.Status)
		filter.Status = &status
	}
	var err error
	if filter.FinishedItemID, err = parseUUIDPtr(req.FinishedItemID); err != nil {
		h.BadRequest(c, "Invalid finished item ID format")
		return
	}
	if filter.WarehouseID, err = parseUUIDPtr(req.WarehouseID); err != nil {
		h.BadRequest(c, "Invalid warehouse ID format")
		return
	}

	result, err := h.orderService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	Paginated(&h.BaseHandler, c, result)
}

// Get returns a production order by ID
func (h *ProductionOrderHandler) Get(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid production order ID format")
		return
	}

	order, err := h.orderService.Get(c.Request.Context(), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// Delete removes a draft production order
func (h *ProductionOrderHandler) Delete(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid production order ID format")
		return
	}

	if err := h.orderService.Delete(c.Request.Context(), orderID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Release releases a draft order for execution
func (h *ProductionOrderHandler) Release(c *gin.Context) {
	h.transition(c, h.orderService.Release)
}

// Start marks a released order as in progress
func (h *ProductionOrderHandler) Start(c *gin.Context) {
	h.transition(c, h.orderService.Start)
}

// CancelProductionOrderRequest carries the cancellation reason
type CancelProductionOrderRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// Cancel cancels an order with no posted documents against it
func (h *ProductionOrderHandler) Cancel(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid production order ID format")
		return
	}

	var req CancelProductionOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.orderService.Cancel(c.Request.Context(), orderID, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

func (h *ProductionOrderHandler) transition(
	c *gin.Context,
	op func(ctx context.Context, id uuid.UUID) (*manufacturing.ProductionOrder, error),
) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid production order ID format")
		return
	}

	order, err := op(c.Request.Context(), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}
