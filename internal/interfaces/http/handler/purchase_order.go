package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	procurementapp "github.com/velocore/backend/internal/application/procurement"
	"github.com/velocore/backend/internal/domain/identity"
	"github.com/velocore/backend/internal/domain/procurement"
	"github.com/velocore/backend/internal/interfaces/http/dto"
	"github.com/velocore/backend/internal/interfaces/http/middleware"
)

// PurchaseOrderHandler handles purchase order endpoints
type PurchaseOrderHandler struct {
	BaseHandler
	orderService *procurementapp.PurchaseOrderService
}

// NewPurchaseOrderHandler creates a new PurchaseOrderHandler
func NewPurchaseOrderHandler(orderService *procurementapp.PurchaseOrderService) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{orderService: orderService}
}

// RegisterRoutes registers purchase order routes
func (h *PurchaseOrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/purchase-orders")
	orders.Use(middleware.RequireResource(identity.ResourcePurchaseOrder))
	{
		orders.POST("", h.Create)
		orders.GET("", h.List)
		orders.GET("/:id", h.Get)
		orders.DELETE("/:id", h.Delete)
	}

	orders.POST("/:id/approve",
		middleware.RequireResourceAction(identity.ResourcePurchaseOrder, identity.ActionApprove), h.Approve)
	orders.POST("/:id/cancel",
		middleware.RequireResourceAction(identity.ResourcePurchaseOrder, identity.ActionCancel), h.Cancel)
}

// OrderLineRequest is one ordered line
type OrderLineRequest struct {
	ItemID    string  `json:"item_id" binding:"required,uuid"`
	Quantity  float64 `json:"quantity" binding:"required,gt=0"`
	UnitPrice float64 `json:"unit_price" binding:"min=0"`
}

// CreateOrderRequest represents a request to create a purchase order
type CreateOrderRequest struct {
	SupplierName    string             `json:"supplier_name" binding:"required,min=1,max=200"`
	SupplierContact string             `json:"supplier_contact" binding:"max=200"`
	WarehouseID     string             `json:"warehouse_id" binding:"required,uuid"`
	RequisitionID   string             `json:"requisition_id" binding:"omitempty,uuid"`
	ExpectedDate    *time.Time         `json:"expected_date"`
	Notes           string             `json:"notes" binding:"max=1000"`
	Lines           []OrderLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// Create creates a draft purchase order
func (h *PurchaseOrderHandler) Create(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	warehouseID, err := uuid.Parse(req.WarehouseID)
	if err != nil {
		h.BadRequest(c, "Invalid warehouse ID format")
		return
	}
	requisitionID, err := parseUUIDPtr(req.RequisitionID)
	if err != nil {
		h.BadRequest(c, "Invalid requisition ID format")
		return
	}

	lines := make([]procurementapp.OrderLineInput, 0, len(req.Lines))
	for _, line := range req.Lines {
		itemID, err := uuid.Parse(line.ItemID)
		if err != nil {
			h.BadRequest(c, "Invalid item ID format")
			return
		}
		lines = append(lines, procurementapp.OrderLineInput{
			ItemID:    itemID,
			Quantity:  toDecimal(line.Quantity),
			UnitPrice: toDecimal(line.UnitPrice),
		})
	}

	order, err := h.orderService.Create(c.Request.Context(), procurementapp.CreateOrderCommand{
		SupplierName:    req.SupplierName,
		SupplierContact: req.SupplierContact,
		WarehouseID:     warehouseID,
		RequisitionID:   requisitionID,
		ExpectedDate:    req.ExpectedDate,
		Notes:           req.Notes,
		Lines:           lines,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, order)
}

// OrderListRequest represents purchase order list query parameters
type OrderListRequest struct {
	dto.ListRequest
	Status       string `form:"status" binding:"omitempty,oneof=DRAFT APPROVED PARTIALLY_RECEIVED COMPLETED CANCELLED"`
	WarehouseID  string `form:"warehouse_id" binding:"omitempty,uuid"`
	SupplierName string `form:"supplier_name" binding:"omitempty,max=200"`
}

// List returns purchase orders matching the filter
func (h *PurchaseOrderHandler) List(c *gin.Context) {
	var req OrderListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := procurement.OrderFilter{
		Filter:       listFilter(req.ListRequest),
		SupplierName: req.SupplierName,
	}
	if req.Status != "" {
		status := procurement.OrderStatus(req.Status)
		filter.Status = &status
	}
	var err error
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

// Get returns a purchase order by ID
func (h *PurchaseOrderHandler) Get(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid purchase order ID format")
		return
	}

	order, err := h.orderService.Get(c.Request.Context(), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// Delete removes a draft purchase order
func (h *PurchaseOrderHandler) Delete(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid purchase order ID format")
		return
	}

	if err := h.orderService.Delete(c.Request.Context(), orderID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Approve approves a draft purchase order
func (h *PurchaseOrderHandler) Approve(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid purchase order ID format")
		return
	}

	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	order, err := h.orderService.Approve(c.Request.Context(), orderID, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// CancelOrderRequest carries the cancellation reason
type CancelOrderRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// Cancel cancels a purchase order that has no posted receipts
func (h *PurchaseOrderHandler) Cancel(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid purchase order ID format")
		return
	}

	var req CancelOrderRequest
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
