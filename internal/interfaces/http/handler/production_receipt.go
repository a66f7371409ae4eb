package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	manufacturingapp "github.com/velocore/backend/internal/application/manufacturing"
	"github.com/velocore/backend/internal/domain/identity"
	"github.com/velocore/backend/internal/domain/manufacturing"
	"github.com/velocore/backend/internal/interfaces/http/dto"
	"github.com/velocore/backend/internal/interfaces/http/middleware"
)

// ProductionReceiptHandler handles production receipt endpoints.
// Receipts are guarded by production order permissions since they are
// documents of the production workflow, not a standalone resource.
type ProductionReceiptHandler struct {
	BaseHandler
	receiptService *manufacturingapp.ProductionReceiptService
}

// NewProductionReceiptHandler creates a new ProductionReceiptHandler
func NewProductionReceiptHandler(receiptService *manufacturingapp.ProductionReceiptService) *ProductionReceiptHandler {
	return &ProductionReceiptHandler{receiptService: receiptService}
}

// RegisterRoutes registers production receipt routes
func (h *ProductionReceiptHandler) RegisterRoutes(rg *gin.RouterGroup) {
	receipts := rg.Group("/production-receipts")
	receipts.Use(middleware.RequireResource(identity.ResourceProductionOrder))
	{
		receipts.POST("", h.Create)
		receipts.GET("", h.List)
		receipts.GET("/:id", h.Get)
		receipts.DELETE("/:id", h.Delete)
		receipts.POST("/:id/post", h.Post)
		receipts.POST("/:id/cancel", h.Cancel)
	}
}

// CreateProductionReceiptRequest represents a request to create a production receipt
type CreateProductionReceiptRequest struct {
	ProductionOrderID string  `json:"production_order_id" binding:"required,uuid"`
	Quantity          float64 `json:"quantity" binding:"required,gt=0"`
	BatchNumber       string  `json:"batch_number" binding:"max=100"`
	SerialNumber      string  `json:"serial_number" binding:"max=100"`
	Notes             string  `json:"notes" binding:"max=1000"`
}

// Create creates a draft production receipt against an order
func (h *ProductionReceiptHandler) Create(c *gin.Context) {
	var req CreateProductionReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	orderID, err := uuid.Parse(req.ProductionOrderID)
	if err != nil {
		h.BadRequest(c, "Invalid production order ID format")
		return
	}

	receipt, err := h.receiptService.Create(c.Request.Context(), manufacturingapp.CreateProductionReceiptCommand{
		ProductionOrderID: orderID,
		Quantity:          toDecimal(req.Quantity),
		BatchNumber:       req.BatchNumber,
		SerialNumber:      req.SerialNumber,
		Notes:             req.Notes,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, receipt)
}

// ProductionReceiptListRequest represents production receipt list query parameters
type ProductionReceiptListRequest struct {
	dto.ListRequest
	Status            string `form:"status" binding:"omitempty,oneof=DRAFT POSTED CANCELLED"`
	ProductionOrderID string `form:"production_order_id" binding:"omitempty,uuid"`
	WarehouseID       string `form:"warehouse_id" binding:"omitempty,uuid"`
}

// List returns production receipts matching the filter
func (h *ProductionReceiptHandler) List(c *gin.Context) {
	var req ProductionReceiptListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := manufacturing.ProductionReceiptFilter{Filter: listFilter(req.ListRequest)}
	if req.Status != "" {
		status := manufacturing.ProductionReceiptStatus(req.Status)
		filter.Status = &status
	}
	var err error
	if filter.ProductionOrderID, err = parseUUIDPtr(req.ProductionOrderID); err != nil {
		h.BadRequest(c, "Invalid production order ID format")
		return
	}
	if filter.WarehouseID, err = parseUUIDPtr(req.WarehouseID); err != nil {
		h.BadRequest(c, "Invalid warehouse ID format")
		return
	}

	result, err := h.receiptService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	Paginated(&h.BaseHandler, c, result)
}

// Get returns a production receipt by ID
func (h *ProductionReceiptHandler) Get(c *gin.Context) {
	receiptID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid production receipt ID format")
		return
	}

	receipt, err := h.receiptService.Get(c.Request.Context(), receiptID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, receipt)
}

// Delete removes a draft production receipt
func (h *ProductionReceiptHandler) Delete(c *gin.Context) {
	receiptID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid production receipt ID format")
		return
	}

	if err := h.receiptService.Delete(c.Request.Context(), receiptID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Post posts a draft receipt, writing finished goods in at actual cost
func (h *ProductionReceiptHandler) Post(c *gin.Context) {
	receiptID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid production receipt ID format")
		return
	}

	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	receipt, err := h.receiptService.Post(c.Request.Context(), receiptID, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, receipt)
}

// CancelProductionReceiptRequest carries the cancellation reason
type CancelProductionReceiptRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// Cancel reverses a posted receipt or discards a draft one
func (h *ProductionReceiptHandler) Cancel(c *gin.Context) {
	receiptID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid production receipt ID format")
		return
	}

	var req CancelProductionReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	receipt, err := h.receiptService.Cancel(c.Request.Context(), receiptID, userID, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, receipt)
}
