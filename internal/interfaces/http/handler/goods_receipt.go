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

// GoodsReceiptHandler handles goods receipt endpoints
type GoodsReceiptHandler struct {
	BaseHandler
	receiptService *procurementapp.GoodsReceiptService
}

// NewGoodsReceiptHandler creates a new GoodsReceiptHandler
func NewGoodsReceiptHandler(receiptService *procurementapp.GoodsReceiptService) *GoodsReceiptHandler {
	return &GoodsReceiptHandler{receiptService: receiptService}
}

// RegisterRoutes registers goods receipt routes
func (h *GoodsReceiptHandler) RegisterRoutes(rg *gin.RouterGroup) {
	receipts := rg.Group("/goods-receipts")
	receipts.Use(middleware.RequireResource(identity.ResourceGoodsReceipt))
	{
		receipts.POST("", h.Create)
		receipts.GET("", h.List)
		receipts.GET("/:id", h.Get)
		receipts.DELETE("/:id", h.Delete)
	}

	receipts.POST("/:id/post",
		middleware.RequireResourceAction(identity.ResourceGoodsReceipt, identity.ActionPost), h.Post)
	receipts.POST("/:id/cancel",
		middleware.RequireResourceAction(identity.ResourceGoodsReceipt, identity.ActionCancel), h.Cancel)
}

// ReceiptLineRequest is one received line
type ReceiptLineRequest struct {
	ItemID       string     `json:"item_id" binding:"required,uuid"`
	Quantity     float64    `json:"quantity" binding:"required,gt=0"`
	UnitCost     float64    `json:"unit_cost" binding:"min=0"`
	BatchNumber  string     `json:"batch_number" binding:"max=100"`
	SerialNumber string     `json:"serial_number" binding:"max=100"`
	ExpiryDate   *time.Time `json:"expiry_date"`
}

// CreateReceiptRequest represents a request to create a goods receipt
type CreateReceiptRequest struct {
	WarehouseID     string               `json:"warehouse_id" binding:"required,uuid"`
	PurchaseOrderID string               `json:"purchase_order_id" binding:"omitempty,uuid"`
	Notes           string               `json:"notes" binding:"max=1000"`
	Lines           []ReceiptLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// Create creates a draft goods receipt
func (h *GoodsReceiptHandler) Create(c *gin.Context) {
	var req CreateReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	warehouseID, err := uuid.Parse(req.WarehouseID)
	if err != nil {
		h.BadRequest(c, "Invalid warehouse ID format")
		return
	}
	purchaseOrderID, err := parseUUIDPtr(req.PurchaseOrderID)
	if err != nil {
		h.BadRequest(c, "Invalid purchase order ID format")
		return
	}

	lines := make([]procurementapp.ReceiptLineInput, 0, len(req.Lines))
	for _, line := range req.Lines {
		itemID, err := uuid.Parse(line.ItemID)
		if err != nil {
			h.BadRequest(c, "Invalid item ID format")
			return
		}
		lines = append(lines, procurementapp.ReceiptLineInput{
			ItemID:       itemID,
			Quantity:     toDecimal(line.Quantity),
			UnitCost:     toDecimal(line.UnitCost),
			BatchNumber:  line.BatchNumber,
			SerialNumber: line.SerialNumber,
			ExpiryDate:   line.ExpiryDate,
		})
	}

	receipt, err := h.receiptService.Create(c.Request.Context(), procurementapp.CreateReceiptCommand{
		WarehouseID:     warehouseID,
		PurchaseOrderID: purchaseOrderID,
		Notes:           req.Notes,
		Lines:           lines,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, receipt)
}

// ReceiptListRequest represents goods receipt list query parameters
type ReceiptListRequest struct {
	dto.ListRequest
	Status          string `form:"status" binding:"omitempty,oneof=DRAFT POSTED CANCELLED"`
	WarehouseID     string `form:"warehouse_id" binding:"omitempty,uuid"`
	PurchaseOrderID string `form:"purchase_order_id" binding:"omitempty,uuid"`
}

// List returns goods receipts matching the filter
func (h *GoodsReceiptHandler) List(c *gin.Context) {
	var req ReceiptListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := procurement.ReceiptFilter{Filter: listFilter(req.ListRequest)}
	if req.Status != "" {
		status := procurement.ReceiptStatus(req.Status)
		filter.Status = &status
	}
	var err error
	if filter.WarehouseID, err = parseUUIDPtr(req.WarehouseID); err != nil {
		h.BadRequest(c, "Invalid warehouse ID format")
		return
	}
	if filter.PurchaseOrderID, err = parseUUIDPtr(req.PurchaseOrderID); err != nil {
		h.BadRequest(c, "Invalid purchase order ID format")
		return
	}

	result, err := h.receiptService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	Paginated(&h.BaseHandler, c, result)
}

// Get returns a goods receipt by ID
func (h *GoodsReceiptHandler) Get(c *gin.Context) {
	receiptID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid goods receipt ID format")
		return
	}

	receipt, err := h.receiptService.Get(c.Request.Context(), receiptID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, receipt)
}

// Delete removes a draft goods receipt
func (h *GoodsReceiptHandler) Delete(c *gin.Context) {
	receiptID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid goods receipt ID format")
		return
	}

	if err := h.receiptService.Delete(c.Request.Context(), receiptID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Post posts a draft receipt, writing stock in and ledger entries
func (h *GoodsReceiptHandler) Post(c *gin.Context) {
	receiptID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid goods receipt ID format")
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

// CancelReceiptRequest carries the cancellation reason
type CancelReceiptRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// Cancel reverses a posted receipt or discards a draft one
func (h *GoodsReceiptHandler) Cancel(c *gin.Context) {
	receiptID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid goods receipt ID format")
		return
	}

	var req CancelReceiptRequest
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
