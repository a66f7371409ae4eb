package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	inventoryapp "github.com/velocore/backend/internal/application/inventory"
	"github.com/velocore/backend/internal/domain/identity"
	"github.com/velocore/backend/internal/domain/inventory"
	"github.com/velocore/backend/internal/interfaces/http/dto"
	"github.com/velocore/backend/internal/interfaces/http/middleware"
)

// InventoryHandler handles stock balance and movement endpoints
type InventoryHandler struct {
	BaseHandler
	stockService *inventoryapp.StockService
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(stockService *inventoryapp.StockService) *InventoryHandler {
	return &InventoryHandler{stockService: stockService}
}

// RegisterRoutes registers inventory routes
func (h *InventoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	inv := rg.Group("/inventory")
	{
		read := middleware.RequireResourceAction(identity.ResourceInventory, identity.ActionRead)
		inv.GET("/balances", read, h.ListBalances)
		inv.GET("/balance", read, h.GetBalance)
		inv.GET("/transactions", read, h.ListTransactions)

		inv.POST("/adjust",
			middleware.RequireResourceAction(identity.ResourceInventory, identity.ActionAdjust), h.Adjust)
		inv.POST("/transfer",
			middleware.RequireResourceAction(identity.ResourceInventory, identity.ActionTransfer), h.Transfer)
	}
}

// BalanceListRequest represents balance list query parameters
type BalanceListRequest struct {
	dto.ListRequest
	ItemID        string `form:"item_id" binding:"omitempty,uuid"`
	WarehouseID   string `form:"warehouse_id" binding:"omitempty,uuid"`
	WithStockOnly bool   `form:"with_stock_only"`
}

// ListBalances returns stock balances matching the filter
func (h *InventoryHandler) ListBalances(c *gin.Context) {
	var req BalanceListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := inventory.BalanceFilter{
		Filter:        listFilter(req.ListRequest),
		WithStockOnly: req.WithStockOnly,
	}
	var err error
	if filter.ItemID, err = parseUUIDPtr(req.ItemID); err != nil {
		h.BadRequest(c, "Invalid item ID format")
		return
	}
	if filter.WarehouseID, err = parseUUIDPtr(req.WarehouseID); err != nil {
		h.BadRequest(c, "Invalid warehouse ID format")
		return
	}

	result, err := h.stockService.ListBalances(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	Paginated(&h.BaseHandler, c, result)
}

// BalanceKeyRequest identifies one balance row
type BalanceKeyRequest struct {
	ItemID       string `form:"item_id" binding:"required,uuid"`
	WarehouseID  string `form:"warehouse_id" binding:"required,uuid"`
	BatchNumber  string `form:"batch_number"`
	SerialNumber string `form:"serial_number"`
}

// GetBalance returns the balance row for one balance key
func (h *InventoryHandler) GetBalance(c *gin.Context) {
	var req BalanceKeyRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	itemID, err := uuid.Parse(req.ItemID)
	if err != nil {
		h.BadRequest(c, "Invalid item ID format")
		return
	}
	warehouseID, err := uuid.Parse(req.WarehouseID)
	if err != nil {
		h.BadRequest(c, "Invalid warehouse ID format")
		return
	}

	balance, err := h.stockService.GetBalance(c.Request.Context(), inventory.BalanceKey{
		ItemID:       itemID,
		WarehouseID:  warehouseID,
		BatchNumber:  req.BatchNumber,
		SerialNumber: req.SerialNumber,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, balance)
}

// TransactionListRequest represents ledger list query parameters
type TransactionListRequest struct {
	dto.ListRequest
	ItemID          string `form:"item_id" binding:"omitempty,uuid"`
	WarehouseID     string `form:"warehouse_id" binding:"omitempty,uuid"`
	TransactionType string `form:"transaction_type"`
	ReferenceType   string `form:"reference_type"`
	ReferenceID     string `form:"reference_id" binding:"omitempty,uuid"`
	StartDate       string `form:"start_date" binding:"omitempty,datetime=2006-01-02"`
	EndDate         string `form:"end_date" binding:"omitempty,datetime=2006-01-02"`
}

// ListTransactions returns ledger entries matching the filter
func (h *InventoryHandler) ListTransactions(c *gin.Context) {
	var req TransactionListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := inventory.TransactionFilter{
		Filter:        listFilter(req.ListRequest),
		ReferenceType: req.ReferenceType,
	}
	var err error
	if filter.ItemID, err = parseUUIDPtr(req.ItemID); err != nil {
		h.BadRequest(c, "Invalid item ID format")
		return
	}
	if filter.WarehouseID, err = parseUUIDPtr(req.WarehouseID); err != nil {
		h.BadRequest(c, "Invalid warehouse ID format")
		return
	}
	if filter.ReferenceID, err = parseUUIDPtr(req.ReferenceID); err != nil {
		h.BadRequest(c, "Invalid reference ID format")
		return
	}
	if req.TransactionType != "" {
		txType := inventory.TransactionType(req.TransactionType)
		filter.TransactionType = &txType
	}
	if req.StartDate != "" {
		start, _ := time.Parse("2006-01-02", req.StartDate)
		filter.StartDate = &start
	}
	if req.EndDate != "" {
		// Make the end date inclusive
		end, _ := time.Parse("2006-01-02", req.EndDate)
		end = end.Add(24*time.Hour - time.Nanosecond)
		filter.EndDate = &end
	}

	result, err := h.stockService.ListTransactions(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	Paginated(&h.BaseHandler, c, result)
}

// AdjustStockRequest represents a signed stock correction
type AdjustStockRequest struct {
	ItemID       string  `json:"item_id" binding:"required,uuid"`
	WarehouseID  string  `json:"warehouse_id" binding:"required,uuid"`
	Quantity     float64 `json:"quantity" binding:"required"`
	NewUnitCost  float64 `json:"new_unit_cost" binding:"min=0"`
	BatchNumber  string  `json:"batch_number" binding:"max=100"`
	SerialNumber string  `json:"serial_number" binding:"max=100"`
	Reason       string  `json:"reason" binding:"required,min=1,max=500"`
}

// Adjust posts a signed stock correction
func (h *InventoryHandler) Adjust(c *gin.Context) {
	var req AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	itemID, err := uuid.Parse(req.ItemID)
	if err != nil {
		h.BadRequest(c, "Invalid item ID format")
		return
	}
	warehouseID, err := uuid.Parse(req.WarehouseID)
	if err != nil {
		h.BadRequest(c, "Invalid warehouse ID format")
		return
	}

	cmd := inventoryapp.AdjustStockCommand{
		ItemID:       itemID,
		WarehouseID:  warehouseID,
		Quantity:     toDecimal(req.Quantity),
		NewUnitCost:  toDecimal(req.NewUnitCost),
		BatchNumber:  req.BatchNumber,
		SerialNumber: req.SerialNumber,
		Reason:       req.Reason,
	}
	if operatorID, err := getUserID(c); err == nil {
		cmd.OperatorID = &operatorID
	}

	result, err := h.stockService.AdjustStock(c.Request.Context(), cmd)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// TransferStockRequest represents a warehouse-to-warehouse move
type TransferStockRequest struct {
	ItemID          string  `json:"item_id" binding:"required,uuid"`
	FromWarehouseID string  `json:"from_warehouse_id" binding:"required,uuid"`
	ToWarehouseID   string  `json:"to_warehouse_id" binding:"required,uuid"`
	Quantity        float64 `json:"quantity" binding:"required,gt=0"`
	BatchNumber     string  `json:"batch_number" binding:"max=100"`
	SerialNumber    string  `json:"serial_number" binding:"max=100"`
	Reason          string  `json:"reason" binding:"max=500"`
}

// Transfer moves stock between warehouses at the source average cost
func (h *InventoryHandler) Transfer(c *gin.Context) {
	var req TransferStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	itemID, err := uuid.Parse(req.ItemID)
	if err != nil {
		h.BadRequest(c, "Invalid item ID format")
		return
	}
	fromID, err := uuid.Parse(req.FromWarehouseID)
	if err != nil {
		h.BadRequest(c, "Invalid source warehouse ID format")
		return
	}
	toID, err := uuid.Parse(req.ToWarehouseID)
	if err != nil {
		h.BadRequest(c, "Invalid destination warehouse ID format")
		return
	}

	cmd := inventoryapp.TransferStockCommand{
		ItemID:          itemID,
		FromWarehouseID: fromID,
		ToWarehouseID:   toID,
		Quantity:        toDecimal(req.Quantity),
		BatchNumber:     req.BatchNumber,
		SerialNumber:    req.SerialNumber,
		Reason:          req.Reason,
	}
	if operatorID, err := getUserID(c); err == nil {
		cmd.OperatorID = &operatorID
	}

	result, err := h.stockService.TransferStock(c.Request.Context(), cmd)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
