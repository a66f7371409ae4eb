package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	repairapp "github.com/velocore/backend/internal/application/repair"
	"github.com/velocore/backend/internal/domain/identity"
	"github.com/velocore/backend/internal/domain/repair"
	"github.com/velocore/backend/internal/interfaces/http/dto"
	"github.com/velocore/backend/internal/interfaces/http/middleware"
)

// RepairOrderHandler handles repair order endpoints
type RepairOrderHandler struct {
	BaseHandler
	repairService *repairapp.RepairService
}

// NewRepairOrderHandler creates a new RepairOrderHandler
func NewRepairOrderHandler(repairService *repairapp.RepairService) *RepairOrderHandler {
	return &RepairOrderHandler{repairService: repairService}
}

// RegisterRoutes registers repair order routes
func (h *RepairOrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/repair-orders")
	orders.Use(middleware.RequireResource(identity.ResourceRepairOrder))
	{
		orders.POST("", h.Request)
		orders.GET("", h.List)
		orders.GET("/:id", h.Get)
		orders.POST("/:id/queue", h.Queue)
		orders.POST("/:id/start", h.Start)
		orders.POST("/:id/parts-cost", h.AddPartsCost)
		orders.POST("/:id/complete", h.Complete)
		orders.POST("/:id/cancel", h.Cancel)
	}
}

// RequestRepairRequest represents a request to open a repair order
type RequestRepairRequest struct {
	AssetID     string `json:"asset_id" binding:"required,uuid"`
	Description string `json:"description" binding:"required,min=1,max=1000"`
}

// Request opens a repair order for an asset
func (h *RepairOrderHandler) Request(c *gin.Context) {
	var req RequestRepairRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	assetID, err := uuid.Parse(req.AssetID)
	if err != nil {
		h.BadRequest(c, "Invalid asset ID format")
		return
	}
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	order, err := h.repairService.Request(c.Request.Context(), repairapp.RequestRepairCommand{
		AssetID:     assetID,
		RequestedBy: userID,
		Description: req.Description,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, order)
}

// RepairOrderListRequest represents repair order list query parameters
type RepairOrderListRequest struct {
	dto.ListRequest
	Status       string `form:"status" binding:"omitempty,oneof=REQUESTED PENDING IN_PROGRESS COMPLETED CANCELLED"`
	AssetID      string `form:"asset_id" binding:"omitempty,uuid"`
	TechnicianID string `form:"technician_id" binding:"omitempty,uuid"`
}

// List returns repair orders matching the filter
func (h *RepairOrderHandler) List(c *gin.Context) {
	var req RepairOrderListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := repair.OrderFilter{Filter: listFilter(req.ListRequest)}
	if req.Status != "" {
		status := repair.RepairStatus(req.Status)
		filter.Status = &status
	}
	var err error
	if filter.AssetID, err = parseUUIDPtr(req.AssetID); err != nil {
		h.BadRequest(c, "Invalid asset ID format")
		return
	}
	if filter.TechnicianID, err = parseUUIDPtr(req.TechnicianID); err != nil {
		h.BadRequest(c, "Invalid technician ID format")
		return
	}

	result, err := h.repairService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	Paginated(&h.BaseHandler, c, result)
}

// Get returns a repair order by ID
func (h *RepairOrderHandler) Get(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid repair order ID format")
		return
	}

	order, err := h.repairService.Get(c.Request.Context(), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// QueueRepairRequest records the diagnosis made at intake
type QueueRepairRequest struct {
	Diagnosis string `json:"diagnosis" binding:"required,min=1,max=1000"`
}

// Queue moves a requested order into the workshop queue with a diagnosis
func (h *RepairOrderHandler) Queue(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid repair order ID format")
		return
	}

	var req QueueRepairRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.repairService.Queue(c.Request.Context(), orderID, req.Diagnosis)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// StartRepairRequest assigns the technician doing the work
type StartRepairRequest struct {
	TechnicianID string `json:"technician_id" binding:"required,uuid"`
}

// Start begins the repair and moves the asset into the workshop
func (h *RepairOrderHandler) Start(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid repair order ID format")
		return
	}

	var req StartRepairRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	technicianID, err := uuid.Parse(req.TechnicianID)
	if err != nil {
		h.BadRequest(c, "Invalid technician ID format")
		return
	}

	order, err := h.repairService.Start(c.Request.Context(), orderID, technicianID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// PartsCostRequest adds consumed parts cost to an in-progress order
type PartsCostRequest struct {
	Cost float64 `json:"cost" binding:"required,gt=0"`
}

// AddPartsCost accumulates spare parts cost on an in-progress order
func (h *RepairOrderHandler) AddPartsCost(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid repair order ID format")
		return
	}

	var req PartsCostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.repairService.AddPartsCost(c.Request.Context(), orderID, toDecimal(req.Cost))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// CompleteRepairRequest finishes the repair with its labor cost
type CompleteRepairRequest struct {
	LaborCost float64 `json:"labor_cost" binding:"min=0"`
}

// Complete finishes the repair and returns the asset to the available pool
func (h *RepairOrderHandler) Complete(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid repair order ID format")
		return
	}

	var req CompleteRepairRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.repairService.Complete(c.Request.Context(), orderID, toDecimal(req.LaborCost))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// CancelRepairRequest carries the cancellation reason
type CancelRepairRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// Cancel cancels a repair order and releases the asset if it was in the workshop
func (h *RepairOrderHandler) Cancel(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid repair order ID format")
		return
	}

	var req CancelRepairRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.repairService.Cancel(c.Request.Context(), orderID, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}
