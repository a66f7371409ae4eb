package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	procurementapp "github.com/velocore/backend/internal/application/procurement"
	"github.com/velocore/backend/internal/domain/identity"
	"github.com/velocore/backend/internal/domain/procurement"
	"github.com/velocore/backend/internal/interfaces/http/dto"
	"github.com/velocore/backend/internal/interfaces/http/middleware"
)

// RequisitionHandler handles purchase requisition endpoints
type RequisitionHandler struct {
	BaseHandler
	requisitionService *procurementapp.RequisitionService
}

// NewRequisitionHandler creates a new RequisitionHandler
func NewRequisitionHandler(requisitionService *procurementapp.RequisitionService) *RequisitionHandler {
	return &RequisitionHandler{requisitionService: requisitionService}
}

// RegisterRoutes registers requisition routes
func (h *RequisitionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	requisitions := rg.Group("/requisitions")
	requisitions.Use(middleware.RequireResource(identity.ResourceRequisition))
	{
		requisitions.POST("", h.Create)
		requisitions.GET("", h.List)
		requisitions.GET("/:id", h.Get)
		requisitions.DELETE("/:id", h.Delete)
	}

	// Workflow transitions carry their own permission requirements
	approve := middleware.RequireResourceAction(identity.ResourceRequisition, identity.ActionApprove)
	update := middleware.RequireResourceAction(identity.ResourceRequisition, identity.ActionUpdate)
	create := middleware.RequireResourceAction(identity.ResourceRequisition, identity.ActionCreate)
	requisitions.POST("/:id/submit", update, h.Submit)
	requisitions.POST("/:id/approve", approve, h.Approve)
	requisitions.POST("/:id/reject", approve, h.Reject)
	requisitions.POST("/:id/convert", create, h.Convert)
}

// RequisitionLineRequest is one requested line
type RequisitionLineRequest struct {
	ItemID        string  `json:"item_id" binding:"required,uuid"`
	Quantity      float64 `json:"quantity" binding:"required,gt=0"`
	EstimatedCost float64 `json:"estimated_cost" binding:"min=0"`
	Notes         string  `json:"notes" binding:"max=500"`
}

// CreateRequisitionRequest represents a request to create a requisition
type CreateRequisitionRequest struct {
	RequiredDate *time.Time               `json:"required_date"`
	Notes        string                   `json:"notes" binding:"max=1000"`
	Lines        []RequisitionLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// Create creates a draft requisition requested by the authenticated user
func (h *RequisitionHandler) Create(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req CreateRequisitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	lines := make([]procurementapp.RequisitionLineInput, 0, len(req.Lines))
	for _, line := range req.Lines {
		itemID, err := uuid.Parse(line.ItemID)
		if err != nil {
			h.BadRequest(c, "Invalid item ID format")
			return
		}
		lines = append(lines, procurementapp.RequisitionLineInput{
			ItemID:        itemID,
			Quantity:      toDecimal(line.Quantity),
			EstimatedCost: toDecimal(line.EstimatedCost),
			Notes:         line.Notes,
		})
	}

	requisition, err := h.requisitionService.Create(c.Request.Context(), procurementapp.CreateRequisitionCommand{
		RequestedBy:  userID,
		RequiredDate: req.RequiredDate,
		Notes:        req.Notes,
		Lines:        lines,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, requisition)
}

// RequisitionListRequest represents requisition list query parameters
type RequisitionListRequest struct {
	dto.ListRequest
	Status      string `form:"status" binding:"omitempty,oneof=DRAFT SUBMITTED APPROVED REJECTED CONVERTED"`
	RequestedBy string `form:"requested_by" binding:"omitempty,uuid"`
}

// List returns requisitions matching the filter
func (h *RequisitionHandler) List(c *gin.Context) {
	var req RequisitionListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := procurement.RequisitionFilter{Filter: listFilter(req.ListRequest)}
	if req.Status != "" {
		status := procurement.RequisitionStatus(req.Status)
		filter.Status = &status
	}
	var err error
	if filter.RequestedBy, err = parseUUIDPtr(req.RequestedBy); err != nil {
		h.BadRequest(c, "Invalid requester ID format")
		return
	}

	result, err := h.requisitionService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	Paginated(&h.BaseHandler, c, result)
}

// Get returns a requisition by ID
func (h *RequisitionHandler) Get(c *gin.Context) {
	requisitionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid requisition ID format")
		return
	}

	requisition, err := h.requisitionService.Get(c.Request.Context(), requisitionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, requisition)
}

// Delete removes a draft requisition
func (h *RequisitionHandler) Delete(c *gin.Context) {
	requisitionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid requisition ID format")
		return
	}

	if err := h.requisitionService.Delete(c.Request.Context(), requisitionID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Submit moves a draft requisition into the approval queue
func (h *RequisitionHandler) Submit(c *gin.Context) {
	requisitionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid requisition ID format")
		return
	}

	requisition, err := h.requisitionService.Submit(c.Request.Context(), requisitionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, requisition)
}

// Approve approves a submitted requisition
func (h *RequisitionHandler) Approve(c *gin.Context) {
	requisitionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid requisition ID format")
		return
	}

	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	requisition, err := h.requisitionService.Approve(c.Request.Context(), requisitionID, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, requisition)
}

// RejectRequisitionRequest carries the rejection reason
type RejectRequisitionRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// Reject rejects a submitted requisition
func (h *RequisitionHandler) Reject(c *gin.Context) {
	requisitionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid requisition ID format")
		return
	}

	var req RejectRequisitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	requisition, err := h.requisitionService.Reject(c.Request.Context(), requisitionID, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, requisition)
}

// ConvertRequisitionRequest turns an approved requisition into a purchase order
type ConvertRequisitionRequest struct {
	SupplierName    string             `json:"supplier_name" binding:"required,min=1,max=200"`
	SupplierContact string             `json:"supplier_contact" binding:"max=200"`
	WarehouseID     string             `json:"warehouse_id" binding:"required,uuid"`
	ExpectedDate    *time.Time         `json:"expected_date"`
	UnitPrices      map[string]float64 `json:"unit_prices"`
}

// Convert converts an approved requisition into a draft purchase order
func (h *RequisitionHandler) Convert(c *gin.Context) {
	requisitionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid requisition ID format")
		return
	}

	var req ConvertRequisitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	warehouseID, err := uuid.Parse(req.WarehouseID)
	if err != nil {
		h.BadRequest(c, "Invalid warehouse ID format")
		return
	}

	cmd := procurementapp.ConvertRequisitionCommand{
		RequisitionID:   requisitionID,
		SupplierName:    req.SupplierName,
		SupplierContact: req.SupplierContact,
		WarehouseID:     warehouseID,
		ExpectedDate:    req.ExpectedDate,
	}
	if len(req.UnitPrices) > 0 {
		cmd.UnitPrices = make(map[uuid.UUID]decimal.Decimal, len(req.UnitPrices))
		for rawID, price := range req.UnitPrices {
			itemID, err := uuid.Parse(rawID)
			if err != nil {
				h.BadRequest(c, "Invalid item ID in unit prices")
				return
			}
			cmd.UnitPrices[itemID] = toDecimal(price)
		}
	}

	order, err := h.requisitionService.Convert(c.Request.Context(), cmd)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, order)
}
