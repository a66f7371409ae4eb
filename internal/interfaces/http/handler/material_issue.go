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

// MaterialIssueHandler handles material issue endpoints
type MaterialIssueHandler struct {
	BaseHandler
	issueService *manufacturingapp.MaterialIssueService
}

// NewMaterialIssueHandler creates a new MaterialIssueHandler
func NewMaterialIssueHandler(issueService *manufacturingapp.MaterialIssueService) *MaterialIssueHandler {
	return &MaterialIssueHandler{issueService: issueService}
}

// RegisterRoutes registers material issue routes
func (h *MaterialIssueHandler) RegisterRoutes(rg *gin.RouterGroup) {
	issues := rg.Group("/material-issues")
	issues.Use(middleware.RequireResource(identity.ResourceMaterialIssue))
	{
		issues.POST("", h.Create)
		issues.POST("/from-order", h.CreateFromOrder)
		issues.GET("", h.List)
		issues.GET("/:id", h.Get)
		issues.DELETE("/:id", h.Delete)
	}

	issues.POST("/:id/post",
		middleware.RequireResourceAction(identity.ResourceMaterialIssue, identity.ActionPost), h.Post)
	issues.POST("/:id/cancel",
		middleware.RequireResourceAction(identity.ResourceMaterialIssue, identity.ActionCancel), h.Cancel)
}

// IssueLineRequest is one issued component line
type IssueLineRequest struct {
	ItemID       string  `json:"item_id" binding:"required,uuid"`
	Quantity     float64 `json:"quantity" binding:"required,gt=0"`
	BatchNumber  string  `json:"batch_number" binding:"max=100"`
	SerialNumber string  `json:"serial_number" binding:"max=100"`
}

// CreateIssueRequest represents a request to create a material issue
type CreateIssueRequest struct {
	WarehouseID       string             `json:"warehouse_id" binding:"required,uuid"`
	ProductionOrderID string             `json:"production_order_id" binding:"omitempty,uuid"`
	RepairOrderID     string             `json:"repair_order_id" binding:"omitempty,uuid"`
	Notes             string             `json:"notes" binding:"max=1000"`
	Lines             []IssueLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// Create creates a draft material issue
func (h *MaterialIssueHandler) Create(c *gin.Context) {
	var req CreateIssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	warehouseID, err := uuid.Parse(req.WarehouseID)
	if err != nil {
		h.BadRequest(c, "Invalid warehouse ID format")
		return
	}
	productionOrderID, err := parseUUIDPtr(req.ProductionOrderID)
	if err != nil {
		h.BadRequest(c, "Invalid production order ID format")
		return
	}
	repairOrderID, err := parseUUIDPtr(req.RepairOrderID)
	if err != nil {
		h.BadRequest(c, "Invalid repair order ID format")
		return
	}

	lines := make([]manufacturingapp.IssueLineInput, 0, len(req.Lines))
	for _, line := range req.Lines {
		itemID, err := uuid.Parse(line.ItemID)
		if err != nil {
			h.BadRequest(c, "Invalid item ID format")
			return
		}
		lines = append(lines, manufacturingapp.IssueLineInput{
			ItemID:       itemID,
			Quantity:     toDecimal(line.Quantity),
			BatchNumber:  line.BatchNumber,
			SerialNumber: line.SerialNumber,
		})
	}

	issue, err := h.issueService.Create(c.Request.Context(), manufacturingapp.CreateIssueCommand{
		WarehouseID:       warehouseID,
		ProductionOrderID: productionOrderID,
		RepairOrderID:     repairOrderID,
		Notes:             req.Notes,
		Lines:             lines,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, issue)
}

// CreateIssueFromOrderRequest explodes a production order's BOM into a draft issue
type CreateIssueFromOrderRequest struct {
	ProductionOrderID string  `json:"production_order_id" binding:"required,uuid"`
	OutputQuantity    float64 `json:"output_quantity" binding:"required,gt=0"`
	Notes             string  `json:"notes" binding:"max=1000"`
}

// CreateFromOrder creates a draft issue from the order's active BOM
func (h *MaterialIssueHandler) CreateFromOrder(c *gin.Context) {
	var req CreateIssueFromOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	orderID, err := uuid.Parse(req.ProductionOrderID)
	if err != nil {
		h.BadRequest(c, "Invalid production order ID format")
		return
	}

	issue, err := h.issueService.CreateFromOrder(c.Request.Context(), manufacturingapp.CreateIssueFromOrderCommand{
		ProductionOrderID: orderID,
		OutputQuantity:    toDecimal(req.OutputQuantity),
		Notes:             req.Notes,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, issue)
}

// IssueListRequest represents material issue list query parameters
type IssueListRequest struct {
	dto.ListRequest
	Status            string `form:"status" binding:"omitempty,oneof=DRAFT POSTED CANCELLED"`
	WarehouseID       string `form:"warehouse_id" binding:"omitempty,uuid"`
	ProductionOrderID string `form:"production_order_id" binding:"omitempty,uuid"`
	RepairOrderID     string `form:"repair_order_id" binding:"omitempty,uuid"`
}

// List returns material issues matching the filter
func (h *MaterialIssueHandler) List(c *gin.Context) {
	var req IssueListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := manufacturing.IssueFilter{Filter: listFilter(req.ListRequest)}
	if req.Status != "" {
		status := manufacturing.IssueStatus(req.Status)
		filter.Status = &status
	}
	var err error
	if filter.WarehouseID, err = parseUUIDPtr(req.WarehouseID); err != nil {
		h.BadRequest(c, "Invalid warehouse ID format")
		return
	}
	if filter.ProductionOrderID, err = parseUUIDPtr(req.ProductionOrderID); err != nil {
		h.BadRequest(c, "Invalid production order ID format")
		return
	}
	if filter.RepairOrderID, err = parseUUIDPtr(req.RepairOrderID); err != nil {
		h.BadRequest(c, "Invalid repair order ID format")
		return
	}

	result, err := h.issueService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	Paginated(&h.BaseHandler, c, result)
}

// Get returns a material issue by ID
func (h *MaterialIssueHandler) Get(c *gin.Context) {
	issueID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid material issue ID format")
		return
	}

	issue, err := h.issueService.Get(c.Request.Context(), issueID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, issue)
}

// Delete removes a draft material issue
func (h *MaterialIssueHandler) Delete(c *gin.Context) {
	issueID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid material issue ID format")
		return
	}

	if err := h.issueService.Delete(c.Request.Context(), issueID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Post posts a draft issue, writing stock out at average cost
func (h *MaterialIssueHandler) Post(c *gin.Context) {
	issueID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid material issue ID format")
		return
	}

	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	issue, err := h.issueService.Post(c.Request.Context(), issueID, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, issue)
}

// CancelIssueRequest carries the cancellation reason
type CancelIssueRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// Cancel reverses a posted issue or discards a draft one
func (h *MaterialIssueHandler) Cancel(c *gin.Context) {
	issueID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid material issue ID format")
		return
	}

	var req CancelIssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	issue, err := h.issueService.Cancel(c.Request.Context(), issueID, userID, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, issue)
}
