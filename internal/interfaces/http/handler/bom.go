package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	manufacturingapp "github.com/velocore/backend/internal/application/manufacturing"
	"github.com/velocore/backend/internal/domain/identity"
	"github.com/velocore/backend/internal/domain/manufacturing"
	"github.com/velocore/backend/internal/interfaces/http/dto"
	"github.com/velocore/backend/internal/interfaces/http/middleware"
)

// BOMHandler handles bill of material endpoints
type BOMHandler struct {
	BaseHandler
	bomService *manufacturingapp.BOMService
}

// NewBOMHandler creates a new BOMHandler
func NewBOMHandler(bomService *manufacturingapp.BOMService) *BOMHandler {
	return &BOMHandler{bomService: bomService}
}

// RegisterRoutes registers BOM routes
func (h *BOMHandler) RegisterRoutes(rg *gin.RouterGroup) {
	boms := rg.Group("/boms")
	boms.Use(middleware.RequireResource(identity.ResourceBOM))
	{
		boms.POST("", h.Create)
		boms.GET("", h.List)
		boms.GET("/:id", h.Get)
		boms.DELETE("/:id", h.Delete)
		boms.POST("/:id/activate", h.Activate)
		boms.POST("/:id/deactivate", h.Deactivate)
	}
}

// BOMLineRequest is one component requirement
type BOMLineRequest struct {
	ComponentItemID string  `json:"component_item_id" binding:"required,uuid"`
	QuantityPer     float64 `json:"quantity_per" binding:"required,gt=0"`
	ScrapFactor     float64 `json:"scrap_factor" binding:"min=0"`
	Notes           string  `json:"notes" binding:"max=500"`
}

// CreateBOMRequest represents a request to create a BOM revision
type CreateBOMRequest struct {
	FinishedItemID string           `json:"finished_item_id" binding:"required,uuid"`
	Notes          string           `json:"notes" binding:"max=1000"`
	Lines          []BOMLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// Create creates an inactive BOM revision for a finished item
func (h *BOMHandler) Create(c *gin.Context) {
	var req CreateBOMRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	finishedItemID, err := uuid.Parse(req.FinishedItemID)
	if err != nil {
		h.BadRequest(c, "Invalid finished item ID format")
		return
	}

	lines := make([]manufacturingapp.BOMLineInput, 0, len(req.Lines))
	for _, line := range req.Lines {
		componentID, err := uuid.Parse(line.ComponentItemID)
		if err != nil {
			h.BadRequest(c, "Invalid component item ID format")
			return
		}
		lines = append(lines, manufacturingapp.BOMLineInput{
			ComponentItemID: componentID,
			QuantityPer:     toDecimal(line.QuantityPer),
			ScrapFactor:     toDecimal(line.ScrapFactor),
			Notes:           line.Notes,
		})
	}

	bom, err := h.bomService.Create(c.Request.Context(), manufacturingapp.CreateBOMCommand{
		FinishedItemID: finishedItemID,
		Notes:          req.Notes,
		Lines:          lines,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, bom)
}

// BOMListRequest represents BOM list query parameters
type BOMListRequest struct {
	dto.ListRequest
	FinishedItemID string `form:"finished_item_id" binding:"omitempty,uuid"`
	ActiveOnly     bool   `form:"active_only"`
}

// List returns BOM revisions matching the filter
func (h *BOMHandler) List(c *gin.Context) {
	var req BOMListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := manufacturing.BOMFilter{
		Filter:     listFilter(req.ListRequest),
		ActiveOnly: req.ActiveOnly,
	}
	var err error
	if filter.FinishedItemID, err = parseUUIDPtr(req.FinishedItemID); err != nil {
		h.BadRequest(c, "Invalid finished item ID format")
		return
	}

	result, err := h.bomService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	Paginated(&h.BaseHandler, c, result)
}

// Get returns a BOM revision by ID
func (h *BOMHandler) Get(c *gin.Context) {
	bomID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid BOM ID format")
		return
	}

	bom, err := h.bomService.Get(c.Request.Context(), bomID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, bom)
}

// Delete removes an inactive, unused BOM revision
func (h *BOMHandler) Delete(c *gin.Context) {
	bomID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid BOM ID format")
		return
	}

	if err := h.bomService.Delete(c.Request.Context(), bomID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Activate makes a revision the active BOM for its finished item
func (h *BOMHandler) Activate(c *gin.Context) {
	h.transition(c, h.bomService.Activate)
}

// Deactivate deactivates a BOM revision
func (h *BOMHandler) Deactivate(c *gin.Context) {
	h.transition(c, h.bomService.Deactivate)
}

func (h *BOMHandler) transition(
	c *gin.Context,
	op func(ctx context.Context, id uuid.UUID) (*manufacturing.BillOfMaterial, error),
) {
	bomID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid BOM ID format")
		return
	}

	bom, err := op(c.Request.Context(), bomID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, bom)
}
