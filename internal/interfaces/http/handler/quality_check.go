package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	qualityapp "github.com/velocore/backend/internal/application/quality"
	"github.com/velocore/backend/internal/domain/identity"
	"github.com/velocore/backend/internal/domain/quality"
	"github.com/velocore/backend/internal/interfaces/http/dto"
	"github.com/velocore/backend/internal/interfaces/http/middleware"
)

// QualityCheckHandler handles quality check endpoints
type QualityCheckHandler struct {
	BaseHandler
	qualityService *qualityapp.QualityService
}

// NewQualityCheckHandler creates a new QualityCheckHandler
func NewQualityCheckHandler(qualityService *qualityapp.QualityService) *QualityCheckHandler {
	return &QualityCheckHandler{qualityService: qualityService}
}

// RegisterRoutes registers quality check routes
func (h *QualityCheckHandler) RegisterRoutes(rg *gin.RouterGroup) {
	checks := rg.Group("/quality-checks")
	checks.Use(middleware.RequireResource(identity.ResourceQualityCheck))
	{
		checks.POST("", h.Create)
		checks.GET("", h.List)
		checks.GET("/:id", h.Get)
		checks.DELETE("/:id", h.Delete)
		checks.POST("/:id/lines/:lineID/result", h.RecordLineResult)
		checks.POST("/:id/pass", h.Pass)
		checks.POST("/:id/fail", h.Fail)
	}
}

// CreateCheckRequest represents a request to open a quality check
type CreateCheckRequest struct {
	ReferenceType string   `json:"reference_type" binding:"required,oneof=GOODS_RECEIPT REPAIR_ORDER"`
	ReferenceID   string   `json:"reference_id" binding:"required,uuid"`
	Checklist     []string `json:"checklist" binding:"required,min=1,dive,min=1,max=500"`
}

// Create opens a draft quality check against a document
func (h *QualityCheckHandler) Create(c *gin.Context) {
	var req CreateCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	referenceID, err := uuid.Parse(req.ReferenceID)
	if err != nil {
		h.BadRequest(c, "Invalid reference ID format")
		return
	}

	check, err := h.qualityService.Create(c.Request.Context(), qualityapp.CreateCheckCommand{
		ReferenceType: req.ReferenceType,
		ReferenceID:   referenceID,
		Checklist:     req.Checklist,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, check)
}

// CheckListRequest represents quality check list query parameters
type CheckListRequest struct {
	dto.ListRequest
	Status        string `form:"status" binding:"omitempty,oneof=DRAFT PASSED FAILED"`
	ReferenceType string `form:"reference_type" binding:"omitempty,oneof=GOODS_RECEIPT REPAIR_ORDER"`
	ReferenceID   string `form:"reference_id" binding:"omitempty,uuid"`
}

// List returns quality checks matching the filter
func (h *QualityCheckHandler) List(c *gin.Context) {
	var req CheckListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := quality.CheckFilter{
		Filter:        listFilter(req.ListRequest),
		ReferenceType: req.ReferenceType,
	}
	if req.Status != "" {
		status := quality.CheckStatus(req.Status)
		filter.Status = &status
	}
	var err error
	if filter.ReferenceID, err = parseUUIDPtr(req.ReferenceID); err != nil {
		h.BadRequest(c, "Invalid reference ID format")
		return
	}

	result, err := h.qualityService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	Paginated(&h.BaseHandler, c, result)
}

// Get returns a quality check by ID
func (h *QualityCheckHandler) Get(c *gin.Context) {
	checkID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid quality check ID format")
		return
	}

	check, err := h.qualityService.Get(c.Request.Context(), checkID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, check)
}

// Delete removes a draft quality check
func (h *QualityCheckHandler) Delete(c *gin.Context) {
	checkID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid quality check ID format")
		return
	}

	if err := h.qualityService.Delete(c.Request.Context(), checkID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// LineResultRequest records the outcome of one checklist line
type LineResultRequest struct {
	Passed  bool   `json:"passed"`
	Remarks string `json:"remarks" binding:"max=500"`
}

// RecordLineResult records one checklist line outcome on a draft check
func (h *QualityCheckHandler) RecordLineResult(c *gin.Context) {
	checkID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid quality check ID format")
		return
	}
	lineID, err := uuid.Parse(c.Param("lineID"))
	if err != nil {
		h.BadRequest(c, "Invalid checklist line ID format")
		return
	}

	var req LineResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	check, err := h.qualityService.RecordLineResult(c.Request.Context(), checkID, lineID, req.Passed, req.Remarks)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, check)
}

// Pass passes a check once every checklist line has passed
func (h *QualityCheckHandler) Pass(c *gin.Context) {
	checkID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid quality check ID format")
		return
	}

	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	check, err := h.qualityService.Pass(c.Request.Context(), checkID, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, check)
}

// FailCheckRequest carries the inspector's remarks
type FailCheckRequest struct {
	Remarks string `json:"remarks" binding:"required,min=1,max=500"`
}

// Fail fails a draft check with remarks
func (h *QualityCheckHandler) Fail(c *gin.Context) {
	checkID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid quality check ID format")
		return
	}

	var req FailCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	check, err := h.qualityService.Fail(c.Request.Context(), checkID, userID, req.Remarks)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, check)
}
