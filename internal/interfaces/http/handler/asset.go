package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	rentalapp "github.com/velocore/backend/internal/application/rental"
	"github.com/velocore/backend/internal/domain/identity"
	"github.com/velocore/backend/internal/domain/rental"
	"github.com/velocore/backend/internal/interfaces/http/dto"
	"github.com/velocore/backend/internal/interfaces/http/middleware"
)

// AssetHandler handles rental fleet asset endpoints
type AssetHandler struct {
	BaseHandler
	rentalService *rentalapp.RentalService
}

// NewAssetHandler creates a new AssetHandler
func NewAssetHandler(rentalService *rentalapp.RentalService) *AssetHandler {
	return &AssetHandler{rentalService: rentalService}
}

// RegisterRoutes registers asset routes
func (h *AssetHandler) RegisterRoutes(rg *gin.RouterGroup) {
	assets := rg.Group("/assets")
	assets.Use(middleware.RequireResource(identity.ResourceAsset))
	{
		assets.POST("", h.Register)
		assets.GET("", h.List)
		assets.GET("/:id", h.Get)
		assets.POST("/:id/retire", h.Retire)
		assets.POST("/:id/mark-lost", h.MarkLost)
	}
}

// RegisterAssetRequest represents a request to register a fleet asset
type RegisterAssetRequest struct {
	Code            string     `json:"code" binding:"required,min=1,max=50"`
	Model           string     `json:"model" binding:"required,min=1,max=200"`
	SerialNumber    string     `json:"serial_number" binding:"max=100"`
	AcquisitionCost float64    `json:"acquisition_cost" binding:"min=0"`
	AcquiredAt      *time.Time `json:"acquired_at"`
	Notes           string     `json:"notes" binding:"max=1000"`
}

// Register adds a new e-bike to the rental fleet
func (h *AssetHandler) Register(c *gin.Context) {
	var req RegisterAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	asset, err := h.rentalService.RegisterAsset(c.Request.Context(), rentalapp.CreateAssetCommand{
		Code:            req.Code,
		Model:           req.Model,
		SerialNumber:    req.SerialNumber,
		AcquisitionCost: toDecimal(req.AcquisitionCost),
		AcquiredAt:      req.AcquiredAt,
		Notes:           req.Notes,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, asset)
}

// AssetListRequest represents asset list query parameters
type AssetListRequest struct {
	dto.ListRequest
	Status     string `form:"status" binding:"omitempty,oneof=AVAILABLE RENTED UNDER_REPAIR RETIRED LOST"`
	Model      string `form:"model" binding:"omitempty,max=200"`
	ActiveOnly bool   `form:"active_only"`
}

// List returns fleet assets matching the filter
func (h *AssetHandler) List(c *gin.Context) {
	var req AssetListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := rental.AssetFilter{
		Filter:     listFilter(req.ListRequest),
		Model:      req.Model,
		ActiveOnly: req.ActiveOnly,
	}
	if req.Status != "" {
		status := rental.AssetStatus(req.Status)
		filter.Status = &status
	}

	result, err := h.rentalService.ListAssets(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	Paginated(&h.BaseHandler, c, result)
}

// Get returns an asset by ID
func (h *AssetHandler) Get(c *gin.Context) {
	assetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid asset ID format")
		return
	}

	asset, err := h.rentalService.GetAsset(c.Request.Context(), assetID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, asset)
}

// Retire removes an asset from the rentable pool permanently
func (h *AssetHandler) Retire(c *gin.Context) {
	h.transition(c, h.rentalService.RetireAsset)
}

// MarkLost marks an asset as lost
func (h *AssetHandler) MarkLost(c *gin.Context) {
	h.transition(c, h.rentalService.MarkAssetLost)
}

func (h *AssetHandler) transition(
	c *gin.Context,
	op func(ctx context.Context, id uuid.UUID) (*rental.Asset, error),
) {
	assetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid asset ID format")
		return
	}

	asset, err := op(c.Request.Context(), assetID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, asset)
}
