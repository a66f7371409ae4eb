package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	rentalapp "github.com/velocore/backend/internal/application/rental"
	"github.com/velocore/backend/internal/domain/identity"
	"github.com/velocore/backend/internal/domain/rental"
	"github.com/velocore/backend/internal/interfaces/http/dto"
	"github.com/velocore/backend/internal/interfaces/http/middleware"
)

// RentalContractHandler handles rental contract endpoints
type RentalContractHandler struct {
	BaseHandler
	rentalService *rentalapp.RentalService
}

// NewRentalContractHandler creates a new RentalContractHandler
func NewRentalContractHandler(rentalService *rentalapp.RentalService) *RentalContractHandler {
	return &RentalContractHandler{rentalService: rentalService}
}

// RegisterRoutes registers rental contract routes
func (h *RentalContractHandler) RegisterRoutes(rg *gin.RouterGroup) {
	contracts := rg.Group("/rental-contracts")
	contracts.Use(middleware.RequireResource(identity.ResourceRentalContract))
	{
		contracts.POST("", h.Create)
		contracts.GET("", h.List)
		contracts.GET("/:id", h.Get)
		contracts.POST("/:id/rent", h.Rent)
		contracts.POST("/:id/return", h.Return)
		contracts.POST("/:id/cancel", h.Cancel)
		contracts.POST("/sweep-overdue", h.SweepOverdue)
	}
}

// CreateContractRequest represents a request to draft a rental contract
type CreateContractRequest struct {
	AssetID       string  `json:"asset_id" binding:"required,uuid"`
	CustomerName  string  `json:"customer_name" binding:"required,min=1,max=200"`
	CustomerPhone string  `json:"customer_phone" binding:"max=50"`
	DailyRate     float64 `json:"daily_rate" binding:"required,gt=0"`
	Notes         string  `json:"notes" binding:"max=1000"`
}

// Create drafts a rental contract for an available asset
func (h *RentalContractHandler) Create(c *gin.Context) {
	var req CreateContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	assetID, err := uuid.Parse(req.AssetID)
	if err != nil {
		h.BadRequest(c, "Invalid asset ID format")
		return
	}

	contract, err := h.rentalService.CreateContract(c.Request.Context(), rentalapp.CreateContractCommand{
		AssetID:       assetID,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		DailyRate:     toDecimal(req.DailyRate),
		Notes:         req.Notes,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, contract)
}

// ContractListRequest represents contract list query parameters
type ContractListRequest struct {
	dto.ListRequest
	Status       string `form:"status" binding:"omitempty,oneof=DRAFT ACTIVE OVERDUE CLOSED CANCELLED"`
	AssetID      string `form:"asset_id" binding:"omitempty,uuid"`
	CustomerName string `form:"customer_name" binding:"omitempty,max=200"`
	DueBefore    string `form:"due_before" binding:"omitempty,datetime=2006-01-02"`
}

// List returns rental contracts matching the filter
func (h *RentalContractHandler) List(c *gin.Context) {
	var req ContractListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := rental.ContractFilter{
		Filter:       listFilter(req.ListRequest),
		CustomerName: req.CustomerName,
	}
	if req.Status != "" {
		status := rental.ContractStatus(req.Status)
		filter.Status = &status
	}
	var err error
	if filter.AssetID, err = parseUUIDPtr(req.AssetID); err != nil {
		h.BadRequest(c, "Invalid asset ID format")
		return
	}
	if req.DueBefore != "" {
		due, _ := time.Parse("2006-01-02", req.DueBefore)
		filter.DueBefore = &due
	}

	result, err := h.rentalService.ListContracts(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	Paginated(&h.BaseHandler, c, result)
}

// Get returns a rental contract by ID
func (h *RentalContractHandler) Get(c *gin.Context) {
	contractID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid contract ID format")
		return
	}

	contract, err := h.rentalService.GetContract(c.Request.Context(), contractID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, contract)
}

// RentRequest activates a draft contract for a rental period
type RentRequest struct {
	StartDate time.Time `json:"start_date" binding:"required"`
	DueDate   time.Time `json:"due_date" binding:"required"`
}

// Rent hands the asset over and activates the contract
func (h *RentalContractHandler) Rent(c *gin.Context) {
	contractID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid contract ID format")
		return
	}

	var req RentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	contract, err := h.rentalService.Rent(c.Request.Context(), contractID, req.StartDate, req.DueDate)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, contract)
}

// ReturnRequest closes an active contract
type ReturnRequest struct {
	ReturnedDate *time.Time `json:"returned_date"`
}

// Return takes the asset back and closes the contract. The returned date
// defaults to now.
func (h *RentalContractHandler) Return(c *gin.Context) {
	contractID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid contract ID format")
		return
	}

	var req ReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		h.BadRequest(c, err.Error())
		return
	}
	returnedDate := time.Now()
	if req.ReturnedDate != nil {
		returnedDate = *req.ReturnedDate
	}

	contract, err := h.rentalService.Return(c.Request.Context(), contractID, returnedDate)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, contract)
}

// CancelContractRequest carries the cancellation reason
type CancelContractRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// Cancel cancels a draft contract and frees the reserved asset
func (h *RentalContractHandler) Cancel(c *gin.Context) {
	contractID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid contract ID format")
		return
	}

	var req CancelContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	contract, err := h.rentalService.CancelContract(c.Request.Context(), contractID, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, contract)
}

// SweepOverdue marks every active contract past its due date as overdue and
// returns how many were flagged
func (h *RentalContractHandler) SweepOverdue(c *gin.Context) {
	count, err := h.rentalService.SweepOverdue(c.Request.Context(), time.Now())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"flagged": count})
}
