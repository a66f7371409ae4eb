package rental

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/velocore/backend/internal/domain/shared"
)

// ContractStatus represents the state of a rental contract
type ContractStatus string

const (
	ContractStatusDraft     ContractStatus = "DRAFT"
	ContractStatusActive    ContractStatus = "ACTIVE"
	ContractStatusOverdue   ContractStatus = "OVERDUE"
	ContractStatusClosed    ContractStatus = "CLOSED"
	ContractStatusCancelled ContractStatus = "CANCELLED"
)

// String returns the string representation of ContractStatus
func (s ContractStatus) String() string {
	return string(s)
}

// IsValid returns true if the status is valid
func (s ContractStatus) IsValid() bool {
	switch s {
	case ContractStatusDraft, ContractStatusActive, ContractStatusOverdue,
		ContractStatusClosed, ContractStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo returns true if the status can transition to the target status
func (s ContractStatus) CanTransitionTo(target ContractStatus) bool {
	switch s {
	case ContractStatusDraft:
		return target == ContractStatusActive || target == ContractStatusCancelled
	case ContractStatusActive:
		return target == ContractStatusOverdue || target == ContractStatusClosed
	case ContractStatusOverdue:
		return target == ContractStatusClosed
	default:
		return false
	}
}

// ContractNumberPrefix is the document number prefix for rental contracts
const ContractNumberPrefix = "RC"

// OverdueSurchargeRate is the multiplier applied to the daily rate for each
// day past the due date.
var OverdueSurchargeRate = decimal.NewFromFloat(1.5)

// RentalContract rents one asset to a customer for a daily rate. Activation
// marks the asset rented; returning frees it and computes the charge.
type RentalContract struct {
	shared.BaseAggregateRoot
	ContractNumber string         `gorm:"type:varchar(30);not null;uniqueIndex"`
	Status         ContractStatus `gorm:"type:varchar(20);not null;default:'DRAFT';index"`
	AssetID        uuid.UUID      `gorm:"type:uuid;not null;index"`
	CustomerName   string         `gorm:"type:varchar(100);not null"`
	CustomerPhone  string         `gorm:"type:varchar(30)"`
	DailyRate      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	StartDate      *time.Time
	DueDate        *time.Time
	ReturnedDate   *time.Time
	TotalCharge    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Notes          string          `gorm:"type:varchar(500)"`
	CancelReason   string          `gorm:"type:varchar(255)"`
	CancelledAt    *time.Time
}

// TableName returns the table name for GORM
func (RentalContract) TableName() string {
	return "rental_contracts"
}

// NewRentalContract creates a new draft contract for an asset
func NewRentalContract(contractNumber string, assetID uuid.UUID, customerName string, dailyRate decimal.Decimal) (*RentalContract, error) {
	if contractNumber == "" {
		return nil, shared.NewDomainError("INVALID_DOCUMENT_NUMBER", "Contract number cannot be empty")
	}
	if assetID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Asset ID cannot be empty")
	}
	if customerName == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Customer name cannot be empty")
	}
	if dailyRate.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_PRICE", "Daily rate must be positive")
	}

	return &RentalContract{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ContractNumber:    contractNumber,
		Status:            ContractStatusDraft,
		AssetID:           assetID,
		CustomerName:      customerName,
		DailyRate:         dailyRate,
		TotalCharge:       decimal.Zero,
	}, nil
}

// Activate starts the rental period. The asset state change happens in the
// same transaction at the service layer after the CanRent guard passes.
func (c *RentalContract) Activate(startDate, dueDate time.Time) error {
	if !c.Status.CanTransitionTo(ContractStatusActive) {
		return shared.NewDomainError("INVALID_STATUS", "Only draft contracts can be activated")
	}
	if !dueDate.After(startDate) {
		return shared.NewDomainError("INVALID_INPUT", "Due date must be after start date")
	}

	c.Status = ContractStatusActive
	c.StartDate = &startDate
	c.DueDate = &dueDate
	c.touch()

	return nil
}

// MarkOverdue flags an active contract whose due date has passed
func (c *RentalContract) MarkOverdue(now time.Time) error {
	if !c.Status.CanTransitionTo(ContractStatusOverdue) {
		return shared.NewDomainError("INVALID_STATUS", "Only active contracts can become overdue")
	}
	if c.DueDate == nil || !now.After(*c.DueDate) {
		return shared.NewDomainError("INVALID_STATE", "Contract is not past its due date")
	}

	c.Status = ContractStatusOverdue
	c.touch()

	return nil
}

// Close ends the rental and computes the total charge: full days at the
// daily rate, with days past the due date charged at the surcharge rate.
// Partial days round up; a same-day return is charged as one day.
func (c *RentalContract) Close(returnedDate time.Time) error {
	if result := CanReturn(c); !result.Allowed {
		return shared.NewDomainError("INVALID_STATUS", result.Reason)
	}
	if returnedDate.Before(*c.StartDate) {
		return shared.NewDomainError("INVALID_INPUT", "Return date cannot precede start date")
	}

	c.Status = ContractStatusClosed
	c.ReturnedDate = &returnedDate
	c.TotalCharge = c.computeCharge(returnedDate)
	c.touch()

	return nil
}

// Cancel aborts a contract that never started
func (c *RentalContract) Cancel(reason string) error {
	if !c.Status.CanTransitionTo(ContractStatusCancelled) {
		return shared.NewDomainError("INVALID_STATUS", "Only draft contracts can be cancelled")
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_INPUT", "Cancellation reason cannot be empty")
	}

	now := time.Now()
	c.Status = ContractStatusCancelled
	c.CancelReason = reason
	c.CancelledAt = &now
	c.touch()

	return nil
}

// IsPastDue returns true when an active contract has run past its due date
func (c *RentalContract) IsPastDue(now time.Time) bool {
	return c.Status == ContractStatusActive && c.DueDate != nil && now.After(*c.DueDate)
}

func (c *RentalContract) computeCharge(returnedDate time.Time) decimal.Decimal {
	totalDays := daysBetween(*c.StartDate, returnedDate)

	overdueDays := int64(0)
	if returnedDate.After(*c.DueDate) {
		overdueDays = daysBetween(*c.DueDate, returnedDate)
	}
	regularDays := totalDays - overdueDays

	charge := c.DailyRate.Mul(decimal.NewFromInt(regularDays)).
		Add(c.DailyRate.Mul(OverdueSurchargeRate).Mul(decimal.NewFromInt(overdueDays)))
	return charge.Round(4)
}

// daysBetween counts charged days from start to end, rounding partial days up
// and charging at least one day.
func daysBetween(start, end time.Time) int64 {
	hours := end.Sub(start).Hours()
	days := int64(hours / 24)
	if hours > float64(days*24) || days == 0 {
		days++
	}
	return days
}

func (c *RentalContract) touch() {
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}
