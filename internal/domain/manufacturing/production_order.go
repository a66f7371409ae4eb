package manufacturing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/velocore/backend/internal/domain/shared"
)

// ProductionStatus represents the state of a production order
type ProductionStatus string

const (
	ProductionStatusDraft      ProductionStatus = "DRAFT"
	ProductionStatusReleased   ProductionStatus = "RELEASED"
	ProductionStatusInProgress ProductionStatus = "IN_PROGRESS"
	ProductionStatusCompleted  ProductionStatus = "COMPLETED"
	ProductionStatusCancelled  ProductionStatus = "CANCELLED"
)

// String returns the string representation of ProductionStatus
func (s ProductionStatus) String() string {
	return string(s)
}

// IsValid returns true if the status is valid
func (s ProductionStatus) IsValid() bool {
	switch s {
	case ProductionStatusDraft, ProductionStatusReleased, ProductionStatusInProgress,
		ProductionStatusCompleted, ProductionStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo returns true if the status can transition to the target status
func (s ProductionStatus) CanTransitionTo(target ProductionStatus) bool {
	switch s {
	case ProductionStatusDraft:
		return target == ProductionStatusReleased || target == ProductionStatusCancelled
	case ProductionStatusReleased:
		return target == ProductionStatusInProgress || target == ProductionStatusCancelled
	case ProductionStatusInProgress:
		return target == ProductionStatusCompleted || target == ProductionStatusCancelled
	default:
		return false
	}
}

// ProductionOrderNumberPrefix is the document number prefix for production orders
const ProductionOrderNumberPrefix = "MO"

// ProductionOrder plans and tracks the assembly of a finished item from its
// BOM components. Material issues and production receipts reference it.
type ProductionOrder struct {
	shared.BaseAggregateRoot
	OrderNumber       string           `gorm:"type:varchar(30);not null;uniqueIndex"`
	Status            ProductionStatus `gorm:"type:varchar(20);not null;default:'DRAFT';index"`
	FinishedItemID    uuid.UUID        `gorm:"type:uuid;not null;index"`
	BOMID             uuid.UUID        `gorm:"type:uuid;not null"`
	WarehouseID       uuid.UUID        `gorm:"type:uuid;not null"`
	PlannedQuantity   decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	CompletedQuantity decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	PlannedDate       *time.Time
	Notes             string `gorm:"type:varchar(500)"`
	ReleasedAt        *time.Time
	StartedAt         *time.Time
	CompletedAt       *time.Time
	CancelReason      string `gorm:"type:varchar(255)"`
	CancelledAt       *time.Time
}

// TableName returns the table name for GORM
func (ProductionOrder) TableName() string {
	return "production_orders"
}

// NewProductionOrder creates a new draft production order
func NewProductionOrder(orderNumber string, finishedItemID, bomID, warehouseID uuid.UUID, plannedQuantity decimal.Decimal) (*ProductionOrder, error) {
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_DOCUMENT_NUMBER", "Order number cannot be empty")
	}
	if finishedItemID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ITEM", "Finished item ID cannot be empty")
	}
	if bomID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "BOM ID cannot be empty")
	}
	if warehouseID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_WAREHOUSE", "Warehouse ID cannot be empty")
	}
	if plannedQuantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Planned quantity must be positive")
	}

	return &ProductionOrder{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNumber:       orderNumber,
		Status:            ProductionStatusDraft,
		FinishedItemID:    finishedItemID,
		BOMID:             bomID,
		WarehouseID:       warehouseID,
		PlannedQuantity:   plannedQuantity,
		CompletedQuantity: decimal.Zero,
	}, nil
}

// Release hands the order to the shop floor
func (o *ProductionOrder) Release() error {
	if !o.Status.CanTransitionTo(ProductionStatusReleased) {
		return shared.NewDomainError("INVALID_STATUS", "Only draft orders can be released")
	}

	now := time.Now()
	o.Status = ProductionStatusReleased
	o.ReleasedAt = &now
	o.touch()

	return nil
}

// Start marks assembly as begun. The first material issue posting starts the
// order implicitly.
func (o *ProductionOrder) Start() error {
	if !o.Status.CanTransitionTo(ProductionStatusInProgress) {
		return shared.NewDomainError("INVALID_STATUS", "Only released orders can be started")
	}

	now := time.Now()
	o.Status = ProductionStatusInProgress
	o.StartedAt = &now
	o.touch()

	return nil
}

// RecordOutput applies a posted production receipt to the order. Completion
// happens when the planned quantity has been produced.
func (o *ProductionOrder) RecordOutput(quantity decimal.Decimal) error {
	if o.Status != ProductionStatusInProgress {
		return shared.NewDomainError("INVALID_STATUS", "Order is not in progress")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	newCompleted := o.CompletedQuantity.Add(quantity)
	if newCompleted.GreaterThan(o.PlannedQuantity) {
		return shared.NewDomainError("OVER_PRODUCTION", "Output exceeds planned quantity")
	}

	o.CompletedQuantity = newCompleted
	if o.CompletedQuantity.Equal(o.PlannedQuantity) {
		now := time.Now()
		o.Status = ProductionStatusCompleted
		o.CompletedAt = &now
	}
	o.touch()

	return nil
}

// RevertOutput backs out a cancelled production receipt and reopens the order
// when it had been completed by that receipt.
func (o *ProductionOrder) RevertOutput(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if o.CompletedQuantity.LessThan(quantity) {
		return shared.NewDomainError("INVALID_QUANTITY", "Cannot revert more than was produced")
	}

	o.CompletedQuantity = o.CompletedQuantity.Sub(quantity)
	if o.Status == ProductionStatusCompleted {
		o.Status = ProductionStatusInProgress
		o.CompletedAt = nil
	}
	o.touch()

	return nil
}

// Cancel aborts an order that has not been completed
func (o *ProductionOrder) Cancel(reason string) error {
	if !o.Status.CanTransitionTo(ProductionStatusCancelled) {
		return shared.NewDomainError("INVALID_STATUS", "Order cannot be cancelled in its current state")
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_INPUT", "Cancellation reason cannot be empty")
	}

	now := time.Now()
	o.Status = ProductionStatusCancelled
	o.CancelReason = reason
	o.CancelledAt = &now
	o.touch()

	return nil
}

// RemainingQuantity returns how much of the plan is still open
func (o *ProductionOrder) RemainingQuantity() decimal.Decimal {
	return o.PlannedQuantity.Sub(o.CompletedQuantity)
}

func (o *ProductionOrder) touch() {
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
}
