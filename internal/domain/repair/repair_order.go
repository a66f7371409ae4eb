package repair

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/velocore/backend/internal/domain/shared"
)

// RepairStatus represents the state of a repair order
type RepairStatus string

const (
	RepairStatusRequested  RepairStatus = "REQUESTED"
	RepairStatusPending    RepairStatus = "PENDING"
	RepairStatusInProgress RepairStatus = "IN_PROGRESS"
	RepairStatusCompleted  RepairStatus = "COMPLETED"
	RepairStatusCancelled  RepairStatus = "CANCELLED"
)

// String returns the string representation of RepairStatus
func (s RepairStatus) String() string {
	return string(s)
}

// IsValid returns true if the status is valid
func (s RepairStatus) IsValid() bool {
	switch s {
	case RepairStatusRequested, RepairStatusPending, RepairStatusInProgress,
		RepairStatusCompleted, RepairStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo returns true if the status can transition to the target status
func (s RepairStatus) CanTransitionTo(target RepairStatus) bool {
	switch s {
	case RepairStatusRequested:
		return target == RepairStatusPending || target == RepairStatusInProgress ||
			target == RepairStatusCancelled
	case RepairStatusPending:
		return target == RepairStatusInProgress || target == RepairStatusCancelled
	case RepairStatusInProgress:
		return target == RepairStatusCompleted || target == RepairStatusCancelled
	default:
		return false
	}
}

// RepairOrderNumberPrefix is the document number prefix for repair orders
const RepairOrderNumberPrefix = "RO"

// RepairOrder tracks a repair of one asset. Starting the repair moves the
// asset to UnderRepair; completion returns it to Available. Spare parts are
// consumed through a material issue posting that references this order.
type RepairOrder struct {
	shared.BaseAggregateRoot
	OrderNumber  string       `gorm:"type:varchar(30);not null;uniqueIndex"`
	Status       RepairStatus `gorm:"type:varchar(20);not null;default:'REQUESTED';index"`
	AssetID      uuid.UUID    `gorm:"type:uuid;not null;index"`
	Description  string       `gorm:"type:varchar(500);not null"`
	RequestedBy  uuid.UUID    `gorm:"type:uuid;not null"`
	TechnicianID *uuid.UUID   `gorm:"type:uuid"`
	LaborCost    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	PartsCost    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Diagnosis    string          `gorm:"type:varchar(500)"`
	PendingAt    *time.Time
	StartedAt    *time.Time
	CompletedAt  *time.Time
	CancelReason string `gorm:"type:varchar(255)"`
	CancelledAt  *time.Time
}

// TableName returns the table name for GORM
func (RepairOrder) TableName() string {
	return "repair_orders"
}

// NewRepairOrder creates a repair request for an asset
func NewRepairOrder(orderNumber string, assetID, requestedBy uuid.UUID, description string) (*RepairOrder, error) {
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_DOCUMENT_NUMBER", "Order number cannot be empty")
	}
	if assetID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Asset ID cannot be empty")
	}
	if requestedBy == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "Requesting user cannot be empty")
	}
	if description == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Description cannot be empty")
	}

	return &RepairOrder{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNumber:       orderNumber,
		Status:            RepairStatusRequested,
		AssetID:           assetID,
		RequestedBy:       requestedBy,
		Description:       description,
		LaborCost:         decimal.Zero,
		PartsCost:         decimal.Zero,
	}, nil
}

// MarkPending queues the request for the workshop, optionally with a diagnosis
func (o *RepairOrder) MarkPending(diagnosis string) error {
	if !o.Status.CanTransitionTo(RepairStatusPending) {
		return shared.NewDomainError("INVALID_STATUS", "Only requested repairs can be queued")
	}

	now := time.Now()
	o.Status = RepairStatusPending
	o.Diagnosis = diagnosis
	o.PendingAt = &now
	o.touch()

	return nil
}

// Start assigns a technician and begins the repair
func (o *RepairOrder) Start(technicianID uuid.UUID) error {
	if result := CanStartRepair(o); !result.Allowed {
		return shared.NewDomainError("INVALID_STATUS", result.Reason)
	}
	if technicianID == uuid.Nil {
		return shared.NewDomainError("INVALID_USER", "Technician cannot be empty")
	}

	now := time.Now()
	o.Status = RepairStatusInProgress
	o.TechnicianID = &technicianID
	o.StartedAt = &now
	o.touch()

	return nil
}

// AddPartsCost accumulates the cost of consumed spare parts
func (o *RepairOrder) AddPartsCost(cost decimal.Decimal) error {
	if o.Status != RepairStatusInProgress {
		return shared.NewDomainError("INVALID_STATUS", "Repair is not in progress")
	}
	if cost.IsNegative() {
		return shared.NewDomainError("INVALID_COST", "Parts cost cannot be negative")
	}

	o.PartsCost = o.PartsCost.Add(cost)
	o.touch()

	return nil
}

// Complete finishes the repair with its labor cost
func (o *RepairOrder) Complete(laborCost decimal.Decimal) error {
	if result := CanCompleteRepair(o); !result.Allowed {
		return shared.NewDomainError("INVALID_STATUS", result.Reason)
	}
	if laborCost.IsNegative() {
		return shared.NewDomainError("INVALID_COST", "Labor cost cannot be negative")
	}

	now := time.Now()
	o.Status = RepairStatusCompleted
	o.LaborCost = laborCost
	o.CompletedAt = &now
	o.touch()

	return nil
}

// Cancel aborts a repair that has not completed
func (o *RepairOrder) Cancel(reason string) error {
	if !o.Status.CanTransitionTo(RepairStatusCancelled) {
		return shared.NewDomainError("INVALID_STATUS", "Repair cannot be cancelled in its current state")
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_INPUT", "Cancellation reason cannot be empty")
	}

	now := time.Now()
	o.Status = RepairStatusCancelled
	o.CancelReason = reason
	o.CancelledAt = &now
	o.touch()

	return nil
}

// TotalCost returns labor plus parts cost
func (o *RepairOrder) TotalCost() decimal.Decimal {
	return o.LaborCost.Add(o.PartsCost).Round(4)
}

func (o *RepairOrder) touch() {
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
}
