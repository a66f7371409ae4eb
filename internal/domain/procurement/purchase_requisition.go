package procurement

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/velocore/backend/internal/domain/shared"
)

// RequisitionStatus represents the state of a purchase requisition
type RequisitionStatus string

const (
	RequisitionStatusDraft     RequisitionStatus = "DRAFT"
	RequisitionStatusSubmitted RequisitionStatus = "SUBMITTED"
	RequisitionStatusApproved  RequisitionStatus = "APPROVED"
	RequisitionStatusRejected  RequisitionStatus = "REJECTED"
	RequisitionStatusConverted RequisitionStatus = "CONVERTED"
)

// String returns the string representation of RequisitionStatus
func (s RequisitionStatus) String() string {
	return string(s)
}

// IsValid returns true if the status is valid
func (s RequisitionStatus) IsValid() bool {
	switch s {
	case RequisitionStatusDraft, RequisitionStatusSubmitted, RequisitionStatusApproved,
		RequisitionStatusRejected, RequisitionStatusConverted:
		return true
	}
	return false
}

// CanTransitionTo returns true if the status can transition to the target status
func (s RequisitionStatus) CanTransitionTo(target RequisitionStatus) bool {
	switch s {
	case RequisitionStatusDraft:
		return target == RequisitionStatusSubmitted
	case RequisitionStatusSubmitted:
		return target == RequisitionStatusApproved || target == RequisitionStatusRejected
	case RequisitionStatusApproved:
		return target == RequisitionStatusConverted
	default:
		return false
	}
}

// RequisitionNumberPrefix is the document number prefix for requisitions
const RequisitionNumberPrefix = "PR"

// PurchaseRequisitionItem is one requested line on a requisition
type PurchaseRequisitionItem struct {
	shared.BaseEntity
	RequisitionID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemID        uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	EstimatedCost decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Notes         string          `gorm:"type:varchar(255)"`
}

// TableName returns the table name for GORM
func (PurchaseRequisitionItem) TableName() string {
	return "purchase_requisition_items"
}

// PurchaseRequisition is a request for materials to be purchased. It moves
// Draft -> Submitted -> Approved/Rejected, and an approved requisition is
// marked Converted once a purchase order has been created from it.
type PurchaseRequisition struct {
	shared.BaseAggregateRoot
	RequisitionNumber string            `gorm:"type:varchar(30);not null;uniqueIndex"`
	Status            RequisitionStatus `gorm:"type:varchar(20);not null;default:'DRAFT';index"`
	RequestedBy       uuid.UUID         `gorm:"type:uuid;not null"`
	RequiredDate      *time.Time
	Notes             string                    `gorm:"type:varchar(500)"`
	Items             []PurchaseRequisitionItem `gorm:"foreignKey:RequisitionID;constraint:OnDelete:CASCADE"`
	SubmittedAt       *time.Time
	ApprovedBy        *uuid.UUID `gorm:"type:uuid"`
	ApprovedAt        *time.Time
	RejectedReason    string `gorm:"type:varchar(255)"`
	RejectedAt        *time.Time
	ConvertedOrderID  *uuid.UUID `gorm:"type:uuid"`
	ConvertedAt       *time.Time
}

// TableName returns the table name for GORM
func (PurchaseRequisition) TableName() string {
	return "purchase_requisitions"
}

// NewPurchaseRequisition creates a new draft requisition
func NewPurchaseRequisition(requisitionNumber string, requestedBy uuid.UUID) (*PurchaseRequisition, error) {
	if requisitionNumber == "" {
		return nil, shared.NewDomainError("INVALID_DOCUMENT_NUMBER", "Requisition number cannot be empty")
	}
	if requestedBy == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "Requested-by user cannot be empty")
	}

	return &PurchaseRequisition{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		RequisitionNumber: requisitionNumber,
		Status:            RequisitionStatusDraft,
		RequestedBy:       requestedBy,
		Items:             []PurchaseRequisitionItem{},
	}, nil
}

// AddItem adds a requested line. Only draft requisitions can be edited.
func (r *PurchaseRequisition) AddItem(itemID uuid.UUID, quantity, estimatedCost decimal.Decimal, notes string) error {
	if r.Status != RequisitionStatusDraft {
		return shared.NewDomainError("INVALID_STATUS", "Only draft requisitions can be modified")
	}
	if itemID == uuid.Nil {
		return shared.NewDomainError("INVALID_ITEM", "Item ID cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if estimatedCost.IsNegative() {
		return shared.NewDomainError("INVALID_COST", "Estimated cost cannot be negative")
	}

	r.Items = append(r.Items, PurchaseRequisitionItem{
		BaseEntity:    shared.NewBaseEntity(),
		RequisitionID: r.ID,
		ItemID:        itemID,
		Quantity:      quantity,
		EstimatedCost: estimatedCost,
		Notes:         notes,
	})
	r.touch()

	return nil
}

// RemoveItem removes a line from a draft requisition
func (r *PurchaseRequisition) RemoveItem(itemID uuid.UUID) error {
	if r.Status != RequisitionStatusDraft {
		return shared.NewDomainError("INVALID_STATUS", "Only draft requisitions can be modified")
	}

	for i, item := range r.Items {
		if item.ItemID == itemID {
			r.Items = append(r.Items[:i], r.Items[i+1:]...)
			r.touch()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Item not found in requisition")
}

// Submit moves the requisition to the approval queue
func (r *PurchaseRequisition) Submit() error {
	if !r.Status.CanTransitionTo(RequisitionStatusSubmitted) {
		return shared.NewDomainError("INVALID_STATUS", "Only draft requisitions can be submitted")
	}
	if len(r.Items) == 0 {
		return shared.NewDomainError("EMPTY_DOCUMENT", "Requisition must have at least one item")
	}

	now := time.Now()
	r.Status = RequisitionStatusSubmitted
	r.SubmittedAt = &now
	r.touch()

	return nil
}

// Approve accepts a submitted requisition
func (r *PurchaseRequisition) Approve(approvedBy uuid.UUID) error {
	if !r.Status.CanTransitionTo(RequisitionStatusApproved) {
		return shared.NewDomainError("INVALID_STATUS", "Only submitted requisitions can be approved")
	}
	if approvedBy == uuid.Nil {
		return shared.NewDomainError("INVALID_USER", "Approver cannot be empty")
	}

	now := time.Now()
	r.Status = RequisitionStatusApproved
	r.ApprovedBy = &approvedBy
	r.ApprovedAt = &now
	r.touch()

	return nil
}

// Reject declines a submitted requisition with a reason
func (r *PurchaseRequisition) Reject(reason string) error {
	if !r.Status.CanTransitionTo(RequisitionStatusRejected) {
		return shared.NewDomainError("INVALID_STATUS", "Only submitted requisitions can be rejected")
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_INPUT", "Rejection reason cannot be empty")
	}

	now := time.Now()
	r.Status = RequisitionStatusRejected
	r.RejectedReason = reason
	r.RejectedAt = &now
	r.touch()

	return nil
}

// MarkConverted links the requisition to the purchase order created from it
func (r *PurchaseRequisition) MarkConverted(orderID uuid.UUID) error {
	if !r.Status.CanTransitionTo(RequisitionStatusConverted) {
		return shared.NewDomainError("INVALID_STATUS", "Only approved requisitions can be converted")
	}
	if orderID == uuid.Nil {
		return shared.NewDomainError("INVALID_INPUT", "Order ID cannot be empty")
	}

	now := time.Now()
	r.Status = RequisitionStatusConverted
	r.ConvertedOrderID = &orderID
	r.ConvertedAt = &now
	r.touch()

	return nil
}

// EstimatedTotal sums quantity times estimated cost across all lines
func (r *PurchaseRequisition) EstimatedTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range r.Items {
		total = total.Add(item.Quantity.Mul(item.EstimatedCost))
	}
	return total.Round(4)
}

func (r *PurchaseRequisition) touch() {
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
}
