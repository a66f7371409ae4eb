package manufacturing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/velocore/backend/internal/domain/shared"
)

// ProductionReceiptStatus represents the posting state of a production receipt
type ProductionReceiptStatus string

const (
	ProductionReceiptStatusDraft     ProductionReceiptStatus = "DRAFT"
	ProductionReceiptStatusPosted    ProductionReceiptStatus = "POSTED"
	ProductionReceiptStatusCancelled ProductionReceiptStatus = "CANCELLED"
)

// String returns the string representation of ProductionReceiptStatus
func (s ProductionReceiptStatus) String() string {
	return string(s)
}

// IsValid returns true if the status is valid
func (s ProductionReceiptStatus) IsValid() bool {
	switch s {
	case ProductionReceiptStatusDraft, ProductionReceiptStatusPosted, ProductionReceiptStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo returns true if the status can transition to the target status
func (s ProductionReceiptStatus) CanTransitionTo(target ProductionReceiptStatus) bool {
	switch s {
	case ProductionReceiptStatusDraft:
		return target == ProductionReceiptStatusPosted
	case ProductionReceiptStatusPosted:
		return target == ProductionReceiptStatusCancelled
	default:
		return false
	}
}

// ProductionReceiptNumberPrefix is the document number prefix for production receipts
const ProductionReceiptNumberPrefix = "FG"

// ProductionReceipt records finished goods entering stock from a production
// order. The unit cost is the rolled-up component cost of the order's issued
// materials, computed by the posting service.
type ProductionReceipt struct {
	shared.BaseAggregateRoot
	ReceiptNumber     string                  `gorm:"type:varchar(30);not null;uniqueIndex"`
	Status            ProductionReceiptStatus `gorm:"type:varchar(20);not null;default:'DRAFT';index"`
	ProductionOrderID uuid.UUID               `gorm:"type:uuid;not null;index"`
	WarehouseID       uuid.UUID               `gorm:"type:uuid;not null"`
	ItemID            uuid.UUID               `gorm:"type:uuid;not null"`
	Quantity          decimal.Decimal         `gorm:"type:decimal(18,4);not null"`
	UnitCost          decimal.Decimal         `gorm:"type:decimal(18,4);not null;default:0"`
	BatchNumber       string                  `gorm:"type:varchar(50);not null;default:''"`
	SerialNumber      string                  `gorm:"type:varchar(50);not null;default:''"`
	ReceiptDate       time.Time               `gorm:"type:timestamptz;not null"`
	Notes             string                  `gorm:"type:varchar(500)"`
	PostedBy          *uuid.UUID              `gorm:"type:uuid"`
	PostedAt          *time.Time
	CancelReason      string     `gorm:"type:varchar(255)"`
	CancelledBy       *uuid.UUID `gorm:"type:uuid"`
	CancelledAt       *time.Time
}

// TableName returns the table name for GORM
func (ProductionReceipt) TableName() string {
	return "production_receipts"
}

// NewProductionReceipt creates a new draft production receipt
func NewProductionReceipt(receiptNumber string, productionOrderID, warehouseID, itemID uuid.UUID, quantity decimal.Decimal) (*ProductionReceipt, error) {
	if receiptNumber == "" {
		return nil, shared.NewDomainError("INVALID_DOCUMENT_NUMBER", "Receipt number cannot be empty")
	}
	if productionOrderID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Production order ID cannot be empty")
	}
	if warehouseID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_WAREHOUSE", "Warehouse ID cannot be empty")
	}
	if itemID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ITEM", "Item ID cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	return &ProductionReceipt{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ReceiptNumber:     receiptNumber,
		Status:            ProductionReceiptStatusDraft,
		ProductionOrderID: productionOrderID,
		WarehouseID:       warehouseID,
		ItemID:            itemID,
		Quantity:          quantity,
		UnitCost:          decimal.Zero,
		ReceiptDate:       time.Now(),
	}, nil
}

// WithBatch records the batch number for batch-tracked finished goods
func (p *ProductionReceipt) WithBatch(batchNumber string) *ProductionReceipt {
	p.BatchNumber = batchNumber
	return p
}

// WithSerial records the serial number for serial-tracked finished goods
func (p *ProductionReceipt) WithSerial(serialNumber string) *ProductionReceipt {
	p.SerialNumber = serialNumber
	return p
}

// SetUnitCost sets the rolled-up cost before posting
func (p *ProductionReceipt) SetUnitCost(unitCost decimal.Decimal) error {
	if p.Status != ProductionReceiptStatusDraft {
		return shared.NewDomainError("INVALID_STATUS", "Only draft receipts can be modified")
	}
	if unitCost.IsNegative() {
		return shared.NewDomainError("INVALID_COST", "Unit cost cannot be negative")
	}

	p.UnitCost = unitCost
	p.touch()

	return nil
}

// MarkPosted stamps the receipt as posted
func (p *ProductionReceipt) MarkPosted(postedBy uuid.UUID) error {
	if !p.Status.CanTransitionTo(ProductionReceiptStatusPosted) {
		return shared.NewDomainError("INVALID_STATUS", "Only draft receipts can be posted")
	}
	if postedBy == uuid.Nil {
		return shared.NewDomainError("INVALID_USER", "Posting user cannot be empty")
	}
	if p.SerialNumber != "" && !p.Quantity.Equal(decimal.NewFromInt(1)) {
		return shared.NewDomainError("INVALID_QUANTITY", "Serial-tracked receipts must have quantity 1")
	}

	now := time.Now()
	p.Status = ProductionReceiptStatusPosted
	p.PostedBy = &postedBy
	p.PostedAt = &now
	p.touch()

	return nil
}

// MarkCancelled stamps a posted receipt as cancelled
func (p *ProductionReceipt) MarkCancelled(cancelledBy uuid.UUID, reason string) error {
	if !p.Status.CanTransitionTo(ProductionReceiptStatusCancelled) {
		return shared.NewDomainError("INVALID_STATUS", "Only posted receipts can be cancelled")
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_INPUT", "Cancellation reason cannot be empty")
	}
	if cancelledBy == uuid.Nil {
		return shared.NewDomainError("INVALID_USER", "Cancelling user cannot be empty")
	}

	now := time.Now()
	p.Status = ProductionReceiptStatusCancelled
	p.CancelReason = reason
	p.CancelledBy = &cancelledBy
	p.CancelledAt = &now
	p.touch()

	return nil
}

// IsDeletable returns true while the receipt has not been posted
func (p *ProductionReceipt) IsDeletable() bool {
	return p.Status == ProductionReceiptStatusDraft
}

func (p *ProductionReceipt) touch() {
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}
