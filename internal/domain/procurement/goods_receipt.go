package procurement

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/velocore/backend/internal/domain/shared"
)

// ReceiptStatus represents the posting state of a goods receipt
type ReceiptStatus string

const (
	ReceiptStatusDraft     ReceiptStatus = "DRAFT"
	ReceiptStatusPosted    ReceiptStatus = "POSTED"
	ReceiptStatusCancelled ReceiptStatus = "CANCELLED"
)

// String returns the string representation of ReceiptStatus
func (s ReceiptStatus) String() string {
	return string(s)
}

// IsValid returns true if the status is valid
func (s ReceiptStatus) IsValid() bool {
	switch s {
	case ReceiptStatusDraft, ReceiptStatusPosted, ReceiptStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo returns true if the status can transition to the target status
func (s ReceiptStatus) CanTransitionTo(target ReceiptStatus) bool {
	switch s {
	case ReceiptStatusDraft:
		return target == ReceiptStatusPosted
	case ReceiptStatusPosted:
		return target == ReceiptStatusCancelled
	default:
		return false
	}
}

// ReceiptNumberPrefix is the document number prefix for goods receipts
const ReceiptNumberPrefix = "GR"

// GoodsReceiptLine is one received line. Batch and serial numbers are
// required when the item is tracked, validated at posting time.
type GoodsReceiptLine struct {
	shared.BaseEntity
	ReceiptID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemID       uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitCost     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	BatchNumber  string          `gorm:"type:varchar(50);not null;default:''"`
	SerialNumber string          `gorm:"type:varchar(50);not null;default:''"`
	ExpiryDate   *time.Time
}

// TableName returns the table name for GORM
func (GoodsReceiptLine) TableName() string {
	return "goods_receipt_lines"
}

// GoodsReceipt records stock arriving into a warehouse. Posting writes one
// inbound ledger entry per line; cancelling a posted receipt writes
// compensating entries rather than deleting anything.
type GoodsReceipt struct {
	shared.BaseAggregateRoot
	ReceiptNumber   string        `gorm:"type:varchar(30);not null;uniqueIndex"`
	Status          ReceiptStatus `gorm:"type:varchar(20);not null;default:'DRAFT';index"`
	WarehouseID     uuid.UUID     `gorm:"type:uuid;not null;index"`
	PurchaseOrderID *uuid.UUID    `gorm:"type:uuid;index"`
	ReceiptDate     time.Time     `gorm:"type:timestamptz;not null"`
	Notes           string        `gorm:"type:varchar(500)"`
	Lines           []GoodsReceiptLine `gorm:"foreignKey:ReceiptID;constraint:OnDelete:CASCADE"`
	PostedBy        *uuid.UUID         `gorm:"type:uuid"`
	PostedAt        *time.Time
	CancelReason    string `gorm:"type:varchar(255)"`
	CancelledBy     *uuid.UUID `gorm:"type:uuid"`
	CancelledAt     *time.Time
}

// TableName returns the table name for GORM
func (GoodsReceipt) TableName() string {
	return "goods_receipts"
}

// NewGoodsReceipt creates a new draft goods receipt
func NewGoodsReceipt(receiptNumber string, warehouseID uuid.UUID) (*GoodsReceipt, error) {
	if receiptNumber == "" {
		return nil, shared.NewDomainError("INVALID_DOCUMENT_NUMBER", "Receipt number cannot be empty")
	}
	if warehouseID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_WAREHOUSE", "Warehouse ID cannot be empty")
	}

	return &GoodsReceipt{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ReceiptNumber:     receiptNumber,
		Status:            ReceiptStatusDraft,
		WarehouseID:       warehouseID,
		ReceiptDate:       time.Now(),
		Lines:             []GoodsReceiptLine{},
	}, nil
}

// WithPurchaseOrder links the receipt to the order it fulfils
func (g *GoodsReceipt) WithPurchaseOrder(orderID uuid.UUID) *GoodsReceipt {
	g.PurchaseOrderID = &orderID
	return g
}

// AddLine adds a received line. Only draft receipts can be edited.
func (g *GoodsReceipt) AddLine(itemID uuid.UUID, quantity, unitCost decimal.Decimal, batchNumber, serialNumber string, expiryDate *time.Time) error {
	if g.Status != ReceiptStatusDraft {
		return shared.NewDomainError("INVALID_STATUS", "Only draft receipts can be modified")
	}
	if itemID == uuid.Nil {
		return shared.NewDomainError("INVALID_ITEM", "Item ID cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitCost.IsNegative() {
		return shared.NewDomainError("INVALID_COST", "Unit cost cannot be negative")
	}
	if serialNumber != "" && !quantity.Equal(decimal.NewFromInt(1)) {
		return shared.NewDomainError("INVALID_QUANTITY", "Serial-tracked lines must have quantity 1")
	}

	g.Lines = append(g.Lines, GoodsReceiptLine{
		BaseEntity:   shared.NewBaseEntity(),
		ReceiptID:    g.ID,
		ItemID:       itemID,
		Quantity:     quantity,
		UnitCost:     unitCost,
		BatchNumber:  batchNumber,
		SerialNumber: serialNumber,
		ExpiryDate:   expiryDate,
	})
	g.touch()

	return nil
}

// RemoveLine removes a line from a draft receipt
func (g *GoodsReceipt) RemoveLine(lineID uuid.UUID) error {
	if g.Status != ReceiptStatusDraft {
		return shared.NewDomainError("INVALID_STATUS", "Only draft receipts can be modified")
	}

	for i, line := range g.Lines {
		if line.ID == lineID {
			g.Lines = append(g.Lines[:i], g.Lines[i+1:]...)
			g.touch()
			return nil
		}
	}

	return shared.NewDomainError("LINE_NOT_FOUND", "Line not found in receipt")
}

// MarkPosted stamps the receipt as posted. The stock movements themselves are
// applied by the posting service in the same transaction.
func (g *GoodsReceipt) MarkPosted(postedBy uuid.UUID) error {
	if !g.Status.CanTransitionTo(ReceiptStatusPosted) {
		return shared.NewDomainError("INVALID_STATUS", "Only draft receipts can be posted")
	}
	if len(g.Lines) == 0 {
		return shared.NewDomainError("EMPTY_DOCUMENT", "Receipt must have at least one line")
	}
	if postedBy == uuid.Nil {
		return shared.NewDomainError("INVALID_USER", "Posting user cannot be empty")
	}

	now := time.Now()
	g.Status = ReceiptStatusPosted
	g.PostedBy = &postedBy
	g.PostedAt = &now
	g.touch()

	return nil
}

// MarkCancelled stamps a posted receipt as cancelled. Compensating ledger
// entries are written by the posting service in the same transaction.
func (g *GoodsReceipt) MarkCancelled(cancelledBy uuid.UUID, reason string) error {
	if !g.Status.CanTransitionTo(ReceiptStatusCancelled) {
		return shared.NewDomainError("INVALID_STATUS", "Only posted receipts can be cancelled")
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_INPUT", "Cancellation reason cannot be empty")
	}
	if cancelledBy == uuid.Nil {
		return shared.NewDomainError("INVALID_USER", "Cancelling user cannot be empty")
	}

	now := time.Now()
	g.Status = ReceiptStatusCancelled
	g.CancelReason = reason
	g.CancelledBy = &cancelledBy
	g.CancelledAt = &now
	g.touch()

	return nil
}

// IsDeletable returns true while the receipt has not been posted
func (g *GoodsReceipt) IsDeletable() bool {
	return g.Status == ReceiptStatusDraft
}

// TotalValue sums quantity times unit cost across all lines
func (g *GoodsReceipt) TotalValue() decimal.Decimal {
	total := decimal.Zero
	for _, line := range g.Lines {
		total = total.Add(line.Quantity.Mul(line.UnitCost))
	}
	return total.Round(4)
}

func (g *GoodsReceipt) touch() {
	g.UpdatedAt = time.Now()
	g.IncrementVersion()
}
