package inventory

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/velocore/backend/internal/domain/shared"
)

// TransactionType classifies a stock ledger movement
type TransactionType string

const (
	// TransactionTypeGoodsReceipt is stock received against a purchase order
	TransactionTypeGoodsReceipt TransactionType = "GOODS_RECEIPT"
	// TransactionTypeProductionReceipt is finished stock received from production
	TransactionTypeProductionReceipt TransactionType = "PRODUCTION_RECEIPT"
	// TransactionTypeMaterialIssue is component stock issued to production or repair
	TransactionTypeMaterialIssue TransactionType = "MATERIAL_ISSUE"
	// TransactionTypeAdjustment is a manual stock correction
	TransactionTypeAdjustment TransactionType = "ADJUSTMENT"
	// TransactionTypeTransfer is a movement between warehouses
	TransactionTypeTransfer TransactionType = "TRANSFER"
	// TransactionTypeReturn is stock returned into the warehouse
	TransactionTypeReturn TransactionType = "RETURN"
)

// String returns the string representation of TransactionType
func (t TransactionType) String() string {
	return string(t)
}

// IsValid returns true if the transaction type is valid
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionTypeGoodsReceipt,
		TransactionTypeProductionReceipt,
		TransactionTypeMaterialIssue,
		TransactionTypeAdjustment,
		TransactionTypeTransfer,
		TransactionTypeReturn:
		return true
	}
	return false
}

// Reference links a ledger entry back to its source document
type Reference struct {
	Type   string     `gorm:"column:reference_type;type:varchar(30)"`
	ID     *uuid.UUID `gorm:"column:reference_id;type:uuid;index"`
	Number string     `gorm:"column:reference_number;type:varchar(50)"`
}

// TransactionNumberKey is the sequence key for ledger transaction numbers
const TransactionNumberKey = "inventory_transaction"

// FormatTransactionNumber renders a sequence value as a ledger number.
// The zero-padded form keeps lexicographic and numeric order aligned.
func FormatTransactionNumber(seq int64) string {
	return fmt.Sprintf("TXN-%010d", seq)
}

// InventoryTransaction is one immutable stock ledger entry. Quantity is
// signed: positive for inbound movements, negative for outbound. Corrections
// are recorded as new compensating entries, never as updates.
type InventoryTransaction struct {
	shared.BaseEntity
	TransactionNumber string          `gorm:"type:varchar(30);not null;uniqueIndex"`
	TransactionDate   time.Time       `gorm:"type:timestamptz;not null;index"`
	ItemID            uuid.UUID       `gorm:"type:uuid;not null;index:idx_inv_tx_key,priority:1"`
	WarehouseID       uuid.UUID       `gorm:"type:uuid;not null;index:idx_inv_tx_key,priority:2"`
	BatchNumber       string          `gorm:"type:varchar(50);not null;default:'';index:idx_inv_tx_key,priority:3"`
	SerialNumber      string          `gorm:"type:varchar(50);not null;default:'';index:idx_inv_tx_key,priority:4"`
	TransactionType   TransactionType `gorm:"type:varchar(30);not null;index"`
	Quantity          decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitCost          decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	TotalCost         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	BalanceQuantity   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	BalanceValue      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Reference         Reference       `gorm:"embedded"`
	ExpiryDate        *time.Time
	Reason            string     `gorm:"type:varchar(255)"`
	OperatorID        *uuid.UUID `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (InventoryTransaction) TableName() string {
	return "inventory_transactions"
}

// NewInventoryTransaction creates a new ledger entry. The balance snapshot
// fields must reflect the balance AFTER this movement was applied.
func NewInventoryTransaction(
	transactionNumber string,
	key BalanceKey,
	txType TransactionType,
	signedQuantity decimal.Decimal,
	unitCost decimal.Decimal,
	balanceQuantity decimal.Decimal,
	balanceValue decimal.Decimal,
) (*InventoryTransaction, error) {
	if transactionNumber == "" {
		return nil, shared.NewDomainError("INVALID_TRANSACTION_NUMBER", "Transaction number cannot be empty")
	}
	if key.ItemID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ITEM", "Item ID cannot be empty")
	}
	if key.WarehouseID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_WAREHOUSE", "Warehouse ID cannot be empty")
	}
	if !txType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TRANSACTION_TYPE", "Invalid transaction type")
	}
	if signedQuantity.IsZero() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be zero")
	}
	if unitCost.IsNegative() {
		return nil, shared.NewDomainError("INVALID_COST", "Unit cost cannot be negative")
	}

	return &InventoryTransaction{
		BaseEntity:        shared.NewBaseEntity(),
		TransactionNumber: transactionNumber,
		TransactionDate:   time.Now(),
		ItemID:            key.ItemID,
		WarehouseID:       key.WarehouseID,
		BatchNumber:       key.BatchNumber,
		SerialNumber:      key.SerialNumber,
		TransactionType:   txType,
		Quantity:          signedQuantity,
		UnitCost:          unitCost,
		TotalCost:         signedQuantity.Mul(unitCost).Round(4),
		BalanceQuantity:   balanceQuantity,
		BalanceValue:      balanceValue,
	}, nil
}

// WithReference links the entry to its source document
func (t *InventoryTransaction) WithReference(refType string, refID uuid.UUID, refNumber string) *InventoryTransaction {
	t.Reference = Reference{Type: refType, ID: &refID, Number: refNumber}
	return t
}

// WithReason records a free-text reason, used by adjustments and cancellations
func (t *InventoryTransaction) WithReason(reason string) *InventoryTransaction {
	t.Reason = reason
	return t
}

// WithOperator records the acting user
func (t *InventoryTransaction) WithOperator(operatorID uuid.UUID) *InventoryTransaction {
	t.OperatorID = &operatorID
	return t
}

// WithExpiryDate records the expiry date for batch-tracked stock
func (t *InventoryTransaction) WithExpiryDate(expiry *time.Time) *InventoryTransaction {
	t.ExpiryDate = expiry
	return t
}

// WithTransactionDate overrides the transaction date
func (t *InventoryTransaction) WithTransactionDate(date time.Time) *InventoryTransaction {
	t.TransactionDate = date
	return t
}

// IsInbound returns true for entries that increased the balance
func (t *InventoryTransaction) IsInbound() bool {
	return t.Quantity.GreaterThan(decimal.Zero)
}

// IsOutbound returns true for entries that decreased the balance
func (t *InventoryTransaction) IsOutbound() bool {
	return t.Quantity.LessThan(decimal.Zero)
}

// Key returns the balance key this entry applies to
func (t *InventoryTransaction) Key() BalanceKey {
	return BalanceKey{
		ItemID:       t.ItemID,
		WarehouseID:  t.WarehouseID,
		BatchNumber:  t.BatchNumber,
		SerialNumber: t.SerialNumber,
	}
}
