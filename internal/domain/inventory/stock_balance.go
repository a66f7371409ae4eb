package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/velocore/backend/internal/domain/shared"
)

// BalanceKey identifies one stock balance row. BatchNumber and SerialNumber
// are empty strings for items that are not batch/serial tracked.
type BalanceKey struct {
	ItemID       uuid.UUID
	WarehouseID  uuid.UUID
	BatchNumber  string
	SerialNumber string
}

// StockBalance holds the current aggregate quantity and value for one
// balance key. It is created on first movement for the key, mutated on every
// ledger entry affecting it, and never deleted outside administrative
// correction.
type StockBalance struct {
	shared.BaseAggregateRoot
	ItemID           uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_stock_balance_key,priority:1"`
	WarehouseID      uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_stock_balance_key,priority:2"`
	BatchNumber      string          `gorm:"type:varchar(50);not null;default:'';uniqueIndex:idx_stock_balance_key,priority:3"`
	SerialNumber     string          `gorm:"type:varchar(50);not null;default:'';uniqueIndex:idx_stock_balance_key,priority:4"`
	QuantityOnHand   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	QuantityReserved decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	AverageCost      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TotalValue       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ExpiryDate       *time.Time
	LastUpdated      time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (StockBalance) TableName() string {
	return "stock_balances"
}

// NewStockBalance creates an empty balance row for a key
func NewStockBalance(key BalanceKey) (*StockBalance, error) {
	if key.ItemID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ITEM", "Item ID cannot be empty")
	}
	if key.WarehouseID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_WAREHOUSE", "Warehouse ID cannot be empty")
	}

	return &StockBalance{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ItemID:            key.ItemID,
		WarehouseID:       key.WarehouseID,
		BatchNumber:       key.BatchNumber,
		SerialNumber:      key.SerialNumber,
		QuantityOnHand:    decimal.Zero,
		QuantityReserved:  decimal.Zero,
		AverageCost:       decimal.Zero,
		TotalValue:        decimal.Zero,
		LastUpdated:       time.Now(),
	}, nil
}

// Key returns the balance key of this row
func (b *StockBalance) Key() BalanceKey {
	return BalanceKey{
		ItemID:       b.ItemID,
		WarehouseID:  b.WarehouseID,
		BatchNumber:  b.BatchNumber,
		SerialNumber: b.SerialNumber,
	}
}

// QuantityAvailable returns on-hand quantity minus reservations
func (b *StockBalance) QuantityAvailable() decimal.Decimal {
	return b.QuantityOnHand.Sub(b.QuantityReserved)
}

// Receive increases on-hand quantity and recalculates the moving weighted
// average cost:
//
//	newAvg = (oldOnHand*oldAvg + qty*unitCost) / (oldOnHand + qty)
//
// When the balance is empty the incoming cost becomes the average directly.
func (b *StockBalance) Receive(quantity, unitCost decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitCost.IsNegative() {
		return shared.NewDomainError("INVALID_COST", "Unit cost cannot be negative")
	}

	if b.QuantityOnHand.IsZero() {
		b.AverageCost = unitCost
	} else {
		totalValue := b.QuantityOnHand.Mul(b.AverageCost).Add(quantity.Mul(unitCost))
		totalQuantity := b.QuantityOnHand.Add(quantity)
		b.AverageCost = totalValue.Div(totalQuantity).Round(4)
	}

	b.QuantityOnHand = b.QuantityOnHand.Add(quantity)
	b.recalculateValue()
	b.touch()

	return nil
}

// Issue decreases on-hand quantity at the current average cost. The deduction
// fails rather than letting the available quantity go negative.
func (b *StockBalance) Issue(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if b.QuantityAvailable().LessThan(quantity) {
		return shared.NewDomainError("INSUFFICIENT_STOCK", "Insufficient stock available")
	}

	b.QuantityOnHand = b.QuantityOnHand.Sub(quantity)
	b.recalculateValue()
	b.touch()

	return nil
}

// Adjust applies a signed quantity delta and overwrites the average cost.
// Used for stock corrections after counting or damage write-offs.
func (b *StockBalance) Adjust(signedQuantity, newUnitCost decimal.Decimal) error {
	if signedQuantity.IsZero() {
		return shared.NewDomainError("INVALID_QUANTITY", "Adjustment quantity cannot be zero")
	}
	if newUnitCost.IsNegative() {
		return shared.NewDomainError("INVALID_COST", "Unit cost cannot be negative")
	}

	newOnHand := b.QuantityOnHand.Add(signedQuantity)
	if newOnHand.IsNegative() {
		return shared.NewDomainError("INSUFFICIENT_STOCK", "Adjustment would drive stock negative")
	}

	b.QuantityOnHand = newOnHand
	b.AverageCost = newUnitCost
	b.recalculateValue()
	b.touch()

	return nil
}

// Reserve earmarks quantity for a pending contract without moving it
func (b *StockBalance) Reserve(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if b.QuantityAvailable().LessThan(quantity) {
		return shared.NewDomainError("INSUFFICIENT_STOCK", "Insufficient stock available to reserve")
	}

	b.QuantityReserved = b.QuantityReserved.Add(quantity)
	b.touch()

	return nil
}

// ReleaseReservation returns reserved quantity to the available pool
func (b *StockBalance) ReleaseReservation(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if b.QuantityReserved.LessThan(quantity) {
		return shared.NewDomainError("INVALID_QUANTITY", "Cannot release more than is reserved")
	}

	b.QuantityReserved = b.QuantityReserved.Sub(quantity)
	b.touch()

	return nil
}

// SetExpiryDate records the expiry date for batch-tracked stock
func (b *StockBalance) SetExpiryDate(expiry *time.Time) {
	b.ExpiryDate = expiry
	b.touch()
}

// CanFulfill returns true if the available quantity covers the request
func (b *StockBalance) CanFulfill(quantity decimal.Decimal) bool {
	return b.QuantityAvailable().GreaterThanOrEqual(quantity)
}

func (b *StockBalance) recalculateValue() {
	b.TotalValue = b.QuantityOnHand.Mul(b.AverageCost).Round(4)
}

func (b *StockBalance) touch() {
	now := time.Now()
	b.LastUpdated = now
	b.UpdatedAt = now
	b.IncrementVersion()
}
