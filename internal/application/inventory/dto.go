package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/velocore/backend/internal/domain/inventory"
)

// MovementReference links a stock movement to its source document
type MovementReference struct {
	Type   string
	ID     uuid.UUID
	Number string
}

// AddStockCommand is the input for an inbound stock movement
type AddStockCommand struct {
	ItemID          uuid.UUID
	WarehouseID     uuid.UUID
	Quantity        decimal.Decimal
	UnitCost        decimal.Decimal
	TransactionType inventory.TransactionType
	Reference       *MovementReference
	BatchNumber     string
	SerialNumber    string
	ExpiryDate      *time.Time
	Reason          string
	OperatorID      *uuid.UUID
}

// DeductStockCommand is the input for an outbound stock movement
type DeductStockCommand struct {
	ItemID          uuid.UUID
	WarehouseID     uuid.UUID
	Quantity        decimal.Decimal
	TransactionType inventory.TransactionType
	Reference       *MovementReference
	BatchNumber     string
	SerialNumber    string
	Reason          string
	OperatorID      *uuid.UUID
}

// AdjustStockCommand is the input for a signed stock correction
type AdjustStockCommand struct {
	ItemID       uuid.UUID
	WarehouseID  uuid.UUID
	Quantity     decimal.Decimal
	NewUnitCost  decimal.Decimal
	BatchNumber  string
	SerialNumber string
	Reason       string
	OperatorID   *uuid.UUID
}

// TransferStockCommand is the input for a warehouse-to-warehouse move
type TransferStockCommand struct {
	ItemID          uuid.UUID
	FromWarehouseID uuid.UUID
	ToWarehouseID   uuid.UUID
	Quantity        decimal.Decimal
	BatchNumber     string
	SerialNumber    string
	Reason          string
	OperatorID      *uuid.UUID
}

// MovementResult describes the ledger entry and the balance after a movement
type MovementResult struct {
	TransactionID     uuid.UUID       `json:"transaction_id"`
	TransactionNumber string          `json:"transaction_number"`
	Quantity          decimal.Decimal `json:"quantity"`
	UnitCost          decimal.Decimal `json:"unit_cost"`
	BalanceQuantity   decimal.Decimal `json:"balance_quantity"`
	BalanceValue      decimal.Decimal `json:"balance_value"`
	AverageCost       decimal.Decimal `json:"average_cost"`
}

// TransferResult describes both legs of a transfer
type TransferResult struct {
	Outbound *MovementResult `json:"outbound"`
	Inbound  *MovementResult `json:"inbound"`
}

func newMovementResult(tx *inventory.InventoryTransaction, balance *inventory.StockBalance) *MovementResult {
	return &MovementResult{
		TransactionID:     tx.ID,
		TransactionNumber: tx.TransactionNumber,
		Quantity:          tx.Quantity,
		UnitCost:          tx.UnitCost,
		BalanceQuantity:   tx.BalanceQuantity,
		BalanceValue:      tx.BalanceValue,
		AverageCost:       balance.AverageCost,
	}
}
