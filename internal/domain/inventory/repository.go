package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/velocore/backend/internal/domain/shared"
)

// BalanceFilter is the explicit query specification for balance lookups
type BalanceFilter struct {
	shared.Filter
	ItemID        *uuid.UUID
	WarehouseID   *uuid.UUID
	WithStockOnly bool
}

// StockBalanceRepository defines the interface for stock balance persistence
type StockBalanceRepository interface {
	// FindByID finds a balance row by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*StockBalance, error)

	// FindByKey finds the balance row for a balance key
	FindByKey(ctx context.Context, key BalanceKey) (*StockBalance, error)

	// FindByKeyForUpdate finds the balance row for a key, taking a row lock.
	// Must be called inside a transaction scope.
	FindByKeyForUpdate(ctx context.Context, key BalanceKey) (*StockBalance, error)

	// FindAll finds balance rows matching the filter
	FindAll(ctx context.Context, filter BalanceFilter) ([]StockBalance, error)

	// GetOrCreateForUpdate returns the locked balance row for a key,
	// creating an empty row when none exists yet
	GetOrCreateForUpdate(ctx context.Context, key BalanceKey) (*StockBalance, error)

	// Save creates or updates a balance row
	Save(ctx context.Context, balance *StockBalance) error

	// SaveWithLock saves with an optimistic version check
	SaveWithLock(ctx context.Context, balance *StockBalance) error

	// Delete removes a balance row (administrative correction only)
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts balance rows matching the filter
	Count(ctx context.Context, filter BalanceFilter) (int64, error)

	// SumQuantityByItem sums on-hand quantity for an item across warehouses
	SumQuantityByItem(ctx context.Context, itemID uuid.UUID) (decimal.Decimal, error)

	// SumValueByWarehouse sums total stock value in a warehouse
	SumValueByWarehouse(ctx context.Context, warehouseID uuid.UUID) (decimal.Decimal, error)
}

// TransactionFilter is the explicit query specification for ledger lookups
type TransactionFilter struct {
	shared.Filter
	ItemID          *uuid.UUID
	WarehouseID     *uuid.UUID
	TransactionType *TransactionType
	ReferenceType   string
	ReferenceID     *uuid.UUID
	StartDate       *time.Time
	EndDate         *time.Time
}

// InventoryTransactionRepository defines the append-only ledger persistence.
// Entries are never updated or deleted; corrections are compensating entries.
type InventoryTransactionRepository interface {
	// FindByID finds a ledger entry by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*InventoryTransaction, error)

	// FindByTransactionNumber finds a ledger entry by its unique number
	FindByTransactionNumber(ctx context.Context, number string) (*InventoryTransaction, error)

	// FindAll finds ledger entries matching the filter
	FindAll(ctx context.Context, filter TransactionFilter) ([]InventoryTransaction, error)

	// FindByReference finds all entries created by one source document
	FindByReference(ctx context.Context, refType string, refID uuid.UUID) ([]InventoryTransaction, error)

	// Create appends a new ledger entry
	Create(ctx context.Context, tx *InventoryTransaction) error

	// CreateBatch appends multiple ledger entries
	CreateBatch(ctx context.Context, txs []*InventoryTransaction) error

	// Count counts ledger entries matching the filter
	Count(ctx context.Context, filter TransactionFilter) (int64, error)
}
