package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/velocore/backend/internal/domain/inventory"
	"github.com/velocore/backend/internal/domain/shared"
)

// GormStockBalanceRepository implements StockBalanceRepository using GORM
type GormStockBalanceRepository struct {
	db *gorm.DB
}

// NewGormStockBalanceRepository creates a new GormStockBalanceRepository
func NewGormStockBalanceRepository(db *gorm.DB) *GormStockBalanceRepository {
	return &GormStockBalanceRepository{db: db}
}

// FindByID finds a balance row by its ID
func (r *GormStockBalanceRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.StockBalance, error) {
	var balance inventory.StockBalance
	if err := r.db.WithContext(ctx).First(&balance, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &balance, nil
}

// FindByKey finds the balance row for a balance key
func (r *GormStockBalanceRepository) FindByKey(ctx context.Context, key inventory.BalanceKey) (*inventory.StockBalance, error) {
	return r.findByKey(ctx, r.db, key)
}

// FindByKeyForUpdate finds the balance row for a key, taking a row lock
func (r *GormStockBalanceRepository) FindByKeyForUpdate(ctx context.Context, key inventory.BalanceKey) (*inventory.StockBalance, error) {
	return r.findByKey(ctx, r.db.Clauses(clause.Locking{Strength: "UPDATE"}), key)
}

func (r *GormStockBalanceRepository) findByKey(ctx context.Context, db *gorm.DB, key inventory.BalanceKey) (*inventory.StockBalance, error) {
	var balance inventory.StockBalance
	err := db.WithContext(ctx).
		Where("item_id = ? AND warehouse_id = ? AND batch_number = ? AND serial_number = ?",
			key.ItemID, key.WarehouseID, key.BatchNumber, key.SerialNumber).
		First(&balance).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &balance, nil
}

// GetOrCreateForUpdate returns the locked balance row for a key, creating an
// empty row when none exists yet
func (r *GormStockBalanceRepository) GetOrCreateForUpdate(ctx context.Context, key inventory.BalanceKey) (*inventory.StockBalance, error) {
	balance, err := r.FindByKeyForUpdate(ctx, key)
	if err != nil {
		return nil, err
	}
	if balance != nil {
		return balance, nil
	}

	balance, err = inventory.NewStockBalance(key)
	if err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Create(balance).Error; err != nil {
		return nil, err
	}
	return balance, nil
}

// FindAll finds balance rows matching the filter
func (r *GormStockBalanceRepository) FindAll(ctx context.Context, filter inventory.BalanceFilter) ([]inventory.StockBalance, error) {
	var balances []inventory.StockBalance
	query := applyFilter(r.balanceQuery(ctx, filter), filter.Filter)
	if err := query.Find(&balances).Error; err != nil {
		return nil, err
	}
	return balances, nil
}

// Count counts balance rows matching the filter
func (r *GormStockBalanceRepository) Count(ctx context.Context, filter inventory.BalanceFilter) (int64, error) {
	var count int64
	if err := r.balanceQuery(ctx, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormStockBalanceRepository) balanceQuery(ctx context.Context, filter inventory.BalanceFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&inventory.StockBalance{})
	if filter.ItemID != nil {
		query = query.Where("item_id = ?", *filter.ItemID)
	}
	if filter.WarehouseID != nil {
		query = query.Where("warehouse_id = ?", *filter.WarehouseID)
	}
	if filter.WithStockOnly {
		query = query.Where("quantity_on_hand <> 0")
	}
	return query
}

// Save creates or updates a balance row
func (r *GormStockBalanceRepository) Save(ctx context.Context, balance *inventory.StockBalance) error {
	return r.db.WithContext(ctx).Save(balance).Error
}

// SaveWithLock saves with an optimistic version check
func (r *GormStockBalanceRepository) SaveWithLock(ctx context.Context, balance *inventory.StockBalance) error {
	result := r.db.WithContext(ctx).
		Model(&inventory.StockBalance{}).
		Where("id = ? AND version = ?", balance.ID, balance.Version-1).
		Updates(map[string]interface{}{
			"quantity_on_hand":  balance.QuantityOnHand,
			"quantity_reserved": balance.QuantityReserved,
			"average_cost":      balance.AverageCost,
			"total_value":       balance.TotalValue,
			"expiry_date":       balance.ExpiryDate,
			"last_updated":      balance.LastUpdated,
			"version":           balance.Version,
			"updated_at":        balance.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	balance.SyncVersion()
	return nil
}

// Delete removes a balance row
func (r *GormStockBalanceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&inventory.StockBalance{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// SumQuantityByItem sums on-hand quantity for an item across warehouses
func (r *GormStockBalanceRepository) SumQuantityByItem(ctx context.Context, itemID uuid.UUID) (decimal.Decimal, error) {
	return r.sum(ctx, "COALESCE(SUM(quantity_on_hand), 0)", "item_id = ?", itemID)
}

// SumValueByWarehouse sums total stock value in a warehouse
func (r *GormStockBalanceRepository) SumValueByWarehouse(ctx context.Context, warehouseID uuid.UUID) (decimal.Decimal, error) {
	return r.sum(ctx, "COALESCE(SUM(total_value), 0)", "warehouse_id = ?", warehouseID)
}

func (r *GormStockBalanceRepository) sum(ctx context.Context, selectExpr, where string, arg interface{}) (decimal.Decimal, error) {
	var raw decimal.Decimal
	err := r.db.WithContext(ctx).
		Model(&inventory.StockBalance{}).
		Select(selectExpr).
		Where(where, arg).
		Scan(&raw).Error
	if err != nil {
		return decimal.Zero, err
	}
	return raw, nil
}

var _ inventory.StockBalanceRepository = (*GormStockBalanceRepository)(nil)

// GormInventoryTransactionRepository implements the append-only ledger using GORM
type GormInventoryTransactionRepository struct {
	db *gorm.DB
}

// NewGormInventoryTransactionRepository creates a new GormInventoryTransactionRepository
func NewGormInventoryTransactionRepository(db *gorm.DB) *GormInventoryTransactionRepository {
	return &GormInventoryTransactionRepository{db: db}
}

// FindByID finds a ledger entry by its ID
func (r *GormInventoryTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.InventoryTransaction, error) {
	var tx inventory.InventoryTransaction
	if err := r.db.WithContext(ctx).First(&tx, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &tx, nil
}

// FindByTransactionNumber finds a ledger entry by its unique number
func (r *GormInventoryTransactionRepository) FindByTransactionNumber(ctx context.Context, number string) (*inventory.InventoryTransaction, error) {
	var tx inventory.InventoryTransaction
	if err := r.db.WithContext(ctx).First(&tx, "transaction_number = ?", number).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &tx, nil
}

// FindAll finds ledger entries matching the filter
func (r *GormInventoryTransactionRepository) FindAll(ctx context.Context, filter inventory.TransactionFilter) ([]inventory.InventoryTransaction, error) {
	var txs []inventory.InventoryTransaction
	query := applyFilter(r.transactionQuery(ctx, filter), filter.Filter)
	if err := query.Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}

// FindByReference finds all entries created by one source document
func (r *GormInventoryTransactionRepository) FindByReference(ctx context.Context, refType string, refID uuid.UUID) ([]inventory.InventoryTransaction, error) {
	var txs []inventory.InventoryTransaction
	err := r.db.WithContext(ctx).
		Where("reference_type = ? AND reference_id = ?", refType, refID).
		Order("transaction_date ASC").
		Find(&txs).Error
	if err != nil {
		return nil, err
	}
	return txs, nil
}

// Create appends a new ledger entry
func (r *GormInventoryTransactionRepository) Create(ctx context.Context, tx *inventory.InventoryTransaction) error {
	return r.db.WithContext(ctx).Create(tx).Error
}

// CreateBatch appends multiple ledger entries
func (r *GormInventoryTransactionRepository) CreateBatch(ctx context.Context, txs []*inventory.InventoryTransaction) error {
	if len(txs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&txs).Error
}

// Count counts ledger entries matching the filter
func (r *GormInventoryTransactionRepository) Count(ctx context.Context, filter inventory.TransactionFilter) (int64, error) {
	var count int64
	if err := r.transactionQuery(ctx, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormInventoryTransactionRepository) transactionQuery(ctx context.Context, filter inventory.TransactionFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&inventory.InventoryTransaction{})
	if filter.ItemID != nil {
		query = query.Where("item_id = ?", *filter.ItemID)
	}
	if filter.WarehouseID != nil {
		query = query.Where("warehouse_id = ?", *filter.WarehouseID)
	}
	if filter.TransactionType != nil {
		query = query.Where("transaction_type = ?", *filter.TransactionType)
	}
	if filter.ReferenceType != "" {
		query = query.Where("reference_type = ?", filter.ReferenceType)
	}
	if filter.ReferenceID != nil {
		query = query.Where("reference_id = ?", *filter.ReferenceID)
	}
	if filter.StartDate != nil {
		query = query.Where("transaction_date >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("transaction_date < ?", *filter.EndDate)
	}
	return query
}

var _ inventory.InventoryTransactionRepository = (*GormInventoryTransactionRepository)(nil)
