package persistence

import (
	"context"

	"gorm.io/gorm"

	appinventory "github.com/velocore/backend/internal/application/inventory"
	"github.com/velocore/backend/internal/domain/catalog"
	"github.com/velocore/backend/internal/domain/inventory"
	"github.com/velocore/backend/internal/domain/manufacturing"
	"github.com/velocore/backend/internal/domain/procurement"
	"github.com/velocore/backend/internal/domain/quality"
	"github.com/velocore/backend/internal/domain/rental"
	"github.com/velocore/backend/internal/domain/repair"
	"github.com/velocore/backend/internal/domain/shared"
)

// GormTransactionScope runs units of work inside one database transaction.
// Repositories handed to the callback are bound to the transaction, so row
// locks taken by FindByIDForUpdate hold until commit or rollback.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appinventory.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// gormTransactionalRepositories binds every repository to one transaction
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

func (r *gormTransactionalRepositories) Balances() inventory.StockBalanceRepository {
	return NewGormStockBalanceRepository(r.tx)
}

func (r *gormTransactionalRepositories) Ledger() inventory.InventoryTransactionRepository {
	return NewGormInventoryTransactionRepository(r.tx)
}

func (r *gormTransactionalRepositories) Numbers() shared.NumberGenerator {
	return NewGormSequenceRepository(r.tx)
}

func (r *gormTransactionalRepositories) Items() catalog.ItemRepository {
	return NewGormItemRepository(r.tx)
}

func (r *gormTransactionalRepositories) Warehouses() catalog.WarehouseRepository {
	return NewGormWarehouseRepository(r.tx)
}

func (r *gormTransactionalRepositories) Requisitions() procurement.PurchaseRequisitionRepository {
	return NewGormPurchaseRequisitionRepository(r.tx)
}

func (r *gormTransactionalRepositories) PurchaseOrders() procurement.PurchaseOrderRepository {
	return NewGormPurchaseOrderRepository(r.tx)
}

func (r *gormTransactionalRepositories) GoodsReceipts() procurement.GoodsReceiptRepository {
	return NewGormGoodsReceiptRepository(r.tx)
}

func (r *gormTransactionalRepositories) BOMs() manufacturing.BillOfMaterialRepository {
	return NewGormBillOfMaterialRepository(r.tx)
}

func (r *gormTransactionalRepositories) ProductionOrders() manufacturing.ProductionOrderRepository {
	return NewGormProductionOrderRepository(r.tx)
}

func (r *gormTransactionalRepositories) MaterialIssues() manufacturing.MaterialIssueRepository {
	return NewGormMaterialIssueRepository(r.tx)
}

func (r *gormTransactionalRepositories) ProductionReceipts() manufacturing.ProductionReceiptRepository {
	return NewGormProductionReceiptRepository(r.tx)
}

func (r *gormTransactionalRepositories) QualityChecks() quality.QualityCheckRepository {
	return NewGormQualityCheckRepository(r.tx)
}

func (r *gormTransactionalRepositories) Assets() rental.AssetRepository {
	return NewGormAssetRepository(r.tx)
}

func (r *gormTransactionalRepositories) Contracts() rental.RentalContractRepository {
	return NewGormRentalContractRepository(r.tx)
}

func (r *gormTransactionalRepositories) RepairOrders() repair.RepairOrderRepository {
	return NewGormRepairOrderRepository(r.tx)
}

var (
	_ appinventory.TransactionScope          = (*GormTransactionScope)(nil)
	_ appinventory.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
)
