package inventory

import (
	"context"

	"github.com/velocore/backend/internal/domain/catalog"
	"github.com/velocore/backend/internal/domain/inventory"
	"github.com/velocore/backend/internal/domain/manufacturing"
	"github.com/velocore/backend/internal/domain/procurement"
	"github.com/velocore/backend/internal/domain/quality"
	"github.com/velocore/backend/internal/domain/rental"
	"github.com/velocore/backend/internal/domain/repair"
	"github.com/velocore/backend/internal/domain/shared"
)

// TransactionScope provides transactional access to the repositories. All
// repository operations inside Execute share one database transaction and
// commit or roll back together. Posting, cancellation and transfer flows
// must run inside a scope so balance updates, ledger appends and document
// stamps stay atomic.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to all repositories scoped to
// the current transaction.
type TransactionalRepositories interface {
	// Balances returns the stock balance repository
	Balances() inventory.StockBalanceRepository
	// Ledger returns the append-only inventory transaction repository
	Ledger() inventory.InventoryTransactionRepository
	// Numbers returns the sequence allocator, serialized in this transaction
	Numbers() shared.NumberGenerator
	// Items returns the item master repository
	Items() catalog.ItemRepository
	// Warehouses returns the warehouse master repository
	Warehouses() catalog.WarehouseRepository
	// Requisitions returns the purchase requisition repository
	Requisitions() procurement.PurchaseRequisitionRepository
	// PurchaseOrders returns the purchase order repository
	PurchaseOrders() procurement.PurchaseOrderRepository
	// GoodsReceipts returns the goods receipt repository
	GoodsReceipts() procurement.GoodsReceiptRepository
	// BOMs returns the bill of material repository
	BOMs() manufacturing.BillOfMaterialRepository
	// ProductionOrders returns the production order repository
	ProductionOrders() manufacturing.ProductionOrderRepository
	// MaterialIssues returns the material issue repository
	MaterialIssues() manufacturing.MaterialIssueRepository
	// ProductionReceipts returns the production receipt repository
	ProductionReceipts() manufacturing.ProductionReceiptRepository
	// QualityChecks returns the quality check repository
	QualityChecks() quality.QualityCheckRepository
	// Assets returns the rental asset repository
	Assets() rental.AssetRepository
	// Contracts returns the rental contract repository
	Contracts() rental.RentalContractRepository
	// RepairOrders returns the repair order repository
	RepairOrders() repair.RepairOrderRepository
}

// NoOpTransactionScope runs the function against fixed repositories without
// a real transaction. Used by service tests; only the fields a test touches
// need to be set.
type NoOpTransactionScope struct {
	BalanceRepo           inventory.StockBalanceRepository
	LedgerRepo            inventory.InventoryTransactionRepository
	NumberGen             shared.NumberGenerator
	ItemRepo              catalog.ItemRepository
	WarehouseRepo         catalog.WarehouseRepository
	RequisitionRepo       procurement.PurchaseRequisitionRepository
	PurchaseOrderRepo     procurement.PurchaseOrderRepository
	GoodsReceiptRepo      procurement.GoodsReceiptRepository
	BOMRepo               manufacturing.BillOfMaterialRepository
	ProductionOrderRepo   manufacturing.ProductionOrderRepository
	MaterialIssueRepo     manufacturing.MaterialIssueRepository
	ProductionReceiptRepo manufacturing.ProductionReceiptRepository
	QualityCheckRepo      quality.QualityCheckRepository
	AssetRepo             rental.AssetRepository
	ContractRepo          rental.RentalContractRepository
	RepairOrderRepo       repair.RepairOrderRepository
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

func (s *NoOpTransactionScope) Balances() inventory.StockBalanceRepository {
	return s.BalanceRepo
}

func (s *NoOpTransactionScope) Ledger() inventory.InventoryTransactionRepository {
	return s.LedgerRepo
}

func (s *NoOpTransactionScope) Numbers() shared.NumberGenerator {
	return s.NumberGen
}

func (s *NoOpTransactionScope) Items() catalog.ItemRepository {
	return s.ItemRepo
}

func (s *NoOpTransactionScope) Warehouses() catalog.WarehouseRepository {
	return s.WarehouseRepo
}

func (s *NoOpTransactionScope) Requisitions() procurement.PurchaseRequisitionRepository {
	return s.RequisitionRepo
}

func (s *NoOpTransactionScope) PurchaseOrders() procurement.PurchaseOrderRepository {
	return s.PurchaseOrderRepo
}

func (s *NoOpTransactionScope) GoodsReceipts() procurement.GoodsReceiptRepository {
	return s.GoodsReceiptRepo
}

func (s *NoOpTransactionScope) BOMs() manufacturing.BillOfMaterialRepository {
	return s.BOMRepo
}

func (s *NoOpTransactionScope) ProductionOrders() manufacturing.ProductionOrderRepository {
	return s.ProductionOrderRepo
}

func (s *NoOpTransactionScope) MaterialIssues() manufacturing.MaterialIssueRepository {
	return s.MaterialIssueRepo
}

func (s *NoOpTransactionScope) ProductionReceipts() manufacturing.ProductionReceiptRepository {
	return s.ProductionReceiptRepo
}

func (s *NoOpTransactionScope) QualityChecks() quality.QualityCheckRepository {
	return s.QualityCheckRepo
}

func (s *NoOpTransactionScope) Assets() rental.AssetRepository {
	return s.AssetRepo
}

func (s *NoOpTransactionScope) Contracts() rental.RentalContractRepository {
	return s.ContractRepo
}

func (s *NoOpTransactionScope) RepairOrders() repair.RepairOrderRepository {
	return s.RepairOrderRepo
}

var (
	_ TransactionScope          = (*NoOpTransactionScope)(nil)
	_ TransactionalRepositories = (*NoOpTransactionScope)(nil)
)
