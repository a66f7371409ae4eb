package manufacturing

import (
	"context"

	"github.com/google/uuid"

	"github.com/velocore/backend/internal/domain/shared"
)

// BOMFilter is the query specification for BOM lookups
type BOMFilter struct {
	shared.Filter
	FinishedItemID *uuid.UUID
	ActiveOnly     bool
}

// BillOfMaterialRepository defines the interface for BOM persistence
type BillOfMaterialRepository interface {
	// FindByID finds a BOM by ID with its lines preloaded
	FindByID(ctx context.Context, id uuid.UUID) (*BillOfMaterial, error)

	// FindActiveByFinishedItem finds the active BOM revision for a finished item
	FindActiveByFinishedItem(ctx context.Context, finishedItemID uuid.UUID) (*BillOfMaterial, error)

	// FindAll finds BOMs matching the filter
	FindAll(ctx context.Context, filter BOMFilter) ([]BillOfMaterial, error)

	// Save creates or updates a BOM and its lines
	Save(ctx context.Context, bom *BillOfMaterial) error

	// Delete removes an inactive BOM revision
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts BOMs matching the filter
	Count(ctx context.Context, filter BOMFilter) (int64, error)
}

// ProductionOrderFilter is the query specification for production order lookups
type ProductionOrderFilter struct {
	shared.Filter
	Status         *ProductionStatus
	FinishedItemID *uuid.UUID
	WarehouseID    *uuid.UUID
}

// ProductionOrderRepository defines the interface for production order persistence
type ProductionOrderRepository interface {
	// FindByID finds a production order by ID
	FindByID(ctx context.Context, id uuid.UUID) (*ProductionOrder, error)

	// FindByIDForUpdate finds a production order taking a row lock.
	// Must be called inside a transaction scope.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*ProductionOrder, error)

	// FindByNumber finds a production order by its document number
	FindByNumber(ctx context.Context, number string) (*ProductionOrder, error)

	// FindAll finds production orders matching the filter
	FindAll(ctx context.Context, filter ProductionOrderFilter) ([]ProductionOrder, error)

	// Save creates or updates a production order
	Save(ctx context.Context, order *ProductionOrder) error

	// SaveWithLock saves with an optimistic version check
	SaveWithLock(ctx context.Context, order *ProductionOrder) error

	// Delete removes a draft production order
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts production orders matching the filter
	Count(ctx context.Context, filter ProductionOrderFilter) (int64, error)
}

// IssueFilter is the query specification for material issue lookups
type IssueFilter struct {
	shared.Filter
	Status            *IssueStatus
	WarehouseID       *uuid.UUID
	ProductionOrderID *uuid.UUID
	RepairOrderID     *uuid.UUID
}

// MaterialIssueRepository defines the interface for material issue persistence
type MaterialIssueRepository interface {
	// FindByID finds an issue by ID with its lines preloaded
	FindByID(ctx context.Context, id uuid.UUID) (*MaterialIssue, error)

	// FindByNumber finds an issue by its document number
	FindByNumber(ctx context.Context, number string) (*MaterialIssue, error)

	// FindAll finds issues matching the filter
	FindAll(ctx context.Context, filter IssueFilter) ([]MaterialIssue, error)

	// FindByProductionOrder finds all issues for a production order
	FindByProductionOrder(ctx context.Context, orderID uuid.UUID) ([]MaterialIssue, error)

	// Save creates or updates an issue and its lines
	Save(ctx context.Context, issue *MaterialIssue) error

	// SaveWithLock saves with an optimistic version check
	SaveWithLock(ctx context.Context, issue *MaterialIssue) error

	// Delete removes a draft issue
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts issues matching the filter
	Count(ctx context.Context, filter IssueFilter) (int64, error)
}

// ProductionReceiptFilter is the query specification for production receipt lookups
type ProductionReceiptFilter struct {
	shared.Filter
	Status            *ProductionReceiptStatus
	ProductionOrderID *uuid.UUID
	WarehouseID       *uuid.UUID
}

// ProductionReceiptRepository defines the interface for production receipt persistence
type ProductionReceiptRepository interface {
	// FindByID finds a receipt by ID
	FindByID(ctx context.Context, id uuid.UUID) (*ProductionReceipt, error)

	// FindByNumber finds a receipt by its document number
	FindByNumber(ctx context.Context, number string) (*ProductionReceipt, error)

	// FindAll finds receipts matching the filter
	FindAll(ctx context.Context, filter ProductionReceiptFilter) ([]ProductionReceipt, error)

	// Save creates or updates a receipt
	Save(ctx context.Context, receipt *ProductionReceipt) error

	// SaveWithLock saves with an optimistic version check
	SaveWithLock(ctx context.Context, receipt *ProductionReceipt) error

	// Delete removes a draft receipt
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts receipts matching the filter
	Count(ctx context.Context, filter ProductionReceiptFilter) (int64, error)
}
