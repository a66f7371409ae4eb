package procurement

import (
	"context"

	"github.com/google/uuid"

	"github.com/velocore/backend/internal/domain/shared"
)

// RequisitionFilter is the query specification for requisition lookups
type RequisitionFilter struct {
	shared.Filter
	Status      *RequisitionStatus
	RequestedBy *uuid.UUID
}

// PurchaseRequisitionRepository defines the interface for requisition persistence
type PurchaseRequisitionRepository interface {
	// FindByID finds a requisition by ID with its items preloaded
	FindByID(ctx context.Context, id uuid.UUID) (*PurchaseRequisition, error)

	// FindByNumber finds a requisition by its document number
	FindByNumber(ctx context.Context, number string) (*PurchaseRequisition, error)

	// FindAll finds requisitions matching the filter
	FindAll(ctx context.Context, filter RequisitionFilter) ([]PurchaseRequisition, error)

	// Save creates or updates a requisition and its items
	Save(ctx context.Context, requisition *PurchaseRequisition) error

	// SaveWithLock saves with an optimistic version check
	SaveWithLock(ctx context.Context, requisition *PurchaseRequisition) error

	// Delete removes a draft requisition
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts requisitions matching the filter
	Count(ctx context.Context, filter RequisitionFilter) (int64, error)
}

// OrderFilter is the query specification for purchase order lookups
type OrderFilter struct {
	shared.Filter
	Status       *OrderStatus
	WarehouseID  *uuid.UUID
	SupplierName string
}

// PurchaseOrderRepository defines the interface for purchase order persistence
type PurchaseOrderRepository interface {
	// FindByID finds an order by ID with its items preloaded
	FindByID(ctx context.Context, id uuid.UUID) (*PurchaseOrder, error)

	// FindByIDForUpdate finds an order taking a row lock.
	// Must be called inside a transaction scope.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*PurchaseOrder, error)

	// FindByNumber finds an order by its document number
	FindByNumber(ctx context.Context, number string) (*PurchaseOrder, error)

	// FindAll finds orders matching the filter
	FindAll(ctx context.Context, filter OrderFilter) ([]PurchaseOrder, error)

	// Save creates or updates an order and its items
	Save(ctx context.Context, order *PurchaseOrder) error

	// SaveWithLock saves with an optimistic version check
	SaveWithLock(ctx context.Context, order *PurchaseOrder) error

	// Delete removes a draft order
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts orders matching the filter
	Count(ctx context.Context, filter OrderFilter) (int64, error)
}

// ReceiptFilter is the query specification for goods receipt lookups
type ReceiptFilter struct {
	shared.Filter
	Status          *ReceiptStatus
	WarehouseID     *uuid.UUID
	PurchaseOrderID *uuid.UUID
}

// GoodsReceiptRepository defines the interface for goods receipt persistence
type GoodsReceiptRepository interface {
	// FindByID finds a receipt by ID with its lines preloaded
	FindByID(ctx context.Context, id uuid.UUID) (*GoodsReceipt, error)

	// FindByNumber finds a receipt by its document number
	FindByNumber(ctx context.Context, number string) (*GoodsReceipt, error)

	// FindAll finds receipts matching the filter
	FindAll(ctx context.Context, filter ReceiptFilter) ([]GoodsReceipt, error)

	// Save creates or updates a receipt and its lines
	Save(ctx context.Context, receipt *GoodsReceipt) error

	// SaveWithLock saves with an optimistic version check
	SaveWithLock(ctx context.Context, receipt *GoodsReceipt) error

	// Delete removes a draft receipt
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts receipts matching the filter
	Count(ctx context.Context, filter ReceiptFilter) (int64, error)
}
