package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/velocore/backend/internal/domain/procurement"
	"github.com/velocore/backend/internal/domain/shared"
)

// GormPurchaseRequisitionRepository implements PurchaseRequisitionRepository using GORM
type GormPurchaseRequisitionRepository struct {
	db *gorm.DB
}

// NewGormPurchaseRequisitionRepository creates a new GormPurchaseRequisitionRepository
func NewGormPurchaseRequisitionRepository(db *gorm.DB) *GormPurchaseRequisitionRepository {
	return &GormPurchaseRequisitionRepository{db: db}
}

// FindByID finds a requisition by ID with its items preloaded
func (r *GormPurchaseRequisitionRepository) FindByID(ctx context.Context, id uuid.UUID) (*procurement.PurchaseRequisition, error) {
	var requisition procurement.PurchaseRequisition
	err := r.db.WithContext(ctx).Preload("Items").First(&requisition, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &requisition, nil
}

// FindByNumber finds a requisition by its document number
func (r *GormPurchaseRequisitionRepository) FindByNumber(ctx context.Context, number string) (*procurement.PurchaseRequisition, error) {
	var requisition procurement.PurchaseRequisition
	err := r.db.WithContext(ctx).Preload("Items").First(&requisition, "requisition_number = ?", number).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &requisition, nil
}

// FindAll finds requisitions matching the filter
func (r *GormPurchaseRequisitionRepository) FindAll(ctx context.Context, filter procurement.RequisitionFilter) ([]procurement.PurchaseRequisition, error) {
	var requisitions []procurement.PurchaseRequisition
	query := applyFilter(r.requisitionQuery(ctx, filter), filter.Filter).Preload("Items")
	if err := query.Find(&requisitions).Error; err != nil {
		return nil, err
	}
	return requisitions, nil
}

// Save creates or updates a requisition and its items
func (r *GormPurchaseRequisitionRepository) Save(ctx context.Context, requisition *procurement.PurchaseRequisition) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(requisition).Error
}

// SaveWithLock saves the header with an optimistic version check
func (r *GormPurchaseRequisitionRepository) SaveWithLock(ctx context.Context, requisition *procurement.PurchaseRequisition) error {
	result := r.db.WithContext(ctx).
		Model(&procurement.PurchaseRequisition{}).
		Where("id = ? AND version = ?", requisition.ID, requisition.Version-1).
		Updates(map[string]interface{}{
			"status":             requisition.Status,
			"notes":              requisition.Notes,
			"approved_by":        requisition.ApprovedBy,
			"approved_at":        requisition.ApprovedAt,
			"rejected_reason":    requisition.RejectedReason,
			"converted_order_id": requisition.ConvertedOrderID,
			"version":            requisition.Version,
			"updated_at":         requisition.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	requisition.SyncVersion()
	return nil
}

// Delete removes a draft requisition and its items
func (r *GormPurchaseRequisitionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&procurement.PurchaseRequisitionItem{}, "requisition_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&procurement.PurchaseRequisition{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Count counts requisitions matching the filter
func (r *GormPurchaseRequisitionRepository) Count(ctx context.Context, filter procurement.RequisitionFilter) (int64, error) {
	var count int64
	if err := r.requisitionQuery(ctx, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormPurchaseRequisitionRepository) requisitionQuery(ctx context.Context, filter procurement.RequisitionFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&procurement.PurchaseRequisition{})
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.RequestedBy != nil {
		query = query.Where("requested_by = ?", *filter.RequestedBy)
	}
	if filter.Search != "" {
		query = query.Where("requisition_number ILIKE ?", "%"+filter.Search+"%")
	}
	return query
}

var _ procurement.PurchaseRequisitionRepository = (*GormPurchaseRequisitionRepository)(nil)

// GormPurchaseOrderRepository implements PurchaseOrderRepository using GORM
type GormPurchaseOrderRepository struct {
	db *gorm.DB
}

// NewGormPurchaseOrderRepository creates a new GormPurchaseOrderRepository
func NewGormPurchaseOrderRepository(db *gorm.DB) *GormPurchaseOrderRepository {
	return &GormPurchaseOrderRepository{db: db}
}

// FindByID finds an order by ID with its items preloaded
func (r *GormPurchaseOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*procurement.PurchaseOrder, error) {
	return r.findByID(ctx, r.db, id)
}

// FindByIDForUpdate finds an order taking a row lock
func (r *GormPurchaseOrderRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*procurement.PurchaseOrder, error) {
	return r.findByID(ctx, r.db.Clauses(clause.Locking{Strength: "UPDATE", Table: clause.Table{Name: "purchase_orders"}}), id)
}

func (r *GormPurchaseOrderRepository) findByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*procurement.PurchaseOrder, error) {
	var order procurement.PurchaseOrder
	err := db.WithContext(ctx).Preload("Items").First(&order, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// FindByNumber finds an order by its document number
func (r *GormPurchaseOrderRepository) FindByNumber(ctx context.Context, number string) (*procurement.PurchaseOrder, error) {
	var order procurement.PurchaseOrder
	err := r.db.WithContext(ctx).Preload("Items").First(&order, "order_number = ?", number).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// FindAll finds orders matching the filter
func (r *GormPurchaseOrderRepository) FindAll(ctx context.Context, filter procurement.OrderFilter) ([]procurement.PurchaseOrder, error) {
	var orders []procurement.PurchaseOrder
	query := applyFilter(r.orderQuery(ctx, filter), filter.Filter).Preload("Items")
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Save creates or updates an order and its items
func (r *GormPurchaseOrderRepository) Save(ctx context.Context, order *procurement.PurchaseOrder) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(order).Error
}

// SaveWithLock saves with an optimistic version check. Item received
// quantities change on receipt posting, so items are saved alongside the
// header.
func (r *GormPurchaseOrderRepository) SaveWithLock(ctx context.Context, order *procurement.PurchaseOrder) error {
	result := r.db.WithContext(ctx).
		Model(&procurement.PurchaseOrder{}).
		Where("id = ? AND version = ?", order.ID, order.Version-1).
		Updates(map[string]interface{}{
			"status":        order.Status,
			"notes":         order.Notes,
			"approved_by":   order.ApprovedBy,
			"approved_at":   order.ApprovedAt,
			"completed_at":  order.CompletedAt,
			"cancel_reason": order.CancelReason,
			"cancelled_at":  order.CancelledAt,
			"version":       order.Version,
			"updated_at":    order.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	if len(order.Items) > 0 {
		if err := r.db.WithContext(ctx).Save(&order.Items).Error; err != nil {
			return err
		}
	}
	order.SyncVersion()
	return nil
}

// Delete removes a draft order and its items
func (r *GormPurchaseOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&procurement.PurchaseOrderItem{}, "order_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&procurement.PurchaseOrder{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Count counts orders matching the filter
func (r *GormPurchaseOrderRepository) Count(ctx context.Context, filter procurement.OrderFilter) (int64, error) {
	var count int64
	if err := r.orderQuery(ctx, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormPurchaseOrderRepository) orderQuery(ctx context.Context, filter procurement.OrderFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&procurement.PurchaseOrder{})
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.WarehouseID != nil {
		query = query.Where("warehouse_id = ?", *filter.WarehouseID)
	}
	if filter.SupplierName != "" {
		query = query.Where("supplier_name ILIKE ?", "%"+filter.SupplierName+"%")
	}
	if filter.Search != "" {
		query = query.Where("order_number ILIKE ?", "%"+filter.Search+"%")
	}
	return query
}

var _ procurement.PurchaseOrderRepository = (*GormPurchaseOrderRepository)(nil)

// GormGoodsReceiptRepository implements GoodsReceiptRepository using GORM
type GormGoodsReceiptRepository struct {
	db *gorm.DB
}

// NewGormGoodsReceiptRepository creates a new GormGoodsReceiptRepository
func NewGormGoodsReceiptRepository(db *gorm.DB) *GormGoodsReceiptRepository {
	return &GormGoodsReceiptRepository{db: db}
}

// FindByID finds a receipt by ID with its lines preloaded
func (r *GormGoodsReceiptRepository) FindByID(ctx context.Context, id uuid.UUID) (*procurement.GoodsReceipt, error) {
	var receipt procurement.GoodsReceipt
	err := r.db.WithContext(ctx).Preload("Lines").First(&receipt, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &receipt, nil
}

// FindByNumber finds a receipt by its document number
func (r *GormGoodsReceiptRepository) FindByNumber(ctx context.Context, number string) (*procurement.GoodsReceipt, error) {
	var receipt procurement.GoodsReceipt
	err := r.db.WithContext(ctx).Preload("Lines").First(&receipt, "receipt_number = ?", number).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &receipt, nil
}

// FindAll finds receipts matching the filter
func (r *GormGoodsReceiptRepository) FindAll(ctx context.Context, filter procurement.ReceiptFilter) ([]procurement.GoodsReceipt, error) {
	var receipts []procurement.GoodsReceipt
	query := applyFilter(r.receiptQuery(ctx, filter), filter.Filter).Preload("Lines")
	if err := query.Find(&receipts).Error; err != nil {
		return nil, err
	}
	return receipts, nil
}

// Save creates or updates a receipt and its lines
func (r *GormGoodsReceiptRepository) Save(ctx context.Context, receipt *procurement.GoodsReceipt) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(receipt).Error
}

// SaveWithLock saves the header with an optimistic version check
func (r *GormGoodsReceiptRepository) SaveWithLock(ctx context.Context, receipt *procurement.GoodsReceipt) error {
	result := r.db.WithContext(ctx).
		Model(&procurement.GoodsReceipt{}).
		Where("id = ? AND version = ?", receipt.ID, receipt.Version-1).
		Updates(map[string]interface{}{
			"status":        receipt.Status,
			"notes":         receipt.Notes,
			"posted_by":     receipt.PostedBy,
			"posted_at":     receipt.PostedAt,
			"cancel_reason": receipt.CancelReason,
			"cancelled_by":  receipt.CancelledBy,
			"cancelled_at":  receipt.CancelledAt,
			"version":       receipt.Version,
			"updated_at":    receipt.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	receipt.SyncVersion()
	return nil
}

// Delete removes a draft receipt and its lines
func (r *GormGoodsReceiptRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&procurement.GoodsReceiptLine{}, "receipt_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&procurement.GoodsReceipt{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Count counts receipts matching the filter
func (r *GormGoodsReceiptRepository) Count(ctx context.Context, filter procurement.ReceiptFilter) (int64, error) {
	var count int64
	if err := r.receiptQuery(ctx, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormGoodsReceiptRepository) receiptQuery(ctx context.Context, filter procurement.ReceiptFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&procurement.GoodsReceipt{})
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.WarehouseID != nil {
		query = query.Where("warehouse_id = ?", *filter.WarehouseID)
	}
	if filter.PurchaseOrderID != nil {
		query = query.Where("purchase_order_id = ?", *filter.PurchaseOrderID)
	}
	if filter.Search != "" {
		query = query.Where("receipt_number ILIKE ?", "%"+filter.Search+"%")
	}
	return query
}

var _ procurement.GoodsReceiptRepository = (*GormGoodsReceiptRepository)(nil)
