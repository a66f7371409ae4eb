package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/velocore/backend/internal/domain/manufacturing"
	"github.com/velocore/backend/internal/domain/shared"
)

// GormBillOfMaterialRepository implements BillOfMaterialRepository using GORM
type GormBillOfMaterialRepository struct {
	db *gorm.DB
}

// NewGormBillOfMaterialRepository creates a new GormBillOfMaterialRepository
func NewGormBillOfMaterialRepository(db *gorm.DB) *GormBillOfMaterialRepository {
	return &GormBillOfMaterialRepository{db: db}
}

// FindByID finds a BOM by ID with its lines preloaded
func (r *GormBillOfMaterialRepository) FindByID(ctx context.Context, id uuid.UUID) (*manufacturing.BillOfMaterial, error) {
	var bom manufacturing.BillOfMaterial
	err := r.db.WithContext(ctx).Preload("Lines").First(&bom, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &bom, nil
}

// FindActiveByFinishedItem finds the active BOM revision for a finished item
func (r *GormBillOfMaterialRepository) FindActiveByFinishedItem(ctx context.Context, finishedItemID uuid.UUID) (*manufacturing.BillOfMaterial, error) {
	var bom manufacturing.BillOfMaterial
	err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("finished_item_id = ? AND is_active = ?", finishedItemID, true).
		First(&bom).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &bom, nil
}

// FindAll finds BOMs matching the filter
func (r *GormBillOfMaterialRepository) FindAll(ctx context.Context, filter manufacturing.BOMFilter) ([]manufacturing.BillOfMaterial, error) {
	var boms []manufacturing.BillOfMaterial
	query := applyFilter(r.bomQuery(ctx, filter), filter.Filter).Preload("Lines")
	if err := query.Find(&boms).Error; err != nil {
		return nil, err
	}
	return boms, nil
}

// Save creates or updates a BOM and its lines
func (r *GormBillOfMaterialRepository) Save(ctx context.Context, bom *manufacturing.BillOfMaterial) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(bom).Error
}

// Delete removes a BOM revision and its lines
func (r *GormBillOfMaterialRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&manufacturing.BOMLine{}, "bom_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&manufacturing.BillOfMaterial{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Count counts BOMs matching the filter
func (r *GormBillOfMaterialRepository) Count(ctx context.Context, filter manufacturing.BOMFilter) (int64, error) {
	var count int64
	if err := r.bomQuery(ctx, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormBillOfMaterialRepository) bomQuery(ctx context.Context, filter manufacturing.BOMFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&manufacturing.BillOfMaterial{})
	if filter.FinishedItemID != nil {
		query = query.Where("finished_item_id = ?", *filter.FinishedItemID)
	}
	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}
	return query
}

var _ manufacturing.BillOfMaterialRepository = (*GormBillOfMaterialRepository)(nil)

// GormProductionOrderRepository implements ProductionOrderRepository using GORM
type GormProductionOrderRepository struct {
	db *gorm.DB
}

// NewGormProductionOrderRepository creates a new GormProductionOrderRepository
func NewGormProductionOrderRepository(db *gorm.DB) *GormProductionOrderRepository {
	return &GormProductionOrderRepository{db: db}
}

// FindByID finds a production order by ID
func (r *GormProductionOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*manufacturing.ProductionOrder, error) {
	return r.findByID(ctx, r.db, id)
}

// FindByIDForUpdate finds a production order taking a row lock
func (r *GormProductionOrderRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*manufacturing.ProductionOrder, error) {
	return r.findByID(ctx, r.db.Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *GormProductionOrderRepository) findByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*manufacturing.ProductionOrder, error) {
	var order manufacturing.ProductionOrder
	err := db.WithContext(ctx).First(&order, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// FindByNumber finds a production order by its document number
func (r *GormProductionOrderRepository) FindByNumber(ctx context.Context, number string) (*manufacturing.ProductionOrder, error) {
	var order manufacturing.ProductionOrder
	err := r.db.WithContext(ctx).First(&order, "order_number = ?", number).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// FindAll finds production orders matching the filter
func (r *GormProductionOrderRepository) FindAll(ctx context.Context, filter manufacturing.ProductionOrderFilter) ([]manufacturing.ProductionOrder, error) {
	var orders []manufacturing.ProductionOrder
	query := applyFilter(r.orderQuery(ctx, filter), filter.Filter)
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Save creates or updates a production order
func (r *GormProductionOrderRepository) Save(ctx context.Context, order *manufacturing.ProductionOrder) error {
	return r.db.WithContext(ctx).Save(order).Error
}

// SaveWithLock saves with an optimistic version check
func (r *GormProductionOrderRepository) SaveWithLock(ctx context.Context, order *manufacturing.ProductionOrder) error {
	result := r.db.WithContext(ctx).
		Model(&manufacturing.ProductionOrder{}).
		Where("id = ? AND version = ?", order.ID, order.Version-1).
		Updates(map[string]interface{}{
			"status":             order.Status,
			"completed_quantity": order.CompletedQuantity,
			"planned_date":       order.PlannedDate,
			"notes":              order.Notes,
			"released_at":        order.ReleasedAt,
			"started_at":         order.StartedAt,
			"completed_at":       order.CompletedAt,
			"cancel_reason":      order.CancelReason,
			"cancelled_at":       order.CancelledAt,
			"version":            order.Version,
			"updated_at":         order.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	order.SyncVersion()
	return nil
}

// Delete removes a draft production order
func (r *GormProductionOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&manufacturing.ProductionOrder{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts production orders matching the filter
func (r *GormProductionOrderRepository) Count(ctx context.Context, filter manufacturing.ProductionOrderFilter) (int64, error) {
	var count int64
	if err := r.orderQuery(ctx, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormProductionOrderRepository) orderQuery(ctx context.Context, filter manufacturing.ProductionOrderFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&manufacturing.ProductionOrder{})
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.FinishedItemID != nil {
		query = query.Where("finished_item_id = ?", *filter.FinishedItemID)
	}
	if filter.WarehouseID != nil {
		query = query.Where("warehouse_id = ?", *filter.WarehouseID)
	}
	if filter.Search != "" {
		query = query.Where("order_number ILIKE ?", "%"+filter.Search+"%")
	}
	return query
}

var _ manufacturing.ProductionOrderRepository = (*GormProductionOrderRepository)(nil)

// GormMaterialIssueRepository implements MaterialIssueRepository using GORM
type GormMaterialIssueRepository struct {
	db *gorm.DB
}

// NewGormMaterialIssueRepository creates a new GormMaterialIssueRepository
func NewGormMaterialIssueRepository(db *gorm.DB) *GormMaterialIssueRepository {
	return &GormMaterialIssueRepository{db: db}
}

// FindByID finds an issue by ID with its lines preloaded
func (r *GormMaterialIssueRepository) FindByID(ctx context.Context, id uuid.UUID) (*manufacturing.MaterialIssue, error) {
	var issue manufacturing.MaterialIssue
	err := r.db.WithContext(ctx).Preload("Lines").First(&issue, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &issue, nil
}

// FindByNumber finds an issue by its document number
func (r *GormMaterialIssueRepository) FindByNumber(ctx context.Context, number string) (*manufacturing.MaterialIssue, error) {
	var issue manufacturing.MaterialIssue
	err := r.db.WithContext(ctx).Preload("Lines").First(&issue, "issue_number = ?", number).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &issue, nil
}

// FindAll finds issues matching the filter
func (r *GormMaterialIssueRepository) FindAll(ctx context.Context, filter manufacturing.IssueFilter) ([]manufacturing.MaterialIssue, error) {
	var issues []manufacturing.MaterialIssue
	query := applyFilter(r.issueQuery(ctx, filter), filter.Filter).Preload("Lines")
	if err := query.Find(&issues).Error; err != nil {
		return nil, err
	}
	return issues, nil
}

// FindByProductionOrder finds all issues for a production order
func (r *GormMaterialIssueRepository) FindByProductionOrder(ctx context.Context, orderID uuid.UUID) ([]manufacturing.MaterialIssue, error) {
	var issues []manufacturing.MaterialIssue
	err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("production_order_id = ?", orderID).
		Order("created_at ASC").
		Find(&issues).Error
	if err != nil {
		return nil, err
	}
	return issues, nil
}

// Save creates or updates an issue and its lines
func (r *GormMaterialIssueRepository) Save(ctx context.Context, issue *manufacturing.MaterialIssue) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(issue).Error
}

// SaveWithLock saves the header with an optimistic version check
func (r *GormMaterialIssueRepository) SaveWithLock(ctx context.Context, issue *manufacturing.MaterialIssue) error {
	result := r.db.WithContext(ctx).
		Model(&manufacturing.MaterialIssue{}).
		Where("id = ? AND version = ?", issue.ID, issue.Version-1).
		Updates(map[string]interface{}{
			"status":        issue.Status,
			"notes":         issue.Notes,
			"posted_by":     issue.PostedBy,
			"posted_at":     issue.PostedAt,
			"cancel_reason": issue.CancelReason,
			"cancelled_by":  issue.CancelledBy,
			"cancelled_at":  issue.CancelledAt,
			"version":       issue.Version,
			"updated_at":    issue.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	issue.SyncVersion()
	return nil
}

// Delete removes a draft issue and its lines
func (r *GormMaterialIssueRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&manufacturing.MaterialIssueLine{}, "issue_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&manufacturing.MaterialIssue{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Count counts issues matching the filter
func (r *GormMaterialIssueRepository) Count(ctx context.Context, filter manufacturing.IssueFilter) (int64, error) {
	var count int64
	if err := r.issueQuery(ctx, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormMaterialIssueRepository) issueQuery(ctx context.Context, filter manufacturing.IssueFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&manufacturing.MaterialIssue{})
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.WarehouseID != nil {
		query = query.Where("warehouse_id = ?", *filter.WarehouseID)
	}
	if filter.ProductionOrderID != nil {
		query = query.Where("production_order_id = ?", *filter.ProductionOrderID)
	}
	if filter.RepairOrderID != nil {
		query = query.Where("repair_order_id = ?", *filter.RepairOrderID)
	}
	if filter.Search != "" {
		query = query.Where("issue_number ILIKE ?", "%"+filter.Search+"%")
	}
	return query
}

var _ manufacturing.MaterialIssueRepository = (*GormMaterialIssueRepository)(nil)

// GormProductionReceiptRepository implements ProductionReceiptRepository using GORM
type GormProductionReceiptRepository struct {
	db *gorm.DB
}

// NewGormProductionReceiptRepository creates a new GormProductionReceiptRepository
func NewGormProductionReceiptRepository(db *gorm.DB) *GormProductionReceiptRepository {
	return &GormProductionReceiptRepository{db: db}
}

// FindByID finds a receipt by ID
func (r *GormProductionReceiptRepository) FindByID(ctx context.Context, id uuid.UUID) (*manufacturing.ProductionReceipt, error) {
	var receipt manufacturing.ProductionReceipt
	err := r.db.WithContext(ctx).First(&receipt, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &receipt, nil
}

// FindByNumber finds a receipt by its document number
func (r *GormProductionReceiptRepository) FindByNumber(ctx context.Context, number string) (*manufacturing.ProductionReceipt, error) {
	var receipt manufacturing.ProductionReceipt
	err := r.db.WithContext(ctx).First(&receipt, "receipt_number = ?", number).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &receipt, nil
}

// FindAll finds receipts matching the filter
func (r *GormProductionReceiptRepository) FindAll(ctx context.Context, filter manufacturing.ProductionReceiptFilter) ([]manufacturing.ProductionReceipt, error) {
	var receipts []manufacturing.ProductionReceipt
	query := applyFilter(r.receiptQuery(ctx, filter), filter.Filter)
	if err := query.Find(&receipts).Error; err != nil {
		return nil, err
	}
	return receipts, nil
}

// Save creates or updates a receipt
func (r *GormProductionReceiptRepository) Save(ctx context.Context, receipt *manufacturing.ProductionReceipt) error {
	return r.db.WithContext(ctx).Save(receipt).Error
}

// SaveWithLock saves with an optimistic version check. Unit cost is rolled up
// at posting time, so it is part of the update set.
func (r *GormProductionReceiptRepository) SaveWithLock(ctx context.Context, receipt *manufacturing.ProductionReceipt) error {
	result := r.db.WithContext(ctx).
		Model(&manufacturing.ProductionReceipt{}).
		Where("id = ? AND version = ?", receipt.ID, receipt.Version-1).
		Updates(map[string]interface{}{
			"status":        receipt.Status,
			"unit_cost":     receipt.UnitCost,
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

// Delete removes a draft receipt
func (r *GormProductionReceiptRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&manufacturing.ProductionReceipt{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts receipts matching the filter
func (r *GormProductionReceiptRepository) Count(ctx context.Context, filter manufacturing.ProductionReceiptFilter) (int64, error) {
	var count int64
	if err := r.receiptQuery(ctx, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormProductionReceiptRepository) receiptQuery(ctx context.Context, filter manufacturing.ProductionReceiptFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&manufacturing.ProductionReceipt{})
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.ProductionOrderID != nil {
		query = query.Where("production_order_id = ?", *filter.ProductionOrderID)
	}
	if filter.WarehouseID != nil {
		query = query.Where("warehouse_id = ?", *filter.WarehouseID)
	}
	if filter.Search != "" {
		query = query.Where("receipt_number ILIKE ?", "%"+filter.Search+"%")
	}
	return query
}

var _ manufacturing.ProductionReceiptRepository = (*GormProductionReceiptRepository)(nil)
