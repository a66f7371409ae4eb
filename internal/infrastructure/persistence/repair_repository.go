package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/velocore/backend/internal/domain/repair"
	"github.com/velocore/backend/internal/domain/shared"
)

// GormRepairOrderRepository implements RepairOrderRepository using GORM
type GormRepairOrderRepository struct {
	db *gorm.DB
}

// NewGormRepairOrderRepository creates a new GormRepairOrderRepository
func NewGormRepairOrderRepository(db *gorm.DB) *GormRepairOrderRepository {
	return &GormRepairOrderRepository{db: db}
}

// FindByID finds a repair order by ID
func (r *GormRepairOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*repair.RepairOrder, error) {
	return r.findByID(ctx, r.db, id)
}

// FindByIDForUpdate finds a repair order taking a row lock
func (r *GormRepairOrderRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*repair.RepairOrder, error) {
	return r.findByID(ctx, r.db.Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *GormRepairOrderRepository) findByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*repair.RepairOrder, error) {
	var order repair.RepairOrder
	err := db.WithContext(ctx).First(&order, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// FindByNumber finds a repair order by its document number
func (r *GormRepairOrderRepository) FindByNumber(ctx context.Context, number string) (*repair.RepairOrder, error) {
	var order repair.RepairOrder
	err := r.db.WithContext(ctx).First(&order, "order_number = ?", number).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// FindAll finds repair orders matching the filter
func (r *GormRepairOrderRepository) FindAll(ctx context.Context, filter repair.OrderFilter) ([]repair.RepairOrder, error) {
	var orders []repair.RepairOrder
	query := applyFilter(r.orderQuery(ctx, filter), filter.Filter)
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindOpenByAsset finds repairs for an asset that are not completed or cancelled
func (r *GormRepairOrderRepository) FindOpenByAsset(ctx context.Context, assetID uuid.UUID) ([]repair.RepairOrder, error) {
	var orders []repair.RepairOrder
	err := r.db.WithContext(ctx).
		Where("asset_id = ? AND status NOT IN ?", assetID,
			[]repair.RepairStatus{repair.RepairStatusCompleted, repair.RepairStatusCancelled}).
		Order("created_at ASC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// Save creates or updates a repair order
func (r *GormRepairOrderRepository) Save(ctx context.Context, order *repair.RepairOrder) error {
	return r.db.WithContext(ctx).Save(order).Error
}

// SaveWithLock saves with an optimistic version check
func (r *GormRepairOrderRepository) SaveWithLock(ctx context.Context, order *repair.RepairOrder) error {
	result := r.db.WithContext(ctx).
		Model(&repair.RepairOrder{}).
		Where("id = ? AND version = ?", order.ID, order.Version-1).
		Updates(map[string]interface{}{
			"status":        order.Status,
			"technician_id": order.TechnicianID,
			"labor_cost":    order.LaborCost,
			"parts_cost":    order.PartsCost,
			"diagnosis":     order.Diagnosis,
			"pending_at":    order.PendingAt,
			"started_at":    order.StartedAt,
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
	order.SyncVersion()
	return nil
}

// Delete removes a repair order that never started
func (r *GormRepairOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&repair.RepairOrder{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts repair orders matching the filter
func (r *GormRepairOrderRepository) Count(ctx context.Context, filter repair.OrderFilter) (int64, error) {
	var count int64
	if err := r.orderQuery(ctx, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormRepairOrderRepository) orderQuery(ctx context.Context, filter repair.OrderFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&repair.RepairOrder{})
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.AssetID != nil {
		query = query.Where("asset_id = ?", *filter.AssetID)
	}
	if filter.TechnicianID != nil {
		query = query.Where("technician_id = ?", *filter.TechnicianID)
	}
	if filter.Search != "" {
		query = query.Where("order_number ILIKE ?", "%"+filter.Search+"%")
	}
	return query
}

var _ repair.RepairOrderRepository = (*GormRepairOrderRepository)(nil)
