package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/velocore/backend/internal/domain/rental"
	"github.com/velocore/backend/internal/domain/shared"
)

// GormAssetRepository implements AssetRepository using GORM
type GormAssetRepository struct {
	db *gorm.DB
}

// NewGormAssetRepository creates a new GormAssetRepository
func NewGormAssetRepository(db *gorm.DB) *GormAssetRepository {
	return &GormAssetRepository{db: db}
}

// FindByID finds an asset by ID
func (r *GormAssetRepository) FindByID(ctx context.Context, id uuid.UUID) (*rental.Asset, error) {
	return r.findByID(ctx, r.db, id)
}

// FindByIDForUpdate finds an asset taking a row lock
func (r *GormAssetRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*rental.Asset, error) {
	return r.findByID(ctx, r.db.Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *GormAssetRepository) findByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*rental.Asset, error) {
	var asset rental.Asset
	err := db.WithContext(ctx).First(&asset, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &asset, nil
}

// FindByCode finds an asset by its code
func (r *GormAssetRepository) FindByCode(ctx context.Context, code string) (*rental.Asset, error) {
	var asset rental.Asset
	err := r.db.WithContext(ctx).First(&asset, "code = ?", strings.TrimSpace(code)).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &asset, nil
}

// FindAll finds assets matching the filter
func (r *GormAssetRepository) FindAll(ctx context.Context, filter rental.AssetFilter) ([]rental.Asset, error) {
	var assets []rental.Asset
	query := applyFilter(r.assetQuery(ctx, filter), filter.Filter)
	if err := query.Find(&assets).Error; err != nil {
		return nil, err
	}
	return assets, nil
}

// Save creates or updates an asset
func (r *GormAssetRepository) Save(ctx context.Context, asset *rental.Asset) error {
	return r.db.WithContext(ctx).Save(asset).Error
}

// SaveWithLock saves with an optimistic version check
func (r *GormAssetRepository) SaveWithLock(ctx context.Context, asset *rental.Asset) error {
	result := r.db.WithContext(ctx).
		Model(&rental.Asset{}).
		Where("id = ? AND version = ?", asset.ID, asset.Version-1).
		Updates(map[string]interface{}{
			"status":      asset.Status,
			"is_active":   asset.IsActive,
			"notes":       asset.Notes,
			"acquired_at": asset.AcquiredAt,
			"retired_at":  asset.RetiredAt,
			"lost_at":     asset.LostAt,
			"version":     asset.Version,
			"updated_at":  asset.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	asset.SyncVersion()
	return nil
}

// Delete removes an asset
func (r *GormAssetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&rental.Asset{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts assets matching the filter
func (r *GormAssetRepository) Count(ctx context.Context, filter rental.AssetFilter) (int64, error) {
	var count int64
	if err := r.assetQuery(ctx, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByCode checks if an asset with the code exists
func (r *GormAssetRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&rental.Asset{}).
		Where("code = ?", strings.TrimSpace(code)).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormAssetRepository) assetQuery(ctx context.Context, filter rental.AssetFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&rental.Asset{})
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Model != "" {
		query = query.Where("model ILIKE ?", "%"+filter.Model+"%")
	}
	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("code ILIKE ? OR model ILIKE ?", pattern, pattern)
	}
	return query
}

var _ rental.AssetRepository = (*GormAssetRepository)(nil)

// GormRentalContractRepository implements RentalContractRepository using GORM
type GormRentalContractRepository struct {
	db *gorm.DB
}

// NewGormRentalContractRepository creates a new GormRentalContractRepository
func NewGormRentalContractRepository(db *gorm.DB) *GormRentalContractRepository {
	return &GormRentalContractRepository{db: db}
}

// FindByID finds a contract by ID
func (r *GormRentalContractRepository) FindByID(ctx context.Context, id uuid.UUID) (*rental.RentalContract, error) {
	return r.findByID(ctx, r.db, id)
}

// FindByIDForUpdate finds a contract taking a row lock
func (r *GormRentalContractRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*rental.RentalContract, error) {
	return r.findByID(ctx, r.db.Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *GormRentalContractRepository) findByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*rental.RentalContract, error) {
	var contract rental.RentalContract
	err := db.WithContext(ctx).First(&contract, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &contract, nil
}

// FindByNumber finds a contract by its document number
func (r *GormRentalContractRepository) FindByNumber(ctx context.Context, number string) (*rental.RentalContract, error) {
	var contract rental.RentalContract
	err := r.db.WithContext(ctx).First(&contract, "contract_number = ?", number).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &contract, nil
}

// FindAll finds contracts matching the filter
func (r *GormRentalContractRepository) FindAll(ctx context.Context, filter rental.ContractFilter) ([]rental.RentalContract, error) {
	var contracts []rental.RentalContract
	query := applyFilter(r.contractQuery(ctx, filter), filter.Filter)
	if err := query.Find(&contracts).Error; err != nil {
		return nil, err
	}
	return contracts, nil
}

// FindActiveByAsset finds the open contract for an asset, if any
func (r *GormRentalContractRepository) FindActiveByAsset(ctx context.Context, assetID uuid.UUID) (*rental.RentalContract, error) {
	var contract rental.RentalContract
	err := r.db.WithContext(ctx).
		Where("asset_id = ? AND status IN ?", assetID,
			[]rental.ContractStatus{rental.ContractStatusActive, rental.ContractStatusOverdue}).
		First(&contract).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &contract, nil
}

// Save creates or updates a contract
func (r *GormRentalContractRepository) Save(ctx context.Context, contract *rental.RentalContract) error {
	return r.db.WithContext(ctx).Save(contract).Error
}

// SaveWithLock saves with an optimistic version check
func (r *GormRentalContractRepository) SaveWithLock(ctx context.Context, contract *rental.RentalContract) error {
	result := r.db.WithContext(ctx).
		Model(&rental.RentalContract{}).
		Where("id = ? AND version = ?", contract.ID, contract.Version-1).
		Updates(map[string]interface{}{
			"status":        contract.Status,
			"start_date":    contract.StartDate,
			"due_date":      contract.DueDate,
			"returned_date": contract.ReturnedDate,
			"total_charge":  contract.TotalCharge,
			"notes":         contract.Notes,
			"cancel_reason": contract.CancelReason,
			"cancelled_at":  contract.CancelledAt,
			"version":       contract.Version,
			"updated_at":    contract.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	contract.SyncVersion()
	return nil
}

// Delete removes a draft contract
func (r *GormRentalContractRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&rental.RentalContract{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts contracts matching the filter
func (r *GormRentalContractRepository) Count(ctx context.Context, filter rental.ContractFilter) (int64, error) {
	var count int64
	if err := r.contractQuery(ctx, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormRentalContractRepository) contractQuery(ctx context.Context, filter rental.ContractFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&rental.RentalContract{})
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.AssetID != nil {
		query = query.Where("asset_id = ?", *filter.AssetID)
	}
	if filter.CustomerName != "" {
		query = query.Where("customer_name ILIKE ?", "%"+filter.CustomerName+"%")
	}
	if filter.DueBefore != nil {
		query = query.Where("due_date < ?", *filter.DueBefore)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("contract_number ILIKE ? OR customer_name ILIKE ?", pattern, pattern)
	}
	return query
}

var _ rental.RentalContractRepository = (*GormRentalContractRepository)(nil)
