package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/velocore/backend/internal/domain/quality"
	"github.com/velocore/backend/internal/domain/shared"
)

// GormQualityCheckRepository implements QualityCheckRepository using GORM
type GormQualityCheckRepository struct {
	db *gorm.DB
}

// NewGormQualityCheckRepository creates a new GormQualityCheckRepository
func NewGormQualityCheckRepository(db *gorm.DB) *GormQualityCheckRepository {
	return &GormQualityCheckRepository{db: db}
}

// FindByID finds a check by ID with its lines preloaded
func (r *GormQualityCheckRepository) FindByID(ctx context.Context, id uuid.UUID) (*quality.QualityCheck, error) {
	var check quality.QualityCheck
	err := r.db.WithContext(ctx).Preload("Lines").First(&check, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &check, nil
}

// FindByNumber finds a check by its document number
func (r *GormQualityCheckRepository) FindByNumber(ctx context.Context, number string) (*quality.QualityCheck, error) {
	var check quality.QualityCheck
	err := r.db.WithContext(ctx).Preload("Lines").First(&check, "check_number = ?", number).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &check, nil
}

// FindAll finds checks matching the filter
func (r *GormQualityCheckRepository) FindAll(ctx context.Context, filter quality.CheckFilter) ([]quality.QualityCheck, error) {
	var checks []quality.QualityCheck
	query := applyFilter(r.checkQuery(ctx, filter), filter.Filter).Preload("Lines")
	if err := query.Find(&checks).Error; err != nil {
		return nil, err
	}
	return checks, nil
}

// FindLatestByReference finds the most recent check for a document
func (r *GormQualityCheckRepository) FindLatestByReference(ctx context.Context, referenceType string, referenceID uuid.UUID) (*quality.QualityCheck, error) {
	var check quality.QualityCheck
	err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("reference_type = ? AND reference_id = ?", referenceType, referenceID).
		Order("created_at DESC").
		First(&check).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &check, nil
}

// Save creates or updates a check and its lines
func (r *GormQualityCheckRepository) Save(ctx context.Context, check *quality.QualityCheck) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(check).Error
}

// SaveWithLock saves with an optimistic version check. Recording a line
// result mutates the line rows, so lines are saved alongside the header.
func (r *GormQualityCheckRepository) SaveWithLock(ctx context.Context, check *quality.QualityCheck) error {
	result := r.db.WithContext(ctx).
		Model(&quality.QualityCheck{}).
		Where("id = ? AND version = ?", check.ID, check.Version-1).
		Updates(map[string]interface{}{
			"status":       check.Status,
			"inspector_id": check.InspectorID,
			"inspected_at": check.InspectedAt,
			"remarks":      check.Remarks,
			"version":      check.Version,
			"updated_at":   check.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	if len(check.Lines) > 0 {
		if err := r.db.WithContext(ctx).Save(&check.Lines).Error; err != nil {
			return err
		}
	}
	check.SyncVersion()
	return nil
}

// Delete removes a draft check and its lines
func (r *GormQualityCheckRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&quality.ChecklistLine{}, "check_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&quality.QualityCheck{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Count counts checks matching the filter
func (r *GormQualityCheckRepository) Count(ctx context.Context, filter quality.CheckFilter) (int64, error) {
	var count int64
	if err := r.checkQuery(ctx, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormQualityCheckRepository) checkQuery(ctx context.Context, filter quality.CheckFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&quality.QualityCheck{})
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.ReferenceType != "" {
		query = query.Where("reference_type = ?", filter.ReferenceType)
	}
	if filter.ReferenceID != nil {
		query = query.Where("reference_id = ?", *filter.ReferenceID)
	}
	if filter.Search != "" {
		query = query.Where("check_number ILIKE ?", "%"+filter.Search+"%")
	}
	return query
}

var _ quality.QualityCheckRepository = (*GormQualityCheckRepository)(nil)
