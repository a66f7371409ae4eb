package manufacturing

import (
	"context"

	"github.com/google/uuid"

	appinventory "github.com/velocore/backend/internal/application/inventory"
	"github.com/velocore/backend/internal/domain/manufacturing"
	"github.com/velocore/backend/internal/domain/shared"
)

// BOMService manages bill of material revisions. At most one revision per
// finished item is active; activating a revision deactivates the previous one
// in the same transaction.
type BOMService struct {
	scope   appinventory.TransactionScope
	bomRepo manufacturing.BillOfMaterialRepository
}

// NewBOMService creates a new BOMService
func NewBOMService(
	scope appinventory.TransactionScope,
	bomRepo manufacturing.BillOfMaterialRepository,
) *BOMService {
	return &BOMService{scope: scope, bomRepo: bomRepo}
}

// Create saves a new inactive BOM revision. The revision number continues
// from the highest existing revision for the finished item.
func (s *BOMService) Create(ctx context.Context, cmd CreateBOMCommand) (*manufacturing.BillOfMaterial, error) {
	if len(cmd.Lines) == 0 {
		return nil, shared.NewDomainError("EMPTY_DOCUMENT", "BOM must have at least one component")
	}

	var bom *manufacturing.BillOfMaterial
	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		existing, err := repos.BOMs().FindAll(ctx, manufacturing.BOMFilter{FinishedItemID: &cmd.FinishedItemID})
		if err != nil {
			return err
		}
		revision := 1
		for _, b := range existing {
			if b.Revision >= revision {
				revision = b.Revision + 1
			}
		}

		bom, err = manufacturing.NewBillOfMaterial(cmd.FinishedItemID, revision)
		if err != nil {
			return err
		}
		bom.Notes = cmd.Notes

		for _, line := range cmd.Lines {
			if err := bom.AddComponent(line.ComponentItemID, line.QuantityPer, line.ScrapFactor, line.Notes); err != nil {
				return err
			}
		}

		return repos.BOMs().Save(ctx, bom)
	})
	if err != nil {
		return nil, err
	}
	return bom, nil
}

// Activate makes a revision the one production orders use, deactivating any
// previously active revision for the same finished item.
func (s *BOMService) Activate(ctx context.Context, id uuid.UUID) (*manufacturing.BillOfMaterial, error) {
	var bom *manufacturing.BillOfMaterial
	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		var err error
		bom, err = repos.BOMs().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if bom == nil {
			return shared.ErrNotFound
		}

		current, err := repos.BOMs().FindActiveByFinishedItem(ctx, bom.FinishedItemID)
		if err != nil {
			return err
		}
		if current != nil && current.ID != bom.ID {
			current.Deactivate()
			if err := repos.BOMs().Save(ctx, current); err != nil {
				return err
			}
		}

		if err := bom.Activate(); err != nil {
			return err
		}
		return repos.BOMs().Save(ctx, bom)
	})
	if err != nil {
		return nil, err
	}
	return bom, nil
}

// Deactivate retires a revision without activating a replacement
func (s *BOMService) Deactivate(ctx context.Context, id uuid.UUID) (*manufacturing.BillOfMaterial, error) {
	var bom *manufacturing.BillOfMaterial
	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		var err error
		bom, err = repos.BOMs().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if bom == nil {
			return shared.ErrNotFound
		}
		bom.Deactivate()
		return repos.BOMs().Save(ctx, bom)
	})
	if err != nil {
		return nil, err
	}
	return bom, nil
}

// Get returns a BOM revision by ID
func (s *BOMService) Get(ctx context.Context, id uuid.UUID) (*manufacturing.BillOfMaterial, error) {
	bom, err := s.bomRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if bom == nil {
		return nil, shared.ErrNotFound
	}
	return bom, nil
}

// List returns BOM revisions matching the filter
func (s *BOMService) List(ctx context.Context, filter manufacturing.BOMFilter) (*shared.Paginated[manufacturing.BillOfMaterial], error) {
	boms, err := s.bomRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.bomRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	return shared.NewPaginated(boms, total, filter.Filter), nil
}

// Delete removes an inactive BOM revision
func (s *BOMService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		bom, err := repos.BOMs().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if bom == nil {
			return shared.ErrNotFound
		}
		if bom.IsActive {
			return shared.NewDomainError("INVALID_STATUS", "Active BOM revisions cannot be deleted")
		}
		return repos.BOMs().Delete(ctx, id)
	})
}
