package quality

import (
	"context"

	"github.com/google/uuid"

	appinventory "github.com/velocore/backend/internal/application/inventory"
	"github.com/velocore/backend/internal/domain/quality"
	"github.com/velocore/backend/internal/domain/shared"
)

// CreateCheckCommand is the input for creating a draft quality check
type CreateCheckCommand struct {
	ReferenceType string
	ReferenceID   uuid.UUID
	Checklist     []string
}

// QualityService manages quality checks against goods receipts and repair
// orders. A check that has not passed blocks posting of its goods receipt.
type QualityService struct {
	scope     appinventory.TransactionScope
	checkRepo quality.QualityCheckRepository
}

// NewQualityService creates a new QualityService
func NewQualityService(
	scope appinventory.TransactionScope,
	checkRepo quality.QualityCheckRepository,
) *QualityService {
	return &QualityService{scope: scope, checkRepo: checkRepo}
}

// Create allocates a check number and saves a new draft check with its
// checklist. The referenced document must exist.
func (s *QualityService) Create(ctx context.Context, cmd CreateCheckCommand) (*quality.QualityCheck, error) {
	if len(cmd.Checklist) == 0 {
		return nil, shared.NewDomainError("EMPTY_DOCUMENT", "Check must have at least one checklist line")
	}

	var check *quality.QualityCheck
	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		if err := requireReference(ctx, repos, cmd.ReferenceType, cmd.ReferenceID); err != nil {
			return err
		}

		number, err := appinventory.NextDocumentNumber(ctx, repos, quality.CheckNumberPrefix)
		if err != nil {
			return err
		}

		check, err = quality.NewQualityCheck(number, cmd.ReferenceType, cmd.ReferenceID)
		if err != nil {
			return err
		}
		for _, description := range cmd.Checklist {
			if err := check.AddLine(description); err != nil {
				return err
			}
		}

		return repos.QualityChecks().Save(ctx, check)
	})
	if err != nil {
		return nil, err
	}
	return check, nil
}

// RecordLineResult marks one checklist line as passed or failed
func (s *QualityService) RecordLineResult(ctx context.Context, checkID, lineID uuid.UUID, passed bool, remarks string) (*quality.QualityCheck, error) {
	return s.transition(ctx, checkID, func(c *quality.QualityCheck) error {
		return c.RecordLineResult(lineID, passed, remarks)
	})
}

// Pass closes the check as passed; every line must have passed
func (s *QualityService) Pass(ctx context.Context, checkID, inspectorID uuid.UUID) (*quality.QualityCheck, error) {
	return s.transition(ctx, checkID, func(c *quality.QualityCheck) error {
		return c.Pass(inspectorID)
	})
}

// Fail closes the check as failed with a reason
func (s *QualityService) Fail(ctx context.Context, checkID, inspectorID uuid.UUID, remarks string) (*quality.QualityCheck, error) {
	return s.transition(ctx, checkID, func(c *quality.QualityCheck) error {
		return c.Fail(inspectorID, remarks)
	})
}

// Get returns a quality check by ID
func (s *QualityService) Get(ctx context.Context, id uuid.UUID) (*quality.QualityCheck, error) {
	check, err := s.checkRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if check == nil {
		return nil, shared.ErrNotFound
	}
	return check, nil
}

// List returns quality checks matching the filter
func (s *QualityService) List(ctx context.Context, filter quality.CheckFilter) (*shared.Paginated[quality.QualityCheck], error) {
	checks, err := s.checkRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.checkRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	return shared.NewPaginated(checks, total, filter.Filter), nil
}

// Delete removes a draft check
func (s *QualityService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		check, err := repos.QualityChecks().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if check == nil {
			return shared.ErrNotFound
		}
		if !check.IsOpen() {
			return shared.NewDomainError("INVALID_STATUS", "Only draft checks can be deleted")
		}
		return repos.QualityChecks().Delete(ctx, id)
	})
}

func (s *QualityService) transition(
	ctx context.Context,
	id uuid.UUID,
	apply func(*quality.QualityCheck) error,
) (*quality.QualityCheck, error) {
	var check *quality.QualityCheck
	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		var err error
		check, err = repos.QualityChecks().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if check == nil {
			return shared.ErrNotFound
		}
		if err := apply(check); err != nil {
			return err
		}
		return repos.QualityChecks().SaveWithLock(ctx, check)
	})
	if err != nil {
		return nil, err
	}
	return check, nil
}

func requireReference(ctx context.Context, repos appinventory.TransactionalRepositories, refType string, refID uuid.UUID) error {
	switch refType {
	case quality.ReferenceTypeGoodsReceipt:
		receipt, err := repos.GoodsReceipts().FindByID(ctx, refID)
		if err != nil {
			return err
		}
		if receipt == nil {
			return shared.NewDomainError("RECEIPT_NOT_FOUND", "Referenced goods receipt does not exist")
		}
	case quality.ReferenceTypeRepairOrder:
		order, err := repos.RepairOrders().FindByID(ctx, refID)
		if err != nil {
			return err
		}
		if order == nil {
			return shared.NewDomainError("REPAIR_ORDER_NOT_FOUND", "Referenced repair order does not exist")
		}
	default:
		return shared.NewDomainError("INVALID_INPUT", "Unsupported quality check reference type")
	}
	return nil
}
