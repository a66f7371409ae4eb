package manufacturing

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	appinventory "github.com/velocore/backend/internal/application/inventory"
	"github.com/velocore/backend/internal/domain/inventory"
	"github.com/velocore/backend/internal/domain/manufacturing"
	"github.com/velocore/backend/internal/domain/shared"
)

// MaterialIssueService manages material issues. Posting writes one outbound
// stock movement per line at the current average cost and starts the linked
// production order on its first issue. Cancelling a posted issue returns the
// stock at the originally issued cost.
type MaterialIssueService struct {
	scope     appinventory.TransactionScope
	issueRepo manufacturing.MaterialIssueRepository
}

// NewMaterialIssueService creates a new MaterialIssueService
func NewMaterialIssueService(
	scope appinventory.TransactionScope,
	issueRepo manufacturing.MaterialIssueRepository,
) *MaterialIssueService {
	return &MaterialIssueService{scope: scope, issueRepo: issueRepo}
}

// Create allocates an issue number and saves a new draft material issue
func (s *MaterialIssueService) Create(ctx context.Context, cmd CreateIssueCommand) (*manufacturing.MaterialIssue, error) {
	if len(cmd.Lines) == 0 {
		return nil, shared.NewDomainError("EMPTY_DOCUMENT", "Issue must have at least one line")
	}
	if cmd.ProductionOrderID == nil && cmd.RepairOrderID == nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Issue must reference a production or repair order")
	}

	var issue *manufacturing.MaterialIssue
	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		number, err := appinventory.NextDocumentNumber(ctx, repos, manufacturing.IssueNumberPrefix)
		if err != nil {
			return err
		}

		issue, err = manufacturing.NewMaterialIssue(number, cmd.WarehouseID)
		if err != nil {
			return err
		}
		if cmd.ProductionOrderID != nil {
			issue.WithProductionOrder(*cmd.ProductionOrderID)
		}
		if cmd.RepairOrderID != nil {
			issue.WithRepairOrder(*cmd.RepairOrderID)
		}
		issue.Notes = cmd.Notes

		for _, line := range cmd.Lines {
			if err := issue.AddLine(line.ItemID, line.Quantity, line.BatchNumber, line.SerialNumber); err != nil {
				return err
			}
		}

		return repos.MaterialIssues().Save(ctx, issue)
	})
	if err != nil {
		return nil, err
	}
	return issue, nil
}

// CreateFromOrder explodes the production order's BOM for the given output
// quantity and saves the result as a draft issue.
func (s *MaterialIssueService) CreateFromOrder(ctx context.Context, cmd CreateIssueFromOrderCommand) (*manufacturing.MaterialIssue, error) {
	var issue *manufacturing.MaterialIssue
	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		order, err := repos.ProductionOrders().FindByID(ctx, cmd.ProductionOrderID)
		if err != nil {
			return err
		}
		if order == nil {
			return shared.ErrNotFound
		}
		if order.Status != manufacturing.ProductionStatusReleased && order.Status != manufacturing.ProductionStatusInProgress {
			return shared.NewDomainError("INVALID_STATUS", "Production order is not open for issuing")
		}

		bom, err := repos.BOMs().FindByID(ctx, order.BOMID)
		if err != nil {
			return err
		}
		if bom == nil {
			return shared.NewDomainError("BOM_NOT_FOUND", "Production order references a missing BOM")
		}

		requirements, err := bom.Explode(cmd.OutputQuantity)
		if err != nil {
			return err
		}

		number, err := appinventory.NextDocumentNumber(ctx, repos, manufacturing.IssueNumberPrefix)
		if err != nil {
			return err
		}

		issue, err = manufacturing.NewMaterialIssue(number, order.WarehouseID)
		if err != nil {
			return err
		}
		issue.WithProductionOrder(order.ID)
		issue.Notes = cmd.Notes

		for _, req := range requirements {
			if err := issue.AddLine(req.ComponentItemID, req.Quantity, "", ""); err != nil {
				return err
			}
		}

		return repos.MaterialIssues().Save(ctx, issue)
	})
	if err != nil {
		return nil, err
	}
	return issue, nil
}

// Post applies the issue to stock. The first posted issue against a released
// production order moves it to in progress.
func (s *MaterialIssueService) Post(ctx context.Context, id, postedBy uuid.UUID) (*manufacturing.MaterialIssue, error) {
	var issue *manufacturing.MaterialIssue
	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		var err error
		issue, err = repos.MaterialIssues().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if issue == nil {
			return shared.ErrNotFound
		}

		if err := issue.MarkPosted(postedBy); err != nil {
			return err
		}

		ref := &appinventory.MovementReference{
			Type:   string(inventory.TransactionTypeMaterialIssue),
			ID:     issue.ID,
			Number: issue.IssueNumber,
		}
		issuedValue := decimal.Zero
		for _, line := range issue.Lines {
			result, err := appinventory.ApplyDeductStock(ctx, repos, appinventory.DeductStockCommand{
				ItemID:          line.ItemID,
				WarehouseID:     issue.WarehouseID,
				Quantity:        line.Quantity,
				TransactionType: inventory.TransactionTypeMaterialIssue,
				Reference:       ref,
				BatchNumber:     line.BatchNumber,
				SerialNumber:    line.SerialNumber,
				OperatorID:      &postedBy,
			})
			if err != nil {
				return err
			}
			issuedValue = issuedValue.Add(result.Quantity.Neg().Mul(result.UnitCost))
		}

		if issue.ProductionOrderID != nil {
			order, err := repos.ProductionOrders().FindByIDForUpdate(ctx, *issue.ProductionOrderID)
			if err != nil {
				return err
			}
			if order == nil {
				return shared.NewDomainError("ORDER_NOT_FOUND", "Linked production order no longer exists")
			}
			if order.Status == manufacturing.ProductionStatusReleased {
				if err := order.Start(); err != nil {
					return err
				}
				if err := repos.ProductionOrders().SaveWithLock(ctx, order); err != nil {
					return err
				}
			} else if order.Status != manufacturing.ProductionStatusInProgress {
				return shared.NewDomainError("INVALID_STATUS", "Production order is not open for issuing")
			}
		}

		if issue.RepairOrderID != nil {
			order, err := repos.RepairOrders().FindByIDForUpdate(ctx, *issue.RepairOrderID)
			if err != nil {
				return err
			}
			if order == nil {
				return shared.NewDomainError("REPAIR_ORDER_NOT_FOUND", "Linked repair order no longer exists")
			}
			if err := order.AddPartsCost(issuedValue.Round(4)); err != nil {
				return err
			}
			if err := repos.RepairOrders().SaveWithLock(ctx, order); err != nil {
				return err
			}
		}

		return repos.MaterialIssues().SaveWithLock(ctx, issue)
	})
	if err != nil {
		return nil, err
	}
	return issue, nil
}

// Cancel backs out a posted issue. Stock returns at the cost it was issued at,
// taken from the original ledger entries.
func (s *MaterialIssueService) Cancel(ctx context.Context, id, cancelledBy uuid.UUID, reason string) (*manufacturing.MaterialIssue, error) {
	var issue *manufacturing.MaterialIssue
	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		var err error
		issue, err = repos.MaterialIssues().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if issue == nil {
			return shared.ErrNotFound
		}

		if err := issue.MarkCancelled(cancelledBy, reason); err != nil {
			return err
		}

		entries, err := repos.Ledger().FindByReference(ctx, string(inventory.TransactionTypeMaterialIssue), issue.ID)
		if err != nil {
			return err
		}

		ref := &appinventory.MovementReference{
			Type:   string(inventory.TransactionTypeMaterialIssue),
			ID:     issue.ID,
			Number: issue.IssueNumber,
		}
		for _, entry := range entries {
			if !entry.IsOutbound() {
				continue
			}
			_, err := appinventory.ApplyAddStock(ctx, repos, appinventory.AddStockCommand{
				ItemID:          entry.ItemID,
				WarehouseID:     entry.WarehouseID,
				Quantity:        entry.Quantity.Neg(),
				UnitCost:        entry.UnitCost,
				TransactionType: inventory.TransactionTypeMaterialIssue,
				Reference:       ref,
				BatchNumber:     entry.BatchNumber,
				SerialNumber:    entry.SerialNumber,
				Reason:          reason,
				OperatorID:      &cancelledBy,
			})
			if err != nil {
				return err
			}
		}

		return repos.MaterialIssues().SaveWithLock(ctx, issue)
	})
	if err != nil {
		return nil, err
	}
	return issue, nil
}

// Get returns a material issue by ID
func (s *MaterialIssueService) Get(ctx context.Context, id uuid.UUID) (*manufacturing.MaterialIssue, error) {
	issue, err := s.issueRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if issue == nil {
		return nil, shared.ErrNotFound
	}
	return issue, nil
}

// List returns material issues matching the filter
func (s *MaterialIssueService) List(ctx context.Context, filter manufacturing.IssueFilter) (*shared.Paginated[manufacturing.MaterialIssue], error) {
	issues, err := s.issueRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.issueRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	return shared.NewPaginated(issues, total, filter.Filter), nil
}

// Delete removes a draft issue
func (s *MaterialIssueService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		issue, err := repos.MaterialIssues().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if issue == nil {
			return shared.ErrNotFound
		}
		if !issue.IsDeletable() {
			return shared.NewDomainError("INVALID_STATUS", "Only draft issues can be deleted")
		}
		return repos.MaterialIssues().Delete(ctx, id)
	})
}
