package procurement

import (
	"context"

	"github.com/google/uuid"

	appinventory "github.com/velocore/backend/internal/application/inventory"
	"github.com/velocore/backend/internal/domain/catalog"
	"github.com/velocore/backend/internal/domain/procurement"
	"github.com/velocore/backend/internal/domain/shared"
)

// RequisitionService manages the purchase requisition lifecycle from draft to
// conversion into a purchase order.
type RequisitionService struct {
	scope           appinventory.TransactionScope
	requisitionRepo procurement.PurchaseRequisitionRepository
}

// NewRequisitionService creates a new RequisitionService
func NewRequisitionService(
	scope appinventory.TransactionScope,
	requisitionRepo procurement.PurchaseRequisitionRepository,
) *RequisitionService {
	return &RequisitionService{scope: scope, requisitionRepo: requisitionRepo}
}

// Create allocates a requisition number and saves a new draft requisition
func (s *RequisitionService) Create(ctx context.Context, cmd CreateRequisitionCommand) (*procurement.PurchaseRequisition, error) {
	if len(cmd.Lines) == 0 {
		return nil, shared.NewDomainError("EMPTY_DOCUMENT", "Requisition must have at least one line")
	}

	var requisition *procurement.PurchaseRequisition
	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		itemIDs := make([]uuid.UUID, 0, len(cmd.Lines))
		for _, line := range cmd.Lines {
			itemIDs = append(itemIDs, line.ItemID)
		}
		if err := requireActiveItems(ctx, repos.Items(), itemIDs); err != nil {
			return err
		}

		number, err := appinventory.NextDocumentNumber(ctx, repos, procurement.RequisitionNumberPrefix)
		if err != nil {
			return err
		}

		requisition, err = procurement.NewPurchaseRequisition(number, cmd.RequestedBy)
		if err != nil {
			return err
		}
		requisition.RequiredDate = cmd.RequiredDate
		requisition.Notes = cmd.Notes

		for _, line := range cmd.Lines {
			if err := requisition.AddItem(line.ItemID, line.Quantity, line.EstimatedCost, line.Notes); err != nil {
				return err
			}
		}

		return repos.Requisitions().Save(ctx, requisition)
	})
	if err != nil {
		return nil, err
	}
	return requisition, nil
}

// Submit moves a draft requisition into the approval queue
func (s *RequisitionService) Submit(ctx context.Context, id uuid.UUID) (*procurement.PurchaseRequisition, error) {
	return s.transition(ctx, id, func(r *procurement.PurchaseRequisition) error {
		return r.Submit()
	})
}

// Approve accepts a submitted requisition
func (s *RequisitionService) Approve(ctx context.Context, id, approvedBy uuid.UUID) (*procurement.PurchaseRequisition, error) {
	return s.transition(ctx, id, func(r *procurement.PurchaseRequisition) error {
		return r.Approve(approvedBy)
	})
}

// Reject declines a submitted requisition with a reason
func (s *RequisitionService) Reject(ctx context.Context, id uuid.UUID, reason string) (*procurement.PurchaseRequisition, error) {
	return s.transition(ctx, id, func(r *procurement.PurchaseRequisition) error {
		return r.Reject(reason)
	})
}

// Convert creates a draft purchase order from an approved requisition and
// marks the requisition converted, both in one transaction.
func (s *RequisitionService) Convert(ctx context.Context, cmd ConvertRequisitionCommand) (*procurement.PurchaseOrder, error) {
	var order *procurement.PurchaseOrder
	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		requisition, err := repos.Requisitions().FindByID(ctx, cmd.RequisitionID)
		if err != nil {
			return err
		}
		if requisition == nil {
			return shared.ErrNotFound
		}

		number, err := appinventory.NextDocumentNumber(ctx, repos, procurement.OrderNumberPrefix)
		if err != nil {
			return err
		}

		order, err = procurement.NewPurchaseOrder(number, cmd.SupplierName, cmd.WarehouseID)
		if err != nil {
			return err
		}
		order.SupplierContact = cmd.SupplierContact
		order.RequisitionID = &requisition.ID
		order.ExpectedDate = cmd.ExpectedDate

		for _, item := range requisition.Items {
			price := item.EstimatedCost
			if override, ok := cmd.UnitPrices[item.ItemID]; ok {
				price = override
			}
			if err := order.AddItem(item.ItemID, item.Quantity, price); err != nil {
				return err
			}
		}

		if err := requisition.MarkConverted(order.ID); err != nil {
			return err
		}

		if err := repos.PurchaseOrders().Save(ctx, order); err != nil {
			return err
		}
		return repos.Requisitions().SaveWithLock(ctx, requisition)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// Get returns a requisition by ID
func (s *RequisitionService) Get(ctx context.Context, id uuid.UUID) (*procurement.PurchaseRequisition, error) {
	requisition, err := s.requisitionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if requisition == nil {
		return nil, shared.ErrNotFound
	}
	return requisition, nil
}

// List returns requisitions matching the filter
func (s *RequisitionService) List(ctx context.Context, filter procurement.RequisitionFilter) (*shared.Paginated[procurement.PurchaseRequisition], error) {
	requisitions, err := s.requisitionRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.requisitionRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	return shared.NewPaginated(requisitions, total, filter.Filter), nil
}

// Delete removes a draft requisition
func (s *RequisitionService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		requisition, err := repos.Requisitions().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if requisition == nil {
			return shared.ErrNotFound
		}
		if requisition.Status != procurement.RequisitionStatusDraft {
			return shared.NewDomainError("INVALID_STATUS", "Only draft requisitions can be deleted")
		}
		return repos.Requisitions().Delete(ctx, id)
	})
}

func (s *RequisitionService) transition(
	ctx context.Context,
	id uuid.UUID,
	apply func(*procurement.PurchaseRequisition) error,
) (*procurement.PurchaseRequisition, error) {
	var requisition *procurement.PurchaseRequisition
	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		var err error
		requisition, err = repos.Requisitions().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if requisition == nil {
			return shared.ErrNotFound
		}
		if err := apply(requisition); err != nil {
			return err
		}
		return repos.Requisitions().SaveWithLock(ctx, requisition)
	})
	if err != nil {
		return nil, err
	}
	return requisition, nil
}

// requireActiveItems verifies that every referenced item exists and is active
func requireActiveItems(ctx context.Context, items catalog.ItemRepository, ids []uuid.UUID) error {
	found, err := items.FindByIDs(ctx, ids)
	if err != nil {
		return err
	}
	byID := make(map[uuid.UUID]*catalog.Item, len(found))
	for i := range found {
		byID[found[i].ID] = &found[i]
	}
	for _, id := range ids {
		item, ok := byID[id]
		if !ok {
			return shared.NewDomainError("ITEM_NOT_FOUND", "Referenced item does not exist")
		}
		if !item.IsActive {
			return shared.NewDomainError("ITEM_INACTIVE", "Inactive items cannot appear on new documents")
		}
	}
	return nil
}
