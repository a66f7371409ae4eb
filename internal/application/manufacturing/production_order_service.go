package manufacturing

import (
	"context"

	"github.com/google/uuid"

	appinventory "github.com/velocore/backend/internal/application/inventory"
	"github.com/velocore/backend/internal/domain/manufacturing"
	"github.com/velocore/backend/internal/domain/shared"
)

// ProductionOrderService manages the production order lifecycle. An order is
// always created against the active BOM revision of its finished item; output
// progress is driven by the production receipt posting flow.
type ProductionOrderService struct {
	scope     appinventory.TransactionScope
	orderRepo manufacturing.ProductionOrderRepository
}

// NewProductionOrderService creates a new ProductionOrderService
func NewProductionOrderService(
	scope appinventory.TransactionScope,
	orderRepo manufacturing.ProductionOrderRepository,
) *ProductionOrderService {
	return &ProductionOrderService{scope: scope, orderRepo: orderRepo}
}

// Create allocates an order number and saves a new draft production order
// bound to the active BOM revision of the finished item.
func (s *ProductionOrderService) Create(ctx context.Context, cmd CreateProductionOrderCommand) (*manufacturing.ProductionOrder, error) {
	var order *manufacturing.ProductionOrder
	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		bom, err := repos.BOMs().FindActiveByFinishedItem(ctx, cmd.FinishedItemID)
		if err != nil {
			return err
		}
		if bom == nil {
			return shared.NewDomainError("BOM_NOT_FOUND", "Finished item has no active BOM revision")
		}

		number, err := appinventory.NextDocumentNumber(ctx, repos, manufacturing.ProductionOrderNumberPrefix)
		if err != nil {
			return err
		}

		order, err = manufacturing.NewProductionOrder(number, cmd.FinishedItemID, bom.ID, cmd.WarehouseID, cmd.PlannedQuantity)
		if err != nil {
			return err
		}
		order.PlannedDate = cmd.PlannedDate
		order.Notes = cmd.Notes

		return repos.ProductionOrders().Save(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// Release hands a draft order to the shop floor
func (s *ProductionOrderService) Release(ctx context.Context, id uuid.UUID) (*manufacturing.ProductionOrder, error) {
	return s.transition(ctx, id, func(o *manufacturing.ProductionOrder) error {
		return o.Release()
	})
}

// Start marks a released order as in progress
func (s *ProductionOrderService) Start(ctx context.Context, id uuid.UUID) (*manufacturing.ProductionOrder, error) {
	return s.transition(ctx, id, func(o *manufacturing.ProductionOrder) error {
		return o.Start()
	})
}

// Cancel aborts an order that has not been completed
func (s *ProductionOrderService) Cancel(ctx context.Context, id uuid.UUID, reason string) (*manufacturing.ProductionOrder, error) {
	return s.transition(ctx, id, func(o *manufacturing.ProductionOrder) error {
		return o.Cancel(reason)
	})
}

// Get returns a production order by ID
func (s *ProductionOrderService) Get(ctx context.Context, id uuid.UUID) (*manufacturing.ProductionOrder, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, shared.ErrNotFound
	}
	return order, nil
}

// List returns production orders matching the filter
func (s *ProductionOrderService) List(ctx context.Context, filter manufacturing.ProductionOrderFilter) (*shared.Paginated[manufacturing.ProductionOrder], error) {
	orders, err := s.orderRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.orderRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	return shared.NewPaginated(orders, total, filter.Filter), nil
}

// Delete removes a draft production order
func (s *ProductionOrderService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		order, err := repos.ProductionOrders().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if order == nil {
			return shared.ErrNotFound
		}
		if order.Status != manufacturing.ProductionStatusDraft {
			return shared.NewDomainError("INVALID_STATUS", "Only draft orders can be deleted")
		}
		return repos.ProductionOrders().Delete(ctx, id)
	})
}

func (s *ProductionOrderService) transition(
	ctx context.Context,
	id uuid.UUID,
	apply func(*manufacturing.ProductionOrder) error,
) (*manufacturing.ProductionOrder, error) {
	var order *manufacturing.ProductionOrder
	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		var err error
		order, err = repos.ProductionOrders().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if order == nil {
			return shared.ErrNotFound
		}
		if err := apply(order); err != nil {
			return err
		}
		return repos.ProductionOrders().SaveWithLock(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}
