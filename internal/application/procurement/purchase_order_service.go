package procurement

import (
	"context"

	"github.com/google/uuid"

	appinventory "github.com/velocore/backend/internal/application/inventory"
	"github.com/velocore/backend/internal/domain/procurement"
	"github.com/velocore/backend/internal/domain/shared"
)

// PurchaseOrderService manages the purchase order lifecycle. Receipt progress
// on the order is driven by the goods receipt posting flow, not directly here.
type PurchaseOrderService struct {
	scope     appinventory.TransactionScope
	orderRepo procurement.PurchaseOrderRepository
}

// NewPurchaseOrderService creates a new PurchaseOrderService
func NewPurchaseOrderService(
	scope appinventory.TransactionScope,
	orderRepo procurement.PurchaseOrderRepository,
) *PurchaseOrderService {
	return &PurchaseOrderService{scope: scope, orderRepo: orderRepo}
}

// Create allocates an order number and saves a new draft purchase order
func (s *PurchaseOrderService) Create(ctx context.Context, cmd CreateOrderCommand) (*procurement.PurchaseOrder, error) {
	if len(cmd.Lines) == 0 {
		return nil, shared.NewDomainError("EMPTY_DOCUMENT", "Order must have at least one line")
	}

	var order *procurement.PurchaseOrder
	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		itemIDs := make([]uuid.UUID, 0, len(cmd.Lines))
		for _, line := range cmd.Lines {
			itemIDs = append(itemIDs, line.ItemID)
		}
		if err := requireActiveItems(ctx, repos.Items(), itemIDs); err != nil {
			return err
		}

		warehouse, err := repos.Warehouses().FindByID(ctx, cmd.WarehouseID)
		if err != nil {
			return err
		}
		if warehouse == nil {
			return shared.NewDomainError("WAREHOUSE_NOT_FOUND", "Referenced warehouse does not exist")
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
		order.RequisitionID = cmd.RequisitionID
		order.ExpectedDate = cmd.ExpectedDate
		order.Notes = cmd.Notes

		for _, line := range cmd.Lines {
			if err := order.AddItem(line.ItemID, line.Quantity, line.UnitPrice); err != nil {
				return err
			}
		}

		return repos.PurchaseOrders().Save(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// Approve confirms a draft order with the supplier
func (s *PurchaseOrderService) Approve(ctx context.Context, id, approvedBy uuid.UUID) (*procurement.PurchaseOrder, error) {
	return s.transition(ctx, id, func(o *procurement.PurchaseOrder) error {
		return o.Approve(approvedBy)
	})
}

// Cancel aborts an order that has not been completed
func (s *PurchaseOrderService) Cancel(ctx context.Context, id uuid.UUID, reason string) (*procurement.PurchaseOrder, error) {
	return s.transition(ctx, id, func(o *procurement.PurchaseOrder) error {
		return o.Cancel(reason)
	})
}

// Get returns a purchase order by ID
func (s *PurchaseOrderService) Get(ctx context.Context, id uuid.UUID) (*procurement.PurchaseOrder, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, shared.ErrNotFound
	}
	return order, nil
}

// List returns purchase orders matching the filter
func (s *PurchaseOrderService) List(ctx context.Context, filter procurement.OrderFilter) (*shared.Paginated[procurement.PurchaseOrder], error) {
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

// Delete removes a draft order
func (s *PurchaseOrderService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		order, err := repos.PurchaseOrders().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if order == nil {
			return shared.ErrNotFound
		}
		if order.Status != procurement.OrderStatusDraft {
			return shared.NewDomainError("INVALID_STATUS", "Only draft orders can be deleted")
		}
		return repos.PurchaseOrders().Delete(ctx, id)
	})
}

func (s *PurchaseOrderService) transition(
	ctx context.Context,
	id uuid.UUID,
	apply func(*procurement.PurchaseOrder) error,
) (*procurement.PurchaseOrder, error) {
	var order *procurement.PurchaseOrder
	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		var err error
		order, err = repos.PurchaseOrders().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if order == nil {
			return shared.ErrNotFound
		}
		if err := apply(order); err != nil {
			return err
		}
		return repos.PurchaseOrders().SaveWithLock(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}
