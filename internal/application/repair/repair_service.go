package repair

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	appinventory "github.com/velocore/backend/internal/application/inventory"
	"github.com/velocore/backend/internal/domain/rental"
	"github.com/velocore/backend/internal/domain/repair"
	"github.com/velocore/backend/internal/domain/shared"
)

// RequestRepairCommand is the input for raising a repair request
type RequestRepairCommand struct {
	AssetID     uuid.UUID
	RequestedBy uuid.UUID
	Description string
}

// RepairService manages repair orders. Starting a repair moves the asset into
// the workshop; completion returns it to the available pool. Spare parts are
// consumed through material issue postings that reference the repair order.
type RepairService struct {
	scope     appinventory.TransactionScope
	orderRepo repair.RepairOrderRepository
}

// NewRepairService creates a new RepairService
func NewRepairService(
	scope appinventory.TransactionScope,
	orderRepo repair.RepairOrderRepository,
) *RepairService {
	return &RepairService{scope: scope, orderRepo: orderRepo}
}

// Request raises a repair request against an asset. Retired and lost assets
// cannot be repaired.
func (s *RepairService) Request(ctx context.Context, cmd RequestRepairCommand) (*repair.RepairOrder, error) {
	var order *repair.RepairOrder
	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		asset, err := repos.Assets().FindByID(ctx, cmd.AssetID)
		if err != nil {
			return err
		}
		if asset == nil {
			return shared.NewDomainError("ASSET_NOT_FOUND", "Referenced asset does not exist")
		}
		if result := rental.CanRequestRepair(asset); !result.Allowed {
			return shared.NewDomainError("INVALID_STATE", result.Reason)
		}

		number, err := appinventory.NextDocumentNumber(ctx, repos, repair.RepairOrderNumberPrefix)
		if err != nil {
			return err
		}

		order, err = repair.NewRepairOrder(number, cmd.AssetID, cmd.RequestedBy, cmd.Description)
		if err != nil {
			return err
		}

		return repos.RepairOrders().Save(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// Queue moves a request to the workshop queue with an optional diagnosis
func (s *RepairService) Queue(ctx context.Context, orderID uuid.UUID, diagnosis string) (*repair.RepairOrder, error) {
	return s.transition(ctx, orderID, func(o *repair.RepairOrder) error {
		return o.MarkPending(diagnosis)
	})
}

// Start assigns a technician, begins the repair and moves the asset into the
// workshop in one transaction.
func (s *RepairService) Start(ctx context.Context, orderID, technicianID uuid.UUID) (*repair.RepairOrder, error) {
	var order *repair.RepairOrder
	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		var err error
		order, err = repos.RepairOrders().FindByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return shared.ErrNotFound
		}

		asset, err := repos.Assets().FindByIDForUpdate(ctx, order.AssetID)
		if err != nil {
			return err
		}
		if asset == nil {
			return shared.NewDomainError("ASSET_NOT_FOUND", "Repair references a missing asset")
		}

		if err := order.Start(technicianID); err != nil {
			return err
		}
		if err := asset.MarkUnderRepair(); err != nil {
			return err
		}

		if err := repos.Assets().SaveWithLock(ctx, asset); err != nil {
			return err
		}
		return repos.RepairOrders().SaveWithLock(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// AddPartsCost accumulates consumed spare part cost on an in-progress repair.
// Material issue posting calls this with the issued value.
func (s *RepairService) AddPartsCost(ctx context.Context, orderID uuid.UUID, cost decimal.Decimal) (*repair.RepairOrder, error) {
	return s.transition(ctx, orderID, func(o *repair.RepairOrder) error {
		return o.AddPartsCost(cost)
	})
}

// Complete finishes the repair with its labor cost and returns the asset to
// the available pool in one transaction.
func (s *RepairService) Complete(ctx context.Context, orderID uuid.UUID, laborCost decimal.Decimal) (*repair.RepairOrder, error) {
	var order *repair.RepairOrder
	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		var err error
		order, err = repos.RepairOrders().FindByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return shared.ErrNotFound
		}

		asset, err := repos.Assets().FindByIDForUpdate(ctx, order.AssetID)
		if err != nil {
			return err
		}
		if asset == nil {
			return shared.NewDomainError("ASSET_NOT_FOUND", "Repair references a missing asset")
		}

		if err := order.Complete(laborCost); err != nil {
			return err
		}
		if err := asset.MarkRepaired(); err != nil {
			return err
		}

		if err := repos.Assets().SaveWithLock(ctx, asset); err != nil {
			return err
		}
		return repos.RepairOrders().SaveWithLock(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// Cancel aborts a repair that has not completed. An asset already in the
// workshop returns to the available pool.
func (s *RepairService) Cancel(ctx context.Context, orderID uuid.UUID, reason string) (*repair.RepairOrder, error) {
	var order *repair.RepairOrder
	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		var err error
		order, err = repos.RepairOrders().FindByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return shared.ErrNotFound
		}

		wasInProgress := order.Status == repair.RepairStatusInProgress

		if err := order.Cancel(reason); err != nil {
			return err
		}

		if wasInProgress {
			asset, err := repos.Assets().FindByIDForUpdate(ctx, order.AssetID)
			if err != nil {
				return err
			}
			if asset == nil {
				return shared.NewDomainError("ASSET_NOT_FOUND", "Repair references a missing asset")
			}
			if err := asset.MarkRepaired(); err != nil {
				return err
			}
			if err := repos.Assets().SaveWithLock(ctx, asset); err != nil {
				return err
			}
		}

		return repos.RepairOrders().SaveWithLock(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// Get returns a repair order by ID
func (s *RepairService) Get(ctx context.Context, id uuid.UUID) (*repair.RepairOrder, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, shared.ErrNotFound
	}
	return order, nil
}

// List returns repair orders matching the filter
func (s *RepairService) List(ctx context.Context, filter repair.OrderFilter) (*shared.Paginated[repair.RepairOrder], error) {
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

func (s *RepairService) transition(
	ctx context.Context,
	id uuid.UUID,
	apply func(*repair.RepairOrder) error,
) (*repair.RepairOrder, error) {
	var order *repair.RepairOrder
	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		var err error
		order, err = repos.RepairOrders().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if order == nil {
			return shared.ErrNotFound
		}
		if err := apply(order); err != nil {
			return err
		}
		return repos.RepairOrders().SaveWithLock(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}
