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

// ProductionReceiptService manages production receipts. Posting receives the
// finished item into stock at the rolled-up component cost of the order's
// issued materials and records output progress on the order.
type ProductionReceiptService struct {
	scope       appinventory.TransactionScope
	receiptRepo manufacturing.ProductionReceiptRepository
}

// NewProductionReceiptService creates a new ProductionReceiptService
func NewProductionReceiptService(
	scope appinventory.TransactionScope,
	receiptRepo manufacturing.ProductionReceiptRepository,
) *ProductionReceiptService {
	return &ProductionReceiptService{scope: scope, receiptRepo: receiptRepo}
}

// Create allocates a receipt number and saves a new draft production receipt
func (s *ProductionReceiptService) Create(ctx context.Context, cmd CreateProductionReceiptCommand) (*manufacturing.ProductionReceipt, error) {
	var receipt *manufacturing.ProductionReceipt
	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		order, err := repos.ProductionOrders().FindByID(ctx, cmd.ProductionOrderID)
		if err != nil {
			return err
		}
		if order == nil {
			return shared.ErrNotFound
		}
		if order.Status != manufacturing.ProductionStatusInProgress {
			return shared.NewDomainError("INVALID_STATUS", "Production order is not in progress")
		}
		if cmd.Quantity.GreaterThan(order.RemainingQuantity()) {
			return shared.NewDomainError("OVER_PRODUCTION", "Output exceeds planned quantity")
		}

		number, err := appinventory.NextDocumentNumber(ctx, repos, manufacturing.ProductionReceiptNumberPrefix)
		if err != nil {
			return err
		}

		receipt, err = manufacturing.NewProductionReceipt(number, order.ID, order.WarehouseID, order.FinishedItemID, cmd.Quantity)
		if err != nil {
			return err
		}
		receipt.WithBatch(cmd.BatchNumber).WithSerial(cmd.SerialNumber)
		receipt.Notes = cmd.Notes

		return repos.ProductionReceipts().Save(ctx, receipt)
	})
	if err != nil {
		return nil, err
	}
	return receipt, nil
}

// Post receives the finished item into stock and records output on the order.
// The unit cost is the issued component cost of the order divided by its
// planned quantity unless a cost was set on the draft.
func (s *ProductionReceiptService) Post(ctx context.Context, id, postedBy uuid.UUID) (*manufacturing.ProductionReceipt, error) {
	var receipt *manufacturing.ProductionReceipt
	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		var err error
		receipt, err = repos.ProductionReceipts().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if receipt == nil {
			return shared.ErrNotFound
		}

		order, err := repos.ProductionOrders().FindByIDForUpdate(ctx, receipt.ProductionOrderID)
		if err != nil {
			return err
		}
		if order == nil {
			return shared.NewDomainError("ORDER_NOT_FOUND", "Linked production order no longer exists")
		}

		if receipt.UnitCost.IsZero() {
			unitCost, err := rolledUpUnitCost(ctx, repos, order)
			if err != nil {
				return err
			}
			if err := receipt.SetUnitCost(unitCost); err != nil {
				return err
			}
		}

		if err := receipt.MarkPosted(postedBy); err != nil {
			return err
		}

		_, err = appinventory.ApplyAddStock(ctx, repos, appinventory.AddStockCommand{
			ItemID:          receipt.ItemID,
			WarehouseID:     receipt.WarehouseID,
			Quantity:        receipt.Quantity,
			UnitCost:        receipt.UnitCost,
			TransactionType: inventory.TransactionTypeProductionReceipt,
			Reference: &appinventory.MovementReference{
				Type:   string(inventory.TransactionTypeProductionReceipt),
				ID:     receipt.ID,
				Number: receipt.ReceiptNumber,
			},
			BatchNumber:  receipt.BatchNumber,
			SerialNumber: receipt.SerialNumber,
			OperatorID:   &postedBy,
		})
		if err != nil {
			return err
		}

		if err := order.RecordOutput(receipt.Quantity); err != nil {
			return err
		}
		if err := repos.ProductionOrders().SaveWithLock(ctx, order); err != nil {
			return err
		}

		return repos.ProductionReceipts().SaveWithLock(ctx, receipt)
	})
	if err != nil {
		return nil, err
	}
	return receipt, nil
}

// Cancel backs out a posted receipt with a compensating outbound movement and
// reverts the output progress on the order.
func (s *ProductionReceiptService) Cancel(ctx context.Context, id, cancelledBy uuid.UUID, reason string) (*manufacturing.ProductionReceipt, error) {
	var receipt *manufacturing.ProductionReceipt
	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		var err error
		receipt, err = repos.ProductionReceipts().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if receipt == nil {
			return shared.ErrNotFound
		}

		if err := receipt.MarkCancelled(cancelledBy, reason); err != nil {
			return err
		}

		_, err = appinventory.ApplyDeductStock(ctx, repos, appinventory.DeductStockCommand{
			ItemID:          receipt.ItemID,
			WarehouseID:     receipt.WarehouseID,
			Quantity:        receipt.Quantity,
			TransactionType: inventory.TransactionTypeProductionReceipt,
			Reference: &appinventory.MovementReference{
				Type:   string(inventory.TransactionTypeProductionReceipt),
				ID:     receipt.ID,
				Number: receipt.ReceiptNumber,
			},
			BatchNumber:  receipt.BatchNumber,
			SerialNumber: receipt.SerialNumber,
			Reason:       reason,
			OperatorID:   &cancelledBy,
		})
		if err != nil {
			return err
		}

		order, err := repos.ProductionOrders().FindByIDForUpdate(ctx, receipt.ProductionOrderID)
		if err != nil {
			return err
		}
		if order == nil {
			return shared.NewDomainError("ORDER_NOT_FOUND", "Linked production order no longer exists")
		}
		if err := order.RevertOutput(receipt.Quantity); err != nil {
			return err
		}
		if err := repos.ProductionOrders().SaveWithLock(ctx, order); err != nil {
			return err
		}

		return repos.ProductionReceipts().SaveWithLock(ctx, receipt)
	})
	if err != nil {
		return nil, err
	}
	return receipt, nil
}

// Get returns a production receipt by ID
func (s *ProductionReceiptService) Get(ctx context.Context, id uuid.UUID) (*manufacturing.ProductionReceipt, error) {
	receipt, err := s.receiptRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if receipt == nil {
		return nil, shared.ErrNotFound
	}
	return receipt, nil
}

// List returns production receipts matching the filter
func (s *ProductionReceiptService) List(ctx context.Context, filter manufacturing.ProductionReceiptFilter) (*shared.Paginated[manufacturing.ProductionReceipt], error) {
	receipts, err := s.receiptRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.receiptRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	return shared.NewPaginated(receipts, total, filter.Filter), nil
}

// Delete removes a draft receipt
func (s *ProductionReceiptService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		receipt, err := repos.ProductionReceipts().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if receipt == nil {
			return shared.ErrNotFound
		}
		if !receipt.IsDeletable() {
			return shared.NewDomainError("INVALID_STATUS", "Only draft receipts can be deleted")
		}
		return repos.ProductionReceipts().Delete(ctx, id)
	})
}

// rolledUpUnitCost sums the net issued component cost of the order's material
// issues and spreads it over the planned quantity. Compensating entries from
// cancelled issues net out through the signed total cost.
func rolledUpUnitCost(ctx context.Context, repos appinventory.TransactionalRepositories, order *manufacturing.ProductionOrder) (decimal.Decimal, error) {
	issues, err := repos.MaterialIssues().FindByProductionOrder(ctx, order.ID)
	if err != nil {
		return decimal.Zero, err
	}

	issuedCost := decimal.Zero
	for _, issue := range issues {
		entries, err := repos.Ledger().FindByReference(ctx, string(inventory.TransactionTypeMaterialIssue), issue.ID)
		if err != nil {
			return decimal.Zero, err
		}
		for _, entry := range entries {
			issuedCost = issuedCost.Sub(entry.TotalCost)
		}
	}

	if issuedCost.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, shared.NewDomainError("NO_ISSUED_COST", "No issued component cost to roll up; set the unit cost explicitly")
	}

	return issuedCost.Div(order.PlannedQuantity).Round(4), nil
}
