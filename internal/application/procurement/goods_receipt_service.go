package procurement

import (
	"context"

	"github.com/google/uuid"

	appinventory "github.com/velocore/backend/internal/application/inventory"
	"github.com/velocore/backend/internal/domain/inventory"
	"github.com/velocore/backend/internal/domain/procurement"
	"github.com/velocore/backend/internal/domain/quality"
	"github.com/velocore/backend/internal/domain/shared"
)

// GoodsReceiptService manages goods receipts. Posting applies one inbound
// stock movement per line, updates receipt progress on the linked purchase
// order and stamps the receipt, all in one transaction. Cancelling a posted
// receipt writes compensating outbound movements instead of deleting entries.
type GoodsReceiptService struct {
	scope       appinventory.TransactionScope
	receiptRepo procurement.GoodsReceiptRepository
}

// NewGoodsReceiptService creates a new GoodsReceiptService
func NewGoodsReceiptService(
	scope appinventory.TransactionScope,
	receiptRepo procurement.GoodsReceiptRepository,
) *GoodsReceiptService {
	return &GoodsReceiptService{scope: scope, receiptRepo: receiptRepo}
}

// Create allocates a receipt number and saves a new draft goods receipt
func (s *GoodsReceiptService) Create(ctx context.Context, cmd CreateReceiptCommand) (*procurement.GoodsReceipt, error) {
	if len(cmd.Lines) == 0 {
		return nil, shared.NewDomainError("EMPTY_DOCUMENT", "Receipt must have at least one line")
	}

	var receipt *procurement.GoodsReceipt
	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		itemIDs := make([]uuid.UUID, 0, len(cmd.Lines))
		for _, line := range cmd.Lines {
			itemIDs = append(itemIDs, line.ItemID)
		}
		if err := requireActiveItems(ctx, repos.Items(), itemIDs); err != nil {
			return err
		}

		if cmd.PurchaseOrderID != nil {
			order, err := repos.PurchaseOrders().FindByID(ctx, *cmd.PurchaseOrderID)
			if err != nil {
				return err
			}
			if order == nil {
				return shared.NewDomainError("ORDER_NOT_FOUND", "Referenced purchase order does not exist")
			}
			if order.Status != procurement.OrderStatusApproved && order.Status != procurement.OrderStatusPartiallyReceived {
				return shared.NewDomainError("INVALID_STATUS", "Purchase order is not open for receiving")
			}
		}

		number, err := appinventory.NextDocumentNumber(ctx, repos, procurement.ReceiptNumberPrefix)
		if err != nil {
			return err
		}

		receipt, err = procurement.NewGoodsReceipt(number, cmd.WarehouseID)
		if err != nil {
			return err
		}
		if cmd.PurchaseOrderID != nil {
			receipt.WithPurchaseOrder(*cmd.PurchaseOrderID)
		}
		receipt.Notes = cmd.Notes

		for _, line := range cmd.Lines {
			if err := receipt.AddLine(line.ItemID, line.Quantity, line.UnitCost, line.BatchNumber, line.SerialNumber, line.ExpiryDate); err != nil {
				return err
			}
		}

		return repos.GoodsReceipts().Save(ctx, receipt)
	})
	if err != nil {
		return nil, err
	}
	return receipt, nil
}

// Post applies the receipt to stock. A quality check recorded against the
// receipt must have passed; an open or failed check blocks posting.
func (s *GoodsReceiptService) Post(ctx context.Context, id, postedBy uuid.UUID) (*procurement.GoodsReceipt, error) {
	var receipt *procurement.GoodsReceipt
	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		var err error
		receipt, err = repos.GoodsReceipts().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if receipt == nil {
			return shared.ErrNotFound
		}

		check, err := repos.QualityChecks().FindLatestByReference(ctx, quality.ReferenceTypeGoodsReceipt, receipt.ID)
		if err != nil {
			return err
		}
		if check != nil && check.Status != quality.CheckStatusPassed {
			return shared.NewDomainError("QUALITY_HOLD", "Receipt cannot be posted until its quality check passes")
		}

		if err := validateTrackingFlags(ctx, repos, receipt.Lines); err != nil {
			return err
		}

		if err := receipt.MarkPosted(postedBy); err != nil {
			return err
		}

		ref := &appinventory.MovementReference{
			Type:   string(inventory.TransactionTypeGoodsReceipt),
			ID:     receipt.ID,
			Number: receipt.ReceiptNumber,
		}
		for _, line := range receipt.Lines {
			_, err := appinventory.ApplyAddStock(ctx, repos, appinventory.AddStockCommand{
				ItemID:          line.ItemID,
				WarehouseID:     receipt.WarehouseID,
				Quantity:        line.Quantity,
				UnitCost:        line.UnitCost,
				TransactionType: inventory.TransactionTypeGoodsReceipt,
				Reference:       ref,
				BatchNumber:     line.BatchNumber,
				SerialNumber:    line.SerialNumber,
				ExpiryDate:      line.ExpiryDate,
				OperatorID:      &postedBy,
			})
			if err != nil {
				return err
			}
		}

		if receipt.PurchaseOrderID != nil {
			order, err := repos.PurchaseOrders().FindByIDForUpdate(ctx, *receipt.PurchaseOrderID)
			if err != nil {
				return err
			}
			if order == nil {
				return shared.NewDomainError("ORDER_NOT_FOUND", "Linked purchase order no longer exists")
			}
			for _, line := range receipt.Lines {
				if err := order.RecordReceipt(line.ItemID, line.Quantity); err != nil {
					return err
				}
			}
			if err := repos.PurchaseOrders().SaveWithLock(ctx, order); err != nil {
				return err
			}
		}

		return repos.GoodsReceipts().SaveWithLock(ctx, receipt)
	})
	if err != nil {
		return nil, err
	}
	return receipt, nil
}

// Cancel backs out a posted receipt with compensating outbound movements and
// reopens receipt progress on the linked purchase order.
func (s *GoodsReceiptService) Cancel(ctx context.Context, id, cancelledBy uuid.UUID, reason string) (*procurement.GoodsReceipt, error) {
	var receipt *procurement.GoodsReceipt
	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		var err error
		receipt, err = repos.GoodsReceipts().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if receipt == nil {
			return shared.ErrNotFound
		}

		if err := receipt.MarkCancelled(cancelledBy, reason); err != nil {
			return err
		}

		ref := &appinventory.MovementReference{
			Type:   string(inventory.TransactionTypeGoodsReceipt),
			ID:     receipt.ID,
			Number: receipt.ReceiptNumber,
		}
		for _, line := range receipt.Lines {
			_, err := appinventory.ApplyDeductStock(ctx, repos, appinventory.DeductStockCommand{
				ItemID:          line.ItemID,
				WarehouseID:     receipt.WarehouseID,
				Quantity:        line.Quantity,
				TransactionType: inventory.TransactionTypeGoodsReceipt,
				Reference:       ref,
				BatchNumber:     line.BatchNumber,
				SerialNumber:    line.SerialNumber,
				Reason:          reason,
				OperatorID:      &cancelledBy,
			})
			if err != nil {
				return err
			}
		}

		if receipt.PurchaseOrderID != nil {
			order, err := repos.PurchaseOrders().FindByIDForUpdate(ctx, *receipt.PurchaseOrderID)
			if err != nil {
				return err
			}
			if order == nil {
				return shared.NewDomainError("ORDER_NOT_FOUND", "Linked purchase order no longer exists")
			}
			for _, line := range receipt.Lines {
				if err := order.RevertReceipt(line.ItemID, line.Quantity); err != nil {
					return err
				}
			}
			if err := repos.PurchaseOrders().SaveWithLock(ctx, order); err != nil {
				return err
			}
		}

		return repos.GoodsReceipts().SaveWithLock(ctx, receipt)
	})
	if err != nil {
		return nil, err
	}
	return receipt, nil
}

// Get returns a goods receipt by ID
func (s *GoodsReceiptService) Get(ctx context.Context, id uuid.UUID) (*procurement.GoodsReceipt, error) {
	receipt, err := s.receiptRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if receipt == nil {
		return nil, shared.ErrNotFound
	}
	return receipt, nil
}

// List returns goods receipts matching the filter
func (s *GoodsReceiptService) List(ctx context.Context, filter procurement.ReceiptFilter) (*shared.Paginated[procurement.GoodsReceipt], error) {
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
func (s *GoodsReceiptService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		receipt, err := repos.GoodsReceipts().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if receipt == nil {
			return shared.ErrNotFound
		}
		if !receipt.IsDeletable() {
			return shared.NewDomainError("INVALID_STATUS", "Only draft receipts can be deleted")
		}
		return repos.GoodsReceipts().Delete(ctx, id)
	})
}

// validateTrackingFlags checks batch and serial numbers on the lines against
// the tracking configuration of each item.
func validateTrackingFlags(ctx context.Context, repos appinventory.TransactionalRepositories, lines []procurement.GoodsReceiptLine) error {
	itemIDs := make([]uuid.UUID, 0, len(lines))
	for _, line := range lines {
		itemIDs = append(itemIDs, line.ItemID)
	}
	items, err := repos.Items().FindByIDs(ctx, itemIDs)
	if err != nil {
		return err
	}
	tracked := make(map[uuid.UUID]struct{ batch, serial bool }, len(items))
	for _, item := range items {
		tracked[item.ID] = struct{ batch, serial bool }{item.BatchTracked, item.SerialTracked}
	}
	for _, line := range lines {
		flags, ok := tracked[line.ItemID]
		if !ok {
			return shared.NewDomainError("ITEM_NOT_FOUND", "Referenced item does not exist")
		}
		if flags.batch && line.BatchNumber == "" {
			return shared.NewDomainError("BATCH_REQUIRED", "Batch-tracked items require a batch number")
		}
		if flags.serial && line.SerialNumber == "" {
			return shared.NewDomainError("SERIAL_REQUIRED", "Serial-tracked items require a serial number")
		}
	}
	return nil
}
