package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/velocore/backend/internal/domain/inventory"
	"github.com/velocore/backend/internal/domain/shared"
)

// StockService owns all stock movements. Every mutation allocates a ledger
// number, writes exactly one ledger entry per affected balance and saves the
// balance under its optimistic lock, all inside one transaction scope.
type StockService struct {
	scope       TransactionScope
	balanceRepo inventory.StockBalanceRepository
	ledgerRepo  inventory.InventoryTransactionRepository
}

// NewStockService creates a new StockService. The plain repositories are used
// for read-only queries outside a transaction.
func NewStockService(
	scope TransactionScope,
	balanceRepo inventory.StockBalanceRepository,
	ledgerRepo inventory.InventoryTransactionRepository,
) *StockService {
	return &StockService{
		scope:       scope,
		balanceRepo: balanceRepo,
		ledgerRepo:  ledgerRepo,
	}
}

// AddStock receives quantity into a warehouse and recomputes the weighted
// average cost.
func (s *StockService) AddStock(ctx context.Context, cmd AddStockCommand) (*MovementResult, error) {
	var result *MovementResult
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		result, err = ApplyAddStock(ctx, repos, cmd)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// DeductStock issues quantity out of a warehouse at the current average cost
func (s *StockService) DeductStock(ctx context.Context, cmd DeductStockCommand) (*MovementResult, error) {
	var result *MovementResult
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		result, err = ApplyDeductStock(ctx, repos, cmd)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// AdjustStock applies a signed correction and overwrites the average cost
func (s *StockService) AdjustStock(ctx context.Context, cmd AdjustStockCommand) (*MovementResult, error) {
	var result *MovementResult
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		result, err = ApplyAdjustStock(ctx, repos, cmd)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// TransferStock moves quantity between warehouses in one unit of work. The
// inbound leg carries the source's average cost, so transfers never change
// total stock value.
func (s *StockService) TransferStock(ctx context.Context, cmd TransferStockCommand) (*TransferResult, error) {
	if cmd.FromWarehouseID == cmd.ToWarehouseID {
		return nil, shared.NewDomainError("INVALID_WAREHOUSE", "Source and target warehouse must differ")
	}

	var result TransferResult
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		sourceKey := inventory.BalanceKey{
			ItemID:       cmd.ItemID,
			WarehouseID:  cmd.FromWarehouseID,
			BatchNumber:  cmd.BatchNumber,
			SerialNumber: cmd.SerialNumber,
		}
		source, err := repos.Balances().FindByKeyForUpdate(ctx, sourceKey)
		if err != nil {
			return err
		}
		if source == nil {
			return shared.ErrInsufficientStock
		}
		transferCost := source.AverageCost

		outbound, err := ApplyDeductStock(ctx, repos, DeductStockCommand{
			ItemID:          cmd.ItemID,
			WarehouseID:     cmd.FromWarehouseID,
			Quantity:        cmd.Quantity,
			TransactionType: inventory.TransactionTypeTransfer,
			BatchNumber:     cmd.BatchNumber,
			SerialNumber:    cmd.SerialNumber,
			Reason:          cmd.Reason,
			OperatorID:      cmd.OperatorID,
		})
		if err != nil {
			return err
		}

		inbound, err := ApplyAddStock(ctx, repos, AddStockCommand{
			ItemID:          cmd.ItemID,
			WarehouseID:     cmd.ToWarehouseID,
			Quantity:        cmd.Quantity,
			UnitCost:        transferCost,
			TransactionType: inventory.TransactionTypeTransfer,
			BatchNumber:     cmd.BatchNumber,
			SerialNumber:    cmd.SerialNumber,
			Reason:          cmd.Reason,
			OperatorID:      cmd.OperatorID,
		})
		if err != nil {
			return err
		}

		result.Outbound = outbound
		result.Inbound = inbound
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// GetBalance returns the balance row for a key, or an empty view when no
// movement has touched the key yet.
func (s *StockService) GetBalance(ctx context.Context, key inventory.BalanceKey) (*inventory.StockBalance, error) {
	balance, err := s.balanceRepo.FindByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	if balance == nil {
		return inventory.NewStockBalance(key)
	}
	return balance, nil
}

// ListBalances returns balance rows matching the filter
func (s *StockService) ListBalances(ctx context.Context, filter inventory.BalanceFilter) (*shared.Paginated[inventory.StockBalance], error) {
	balances, err := s.balanceRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.balanceRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	return shared.NewPaginated(balances, total, filter.Filter), nil
}

// ListTransactions returns ledger entries matching the filter
func (s *StockService) ListTransactions(ctx context.Context, filter inventory.TransactionFilter) (*shared.Paginated[inventory.InventoryTransaction], error) {
	entries, err := s.ledgerRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.ledgerRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	return shared.NewPaginated(entries, total, filter.Filter), nil
}

// ApplyAddStock performs an inbound movement using the repositories of an
// already-open transaction scope. Document posting services call this per
// line so the whole posting shares one transaction.
func ApplyAddStock(ctx context.Context, repos TransactionalRepositories, cmd AddStockCommand) (*MovementResult, error) {
	if cmd.Quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	key := inventory.BalanceKey{
		ItemID:       cmd.ItemID,
		WarehouseID:  cmd.WarehouseID,
		BatchNumber:  cmd.BatchNumber,
		SerialNumber: cmd.SerialNumber,
	}
	balance, err := repos.Balances().GetOrCreateForUpdate(ctx, key)
	if err != nil {
		return nil, err
	}

	if err := balance.Receive(cmd.Quantity, cmd.UnitCost); err != nil {
		return nil, err
	}
	if cmd.ExpiryDate != nil {
		balance.SetExpiryDate(cmd.ExpiryDate)
	}

	tx, err := newLedgerEntry(ctx, repos, key, cmd.TransactionType, cmd.Quantity, cmd.UnitCost, balance)
	if err != nil {
		return nil, err
	}
	decorateEntry(tx, cmd.Reference, cmd.Reason, cmd.OperatorID)
	tx.WithExpiryDate(cmd.ExpiryDate)

	if err := repos.Ledger().Create(ctx, tx); err != nil {
		return nil, err
	}
	if err := repos.Balances().SaveWithLock(ctx, balance); err != nil {
		return nil, err
	}

	return newMovementResult(tx, balance), nil
}

// ApplyDeductStock performs an outbound movement using the repositories of an
// already-open transaction scope.
func ApplyDeductStock(ctx context.Context, repos TransactionalRepositories, cmd DeductStockCommand) (*MovementResult, error) {
	if cmd.Quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	key := inventory.BalanceKey{
		ItemID:       cmd.ItemID,
		WarehouseID:  cmd.WarehouseID,
		BatchNumber:  cmd.BatchNumber,
		SerialNumber: cmd.SerialNumber,
	}
	balance, err := repos.Balances().FindByKeyForUpdate(ctx, key)
	if err != nil {
		return nil, err
	}
	if balance == nil {
		return nil, shared.ErrInsufficientStock
	}

	unitCost := balance.AverageCost
	if err := balance.Issue(cmd.Quantity); err != nil {
		return nil, err
	}

	tx, err := newLedgerEntry(ctx, repos, key, cmd.TransactionType, cmd.Quantity.Neg(), unitCost, balance)
	if err != nil {
		return nil, err
	}
	decorateEntry(tx, cmd.Reference, cmd.Reason, cmd.OperatorID)

	if err := repos.Ledger().Create(ctx, tx); err != nil {
		return nil, err
	}
	if err := repos.Balances().SaveWithLock(ctx, balance); err != nil {
		return nil, err
	}

	return newMovementResult(tx, balance), nil
}

// ApplyAdjustStock performs a signed correction using the repositories of an
// already-open transaction scope.
func ApplyAdjustStock(ctx context.Context, repos TransactionalRepositories, cmd AdjustStockCommand) (*MovementResult, error) {
	if cmd.Quantity.IsZero() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Adjustment quantity cannot be zero")
	}
	if cmd.Reason == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Adjustment reason cannot be empty")
	}

	key := inventory.BalanceKey{
		ItemID:       cmd.ItemID,
		WarehouseID:  cmd.WarehouseID,
		BatchNumber:  cmd.BatchNumber,
		SerialNumber: cmd.SerialNumber,
	}
	balance, err := repos.Balances().GetOrCreateForUpdate(ctx, key)
	if err != nil {
		return nil, err
	}

	if err := balance.Adjust(cmd.Quantity, cmd.NewUnitCost); err != nil {
		return nil, err
	}

	tx, err := newLedgerEntry(ctx, repos, key, inventory.TransactionTypeAdjustment, cmd.Quantity, cmd.NewUnitCost, balance)
	if err != nil {
		return nil, err
	}
	decorateEntry(tx, nil, cmd.Reason, cmd.OperatorID)

	if err := repos.Ledger().Create(ctx, tx); err != nil {
		return nil, err
	}
	if err := repos.Balances().SaveWithLock(ctx, balance); err != nil {
		return nil, err
	}

	return newMovementResult(tx, balance), nil
}

func newLedgerEntry(
	ctx context.Context,
	repos TransactionalRepositories,
	key inventory.BalanceKey,
	txType inventory.TransactionType,
	signedQuantity, unitCost decimal.Decimal,
	balance *inventory.StockBalance,
) (*inventory.InventoryTransaction, error) {
	seq, err := repos.Numbers().Next(ctx, inventory.TransactionNumberKey)
	if err != nil {
		return nil, err
	}
	return inventory.NewInventoryTransaction(
		inventory.FormatTransactionNumber(seq),
		key,
		txType,
		signedQuantity,
		unitCost,
		balance.QuantityOnHand,
		balance.TotalValue,
	)
}

func decorateEntry(tx *inventory.InventoryTransaction, ref *MovementReference, reason string, operatorID *uuid.UUID) {
	if ref != nil {
		tx.WithReference(ref.Type, ref.ID, ref.Number)
	}
	if reason != "" {
		tx.WithReason(reason)
	}
	if operatorID != nil {
		tx.WithOperator(*operatorID)
	}
}
