package inventory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velocore/backend/internal/domain/inventory"
	"github.com/velocore/backend/internal/domain/shared"
)

// In-memory repositories backing the NoOp scope in service tests.

type memBalanceRepo struct {
	mu       sync.Mutex
	balances map[inventory.BalanceKey]*inventory.StockBalance
	// versions tracks the persisted version per key so SaveWithLock can
	// enforce the same one-step contract as the gorm repository.
	versions map[inventory.BalanceKey]int
}

func newMemBalanceRepo() *memBalanceRepo {
	return &memBalanceRepo{
		balances: make(map[inventory.BalanceKey]*inventory.StockBalance),
		versions: make(map[inventory.BalanceKey]int),
	}
}

func (r *memBalanceRepo) FindByID(_ context.Context, id uuid.UUID) (*inventory.StockBalance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.balances {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, nil
}

func (r *memBalanceRepo) FindByKey(_ context.Context, key inventory.BalanceKey) (*inventory.StockBalance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.balances[key], nil
}

func (r *memBalanceRepo) FindByKeyForUpdate(ctx context.Context, key inventory.BalanceKey) (*inventory.StockBalance, error) {
	return r.FindByKey(ctx, key)
}

func (r *memBalanceRepo) FindAll(_ context.Context, _ inventory.BalanceFilter) ([]inventory.StockBalance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]inventory.StockBalance, 0, len(r.balances))
	for _, b := range r.balances {
		result = append(result, *b)
	}
	return result, nil
}

func (r *memBalanceRepo) GetOrCreateForUpdate(_ context.Context, key inventory.BalanceKey) (*inventory.StockBalance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b, ok := r.balances[key]; ok {
		return b, nil
	}
	b, err := inventory.NewStockBalance(key)
	if err != nil {
		return nil, err
	}
	r.balances[key] = b
	r.versions[key] = b.Version
	return b, nil
}

func (r *memBalanceRepo) Save(_ context.Context, balance *inventory.StockBalance) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.balances[balance.Key()] = balance
	r.versions[balance.Key()] = balance.Version
	return nil
}

func (r *memBalanceRepo) SaveWithLock(_ context.Context, balance *inventory.StockBalance) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := balance.Key()
	if r.versions[key] != balance.Version-1 {
		return shared.ErrConcurrencyConflict
	}
	r.balances[key] = balance
	r.versions[key] = balance.Version
	balance.SyncVersion()
	return nil
}

func (r *memBalanceRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, b := range r.balances {
		if b.ID == id {
			delete(r.balances, key)
			return nil
		}
	}
	return shared.ErrNotFound
}

func (r *memBalanceRepo) Count(_ context.Context, _ inventory.BalanceFilter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.balances)), nil
}

func (r *memBalanceRepo) SumQuantityByItem(_ context.Context, itemID uuid.UUID) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sum := decimal.Zero
	for _, b := range r.balances {
		if b.ItemID == itemID {
			sum = sum.Add(b.QuantityOnHand)
		}
	}
	return sum, nil
}

func (r *memBalanceRepo) SumValueByWarehouse(_ context.Context, warehouseID uuid.UUID) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sum := decimal.Zero
	for _, b := range r.balances {
		if b.WarehouseID == warehouseID {
			sum = sum.Add(b.TotalValue)
		}
	}
	return sum, nil
}

type memLedgerRepo struct {
	mu      sync.Mutex
	entries []*inventory.InventoryTransaction
}

func (r *memLedgerRepo) FindByID(_ context.Context, id uuid.UUID) (*inventory.InventoryTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, nil
}

func (r *memLedgerRepo) FindByTransactionNumber(_ context.Context, number string) (*inventory.InventoryTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.entries {
		if e.TransactionNumber == number {
			return e, nil
		}
	}
	return nil, nil
}

func (r *memLedgerRepo) FindAll(_ context.Context, _ inventory.TransactionFilter) ([]inventory.InventoryTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]inventory.InventoryTransaction, 0, len(r.entries))
	for _, e := range r.entries {
		result = append(result, *e)
	}
	return result, nil
}

func (r *memLedgerRepo) FindByReference(_ context.Context, refType string, refID uuid.UUID) ([]inventory.InventoryTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]inventory.InventoryTransaction, 0)
	for _, e := range r.entries {
		if e.Reference.Type == refType && e.Reference.ID != nil && *e.Reference.ID == refID {
			result = append(result, *e)
		}
	}
	return result, nil
}

func (r *memLedgerRepo) Create(_ context.Context, tx *inventory.InventoryTransaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, tx)
	return nil
}

func (r *memLedgerRepo) CreateBatch(ctx context.Context, txs []*inventory.InventoryTransaction) error {
	for _, tx := range txs {
		if err := r.Create(ctx, tx); err != nil {
			return err
		}
	}
	return nil
}

func (r *memLedgerRepo) Count(_ context.Context, _ inventory.TransactionFilter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.entries)), nil
}

type memNumberGen struct {
	mu   sync.Mutex
	seqs map[string]int64
}

func newMemNumberGen() *memNumberGen {
	return &memNumberGen{seqs: make(map[string]int64)}
}

func (g *memNumberGen) Next(_ context.Context, key string) (int64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seqs[key]++
	return g.seqs[key], nil
}

type stockFixture struct {
	service  *StockService
	balances *memBalanceRepo
	ledger   *memLedgerRepo
}

func newStockFixture() *stockFixture {
	balances := newMemBalanceRepo()
	ledger := &memLedgerRepo{}
	scope := &NoOpTransactionScope{
		BalanceRepo: balances,
		LedgerRepo:  ledger,
		NumberGen:   newMemNumberGen(),
	}
	return &stockFixture{
		service:  NewStockService(scope, balances, ledger),
		balances: balances,
		ledger:   ledger,
	}
}

func TestStockService_AddStock(t *testing.T) {
	ctx := context.Background()
	itemID := uuid.New()
	warehouseID := uuid.New()

	t.Run("weighted average across receipts", func(t *testing.T) {
		f := newStockFixture()

		first, err := f.service.AddStock(ctx, AddStockCommand{
			ItemID: itemID, WarehouseID: warehouseID,
			Quantity: decimal.NewFromInt(10), UnitCost: decimal.NewFromInt(100),
			TransactionType: inventory.TransactionTypeGoodsReceipt,
		})
		require.NoError(t, err)
		assert.Equal(t, "TXN-0000000001", first.TransactionNumber)
		assert.True(t, decimal.NewFromInt(100).Equal(first.AverageCost))

		second, err := f.service.AddStock(ctx, AddStockCommand{
			ItemID: itemID, WarehouseID: warehouseID,
			Quantity: decimal.NewFromInt(10), UnitCost: decimal.NewFromInt(200),
			TransactionType: inventory.TransactionTypeGoodsReceipt,
		})
		require.NoError(t, err)

		assert.Equal(t, "TXN-0000000002", second.TransactionNumber)
		assert.True(t, decimal.NewFromInt(20).Equal(second.BalanceQuantity))
		assert.True(t, decimal.NewFromInt(150).Equal(second.AverageCost))
		assert.True(t, decimal.NewFromInt(3000).Equal(second.BalanceValue))
	})

	t.Run("receipt with expiry date saves under one version step", func(t *testing.T) {
		f := newStockFixture()
		expiry := time.Now().AddDate(1, 0, 0)

		_, err := f.service.AddStock(ctx, AddStockCommand{
			ItemID: itemID, WarehouseID: warehouseID,
			Quantity: decimal.NewFromInt(10), UnitCost: decimal.NewFromInt(100),
			TransactionType: inventory.TransactionTypeGoodsReceipt,
			ExpiryDate:      &expiry,
		})

		require.NoError(t, err)
		balance, _ := f.balances.FindByKey(ctx, inventory.BalanceKey{ItemID: itemID, WarehouseID: warehouseID})
		require.NotNil(t, balance.ExpiryDate)
		assert.True(t, expiry.Equal(*balance.ExpiryDate))
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		f := newStockFixture()
		_, err := f.service.AddStock(ctx, AddStockCommand{
			ItemID: itemID, WarehouseID: warehouseID,
			Quantity: decimal.Zero, UnitCost: decimal.NewFromInt(1),
			TransactionType: inventory.TransactionTypeGoodsReceipt,
		})
		require.Error(t, err)
		count, _ := f.ledger.Count(ctx, inventory.TransactionFilter{})
		assert.Zero(t, count)
	})
}

func TestStockService_DeductStock(t *testing.T) {
	ctx := context.Background()
	itemID := uuid.New()
	warehouseID := uuid.New()

	seed := func(t *testing.T, f *stockFixture, qty, cost int64) {
		t.Helper()
		_, err := f.service.AddStock(ctx, AddStockCommand{
			ItemID: itemID, WarehouseID: warehouseID,
			Quantity: decimal.NewFromInt(qty), UnitCost: decimal.NewFromInt(cost),
			TransactionType: inventory.TransactionTypeGoodsReceipt,
		})
		require.NoError(t, err)
	}

	t.Run("issues at current average cost with negative ledger quantity", func(t *testing.T) {
		f := newStockFixture()
		seed(t, f, 10, 100)

		result, err := f.service.DeductStock(ctx, DeductStockCommand{
			ItemID: itemID, WarehouseID: warehouseID,
			Quantity:        decimal.NewFromInt(4),
			TransactionType: inventory.TransactionTypeMaterialIssue,
		})

		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(-4).Equal(result.Quantity))
		assert.True(t, decimal.NewFromInt(100).Equal(result.UnitCost))
		assert.True(t, decimal.NewFromInt(6).Equal(result.BalanceQuantity))
	})

	t.Run("insufficient stock leaves balance and ledger untouched", func(t *testing.T) {
		f := newStockFixture()
		seed(t, f, 2, 50)

		_, err := f.service.DeductStock(ctx, DeductStockCommand{
			ItemID: itemID, WarehouseID: warehouseID,
			Quantity:        decimal.NewFromInt(3),
			TransactionType: inventory.TransactionTypeMaterialIssue,
		})

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INSUFFICIENT_STOCK", domainErr.Code)

		balance, _ := f.balances.FindByKey(ctx, inventory.BalanceKey{ItemID: itemID, WarehouseID: warehouseID})
		assert.True(t, decimal.NewFromInt(2).Equal(balance.QuantityOnHand))
		count, _ := f.ledger.Count(ctx, inventory.TransactionFilter{})
		assert.Equal(t, int64(1), count)
	})

	t.Run("deduction from unknown key fails", func(t *testing.T) {
		f := newStockFixture()
		_, err := f.service.DeductStock(ctx, DeductStockCommand{
			ItemID: uuid.New(), WarehouseID: warehouseID,
			Quantity:        decimal.NewFromInt(1),
			TransactionType: inventory.TransactionTypeMaterialIssue,
		})
		require.Error(t, err)
	})

	t.Run("sum of signed ledger quantities equals on-hand", func(t *testing.T) {
		f := newStockFixture()
		seed(t, f, 10, 10)
		_, err := f.service.DeductStock(ctx, DeductStockCommand{
			ItemID: itemID, WarehouseID: warehouseID,
			Quantity: decimal.NewFromInt(3), TransactionType: inventory.TransactionTypeMaterialIssue,
		})
		require.NoError(t, err)
		seed(t, f, 5, 20)

		entries, _ := f.ledger.FindAll(ctx, inventory.TransactionFilter{})
		sum := decimal.Zero
		for _, e := range entries {
			sum = sum.Add(e.Quantity)
		}
		balance, _ := f.balances.FindByKey(ctx, inventory.BalanceKey{ItemID: itemID, WarehouseID: warehouseID})
		assert.True(t, sum.Equal(balance.QuantityOnHand))
	})
}

func TestStockService_AdjustStock(t *testing.T) {
	ctx := context.Background()
	itemID := uuid.New()
	warehouseID := uuid.New()

	t.Run("negative adjustment below zero fails", func(t *testing.T) {
		f := newStockFixture()
		_, err := f.service.AdjustStock(ctx, AdjustStockCommand{
			ItemID: itemID, WarehouseID: warehouseID,
			Quantity: decimal.NewFromInt(-1), NewUnitCost: decimal.NewFromInt(5),
			Reason: "count correction",
		})
		require.Error(t, err)
	})

	t.Run("adjustment overwrites average cost", func(t *testing.T) {
		f := newStockFixture()
		_, err := f.service.AddStock(ctx, AddStockCommand{
			ItemID: itemID, WarehouseID: warehouseID,
			Quantity: decimal.NewFromInt(10), UnitCost: decimal.NewFromInt(100),
			TransactionType: inventory.TransactionTypeGoodsReceipt,
		})
		require.NoError(t, err)

		result, err := f.service.AdjustStock(ctx, AdjustStockCommand{
			ItemID: itemID, WarehouseID: warehouseID,
			Quantity: decimal.NewFromInt(-2), NewUnitCost: decimal.NewFromInt(90),
			Reason: "damage write-off",
		})

		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(8).Equal(result.BalanceQuantity))
		assert.True(t, decimal.NewFromInt(90).Equal(result.AverageCost))
	})

	t.Run("requires a reason", func(t *testing.T) {
		f := newStockFixture()
		_, err := f.service.AdjustStock(ctx, AdjustStockCommand{
			ItemID: itemID, WarehouseID: warehouseID,
			Quantity: decimal.NewFromInt(1), NewUnitCost: decimal.NewFromInt(1),
		})
		require.Error(t, err)
	})
}

func TestStockService_TransferStock(t *testing.T) {
	ctx := context.Background()
	itemID := uuid.New()
	sourceWH := uuid.New()
	targetWH := uuid.New()

	t.Run("moves quantity at source average cost", func(t *testing.T) {
		f := newStockFixture()
		_, err := f.service.AddStock(ctx, AddStockCommand{
			ItemID: itemID, WarehouseID: sourceWH,
			Quantity: decimal.NewFromInt(10), UnitCost: decimal.NewFromInt(100),
			TransactionType: inventory.TransactionTypeGoodsReceipt,
		})
		require.NoError(t, err)

		result, err := f.service.TransferStock(ctx, TransferStockCommand{
			ItemID: itemID, FromWarehouseID: sourceWH, ToWarehouseID: targetWH,
			Quantity: decimal.NewFromInt(4),
		})

		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(-4).Equal(result.Outbound.Quantity))
		assert.True(t, decimal.NewFromInt(4).Equal(result.Inbound.Quantity))
		assert.True(t, decimal.NewFromInt(100).Equal(result.Inbound.UnitCost))

		source, _ := f.balances.FindByKey(ctx, inventory.BalanceKey{ItemID: itemID, WarehouseID: sourceWH})
		target, _ := f.balances.FindByKey(ctx, inventory.BalanceKey{ItemID: itemID, WarehouseID: targetWH})
		assert.True(t, decimal.NewFromInt(6).Equal(source.QuantityOnHand))
		assert.True(t, decimal.NewFromInt(4).Equal(target.QuantityOnHand))
	})

	t.Run("insufficient source stock moves nothing", func(t *testing.T) {
		f := newStockFixture()
		_, err := f.service.AddStock(ctx, AddStockCommand{
			ItemID: itemID, WarehouseID: sourceWH,
			Quantity: decimal.NewFromInt(2), UnitCost: decimal.NewFromInt(10),
			TransactionType: inventory.TransactionTypeGoodsReceipt,
		})
		require.NoError(t, err)

		_, err = f.service.TransferStock(ctx, TransferStockCommand{
			ItemID: itemID, FromWarehouseID: sourceWH, ToWarehouseID: targetWH,
			Quantity: decimal.NewFromInt(5),
		})

		require.Error(t, err)
		source, _ := f.balances.FindByKey(ctx, inventory.BalanceKey{ItemID: itemID, WarehouseID: sourceWH})
		target, _ := f.balances.FindByKey(ctx, inventory.BalanceKey{ItemID: itemID, WarehouseID: targetWH})
		assert.True(t, decimal.NewFromInt(2).Equal(source.QuantityOnHand))
		assert.Nil(t, target)
	})

	t.Run("transfer from untouched source warehouse fails cleanly", func(t *testing.T) {
		f := newStockFixture()

		_, err := f.service.TransferStock(ctx, TransferStockCommand{
			ItemID: itemID, FromWarehouseID: sourceWH, ToWarehouseID: targetWH,
			Quantity: decimal.NewFromInt(1),
		})

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INSUFFICIENT_STOCK", domainErr.Code)
	})

	t.Run("rejects same-warehouse transfer", func(t *testing.T) {
		f := newStockFixture()
		_, err := f.service.TransferStock(ctx, TransferStockCommand{
			ItemID: itemID, FromWarehouseID: sourceWH, ToWarehouseID: sourceWH,
			Quantity: decimal.NewFromInt(1),
		})
		require.Error(t, err)
	})
}

func TestStockService_GetBalance(t *testing.T) {
	ctx := context.Background()
	f := newStockFixture()

	key := inventory.BalanceKey{ItemID: uuid.New(), WarehouseID: uuid.New()}
	balance, err := f.service.GetBalance(ctx, key)

	require.NoError(t, err)
	assert.True(t, balance.QuantityOnHand.IsZero())
	assert.WithinDuration(t, time.Now(), balance.LastUpdated, time.Minute)
}
