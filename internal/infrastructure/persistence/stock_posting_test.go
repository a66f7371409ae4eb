package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appinventory "github.com/velocore/backend/internal/application/inventory"
	approcurement "github.com/velocore/backend/internal/application/procurement"
	"github.com/velocore/backend/internal/domain/catalog"
	"github.com/velocore/backend/internal/domain/inventory"
	"github.com/velocore/backend/internal/domain/procurement"
	"github.com/velocore/backend/internal/domain/quality"
)

// Posting flows mutate an aggregate several times before the locked save, so
// these tests run against a real database where the version predicate is
// actually evaluated.

func TestStockService_AddStockWithExpiry(t *testing.T) {
	db := newSQLiteDB(t, &inventory.StockBalance{}, &inventory.InventoryTransaction{}, &sequenceRow{})
	balances := NewGormStockBalanceRepository(db)
	ledger := NewGormInventoryTransactionRepository(db)
	service := appinventory.NewStockService(NewGormTransactionScope(db), balances, ledger)
	ctx := context.Background()

	key := inventory.BalanceKey{
		ItemID:      uuid.New(),
		WarehouseID: uuid.New(),
		BatchNumber: "LOT-2026-04",
	}
	expiry := time.Now().AddDate(1, 0, 0)

	result, err := service.AddStock(ctx, appinventory.AddStockCommand{
		ItemID: key.ItemID, WarehouseID: key.WarehouseID, BatchNumber: key.BatchNumber,
		Quantity: decimal.NewFromInt(10), UnitCost: decimal.NewFromInt(100),
		TransactionType: inventory.TransactionTypeGoodsReceipt,
		ExpiryDate:      &expiry,
	})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(10).Equal(result.BalanceQuantity))

	balance, err := balances.FindByKey(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, balance)
	require.NotNil(t, balance.ExpiryDate)
	assert.Equal(t, 2, balance.Version)

	// The next receipt on the same row starts a fresh version step
	_, err = service.AddStock(ctx, appinventory.AddStockCommand{
		ItemID: key.ItemID, WarehouseID: key.WarehouseID, BatchNumber: key.BatchNumber,
		Quantity: decimal.NewFromInt(5), UnitCost: decimal.NewFromInt(200),
		TransactionType: inventory.TransactionTypeGoodsReceipt,
		ExpiryDate:      &expiry,
	})
	require.NoError(t, err)

	balance, err = balances.FindByKey(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, 3, balance.Version)
	assert.True(t, decimal.NewFromInt(15).Equal(balance.QuantityOnHand))
}

func TestGoodsReceiptService_PostMultiLineAgainstPurchaseOrder(t *testing.T) {
	db := newSQLiteDB(t,
		&catalog.Item{},
		&inventory.StockBalance{}, &inventory.InventoryTransaction{}, &sequenceRow{},
		&procurement.PurchaseOrder{}, &procurement.PurchaseOrderItem{},
		&procurement.GoodsReceipt{}, &procurement.GoodsReceiptLine{},
		&quality.QualityCheck{}, &quality.ChecklistLine{},
	)
	ctx := context.Background()

	itemRepo := NewGormItemRepository(db)
	motor, err := catalog.NewItem("MOTOR-250W", "250W Hub Motor", catalog.ItemTypeSparePart, "PCS")
	require.NoError(t, err)
	require.NoError(t, itemRepo.Save(ctx, motor))
	battery, err := catalog.NewItem("BAT-48V", "48V Battery Pack", catalog.ItemTypeBattery, "PCS")
	require.NoError(t, err)
	require.NoError(t, itemRepo.Save(ctx, battery))

	warehouseID := uuid.New()
	orderRepo := NewGormPurchaseOrderRepository(db)
	order, err := procurement.NewPurchaseOrder("PO-20260831-0001", "Shenzhen Drives Co", warehouseID)
	require.NoError(t, err)
	require.NoError(t, order.AddItem(motor.ID, decimal.NewFromInt(5), decimal.NewFromInt(120)))
	require.NoError(t, order.AddItem(battery.ID, decimal.NewFromInt(3), decimal.NewFromInt(800)))
	require.NoError(t, order.Approve(uuid.New()))
	require.NoError(t, orderRepo.Save(ctx, order))

	service := approcurement.NewGoodsReceiptService(NewGormTransactionScope(db), NewGormGoodsReceiptRepository(db))

	receipt, err := service.Create(ctx, approcurement.CreateReceiptCommand{
		WarehouseID:     warehouseID,
		PurchaseOrderID: &order.ID,
		Lines: []approcurement.ReceiptLineInput{
			{ItemID: motor.ID, Quantity: decimal.NewFromInt(5), UnitCost: decimal.NewFromInt(120)},
			{ItemID: battery.ID, Quantity: decimal.NewFromInt(3), UnitCost: decimal.NewFromInt(800)},
		},
	})
	require.NoError(t, err)

	posted, err := service.Post(ctx, receipt.ID, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, procurement.ReceiptStatusPosted, posted.Status)

	// Receipt progress is recorded once per line on the linked order
	reloaded, err := orderRepo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded)
	assert.Equal(t, procurement.OrderStatusCompleted, reloaded.Status)
	for _, item := range reloaded.Items {
		assert.True(t, item.Quantity.Equal(item.ReceivedQuantity))
	}

	balances := NewGormStockBalanceRepository(db)
	motorBalance, err := balances.FindByKey(ctx, inventory.BalanceKey{ItemID: motor.ID, WarehouseID: warehouseID})
	require.NoError(t, err)
	require.NotNil(t, motorBalance)
	assert.True(t, decimal.NewFromInt(5).Equal(motorBalance.QuantityOnHand))

	batteryBalance, err := balances.FindByKey(ctx, inventory.BalanceKey{ItemID: battery.ID, WarehouseID: warehouseID})
	require.NoError(t, err)
	require.NotNil(t, batteryBalance)
	assert.True(t, decimal.NewFromInt(3).Equal(batteryBalance.QuantityOnHand))
}
