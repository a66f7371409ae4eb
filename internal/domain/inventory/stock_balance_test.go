package inventory

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey() BalanceKey {
	return BalanceKey{ItemID: uuid.New(), WarehouseID: uuid.New()}
}

func createTestBalance(t *testing.T) *StockBalance {
	t.Helper()
	balance, err := NewStockBalance(testKey())
	require.NoError(t, err)
	return balance
}

func TestNewStockBalance(t *testing.T) {
	t.Run("creates empty balance", func(t *testing.T) {
		key := testKey()
		balance, err := NewStockBalance(key)

		require.NoError(t, err)
		assert.Equal(t, key, balance.Key())
		assert.True(t, balance.QuantityOnHand.IsZero())
		assert.True(t, balance.QuantityReserved.IsZero())
		assert.True(t, balance.AverageCost.IsZero())
		assert.Equal(t, 1, balance.Version)
	})

	t.Run("fails with nil item ID", func(t *testing.T) {
		_, err := NewStockBalance(BalanceKey{WarehouseID: uuid.New()})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Item ID")
	})

	t.Run("fails with nil warehouse ID", func(t *testing.T) {
		_, err := NewStockBalance(BalanceKey{ItemID: uuid.New()})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Warehouse ID")
	})
}

func TestStockBalance_Receive(t *testing.T) {
	t.Run("first receipt sets average cost directly", func(t *testing.T) {
		balance := createTestBalance(t)

		err := balance.Receive(decimal.NewFromInt(10), decimal.NewFromInt(100))

		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(10).Equal(balance.QuantityOnHand))
		assert.True(t, decimal.NewFromInt(100).Equal(balance.AverageCost))
		assert.True(t, decimal.NewFromInt(1000).Equal(balance.TotalValue))
	})

	t.Run("recomputes weighted average cost", func(t *testing.T) {
		balance := createTestBalance(t)
		require.NoError(t, balance.Receive(decimal.NewFromInt(10), decimal.NewFromInt(100)))

		// 10 @ 100 + 10 @ 200 -> 20 @ 150
		err := balance.Receive(decimal.NewFromInt(10), decimal.NewFromInt(200))

		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(20).Equal(balance.QuantityOnHand))
		assert.True(t, decimal.NewFromInt(150).Equal(balance.AverageCost))
		assert.True(t, decimal.NewFromInt(3000).Equal(balance.TotalValue))
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		balance := createTestBalance(t)

		err := balance.Receive(decimal.Zero, decimal.NewFromInt(10))
		require.Error(t, err)

		err = balance.Receive(decimal.NewFromInt(-5), decimal.NewFromInt(10))
		require.Error(t, err)
		assert.True(t, balance.QuantityOnHand.IsZero())
	})

	t.Run("rejects negative cost", func(t *testing.T) {
		balance := createTestBalance(t)
		err := balance.Receive(decimal.NewFromInt(1), decimal.NewFromInt(-1))
		require.Error(t, err)
	})

	t.Run("advances version one step per save cycle", func(t *testing.T) {
		balance := createTestBalance(t)

		// Several mutations before a save still count as a single
		// optimistic-lock step.
		require.NoError(t, balance.Receive(decimal.NewFromInt(1), decimal.NewFromInt(1)))
		expiry := time.Now().AddDate(1, 0, 0)
		balance.SetExpiryDate(&expiry)
		assert.Equal(t, 2, balance.Version)

		balance.SyncVersion()
		require.NoError(t, balance.Receive(decimal.NewFromInt(1), decimal.NewFromInt(1)))
		assert.Equal(t, 3, balance.Version)
	})
}

func TestStockBalance_Issue(t *testing.T) {
	t.Run("decreases on-hand at current average cost", func(t *testing.T) {
		balance := createTestBalance(t)
		require.NoError(t, balance.Receive(decimal.NewFromInt(10), decimal.NewFromInt(100)))

		err := balance.Issue(decimal.NewFromInt(4))

		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(6).Equal(balance.QuantityOnHand))
		assert.True(t, decimal.NewFromInt(100).Equal(balance.AverageCost))
		assert.True(t, decimal.NewFromInt(600).Equal(balance.TotalValue))
	})

	t.Run("fails when available is insufficient and leaves balance unchanged", func(t *testing.T) {
		balance := createTestBalance(t)
		require.NoError(t, balance.Receive(decimal.NewFromInt(2), decimal.NewFromInt(50)))

		err := balance.Issue(decimal.NewFromInt(3))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "Insufficient")
		assert.True(t, decimal.NewFromInt(2).Equal(balance.QuantityOnHand))
	})

	t.Run("respects reservations", func(t *testing.T) {
		balance := createTestBalance(t)
		require.NoError(t, balance.Receive(decimal.NewFromInt(10), decimal.NewFromInt(50)))
		require.NoError(t, balance.Reserve(decimal.NewFromInt(8)))

		err := balance.Issue(decimal.NewFromInt(5))

		require.Error(t, err)
		assert.True(t, decimal.NewFromInt(10).Equal(balance.QuantityOnHand))
	})

	t.Run("sum of signed movements equals on-hand", func(t *testing.T) {
		balance := createTestBalance(t)
		moves := []int64{10, -3, 5, -7, 2}
		var sum int64
		for _, m := range moves {
			if m > 0 {
				require.NoError(t, balance.Receive(decimal.NewFromInt(m), decimal.NewFromInt(10)))
			} else {
				require.NoError(t, balance.Issue(decimal.NewFromInt(-m)))
			}
			sum += m
		}
		assert.True(t, decimal.NewFromInt(sum).Equal(balance.QuantityOnHand))
	})
}

func TestStockBalance_Adjust(t *testing.T) {
	t.Run("applies signed delta and overwrites cost", func(t *testing.T) {
		balance := createTestBalance(t)
		require.NoError(t, balance.Receive(decimal.NewFromInt(10), decimal.NewFromInt(100)))

		err := balance.Adjust(decimal.NewFromInt(-2), decimal.NewFromInt(90))

		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(8).Equal(balance.QuantityOnHand))
		assert.True(t, decimal.NewFromInt(90).Equal(balance.AverageCost))
		assert.True(t, decimal.NewFromInt(720).Equal(balance.TotalValue))
	})

	t.Run("fails when result would be negative", func(t *testing.T) {
		balance := createTestBalance(t)
		require.NoError(t, balance.Receive(decimal.NewFromInt(3), decimal.NewFromInt(10)))

		err := balance.Adjust(decimal.NewFromInt(-4), decimal.NewFromInt(10))

		require.Error(t, err)
		assert.True(t, decimal.NewFromInt(3).Equal(balance.QuantityOnHand))
	})

	t.Run("rejects zero delta", func(t *testing.T) {
		balance := createTestBalance(t)
		err := balance.Adjust(decimal.Zero, decimal.NewFromInt(10))
		require.Error(t, err)
	})
}

func TestStockBalance_Reservations(t *testing.T) {
	balance := createTestBalance(t)
	require.NoError(t, balance.Receive(decimal.NewFromInt(10), decimal.NewFromInt(10)))

	require.NoError(t, balance.Reserve(decimal.NewFromInt(4)))
	assert.True(t, decimal.NewFromInt(6).Equal(balance.QuantityAvailable()))

	err := balance.Reserve(decimal.NewFromInt(7))
	require.Error(t, err)

	require.NoError(t, balance.ReleaseReservation(decimal.NewFromInt(4)))
	assert.True(t, decimal.NewFromInt(10).Equal(balance.QuantityAvailable()))

	err = balance.ReleaseReservation(decimal.NewFromInt(1))
	require.Error(t, err)
}
