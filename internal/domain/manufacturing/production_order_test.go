package manufacturing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestProductionOrder(t *testing.T, planned int64) *ProductionOrder {
	t.Helper()
	order, err := NewProductionOrder("MO-20260831-0001", uuid.New(), uuid.New(), uuid.New(), decimal.NewFromInt(planned))
	require.NoError(t, err)
	return order
}

func TestProductionOrder_Lifecycle(t *testing.T) {
	t.Run("draft to released to in progress to completed", func(t *testing.T) {
		order := createTestProductionOrder(t, 10)

		require.NoError(t, order.Release())
		assert.Equal(t, ProductionStatusReleased, order.Status)

		require.NoError(t, order.Start())
		assert.Equal(t, ProductionStatusInProgress, order.Status)

		require.NoError(t, order.RecordOutput(decimal.NewFromInt(4)))
		assert.Equal(t, ProductionStatusInProgress, order.Status)
		assert.True(t, decimal.NewFromInt(6).Equal(order.RemainingQuantity()))

		require.NoError(t, order.RecordOutput(decimal.NewFromInt(6)))
		assert.Equal(t, ProductionStatusCompleted, order.Status)
		assert.NotNil(t, order.CompletedAt)
	})

	t.Run("cannot start a draft order", func(t *testing.T) {
		order := createTestProductionOrder(t, 1)
		require.Error(t, order.Start())
	})

	t.Run("rejects over-production", func(t *testing.T) {
		order := createTestProductionOrder(t, 5)
		require.NoError(t, order.Release())
		require.NoError(t, order.Start())

		err := order.RecordOutput(decimal.NewFromInt(6))
		require.Error(t, err)
		assert.True(t, order.CompletedQuantity.IsZero())
	})

	t.Run("revert output reopens a completed order", func(t *testing.T) {
		order := createTestProductionOrder(t, 3)
		require.NoError(t, order.Release())
		require.NoError(t, order.Start())
		require.NoError(t, order.RecordOutput(decimal.NewFromInt(3)))
		require.Equal(t, ProductionStatusCompleted, order.Status)

		require.NoError(t, order.RevertOutput(decimal.NewFromInt(3)))

		assert.Equal(t, ProductionStatusInProgress, order.Status)
		assert.Nil(t, order.CompletedAt)
	})

	t.Run("cancel is blocked after completion", func(t *testing.T) {
		order := createTestProductionOrder(t, 1)
		require.NoError(t, order.Release())
		require.NoError(t, order.Start())
		require.NoError(t, order.RecordOutput(decimal.NewFromInt(1)))

		require.Error(t, order.Cancel("no longer needed"))
	})

	t.Run("cancel requires a reason", func(t *testing.T) {
		order := createTestProductionOrder(t, 1)
		require.Error(t, order.Cancel(""))
		require.NoError(t, order.Cancel("model discontinued"))
		assert.Equal(t, ProductionStatusCancelled, order.Status)
	})
}

func TestProductionStatus_CanTransitionTo(t *testing.T) {
	assert.True(t, ProductionStatusDraft.CanTransitionTo(ProductionStatusReleased))
	assert.False(t, ProductionStatusDraft.CanTransitionTo(ProductionStatusInProgress))
	assert.True(t, ProductionStatusReleased.CanTransitionTo(ProductionStatusInProgress))
	assert.True(t, ProductionStatusInProgress.CanTransitionTo(ProductionStatusCompleted))
	assert.False(t, ProductionStatusCompleted.CanTransitionTo(ProductionStatusCancelled))
}
