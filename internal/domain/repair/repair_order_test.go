package repair

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestRepairOrder(t *testing.T) *RepairOrder {
	t.Helper()
	order, err := NewRepairOrder("RO-20260831-0001", uuid.New(), uuid.New(), "brake lever loose")
	require.NoError(t, err)
	return order
}

func TestRepairOrder_Lifecycle(t *testing.T) {
	t.Run("requested to pending to in progress to completed", func(t *testing.T) {
		order := createTestRepairOrder(t)

		require.NoError(t, order.MarkPending("needs new lever assembly"))
		assert.Equal(t, RepairStatusPending, order.Status)

		technician := uuid.New()
		require.NoError(t, order.Start(technician))
		assert.Equal(t, RepairStatusInProgress, order.Status)
		assert.Equal(t, technician, *order.TechnicianID)

		require.NoError(t, order.AddPartsCost(decimal.NewFromInt(35)))
		require.NoError(t, order.Complete(decimal.NewFromInt(50)))

		assert.Equal(t, RepairStatusCompleted, order.Status)
		assert.True(t, decimal.NewFromInt(85).Equal(order.TotalCost()))
	})

	t.Run("can start directly from requested", func(t *testing.T) {
		order := createTestRepairOrder(t)
		require.NoError(t, order.Start(uuid.New()))
		assert.Equal(t, RepairStatusInProgress, order.Status)
	})

	t.Run("cannot complete before starting", func(t *testing.T) {
		order := createTestRepairOrder(t)
		require.Error(t, order.Complete(decimal.Zero))
	})

	t.Run("cannot add parts cost before starting", func(t *testing.T) {
		order := createTestRepairOrder(t)
		require.Error(t, order.AddPartsCost(decimal.NewFromInt(10)))
	})

	t.Run("cancel is blocked after completion", func(t *testing.T) {
		order := createTestRepairOrder(t)
		require.NoError(t, order.Start(uuid.New()))
		require.NoError(t, order.Complete(decimal.Zero))

		require.Error(t, order.Cancel("obsolete"))
	})
}

func TestRepairGuards(t *testing.T) {
	t.Run("CanStartRepair allows requested and pending", func(t *testing.T) {
		order := createTestRepairOrder(t)
		assert.True(t, CanStartRepair(order).Allowed)

		require.NoError(t, order.MarkPending(""))
		assert.True(t, CanStartRepair(order).Allowed)

		require.NoError(t, order.Start(uuid.New()))
		assert.False(t, CanStartRepair(order).Allowed)
	})

	t.Run("CanCompleteRepair requires in progress", func(t *testing.T) {
		order := createTestRepairOrder(t)
		assert.False(t, CanCompleteRepair(order).Allowed)

		require.NoError(t, order.Start(uuid.New()))
		assert.True(t, CanCompleteRepair(order).Allowed)

		require.NoError(t, order.Complete(decimal.Zero))
		assert.False(t, CanCompleteRepair(order).Allowed)
	})
}

func TestRepairStatus_CanTransitionTo(t *testing.T) {
	assert.True(t, RepairStatusRequested.CanTransitionTo(RepairStatusPending))
	assert.True(t, RepairStatusRequested.CanTransitionTo(RepairStatusInProgress))
	assert.False(t, RepairStatusRequested.CanTransitionTo(RepairStatusCompleted))
	assert.True(t, RepairStatusPending.CanTransitionTo(RepairStatusInProgress))
	assert.True(t, RepairStatusInProgress.CanTransitionTo(RepairStatusCompleted))
	assert.False(t, RepairStatusCompleted.CanTransitionTo(RepairStatusCancelled))
	assert.False(t, RepairStatusCancelled.CanTransitionTo(RepairStatusRequested))
}
