package procurement

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestOrder(t *testing.T) *PurchaseOrder {
	t.Helper()
	order, err := NewPurchaseOrder("PO-20260831-0001", "Shimano Supply Co", uuid.New())
	require.NoError(t, err)
	return order
}

func TestNewPurchaseOrder(t *testing.T) {
	t.Run("creates draft order", func(t *testing.T) {
		order := createTestOrder(t)
		assert.Equal(t, OrderStatusDraft, order.Status)
		assert.Empty(t, order.Items)
	})

	t.Run("fails with empty supplier", func(t *testing.T) {
		_, err := NewPurchaseOrder("PO-20260831-0002", "", uuid.New())
		require.Error(t, err)
	})

	t.Run("fails with empty number", func(t *testing.T) {
		_, err := NewPurchaseOrder("", "Supplier", uuid.New())
		require.Error(t, err)
	})
}

func TestPurchaseOrder_AddItem(t *testing.T) {
	t.Run("adds items and computes total", func(t *testing.T) {
		order := createTestOrder(t)

		require.NoError(t, order.AddItem(uuid.New(), decimal.NewFromInt(10), decimal.NewFromInt(25)))
		require.NoError(t, order.AddItem(uuid.New(), decimal.NewFromInt(2), decimal.NewFromInt(100)))

		assert.Len(t, order.Items, 2)
		assert.True(t, decimal.NewFromInt(450).Equal(order.TotalAmount()))
	})

	t.Run("rejects edits after approval", func(t *testing.T) {
		order := createTestOrder(t)
		require.NoError(t, order.AddItem(uuid.New(), decimal.NewFromInt(1), decimal.NewFromInt(1)))
		require.NoError(t, order.Approve(uuid.New()))

		err := order.AddItem(uuid.New(), decimal.NewFromInt(1), decimal.NewFromInt(1))
		require.Error(t, err)
	})
}

func TestPurchaseOrder_Approve(t *testing.T) {
	t.Run("approves draft order", func(t *testing.T) {
		order := createTestOrder(t)
		require.NoError(t, order.AddItem(uuid.New(), decimal.NewFromInt(5), decimal.NewFromInt(10)))

		approver := uuid.New()
		require.NoError(t, order.Approve(approver))

		assert.Equal(t, OrderStatusApproved, order.Status)
		assert.Equal(t, approver, *order.ApprovedBy)
		assert.NotNil(t, order.ApprovedAt)
	})

	t.Run("fails with no items", func(t *testing.T) {
		order := createTestOrder(t)
		err := order.Approve(uuid.New())
		require.Error(t, err)
	})

	t.Run("fails when already approved", func(t *testing.T) {
		order := createTestOrder(t)
		require.NoError(t, order.AddItem(uuid.New(), decimal.NewFromInt(1), decimal.NewFromInt(1)))
		require.NoError(t, order.Approve(uuid.New()))

		err := order.Approve(uuid.New())
		require.Error(t, err)
	})
}

func TestPurchaseOrder_RecordReceipt(t *testing.T) {
	itemA := uuid.New()
	itemB := uuid.New()

	newApprovedOrder := func(t *testing.T) *PurchaseOrder {
		t.Helper()
		order := createTestOrder(t)
		require.NoError(t, order.AddItem(itemA, decimal.NewFromInt(10), decimal.NewFromInt(25)))
		require.NoError(t, order.AddItem(itemB, decimal.NewFromInt(4), decimal.NewFromInt(50)))
		require.NoError(t, order.Approve(uuid.New()))
		return order
	}

	t.Run("partial receipt moves order to partially received", func(t *testing.T) {
		order := newApprovedOrder(t)

		require.NoError(t, order.RecordReceipt(itemA, decimal.NewFromInt(6)))

		assert.Equal(t, OrderStatusPartiallyReceived, order.Status)
		assert.True(t, decimal.NewFromInt(4).Equal(order.Items[0].OutstandingQuantity()))
	})

	t.Run("full receipt completes the order", func(t *testing.T) {
		order := newApprovedOrder(t)

		require.NoError(t, order.RecordReceipt(itemA, decimal.NewFromInt(10)))
		require.NoError(t, order.RecordReceipt(itemB, decimal.NewFromInt(4)))

		assert.Equal(t, OrderStatusCompleted, order.Status)
		assert.NotNil(t, order.CompletedAt)
	})

	t.Run("rejects over-receipt", func(t *testing.T) {
		order := newApprovedOrder(t)

		err := order.RecordReceipt(itemA, decimal.NewFromInt(11))

		require.Error(t, err)
		assert.Equal(t, OrderStatusApproved, order.Status)
	})

	t.Run("rejects receipt on draft order", func(t *testing.T) {
		order := createTestOrder(t)
		require.NoError(t, order.AddItem(itemA, decimal.NewFromInt(10), decimal.NewFromInt(25)))

		err := order.RecordReceipt(itemA, decimal.NewFromInt(1))
		require.Error(t, err)
	})

	t.Run("revert receipt reopens a completed order", func(t *testing.T) {
		order := newApprovedOrder(t)
		require.NoError(t, order.RecordReceipt(itemA, decimal.NewFromInt(10)))
		require.NoError(t, order.RecordReceipt(itemB, decimal.NewFromInt(4)))
		require.Equal(t, OrderStatusCompleted, order.Status)

		require.NoError(t, order.RevertReceipt(itemB, decimal.NewFromInt(4)))

		assert.Equal(t, OrderStatusPartiallyReceived, order.Status)
		assert.Nil(t, order.CompletedAt)
	})
}

func TestPurchaseOrder_Cancel(t *testing.T) {
	t.Run("cancels open order with reason", func(t *testing.T) {
		order := createTestOrder(t)
		require.NoError(t, order.AddItem(uuid.New(), decimal.NewFromInt(1), decimal.NewFromInt(1)))
		require.NoError(t, order.Approve(uuid.New()))

		require.NoError(t, order.Cancel("supplier discontinued the part"))

		assert.Equal(t, OrderStatusCancelled, order.Status)
		assert.NotNil(t, order.CancelledAt)
	})

	t.Run("requires a reason", func(t *testing.T) {
		order := createTestOrder(t)
		err := order.Cancel("")
		require.Error(t, err)
	})

	t.Run("cannot cancel a completed order", func(t *testing.T) {
		itemID := uuid.New()
		order := createTestOrder(t)
		require.NoError(t, order.AddItem(itemID, decimal.NewFromInt(1), decimal.NewFromInt(1)))
		require.NoError(t, order.Approve(uuid.New()))
		require.NoError(t, order.RecordReceipt(itemID, decimal.NewFromInt(1)))

		err := order.Cancel("too late")
		require.Error(t, err)
	})
}

func TestOrderStatus_CanTransitionTo(t *testing.T) {
	assert.True(t, OrderStatusDraft.CanTransitionTo(OrderStatusApproved))
	assert.True(t, OrderStatusDraft.CanTransitionTo(OrderStatusCancelled))
	assert.False(t, OrderStatusDraft.CanTransitionTo(OrderStatusCompleted))
	assert.True(t, OrderStatusApproved.CanTransitionTo(OrderStatusPartiallyReceived))
	assert.True(t, OrderStatusPartiallyReceived.CanTransitionTo(OrderStatusCompleted))
	assert.False(t, OrderStatusCompleted.CanTransitionTo(OrderStatusCancelled))
	assert.False(t, OrderStatusCancelled.CanTransitionTo(OrderStatusDraft))
}
