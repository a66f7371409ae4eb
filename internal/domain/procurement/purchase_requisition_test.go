package procurement

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestRequisition(t *testing.T) *PurchaseRequisition {
	t.Helper()
	req, err := NewPurchaseRequisition("PR-20260831-0001", uuid.New())
	require.NoError(t, err)
	return req
}

func TestPurchaseRequisition_Lifecycle(t *testing.T) {
	t.Run("draft to submitted to approved to converted", func(t *testing.T) {
		req := createTestRequisition(t)
		require.NoError(t, req.AddItem(uuid.New(), decimal.NewFromInt(5), decimal.NewFromInt(20), "brake pads"))

		require.NoError(t, req.Submit())
		assert.Equal(t, RequisitionStatusSubmitted, req.Status)
		assert.NotNil(t, req.SubmittedAt)

		approver := uuid.New()
		require.NoError(t, req.Approve(approver))
		assert.Equal(t, RequisitionStatusApproved, req.Status)
		assert.Equal(t, approver, *req.ApprovedBy)

		orderID := uuid.New()
		require.NoError(t, req.MarkConverted(orderID))
		assert.Equal(t, RequisitionStatusConverted, req.Status)
		assert.Equal(t, orderID, *req.ConvertedOrderID)
	})

	t.Run("reject ends the flow", func(t *testing.T) {
		req := createTestRequisition(t)
		require.NoError(t, req.AddItem(uuid.New(), decimal.NewFromInt(1), decimal.Zero, ""))
		require.NoError(t, req.Submit())

		require.NoError(t, req.Reject("over budget this quarter"))

		assert.Equal(t, RequisitionStatusRejected, req.Status)
		require.Error(t, req.Approve(uuid.New()))
		require.Error(t, req.MarkConverted(uuid.New()))
	})

	t.Run("cannot submit empty requisition", func(t *testing.T) {
		req := createTestRequisition(t)
		require.Error(t, req.Submit())
	})

	t.Run("cannot approve a draft", func(t *testing.T) {
		req := createTestRequisition(t)
		require.Error(t, req.Approve(uuid.New()))
	})

	t.Run("cannot edit after submit", func(t *testing.T) {
		req := createTestRequisition(t)
		require.NoError(t, req.AddItem(uuid.New(), decimal.NewFromInt(1), decimal.Zero, ""))
		require.NoError(t, req.Submit())

		err := req.AddItem(uuid.New(), decimal.NewFromInt(1), decimal.Zero, "")
		require.Error(t, err)
	})
}

func TestPurchaseRequisition_EstimatedTotal(t *testing.T) {
	req := createTestRequisition(t)
	require.NoError(t, req.AddItem(uuid.New(), decimal.NewFromInt(3), decimal.NewFromInt(10), ""))
	require.NoError(t, req.AddItem(uuid.New(), decimal.NewFromInt(2), decimal.NewFromFloat(5.5), ""))

	assert.True(t, decimal.NewFromInt(41).Equal(req.EstimatedTotal()))
}

func TestPurchaseRequisition_RemoveItem(t *testing.T) {
	req := createTestRequisition(t)
	itemID := uuid.New()
	require.NoError(t, req.AddItem(itemID, decimal.NewFromInt(1), decimal.Zero, ""))

	require.NoError(t, req.RemoveItem(itemID))
	assert.Empty(t, req.Items)

	err := req.RemoveItem(itemID)
	require.Error(t, err)
}
