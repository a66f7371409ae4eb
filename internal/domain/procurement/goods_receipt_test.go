package procurement

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestReceipt(t *testing.T) *GoodsReceipt {
	t.Helper()
	receipt, err := NewGoodsReceipt("GR-20260831-0001", uuid.New())
	require.NoError(t, err)
	return receipt
}

func TestGoodsReceipt_Posting(t *testing.T) {
	t.Run("posts draft receipt with lines", func(t *testing.T) {
		receipt := createTestReceipt(t)
		require.NoError(t, receipt.AddLine(uuid.New(), decimal.NewFromInt(10), decimal.NewFromInt(100), "", "", nil))

		poster := uuid.New()
		require.NoError(t, receipt.MarkPosted(poster))

		assert.Equal(t, ReceiptStatusPosted, receipt.Status)
		assert.Equal(t, poster, *receipt.PostedBy)
		assert.NotNil(t, receipt.PostedAt)
		assert.False(t, receipt.IsDeletable())
	})

	t.Run("cannot post empty receipt", func(t *testing.T) {
		receipt := createTestReceipt(t)
		require.Error(t, receipt.MarkPosted(uuid.New()))
	})

	t.Run("cannot post twice", func(t *testing.T) {
		receipt := createTestReceipt(t)
		require.NoError(t, receipt.AddLine(uuid.New(), decimal.NewFromInt(1), decimal.NewFromInt(1), "", "", nil))
		require.NoError(t, receipt.MarkPosted(uuid.New()))

		require.Error(t, receipt.MarkPosted(uuid.New()))
	})

	t.Run("cancel requires posted status and a reason", func(t *testing.T) {
		receipt := createTestReceipt(t)
		require.NoError(t, receipt.AddLine(uuid.New(), decimal.NewFromInt(1), decimal.NewFromInt(1), "", "", nil))

		// draft receipts are deleted, not cancelled
		require.Error(t, receipt.MarkCancelled(uuid.New(), "wrong warehouse"))

		require.NoError(t, receipt.MarkPosted(uuid.New()))
		require.Error(t, receipt.MarkCancelled(uuid.New(), ""))

		require.NoError(t, receipt.MarkCancelled(uuid.New(), "wrong warehouse"))
		assert.Equal(t, ReceiptStatusCancelled, receipt.Status)
		assert.NotNil(t, receipt.CancelledAt)

		require.Error(t, receipt.MarkCancelled(uuid.New(), "again"))
	})
}

func TestGoodsReceipt_Lines(t *testing.T) {
	t.Run("serial lines must have quantity one", func(t *testing.T) {
		receipt := createTestReceipt(t)

		err := receipt.AddLine(uuid.New(), decimal.NewFromInt(2), decimal.NewFromInt(500), "", "FRAME-001", nil)
		require.Error(t, err)

		require.NoError(t, receipt.AddLine(uuid.New(), decimal.NewFromInt(1), decimal.NewFromInt(500), "", "FRAME-001", nil))
	})

	t.Run("cannot edit lines after posting", func(t *testing.T) {
		receipt := createTestReceipt(t)
		require.NoError(t, receipt.AddLine(uuid.New(), decimal.NewFromInt(1), decimal.NewFromInt(1), "", "", nil))
		require.NoError(t, receipt.MarkPosted(uuid.New()))

		err := receipt.AddLine(uuid.New(), decimal.NewFromInt(1), decimal.NewFromInt(1), "", "", nil)
		require.Error(t, err)
		err = receipt.RemoveLine(receipt.Lines[0].ID)
		require.Error(t, err)
	})

	t.Run("total value sums lines", func(t *testing.T) {
		receipt := createTestReceipt(t)
		require.NoError(t, receipt.AddLine(uuid.New(), decimal.NewFromInt(10), decimal.NewFromInt(100), "B-01", "", nil))
		require.NoError(t, receipt.AddLine(uuid.New(), decimal.NewFromInt(10), decimal.NewFromInt(200), "B-02", "", nil))

		assert.True(t, decimal.NewFromInt(3000).Equal(receipt.TotalValue()))
	})
}
