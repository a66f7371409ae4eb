package inventory

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInventoryTransaction(t *testing.T) {
	key := testKey()

	t.Run("creates inbound entry", func(t *testing.T) {
		tx, err := NewInventoryTransaction(
			FormatTransactionNumber(1),
			key,
			TransactionTypeGoodsReceipt,
			decimal.NewFromInt(10),
			decimal.NewFromInt(25),
			decimal.NewFromInt(10),
			decimal.NewFromInt(250),
		)

		require.NoError(t, err)
		assert.Equal(t, "TXN-0000000001", tx.TransactionNumber)
		assert.True(t, tx.IsInbound())
		assert.False(t, tx.IsOutbound())
		assert.True(t, decimal.NewFromInt(250).Equal(tx.TotalCost))
		assert.Equal(t, key, tx.Key())
	})

	t.Run("creates outbound entry with negative quantity", func(t *testing.T) {
		tx, err := NewInventoryTransaction(
			FormatTransactionNumber(2),
			key,
			TransactionTypeMaterialIssue,
			decimal.NewFromInt(-4),
			decimal.NewFromInt(25),
			decimal.NewFromInt(6),
			decimal.NewFromInt(150),
		)

		require.NoError(t, err)
		assert.True(t, tx.IsOutbound())
		assert.True(t, decimal.NewFromInt(-100).Equal(tx.TotalCost))
	})

	t.Run("rejects zero quantity", func(t *testing.T) {
		_, err := NewInventoryTransaction(
			FormatTransactionNumber(3), key, TransactionTypeAdjustment,
			decimal.Zero, decimal.NewFromInt(1), decimal.Zero, decimal.Zero,
		)
		require.Error(t, err)
	})

	t.Run("rejects invalid type", func(t *testing.T) {
		_, err := NewInventoryTransaction(
			FormatTransactionNumber(4), key, TransactionType("BOGUS"),
			decimal.NewFromInt(1), decimal.NewFromInt(1), decimal.NewFromInt(1), decimal.NewFromInt(1),
		)
		require.Error(t, err)
	})

	t.Run("rejects empty transaction number", func(t *testing.T) {
		_, err := NewInventoryTransaction(
			"", key, TransactionTypeGoodsReceipt,
			decimal.NewFromInt(1), decimal.NewFromInt(1), decimal.NewFromInt(1), decimal.NewFromInt(1),
		)
		require.Error(t, err)
	})
}

func TestInventoryTransaction_Builders(t *testing.T) {
	key := testKey()
	refID := uuid.New()
	operatorID := uuid.New()

	tx, err := NewInventoryTransaction(
		FormatTransactionNumber(42), key, TransactionTypeGoodsReceipt,
		decimal.NewFromInt(5), decimal.NewFromInt(10),
		decimal.NewFromInt(5), decimal.NewFromInt(50),
	)
	require.NoError(t, err)

	tx.WithReference("GOODS_RECEIPT", refID, "GR-20260831-0001").
		WithReason("initial stock").
		WithOperator(operatorID)

	assert.Equal(t, "GOODS_RECEIPT", tx.Reference.Type)
	assert.Equal(t, refID, *tx.Reference.ID)
	assert.Equal(t, "GR-20260831-0001", tx.Reference.Number)
	assert.Equal(t, "initial stock", tx.Reason)
	assert.Equal(t, operatorID, *tx.OperatorID)
}

func TestFormatTransactionNumber(t *testing.T) {
	assert.Equal(t, "TXN-0000000001", FormatTransactionNumber(1))
	assert.Equal(t, "TXN-0000012345", FormatTransactionNumber(12345))
	// Zero padding keeps lexicographic order aligned with numeric order.
	assert.Less(t, FormatTransactionNumber(99), FormatTransactionNumber(100))
}
