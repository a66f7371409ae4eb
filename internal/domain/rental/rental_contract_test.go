package rental

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestContract(t *testing.T) *RentalContract {
	t.Helper()
	contract, err := NewRentalContract("RC-20260831-0001", uuid.New(), "Alex Morgan", decimal.NewFromInt(20))
	require.NoError(t, err)
	return contract
}

func TestRentalContract_Activate(t *testing.T) {
	t.Run("activates a draft contract", func(t *testing.T) {
		contract := createTestContract(t)
		start := time.Now()
		due := start.AddDate(0, 0, 7)

		require.NoError(t, contract.Activate(start, due))

		assert.Equal(t, ContractStatusActive, contract.Status)
		assert.NotNil(t, contract.StartDate)
		assert.NotNil(t, contract.DueDate)
	})

	t.Run("rejects due date before start", func(t *testing.T) {
		contract := createTestContract(t)
		start := time.Now()
		require.Error(t, contract.Activate(start, start.AddDate(0, 0, -1)))
	})

	t.Run("cannot activate twice", func(t *testing.T) {
		contract := createTestContract(t)
		start := time.Now()
		require.NoError(t, contract.Activate(start, start.AddDate(0, 0, 1)))
		require.Error(t, contract.Activate(start, start.AddDate(0, 0, 2)))
	})
}

func TestRentalContract_Close(t *testing.T) {
	newActiveContract := func(t *testing.T, days int) *RentalContract {
		t.Helper()
		contract := createTestContract(t)
		start := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
		require.NoError(t, contract.Activate(start, start.AddDate(0, 0, days)))
		return contract
	}

	t.Run("charges full days at the daily rate", func(t *testing.T) {
		contract := newActiveContract(t, 7)

		returned := contract.StartDate.AddDate(0, 0, 5)
		require.NoError(t, contract.Close(returned))

		assert.Equal(t, ContractStatusClosed, contract.Status)
		// 5 days * 20
		assert.True(t, decimal.NewFromInt(100).Equal(contract.TotalCharge))
	})

	t.Run("same-day return is charged one day", func(t *testing.T) {
		contract := newActiveContract(t, 7)

		require.NoError(t, contract.Close(contract.StartDate.Add(2*time.Hour)))

		assert.True(t, decimal.NewFromInt(20).Equal(contract.TotalCharge))
	})

	t.Run("overdue days carry the surcharge", func(t *testing.T) {
		contract := newActiveContract(t, 7)
		require.NoError(t, contract.MarkOverdue(contract.DueDate.AddDate(0, 0, 2)))

		returned := contract.DueDate.AddDate(0, 0, 2)
		require.NoError(t, contract.Close(returned))

		// 7 regular days * 20 + 2 overdue days * 20 * 1.5
		assert.True(t, decimal.NewFromInt(200).Equal(contract.TotalCharge))
	})

	t.Run("rejects return before start", func(t *testing.T) {
		contract := newActiveContract(t, 7)
		require.Error(t, contract.Close(contract.StartDate.AddDate(0, 0, -1)))
	})

	t.Run("cannot close a draft contract", func(t *testing.T) {
		contract := createTestContract(t)
		require.Error(t, contract.Close(time.Now()))
	})
}

func TestRentalContract_Overdue(t *testing.T) {
	contract := createTestContract(t)
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	due := start.AddDate(0, 0, 3)
	require.NoError(t, contract.Activate(start, due))

	t.Run("not past due before the due date", func(t *testing.T) {
		assert.False(t, contract.IsPastDue(due.Add(-time.Hour)))
		require.Error(t, contract.MarkOverdue(due.Add(-time.Hour)))
	})

	t.Run("marks overdue after the due date", func(t *testing.T) {
		assert.True(t, contract.IsPastDue(due.Add(time.Hour)))
		require.NoError(t, contract.MarkOverdue(due.Add(time.Hour)))
		assert.Equal(t, ContractStatusOverdue, contract.Status)
	})
}

func TestRentalContract_Cancel(t *testing.T) {
	t.Run("cancels a draft contract", func(t *testing.T) {
		contract := createTestContract(t)
		require.NoError(t, contract.Cancel("customer no-show"))
		assert.Equal(t, ContractStatusCancelled, contract.Status)
	})

	t.Run("cannot cancel an active contract", func(t *testing.T) {
		contract := createTestContract(t)
		start := time.Now()
		require.NoError(t, contract.Activate(start, start.AddDate(0, 0, 1)))
		require.Error(t, contract.Cancel("too late"))
	})
}
