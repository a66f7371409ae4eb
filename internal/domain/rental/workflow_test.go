package rental

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestAsset(t *testing.T) *Asset {
	t.Helper()
	asset, err := NewAsset("EB-001", "City Cruiser 500", decimal.NewFromInt(1200))
	require.NoError(t, err)
	return asset
}

func TestCanRent(t *testing.T) {
	t.Run("allows available active asset", func(t *testing.T) {
		asset := createTestAsset(t)
		result := CanRent(asset)
		assert.True(t, result.Allowed)
		assert.Empty(t, result.Reason)
	})

	t.Run("denies rented asset even when active", func(t *testing.T) {
		asset := createTestAsset(t)
		require.NoError(t, asset.MarkRented())
		require.True(t, asset.IsActive)

		result := CanRent(asset)
		assert.False(t, result.Allowed)
		assert.Equal(t, "Asset is not available", result.Reason)
	})

	t.Run("denies inactive asset", func(t *testing.T) {
		asset := createTestAsset(t)
		asset.Deactivate()

		result := CanRent(asset)
		assert.False(t, result.Allowed)
		assert.Equal(t, "Asset is not active", result.Reason)
	})

	t.Run("denies asset under repair", func(t *testing.T) {
		asset := createTestAsset(t)
		require.NoError(t, asset.MarkUnderRepair())

		assert.False(t, CanRent(asset).Allowed)
	})
}

func TestCanReturn(t *testing.T) {
	contract, err := NewRentalContract("RC-20260831-0001", createTestAsset(t).ID, "Alex Morgan", decimal.NewFromInt(20))
	require.NoError(t, err)

	t.Run("denies draft contract", func(t *testing.T) {
		assert.False(t, CanReturn(contract).Allowed)
	})

	t.Run("allows active and overdue contracts", func(t *testing.T) {
		contract.Status = ContractStatusActive
		assert.True(t, CanReturn(contract).Allowed)

		contract.Status = ContractStatusOverdue
		assert.True(t, CanReturn(contract).Allowed)
	})

	t.Run("denies closed contract", func(t *testing.T) {
		contract.Status = ContractStatusClosed
		assert.False(t, CanReturn(contract).Allowed)
	})
}

func TestCanRequestRepair(t *testing.T) {
	t.Run("allows rented asset", func(t *testing.T) {
		asset := createTestAsset(t)
		require.NoError(t, asset.MarkRented())
		assert.True(t, CanRequestRepair(asset).Allowed)
	})

	t.Run("denies retired asset", func(t *testing.T) {
		asset := createTestAsset(t)
		require.NoError(t, asset.Retire())
		assert.False(t, CanRequestRepair(asset).Allowed)
	})

	t.Run("denies lost asset", func(t *testing.T) {
		asset := createTestAsset(t)
		require.NoError(t, asset.MarkLost())
		assert.False(t, CanRequestRepair(asset).Allowed)
	})
}
