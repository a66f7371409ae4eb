package manufacturing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBillOfMaterial(t *testing.T) {
	t.Run("builds and activates a revision", func(t *testing.T) {
		bom, err := NewBillOfMaterial(uuid.New(), 1)
		require.NoError(t, err)

		require.NoError(t, bom.AddComponent(uuid.New(), decimal.NewFromInt(2), decimal.Zero, "wheels"))
		require.NoError(t, bom.AddComponent(uuid.New(), decimal.NewFromInt(1), decimal.Zero, "frame"))
		require.NoError(t, bom.Activate())

		assert.True(t, bom.IsActive)
	})

	t.Run("cannot activate an empty BOM", func(t *testing.T) {
		bom, err := NewBillOfMaterial(uuid.New(), 1)
		require.NoError(t, err)
		require.Error(t, bom.Activate())
	})

	t.Run("active revisions are immutable", func(t *testing.T) {
		bom, err := NewBillOfMaterial(uuid.New(), 1)
		require.NoError(t, err)
		componentID := uuid.New()
		require.NoError(t, bom.AddComponent(componentID, decimal.NewFromInt(1), decimal.Zero, ""))
		require.NoError(t, bom.Activate())

		require.Error(t, bom.AddComponent(uuid.New(), decimal.NewFromInt(1), decimal.Zero, ""))
		require.Error(t, bom.RemoveComponent(componentID))
	})

	t.Run("rejects duplicate and self-referencing components", func(t *testing.T) {
		finishedID := uuid.New()
		bom, err := NewBillOfMaterial(finishedID, 1)
		require.NoError(t, err)

		componentID := uuid.New()
		require.NoError(t, bom.AddComponent(componentID, decimal.NewFromInt(1), decimal.Zero, ""))
		require.Error(t, bom.AddComponent(componentID, decimal.NewFromInt(2), decimal.Zero, ""))
		require.Error(t, bom.AddComponent(finishedID, decimal.NewFromInt(1), decimal.Zero, ""))
	})
}

func TestBillOfMaterial_Explode(t *testing.T) {
	bom, err := NewBillOfMaterial(uuid.New(), 1)
	require.NoError(t, err)

	wheels := uuid.New()
	cells := uuid.New()
	require.NoError(t, bom.AddComponent(wheels, decimal.NewFromInt(2), decimal.Zero, ""))
	require.NoError(t, bom.AddComponent(cells, decimal.NewFromInt(40), decimal.NewFromFloat(0.05), ""))

	t.Run("scales quantities and applies scrap", func(t *testing.T) {
		requirements, err := bom.Explode(decimal.NewFromInt(5))
		require.NoError(t, err)
		require.Len(t, requirements, 2)

		assert.Equal(t, wheels, requirements[0].ComponentItemID)
		assert.True(t, decimal.NewFromInt(10).Equal(requirements[0].Quantity))

		// 40 * 5 * 1.05 = 210
		assert.Equal(t, cells, requirements[1].ComponentItemID)
		assert.True(t, decimal.NewFromInt(210).Equal(requirements[1].Quantity))
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		_, err := bom.Explode(decimal.Zero)
		require.Error(t, err)
	})
}
