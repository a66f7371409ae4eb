package quality

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestCheck(t *testing.T) *QualityCheck {
	t.Helper()
	check, err := NewQualityCheck("QC-20260831-0001", ReferenceTypeGoodsReceipt, uuid.New())
	require.NoError(t, err)
	return check
}

func TestQualityCheck_Pass(t *testing.T) {
	t.Run("passes when all lines passed", func(t *testing.T) {
		check := createTestCheck(t)
		require.NoError(t, check.AddLine("frame undamaged"))
		require.NoError(t, check.AddLine("battery charges"))
		for _, line := range check.Lines {
			require.NoError(t, check.RecordLineResult(line.ID, true, ""))
		}

		inspector := uuid.New()
		require.NoError(t, check.Pass(inspector))

		assert.Equal(t, CheckStatusPassed, check.Status)
		assert.Equal(t, inspector, *check.InspectorID)
		assert.False(t, check.IsOpen())
	})

	t.Run("refuses pass with unrecorded lines", func(t *testing.T) {
		check := createTestCheck(t)
		require.NoError(t, check.AddLine("frame undamaged"))

		require.Error(t, check.Pass(uuid.New()))
		assert.Equal(t, CheckStatusDraft, check.Status)
	})

	t.Run("refuses pass with a failed line", func(t *testing.T) {
		check := createTestCheck(t)
		require.NoError(t, check.AddLine("frame undamaged"))
		require.NoError(t, check.RecordLineResult(check.Lines[0].ID, false, "cracked weld"))

		require.Error(t, check.Pass(uuid.New()))
	})
}

func TestQualityCheck_Fail(t *testing.T) {
	t.Run("fails with remarks", func(t *testing.T) {
		check := createTestCheck(t)
		require.NoError(t, check.Fail(uuid.New(), "water damage on controller"))

		assert.Equal(t, CheckStatusFailed, check.Status)
		assert.Equal(t, "water damage on controller", check.Remarks)
	})

	t.Run("requires remarks", func(t *testing.T) {
		check := createTestCheck(t)
		require.Error(t, check.Fail(uuid.New(), ""))
	})

	t.Run("closed checks are terminal", func(t *testing.T) {
		check := createTestCheck(t)
		require.NoError(t, check.Fail(uuid.New(), "damaged"))

		require.Error(t, check.Pass(uuid.New()))
		require.Error(t, check.Fail(uuid.New(), "again"))
		require.Error(t, check.AddLine("late line"))
	})
}

func TestNewQualityCheck_Validation(t *testing.T) {
	_, err := NewQualityCheck("QC-20260831-0002", "SALES_ORDER", uuid.New())
	require.Error(t, err)

	_, err = NewQualityCheck("", ReferenceTypeRepairOrder, uuid.New())
	require.Error(t, err)
}
