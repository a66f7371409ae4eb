package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/velocore/backend/internal/domain/catalog"
	"github.com/velocore/backend/internal/domain/shared"
)

// newMockItemRepository creates a GormItemRepository over a mocked SQL connection
func newMockItemRepository(t *testing.T) (*GormItemRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormItemRepository(gormDB), mock, mockDB
}

func TestGormItemRepository_FindByID(t *testing.T) {
	t.Run("finds existing item", func(t *testing.T) {
		repo, mock, mockDB := newMockItemRepository(t)
		defer mockDB.Close()

		itemID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "code", "name", "item_type", "unit", "is_active"}).
			AddRow(itemID, "BAT-48V", "48V Battery Pack", "BATTERY", "pcs", true)

		mock.ExpectQuery(`SELECT \* FROM "items" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(itemID, 1).
			WillReturnRows(rows)

		item, err := repo.FindByID(context.Background(), itemID)

		require.NoError(t, err)
		require.NotNil(t, item)
		assert.Equal(t, itemID, item.ID)
		assert.Equal(t, "BAT-48V", item.Code)
		assert.Equal(t, catalog.ItemTypeBattery, item.ItemType)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns nil for missing item", func(t *testing.T) {
		repo, mock, mockDB := newMockItemRepository(t)
		defer mockDB.Close()

		itemID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "items" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(itemID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		item, err := repo.FindByID(context.Background(), itemID)

		require.NoError(t, err)
		assert.Nil(t, item)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormItemRepository_ExistsByCode(t *testing.T) {
	repo, mock, mockDB := newMockItemRepository(t)
	defer mockDB.Close()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "items" WHERE code = \$1`).
		WithArgs("BAT-48V").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	exists, err := repo.ExistsByCode(context.Background(), " BAT-48V ")

	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormItemRepository_Delete_NotFound(t *testing.T) {
	repo, mock, mockDB := newMockItemRepository(t)
	defer mockDB.Close()

	itemID := uuid.New()

	mock.ExpectExec(`DELETE FROM "items" WHERE id = \$1`).
		WithArgs(itemID).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), itemID)

	assert.ErrorIs(t, err, shared.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
