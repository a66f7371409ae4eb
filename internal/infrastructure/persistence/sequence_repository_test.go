package persistence

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	appinventory "github.com/velocore/backend/internal/application/inventory"
)

// newSQLiteDB opens a throwaway SQLite database for repository tests
func newSQLiteDB(t *testing.T, models ...interface{}) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models...))
	return db
}

func TestGormSequenceRepository_Next(t *testing.T) {
	db := newSQLiteDB(t, &sequenceRow{})
	repo := NewGormSequenceRepository(db)
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		got, err := repo.Next(ctx, "GR")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestGormSequenceRepository_Next_IndependentKeys(t *testing.T) {
	db := newSQLiteDB(t, &sequenceRow{})
	repo := NewGormSequenceRepository(db)
	ctx := context.Background()

	first, err := repo.Next(ctx, "PO")
	require.NoError(t, err)
	second, err := repo.Next(ctx, "RC")
	require.NoError(t, err)

	assert.Equal(t, int64(1), first)
	assert.Equal(t, int64(1), second)
}

func TestGormTransactionScope_RollsBackOnError(t *testing.T) {
	db := newSQLiteDB(t, &sequenceRow{})
	scope := NewGormTransactionScope(db)
	ctx := context.Background()

	boom := errors.New("boom")
	err := scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		value, err := repos.Numbers().Next(ctx, "TX")
		require.NoError(t, err)
		assert.Equal(t, int64(1), value)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	// The failed allocation must not consume the number
	var value int64
	err = scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		v, err := repos.Numbers().Next(ctx, "TX")
		value = v
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), value)
}
