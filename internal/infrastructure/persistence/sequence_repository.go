package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/velocore/backend/internal/domain/shared"
)

// sequenceRow is one named counter
type sequenceRow struct {
	Key   string `gorm:"type:varchar(100);primaryKey"`
	Value int64  `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (sequenceRow) TableName() string {
	return "sequences"
}

// GormSequenceRepository allocates sequence values with an atomic upsert.
// When called on a transaction-bound connection the allocated value commits
// or rolls back with the caller's unit of work.
type GormSequenceRepository struct {
	db *gorm.DB
}

// NewGormSequenceRepository creates a new GormSequenceRepository
func NewGormSequenceRepository(db *gorm.DB) *GormSequenceRepository {
	return &GormSequenceRepository{db: db}
}

// Next returns the next value for the given sequence key. The upsert takes a
// row lock, so concurrent allocations for the same key serialize.
func (r *GormSequenceRepository) Next(ctx context.Context, key string) (int64, error) {
	var value int64
	err := r.db.WithContext(ctx).Raw(
		`INSERT INTO sequences (key, value) VALUES (?, 1)
		 ON CONFLICT (key) DO UPDATE SET value = sequences.value + 1
		 RETURNING value`, key,
	).Scan(&value).Error
	if err != nil {
		return 0, err
	}
	return value, nil
}

var _ shared.NumberGenerator = (*GormSequenceRepository)(nil)
