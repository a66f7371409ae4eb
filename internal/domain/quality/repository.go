package quality

import (
	"context"

	"github.com/google/uuid"

	"github.com/velocore/backend/internal/domain/shared"
)

// CheckFilter is the query specification for quality check lookups
type CheckFilter struct {
	shared.Filter
	Status        *CheckStatus
	ReferenceType string
	ReferenceID   *uuid.UUID
}

// QualityCheckRepository defines the interface for quality check persistence
type QualityCheckRepository interface {
	// FindByID finds a check by ID with its lines preloaded
	FindByID(ctx context.Context, id uuid.UUID) (*QualityCheck, error)

	// FindByNumber finds a check by its document number
	FindByNumber(ctx context.Context, number string) (*QualityCheck, error)

	// FindAll finds checks matching the filter
	FindAll(ctx context.Context, filter CheckFilter) ([]QualityCheck, error)

	// FindLatestByReference finds the most recent check for a document
	FindLatestByReference(ctx context.Context, referenceType string, referenceID uuid.UUID) (*QualityCheck, error)

	// Save creates or updates a check and its lines
	Save(ctx context.Context, check *QualityCheck) error

	// SaveWithLock saves with an optimistic version check
	SaveWithLock(ctx context.Context, check *QualityCheck) error

	// Delete removes a draft check
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts checks matching the filter
	Count(ctx context.Context, filter CheckFilter) (int64, error)
}
