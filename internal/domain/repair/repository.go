package repair

import (
	"context"

	"github.com/google/uuid"

	"github.com/velocore/backend/internal/domain/shared"
)

// OrderFilter is the query specification for repair order lookups
type OrderFilter struct {
	shared.Filter
	Status       *RepairStatus
	AssetID      *uuid.UUID
	TechnicianID *uuid.UUID
}

// RepairOrderRepository defines the interface for repair order persistence
type RepairOrderRepository interface {
	// FindByID finds a repair order by ID
	FindByID(ctx context.Context, id uuid.UUID) (*RepairOrder, error)

	// FindByIDForUpdate finds a repair order taking a row lock.
	// Must be called inside a transaction scope.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*RepairOrder, error)

	// FindByNumber finds a repair order by its document number
	FindByNumber(ctx context.Context, number string) (*RepairOrder, error)

	// FindAll finds repair orders matching the filter
	FindAll(ctx context.Context, filter OrderFilter) ([]RepairOrder, error)

	// FindOpenByAsset finds repairs for an asset that are not completed or
	// cancelled
	FindOpenByAsset(ctx context.Context, assetID uuid.UUID) ([]RepairOrder, error)

	// Save creates or updates a repair order
	Save(ctx context.Context, order *RepairOrder) error

	// SaveWithLock saves with an optimistic version check
	SaveWithLock(ctx context.Context, order *RepairOrder) error

	// Delete removes a repair order that never started
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts repair orders matching the filter
	Count(ctx context.Context, filter OrderFilter) (int64, error)
}
