package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/velocore/backend/internal/domain/shared"
)

// ItemFilter is the explicit query specification for item lookups
type ItemFilter struct {
	shared.Filter
	ItemType   *ItemType
	ActiveOnly bool
}

// ItemRepository defines the interface for item persistence
type ItemRepository interface {
	// FindByID finds an item by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Item, error)

	// FindByCode finds an item by its unique code
	FindByCode(ctx context.Context, code string) (*Item, error)

	// FindAll finds items matching the filter
	FindAll(ctx context.Context, filter ItemFilter) ([]Item, error)

	// FindByIDs finds multiple items by their IDs
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Item, error)

	// Save creates or updates an item
	Save(ctx context.Context, item *Item) error

	// Delete deletes an item
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts items matching the filter
	Count(ctx context.Context, filter ItemFilter) (int64, error)

	// ExistsByCode checks whether an item code is already taken
	ExistsByCode(ctx context.Context, code string) (bool, error)
}

// WarehouseFilter is the explicit query specification for warehouse lookups
type WarehouseFilter struct {
	shared.Filter
	ActiveOnly bool
}

// WarehouseRepository defines the interface for warehouse persistence
type WarehouseRepository interface {
	// FindByID finds a warehouse by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Warehouse, error)

	// FindByCode finds a warehouse by its unique code
	FindByCode(ctx context.Context, code string) (*Warehouse, error)

	// FindAll finds warehouses matching the filter
	FindAll(ctx context.Context, filter WarehouseFilter) ([]Warehouse, error)

	// Save creates or updates a warehouse
	Save(ctx context.Context, warehouse *Warehouse) error

	// Delete deletes a warehouse
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts warehouses matching the filter
	Count(ctx context.Context, filter WarehouseFilter) (int64, error)

	// ExistsByCode checks whether a warehouse code is already taken
	ExistsByCode(ctx context.Context, code string) (bool, error)
}
