package rental

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/velocore/backend/internal/domain/shared"
)

// AssetFilter is the query specification for asset lookups
type AssetFilter struct {
	shared.Filter
	Status     *AssetStatus
	Model      string
	ActiveOnly bool
}

// AssetRepository defines the interface for asset persistence
type AssetRepository interface {
	// FindByID finds an asset by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Asset, error)

	// FindByIDForUpdate finds an asset taking a row lock.
	// Must be called inside a transaction scope.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Asset, error)

	// FindByCode finds an asset by its code
	FindByCode(ctx context.Context, code string) (*Asset, error)

	// FindAll finds assets matching the filter
	FindAll(ctx context.Context, filter AssetFilter) ([]Asset, error)

	// Save creates or updates an asset
	Save(ctx context.Context, asset *Asset) error

	// SaveWithLock saves with an optimistic version check
	SaveWithLock(ctx context.Context, asset *Asset) error

	// Delete removes an asset
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts assets matching the filter
	Count(ctx context.Context, filter AssetFilter) (int64, error)

	// ExistsByCode checks if an asset with the code exists
	ExistsByCode(ctx context.Context, code string) (bool, error)
}

// ContractFilter is the query specification for contract lookups
type ContractFilter struct {
	shared.Filter
	Status       *ContractStatus
	AssetID      *uuid.UUID
	CustomerName string
	DueBefore    *time.Time
}

// RentalContractRepository defines the interface for contract persistence
type RentalContractRepository interface {
	// FindByID finds a contract by ID
	FindByID(ctx context.Context, id uuid.UUID) (*RentalContract, error)

	// FindByIDForUpdate finds a contract taking a row lock.
	// Must be called inside a transaction scope.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*RentalContract, error)

	// FindByNumber finds a contract by its document number
	FindByNumber(ctx context.Context, number string) (*RentalContract, error)

	// FindAll finds contracts matching the filter
	FindAll(ctx context.Context, filter ContractFilter) ([]RentalContract, error)

	// FindActiveByAsset finds the open contract for an asset, if any
	FindActiveByAsset(ctx context.Context, assetID uuid.UUID) (*RentalContract, error)

	// Save creates or updates a contract
	Save(ctx context.Context, contract *RentalContract) error

	// SaveWithLock saves with an optimistic version check
	SaveWithLock(ctx context.Context, contract *RentalContract) error

	// Delete removes a draft contract
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts contracts matching the filter
	Count(ctx context.Context, filter ContractFilter) (int64, error)
}
