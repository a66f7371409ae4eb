package rental

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	appinventory "github.com/velocore/backend/internal/application/inventory"
	"github.com/velocore/backend/internal/domain/rental"
	"github.com/velocore/backend/internal/domain/shared"
)

// CreateAssetCommand is the input for registering a fleet asset
type CreateAssetCommand struct {
	Code            string
	Model           string
	SerialNumber    string
	AcquisitionCost decimal.Decimal
	AcquiredAt      *time.Time
	Notes           string
}

// CreateContractCommand is the input for creating a draft rental contract
type CreateContractCommand struct {
	AssetID       uuid.UUID
	CustomerName  string
	CustomerPhone string
	DailyRate     decimal.Decimal
	Notes         string
}

// RentalService manages the fleet and its rental contracts. Renting and
// returning change the contract and the asset together in one transaction.
type RentalService struct {
	scope        appinventory.TransactionScope
	assetRepo    rental.AssetRepository
	contractRepo rental.RentalContractRepository
}

// NewRentalService creates a new RentalService
func NewRentalService(
	scope appinventory.TransactionScope,
	assetRepo rental.AssetRepository,
	contractRepo rental.RentalContractRepository,
) *RentalService {
	return &RentalService{scope: scope, assetRepo: assetRepo, contractRepo: contractRepo}
}

// RegisterAsset adds a new asset to the fleet
func (s *RentalService) RegisterAsset(ctx context.Context, cmd CreateAssetCommand) (*rental.Asset, error) {
	var asset *rental.Asset
	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		exists, err := repos.Assets().ExistsByCode(ctx, cmd.Code)
		if err != nil {
			return err
		}
		if exists {
			return shared.NewDomainError("ALREADY_EXISTS", "Asset code is already taken")
		}

		asset, err = rental.NewAsset(cmd.Code, cmd.Model, cmd.AcquisitionCost)
		if err != nil {
			return err
		}
		asset.SerialNumber = cmd.SerialNumber
		asset.AcquiredAt = cmd.AcquiredAt
		asset.Notes = cmd.Notes

		return repos.Assets().Save(ctx, asset)
	})
	if err != nil {
		return nil, err
	}
	return asset, nil
}

// RetireAsset permanently removes an asset from service
func (s *RentalService) RetireAsset(ctx context.Context, assetID uuid.UUID) (*rental.Asset, error) {
	return s.assetTransition(ctx, assetID, func(a *rental.Asset) error {
		return a.Retire()
	})
}

// MarkAssetLost records an asset as lost or stolen
func (s *RentalService) MarkAssetLost(ctx context.Context, assetID uuid.UUID) (*rental.Asset, error) {
	return s.assetTransition(ctx, assetID, func(a *rental.Asset) error {
		return a.MarkLost()
	})
}

// GetAsset returns an asset by ID
func (s *RentalService) GetAsset(ctx context.Context, id uuid.UUID) (*rental.Asset, error) {
	asset, err := s.assetRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if asset == nil {
		return nil, shared.ErrNotFound
	}
	return asset, nil
}

// ListAssets returns fleet assets matching the filter
func (s *RentalService) ListAssets(ctx context.Context, filter rental.AssetFilter) (*shared.Paginated[rental.Asset], error) {
	assets, err := s.assetRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.assetRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	return shared.NewPaginated(assets, total, filter.Filter), nil
}

// CreateContract allocates a contract number and saves a draft contract. The
// asset must be rentable at creation time; the final check happens again when
// the contract is activated.
func (s *RentalService) CreateContract(ctx context.Context, cmd CreateContractCommand) (*rental.RentalContract, error) {
	var contract *rental.RentalContract
	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		asset, err := repos.Assets().FindByID(ctx, cmd.AssetID)
		if err != nil {
			return err
		}
		if asset == nil {
			return shared.NewDomainError("ASSET_NOT_FOUND", "Referenced asset does not exist")
		}
		if result := rental.CanRent(asset); !result.Allowed {
			return shared.NewDomainError("ASSET_UNAVAILABLE", result.Reason)
		}

		number, err := appinventory.NextDocumentNumber(ctx, repos, rental.ContractNumberPrefix)
		if err != nil {
			return err
		}

		contract, err = rental.NewRentalContract(number, cmd.AssetID, cmd.CustomerName, cmd.DailyRate)
		if err != nil {
			return err
		}
		contract.CustomerPhone = cmd.CustomerPhone
		contract.Notes = cmd.Notes

		return repos.Contracts().Save(ctx, contract)
	})
	if err != nil {
		return nil, err
	}
	return contract, nil
}

// Rent activates a draft contract and marks the asset rented in one
// transaction. The asset row is locked so two contracts cannot claim it.
func (s *RentalService) Rent(ctx context.Context, contractID uuid.UUID, startDate, dueDate time.Time) (*rental.RentalContract, error) {
	var contract *rental.RentalContract
	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		var err error
		contract, err = repos.Contracts().FindByIDForUpdate(ctx, contractID)
		if err != nil {
			return err
		}
		if contract == nil {
			return shared.ErrNotFound
		}

		asset, err := repos.Assets().FindByIDForUpdate(ctx, contract.AssetID)
		if err != nil {
			return err
		}
		if asset == nil {
			return shared.NewDomainError("ASSET_NOT_FOUND", "Contract references a missing asset")
		}

		if err := contract.Activate(startDate, dueDate); err != nil {
			return err
		}
		if err := asset.MarkRented(); err != nil {
			return err
		}

		if err := repos.Assets().SaveWithLock(ctx, asset); err != nil {
			return err
		}
		return repos.Contracts().SaveWithLock(ctx, contract)
	})
	if err != nil {
		return nil, err
	}
	return contract, nil
}

// Return closes a contract, computes the charge and frees the asset in one
// transaction.
func (s *RentalService) Return(ctx context.Context, contractID uuid.UUID, returnedDate time.Time) (*rental.RentalContract, error) {
	var contract *rental.RentalContract
	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		var err error
		contract, err = repos.Contracts().FindByIDForUpdate(ctx, contractID)
		if err != nil {
			return err
		}
		if contract == nil {
			return shared.ErrNotFound
		}

		asset, err := repos.Assets().FindByIDForUpdate(ctx, contract.AssetID)
		if err != nil {
			return err
		}
		if asset == nil {
			return shared.NewDomainError("ASSET_NOT_FOUND", "Contract references a missing asset")
		}

		if err := contract.Close(returnedDate); err != nil {
			return err
		}
		if err := asset.MarkReturned(); err != nil {
			return err
		}

		if err := repos.Assets().SaveWithLock(ctx, asset); err != nil {
			return err
		}
		return repos.Contracts().SaveWithLock(ctx, contract)
	})
	if err != nil {
		return nil, err
	}
	return contract, nil
}

// CancelContract aborts a draft contract
func (s *RentalService) CancelContract(ctx context.Context, contractID uuid.UUID, reason string) (*rental.RentalContract, error) {
	var contract *rental.RentalContract
	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		var err error
		contract, err = repos.Contracts().FindByID(ctx, contractID)
		if err != nil {
			return err
		}
		if contract == nil {
			return shared.ErrNotFound
		}
		if err := contract.Cancel(reason); err != nil {
			return err
		}
		return repos.Contracts().SaveWithLock(ctx, contract)
	})
	if err != nil {
		return nil, err
	}
	return contract, nil
}

// SweepOverdue flags every active contract whose due date has passed. Returns
// the number of contracts flagged.
func (s *RentalService) SweepOverdue(ctx context.Context, now time.Time) (int, error) {
	flagged := 0
	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		status := rental.ContractStatusActive
		contracts, err := repos.Contracts().FindAll(ctx, rental.ContractFilter{
			Status:    &status,
			DueBefore: &now,
		})
		if err != nil {
			return err
		}

		for i := range contracts {
			contract := &contracts[i]
			if !contract.IsPastDue(now) {
				continue
			}
			if err := contract.MarkOverdue(now); err != nil {
				return err
			}
			if err := repos.Contracts().SaveWithLock(ctx, contract); err != nil {
				return err
			}
			flagged++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return flagged, nil
}

// GetContract returns a contract by ID
func (s *RentalService) GetContract(ctx context.Context, id uuid.UUID) (*rental.RentalContract, error) {
	contract, err := s.contractRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if contract == nil {
		return nil, shared.ErrNotFound
	}
	return contract, nil
}

// ListContracts returns contracts matching the filter
func (s *RentalService) ListContracts(ctx context.Context, filter rental.ContractFilter) (*shared.Paginated[rental.RentalContract], error) {
	contracts, err := s.contractRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.contractRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	return shared.NewPaginated(contracts, total, filter.Filter), nil
}

func (s *RentalService) assetTransition(
	ctx context.Context,
	id uuid.UUID,
	apply func(*rental.Asset) error,
) (*rental.Asset, error) {
	var asset *rental.Asset
	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		var err error
		asset, err = repos.Assets().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if asset == nil {
			return shared.ErrNotFound
		}
		if err := apply(asset); err != nil {
			return err
		}
		return repos.Assets().SaveWithLock(ctx, asset)
	})
	if err != nil {
		return nil, err
	}
	return asset, nil
}
