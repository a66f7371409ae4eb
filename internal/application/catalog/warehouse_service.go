package catalog

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/velocore/backend/internal/domain/catalog"
	"github.com/velocore/backend/internal/domain/inventory"
	"github.com/velocore/backend/internal/domain/shared"
)

// WarehouseService manages the warehouse master data
type WarehouseService struct {
	warehouseRepo catalog.WarehouseRepository
	balanceRepo   inventory.StockBalanceRepository
	logger        *zap.Logger
}

// NewWarehouseService creates a new WarehouseService
func NewWarehouseService(
	warehouseRepo catalog.WarehouseRepository,
	balanceRepo inventory.StockBalanceRepository,
	logger *zap.Logger,
) *WarehouseService {
	return &WarehouseService{warehouseRepo: warehouseRepo, balanceRepo: balanceRepo, logger: logger}
}

// Create creates a new warehouse. Warehouse codes are unique.
func (s *WarehouseService) Create(ctx context.Context, cmd CreateWarehouseCommand) (*catalog.Warehouse, error) {
	exists, err := s.warehouseRepo.ExistsByCode(ctx, cmd.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A warehouse with this code already exists")
	}

	warehouse, err := catalog.NewWarehouse(cmd.Code, cmd.Name)
	if err != nil {
		return nil, err
	}
	if cmd.Address != "" {
		warehouse.SetAddress(cmd.Address)
	}

	if err := s.warehouseRepo.Save(ctx, warehouse); err != nil {
		return nil, err
	}

	s.logger.Info("warehouse created",
		zap.String("warehouse_id", warehouse.ID.String()),
		zap.String("code", warehouse.Code))
	return warehouse, nil
}

// Update updates warehouse master data. The code is immutable.
func (s *WarehouseService) Update(ctx context.Context, id uuid.UUID, cmd UpdateWarehouseCommand) (*catalog.Warehouse, error) {
	warehouse, err := s.warehouseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if warehouse == nil {
		return nil, shared.ErrNotFound
	}

	if cmd.Name != nil {
		if *cmd.Name == "" {
			return nil, shared.NewDomainError("INVALID_NAME", "Warehouse name cannot be empty")
		}
		warehouse.Name = *cmd.Name
	}
	if cmd.Address != nil {
		warehouse.SetAddress(*cmd.Address)
	}

	if err := s.warehouseRepo.Save(ctx, warehouse); err != nil {
		return nil, err
	}
	return warehouse, nil
}

// Deactivate marks a warehouse inactive. Warehouses still holding stock
// cannot be deactivated.
func (s *WarehouseService) Deactivate(ctx context.Context, id uuid.UUID) (*catalog.Warehouse, error) {
	warehouse, err := s.warehouseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if warehouse == nil {
		return nil, shared.ErrNotFound
	}

	if err := s.requireEmpty(ctx, id); err != nil {
		return nil, err
	}

	warehouse.Deactivate()
	if err := s.warehouseRepo.Save(ctx, warehouse); err != nil {
		return nil, err
	}
	return warehouse, nil
}

// Activate reactivates a warehouse
func (s *WarehouseService) Activate(ctx context.Context, id uuid.UUID) (*catalog.Warehouse, error) {
	warehouse, err := s.warehouseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if warehouse == nil {
		return nil, shared.ErrNotFound
	}

	warehouse.Activate()
	if err := s.warehouseRepo.Save(ctx, warehouse); err != nil {
		return nil, err
	}
	return warehouse, nil
}

// Get returns a warehouse by ID
func (s *WarehouseService) Get(ctx context.Context, id uuid.UUID) (*catalog.Warehouse, error) {
	warehouse, err := s.warehouseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if warehouse == nil {
		return nil, shared.ErrNotFound
	}
	return warehouse, nil
}

// List returns warehouses matching the filter
func (s *WarehouseService) List(ctx context.Context, filter catalog.WarehouseFilter) (*shared.Paginated[catalog.Warehouse], error) {
	warehouses, err := s.warehouseRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.warehouseRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	return shared.NewPaginated(warehouses, total, filter.Filter), nil
}

// Delete removes a warehouse that has no stock history
func (s *WarehouseService) Delete(ctx context.Context, id uuid.UUID) error {
	warehouseID := id
	count, err := s.balanceRepo.Count(ctx, inventory.BalanceFilter{WarehouseID: &warehouseID})
	if err != nil {
		return err
	}
	if count > 0 {
		return shared.NewDomainError("WAREHOUSE_IN_USE", "Warehouses with stock history cannot be deleted")
	}
	return s.warehouseRepo.Delete(ctx, id)
}

// requireEmpty fails when any balance row in the warehouse still carries stock
func (s *WarehouseService) requireEmpty(ctx context.Context, warehouseID uuid.UUID) error {
	id := warehouseID
	count, err := s.balanceRepo.Count(ctx, inventory.BalanceFilter{
		WarehouseID:   &id,
		WithStockOnly: true,
	})
	if err != nil {
		return err
	}
	if count > 0 {
		return shared.NewDomainError("WAREHOUSE_NOT_EMPTY", "Warehouses holding stock cannot be deactivated")
	}
	return nil
}
