package catalog

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/velocore/backend/internal/domain/catalog"
	"github.com/velocore/backend/internal/domain/inventory"
	"github.com/velocore/backend/internal/domain/shared"
)

// ItemService manages the item master data
type ItemService struct {
	itemRepo    catalog.ItemRepository
	balanceRepo inventory.StockBalanceRepository
	logger      *zap.Logger
}

// NewItemService creates a new ItemService
func NewItemService(
	itemRepo catalog.ItemRepository,
	balanceRepo inventory.StockBalanceRepository,
	logger *zap.Logger,
) *ItemService {
	return &ItemService{itemRepo: itemRepo, balanceRepo: balanceRepo, logger: logger}
}

// Create creates a new item. Item codes are unique.
func (s *ItemService) Create(ctx context.Context, cmd CreateItemCommand) (*catalog.Item, error) {
	exists, err := s.itemRepo.ExistsByCode(ctx, cmd.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "An item with this code already exists")
	}

	item, err := catalog.NewItem(cmd.Code, cmd.Name, cmd.ItemType, cmd.Unit)
	if err != nil {
		return nil, err
	}
	if cmd.BatchTracked {
		item.EnableBatchTracking()
	}
	if cmd.SerialTracked {
		item.EnableSerialTracking()
	}
	if err := item.SetStandardCost(cmd.StandardCost); err != nil {
		return nil, err
	}
	if err := item.SetReorderLevel(cmd.ReorderLevel); err != nil {
		return nil, err
	}
	item.Description = cmd.Description

	if err := s.itemRepo.Save(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info("item created",
		zap.String("item_id", item.ID.String()),
		zap.String("code", item.Code))
	return item, nil
}

// Update updates item master data. Code, item type and tracking flags are
// immutable once the item exists; tracking changes would invalidate the
// balance key layout of existing stock.
func (s *ItemService) Update(ctx context.Context, id uuid.UUID, cmd UpdateItemCommand) (*catalog.Item, error) {
	item, err := s.itemRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, shared.ErrNotFound
	}

	if cmd.Name != nil {
		if *cmd.Name == "" {
			return nil, shared.NewDomainError("INVALID_NAME", "Item name cannot be empty")
		}
		item.Name = *cmd.Name
	}
	if cmd.Unit != nil {
		if *cmd.Unit == "" {
			return nil, shared.NewDomainError("INVALID_UNIT", "Unit cannot be empty")
		}
		item.Unit = *cmd.Unit
	}
	if cmd.StandardCost != nil {
		if err := item.SetStandardCost(*cmd.StandardCost); err != nil {
			return nil, err
		}
	}
	if cmd.ReorderLevel != nil {
		if err := item.SetReorderLevel(*cmd.ReorderLevel); err != nil {
			return nil, err
		}
	}
	if cmd.Description != nil {
		item.Description = *cmd.Description
	}

	if err := s.itemRepo.Save(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// Deactivate marks an item inactive. Items with stock on hand cannot be
// deactivated.
func (s *ItemService) Deactivate(ctx context.Context, id uuid.UUID) (*catalog.Item, error) {
	item, err := s.itemRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, shared.ErrNotFound
	}

	onHand, err := s.balanceRepo.SumQuantityByItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if !onHand.IsZero() {
		return nil, shared.NewDomainError("ITEM_HAS_STOCK", "Items with stock on hand cannot be deactivated")
	}

	item.Deactivate()
	if err := s.itemRepo.Save(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// Activate reactivates an item
func (s *ItemService) Activate(ctx context.Context, id uuid.UUID) (*catalog.Item, error) {
	item, err := s.itemRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, shared.ErrNotFound
	}

	item.Activate()
	if err := s.itemRepo.Save(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// Get returns an item by ID
func (s *ItemService) Get(ctx context.Context, id uuid.UUID) (*catalog.Item, error) {
	item, err := s.itemRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, shared.ErrNotFound
	}
	return item, nil
}

// GetByCode returns an item by its code
func (s *ItemService) GetByCode(ctx context.Context, code string) (*catalog.Item, error) {
	item, err := s.itemRepo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, shared.ErrNotFound
	}
	return item, nil
}

// List returns items matching the filter
func (s *ItemService) List(ctx context.Context, filter catalog.ItemFilter) (*shared.Paginated[catalog.Item], error) {
	items, err := s.itemRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.itemRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	return shared.NewPaginated(items, total, filter.Filter), nil
}

// Delete removes an item that has no stock history
func (s *ItemService) Delete(ctx context.Context, id uuid.UUID) error {
	itemID := id
	count, err := s.balanceRepo.Count(ctx, inventory.BalanceFilter{ItemID: &itemID})
	if err != nil {
		return err
	}
	if count > 0 {
		return shared.NewDomainError("ITEM_IN_USE", "Items with stock history cannot be deleted")
	}
	return s.itemRepo.Delete(ctx, id)
}
