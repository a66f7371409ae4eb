package catalog

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/velocore/backend/internal/domain/shared"
)

// ItemType classifies an item in the master data
type ItemType string

const (
	// ItemTypeSparePart is a consumable spare part (brake pads, tubes, chains)
	ItemTypeSparePart ItemType = "SPARE_PART"
	// ItemTypeAccessory is a rentable or sellable accessory (helmets, locks)
	ItemTypeAccessory ItemType = "ACCESSORY"
	// ItemTypeBattery is a swappable e-bike battery pack
	ItemTypeBattery ItemType = "BATTERY"
	// ItemTypeAssembly is a finished assembly produced from components
	ItemTypeAssembly ItemType = "ASSEMBLY"
)

// IsValid returns true if the item type is valid
func (t ItemType) IsValid() bool {
	switch t {
	case ItemTypeSparePart, ItemTypeAccessory, ItemTypeBattery, ItemTypeAssembly:
		return true
	}
	return false
}

// Item represents a stock-managed item in the master data.
// Assets (the bikes themselves) are tracked separately in the rental domain;
// items cover everything that flows through the stock ledger.
type Item struct {
	shared.BaseAggregateRoot
	Code           string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name           string          `gorm:"type:varchar(200);not null"`
	ItemType       ItemType        `gorm:"type:varchar(20);not null;index"`
	Unit           string          `gorm:"type:varchar(20);not null"`
	BatchTracked   bool            `gorm:"not null;default:false"`
	SerialTracked  bool            `gorm:"not null;default:false"`
	StandardCost   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ReorderLevel   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Description    string          `gorm:"type:varchar(500)"`
	IsActive       bool            `gorm:"not null;default:true"`
	DeactivatedAt  *time.Time
}

// TableName returns the table name for GORM
func (Item) TableName() string {
	return "items"
}

// NewItem creates a new item
func NewItem(code, name string, itemType ItemType, unit string) (*Item, error) {
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Item code cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Item name cannot be empty")
	}
	if !itemType.IsValid() {
		return nil, shared.NewDomainError("INVALID_ITEM_TYPE", "Invalid item type")
	}
	if unit == "" {
		return nil, shared.NewDomainError("INVALID_UNIT", "Unit cannot be empty")
	}

	return &Item{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		Name:              name,
		ItemType:          itemType,
		Unit:              unit,
		StandardCost:      decimal.Zero,
		ReorderLevel:      decimal.Zero,
		IsActive:          true,
	}, nil
}

// SetStandardCost sets the standard cost used as a default for receipts
func (i *Item) SetStandardCost(cost decimal.Decimal) error {
	if cost.IsNegative() {
		return shared.NewDomainError("INVALID_COST", "Standard cost cannot be negative")
	}
	i.StandardCost = cost
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
	return nil
}

// SetReorderLevel sets the reorder threshold
func (i *Item) SetReorderLevel(level decimal.Decimal) error {
	if level.IsNegative() {
		return shared.NewDomainError("INVALID_QUANTITY", "Reorder level cannot be negative")
	}
	i.ReorderLevel = level
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
	return nil
}

// EnableBatchTracking turns on batch tracking for this item
func (i *Item) EnableBatchTracking() {
	i.BatchTracked = true
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
}

// EnableSerialTracking turns on serial tracking for this item
func (i *Item) EnableSerialTracking() {
	i.SerialTracked = true
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
}

// Deactivate marks the item inactive; inactive items cannot appear on new documents
func (i *Item) Deactivate() {
	if !i.IsActive {
		return
	}
	now := time.Now()
	i.IsActive = false
	i.DeactivatedAt = &now
	i.UpdatedAt = now
	i.IncrementVersion()
}

// Activate reactivates the item
func (i *Item) Activate() {
	i.IsActive = true
	i.DeactivatedAt = nil
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
}
