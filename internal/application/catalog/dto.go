package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/velocore/backend/internal/domain/catalog"
)

// CreateItemCommand is the input for creating an item
type CreateItemCommand struct {
	Code          string
	Name          string
	ItemType      catalog.ItemType
	Unit          string
	BatchTracked  bool
	SerialTracked bool
	StandardCost  decimal.Decimal
	ReorderLevel  decimal.Decimal
	Description   string
}

// UpdateItemCommand is the input for updating item master data. Nil fields
// are left unchanged.
type UpdateItemCommand struct {
	Name         *string
	Unit         *string
	StandardCost *decimal.Decimal
	ReorderLevel *decimal.Decimal
	Description  *string
}

// CreateWarehouseCommand is the input for creating a warehouse
type CreateWarehouseCommand struct {
	Code    string
	Name    string
	Address string
}

// UpdateWarehouseCommand is the input for updating warehouse master data.
// Nil fields are left unchanged.
type UpdateWarehouseCommand struct {
	Name    *string
	Address *string
}
