package manufacturing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BOMLineInput is one component requirement on a new BOM revision
type BOMLineInput struct {
	ComponentItemID uuid.UUID
	QuantityPer     decimal.Decimal
	ScrapFactor     decimal.Decimal
	Notes           string
}

// CreateBOMCommand is the input for creating an inactive BOM revision
type CreateBOMCommand struct {
	FinishedItemID uuid.UUID
	Notes          string
	Lines          []BOMLineInput
}

// CreateProductionOrderCommand is the input for creating a draft production order
type CreateProductionOrderCommand struct {
	FinishedItemID  uuid.UUID
	WarehouseID     uuid.UUID
	PlannedQuantity decimal.Decimal
	PlannedDate     *time.Time
	Notes           string
}

// IssueLineInput is one issued component line
type IssueLineInput struct {
	ItemID       uuid.UUID
	Quantity     decimal.Decimal
	BatchNumber  string
	SerialNumber string
}

// CreateIssueCommand is the input for creating a draft material issue
type CreateIssueCommand struct {
	WarehouseID       uuid.UUID
	ProductionOrderID *uuid.UUID
	RepairOrderID     *uuid.UUID
	Notes             string
	Lines             []IssueLineInput
}

// CreateIssueFromOrderCommand explodes the order's BOM into a draft issue for
// the given output quantity.
type CreateIssueFromOrderCommand struct {
	ProductionOrderID uuid.UUID
	OutputQuantity    decimal.Decimal
	Notes             string
}

// CreateProductionReceiptCommand is the input for creating a draft production receipt
type CreateProductionReceiptCommand struct {
	ProductionOrderID uuid.UUID
	Quantity          decimal.Decimal
	BatchNumber       string
	SerialNumber      string
	Notes             string
}
