package procurement

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RequisitionLineInput is one requested line on a new requisition
type RequisitionLineInput struct {
	ItemID        uuid.UUID
	Quantity      decimal.Decimal
	EstimatedCost decimal.Decimal
	Notes         string
}

// CreateRequisitionCommand is the input for creating a draft requisition
type CreateRequisitionCommand struct {
	RequestedBy  uuid.UUID
	RequiredDate *time.Time
	Notes        string
	Lines        []RequisitionLineInput
}

// ConvertRequisitionCommand turns an approved requisition into a draft
// purchase order. Unit prices default to the estimated cost of each line and
// can be overridden per item.
type ConvertRequisitionCommand struct {
	RequisitionID   uuid.UUID
	SupplierName    string
	SupplierContact string
	WarehouseID     uuid.UUID
	ExpectedDate    *time.Time
	UnitPrices      map[uuid.UUID]decimal.Decimal
}

// OrderLineInput is one ordered line on a new purchase order
type OrderLineInput struct {
	ItemID    uuid.UUID
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
}

// CreateOrderCommand is the input for creating a draft purchase order
type CreateOrderCommand struct {
	SupplierName    string
	SupplierContact string
	WarehouseID     uuid.UUID
	RequisitionID   *uuid.UUID
	ExpectedDate    *time.Time
	Notes           string
	Lines           []OrderLineInput
}

// ReceiptLineInput is one received line on a new goods receipt
type ReceiptLineInput struct {
	ItemID       uuid.UUID
	Quantity     decimal.Decimal
	UnitCost     decimal.Decimal
	BatchNumber  string
	SerialNumber string
	ExpiryDate   *time.Time
}

// CreateReceiptCommand is the input for creating a draft goods receipt
type CreateReceiptCommand struct {
	WarehouseID     uuid.UUID
	PurchaseOrderID *uuid.UUID
	Notes           string
	Lines           []ReceiptLineInput
}
