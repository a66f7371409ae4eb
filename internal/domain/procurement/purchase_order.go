package procurement

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/velocore/backend/internal/domain/shared"
)

// OrderStatus represents the state of a purchase order
type OrderStatus string

const (
	OrderStatusDraft             OrderStatus = "DRAFT"
	OrderStatusApproved          OrderStatus = "APPROVED"
	OrderStatusPartiallyReceived OrderStatus = "PARTIALLY_RECEIVED"
	OrderStatusCompleted         OrderStatus = "COMPLETED"
	OrderStatusCancelled         OrderStatus = "CANCELLED"
)

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// IsValid returns true if the status is valid
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusDraft, OrderStatusApproved, OrderStatusPartiallyReceived,
		OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo returns true if the status can transition to the target status
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderStatusDraft:
		return target == OrderStatusApproved || target == OrderStatusCancelled
	case OrderStatusApproved:
		return target == OrderStatusPartiallyReceived || target == OrderStatusCompleted ||
			target == OrderStatusCancelled
	case OrderStatusPartiallyReceived:
		return target == OrderStatusCompleted || target == OrderStatusCancelled
	default:
		return false
	}
}

// OrderNumberPrefix is the document number prefix for purchase orders
const OrderNumberPrefix = "PO"

// PurchaseOrderItem is one ordered line with its receipt progress
type PurchaseOrderItem struct {
	shared.BaseEntity
	OrderID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemID           uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ReceivedQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (PurchaseOrderItem) TableName() string {
	return "purchase_order_items"
}

// OutstandingQuantity returns the quantity still to be received
func (i *PurchaseOrderItem) OutstandingQuantity() decimal.Decimal {
	return i.Quantity.Sub(i.ReceivedQuantity)
}

// IsFullyReceived returns true once receipts cover the ordered quantity
func (i *PurchaseOrderItem) IsFullyReceived() bool {
	return i.ReceivedQuantity.GreaterThanOrEqual(i.Quantity)
}

// PurchaseOrder is a commitment to buy from a supplier. Receipt progress is
// tracked per line; the order moves to PartiallyReceived on the first posted
// receipt and Completed once every line is fully received.
type PurchaseOrder struct {
	shared.BaseAggregateRoot
	OrderNumber     string      `gorm:"type:varchar(30);not null;uniqueIndex"`
	Status          OrderStatus `gorm:"type:varchar(20);not null;default:'DRAFT';index"`
	SupplierName    string      `gorm:"type:varchar(100);not null"`
	SupplierContact string      `gorm:"type:varchar(100)"`
	WarehouseID     uuid.UUID   `gorm:"type:uuid;not null"`
	RequisitionID   *uuid.UUID  `gorm:"type:uuid;index"`
	ExpectedDate    *time.Time
	Notes           string              `gorm:"type:varchar(500)"`
	Items           []PurchaseOrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	ApprovedBy      *uuid.UUID          `gorm:"type:uuid"`
	ApprovedAt      *time.Time
	CancelReason    string `gorm:"type:varchar(255)"`
	CancelledAt     *time.Time
	CompletedAt     *time.Time
}

// TableName returns the table name for GORM
func (PurchaseOrder) TableName() string {
	return "purchase_orders"
}

// NewPurchaseOrder creates a new draft purchase order
func NewPurchaseOrder(orderNumber, supplierName string, warehouseID uuid.UUID) (*PurchaseOrder, error) {
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_DOCUMENT_NUMBER", "Order number cannot be empty")
	}
	if supplierName == "" {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier name cannot be empty")
	}
	if warehouseID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_WAREHOUSE", "Warehouse ID cannot be empty")
	}

	return &PurchaseOrder{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNumber:       orderNumber,
		Status:            OrderStatusDraft,
		SupplierName:      supplierName,
		WarehouseID:       warehouseID,
		Items:             []PurchaseOrderItem{},
	}, nil
}

// AddItem adds an ordered line. Only draft orders can be edited.
func (o *PurchaseOrder) AddItem(itemID uuid.UUID, quantity, unitPrice decimal.Decimal) error {
	if o.Status != OrderStatusDraft {
		return shared.NewDomainError("INVALID_STATUS", "Only draft orders can be modified")
	}
	if itemID == uuid.Nil {
		return shared.NewDomainError("INVALID_ITEM", "Item ID cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	o.Items = append(o.Items, PurchaseOrderItem{
		BaseEntity:       shared.NewBaseEntity(),
		OrderID:          o.ID,
		ItemID:           itemID,
		Quantity:         quantity,
		UnitPrice:        unitPrice,
		ReceivedQuantity: decimal.Zero,
	})
	o.touch()

	return nil
}

// RemoveItem removes a line from a draft order
func (o *PurchaseOrder) RemoveItem(itemID uuid.UUID) error {
	if o.Status != OrderStatusDraft {
		return shared.NewDomainError("INVALID_STATUS", "Only draft orders can be modified")
	}

	for i, item := range o.Items {
		if item.ItemID == itemID {
			o.Items = append(o.Items[:i], o.Items[i+1:]...)
			o.touch()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Item not found in order")
}

// Approve confirms the order with the supplier
func (o *PurchaseOrder) Approve(approvedBy uuid.UUID) error {
	if !o.Status.CanTransitionTo(OrderStatusApproved) {
		return shared.NewDomainError("INVALID_STATUS", "Only draft orders can be approved")
	}
	if len(o.Items) == 0 {
		return shared.NewDomainError("EMPTY_DOCUMENT", "Order must have at least one item")
	}
	if approvedBy == uuid.Nil {
		return shared.NewDomainError("INVALID_USER", "Approver cannot be empty")
	}

	now := time.Now()
	o.Status = OrderStatusApproved
	o.ApprovedBy = &approvedBy
	o.ApprovedAt = &now
	o.touch()

	return nil
}

// RecordReceipt applies a posted goods receipt line to the matching order
// line and rolls the order status forward. Over-receipt is rejected.
func (o *PurchaseOrder) RecordReceipt(itemID uuid.UUID, quantity decimal.Decimal) error {
	if o.Status != OrderStatusApproved && o.Status != OrderStatusPartiallyReceived {
		return shared.NewDomainError("INVALID_STATUS", "Order is not open for receiving")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	found := false
	for i := range o.Items {
		if o.Items[i].ItemID == itemID {
			if o.Items[i].OutstandingQuantity().LessThan(quantity) {
				return shared.NewDomainError("OVER_RECEIPT", "Received quantity exceeds outstanding quantity")
			}
			o.Items[i].ReceivedQuantity = o.Items[i].ReceivedQuantity.Add(quantity)
			o.Items[i].UpdatedAt = time.Now()
			found = true
			break
		}
	}
	if !found {
		return shared.NewDomainError("ITEM_NOT_FOUND", "Item not found in order")
	}

	o.rollReceiptStatus()
	o.touch()

	return nil
}

// RevertReceipt backs out a cancelled goods receipt line and rolls the order
// status back to open.
func (o *PurchaseOrder) RevertReceipt(itemID uuid.UUID, quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	found := false
	for i := range o.Items {
		if o.Items[i].ItemID == itemID {
			if o.Items[i].ReceivedQuantity.LessThan(quantity) {
				return shared.NewDomainError("INVALID_QUANTITY", "Cannot revert more than was received")
			}
			o.Items[i].ReceivedQuantity = o.Items[i].ReceivedQuantity.Sub(quantity)
			o.Items[i].UpdatedAt = time.Now()
			found = true
			break
		}
	}
	if !found {
		return shared.NewDomainError("ITEM_NOT_FOUND", "Item not found in order")
	}

	o.rollReceiptStatus()
	o.CompletedAt = nil
	o.touch()

	return nil
}

// Cancel aborts an order that is not yet completed
func (o *PurchaseOrder) Cancel(reason string) error {
	if !o.Status.CanTransitionTo(OrderStatusCancelled) {
		return shared.NewDomainError("INVALID_STATUS", "Order cannot be cancelled in its current state")
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_INPUT", "Cancellation reason cannot be empty")
	}

	now := time.Now()
	o.Status = OrderStatusCancelled
	o.CancelReason = reason
	o.CancelledAt = &now
	o.touch()

	return nil
}

// TotalAmount sums quantity times unit price across all lines
func (o *PurchaseOrder) TotalAmount() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Quantity.Mul(item.UnitPrice))
	}
	return total.Round(4)
}

func (o *PurchaseOrder) rollReceiptStatus() {
	anyReceived := false
	allReceived := true
	for i := range o.Items {
		if o.Items[i].ReceivedQuantity.GreaterThan(decimal.Zero) {
			anyReceived = true
		}
		if !o.Items[i].IsFullyReceived() {
			allReceived = false
		}
	}

	switch {
	case allReceived && len(o.Items) > 0:
		now := time.Now()
		o.Status = OrderStatusCompleted
		o.CompletedAt = &now
	case anyReceived:
		o.Status = OrderStatusPartiallyReceived
	default:
		o.Status = OrderStatusApproved
	}
}

func (o *PurchaseOrder) touch() {
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
}
