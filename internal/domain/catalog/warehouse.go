package catalog

import (
	"time"

	"github.com/velocore/backend/internal/domain/shared"
)

// Warehouse represents a physical stock location: a depot, service bay
// store room, or mobile service van.
type Warehouse struct {
	shared.BaseAggregateRoot
	Code     string `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name     string `gorm:"type:varchar(200);not null"`
	Address  string `gorm:"type:varchar(500)"`
	IsActive bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Warehouse) TableName() string {
	return "warehouses"
}

// NewWarehouse creates a new warehouse
func NewWarehouse(code, name string) (*Warehouse, error) {
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Warehouse code cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Warehouse name cannot be empty")
	}

	return &Warehouse{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		Name:              name,
		IsActive:          true,
	}, nil
}

// SetAddress sets the warehouse address
func (w *Warehouse) SetAddress(address string) {
	w.Address = address
	w.UpdatedAt = time.Now()
	w.IncrementVersion()
}

// Deactivate marks the warehouse inactive
func (w *Warehouse) Deactivate() {
	w.IsActive = false
	w.UpdatedAt = time.Now()
	w.IncrementVersion()
}

// Activate reactivates the warehouse
func (w *Warehouse) Activate() {
	w.IsActive = true
	w.UpdatedAt = time.Now()
	w.IncrementVersion()
}
