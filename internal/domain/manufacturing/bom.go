package manufacturing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/velocore/backend/internal/domain/shared"
)

// BOMLine is one component requirement of a bill of material. ScrapFactor is
// the expected loss fraction, e.g. 0.05 plans 5% extra consumption.
type BOMLine struct {
	shared.BaseEntity
	BOMID           uuid.UUID       `gorm:"type:uuid;not null;index"`
	ComponentItemID uuid.UUID       `gorm:"type:uuid;not null"`
	QuantityPer     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ScrapFactor     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Notes           string          `gorm:"type:varchar(255)"`
}

// TableName returns the table name for GORM
func (BOMLine) TableName() string {
	return "bom_lines"
}

// RequiredFor returns the component quantity needed to build the given
// quantity of the finished item, scrap included.
func (l *BOMLine) RequiredFor(finishedQuantity decimal.Decimal) decimal.Decimal {
	base := l.QuantityPer.Mul(finishedQuantity)
	return base.Add(base.Mul(l.ScrapFactor)).Round(4)
}

// BillOfMaterial lists the components needed to build one finished item.
// At most one BOM per finished item is active at a time; activation of a new
// revision deactivates the previous one at the service layer.
type BillOfMaterial struct {
	shared.BaseAggregateRoot
	FinishedItemID uuid.UUID `gorm:"type:uuid;not null;index"`
	Revision       int       `gorm:"not null;default:1"`
	IsActive       bool      `gorm:"not null;default:false;index"`
	Notes          string    `gorm:"type:varchar(500)"`
	Lines          []BOMLine `gorm:"foreignKey:BOMID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (BillOfMaterial) TableName() string {
	return "bills_of_material"
}

// NewBillOfMaterial creates an inactive BOM revision for a finished item
func NewBillOfMaterial(finishedItemID uuid.UUID, revision int) (*BillOfMaterial, error) {
	if finishedItemID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ITEM", "Finished item ID cannot be empty")
	}
	if revision < 1 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Revision must be at least 1")
	}

	return &BillOfMaterial{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		FinishedItemID:    finishedItemID,
		Revision:          revision,
		IsActive:          false,
		Lines:             []BOMLine{},
	}, nil
}

// AddComponent adds a component line. Active BOMs are immutable; create a new
// revision instead.
func (b *BillOfMaterial) AddComponent(componentItemID uuid.UUID, quantityPer, scrapFactor decimal.Decimal, notes string) error {
	if b.IsActive {
		return shared.NewDomainError("INVALID_STATUS", "Active BOM revisions cannot be modified")
	}
	if componentItemID == uuid.Nil {
		return shared.NewDomainError("INVALID_ITEM", "Component item ID cannot be empty")
	}
	if componentItemID == b.FinishedItemID {
		return shared.NewDomainError("INVALID_ITEM", "BOM cannot contain its own finished item")
	}
	if quantityPer.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity per unit must be positive")
	}
	if scrapFactor.IsNegative() {
		return shared.NewDomainError("INVALID_INPUT", "Scrap factor cannot be negative")
	}
	for _, line := range b.Lines {
		if line.ComponentItemID == componentItemID {
			return shared.NewDomainError("ALREADY_EXISTS", "Component already present in BOM")
		}
	}

	b.Lines = append(b.Lines, BOMLine{
		BaseEntity:      shared.NewBaseEntity(),
		BOMID:           b.ID,
		ComponentItemID: componentItemID,
		QuantityPer:     quantityPer,
		ScrapFactor:     scrapFactor,
		Notes:           notes,
	})
	b.touch()

	return nil
}

// RemoveComponent removes a component line from an inactive revision
func (b *BillOfMaterial) RemoveComponent(componentItemID uuid.UUID) error {
	if b.IsActive {
		return shared.NewDomainError("INVALID_STATUS", "Active BOM revisions cannot be modified")
	}

	for i, line := range b.Lines {
		if line.ComponentItemID == componentItemID {
			b.Lines = append(b.Lines[:i], b.Lines[i+1:]...)
			b.touch()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Component not found in BOM")
}

// Activate marks this revision as the one production orders use
func (b *BillOfMaterial) Activate() error {
	if b.IsActive {
		return nil
	}
	if len(b.Lines) == 0 {
		return shared.NewDomainError("EMPTY_DOCUMENT", "BOM must have at least one component")
	}

	b.IsActive = true
	b.touch()

	return nil
}

// Deactivate retires this revision
func (b *BillOfMaterial) Deactivate() {
	if !b.IsActive {
		return
	}
	b.IsActive = false
	b.touch()
}

// ComponentRequirement is one exploded component demand
type ComponentRequirement struct {
	ComponentItemID uuid.UUID
	Quantity        decimal.Decimal
}

// Explode returns the component quantities needed to build the given quantity
// of the finished item.
func (b *BillOfMaterial) Explode(finishedQuantity decimal.Decimal) ([]ComponentRequirement, error) {
	if finishedQuantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	requirements := make([]ComponentRequirement, 0, len(b.Lines))
	for _, line := range b.Lines {
		requirements = append(requirements, ComponentRequirement{
			ComponentItemID: line.ComponentItemID,
			Quantity:        line.RequiredFor(finishedQuantity),
		})
	}
	return requirements, nil
}

func (b *BillOfMaterial) touch() {
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
}
