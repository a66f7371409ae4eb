package rental

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/velocore/backend/internal/domain/shared"
)

// AssetStatus represents the state of a rentable asset
type AssetStatus string

const (
	AssetStatusAvailable   AssetStatus = "AVAILABLE"
	AssetStatusRented      AssetStatus = "RENTED"
	AssetStatusUnderRepair AssetStatus = "UNDER_REPAIR"
	AssetStatusRetired     AssetStatus = "RETIRED"
	AssetStatusLost        AssetStatus = "LOST"
)

// String returns the string representation of AssetStatus
func (s AssetStatus) String() string {
	return string(s)
}

// IsValid returns true if the status is valid
func (s AssetStatus) IsValid() bool {
	switch s {
	case AssetStatusAvailable, AssetStatusRented, AssetStatusUnderRepair,
		AssetStatusRetired, AssetStatusLost:
		return true
	}
	return false
}

// IsTerminal returns true for states an asset cannot leave through rental or
// repair flows.
func (s AssetStatus) IsTerminal() bool {
	return s == AssetStatusRetired || s == AssetStatusLost
}

// Asset is one rentable e-bike in the fleet
type Asset struct {
	shared.BaseAggregateRoot
	Code            string      `gorm:"type:varchar(30);not null;uniqueIndex"`
	Model           string      `gorm:"type:varchar(100);not null"`
	Status          AssetStatus `gorm:"type:varchar(20);not null;default:'AVAILABLE';index"`
	IsActive        bool        `gorm:"not null;default:true;index"`
	SerialNumber    string      `gorm:"type:varchar(50)"`
	AcquisitionCost decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	AcquiredAt      *time.Time
	Notes           string `gorm:"type:varchar(500)"`
	RetiredAt       *time.Time
	LostAt          *time.Time
}

// TableName returns the table name for GORM
func (Asset) TableName() string {
	return "assets"
}

// NewAsset creates a new available asset
func NewAsset(code, model string, acquisitionCost decimal.Decimal) (*Asset, error) {
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Asset code cannot be empty")
	}
	if model == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Asset model cannot be empty")
	}
	if acquisitionCost.IsNegative() {
		return nil, shared.NewDomainError("INVALID_COST", "Acquisition cost cannot be negative")
	}

	return &Asset{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		Model:             model,
		Status:            AssetStatusAvailable,
		IsActive:          true,
		AcquisitionCost:   acquisitionCost,
	}, nil
}

// MarkRented moves the asset out of the available pool
func (a *Asset) MarkRented() error {
	if result := CanRent(a); !result.Allowed {
		return shared.NewDomainError("INVALID_STATE", result.Reason)
	}
	a.Status = AssetStatusRented
	a.touch()
	return nil
}

// MarkReturned puts a rented asset back into the available pool
func (a *Asset) MarkReturned() error {
	if a.Status != AssetStatusRented {
		return shared.NewDomainError("INVALID_STATE", "Asset is not rented")
	}
	a.Status = AssetStatusAvailable
	a.touch()
	return nil
}

// MarkUnderRepair moves the asset into the workshop
func (a *Asset) MarkUnderRepair() error {
	if a.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Asset is retired or lost")
	}
	a.Status = AssetStatusUnderRepair
	a.touch()
	return nil
}

// MarkRepaired returns a repaired asset to the available pool
func (a *Asset) MarkRepaired() error {
	if a.Status != AssetStatusUnderRepair {
		return shared.NewDomainError("INVALID_STATE", "Asset is not under repair")
	}
	a.Status = AssetStatusAvailable
	a.touch()
	return nil
}

// Retire permanently removes the asset from service
func (a *Asset) Retire() error {
	if a.Status == AssetStatusRented {
		return shared.NewDomainError("INVALID_STATE", "Rented assets cannot be retired")
	}
	if a.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Asset is already retired or lost")
	}

	now := time.Now()
	a.Status = AssetStatusRetired
	a.RetiredAt = &now
	a.IsActive = false
	a.touch()
	return nil
}

// MarkLost records the asset as lost or stolen
func (a *Asset) MarkLost() error {
	if a.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Asset is already retired or lost")
	}

	now := time.Now()
	a.Status = AssetStatusLost
	a.LostAt = &now
	a.IsActive = false
	a.touch()
	return nil
}

// Deactivate takes the asset out of the rentable fleet without retiring it
func (a *Asset) Deactivate() {
	if !a.IsActive {
		return
	}
	a.IsActive = false
	a.touch()
}

// Activate returns the asset to the rentable fleet
func (a *Asset) Activate() error {
	if a.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Retired or lost assets cannot be activated")
	}
	if a.IsActive {
		return nil
	}
	a.IsActive = true
	a.touch()
	return nil
}

func (a *Asset) touch() {
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
}
