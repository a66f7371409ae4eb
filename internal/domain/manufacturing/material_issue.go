package manufacturing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/velocore/backend/internal/domain/shared"
)

// IssueStatus represents the posting state of a material issue
type IssueStatus string

const (
	IssueStatusDraft     IssueStatus = "DRAFT"
	IssueStatusPosted    IssueStatus = "POSTED"
	IssueStatusCancelled IssueStatus = "CANCELLED"
)

// String returns the string representation of IssueStatus
func (s IssueStatus) String() string {
	return string(s)
}

// IsValid returns true if the status is valid
func (s IssueStatus) IsValid() bool {
	switch s {
	case IssueStatusDraft, IssueStatusPosted, IssueStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo returns true if the status can transition to the target status
func (s IssueStatus) CanTransitionTo(target IssueStatus) bool {
	switch s {
	case IssueStatusDraft:
		return target == IssueStatusPosted
	case IssueStatusPosted:
		return target == IssueStatusCancelled
	default:
		return false
	}
}

// IssueNumberPrefix is the document number prefix for material issues
const IssueNumberPrefix = "MI"

// MaterialIssueLine is one issued component line
type MaterialIssueLine struct {
	shared.BaseEntity
	IssueID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemID       uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	BatchNumber  string          `gorm:"type:varchar(50);not null;default:''"`
	SerialNumber string          `gorm:"type:varchar(50);not null;default:''"`
}

// TableName returns the table name for GORM
func (MaterialIssueLine) TableName() string {
	return "material_issue_lines"
}

// MaterialIssue records components leaving the warehouse for a production or
// repair order. Posting writes one outbound ledger entry per line at the
// current average cost.
type MaterialIssue struct {
	shared.BaseAggregateRoot
	IssueNumber       string      `gorm:"type:varchar(30);not null;uniqueIndex"`
	Status            IssueStatus `gorm:"type:varchar(20);not null;default:'DRAFT';index"`
	WarehouseID       uuid.UUID   `gorm:"type:uuid;not null;index"`
	ProductionOrderID *uuid.UUID  `gorm:"type:uuid;index"`
	RepairOrderID     *uuid.UUID  `gorm:"type:uuid;index"`
	IssueDate         time.Time   `gorm:"type:timestamptz;not null"`
	Notes             string      `gorm:"type:varchar(500)"`
	Lines             []MaterialIssueLine `gorm:"foreignKey:IssueID;constraint:OnDelete:CASCADE"`
	PostedBy          *uuid.UUID          `gorm:"type:uuid"`
	PostedAt          *time.Time
	CancelReason      string     `gorm:"type:varchar(255)"`
	CancelledBy       *uuid.UUID `gorm:"type:uuid"`
	CancelledAt       *time.Time
}

// TableName returns the table name for GORM
func (MaterialIssue) TableName() string {
	return "material_issues"
}

// NewMaterialIssue creates a new draft material issue
func NewMaterialIssue(issueNumber string, warehouseID uuid.UUID) (*MaterialIssue, error) {
	if issueNumber == "" {
		return nil, shared.NewDomainError("INVALID_DOCUMENT_NUMBER", "Issue number cannot be empty")
	}
	if warehouseID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_WAREHOUSE", "Warehouse ID cannot be empty")
	}

	return &MaterialIssue{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		IssueNumber:       issueNumber,
		Status:            IssueStatusDraft,
		WarehouseID:       warehouseID,
		IssueDate:         time.Now(),
		Lines:             []MaterialIssueLine{},
	}, nil
}

// WithProductionOrder links the issue to a production order
func (m *MaterialIssue) WithProductionOrder(orderID uuid.UUID) *MaterialIssue {
	m.ProductionOrderID = &orderID
	return m
}

// WithRepairOrder links the issue to a repair order
func (m *MaterialIssue) WithRepairOrder(orderID uuid.UUID) *MaterialIssue {
	m.RepairOrderID = &orderID
	return m
}

// AddLine adds an issued line. Only draft issues can be edited.
func (m *MaterialIssue) AddLine(itemID uuid.UUID, quantity decimal.Decimal, batchNumber, serialNumber string) error {
	if m.Status != IssueStatusDraft {
		return shared.NewDomainError("INVALID_STATUS", "Only draft issues can be modified")
	}
	if itemID == uuid.Nil {
		return shared.NewDomainError("INVALID_ITEM", "Item ID cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if serialNumber != "" && !quantity.Equal(decimal.NewFromInt(1)) {
		return shared.NewDomainError("INVALID_QUANTITY", "Serial-tracked lines must have quantity 1")
	}

	m.Lines = append(m.Lines, MaterialIssueLine{
		BaseEntity:   shared.NewBaseEntity(),
		IssueID:      m.ID,
		ItemID:       itemID,
		Quantity:     quantity,
		BatchNumber:  batchNumber,
		SerialNumber: serialNumber,
	})
	m.touch()

	return nil
}

// RemoveLine removes a line from a draft issue
func (m *MaterialIssue) RemoveLine(lineID uuid.UUID) error {
	if m.Status != IssueStatusDraft {
		return shared.NewDomainError("INVALID_STATUS", "Only draft issues can be modified")
	}

	for i, line := range m.Lines {
		if line.ID == lineID {
			m.Lines = append(m.Lines[:i], m.Lines[i+1:]...)
			m.touch()
			return nil
		}
	}

	return shared.NewDomainError("LINE_NOT_FOUND", "Line not found in issue")
}

// MarkPosted stamps the issue as posted. Stock movements are applied by the
// posting service in the same transaction.
func (m *MaterialIssue) MarkPosted(postedBy uuid.UUID) error {
	if !m.Status.CanTransitionTo(IssueStatusPosted) {
		return shared.NewDomainError("INVALID_STATUS", "Only draft issues can be posted")
	}
	if len(m.Lines) == 0 {
		return shared.NewDomainError("EMPTY_DOCUMENT", "Issue must have at least one line")
	}
	if postedBy == uuid.Nil {
		return shared.NewDomainError("INVALID_USER", "Posting user cannot be empty")
	}

	now := time.Now()
	m.Status = IssueStatusPosted
	m.PostedBy = &postedBy
	m.PostedAt = &now
	m.touch()

	return nil
}

// MarkCancelled stamps a posted issue as cancelled
func (m *MaterialIssue) MarkCancelled(cancelledBy uuid.UUID, reason string) error {
	if !m.Status.CanTransitionTo(IssueStatusCancelled) {
		return shared.NewDomainError("INVALID_STATUS", "Only posted issues can be cancelled")
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_INPUT", "Cancellation reason cannot be empty")
	}
	if cancelledBy == uuid.Nil {
		return shared.NewDomainError("INVALID_USER", "Cancelling user cannot be empty")
	}

	now := time.Now()
	m.Status = IssueStatusCancelled
	m.CancelReason = reason
	m.CancelledBy = &cancelledBy
	m.CancelledAt = &now
	m.touch()

	return nil
}

// IsDeletable returns true while the issue has not been posted
func (m *MaterialIssue) IsDeletable() bool {
	return m.Status == IssueStatusDraft
}

func (m *MaterialIssue) touch() {
	m.UpdatedAt = time.Now()
	m.IncrementVersion()
}
