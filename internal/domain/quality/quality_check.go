package quality

import (
	"time"

	"github.com/google/uuid"

	"github.com/velocore/backend/internal/domain/shared"
)

// CheckStatus represents the state of a quality check
type CheckStatus string

const (
	CheckStatusDraft  CheckStatus = "DRAFT"
	CheckStatusPassed CheckStatus = "PASSED"
	CheckStatusFailed CheckStatus = "FAILED"
)

// String returns the string representation of CheckStatus
func (s CheckStatus) String() string {
	return string(s)
}

// IsValid returns true if the status is valid
func (s CheckStatus) IsValid() bool {
	switch s {
	case CheckStatusDraft, CheckStatusPassed, CheckStatusFailed:
		return true
	}
	return false
}

// CanTransitionTo returns true if the status can transition to the target status
func (s CheckStatus) CanTransitionTo(target CheckStatus) bool {
	if s != CheckStatusDraft {
		return false
	}
	return target == CheckStatusPassed || target == CheckStatusFailed
}

// Reference targets for quality checks
const (
	ReferenceTypeGoodsReceipt = "GOODS_RECEIPT"
	ReferenceTypeRepairOrder  = "REPAIR_ORDER"
)

// CheckNumberPrefix is the document number prefix for quality checks
const CheckNumberPrefix = "QC"

// ChecklistLine is one inspected criterion
type ChecklistLine struct {
	shared.BaseEntity
	CheckID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Description string    `gorm:"type:varchar(255);not null"`
	Passed      *bool
	Remarks     string `gorm:"type:varchar(255)"`
}

// TableName returns the table name for GORM
func (ChecklistLine) TableName() string {
	return "quality_checklist_lines"
}

// QualityCheck inspects a goods receipt or repair order. A failed check on a
// goods receipt blocks posting of that receipt until a new check passes.
type QualityCheck struct {
	shared.BaseAggregateRoot
	CheckNumber   string      `gorm:"type:varchar(30);not null;uniqueIndex"`
	Status        CheckStatus `gorm:"type:varchar(20);not null;default:'DRAFT';index"`
	ReferenceType string      `gorm:"type:varchar(30);not null"`
	ReferenceID   uuid.UUID   `gorm:"type:uuid;not null;index"`
	Lines         []ChecklistLine `gorm:"foreignKey:CheckID;constraint:OnDelete:CASCADE"`
	InspectorID   *uuid.UUID      `gorm:"type:uuid"`
	InspectedAt   *time.Time
	Remarks       string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (QualityCheck) TableName() string {
	return "quality_checks"
}

// NewQualityCheck creates a new draft quality check against a document
func NewQualityCheck(checkNumber, referenceType string, referenceID uuid.UUID) (*QualityCheck, error) {
	if checkNumber == "" {
		return nil, shared.NewDomainError("INVALID_DOCUMENT_NUMBER", "Check number cannot be empty")
	}
	if referenceType != ReferenceTypeGoodsReceipt && referenceType != ReferenceTypeRepairOrder {
		return nil, shared.NewDomainError("INVALID_INPUT", "Unsupported quality check reference type")
	}
	if referenceID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Reference ID cannot be empty")
	}

	return &QualityCheck{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CheckNumber:       checkNumber,
		Status:            CheckStatusDraft,
		ReferenceType:     referenceType,
		ReferenceID:       referenceID,
		Lines:             []ChecklistLine{},
	}, nil
}

// AddLine adds a criterion to a draft check
func (q *QualityCheck) AddLine(description string) error {
	if q.Status != CheckStatusDraft {
		return shared.NewDomainError("INVALID_STATUS", "Only draft checks can be modified")
	}
	if description == "" {
		return shared.NewDomainError("INVALID_INPUT", "Checklist description cannot be empty")
	}

	q.Lines = append(q.Lines, ChecklistLine{
		BaseEntity:  shared.NewBaseEntity(),
		CheckID:     q.ID,
		Description: description,
	})
	q.touch()

	return nil
}

// RecordLineResult marks one criterion as passed or failed
func (q *QualityCheck) RecordLineResult(lineID uuid.UUID, passed bool, remarks string) error {
	if q.Status != CheckStatusDraft {
		return shared.NewDomainError("INVALID_STATUS", "Only draft checks can be modified")
	}

	for i := range q.Lines {
		if q.Lines[i].ID == lineID {
			q.Lines[i].Passed = &passed
			q.Lines[i].Remarks = remarks
			q.Lines[i].UpdatedAt = time.Now()
			q.touch()
			return nil
		}
	}

	return shared.NewDomainError("LINE_NOT_FOUND", "Line not found in check")
}

// Pass closes the check as passed. Every line must have been recorded as
// passed first.
func (q *QualityCheck) Pass(inspectorID uuid.UUID) error {
	if !q.Status.CanTransitionTo(CheckStatusPassed) {
		return shared.NewDomainError("INVALID_STATUS", "Only draft checks can be closed")
	}
	if inspectorID == uuid.Nil {
		return shared.NewDomainError("INVALID_USER", "Inspector cannot be empty")
	}
	for _, line := range q.Lines {
		if line.Passed == nil || !*line.Passed {
			return shared.NewDomainError("INVALID_STATE", "All checklist lines must pass before closing as passed")
		}
	}

	now := time.Now()
	q.Status = CheckStatusPassed
	q.InspectorID = &inspectorID
	q.InspectedAt = &now
	q.touch()

	return nil
}

// Fail closes the check as failed with a reason
func (q *QualityCheck) Fail(inspectorID uuid.UUID, remarks string) error {
	if !q.Status.CanTransitionTo(CheckStatusFailed) {
		return shared.NewDomainError("INVALID_STATUS", "Only draft checks can be closed")
	}
	if inspectorID == uuid.Nil {
		return shared.NewDomainError("INVALID_USER", "Inspector cannot be empty")
	}
	if remarks == "" {
		return shared.NewDomainError("INVALID_INPUT", "Failure remarks cannot be empty")
	}

	now := time.Now()
	q.Status = CheckStatusFailed
	q.InspectorID = &inspectorID
	q.InspectedAt = &now
	q.Remarks = remarks
	q.touch()

	return nil
}

// IsOpen returns true while the check has not been closed
func (q *QualityCheck) IsOpen() bool {
	return q.Status == CheckStatusDraft
}

func (q *QualityCheck) touch() {
	q.UpdatedAt = time.Now()
	q.IncrementVersion()
}
