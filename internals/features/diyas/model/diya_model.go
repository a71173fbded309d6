// file: internals/features/diyas/model/diya_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// =========================================================
// ENUM — case status
// =========================================================

type DiyaStatus string

const (
	DiyaStatusOpen       DiyaStatus = "open"
	DiyaStatusCollecting DiyaStatus = "collecting"
	DiyaStatusCompleted  DiyaStatus = "completed"
	DiyaStatusClosed     DiyaStatus = "closed"
)

func ValidDiyaStatus(s DiyaStatus) bool {
	switch s {
	case DiyaStatusOpen, DiyaStatusCollecting, DiyaStatusCompleted, DiyaStatusClosed:
		return true
	}
	return false
}

// =========================================================
// MODEL — diya_cases
// =========================================================

// DiyaCase tracks a blood-money obligation the fund is collecting for.
// AmountCollected is only moved by the contribution path.
type DiyaCase struct {
	DiyaID              uuid.UUID  `gorm:"column:diya_id;type:uuid;primaryKey" json:"diya_id"`
	DiyaCaseNumber      string     `gorm:"column:diya_case_number;type:varchar(30);not null;unique" json:"diya_case_number"`
	DiyaDeceasedName    string     `gorm:"column:diya_deceased_name;type:varchar(150);not null" json:"diya_deceased_name"`
	DiyaBeneficiaryName string     `gorm:"column:diya_beneficiary_name;type:varchar(150);not null" json:"diya_beneficiary_name"`
	DiyaBeneficiaryPhone *string   `gorm:"column:diya_beneficiary_phone;type:varchar(20)" json:"diya_beneficiary_phone,omitempty"`
	DiyaAmountRequired  float64    `gorm:"column:diya_amount_required;not null" json:"diya_amount_required"`
	DiyaAmountCollected float64    `gorm:"column:diya_amount_collected;not null;default:0" json:"diya_amount_collected"`
	DiyaStatus          DiyaStatus `gorm:"column:diya_status;type:varchar(20);not null;default:'open';index" json:"diya_status"`
	DiyaNotes           *string    `gorm:"column:diya_notes;type:text" json:"diya_notes,omitempty"`
	DiyaCreatedBy       uuid.UUID  `gorm:"column:diya_created_by;type:uuid;not null" json:"diya_created_by"`
	DiyaCreatedAt       time.Time  `gorm:"column:diya_created_at;not null;index" json:"diya_created_at"`
	DiyaUpdatedAt       time.Time  `gorm:"column:diya_updated_at;not null" json:"diya_updated_at"`
}

func (DiyaCase) TableName() string {
	return "diya_cases"
}

func (m *DiyaCase) BeforeCreate(tx *gorm.DB) error {
	if m.DiyaID == uuid.Nil {
		m.DiyaID = uuid.New()
	}
	now := time.Now()
	if m.DiyaCreatedAt.IsZero() {
		m.DiyaCreatedAt = now
	}
	m.DiyaUpdatedAt = now
	return nil
}

// =========================================================
// MODEL — diya_contributions (append only)
// =========================================================

type DiyaContribution struct {
	ContributionID          uuid.UUID  `gorm:"column:contribution_id;type:uuid;primaryKey" json:"contribution_id"`
	ContributionDiyaID      uuid.UUID  `gorm:"column:contribution_diya_id;type:uuid;not null;index" json:"contribution_diya_id"`
	ContributionMemberID    *uuid.UUID `gorm:"column:contribution_member_id;type:uuid;index" json:"contribution_member_id,omitempty"`
	ContributionAmount      float64    `gorm:"column:contribution_amount;not null" json:"contribution_amount"`
	ContributionNotes       *string    `gorm:"column:contribution_notes;type:text" json:"contribution_notes,omitempty"`
	ContributionRecordedBy  uuid.UUID  `gorm:"column:contribution_recorded_by;type:uuid;not null" json:"contribution_recorded_by"`
	ContributionCreatedAt   time.Time  `gorm:"column:contribution_created_at;not null;index" json:"contribution_created_at"`
}

func (DiyaContribution) TableName() string {
	return "diya_contributions"
}

func (m *DiyaContribution) BeforeCreate(tx *gorm.DB) error {
	if m.ContributionID == uuid.Nil {
		m.ContributionID = uuid.New()
	}
	if m.ContributionCreatedAt.IsZero() {
		m.ContributionCreatedAt = time.Now()
	}
	return nil
}
