package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// =========================================================
// ENUM — adjustment types
// =========================================================

type AdjustmentType string

const (
	AdjustmentCredit         AdjustmentType = "credit"
	AdjustmentDebit          AdjustmentType = "debit"
	AdjustmentCorrection     AdjustmentType = "correction"
	AdjustmentInitialBalance AdjustmentType = "initial_balance"
	AdjustmentYearlyPayment  AdjustmentType = "yearly_payment"
	AdjustmentBulkRestore    AdjustmentType = "bulk_restore"
)

// ValidAdjustmentType covers the request-supplied types; bulk_restore rows
// are only written by the bulk-restore path itself.
func ValidAdjustmentType(t AdjustmentType) bool {
	switch t {
	case AdjustmentCredit, AdjustmentDebit, AdjustmentCorrection,
		AdjustmentInitialBalance, AdjustmentYearlyPayment:
		return true
	}
	return false
}

// IsAdditive reports whether the type adds the amount to the balance.
func (t AdjustmentType) IsAdditive() bool {
	switch t {
	case AdjustmentCredit, AdjustmentInitialBalance, AdjustmentYearlyPayment:
		return true
	}
	return false
}

// =========================================================
// MODEL — balance_adjustments (append only)
// =========================================================

// BalanceAdjustment is the immutable audit row written alongside every
// balance mutation. Rows are never updated or deleted after insert.
type BalanceAdjustment struct {
	AdjustmentID              uuid.UUID      `gorm:"column:adjustment_id;type:uuid;primaryKey" json:"adjustment_id"`
	AdjustmentMemberID        uuid.UUID      `gorm:"column:adjustment_member_id;type:uuid;not null;index" json:"adjustment_member_id"`
	AdjustmentType            AdjustmentType `gorm:"column:adjustment_type;type:varchar(20);not null;index" json:"adjustment_type"`
	AdjustmentAmount          float64        `gorm:"column:adjustment_amount;not null" json:"adjustment_amount"`
	AdjustmentPreviousBalance float64        `gorm:"column:adjustment_previous_balance;not null" json:"adjustment_previous_balance"`
	AdjustmentNewBalance      float64        `gorm:"column:adjustment_new_balance;not null" json:"adjustment_new_balance"`
	AdjustmentTargetYear      *int           `gorm:"column:adjustment_target_year;index" json:"adjustment_target_year,omitempty"`
	AdjustmentTargetMonth     *int           `gorm:"column:adjustment_target_month" json:"adjustment_target_month,omitempty"`
	AdjustmentReason          string         `gorm:"column:adjustment_reason;type:varchar(500);not null" json:"adjustment_reason"`
	AdjustmentNotes           *string        `gorm:"column:adjustment_notes;type:text" json:"adjustment_notes,omitempty"`

	AdjustmentAdjustedBy      uuid.UUID `gorm:"column:adjustment_adjusted_by;type:uuid;not null" json:"adjustment_adjusted_by"`
	AdjustmentAdjustedByEmail *string   `gorm:"column:adjustment_adjusted_by_email;type:varchar(120)" json:"adjustment_adjusted_by_email,omitempty"`
	AdjustmentAdjustedByRole  *string   `gorm:"column:adjustment_adjusted_by_role;type:varchar(50)" json:"adjustment_adjusted_by_role,omitempty"`
	AdjustmentIPAddress       *string   `gorm:"column:adjustment_ip_address;type:varchar(64)" json:"adjustment_ip_address,omitempty"`
	AdjustmentUserAgent       *string   `gorm:"column:adjustment_user_agent;type:text" json:"adjustment_user_agent,omitempty"`

	AdjustmentCreatedAt time.Time `gorm:"column:adjustment_created_at;not null;index" json:"adjustment_created_at"`
}

func (BalanceAdjustment) TableName() string {
	return "balance_adjustments"
}

func (m *BalanceAdjustment) BeforeCreate(tx *gorm.DB) error {
	if m.AdjustmentID == uuid.Nil {
		m.AdjustmentID = uuid.New()
	}
	if m.AdjustmentCreatedAt.IsZero() {
		m.AdjustmentCreatedAt = time.Now()
	}
	return nil
}
