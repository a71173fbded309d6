package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// =========================================================
// ENUM — membership status
// =========================================================

type MemberStatus string

const (
	MemberStatusPendingApproval MemberStatus = "pending_approval"
	MemberStatusActive          MemberStatus = "active"
	MemberStatusRejected        MemberStatus = "rejected"
)

// =========================================================
// MODEL — members
// =========================================================

// A Member is never hard-deleted; lifecycle is status plus soft delete.
// Balance and the yearly payment columns are only mutated through the
// balance-adjustment and subscription-payment paths.
type Member struct {
	MemberID               uuid.UUID    `gorm:"column:member_id;type:uuid;primaryKey" json:"member_id"`
	MemberMembershipNumber string       `gorm:"column:member_membership_number;type:varchar(20);not null;unique" json:"member_membership_number"`
	MemberFullName         string       `gorm:"column:member_full_name;type:varchar(150);not null;index" json:"member_full_name"`
	MemberPhone            string       `gorm:"column:member_phone;type:varchar(20);not null;unique" json:"member_phone"`
	MemberEmail            *string      `gorm:"column:member_email;type:varchar(120)" json:"member_email,omitempty"`
	MemberStatus           MemberStatus `gorm:"column:member_status;type:varchar(20);not null;default:'pending_approval';index" json:"member_status"`
	MemberFamilyBranchID   *uuid.UUID   `gorm:"column:member_family_branch_id;type:uuid;index" json:"member_family_branch_id,omitempty"`
	MemberFatherID         *uuid.UUID   `gorm:"column:member_father_id;type:uuid;index" json:"member_father_id,omitempty"`

	MemberBalance float64 `gorm:"column:member_balance;not null;default:0" json:"member_balance"`

	// Per-year subscription totals, kept denormalized for the yearly reports
	// and the bulk-restore path.
	MemberPayment2021 float64 `gorm:"column:member_payment_2021;not null;default:0" json:"member_payment_2021"`
	MemberPayment2022 float64 `gorm:"column:member_payment_2022;not null;default:0" json:"member_payment_2022"`
	MemberPayment2023 float64 `gorm:"column:member_payment_2023;not null;default:0" json:"member_payment_2023"`
	MemberPayment2024 float64 `gorm:"column:member_payment_2024;not null;default:0" json:"member_payment_2024"`
	MemberPayment2025 float64 `gorm:"column:member_payment_2025;not null;default:0" json:"member_payment_2025"`

	MemberRejectionReason *string    `gorm:"column:member_rejection_reason;type:varchar(500)" json:"member_rejection_reason,omitempty"`
	MemberApprovedBy      *uuid.UUID `gorm:"column:member_approved_by;type:uuid" json:"member_approved_by,omitempty"`
	MemberApprovedAt      *time.Time `gorm:"column:member_approved_at" json:"member_approved_at,omitempty"`

	MemberCreatedAt time.Time      `gorm:"column:member_created_at;not null;index" json:"member_created_at"`
	MemberUpdatedAt time.Time      `gorm:"column:member_updated_at;not null" json:"member_updated_at"`
	MemberDeletedAt gorm.DeletedAt `gorm:"column:member_deleted_at;index" json:"-"`
}

func (Member) TableName() string {
	return "members"
}

func (m *Member) BeforeCreate(tx *gorm.DB) error {
	if m.MemberID == uuid.Nil {
		m.MemberID = uuid.New()
	}
	now := time.Now()
	if m.MemberCreatedAt.IsZero() {
		m.MemberCreatedAt = now
	}
	m.MemberUpdatedAt = now
	return nil
}

// =========================================================
// Yearly payment column helpers
// =========================================================

const (
	FirstPaymentYear = 2021
	LastPaymentYear  = 2025
)

// PaymentColumn maps a supported year to its members column.
func PaymentColumn(year int) (string, bool) {
	if year < FirstPaymentYear || year > LastPaymentYear {
		return "", false
	}
	switch year {
	case 2021:
		return "member_payment_2021", true
	case 2022:
		return "member_payment_2022", true
	case 2023:
		return "member_payment_2023", true
	case 2024:
		return "member_payment_2024", true
	default:
		return "member_payment_2025", true
	}
}

// YearPayment reads the stored total for a supported year.
func (m *Member) YearPayment(year int) (float64, bool) {
	switch year {
	case 2021:
		return m.MemberPayment2021, true
	case 2022:
		return m.MemberPayment2022, true
	case 2023:
		return m.MemberPayment2023, true
	case 2024:
		return m.MemberPayment2024, true
	case 2025:
		return m.MemberPayment2025, true
	}
	return 0, false
}

// YearlyTotal sums all per-year payment columns.
func (m *Member) YearlyTotal() float64 {
	return m.MemberPayment2021 + m.MemberPayment2022 + m.MemberPayment2023 +
		m.MemberPayment2024 + m.MemberPayment2025
}
