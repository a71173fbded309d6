package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// =========================================================
// ENUM — subscription status
// =========================================================

type SubscriptionStatus string

const (
	SubscriptionStatusActive  SubscriptionStatus = "active"
	SubscriptionStatusOverdue SubscriptionStatus = "overdue"
)

// MonthlyFee is the fixed subscription rate; months_paid_ahead derives from
// it. MaxBalance is the hard cap (72 months).
const (
	MonthlyFee = 50.0
	MaxBalance = 72 * MonthlyFee
)

// =========================================================
// MODEL — subscriptions (one row per member)
// =========================================================

type Subscription struct {
	SubscriptionID              uuid.UUID          `gorm:"column:subscription_id;type:uuid;primaryKey" json:"subscription_id"`
	SubscriptionMemberID        uuid.UUID          `gorm:"column:subscription_member_id;type:uuid;not null;uniqueIndex" json:"subscription_member_id"`
	SubscriptionCurrentBalance  float64            `gorm:"column:subscription_current_balance;not null;default:0" json:"subscription_current_balance"`
	SubscriptionMonthsPaidAhead int                `gorm:"column:subscription_months_paid_ahead;not null;default:0" json:"subscription_months_paid_ahead"`
	SubscriptionNextPaymentDue  *time.Time         `gorm:"column:subscription_next_payment_due" json:"subscription_next_payment_due,omitempty"`
	SubscriptionLastPaymentDate *time.Time         `gorm:"column:subscription_last_payment_date" json:"subscription_last_payment_date,omitempty"`
	SubscriptionStatus          SubscriptionStatus `gorm:"column:subscription_status;type:varchar(20);not null;default:'active';index" json:"subscription_status"`
	SubscriptionCreatedAt       time.Time          `gorm:"column:subscription_created_at;not null" json:"subscription_created_at"`
	SubscriptionUpdatedAt       time.Time          `gorm:"column:subscription_updated_at;not null" json:"subscription_updated_at"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}

func (m *Subscription) BeforeCreate(tx *gorm.DB) error {
	if m.SubscriptionID == uuid.Nil {
		m.SubscriptionID = uuid.New()
	}
	now := time.Now()
	if m.SubscriptionCreatedAt.IsZero() {
		m.SubscriptionCreatedAt = now
	}
	m.SubscriptionUpdatedAt = now
	return nil
}

// MonthsPaidAhead derives the prepaid month count from a balance.
func MonthsPaidAhead(balance float64) int {
	if balance <= 0 {
		return 0
	}
	return int(balance / MonthlyFee)
}

// StatusFor maps a balance to the subscription status.
func StatusFor(balance float64) SubscriptionStatus {
	if balance >= 0 {
		return SubscriptionStatusActive
	}
	return SubscriptionStatusOverdue
}
