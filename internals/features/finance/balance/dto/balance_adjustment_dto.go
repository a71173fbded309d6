package dto

import (
	"github.com/google/uuid"

	balanceModel "alshuail_backend/internals/features/finance/balance/model"
)

////////////////////////////////////////////////////////////////////////////////
// REQUESTS
////////////////////////////////////////////////////////////////////////////////

type AdjustBalanceDTO struct {
	MemberID       uuid.UUID                   `json:"member_id" validate:"required"`
	AdjustmentType balanceModel.AdjustmentType `json:"adjustment_type" validate:"required"`
	Amount         float64                     `json:"amount"`
	TargetYear     *int                        `json:"target_year,omitempty"`
	TargetMonth    *int                        `json:"target_month,omitempty"`
	Reason         string                      `json:"reason"`
	Notes          *string                     `json:"notes,omitempty"`
}

type BulkRestoreDTO struct {
	MemberIDs   []uuid.UUID `json:"member_ids,omitempty"`
	RestoreYear *int        `json:"restore_year,omitempty"`
	Reason      string      `json:"reason"`
}

////////////////////////////////////////////////////////////////////////////////
// RESPONSES
////////////////////////////////////////////////////////////////////////////////

type MemberBalanceSummary struct {
	Member                  SummaryMember                    `json:"member"`
	Subscription            *SummarySubscription             `json:"subscription"`
	YearlyBreakdown         map[int]float64                  `json:"yearly_breakdown"`
	TotalFromYearlyPayments float64                          `json:"total_from_yearly_payments"`
	BalanceDiscrepancy      float64                          `json:"balance_discrepancy"`
	RecentAdjustments       []balanceModel.BalanceAdjustment `json:"recent_adjustments"`
}

type SummaryMember struct {
	ID               uuid.UUID `json:"id"`
	FullName         string    `json:"full_name"`
	MembershipNumber string    `json:"membership_number"`
	Phone            string    `json:"phone"`
	CurrentBalance   float64   `json:"current_balance"`
	MemberSince      string    `json:"member_since"`
}

type SummarySubscription struct {
	Status          string  `json:"status"`
	MonthsPaidAhead int     `json:"months_paid_ahead"`
	NextPaymentDue  *string `json:"next_payment_due,omitempty"`
	LastPaymentDate *string `json:"last_payment_date,omitempty"`
}
