// file: internals/features/finance/balance/service/ledger_service.go
package service

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	auditModel "alshuail_backend/internals/features/audit/model"
	auditService "alshuail_backend/internals/features/audit/service"
	balanceModel "alshuail_backend/internals/features/finance/balance/model"
	subsModel "alshuail_backend/internals/features/finance/subscriptions/model"
	memberModel "alshuail_backend/internals/features/members/model"
)

// Sentinel errors the controller maps to HTTP statuses.
var (
	ErrMemberNotFound = errors.New("member not found")
	ErrStaleBalance   = errors.New("balance changed concurrently")
)

// Actor identifies the administrator driving a mutation.
type Actor struct {
	ID    uuid.UUID
	Email string
	Role  string
}

type LedgerService struct {
	DB *gorm.DB
}

func NewLedgerService(db *gorm.DB) *LedgerService {
	return &LedgerService{DB: db}
}

// =========================================================
// Adjust — one balance adjustment, fully transactional
// =========================================================

type AdjustInput struct {
	MemberID    uuid.UUID
	Type        balanceModel.AdjustmentType
	Amount      float64
	TargetYear  *int
	TargetMonth *int
	Reason      string
	Notes       *string
	Actor       Actor
	IPAddress   string
	UserAgent   string
}

type AdjustResult struct {
	AdjustmentID     uuid.UUID `json:"adjustment_id"`
	MemberID         uuid.UUID `json:"member_id"`
	MemberName       string    `json:"member_name"`
	MembershipNumber string    `json:"membership_number"`
	PreviousBalance  float64   `json:"previous_balance"`
	NewBalance       float64   `json:"new_balance"`
	AdjustmentType   balanceModel.AdjustmentType `json:"adjustment_type"`
	Amount           float64   `json:"amount"`
	TargetYear       *int      `json:"target_year,omitempty"`
	TargetMonth      *int      `json:"target_month,omitempty"`
}

// Adjust applies one adjustment: member balance (+ optional year column),
// subscription sync, balance_adjustments row, financial_audit_trail row —
// all inside a single transaction. The member update carries a
// previous-balance precondition so concurrent adjustments cannot silently
// lose each other; a stale baseline surfaces as ErrStaleBalance.
func (s *LedgerService) Adjust(in AdjustInput) (*AdjustResult, error) {
	var result AdjustResult

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var member memberModel.Member
		if err := tx.First(&member, "member_id = ?", in.MemberID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrMemberNotFound
			}
			return err
		}

		previous := member.MemberBalance
		newBalance := applyAdjustment(in.Type, previous, in.Amount)

		updates := map[string]any{
			"member_balance":    newBalance,
			"member_updated_at": time.Now(),
		}

		// target year also moves the matching per-year column
		if in.TargetYear != nil {
			if col, ok := memberModel.PaymentColumn(*in.TargetYear); ok {
				current, _ := member.YearPayment(*in.TargetYear)
				updates[col] = applyYearAdjustment(in.Type, current, in.Amount)
			}
		}

		res := tx.Model(&memberModel.Member{}).
			Where("member_id = ? AND member_balance = ?", member.MemberID, previous).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrStaleBalance
		}

		if err := SyncSubscription(tx, member.MemberID, newBalance, nil); err != nil {
			return err
		}

		row := balanceModel.BalanceAdjustment{
			AdjustmentMemberID:        member.MemberID,
			AdjustmentType:            in.Type,
			AdjustmentAmount:          in.Amount,
			AdjustmentPreviousBalance: previous,
			AdjustmentNewBalance:      newBalance,
			AdjustmentTargetYear:      in.TargetYear,
			AdjustmentTargetMonth:     in.TargetMonth,
			AdjustmentReason:          in.Reason,
			AdjustmentNotes:           in.Notes,
			AdjustmentAdjustedBy:      in.Actor.ID,
		}
		if in.Actor.Email != "" {
			row.AdjustmentAdjustedByEmail = &in.Actor.Email
		}
		if in.Actor.Role != "" {
			row.AdjustmentAdjustedByRole = &in.Actor.Role
		}
		if in.IPAddress != "" {
			row.AdjustmentIPAddress = &in.IPAddress
		}
		if in.UserAgent != "" {
			row.AdjustmentUserAgent = &in.UserAgent
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}

		trail := auditModel.FinancialAuditTrail{
			FinAuditUserID:        in.Actor.ID,
			FinAuditOperation:     "BALANCE_ADJUSTMENT",
			FinAuditResourceType:  "member_balance",
			FinAuditResourceID:    member.MemberID,
			FinAuditPreviousValue: auditService.MarshalJSONValue(map[string]any{"balance": previous}),
			FinAuditNewValue: auditService.MarshalJSONValue(map[string]any{
				"balance":         newBalance,
				"adjustment_type": in.Type,
				"amount":          in.Amount,
			}),
			FinAuditMetadata: auditService.MarshalJSONValue(map[string]any{
				"reason":       in.Reason,
				"target_year":  in.TargetYear,
				"target_month": in.TargetMonth,
				"notes":        in.Notes,
			}),
		}
		if in.IPAddress != "" {
			trail.FinAuditIPAddress = &in.IPAddress
		}
		if err := tx.Create(&trail).Error; err != nil {
			return err
		}

		result = AdjustResult{
			AdjustmentID:     row.AdjustmentID,
			MemberID:         member.MemberID,
			MemberName:       member.MemberFullName,
			MembershipNumber: member.MemberMembershipNumber,
			PreviousBalance:  previous,
			NewBalance:       newBalance,
			AdjustmentType:   in.Type,
			Amount:           in.Amount,
			TargetYear:       in.TargetYear,
			TargetMonth:      in.TargetMonth,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[SUCCESS] balance adjusted member=%s type=%s %v -> %v by=%s",
		result.MemberID, in.Type, result.PreviousBalance, result.NewBalance, in.Actor.Email)
	return &result, nil
}

// =========================================================
// SyncSubscription — shared with bulk restore and transfers
// =========================================================

// SyncSubscription recomputes the derived subscription fields from a balance.
// Members without a subscription row are left alone. paidAt, when non-nil,
// also stamps last_payment_date.
func SyncSubscription(tx *gorm.DB, memberID uuid.UUID, newBalance float64, paidAt *time.Time) error {
	var sub subsModel.Subscription
	err := tx.First(&sub, "subscription_member_id = ?", memberID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	months := subsModel.MonthsPaidAhead(newBalance)
	nextDue := time.Now().AddDate(0, months, 0)

	updates := map[string]any{
		"subscription_current_balance":   newBalance,
		"subscription_months_paid_ahead": months,
		"subscription_next_payment_due":  nextDue,
		"subscription_status":            subsModel.StatusFor(newBalance),
		"subscription_updated_at":        time.Now(),
	}
	if paidAt != nil {
		updates["subscription_last_payment_date"] = *paidAt
	}

	return tx.Model(&subsModel.Subscription{}).
		Where("subscription_id = ?", sub.SubscriptionID).
		Updates(updates).Error
}

// =========================================================
// BulkRestore — recompute balances from the yearly columns
// =========================================================

type BulkRestoreInput struct {
	MemberIDs   []uuid.UUID
	RestoreYear *int
	Reason      string
	Actor       Actor
	IPAddress   string
}

type BulkRestoreOutcome struct {
	MemberID         uuid.UUID `json:"member_id"`
	Name             string    `json:"name"`
	PreviousBalance  float64   `json:"previous_balance,omitempty"`
	NewBalance       float64   `json:"new_balance,omitempty"`
	Reason           string    `json:"reason,omitempty"`
	Error            string    `json:"error,omitempty"`
}

type BulkRestoreResult struct {
	Success []BulkRestoreOutcome `json:"success"`
	Failed  []BulkRestoreOutcome `json:"failed"`
	Skipped []BulkRestoreOutcome `json:"skipped"`
}

// BulkRestore walks the selected members best-effort: each member gets its
// own transaction, one failure never aborts the batch. A member whose stored
// balance already matches the recomputed value within 0.01 is skipped.
func (s *LedgerService) BulkRestore(in BulkRestoreInput) (*BulkRestoreResult, error) {
	q := s.DB.Model(&memberModel.Member{})
	if len(in.MemberIDs) > 0 {
		q = q.Where("member_id IN ?", in.MemberIDs)
	}

	var members []memberModel.Member
	if err := q.Find(&members).Error; err != nil {
		return nil, err
	}

	out := &BulkRestoreResult{
		Success: []BulkRestoreOutcome{},
		Failed:  []BulkRestoreOutcome{},
		Skipped: []BulkRestoreOutcome{},
	}

	for i := range members {
		member := &members[i]

		var calculated float64
		if in.RestoreYear != nil {
			calculated, _ = member.YearPayment(*in.RestoreYear)
		} else {
			calculated = member.YearlyTotal()
		}
		calculated = clampBalanceFloat(calculated)

		previous := member.MemberBalance
		if withinTolerance(calculated, previous) {
			out.Skipped = append(out.Skipped, BulkRestoreOutcome{
				MemberID: member.MemberID,
				Name:     member.MemberFullName,
				Reason:   "Balance already correct",
			})
			continue
		}

		err := s.restoreOne(member, previous, calculated, in)
		if err != nil {
			out.Failed = append(out.Failed, BulkRestoreOutcome{
				MemberID: member.MemberID,
				Name:     member.MemberFullName,
				Error:    err.Error(),
			})
			continue
		}

		out.Success = append(out.Success, BulkRestoreOutcome{
			MemberID:        member.MemberID,
			Name:            member.MemberFullName,
			PreviousBalance: previous,
			NewBalance:      calculated,
		})
	}

	log.Printf("[INFO] bulk restore done success=%d failed=%d skipped=%d by=%s",
		len(out.Success), len(out.Failed), len(out.Skipped), in.Actor.Email)
	return out, nil
}

func (s *LedgerService) restoreOne(member *memberModel.Member, previous, calculated float64, in BulkRestoreInput) error {
	scope := "all years"
	if in.RestoreYear != nil {
		scope = fmt.Sprintf("year %d", *in.RestoreYear)
	}
	notes := "Bulk restore from yearly payment fields (" + scope + ")"

	return s.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&memberModel.Member{}).
			Where("member_id = ? AND member_balance = ?", member.MemberID, previous).
			Updates(map[string]any{
				"member_balance":    calculated,
				"member_updated_at": time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrStaleBalance
		}

		if err := SyncSubscription(tx, member.MemberID, calculated, nil); err != nil {
			return err
		}

		row := balanceModel.BalanceAdjustment{
			AdjustmentMemberID:        member.MemberID,
			AdjustmentType:            balanceModel.AdjustmentBulkRestore,
			AdjustmentAmount:          calculated,
			AdjustmentPreviousBalance: previous,
			AdjustmentNewBalance:      calculated,
			AdjustmentTargetYear:      in.RestoreYear,
			AdjustmentReason:          in.Reason,
			AdjustmentNotes:           &notes,
			AdjustmentAdjustedBy:      in.Actor.ID,
		}
		if in.Actor.Email != "" {
			row.AdjustmentAdjustedByEmail = &in.Actor.Email
		}
		if in.Actor.Role != "" {
			row.AdjustmentAdjustedByRole = &in.Actor.Role
		}
		if in.IPAddress != "" {
			row.AdjustmentIPAddress = &in.IPAddress
		}
		return tx.Create(&row).Error
	})
}
