// file: internals/features/finance/balance/controller/balance_adjustment_controller.go
package controller

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"alshuail_backend/internals/features/finance/balance/dto"
	balanceModel "alshuail_backend/internals/features/finance/balance/model"
	"alshuail_backend/internals/features/finance/balance/service"
	subsModel "alshuail_backend/internals/features/finance/subscriptions/model"
	memberModel "alshuail_backend/internals/features/members/model"
	helper "alshuail_backend/internals/helpers"
	authMw "alshuail_backend/internals/middlewares/auth"
)

// =======================================================
// BOOTSTRAP
// =======================================================

type BalanceAdjustmentHandler struct {
	DB     *gorm.DB
	Ledger *service.LedgerService
}

func NewBalanceAdjustmentHandler(db *gorm.DB) *BalanceAdjustmentHandler {
	return &BalanceAdjustmentHandler{DB: db, Ledger: service.NewLedgerService(db)}
}

// =======================================================
// POST /api/balance-adjustments
// =======================================================

func (h *BalanceAdjustmentHandler) Adjust(c *fiber.Ctx) error {
	var req dto.AdjustBalanceDTO
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "نص الطلب غير صالح", "Invalid request body")
	}

	if req.MemberID == uuid.Nil {
		return helper.Error(c, fiber.StatusBadRequest,
			"معرف العضو مطلوب", "Member ID is required")
	}
	if !balanceModel.ValidAdjustmentType(req.AdjustmentType) {
		return helper.Error(c, fiber.StatusBadRequest,
			"نوع التعديل غير صالح",
			"Invalid adjustment type. Must be: credit, debit, correction, initial_balance, or yearly_payment")
	}
	if req.Amount <= 0 {
		return helper.Error(c, fiber.StatusBadRequest,
			"المبلغ يجب أن يكون أكبر من صفر", "Amount must be greater than zero")
	}
	if strings.TrimSpace(req.Reason) == "" || len([]rune(strings.TrimSpace(req.Reason))) < 5 {
		return helper.Error(c, fiber.StatusBadRequest,
			"سبب التعديل مطلوب (5 أحرف على الأقل)",
			"Reason is required (at least 5 characters)")
	}

	currentYear := time.Now().Year()
	minYear := currentYear - 5
	if req.TargetYear != nil && (*req.TargetYear < minYear || *req.TargetYear > currentYear) {
		return helper.Error(c, fiber.StatusBadRequest,
			fmt.Sprintf("السنة يجب أن تكون بين %d و %d", minYear, currentYear),
			fmt.Sprintf("Year must be between %d and %d", minYear, currentYear))
	}
	if req.TargetMonth != nil && (*req.TargetMonth < 1 || *req.TargetMonth > 12) {
		return helper.Error(c, fiber.StatusBadRequest,
			"الشهر يجب أن يكون بين 1 و 12", "Month must be between 1 and 12")
	}

	actx := authMw.MustFromCtx(c)

	result, err := h.Ledger.Adjust(service.AdjustInput{
		MemberID:    req.MemberID,
		Type:        req.AdjustmentType,
		Amount:      req.Amount,
		TargetYear:  req.TargetYear,
		TargetMonth: req.TargetMonth,
		Reason:      strings.TrimSpace(req.Reason),
		Notes:       req.Notes,
		Actor:       service.Actor{ID: actx.ID, Email: actx.Email, Role: actx.Role},
		IPAddress:   c.IP(),
		UserAgent:   c.Get(fiber.HeaderUserAgent),
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMemberNotFound):
			return helper.Error(c, fiber.StatusNotFound, "العضو غير موجود", "Member not found")
		case errors.Is(err, service.ErrStaleBalance):
			return helper.Error(c, fiber.StatusConflict,
				"تغير الرصيد أثناء المعالجة، يرجى المحاولة مرة أخرى",
				"Balance changed while processing, please retry")
		default:
			log.Printf("[ERROR] balance adjustment failed: %v", err)
			return helper.Error(c, fiber.StatusInternalServerError,
				"فشل في تعديل الرصيد", "Failed to adjust balance")
		}
	}

	return helper.Success(c, "تم تعديل الرصيد بنجاح", "Balance adjusted successfully", result)
}

// =======================================================
// GET /api/balance-adjustments
// =======================================================

func (h *BalanceAdjustmentHandler) ListAll(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 20, 100)

	q := h.DB.Model(&balanceModel.BalanceAdjustment{})

	if t := strings.TrimSpace(c.Query("adjustment_type")); t != "" {
		q = q.Where("adjustment_type = ?", t)
	}
	if y := c.QueryInt("target_year"); y != 0 {
		q = q.Where("adjustment_target_year = ?", y)
	}
	if from := strings.TrimSpace(c.Query("from_date")); from != "" {
		q = q.Where("adjustment_created_at >= ?", from)
	}
	if to := strings.TrimSpace(c.Query("to_date")); to != "" {
		q = q.Where("adjustment_created_at <= ?", to)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		log.Printf("[ERROR] adjustments count failed: %v", err)
		return helper.Error(c, fiber.StatusInternalServerError,
			"فشل في جلب التعديلات", "Failed to fetch adjustments")
	}

	var rows []balanceModel.BalanceAdjustment
	if err := q.Order("adjustment_created_at DESC").
		Limit(paging.PerPage).Offset(paging.Offset).
		Find(&rows).Error; err != nil {
		log.Printf("[ERROR] adjustments list failed: %v", err)
		return helper.Error(c, fiber.StatusInternalServerError,
			"فشل في جلب التعديلات", "Failed to fetch adjustments")
	}

	return helper.Success(c, "تم جلب التعديلات", "Adjustments fetched", fiber.Map{
		"adjustments": rows,
		"pagination":  helper.BuildPagination(paging.Page, paging.PerPage, total),
	})
}

// =======================================================
// GET /api/balance-adjustments/member/:memberId
// =======================================================

func (h *BalanceAdjustmentHandler) MemberHistory(c *fiber.Ctx) error {
	memberID, err := uuid.Parse(c.Params("memberId"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "معرف العضو غير صالح", "Invalid member ID")
	}

	paging := helper.ResolvePaging(c, 20, 100)

	q := h.DB.Model(&balanceModel.BalanceAdjustment{}).
		Where("adjustment_member_id = ?", memberID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		log.Printf("[ERROR] member history count failed: %v", err)
		return helper.Error(c, fiber.StatusInternalServerError,
			"فشل في جلب سجل التعديلات", "Failed to fetch adjustment history")
	}

	var rows []balanceModel.BalanceAdjustment
	if err := q.Order("adjustment_created_at DESC").
		Limit(paging.PerPage).Offset(paging.Offset).
		Find(&rows).Error; err != nil {
		log.Printf("[ERROR] member history failed: %v", err)
		return helper.Error(c, fiber.StatusInternalServerError,
			"فشل في جلب سجل التعديلات", "Failed to fetch adjustment history")
	}

	return helper.Success(c, "تم جلب سجل التعديلات", "Adjustment history fetched", fiber.Map{
		"adjustments": rows,
		"pagination":  helper.BuildPagination(paging.Page, paging.PerPage, total),
	})
}

// =======================================================
// GET /api/balance-adjustments/summary/:memberId
// =======================================================

func (h *BalanceAdjustmentHandler) MemberSummary(c *fiber.Ctx) error {
	memberID, err := uuid.Parse(c.Params("memberId"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "معرف العضو غير صالح", "Invalid member ID")
	}

	var member memberModel.Member
	if err := h.DB.First(&member, "member_id = ?", memberID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "العضو غير موجود", "Member not found")
		}
		log.Printf("[ERROR] summary member fetch failed: %v", err)
		return helper.Error(c, fiber.StatusInternalServerError,
			"فشل في جلب ملخص الرصيد", "Failed to fetch balance summary")
	}

	summary := dto.MemberBalanceSummary{
		Member: dto.SummaryMember{
			ID:               member.MemberID,
			FullName:         member.MemberFullName,
			MembershipNumber: member.MemberMembershipNumber,
			Phone:            member.MemberPhone,
			CurrentBalance:   member.MemberBalance,
			MemberSince:      member.MemberCreatedAt.Format(time.RFC3339),
		},
		YearlyBreakdown: map[int]float64{
			2021: member.MemberPayment2021,
			2022: member.MemberPayment2022,
			2023: member.MemberPayment2023,
			2024: member.MemberPayment2024,
			2025: member.MemberPayment2025,
		},
		RecentAdjustments: []balanceModel.BalanceAdjustment{},
	}
	summary.TotalFromYearlyPayments = member.YearlyTotal()

	// discrepancy only reported beyond the 0.01 tolerance
	if diff := summary.TotalFromYearlyPayments - member.MemberBalance; diff > 0.01 || diff < -0.01 {
		summary.BalanceDiscrepancy = diff
	}

	var sub subsModel.Subscription
	if err := h.DB.First(&sub, "subscription_member_id = ?", memberID).Error; err == nil {
		s := dto.SummarySubscription{
			Status:          string(sub.SubscriptionStatus),
			MonthsPaidAhead: sub.SubscriptionMonthsPaidAhead,
		}
		if sub.SubscriptionNextPaymentDue != nil {
			v := sub.SubscriptionNextPaymentDue.Format(time.RFC3339)
			s.NextPaymentDue = &v
		}
		if sub.SubscriptionLastPaymentDate != nil {
			v := sub.SubscriptionLastPaymentDate.Format(time.RFC3339)
			s.LastPaymentDate = &v
		}
		summary.Subscription = &s
	}

	if err := h.DB.
		Where("adjustment_member_id = ?", memberID).
		Order("adjustment_created_at DESC").
		Limit(10).
		Find(&summary.RecentAdjustments).Error; err != nil {
		log.Printf("[WARN] recent adjustments fetch failed: %v", err)
	}

	return helper.Success(c, "تم جلب ملخص الرصيد", "Balance summary fetched", summary)
}

// =======================================================
// POST /api/balance-adjustments/bulk-restore
// =======================================================

func (h *BalanceAdjustmentHandler) BulkRestore(c *fiber.Ctx) error {
	var req dto.BulkRestoreDTO
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "نص الطلب غير صالح", "Invalid request body")
	}

	if strings.TrimSpace(req.Reason) == "" || len([]rune(strings.TrimSpace(req.Reason))) < 5 {
		return helper.Error(c, fiber.StatusBadRequest,
			"سبب الاستعادة مطلوب", "Restore reason is required")
	}
	if req.RestoreYear != nil {
		if _, ok := memberModel.PaymentColumn(*req.RestoreYear); !ok {
			return helper.Error(c, fiber.StatusBadRequest,
				fmt.Sprintf("سنة الاستعادة يجب أن تكون بين %d و %d", memberModel.FirstPaymentYear, memberModel.LastPaymentYear),
				fmt.Sprintf("Restore year must be between %d and %d", memberModel.FirstPaymentYear, memberModel.LastPaymentYear))
		}
	}

	actx := authMw.MustFromCtx(c)

	result, err := h.Ledger.BulkRestore(service.BulkRestoreInput{
		MemberIDs:   req.MemberIDs,
		RestoreYear: req.RestoreYear,
		Reason:      strings.TrimSpace(req.Reason),
		Actor:       service.Actor{ID: actx.ID, Email: actx.Email, Role: actx.Role},
		IPAddress:   c.IP(),
	})
	if err != nil {
		log.Printf("[ERROR] bulk restore failed: %v", err)
		return helper.Error(c, fiber.StatusInternalServerError,
			"فشل في استعادة الأرصدة", "Failed to restore balances")
	}

	return helper.Success(c,
		fmt.Sprintf("تم استعادة %d رصيد بنجاح", len(result.Success)),
		fmt.Sprintf("Successfully restored %d balances", len(result.Success)),
		result)
}
