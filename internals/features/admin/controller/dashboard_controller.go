// file: internals/features/admin/controller/dashboard_controller.go
package controller

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	diyaModel "alshuail_backend/internals/features/diyas/model"
	subsModel "alshuail_backend/internals/features/finance/subscriptions/model"
	transferModel "alshuail_backend/internals/features/finance/transfers/model"
	memberModel "alshuail_backend/internals/features/members/model"
	helper "alshuail_backend/internals/helpers"
	authMw "alshuail_backend/internals/middlewares/auth"
)

// =======================================================
// BOOTSTRAP
// =======================================================

type DashboardHandler struct {
	DB *gorm.DB
}

func NewDashboardHandler(db *gorm.DB) *DashboardHandler {
	return &DashboardHandler{DB: db}
}

// =======================================================
// GET /api/admin/dashboard/stats
// =======================================================

func (h *DashboardHandler) Stats(c *fiber.Ctx) error {
	actx := authMw.MustFromCtx(c)

	type statusCount struct {
		Status memberModel.MemberStatus `gorm:"column:member_status"`
		Total  int64                    `gorm:"column:total"`
	}
	var byStatus []statusCount
	if err := h.DB.Model(&memberModel.Member{}).
		Select("member_status, COUNT(*) AS total").
		Group("member_status").
		Scan(&byStatus).Error; err != nil {
		log.Printf("[ERROR] dashboard member counts failed: %v", err)
		return helper.Error(c, fiber.StatusInternalServerError,
			"فشل في جلب الإحصائيات", "Failed to fetch dashboard stats")
	}

	members := fiber.Map{"total": int64(0), "active": int64(0), "pending_approval": int64(0), "rejected": int64(0)}
	var totalMembers int64
	for _, sc := range byStatus {
		members[string(sc.Status)] = sc.Total
		totalMembers += sc.Total
	}
	members["total"] = totalMembers

	var totalBalance float64
	if err := h.DB.Model(&memberModel.Member{}).
		Select("COALESCE(SUM(member_balance), 0)").
		Scan(&totalBalance).Error; err != nil {
		log.Printf("[WARN] dashboard total balance failed: %v", err)
	}

	var overdueSubscriptions int64
	if err := h.DB.Model(&subsModel.Subscription{}).
		Where("subscription_status = ?", subsModel.SubscriptionStatusOverdue).
		Count(&overdueSubscriptions).Error; err != nil {
		log.Printf("[WARN] dashboard overdue count failed: %v", err)
	}

	var pendingTransfers int64
	if err := h.DB.Model(&transferModel.BankTransferRequest{}).
		Where("transfer_status = ?", transferModel.TransferStatusPending).
		Count(&pendingTransfers).Error; err != nil {
		log.Printf("[WARN] dashboard pending transfers failed: %v", err)
	}

	var openDiyaCases int64
	if err := h.DB.Model(&diyaModel.DiyaCase{}).
		Where("diya_status IN ?", []diyaModel.DiyaStatus{
			diyaModel.DiyaStatusOpen, diyaModel.DiyaStatusCollecting,
		}).
		Count(&openDiyaCases).Error; err != nil {
		log.Printf("[WARN] dashboard diya count failed: %v", err)
	}

	return helper.Success(c, "تم جلب الإحصائيات", "Dashboard stats fetched", fiber.Map{
		"members":               members,
		"total_balance":         totalBalance,
		"overdue_subscriptions": overdueSubscriptions,
		"pending_transfers":     pendingTransfers,
		"open_diya_cases":       openDiyaCases,
		"viewer_mode":           actx.IsViewer(),
	})
}

// =======================================================
// GET /api/admin/member-monitoring
// =======================================================

// MemberMonitoring lists members with their payment overview and flags
// balances that drifted from the yearly payment columns.
func (h *DashboardHandler) MemberMonitoring(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 25, 100)

	q := h.DB.Model(&memberModel.Member{})
	if status := strings.TrimSpace(c.Query("status")); status != "" {
		q = q.Where("member_status = ?", status)
	}
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		like := "%" + search + "%"
		q = q.Where("member_full_name ILIKE ? OR member_membership_number ILIKE ?", like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		log.Printf("[ERROR] monitoring count failed: %v", err)
		return helper.Error(c, fiber.StatusInternalServerError,
			"فشل في جلب بيانات المتابعة", "Failed to fetch monitoring data")
	}

	var members []memberModel.Member
	if err := q.Order("member_membership_number ASC").
		Limit(paging.PerPage).Offset(paging.Offset).
		Find(&members).Error; err != nil {
		log.Printf("[ERROR] monitoring list failed: %v", err)
		return helper.Error(c, fiber.StatusInternalServerError,
			"فشل في جلب بيانات المتابعة", "Failed to fetch monitoring data")
	}

	type monitoringRow struct {
		MemberID         interface{}     `json:"member_id"`
		FullName         string          `json:"full_name"`
		MembershipNumber string          `json:"membership_number"`
		Status           string          `json:"status"`
		Balance          float64         `json:"balance"`
		YearlyPayments   map[int]float64 `json:"yearly_payments"`
		YearlyTotal      float64         `json:"yearly_total"`
		MonthsPaidAhead  int             `json:"months_paid_ahead"`
		HasDiscrepancy   bool            `json:"has_discrepancy"`
		Discrepancy      float64         `json:"discrepancy,omitempty"`
	}

	rows := make([]monitoringRow, 0, len(members))
	for _, m := range members {
		yearlyTotal := m.YearlyTotal()
		diff := yearlyTotal - m.MemberBalance
		row := monitoringRow{
			MemberID:         m.MemberID,
			FullName:         m.MemberFullName,
			MembershipNumber: m.MemberMembershipNumber,
			Status:           string(m.MemberStatus),
			Balance:          m.MemberBalance,
			YearlyPayments: map[int]float64{
				2021: m.MemberPayment2021,
				2022: m.MemberPayment2022,
				2023: m.MemberPayment2023,
				2024: m.MemberPayment2024,
				2025: m.MemberPayment2025,
			},
			YearlyTotal:     yearlyTotal,
			MonthsPaidAhead: subsModel.MonthsPaidAhead(m.MemberBalance),
		}
		if diff > 0.01 || diff < -0.01 {
			row.HasDiscrepancy = true
			row.Discrepancy = diff
		}
		rows = append(rows, row)
	}

	return helper.Success(c, "تم جلب بيانات المتابعة", "Monitoring data fetched", fiber.Map{
		"members":    rows,
		"pagination": helper.BuildPagination(paging.Page, paging.PerPage, total),
	})
}
