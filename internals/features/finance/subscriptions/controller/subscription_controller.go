// file: internals/features/finance/subscriptions/controller/subscription_controller.go
package controller

import (
	"errors"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	subsModel "alshuail_backend/internals/features/finance/subscriptions/model"
	memberModel "alshuail_backend/internals/features/members/model"
	helper "alshuail_backend/internals/helpers"
)

// =======================================================
// BOOTSTRAP
// =======================================================

type SubscriptionHandler struct {
	DB *gorm.DB
}

func NewSubscriptionHandler(db *gorm.DB) *SubscriptionHandler {
	return &SubscriptionHandler{DB: db}
}

// subscriptionView joins the member identity onto the subscription row for
// list screens.
type subscriptionView struct {
	subsModel.Subscription
	MemberFullName         string `json:"member_full_name"`
	MemberMembershipNumber string `json:"member_membership_number"`
	MemberPhone            string `json:"member_phone"`
}

// =======================================================
// GET /api/subscriptions
// =======================================================

func (h *SubscriptionHandler) List(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 20, 100)

	q := h.DB.Model(&subsModel.Subscription{}).
		Select("subscriptions.*, members.member_full_name, members.member_membership_number, members.member_phone").
		Joins("JOIN members ON members.member_id = subscriptions.subscription_member_id")

	if status := strings.TrimSpace(c.Query("status")); status != "" {
		q = q.Where("subscriptions.subscription_status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		log.Printf("[ERROR] subscriptions count failed: %v", err)
		return helper.Error(c, fiber.StatusInternalServerError,
			"فشل في جلب الاشتراكات", "Failed to fetch subscriptions")
	}

	var rows []subscriptionView
	if err := q.Order("subscriptions.subscription_updated_at DESC").
		Limit(paging.PerPage).Offset(paging.Offset).
		Find(&rows).Error; err != nil {
		log.Printf("[ERROR] subscriptions list failed: %v", err)
		return helper.Error(c, fiber.StatusInternalServerError,
			"فشل في جلب الاشتراكات", "Failed to fetch subscriptions")
	}

	return helper.Success(c, "تم جلب الاشتراكات", "Subscriptions fetched", fiber.Map{
		"subscriptions": rows,
		"pagination":    helper.BuildPagination(paging.Page, paging.PerPage, total),
	})
}

// =======================================================
// GET /api/subscriptions/member/:memberId
// =======================================================

func (h *SubscriptionHandler) GetByMember(c *fiber.Ctx) error {
	memberID, err := uuid.Parse(c.Params("memberId"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "معرف العضو غير صالح", "Invalid member ID")
	}

	var member memberModel.Member
	if err := h.DB.First(&member, "member_id = ?", memberID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "العضو غير موجود", "Member not found")
		}
		log.Printf("[ERROR] subscription member fetch failed: %v", err)
		return helper.Error(c, fiber.StatusInternalServerError,
			"فشل في جلب الاشتراك", "Failed to fetch subscription")
	}

	var sub subsModel.Subscription
	if err := h.DB.First(&sub, "subscription_member_id = ?", memberID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusNotFound,
				"لا يوجد اشتراك لهذا العضو", "No subscription found for this member")
		}
		log.Printf("[ERROR] subscription fetch failed: %v", err)
		return helper.Error(c, fiber.StatusInternalServerError,
			"فشل في جلب الاشتراك", "Failed to fetch subscription")
	}

	return helper.Success(c, "تم جلب الاشتراك", "Subscription fetched", fiber.Map{
		"subscription": sub,
		"member": fiber.Map{
			"member_id":                member.MemberID,
			"member_full_name":         member.MemberFullName,
			"member_membership_number": member.MemberMembershipNumber,
			"member_balance":           member.MemberBalance,
		},
		"monthly_fee": subsModel.MonthlyFee,
	})
}

// =======================================================
// GET /api/subscriptions/overdue
// =======================================================

func (h *SubscriptionHandler) ListOverdue(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 20, 100)

	q := h.DB.Model(&subsModel.Subscription{}).
		Select("subscriptions.*, members.member_full_name, members.member_membership_number, members.member_phone").
		Joins("JOIN members ON members.member_id = subscriptions.subscription_member_id").
		Where("subscriptions.subscription_status = ?", subsModel.SubscriptionStatusOverdue)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		log.Printf("[ERROR] overdue count failed: %v", err)
		return helper.Error(c, fiber.StatusInternalServerError,
			"فشل في جلب الاشتراكات المتأخرة", "Failed to fetch overdue subscriptions")
	}

	var rows []subscriptionView
	if err := q.Order("subscriptions.subscription_current_balance ASC").
		Limit(paging.PerPage).Offset(paging.Offset).
		Find(&rows).Error; err != nil {
		log.Printf("[ERROR] overdue list failed: %v", err)
		return helper.Error(c, fiber.StatusInternalServerError,
			"فشل في جلب الاشتراكات المتأخرة", "Failed to fetch overdue subscriptions")
	}

	return helper.Success(c, "تم جلب الاشتراكات المتأخرة", "Overdue subscriptions fetched", fiber.Map{
		"subscriptions": rows,
		"pagination":    helper.BuildPagination(paging.Page, paging.PerPage, total),
	})
}
