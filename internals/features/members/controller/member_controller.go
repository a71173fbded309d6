// file: internals/features/members/controller/member_controller.go
package controller

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	auditModel "alshuail_backend/internals/features/audit/model"
	auditService "alshuail_backend/internals/features/audit/service"
	subsModel "alshuail_backend/internals/features/finance/subscriptions/model"
	"alshuail_backend/internals/features/members/dto"
	"alshuail_backend/internals/features/members/model"
	helper "alshuail_backend/internals/helpers"
	authMw "alshuail_backend/internals/middlewares/auth"
)

// =======================================================
// BOOTSTRAP
// =======================================================

type MemberHandler struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func NewMemberHandler(db *gorm.DB) *MemberHandler {
	return &MemberHandler{DB: db, Validate: validator.New()}
}

// =======================================================
// HELPERS
// =======================================================

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return err != nil &&
		(strings.Contains(err.Error(), "duplicate key value") ||
			strings.Contains(err.Error(), "UNIQUE constraint failed"))
}

// nextMembershipNumber allocates the next sequential number. The unique index
// on the column backstops the read-then-write race.
func (h *MemberHandler) nextMembershipNumber(tx *gorm.DB) (string, error) {
	var current int64
	err := tx.Model(&model.Member{}).
		Select("COALESCE(MAX(CAST(member_membership_number AS INTEGER)), 10000)").
		Scan(&current).Error
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d", current+1), nil
}

func parseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	return uuid.Parse(c.Params(name))
}

// =======================================================
// POST /api/members
// =======================================================

func (h *MemberHandler) Create(c *fiber.Ctx) error {
	var req dto.MemberCreateDTO
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "نص الطلب غير صالح", "Invalid request body")
	}
	if err := h.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	phone, ok := helper.NormalizePhone(req.MemberPhone)
	if !ok {
		return helper.Error(c, fiber.StatusBadRequest,
			"رقم الهاتف غير صالح (سعودي أو كويتي فقط)",
			"Invalid phone number (Saudi or Kuwaiti formats only)")
	}

	actx := authMw.MustFromCtx(c)

	var member model.Member
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		number, err := h.nextMembershipNumber(tx)
		if err != nil {
			return err
		}

		member = model.Member{
			MemberMembershipNumber: number,
			MemberFullName:         strings.TrimSpace(req.MemberFullName),
			MemberPhone:            phone,
			MemberEmail:            req.MemberEmail,
			MemberStatus:           model.MemberStatusPendingApproval,
			MemberFamilyBranchID:   req.MemberFamilyBranchID,
			MemberFatherID:         req.MemberFatherID,
			MemberBalance:          req.InitialBalance,
		}
		if err := tx.Create(&member).Error; err != nil {
			return err
		}

		// every member carries exactly one subscription row
		sub := subsModel.Subscription{
			SubscriptionMemberID:        member.MemberID,
			SubscriptionCurrentBalance:  member.MemberBalance,
			SubscriptionMonthsPaidAhead: subsModel.MonthsPaidAhead(member.MemberBalance),
			SubscriptionStatus:          subsModel.StatusFor(member.MemberBalance),
		}
		return tx.Create(&sub).Error
	})
	if err != nil {
		if isUniqueViolation(err) {
			return helper.Error(c, fiber.StatusConflict,
				"رقم الهاتف مسجل مسبقاً",
				"Phone number is already registered")
		}
		log.Printf("[ERROR] member create failed: %v", err)
		return helper.ServerError(c)
	}

	memberID := member.MemberID
	actorID := actx.ID
	_ = auditService.LogAction(h.DB, auditService.ActionEntry{
		UserID:     &actorID,
		UserEmail:  actx.Email,
		UserRole:   actx.Role,
		Action:     auditModel.ActionMemberCreated,
		Resource:   "member",
		ResourceID: &memberID,
		Changes:    fiber.Map{"full_name": member.MemberFullName, "phone": member.MemberPhone},
		IPAddress:  c.IP(),
		UserAgent:  c.Get(fiber.HeaderUserAgent),
	})

	return helper.SuccessWithCode(c, fiber.StatusCreated,
		"تم إنشاء العضو بنجاح", "Member created successfully",
		dto.ToMemberResponse(&member))
}

// =======================================================
// GET /api/members
// =======================================================

func (h *MemberHandler) List(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 20, 100)

	q := h.DB.Model(&model.Member{})

	if status := strings.TrimSpace(c.Query("status")); status != "" {
		q = q.Where("member_status = ?", status)
	}
	if branch := strings.TrimSpace(c.Query("branch_id")); branch != "" {
		if branchID, err := uuid.Parse(branch); err == nil {
			q = q.Where("member_family_branch_id = ?", branchID)
		}
	}
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		like := "%" + search + "%"
		q = q.Where(
			"member_full_name LIKE ? OR member_phone LIKE ? OR member_membership_number LIKE ?",
			like, like, like,
		)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		log.Printf("[ERROR] member list count failed: %v", err)
		return helper.ServerError(c)
	}

	var members []model.Member
	if err := q.Order("member_created_at DESC").
		Limit(paging.PerPage).Offset(paging.Offset).
		Find(&members).Error; err != nil {
		log.Printf("[ERROR] member list failed: %v", err)
		return helper.ServerError(c)
	}

	out := make([]dto.MemberResponse, 0, len(members))
	for i := range members {
		out = append(out, dto.ToMemberResponse(&members[i]))
	}

	return helper.Success(c, "تم جلب الأعضاء", "Members fetched", fiber.Map{
		"members":    out,
		"pagination": helper.BuildPagination(paging.Page, paging.PerPage, total),
	})
}

// =======================================================
// GET /api/members/:id
// =======================================================

func (h *MemberHandler) Get(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "معرف العضو غير صالح", "Invalid member ID")
	}

	var member model.Member
	if err := h.DB.First(&member, "member_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "العضو غير موجود", "Member not found")
		}
		log.Printf("[ERROR] member get failed: %v", err)
		return helper.ServerError(c)
	}

	return helper.Success(c, "تم جلب العضو", "Member fetched", dto.ToMemberResponse(&member))
}

// =======================================================
// PUT /api/members/:id
// =======================================================

func (h *MemberHandler) Update(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "معرف العضو غير صالح", "Invalid member ID")
	}

	var req dto.MemberUpdateDTO
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "نص الطلب غير صالح", "Invalid request body")
	}
	if err := h.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	var member model.Member
	if err := h.DB.First(&member, "member_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "العضو غير موجود", "Member not found")
		}
		return helper.ServerError(c)
	}

	updates := map[string]any{"member_updated_at": time.Now()}
	if req.MemberFullName != nil {
		updates["member_full_name"] = strings.TrimSpace(*req.MemberFullName)
	}
	if req.MemberPhone != nil {
		phone, ok := helper.NormalizePhone(*req.MemberPhone)
		if !ok {
			return helper.Error(c, fiber.StatusBadRequest,
				"رقم الهاتف غير صالح (سعودي أو كويتي فقط)",
				"Invalid phone number (Saudi or Kuwaiti formats only)")
		}
		updates["member_phone"] = phone
	}
	if req.MemberEmail != nil {
		updates["member_email"] = *req.MemberEmail
	}
	if req.MemberFamilyBranchID != nil {
		updates["member_family_branch_id"] = *req.MemberFamilyBranchID
	}
	if req.MemberFatherID != nil {
		updates["member_father_id"] = *req.MemberFatherID
	}

	if err := h.DB.Model(&member).Updates(updates).Error; err != nil {
		if isUniqueViolation(err) {
			return helper.Error(c, fiber.StatusConflict,
				"رقم الهاتف مسجل مسبقاً", "Phone number is already registered")
		}
		log.Printf("[ERROR] member update failed: %v", err)
		return helper.ServerError(c)
	}

	actx := authMw.MustFromCtx(c)
	actorID := actx.ID
	memberID := member.MemberID
	_ = auditService.LogAction(h.DB, auditService.ActionEntry{
		UserID:     &actorID,
		UserEmail:  actx.Email,
		UserRole:   actx.Role,
		Action:     auditModel.ActionMemberUpdated,
		Resource:   "member",
		ResourceID: &memberID,
		Changes:    updates,
		IPAddress:  c.IP(),
		UserAgent:  c.Get(fiber.HeaderUserAgent),
	})

	return helper.Success(c, "تم تحديث العضو", "Member updated", dto.ToMemberResponse(&member))
}

// =======================================================
// PUT /api/members/:id/approve
// =======================================================

func (h *MemberHandler) Approve(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "معرف العضو غير صالح", "Invalid member ID")
	}

	actx := authMw.MustFromCtx(c)

	var member model.Member
	if err := h.DB.First(&member, "member_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "العضو غير موجود", "Member not found")
		}
		return helper.ServerError(c)
	}

	if member.MemberStatus != model.MemberStatusPendingApproval {
		return helper.Error(c, fiber.StatusConflict,
			"لا يمكن اعتماد هذا العضو - الحالة: "+string(member.MemberStatus),
			"Member cannot be approved - status: "+string(member.MemberStatus))
	}

	now := time.Now()
	updates := map[string]any{
		"member_status":      model.MemberStatusActive,
		"member_approved_by": actx.ID,
		"member_approved_at": now,
		"member_updated_at":  now,
	}
	if err := h.DB.Model(&member).Updates(updates).Error; err != nil {
		log.Printf("[ERROR] member approve failed: %v", err)
		return helper.ServerError(c)
	}

	actorID := actx.ID
	memberID := member.MemberID
	_ = auditService.LogAction(h.DB, auditService.ActionEntry{
		UserID:     &actorID,
		UserEmail:  actx.Email,
		UserRole:   actx.Role,
		Action:     auditModel.ActionMemberApproved,
		Resource:   "member",
		ResourceID: &memberID,
		IPAddress:  c.IP(),
		UserAgent:  c.Get(fiber.HeaderUserAgent),
	})

	return helper.Success(c, "تم اعتماد العضو بنجاح", "Member approved successfully", fiber.Map{
		"member_id": member.MemberID,
		"status":    model.MemberStatusActive,
	})
}

// =======================================================
// PUT /api/members/:id/reject
// =======================================================

func (h *MemberHandler) Reject(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "معرف العضو غير صالح", "Invalid member ID")
	}

	var req dto.MemberRejectDTO
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "نص الطلب غير صالح", "Invalid request body")
	}
	if err := h.Validate.Struct(req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest,
			"سبب الرفض مطلوب (5 أحرف على الأقل)",
			"Rejection reason is required (at least 5 characters)")
	}

	actx := authMw.MustFromCtx(c)

	var member model.Member
	if err := h.DB.First(&member, "member_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "العضو غير موجود", "Member not found")
		}
		return helper.ServerError(c)
	}

	if member.MemberStatus != model.MemberStatusPendingApproval {
		return helper.Error(c, fiber.StatusConflict,
			"لا يمكن رفض هذا العضو - الحالة: "+string(member.MemberStatus),
			"Member cannot be rejected - status: "+string(member.MemberStatus))
	}

	reason := strings.TrimSpace(req.Reason)
	if err := h.DB.Model(&member).Updates(map[string]any{
		"member_status":           model.MemberStatusRejected,
		"member_rejection_reason": reason,
		"member_updated_at":       time.Now(),
	}).Error; err != nil {
		log.Printf("[ERROR] member reject failed: %v", err)
		return helper.ServerError(c)
	}

	actorID := actx.ID
	memberID := member.MemberID
	_ = auditService.LogAction(h.DB, auditService.ActionEntry{
		UserID:     &actorID,
		UserEmail:  actx.Email,
		UserRole:   actx.Role,
		Action:     auditModel.ActionMemberRejected,
		Resource:   "member",
		ResourceID: &memberID,
		Changes:    fiber.Map{"reason": reason},
		IPAddress:  c.IP(),
		UserAgent:  c.Get(fiber.HeaderUserAgent),
	})

	return helper.Success(c, "تم رفض العضو", "Member rejected", fiber.Map{
		"member_id": member.MemberID,
		"status":    model.MemberStatusRejected,
	})
}
