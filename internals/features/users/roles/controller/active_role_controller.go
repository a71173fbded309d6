// file: internals/features/users/roles/controller/active_role_controller.go
package controller

import (
	"errors"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"alshuail_backend/internals/constants"
	auditModel "alshuail_backend/internals/features/audit/model"
	auditService "alshuail_backend/internals/features/audit/service"
	authModel "alshuail_backend/internals/features/users/auth/model"
	"alshuail_backend/internals/features/users/roles/dto"
	rolesModel "alshuail_backend/internals/features/users/roles/model"
	helper "alshuail_backend/internals/helpers"
	authMw "alshuail_backend/internals/middlewares/auth"
)

// =======================================================
// BOOTSTRAP
// =======================================================

type ActiveRoleHandler struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func NewActiveRoleHandler(db *gorm.DB) *ActiveRoleHandler {
	return &ActiveRoleHandler{DB: db, Validate: validator.New()}
}

func assignableRole(role string) bool {
	for _, r := range constants.AssignableRoles {
		if r == role {
			return true
		}
	}
	return false
}

// parseDay accepts YYYY-MM-DD.
func parseDay(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", *s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// =======================================================
// POST /api/roles/assignments
// =======================================================

func (h *ActiveRoleHandler) Assign(c *fiber.Ctx) error {
	var req dto.AssignRoleDTO
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "نص الطلب غير صالح", "Invalid request body")
	}
	if err := h.Validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}
	if !assignableRole(req.Role) {
		return helper.Error(c, fiber.StatusBadRequest,
			"الدور المطلوب غير صالح", "Requested role is not assignable")
	}

	start, err := parseDay(req.StartDate)
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest,
			"تاريخ البداية غير صالح (YYYY-MM-DD)", "Invalid start date (YYYY-MM-DD)")
	}
	end, err := parseDay(req.EndDate)
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest,
			"تاريخ النهاية غير صالح (YYYY-MM-DD)", "Invalid end date (YYYY-MM-DD)")
	}
	if start != nil && end != nil && end.Before(*start) {
		return helper.Error(c, fiber.StatusBadRequest,
			"تاريخ النهاية قبل تاريخ البداية", "End date is before start date")
	}

	var user authModel.UserModel
	if err := h.DB.First(&user, "id = ?", req.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusNotFound,
				"المستخدم غير موجود", "User not found")
		}
		log.Printf("[ERROR] role assignment user lookup failed: %v", err)
		return helper.ServerError(c)
	}

	actx := authMw.MustFromCtx(c)

	grant := rolesModel.ActiveRole{
		ActiveRoleUserID:     req.UserID,
		ActiveRoleName:       req.Role,
		ActiveRoleStartDate:  start,
		ActiveRoleEndDate:    end,
		ActiveRoleIsActive:   true,
		ActiveRoleNotes:      req.Notes,
		ActiveRoleAssignedBy: actx.ID,
	}
	if err := h.DB.Create(&grant).Error; err != nil {
		log.Printf("[ERROR] role assignment failed: %v", err)
		return helper.Error(c, fiber.StatusInternalServerError,
			"فشل في إسناد الدور", "Failed to assign role")
	}

	if err := auditService.LogAction(h.DB, auditService.ActionEntry{
		UserID:     &actx.ID,
		UserEmail:  actx.Email,
		UserRole:   actx.Role,
		Action:     auditModel.ActionRoleAssigned,
		Resource:   "active_role",
		ResourceID: &grant.ActiveRoleID,
		Changes: map[string]interface{}{
			"user_id":    req.UserID,
			"role":       req.Role,
			"start_date": req.StartDate,
			"end_date":   req.EndDate,
		},
		IPAddress: c.IP(),
		UserAgent: c.Get(fiber.HeaderUserAgent),
	}); err != nil {
		log.Printf("[WARN] role assignment audit failed: %v", err)
	}

	return helper.SuccessWithCode(c, fiber.StatusCreated,
		"تم إسناد الدور بنجاح", "Role assigned successfully", grant)
}

// =======================================================
// GET /api/roles/assignments
// =======================================================

func (h *ActiveRoleHandler) List(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 20, 100)

	q := h.DB.Model(&rolesModel.ActiveRole{})
	if userID := c.Query("user_id"); userID != "" {
		id, err := uuid.Parse(userID)
		if err != nil {
			return helper.Error(c, fiber.StatusBadRequest,
				"معرف المستخدم غير صالح", "Invalid user ID")
		}
		q = q.Where("active_role_user_id = ?", id)
	}
	if role := c.Query("role"); role != "" {
		q = q.Where("active_role_name = ?", role)
	}
	if c.Query("active_only") == "true" {
		q = q.Where("active_role_is_active = ?", true)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		log.Printf("[ERROR] role assignments count failed: %v", err)
		return helper.ServerError(c)
	}

	var rows []rolesModel.ActiveRole
	if err := q.Order("active_role_created_at DESC").
		Limit(paging.PerPage).Offset(paging.Offset).
		Find(&rows).Error; err != nil {
		log.Printf("[ERROR] role assignments list failed: %v", err)
		return helper.ServerError(c)
	}

	return helper.Success(c, "تم جلب الأدوار", "Role assignments fetched", fiber.Map{
		"assignments": rows,
		"pagination":  helper.BuildPagination(paging.Page, paging.PerPage, total),
	})
}

// =======================================================
// PUT /api/roles/assignments/:id
// =======================================================

func (h *ActiveRoleHandler) Update(c *fiber.Ctx) error {
	grantID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "معرف الإسناد غير صالح", "Invalid assignment ID")
	}

	var req dto.UpdateRoleDTO
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "نص الطلب غير صالح", "Invalid request body")
	}
	if err := h.Validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	var grant rolesModel.ActiveRole
	if err := h.DB.First(&grant, "active_role_id = ?", grantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusNotFound,
				"إسناد الدور غير موجود", "Role assignment not found")
		}
		log.Printf("[ERROR] role assignment fetch failed: %v", err)
		return helper.ServerError(c)
	}

	updates := map[string]interface{}{"active_role_updated_at": time.Now()}
	if req.StartDate != nil {
		start, err := parseDay(req.StartDate)
		if err != nil {
			return helper.Error(c, fiber.StatusBadRequest,
				"تاريخ البداية غير صالح (YYYY-MM-DD)", "Invalid start date (YYYY-MM-DD)")
		}
		updates["active_role_start_date"] = start
	}
	if req.EndDate != nil {
		end, err := parseDay(req.EndDate)
		if err != nil {
			return helper.Error(c, fiber.StatusBadRequest,
				"تاريخ النهاية غير صالح (YYYY-MM-DD)", "Invalid end date (YYYY-MM-DD)")
		}
		updates["active_role_end_date"] = end
	}
	if req.IsActive != nil {
		updates["active_role_is_active"] = *req.IsActive
	}
	if req.Notes != nil {
		updates["active_role_notes"] = req.Notes
	}

	if err := h.DB.Model(&grant).Updates(updates).Error; err != nil {
		log.Printf("[ERROR] role assignment update failed: %v", err)
		return helper.Error(c, fiber.StatusInternalServerError,
			"فشل في تحديث إسناد الدور", "Failed to update role assignment")
	}

	return helper.Success(c, "تم تحديث إسناد الدور", "Role assignment updated", grant)
}

// =======================================================
// DELETE /api/roles/assignments/:id  (revoke)
// =======================================================

func (h *ActiveRoleHandler) Revoke(c *fiber.Ctx) error {
	grantID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "معرف الإسناد غير صالح", "Invalid assignment ID")
	}

	var grant rolesModel.ActiveRole
	if err := h.DB.First(&grant, "active_role_id = ?", grantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusNotFound,
				"إسناد الدور غير موجود", "Role assignment not found")
		}
		log.Printf("[ERROR] role assignment fetch failed: %v", err)
		return helper.ServerError(c)
	}

	// revoke keeps the row for the audit trail
	if err := h.DB.Model(&grant).Updates(map[string]interface{}{
		"active_role_is_active":  false,
		"active_role_updated_at": time.Now(),
	}).Error; err != nil {
		log.Printf("[ERROR] role revocation failed: %v", err)
		return helper.Error(c, fiber.StatusInternalServerError,
			"فشل في إلغاء إسناد الدور", "Failed to revoke role assignment")
	}

	actx := authMw.MustFromCtx(c)
	if err := auditService.LogAction(h.DB, auditService.ActionEntry{
		UserID:     &actx.ID,
		UserEmail:  actx.Email,
		UserRole:   actx.Role,
		Action:     auditModel.ActionRoleRevoked,
		Resource:   "active_role",
		ResourceID: &grant.ActiveRoleID,
		Changes: map[string]interface{}{
			"user_id": grant.ActiveRoleUserID,
			"role":    grant.ActiveRoleName,
		},
		IPAddress: c.IP(),
		UserAgent: c.Get(fiber.HeaderUserAgent),
	}); err != nil {
		log.Printf("[WARN] role revocation audit failed: %v", err)
	}

	return helper.Success(c, "تم إلغاء إسناد الدور", "Role assignment revoked", nil)
}
