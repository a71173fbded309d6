// file: internals/features/diyas/controller/diya_controller.go
package controller

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	auditModel "alshuail_backend/internals/features/audit/model"
	auditService "alshuail_backend/internals/features/audit/service"
	"alshuail_backend/internals/features/diyas/dto"
	diyaModel "alshuail_backend/internals/features/diyas/model"
	memberModel "alshuail_backend/internals/features/members/model"
	helper "alshuail_backend/internals/helpers"
	authMw "alshuail_backend/internals/middlewares/auth"
)

// =======================================================
// BOOTSTRAP
// =======================================================

type DiyaHandler struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func NewDiyaHandler(db *gorm.DB) *DiyaHandler {
	return &DiyaHandler{DB: db, Validate: validator.New()}
}

// =======================================================
// POST /api/diyas
// =======================================================

func (h *DiyaHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateDiyaDTO
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "نص الطلب غير صالح", "Invalid request body")
	}
	if err := h.Validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	actx := authMw.MustFromCtx(c)

	diya := diyaModel.DiyaCase{
		DiyaCaseNumber:       strings.TrimSpace(req.CaseNumber),
		DiyaDeceasedName:     strings.TrimSpace(req.DeceasedName),
		DiyaBeneficiaryName:  strings.TrimSpace(req.BeneficiaryName),
		DiyaBeneficiaryPhone: req.BeneficiaryPhone,
		DiyaAmountRequired:   req.AmountRequired,
		DiyaStatus:           diyaModel.DiyaStatusOpen,
		DiyaNotes:            req.Notes,
		DiyaCreatedBy:        actx.ID,
	}
	if err := h.DB.Create(&diya).Error; err != nil {
		log.Printf("[ERROR] diya create failed: %v", err)
		return helper.Error(c, fiber.StatusInternalServerError,
			"فشل في إنشاء قضية الدية", "Failed to create diya case")
	}

	return helper.SuccessWithCode(c, fiber.StatusCreated,
		"تم إنشاء قضية الدية بنجاح", "Diya case created successfully", diya)
}

// =======================================================
// GET /api/diyas
// =======================================================

func (h *DiyaHandler) List(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 20, 100)

	q := h.DB.Model(&diyaModel.DiyaCase{})
	if status := strings.TrimSpace(c.Query("status")); status != "" {
		q = q.Where("diya_status = ?", status)
	}
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		like := "%" + search + "%"
		q = q.Where("diya_case_number ILIKE ? OR diya_deceased_name ILIKE ? OR diya_beneficiary_name ILIKE ?",
			like, like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		log.Printf("[ERROR] diyas count failed: %v", err)
		return helper.Error(c, fiber.StatusInternalServerError,
			"فشل في جلب قضايا الديات", "Failed to fetch diya cases")
	}

	var rows []diyaModel.DiyaCase
	if err := q.Order("diya_created_at DESC").
		Limit(paging.PerPage).Offset(paging.Offset).
		Find(&rows).Error; err != nil {
		log.Printf("[ERROR] diyas list failed: %v", err)
		return helper.Error(c, fiber.StatusInternalServerError,
			"فشل في جلب قضايا الديات", "Failed to fetch diya cases")
	}

	return helper.Success(c, "تم جلب قضايا الديات", "Diya cases fetched", fiber.Map{
		"diyas":      rows,
		"pagination": helper.BuildPagination(paging.Page, paging.PerPage, total),
	})
}

// =======================================================
// GET /api/diyas/:id
// =======================================================

func (h *DiyaHandler) Get(c *fiber.Ctx) error {
	diyaID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "معرف القضية غير صالح", "Invalid case ID")
	}

	var diya diyaModel.DiyaCase
	if err := h.DB.First(&diya, "diya_id = ?", diyaID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusNotFound,
				"قضية الدية غير موجودة", "Diya case not found")
		}
		log.Printf("[ERROR] diya fetch failed: %v", err)
		return helper.ServerError(c)
	}

	var contributions []diyaModel.DiyaContribution
	if err := h.DB.Where("contribution_diya_id = ?", diyaID).
		Order("contribution_created_at DESC").
		Find(&contributions).Error; err != nil {
		log.Printf("[WARN] diya contributions fetch failed: %v", err)
	}

	remaining := diya.DiyaAmountRequired - diya.DiyaAmountCollected
	if remaining < 0 {
		remaining = 0
	}

	return helper.Success(c, "تم جلب قضية الدية", "Diya case fetched", fiber.Map{
		"diya":             diya,
		"contributions":    contributions,
		"amount_remaining": remaining,
	})
}

// =======================================================
// PUT /api/diyas/:id
// =======================================================

func (h *DiyaHandler) Update(c *fiber.Ctx) error {
	diyaID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "معرف القضية غير صالح", "Invalid case ID")
	}

	var req dto.UpdateDiyaDTO
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "نص الطلب غير صالح", "Invalid request body")
	}
	if err := h.Validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}
	if req.Status != nil && !diyaModel.ValidDiyaStatus(*req.Status) {
		return helper.Error(c, fiber.StatusBadRequest,
			"حالة القضية غير صالحة", "Invalid case status")
	}

	var diya diyaModel.DiyaCase
	if err := h.DB.First(&diya, "diya_id = ?", diyaID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusNotFound,
				"قضية الدية غير موجودة", "Diya case not found")
		}
		log.Printf("[ERROR] diya fetch failed: %v", err)
		return helper.ServerError(c)
	}

	updates := map[string]interface{}{"diya_updated_at": time.Now()}
	if req.DeceasedName != nil {
		updates["diya_deceased_name"] = strings.TrimSpace(*req.DeceasedName)
	}
	if req.BeneficiaryName != nil {
		updates["diya_beneficiary_name"] = strings.TrimSpace(*req.BeneficiaryName)
	}
	if req.BeneficiaryPhone != nil {
		updates["diya_beneficiary_phone"] = req.BeneficiaryPhone
	}
	if req.AmountRequired != nil {
		updates["diya_amount_required"] = *req.AmountRequired
	}
	if req.Status != nil {
		updates["diya_status"] = *req.Status
	}
	if req.Notes != nil {
		updates["diya_notes"] = req.Notes
	}

	if err := h.DB.Model(&diya).Updates(updates).Error; err != nil {
		log.Printf("[ERROR] diya update failed: %v", err)
		return helper.Error(c, fiber.StatusInternalServerError,
			"فشل في تحديث قضية الدية", "Failed to update diya case")
	}

	actx := authMw.MustFromCtx(c)
	if err := auditService.LogAction(h.DB, auditService.ActionEntry{
		UserID:     &actx.ID,
		UserEmail:  actx.Email,
		UserRole:   actx.Role,
		Action:     auditModel.ActionDiyaCaseUpdated,
		Resource:   "diya_case",
		ResourceID: &diya.DiyaID,
		Changes:    updates,
		IPAddress:  c.IP(),
		UserAgent:  c.Get(fiber.HeaderUserAgent),
	}); err != nil {
		log.Printf("[WARN] diya update audit failed: %v", err)
	}

	return helper.Success(c, "تم تحديث قضية الدية", "Diya case updated", diya)
}

// =======================================================
// POST /api/diyas/:id/contributions
// =======================================================

func (h *DiyaHandler) Contribute(c *fiber.Ctx) error {
	diyaID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "معرف القضية غير صالح", "Invalid case ID")
	}

	var req dto.ContributeDTO
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "نص الطلب غير صالح", "Invalid request body")
	}
	if err := h.Validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	if req.MemberID != nil {
		var member memberModel.Member
		if err := h.DB.First(&member, "member_id = ?", *req.MemberID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return helper.Error(c, fiber.StatusNotFound,
					"العضو غير موجود", "Member not found")
			}
			log.Printf("[ERROR] contributor lookup failed: %v", err)
			return helper.ServerError(c)
		}
	}

	actx := authMw.MustFromCtx(c)

	var diya diyaModel.DiyaCase
	var contribution diyaModel.DiyaContribution

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&diya, "diya_id = ?", diyaID).Error; err != nil {
			return err
		}
		if diya.DiyaStatus == diyaModel.DiyaStatusClosed {
			return errCaseClosed
		}

		contribution = diyaModel.DiyaContribution{
			ContributionDiyaID:     diyaID,
			ContributionMemberID:   req.MemberID,
			ContributionAmount:     req.Amount,
			ContributionNotes:      req.Notes,
			ContributionRecordedBy: actx.ID,
		}
		if err := tx.Create(&contribution).Error; err != nil {
			return err
		}

		diya.DiyaAmountCollected += req.Amount
		if diya.DiyaAmountCollected >= diya.DiyaAmountRequired {
			diya.DiyaStatus = diyaModel.DiyaStatusCompleted
		} else if diya.DiyaStatus == diyaModel.DiyaStatusOpen {
			diya.DiyaStatus = diyaModel.DiyaStatusCollecting
		}
		diya.DiyaUpdatedAt = time.Now()
		return tx.Save(&diya).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusNotFound,
				"قضية الدية غير موجودة", "Diya case not found")
		}
		if errors.Is(err, errCaseClosed) {
			return helper.Error(c, fiber.StatusConflict,
				"القضية مغلقة ولا تقبل مساهمات", "Case is closed and does not accept contributions")
		}
		log.Printf("[ERROR] diya contribution failed: %v", err)
		return helper.Error(c, fiber.StatusInternalServerError,
			"فشل في تسجيل المساهمة", "Failed to record contribution")
	}

	return helper.SuccessWithCode(c, fiber.StatusCreated,
		"تم تسجيل المساهمة بنجاح", "Contribution recorded successfully", fiber.Map{
			"contribution": contribution,
			"diya":         diya,
		})
}

var errCaseClosed = errors.New("diya case closed")
