// file: internals/features/finance/transfers/controller/transfer_controller.go
package controller

import (
	"errors"
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"alshuail_backend/internals/configs"
	"alshuail_backend/internals/constants"
	"alshuail_backend/internals/features/finance/transfers/dto"
	transferModel "alshuail_backend/internals/features/finance/transfers/model"
	"alshuail_backend/internals/features/finance/transfers/service"
	memberModel "alshuail_backend/internals/features/members/model"
	helper "alshuail_backend/internals/helpers"
	authMw "alshuail_backend/internals/middlewares/auth"
)

// =======================================================
// BOOTSTRAP
// =======================================================

type TransferHandler struct {
	DB       *gorm.DB
	Service  *service.TransferService
	Validate *validator.Validate
}

func NewTransferHandler(db *gorm.DB) *TransferHandler {
	return &TransferHandler{
		DB:       db,
		Service:  service.NewTransferService(db),
		Validate: validator.New(),
	}
}

// =======================================================
// POST /api/bank-transfers  (multipart, optional receipt file)
// =======================================================

func (h *TransferHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateTransferDTO
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "نص الطلب غير صالح", "Invalid request body")
	}
	if err := h.Validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}
	if !transferModel.ValidTransferPurpose(req.Purpose) {
		return helper.Error(c, fiber.StatusBadRequest,
			"غرض التحويل غير صالح", "Invalid transfer purpose")
	}

	actx := authMw.MustFromCtx(c)

	in := service.CreateInput{
		RequesterID:        actx.ID,
		BeneficiaryID:      req.BeneficiaryID,
		Amount:             req.Amount,
		Purpose:            req.Purpose,
		PurposeReferenceID: req.PurposeReferenceID,
		Notes:              req.Notes,
	}

	if fileHeader, err := c.FormFile("receipt"); err == nil && fileHeader != nil {
		upload, err := helper.SaveReceipt(configs.UploadsDir, actx.ID.String(), fileHeader)
		if err != nil {
			log.Printf("[ERROR] receipt upload failed: %v", err)
			return helper.Error(c, fiber.StatusBadRequest,
				"فشل في رفع إيصال التحويل", "Failed to upload transfer receipt")
		}
		in.ReceiptURL = &upload.URL
		in.ReceiptFilename = &upload.Filename
	}

	transfer, err := h.Service.Create(in)
	if err != nil {
		if errors.Is(err, service.ErrBeneficiaryNotFound) {
			return helper.Error(c, fiber.StatusNotFound,
				"العضو المستفيد غير موجود", "Beneficiary member not found")
		}
		log.Printf("[ERROR] transfer create failed: %v", err)
		return helper.Error(c, fiber.StatusInternalServerError,
			"فشل في إنشاء طلب التحويل", "Failed to create transfer request")
	}

	return helper.SuccessWithCode(c, fiber.StatusCreated,
		"تم إنشاء طلب التحويل بنجاح", "Transfer request created successfully", transfer)
}

// =======================================================
// GET /api/bank-transfers
// =======================================================

func (h *TransferHandler) List(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 20, 100)

	q := h.DB.Model(&transferModel.BankTransferRequest{})
	if status := strings.TrimSpace(c.Query("status")); status != "" && status != "all" {
		q = q.Where("transfer_status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		log.Printf("[ERROR] transfers count failed: %v", err)
		return helper.Error(c, fiber.StatusInternalServerError,
			"فشل في جلب طلبات التحويل", "Failed to fetch transfer requests")
	}

	var rows []transferModel.BankTransferRequest
	if err := q.Order("transfer_created_at DESC").
		Limit(paging.PerPage).Offset(paging.Offset).
		Find(&rows).Error; err != nil {
		log.Printf("[ERROR] transfers list failed: %v", err)
		return helper.Error(c, fiber.StatusInternalServerError,
			"فشل في جلب طلبات التحويل", "Failed to fetch transfer requests")
	}

	return helper.Success(c, "تم جلب طلبات التحويل", "Transfer requests fetched", fiber.Map{
		"transfers":  h.attachParties(rows),
		"pagination": helper.BuildPagination(paging.Page, paging.PerPage, total),
	})
}

// attachParties resolves requester and beneficiary identity slices for a
// page of transfers in two queries.
func (h *TransferHandler) attachParties(rows []transferModel.BankTransferRequest) []dto.TransferResponse {
	out := make([]dto.TransferResponse, 0, len(rows))
	if len(rows) == 0 {
		return out
	}

	idSet := make(map[uuid.UUID]struct{}, len(rows)*2)
	for _, r := range rows {
		idSet[r.TransferRequesterID] = struct{}{}
		idSet[r.TransferBeneficiaryID] = struct{}{}
	}
	ids := make([]uuid.UUID, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}

	var members []memberModel.Member
	if err := h.DB.Where("member_id IN ?", ids).Find(&members).Error; err != nil {
		log.Printf("[WARN] transfer party lookup failed: %v", err)
	}
	byID := make(map[uuid.UUID]*dto.MemberRef, len(members))
	for i := range members {
		m := members[i]
		byID[m.MemberID] = &dto.MemberRef{
			ID:               m.MemberID,
			FullName:         m.MemberFullName,
			MembershipNumber: m.MemberMembershipNumber,
			Phone:            m.MemberPhone,
		}
	}

	for _, r := range rows {
		out = append(out, dto.TransferResponse{
			BankTransferRequest: r,
			Requester:           byID[r.TransferRequesterID],
			Beneficiary:         byID[r.TransferBeneficiaryID],
		})
	}
	return out
}

// =======================================================
// GET /api/bank-transfers/pending-count
// =======================================================

func (h *TransferHandler) PendingCount(c *fiber.Ctx) error {
	n, err := h.Service.PendingCount()
	if err != nil {
		log.Printf("[ERROR] pending count failed: %v", err)
		return helper.Error(c, fiber.StatusInternalServerError,
			"فشل في جلب عدد الطلبات المعلقة", "Failed to fetch pending count")
	}
	return helper.Success(c, "تم جلب العدد", "Pending count fetched", fiber.Map{
		"pending_count": n,
	})
}

// =======================================================
// GET /api/bank-transfers/:id
// =======================================================

func (h *TransferHandler) Get(c *fiber.Ctx) error {
	transferID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "معرف الطلب غير صالح", "Invalid transfer ID")
	}

	var row transferModel.BankTransferRequest
	if err := h.DB.First(&row, "transfer_id = ?", transferID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusNotFound,
				"طلب التحويل غير موجود", "Transfer request not found")
		}
		log.Printf("[ERROR] transfer fetch failed: %v", err)
		return helper.Error(c, fiber.StatusInternalServerError,
			"فشل في جلب طلب التحويل", "Failed to fetch transfer request")
	}

	resp := h.attachParties([]transferModel.BankTransferRequest{row})
	return helper.Success(c, "تم جلب طلب التحويل", "Transfer request fetched", resp[0])
}

// =======================================================
// GET /api/bank-transfers/member/:memberId
// =======================================================

func (h *TransferHandler) MemberRequests(c *fiber.Ctx) error {
	memberID, err := uuid.Parse(c.Params("memberId"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "معرف العضو غير صالح", "Invalid member ID")
	}

	// members only see their own history
	actx := authMw.MustFromCtx(c)
	if actx.Role == constants.RoleMember && actx.ID != memberID {
		return helper.Error(c, fiber.StatusForbidden,
			"ليس لديك الصلاحية للوصول إلى هذا المورد",
			"You do not have permission to access this resource")
	}

	paging := helper.ResolvePaging(c, 10, 100)

	q := h.DB.Model(&transferModel.BankTransferRequest{}).
		Where("transfer_requester_id = ?", memberID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		log.Printf("[ERROR] member transfers count failed: %v", err)
		return helper.Error(c, fiber.StatusInternalServerError,
			"فشل في جلب طلبات التحويل", "Failed to fetch transfer requests")
	}

	var rows []transferModel.BankTransferRequest
	if err := q.Order("transfer_created_at DESC").
		Limit(paging.PerPage).Offset(paging.Offset).
		Find(&rows).Error; err != nil {
		log.Printf("[ERROR] member transfers failed: %v", err)
		return helper.Error(c, fiber.StatusInternalServerError,
			"فشل في جلب طلبات التحويل", "Failed to fetch transfer requests")
	}

	return helper.Success(c, "تم جلب طلبات التحويل", "Transfer requests fetched", fiber.Map{
		"transfers":  h.attachParties(rows),
		"pagination": helper.BuildPagination(paging.Page, paging.PerPage, total),
	})
}

// =======================================================
// PUT /api/bank-transfers/:id/approve
// =======================================================

func (h *TransferHandler) Approve(c *fiber.Ctx) error {
	transferID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "معرف الطلب غير صالح", "Invalid transfer ID")
	}

	var req dto.ReviewTransferDTO
	_ = c.BodyParser(&req) // notes are optional

	actx := authMw.MustFromCtx(c)
	reviewer := service.Reviewer{ID: actx.ID, Email: actx.Email, Role: actx.Role}

	result, err := h.Service.Approve(transferID, reviewer, req.Notes, c.IP(), c.Get(fiber.HeaderUserAgent))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTransferNotFound):
			return helper.Error(c, fiber.StatusNotFound,
				"طلب التحويل غير موجود", "Transfer request not found")
		case errors.Is(err, service.ErrTransferNotPending):
			return helper.Error(c, fiber.StatusConflict,
				"لا يمكن الموافقة على هذا الطلب - تمت مراجعته مسبقاً",
				"Cannot approve this request - already reviewed")
		default:
			log.Printf("[ERROR] transfer approval failed: %v", err)
			return helper.Error(c, fiber.StatusInternalServerError,
				"فشل في الموافقة على طلب التحويل", "Failed to approve transfer request")
		}
	}

	return helper.Success(c, "تمت الموافقة على طلب التحويل", "Transfer request approved", result)
}

// =======================================================
// PUT /api/bank-transfers/:id/reject
// =======================================================

func (h *TransferHandler) Reject(c *fiber.Ctx) error {
	transferID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "معرف الطلب غير صالح", "Invalid transfer ID")
	}

	var req dto.ReviewTransferDTO
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "نص الطلب غير صالح", "Invalid request body")
	}
	if len([]rune(strings.TrimSpace(req.Reason))) < 5 {
		return helper.Error(c, fiber.StatusBadRequest,
			"يجب تقديم سبب الرفض (5 أحرف على الأقل)",
			"Rejection reason is required (at least 5 characters)")
	}

	actx := authMw.MustFromCtx(c)
	reviewer := service.Reviewer{ID: actx.ID, Email: actx.Email, Role: actx.Role}

	transfer, err := h.Service.Reject(transferID, reviewer, req.Reason, c.IP(), c.Get(fiber.HeaderUserAgent))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTransferNotFound):
			return helper.Error(c, fiber.StatusNotFound,
				"طلب التحويل غير موجود", "Transfer request not found")
		case errors.Is(err, service.ErrTransferNotPending):
			return helper.Error(c, fiber.StatusConflict,
				"لا يمكن رفض هذا الطلب - تمت مراجعته مسبقاً",
				"Cannot reject this request - already reviewed")
		default:
			log.Printf("[ERROR] transfer rejection failed: %v", err)
			return helper.Error(c, fiber.StatusInternalServerError,
				"فشل في رفض طلب التحويل", "Failed to reject transfer request")
		}
	}

	return helper.Success(c, "تم رفض طلب التحويل", "Transfer request rejected", transfer)
}
