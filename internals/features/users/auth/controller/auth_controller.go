// file: internals/features/users/auth/controller/auth_controller.go
package controller

import (
	"errors"
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	authService "alshuail_backend/internals/features/users/auth/service"
	helper "alshuail_backend/internals/helpers"
)

type AuthHandler struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func NewAuthHandler(db *gorm.DB) *AuthHandler {
	return &AuthHandler{DB: db, Validate: validator.New()}
}

type adminLoginDTO struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type memberLoginDTO struct {
	Phone            string `json:"phone" validate:"required"`
	MembershipNumber string `json:"membership_number" validate:"required"`
}

// =======================================================
// POST /api/auth/admin/login
// =======================================================

func (h *AuthHandler) AdminLogin(c *fiber.Ctx) error {
	var req adminLoginDTO
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "نص الطلب غير صالح", "Invalid request body")
	}
	if err := h.Validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	session, err := authService.AuthenticateAdmin(h.DB, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, authService.ErrInvalidCredentials):
			return helper.Error(c, fiber.StatusUnauthorized,
				"البريد الإلكتروني أو كلمة المرور غير صحيحة",
				"Invalid email or password")
		case errors.Is(err, authService.ErrAccountInactive):
			return helper.Error(c, fiber.StatusForbidden,
				"تم تعطيل هذا الحساب، يرجى مراجعة الإدارة",
				"This account has been deactivated")
		default:
			log.Printf("[ERROR] admin login failed: %v", err)
			return helper.Error(c, fiber.StatusInternalServerError,
				"فشل في تسجيل الدخول", "Login failed")
		}
	}

	return helper.Success(c, "تم تسجيل الدخول بنجاح", "Logged in successfully", session)
}

// =======================================================
// POST /api/auth/member/login
// =======================================================

func (h *AuthHandler) MemberLogin(c *fiber.Ctx) error {
	var req memberLoginDTO
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "نص الطلب غير صالح", "Invalid request body")
	}
	if err := h.Validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	session, err := authService.AuthenticateMember(h.DB, req.Phone, req.MembershipNumber)
	if err != nil {
		switch {
		case errors.Is(err, authService.ErrInvalidCredentials):
			return helper.Error(c, fiber.StatusUnauthorized,
				"رقم الهاتف أو رقم العضوية غير صحيح",
				"Invalid phone or membership number")
		case errors.Is(err, authService.ErrMemberNotActive):
			return helper.Error(c, fiber.StatusForbidden,
				"هذه العضوية غير نشطة، يرجى مراجعة الإدارة",
				"This membership is not active")
		default:
			log.Printf("[ERROR] member login failed: %v", err)
			return helper.Error(c, fiber.StatusInternalServerError,
				"فشل في تسجيل الدخول", "Login failed")
		}
	}

	return helper.Success(c, "تم تسجيل الدخول بنجاح", "Logged in successfully", session)
}

// =======================================================
// POST /api/auth/logout
// =======================================================

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	header := c.Get(fiber.HeaderAuthorization)
	token := ""
	if parts := strings.SplitN(header, " ", 2); len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		token = strings.TrimSpace(parts[1])
	}
	if token == "" {
		token = strings.TrimSpace(c.Cookies("access_token"))
	}
	if token == "" {
		return helper.Error(c, fiber.StatusBadRequest,
			"لا يوجد رمز دخول", "No access token provided")
	}

	if err := authService.BlacklistToken(h.DB, token); err != nil {
		// duplicate insert means the token was already revoked
		log.Printf("[WARN] logout blacklist insert: %v", err)
	}

	return helper.Success(c, "تم تسجيل الخروج بنجاح", "Logged out successfully", nil)
}
