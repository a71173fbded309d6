package helper

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// Response envelope is bilingual everywhere: `message` carries Arabic,
// `message_en` English. The admin UI shows Arabic first.

// ✅ Success response (200)
func Success(c *fiber.Ctx, messageAr, messageEn string, data interface{}) error {
	return SuccessWithCode(c, fiber.StatusOK, messageAr, messageEn, data)
}

// ✅ Success response with custom code (e.g. 201 for created)
func SuccessWithCode(c *fiber.Ctx, code int, messageAr, messageEn string, data interface{}) error {
	return c.Status(code).JSON(fiber.Map{
		"success":    true,
		"message":    messageAr,
		"message_en": messageEn,
		"data":       data,
	})
}

// ✅ Error response
func Error(c *fiber.Ctx, code int, messageAr, messageEn string) error {
	return c.Status(code).JSON(fiber.Map{
		"success":    false,
		"message":    messageAr,
		"message_en": messageEn,
	})
}

// ✅ Error response with field details
func ErrorWithDetails(c *fiber.Ctx, code int, messageAr, messageEn string, details interface{}) error {
	return c.Status(code).JSON(fiber.Map{
		"success":    false,
		"message":    messageAr,
		"message_en": messageEn,
		"errors":     details,
	})
}

// ✅ validator.v10 errors → 400 with a field→tag map
func ValidationError(c *fiber.Ctx, err error) error {
	ve, ok := err.(validator.ValidationErrors)
	if !ok {
		return Error(c, fiber.StatusBadRequest, "مدخلات غير صالحة", "Invalid input")
	}

	errorsMap := make(map[string]string)
	for _, fieldErr := range ve {
		errorsMap[fieldErr.Field()] = fieldErr.Tag()
	}

	return ErrorWithDetails(c, fiber.StatusBadRequest, "فشل التحقق من المدخلات", "Validation failed", errorsMap)
}

// ServerError hides internals from the client; the caller logs the cause.
func ServerError(c *fiber.Ctx) error {
	return Error(c, fiber.StatusInternalServerError, "حدث خطأ في الخادم", "Internal server error")
}
