// file: internals/features/users/auth/route/auth_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	authController "alshuail_backend/internals/features/users/auth/controller"
	"alshuail_backend/internals/middlewares"
)

func AuthRoutes(r fiber.Router, db *gorm.DB) {
	ctl := authController.NewAuthHandler(db)

	auth := r.Group("/auth")
	{
		auth.Post("/admin/login", middlewares.LoginRateLimiter(), ctl.AdminLogin)
		auth.Post("/member/login", middlewares.LoginRateLimiter(), ctl.MemberLogin)
		auth.Post("/logout", ctl.Logout)
	}
}
