// file: internals/features/admin/route/admin_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	adminController "alshuail_backend/internals/features/admin/controller"
	authMw "alshuail_backend/internals/middlewares/auth"
)

func AdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := adminController.NewDashboardHandler(db)

	// both endpoints serve the public landing dashboard, so an invalid or
	// missing token degrades to the read-only viewer identity
	admin := r.Group("/admin", authMw.AllowPublicViewer(db))
	{
		admin.Get("/dashboard/stats", ctl.Stats)
		admin.Get("/member-monitoring", ctl.MemberMonitoring)
	}
}
