// file: internals/features/users/roles/route/active_role_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"alshuail_backend/internals/constants"
	rolesController "alshuail_backend/internals/features/users/roles/controller"
	authMw "alshuail_backend/internals/middlewares/auth"
)

func ActiveRoleRoutes(r fiber.Router, db *gorm.DB) {
	ctl := rolesController.NewActiveRoleHandler(db)

	// grant management is owner-only
	roles := r.Group("/roles", authMw.RequireRole(db, constants.RoleSuperAdmin))
	{
		roles.Post("/assignments", ctl.Assign)
		roles.Get("/assignments", ctl.List)
		roles.Put("/assignments/:id", ctl.Update)
		roles.Delete("/assignments/:id", ctl.Revoke)
	}
}
