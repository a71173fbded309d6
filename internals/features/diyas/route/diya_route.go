// file: internals/features/diyas/route/diya_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"alshuail_backend/internals/constants"
	diyaController "alshuail_backend/internals/features/diyas/controller"
	authMw "alshuail_backend/internals/middlewares/auth"
)

func DiyaRoutes(r fiber.Router, db *gorm.DB) {
	ctl := diyaController.NewDiyaHandler(db)

	diyas := r.Group("/diyas")
	{
		diyas.Get("/", authMw.RequireRole(db, constants.AllAdminRoles...), ctl.List)
		diyas.Get("/:id", authMw.RequireRole(db, constants.AllAdminRoles...), ctl.Get)
		diyas.Post("/", authMw.RequirePermission(db, constants.PermManageDiyas), ctl.Create)
		diyas.Put("/:id", authMw.RequirePermission(db, constants.PermManageDiyas), ctl.Update)
		diyas.Post("/:id/contributions", authMw.RequirePermission(db, constants.PermManageDiyas), ctl.Contribute)
	}
}
