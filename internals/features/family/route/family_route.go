// file: internals/features/family/route/family_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"alshuail_backend/internals/constants"
	familyController "alshuail_backend/internals/features/family/controller"
	authMw "alshuail_backend/internals/middlewares/auth"
)

func FamilyRoutes(r fiber.Router, db *gorm.DB) {
	ctl := familyController.NewFamilyHandler(db)

	fam := r.Group("/family")
	{
		fam.Get("/branches", authMw.RequireRole(db, constants.AllAdminRoles...), ctl.ListBranches)
		fam.Post("/branches", authMw.RequirePermission(db, constants.PermManageFamilyTree), ctl.CreateBranch)
		fam.Get("/tree", authMw.RequireRole(db, constants.AnyAuthenticated...), ctl.Tree)
	}
}
