// file: internals/route/details/registry_routes.go
package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	adminRoute "alshuail_backend/internals/features/admin/route"
	diyaRoute "alshuail_backend/internals/features/diyas/route"
	familyRoute "alshuail_backend/internals/features/family/route"
	memberRoute "alshuail_backend/internals/features/members/route"
)

func MemberRoutes(r fiber.Router, db *gorm.DB) {
	memberRoute.MemberRoutes(r, db)
}

func FamilyRoutes(r fiber.Router, db *gorm.DB) {
	familyRoute.FamilyRoutes(r, db)
}

func DiyaRoutes(r fiber.Router, db *gorm.DB) {
	diyaRoute.DiyaRoutes(r, db)
}

func AdminRoutes(r fiber.Router, db *gorm.DB) {
	adminRoute.AdminRoutes(r, db)
}
