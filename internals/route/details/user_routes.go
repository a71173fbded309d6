// file: internals/route/details/user_routes.go
package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	authRoute "alshuail_backend/internals/features/users/auth/route"
	rolesRoute "alshuail_backend/internals/features/users/roles/route"
)

func AuthRoutes(r fiber.Router, db *gorm.DB) {
	authRoute.AuthRoutes(r, db)
}

func RoleRoutes(r fiber.Router, db *gorm.DB) {
	rolesRoute.ActiveRoleRoutes(r, db)
}
