// file: internals/features/members/route/member_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"alshuail_backend/internals/constants"
	memberController "alshuail_backend/internals/features/members/controller"
	authMw "alshuail_backend/internals/middlewares/auth"
)

func MemberRoutes(r fiber.Router, db *gorm.DB) {
	ctl := memberController.NewMemberHandler(db)

	members := r.Group("/members")
	{
		members.Post("/", authMw.RequirePermission(db, constants.PermManageMembers), ctl.Create)
		members.Get("/", authMw.RequireRole(db, constants.AllAdminRoles...), ctl.List)
		members.Get("/:id", authMw.RequireRole(db, constants.AllAdminRoles...), ctl.Get)
		members.Put("/:id", authMw.RequirePermission(db, constants.PermManageMembers), ctl.Update)
		members.Put("/:id/approve", authMw.RequirePermission(db, constants.PermApproveMembers), ctl.Approve)
		members.Put("/:id/reject", authMw.RequirePermission(db, constants.PermApproveMembers), ctl.Reject)
	}
}
