// file: internals/features/finance/transfers/route/transfer_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"alshuail_backend/internals/constants"
	transferController "alshuail_backend/internals/features/finance/transfers/controller"
	authMw "alshuail_backend/internals/middlewares/auth"
)

func BankTransferRoutes(r fiber.Router, db *gorm.DB) {
	ctl := transferController.NewTransferHandler(db)

	bt := r.Group("/bank-transfers")
	{
		// members submit their own requests (admins may submit on behalf)
		// and see their history; the controller enforces self-only reads
		// for member tokens
		submitRoles := append([]string{constants.RoleMember}, constants.AllAdminRoles...)
		bt.Post("/", authMw.RequireRole(db, submitRoles...), ctl.Create)
		bt.Get("/member/:memberId", authMw.RequireRole(db, submitRoles...), ctl.MemberRequests)

		// review surface
		bt.Get("/", authMw.RequirePermission(db, constants.PermManagePayments), ctl.List)
		bt.Get("/pending-count", authMw.RequirePermission(db, constants.PermManagePayments), ctl.PendingCount)
		bt.Get("/:id", authMw.RequirePermission(db, constants.PermManagePayments), ctl.Get)
		bt.Put("/:id/approve", authMw.RequirePermission(db, constants.PermManagePayments), ctl.Approve)
		bt.Put("/:id/reject", authMw.RequirePermission(db, constants.PermManagePayments), ctl.Reject)
	}
}
