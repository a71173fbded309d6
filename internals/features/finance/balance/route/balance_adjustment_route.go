// file: internals/features/finance/balance/route/balance_adjustment_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	balanceController "alshuail_backend/internals/features/finance/balance/controller"
	"alshuail_backend/internals/constants"
	authMw "alshuail_backend/internals/middlewares/auth"
)

func BalanceAdjustmentRoutes(r fiber.Router, db *gorm.DB) {
	ctl := balanceController.NewBalanceAdjustmentHandler(db)

	adj := r.Group("/balance-adjustments")
	{
		adj.Post("/", authMw.RequirePermission(db, constants.PermManageFinances), ctl.Adjust)
		adj.Get("/", authMw.RequirePermission(db, constants.PermViewFinancialReports), ctl.ListAll)
		adj.Get("/member/:memberId", authMw.RequirePermission(db, constants.PermViewFinancialReports), ctl.MemberHistory)
		adj.Get("/summary/:memberId", authMw.RequirePermission(db, constants.PermViewFinancialReports), ctl.MemberSummary)

		// destructive mass operation, owner only
		adj.Post("/bulk-restore", authMw.RequireRole(db, constants.RoleSuperAdmin), ctl.BulkRestore)
	}
}
