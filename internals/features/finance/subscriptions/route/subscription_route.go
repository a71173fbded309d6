// file: internals/features/finance/subscriptions/route/subscription_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"alshuail_backend/internals/constants"
	subsController "alshuail_backend/internals/features/finance/subscriptions/controller"
	authMw "alshuail_backend/internals/middlewares/auth"
)

func SubscriptionRoutes(r fiber.Router, db *gorm.DB) {
	ctl := subsController.NewSubscriptionHandler(db)

	subs := r.Group("/subscriptions")
	{
		subs.Get("/", authMw.RequirePermission(db, constants.PermManageSubscriptions), ctl.List)
		subs.Get("/overdue", authMw.RequirePermission(db, constants.PermManageSubscriptions), ctl.ListOverdue)
		subs.Get("/member/:memberId", authMw.RequirePermission(db, constants.PermManageSubscriptions), ctl.GetByMember)
	}
}
