// file: internals/route/details/finance_routes.go
package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	balanceRoute "alshuail_backend/internals/features/finance/balance/route"
	subsRoute "alshuail_backend/internals/features/finance/subscriptions/route"
	transferRoute "alshuail_backend/internals/features/finance/transfers/route"
)

func FinanceRoutes(r fiber.Router, db *gorm.DB) {
	balanceRoute.BalanceAdjustmentRoutes(r, db)
	subsRoute.SubscriptionRoutes(r, db)
	transferRoute.BankTransferRoutes(r, db)
}
