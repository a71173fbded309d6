package middlewares

import (
	"github.com/gofiber/fiber/v2"
)

// SetupMiddlewares wires the baseline middleware chain. Auth/RBAC layers are
// attached per route group, not here.
func SetupMiddlewares(app *fiber.App) {
	app.Use(RecoveryMiddleware())
	app.Use(CorsMiddleware())
	app.Use(GlobalRateLimiter())
}
