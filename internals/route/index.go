// file: internals/route/index.go
package routes

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	routeDetails "alshuail_backend/internals/route/details"
)

var startTime time.Time

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	startTime = time.Now()

	api := app.Group("/api")

	log.Println("[INFO] Setting up AuthRoutes...")
	routeDetails.AuthRoutes(api, db)

	log.Println("[INFO] Setting up RoleRoutes...")
	routeDetails.RoleRoutes(api, db)

	log.Println("[INFO] Setting up MemberRoutes...")
	routeDetails.MemberRoutes(api, db)

	log.Println("[INFO] Setting up FinanceRoutes...")
	routeDetails.FinanceRoutes(api, db)

	log.Println("[INFO] Setting up FamilyRoutes...")
	routeDetails.FamilyRoutes(api, db)

	log.Println("[INFO] Setting up DiyaRoutes...")
	routeDetails.DiyaRoutes(api, db)

	log.Println("[INFO] Setting up AdminRoutes...")
	routeDetails.AdminRoutes(api, db)

	// uptime probe used by the admin frontend
	app.Get("/api/status", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"success": true,
			"uptime":  time.Since(startTime).String(),
		})
	})

	log.Println("[SUCCESS] All routes registered")
}
