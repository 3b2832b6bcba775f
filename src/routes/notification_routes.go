package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/theleywin/Backend-Skill-Swap/src/controllers"
)

// NotificationRoutes wires the poll-side notification feed.
func NotificationRoutes(app *fiber.App, nc *controllers.NotificationController, protect fiber.Handler) {
	notification := app.Group("/api/v1/notifications", protect)

	notification.Get("/", nc.GetNotifications)
	notification.Put("/:id/read", nc.MarkNotificationRead)
}
