package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/theleywin/Backend-Skill-Swap/src/controllers"
)

// ConnectionRoutes wires the connection request lifecycle: sending, looking
// up, responding and listing by role.
func ConnectionRoutes(app *fiber.App, cc *controllers.ConnectionController, protect fiber.Handler) {
	connection := app.Group("/api/v1/connections", protect)

	connection.Post("/", cc.Request)
	connection.Post("/lookup", cc.Lookup)
	connection.Get("/sent", cc.ListSent)
	connection.Get("/received", cc.ListReceived)
	connection.Post("/:id/accept", cc.Accept)
	connection.Post("/:id/reject", cc.Reject)
}
