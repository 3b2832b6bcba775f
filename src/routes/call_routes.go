package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/theleywin/Backend-Skill-Swap/src/controllers"
)

// CallRoutes wires call setup, the signaling relay and history.
func CallRoutes(app *fiber.App, cc *controllers.CallController, protect fiber.Handler) {
	call := app.Group("/api/v1/calls", protect)

	call.Post("/", cc.InitiateCall)
	call.Post("/signal", cc.SendSignal)
	call.Get("/history/:connectionId", cc.GetCallHistory)
	call.Get("/:id", cc.GetCall)
	call.Put("/:id/end", cc.EndCall)
	call.Put("/:id/decline", cc.DeclineCall)
}
