package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/theleywin/Backend-Skill-Swap/src/controllers"
)

// ChatRoutes wires messaging over accepted connections.
func ChatRoutes(app *fiber.App, cc *controllers.ChatController, protect fiber.Handler) {
	chat := app.Group("/api/v1/messages", protect)

	chat.Post("/", cc.SendMessage)
	chat.Get("/", cc.GetConversations)
	chat.Get("/:connectionId", cc.GetMessages)
}
