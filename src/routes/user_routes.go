package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/theleywin/Backend-Skill-Swap/src/controllers"
)

// UserRoutes wires profile reads and updates.
func UserRoutes(app *fiber.App, uc *controllers.UserController, protect fiber.Handler) {
	user := app.Group("/api/v1/users", protect)

	user.Patch("/update", uc.UpdateProfile)
	user.Get("/:id", uc.GetUser)
}
