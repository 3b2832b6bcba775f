package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/theleywin/Backend-Skill-Swap/src/controllers"
)

// AuthRoutes wires registration, login and the OTP password-reset flow. None
// of these require a bearer token.
func AuthRoutes(app *fiber.App, ac *controllers.AuthController) {
	auth := app.Group("/api/v1/auth")

	auth.Post("/register", ac.Register)
	auth.Post("/login", ac.Login)
	auth.Post("/forgot-password", ac.ForgotPassword)
	auth.Post("/verify-otp", ac.VerifyOtp)
	auth.Post("/reset-password", ac.ResetPassword)
}
