package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/theleywin/Backend-Skill-Swap/pkg/errors"
	"github.com/theleywin/Backend-Skill-Swap/src/lib"
	"github.com/theleywin/Backend-Skill-Swap/src/models"
	"github.com/theleywin/Backend-Skill-Swap/src/services"
)

type AuthController struct {
	auth      *services.AuthService
	jwtSecret string
	jwtTTL    time.Duration
}

func NewAuthController(auth *services.AuthService, jwtSecret string, jwtTTL time.Duration) *AuthController {
	return &AuthController{auth: auth, jwtSecret: jwtSecret, jwtTTL: jwtTTL}
}

// Register creates an account and returns a bearer token alongside it.
func (ac *AuthController) Register(c *fiber.Ctx) error {
	var cmd services.RegisterCommand
	if err := c.BodyParser(&cmd); err != nil {
		return lib.ErrorResponse(c, apperrors.InvalidArg("invalid request body"))
	}

	user, err := ac.auth.Register(c.Context(), cmd)
	if err != nil {
		return lib.ErrorResponse(c, err)
	}

	token, err := lib.GenerateJWT(user.Id, ac.jwtSecret, ac.jwtTTL)
	if err != nil {
		return lib.ErrorResponse(c, apperrors.Internal("access token not generated"))
	}

	return lib.SuccessResponse(c, fiber.StatusCreated, "User registered successfully", fiber.Map{
		"token": token,
		"user":  user,
	})
}

// Login exchanges credentials for a bearer token.
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&body); err != nil {
		return lib.ErrorResponse(c, apperrors.InvalidArg("invalid request body"))
	}

	user, err := ac.auth.Login(c.Context(), body.Email, body.Password)
	if err != nil {
		return lib.ErrorResponse(c, err)
	}

	token, err := lib.GenerateJWT(user.Id, ac.jwtSecret, ac.jwtTTL)
	if err != nil {
		return lib.ErrorResponse(c, apperrors.Internal("access token not generated"))
	}

	return lib.SuccessResponse(c, fiber.StatusOK, "Login successful", fiber.Map{
		"token": token,
		"user":  user,
	})
}

func (ac *AuthController) ForgotPassword(c *fiber.Ctx) error {
	var body struct {
		Email string `json:"email"`
	}
	if err := c.BodyParser(&body); err != nil {
		return lib.ErrorResponse(c, apperrors.InvalidArg("invalid request body"))
	}

	if err := ac.auth.ForgotPassword(c.Context(), body.Email); err != nil {
		return lib.ErrorResponse(c, err)
	}
	return lib.SuccessResponse(c, fiber.StatusOK, "OTP sent to your email", nil)
}

func (ac *AuthController) VerifyOtp(c *fiber.Ctx) error {
	var body struct {
		Email string `json:"email"`
		Otp   string `json:"otp"`
	}
	if err := c.BodyParser(&body); err != nil {
		return lib.ErrorResponse(c, apperrors.InvalidArg("invalid request body"))
	}

	if err := ac.auth.VerifyOtp(c.Context(), body.Email, body.Otp); err != nil {
		return lib.ErrorResponse(c, err)
	}
	return lib.SuccessResponse(c, fiber.StatusOK, "OTP verified successfully", nil)
}

func (ac *AuthController) ResetPassword(c *fiber.Ctx) error {
	var body struct {
		Email    string `json:"email"`
		Otp      string `json:"otp"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&body); err != nil {
		return lib.ErrorResponse(c, apperrors.InvalidArg("invalid request body"))
	}

	if err := ac.auth.ResetPassword(c.Context(), body.Email, body.Otp, body.Password); err != nil {
		return lib.ErrorResponse(c, err)
	}
	return lib.SuccessResponse(c, fiber.StatusOK, "Password updated successfully", nil)
}

// actorFrom pulls the authenticated user the middleware attached.
func actorFrom(c *fiber.Ctx) models.User {
	return c.Locals("user").(models.User)
}
