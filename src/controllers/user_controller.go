package controllers

import (
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	apperrors "github.com/theleywin/Backend-Skill-Swap/pkg/errors"
	"github.com/theleywin/Backend-Skill-Swap/src/lib"
	"github.com/theleywin/Backend-Skill-Swap/src/services"
)

type UserController struct {
	auth *services.AuthService
}

func NewUserController(auth *services.AuthService) *UserController {
	return &UserController{auth: auth}
}

// GetUser returns another user's public profile.
func (uc *UserController) GetUser(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return lib.ErrorResponse(c, apperrors.InvalidArg("invalid user ID format"))
	}

	actor := actorFrom(c)
	profile, err := uc.auth.GetProfile(c.Context(), actor.Id, id)
	if err != nil {
		return lib.ErrorResponse(c, err)
	}
	return lib.SuccessResponse(c, fiber.StatusOK, "User retrieved successfully", profile)
}

// UpdateProfile applies partial updates to the authenticated user's profile.
func (uc *UserController) UpdateProfile(c *fiber.Ctx) error {
	var update services.ProfileUpdate
	if err := c.BodyParser(&update); err != nil {
		return lib.ErrorResponse(c, apperrors.InvalidArg("invalid request body"))
	}

	actor := actorFrom(c)
	user, err := uc.auth.UpdateProfile(c.Context(), actor.Id, update)
	if err != nil {
		return lib.ErrorResponse(c, err)
	}
	return lib.SuccessResponse(c, fiber.StatusOK, "Profile updated successfully", user)
}
