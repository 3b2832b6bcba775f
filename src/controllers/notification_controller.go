package controllers

import (
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	apperrors "github.com/theleywin/Backend-Skill-Swap/pkg/errors"
	"github.com/theleywin/Backend-Skill-Swap/src/lib"
	"github.com/theleywin/Backend-Skill-Swap/src/services"
)

type NotificationController struct {
	notifications *services.NotificationService
}

func NewNotificationController(notifications *services.NotificationService) *NotificationController {
	return &NotificationController{notifications: notifications}
}

// GetNotifications returns the actor's notifications, newest first.
func (nc *NotificationController) GetNotifications(c *fiber.Ctx) error {
	actor := actorFrom(c)
	views, err := nc.notifications.List(c.Context(), actor.Id)
	if err != nil {
		return lib.ErrorResponse(c, err)
	}
	return lib.SuccessResponse(c, fiber.StatusOK, "Notifications retrieved successfully", views)
}

// MarkNotificationRead flips one notification to read.
func (nc *NotificationController) MarkNotificationRead(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return lib.ErrorResponse(c, apperrors.InvalidArg("invalid notification ID format"))
	}

	actor := actorFrom(c)
	if err := nc.notifications.MarkRead(c.Context(), actor.Id, id); err != nil {
		return lib.ErrorResponse(c, err)
	}
	return lib.SuccessResponse(c, fiber.StatusOK, "Notification marked as read", nil)
}
