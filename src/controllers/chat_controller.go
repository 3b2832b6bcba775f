package controllers

import (
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	apperrors "github.com/theleywin/Backend-Skill-Swap/pkg/errors"
	"github.com/theleywin/Backend-Skill-Swap/src/lib"
	"github.com/theleywin/Backend-Skill-Swap/src/services"
)

type ChatController struct {
	chat *services.ChatService
}

func NewChatController(chat *services.ChatService) *ChatController {
	return &ChatController{chat: chat}
}

// SendMessage appends a message to an accepted connection.
func (cc *ChatController) SendMessage(c *fiber.Ctx) error {
	var body struct {
		ConnectionId string `json:"connectionId"`
		Body         string `json:"body"`
	}
	if err := c.BodyParser(&body); err != nil {
		return lib.ErrorResponse(c, apperrors.InvalidArg("invalid request body"))
	}

	connectionID, err := primitive.ObjectIDFromHex(body.ConnectionId)
	if err != nil {
		return lib.ErrorResponse(c, apperrors.InvalidArg("invalid connection ID format"))
	}

	actor := actorFrom(c)
	msg, err := cc.chat.Send(c.Context(), actor.Id, connectionID, body.Body)
	if err != nil {
		return lib.ErrorResponse(c, err)
	}
	return lib.SuccessResponse(c, fiber.StatusCreated, "Message sent successfully", msg)
}

// GetMessages returns the connection's messages oldest first and marks the
// counterpart's messages as read.
func (cc *ChatController) GetMessages(c *fiber.Ctx) error {
	connectionID, err := primitive.ObjectIDFromHex(c.Params("connectionId"))
	if err != nil {
		return lib.ErrorResponse(c, apperrors.InvalidArg("invalid connection ID format"))
	}

	actor := actorFrom(c)
	msgs, err := cc.chat.ListAndMarkRead(c.Context(), actor.Id, connectionID)
	if err != nil {
		return lib.ErrorResponse(c, err)
	}
	return lib.SuccessResponse(c, fiber.StatusOK, "Messages retrieved successfully", msgs)
}

// GetConversations returns every accepted connection with its latest message
// and unread count.
func (cc *ChatController) GetConversations(c *fiber.Ctx) error {
	actor := actorFrom(c)
	previews, err := cc.chat.ListConversations(c.Context(), actor.Id)
	if err != nil {
		return lib.ErrorResponse(c, err)
	}
	return lib.SuccessResponse(c, fiber.StatusOK, "Chat connections retrieved successfully", previews)
}
