package controllers

import (
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	apperrors "github.com/theleywin/Backend-Skill-Swap/pkg/errors"
	"github.com/theleywin/Backend-Skill-Swap/src/lib"
	"github.com/theleywin/Backend-Skill-Swap/src/services"
)

type ConnectionController struct {
	connections *services.ConnectionService
}

func NewConnectionController(connections *services.ConnectionService) *ConnectionController {
	return &ConnectionController{connections: connections}
}

// Request sends a connection request to another user.
func (cc *ConnectionController) Request(c *fiber.Ctx) error {
	var body struct {
		UserId  string `json:"userId"`
		Message string `json:"message"`
	}
	if err := c.BodyParser(&body); err != nil {
		return lib.ErrorResponse(c, apperrors.InvalidArg("invalid request body"))
	}

	counterpart, err := primitive.ObjectIDFromHex(body.UserId)
	if err != nil {
		return lib.ErrorResponse(c, apperrors.InvalidArg("invalid user ID format"))
	}

	actor := actorFrom(c)
	conn, err := cc.connections.Request(c.Context(), actor.Id, counterpart, body.Message)
	if err != nil {
		return lib.ErrorResponse(c, err)
	}
	return lib.SuccessResponse(c, fiber.StatusCreated, "Connection request sent successfully", conn)
}

// Accept accepts a pending connection request addressed to the actor.
func (cc *ConnectionController) Accept(c *fiber.Ctx) error {
	return cc.respond(c, services.DecisionAccept, "Connection accepted successfully")
}

// Reject rejects a pending connection request addressed to the actor. The
// record is retained with status rejected.
func (cc *ConnectionController) Reject(c *fiber.Ctx) error {
	return cc.respond(c, services.DecisionReject, "Connection request rejected")
}

func (cc *ConnectionController) respond(c *fiber.Ctx, decision services.Decision, message string) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return lib.ErrorResponse(c, apperrors.InvalidArg("invalid request ID format"))
	}

	actor := actorFrom(c)
	conn, err := cc.connections.Respond(c.Context(), actor.Id, id, decision)
	if err != nil {
		return lib.ErrorResponse(c, err)
	}
	return lib.SuccessResponse(c, fiber.StatusOK, message, conn)
}

// Lookup reports where a prospective pairing with another user stands.
func (cc *ConnectionController) Lookup(c *fiber.Ctx) error {
	var body struct {
		UserId string `json:"userId"`
	}
	if err := c.BodyParser(&body); err != nil {
		return lib.ErrorResponse(c, apperrors.InvalidArg("invalid request body"))
	}

	other, err := primitive.ObjectIDFromHex(body.UserId)
	if err != nil {
		return lib.ErrorResponse(c, apperrors.InvalidArg("invalid user ID format"))
	}

	actor := actorFrom(c)
	detail, err := cc.connections.Detail(c.Context(), actor.Id, other)
	if err != nil {
		return lib.ErrorResponse(c, err)
	}
	return lib.SuccessResponse(c, fiber.StatusOK, "Connection status retrieved successfully", detail)
}

// ListSent lists the actor's outgoing pending requests.
func (cc *ConnectionController) ListSent(c *fiber.Ctx) error {
	actor := actorFrom(c)
	views, err := cc.connections.ListSent(c.Context(), actor.Id)
	if err != nil {
		return lib.ErrorResponse(c, err)
	}
	return lib.SuccessResponse(c, fiber.StatusOK, "Sent requests retrieved successfully", views)
}

// ListReceived lists the actor's incoming pending requests.
func (cc *ConnectionController) ListReceived(c *fiber.Ctx) error {
	actor := actorFrom(c)
	views, err := cc.connections.ListReceived(c.Context(), actor.Id)
	if err != nil {
		return lib.ErrorResponse(c, err)
	}
	return lib.SuccessResponse(c, fiber.StatusOK, "Received requests retrieved successfully", views)
}
