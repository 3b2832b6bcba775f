package controllers

import (
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	apperrors "github.com/theleywin/Backend-Skill-Swap/pkg/errors"
	"github.com/theleywin/Backend-Skill-Swap/src/lib"
	"github.com/theleywin/Backend-Skill-Swap/src/models"
	"github.com/theleywin/Backend-Skill-Swap/src/services"
)

type CallController struct {
	calls *services.CallService
}

func NewCallController(calls *services.CallService) *CallController {
	return &CallController{calls: calls}
}

// InitiateCall starts a voice or video call on an accepted connection. The
// receiver is derived server-side as the connection's other party.
func (cc *CallController) InitiateCall(c *fiber.Ctx) error {
	var body struct {
		ConnectionId string `json:"connectionId"`
		CallType     string `json:"callType"`
	}
	if err := c.BodyParser(&body); err != nil {
		return lib.ErrorResponse(c, apperrors.InvalidArg("invalid request body"))
	}
	if body.ConnectionId == "" || body.CallType == "" {
		return lib.ErrorResponse(c, apperrors.InvalidArg("connection ID and call type are required"))
	}

	connectionID, err := primitive.ObjectIDFromHex(body.ConnectionId)
	if err != nil {
		return lib.ErrorResponse(c, apperrors.InvalidArg("invalid connection ID format"))
	}

	actor := actorFrom(c)
	invite, err := cc.calls.Initiate(c.Context(), actor.Id, connectionID, models.CallType(body.CallType))
	if err != nil {
		return lib.ErrorResponse(c, err)
	}
	return lib.SuccessResponse(c, fiber.StatusCreated, "Call initiated successfully", invite)
}

// SendSignal relays an opaque WebRTC payload into the actor's slot of the
// call session.
func (cc *CallController) SendSignal(c *fiber.Ctx) error {
	var body struct {
		CallId string `json:"callId"`
		Signal string `json:"signal"`
	}
	if err := c.BodyParser(&body); err != nil {
		return lib.ErrorResponse(c, apperrors.InvalidArg("invalid request body"))
	}

	callID, err := primitive.ObjectIDFromHex(body.CallId)
	if err != nil {
		return lib.ErrorResponse(c, apperrors.InvalidArg("invalid call ID format"))
	}

	actor := actorFrom(c)
	if err := cc.calls.Signal(c.Context(), actor.Id, callID, body.Signal); err != nil {
		return lib.ErrorResponse(c, err)
	}
	return lib.SuccessResponse(c, fiber.StatusOK, "Signal processed successfully", fiber.Map{
		"callId": callID,
	})
}

// GetCall is the signaling poll: participants fetch the session's current
// status and both signal slots.
func (cc *CallController) GetCall(c *fiber.Ctx) error {
	callID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return lib.ErrorResponse(c, apperrors.InvalidArg("invalid call ID format"))
	}

	actor := actorFrom(c)
	call, err := cc.calls.Poll(c.Context(), actor.Id, callID)
	if err != nil {
		return lib.ErrorResponse(c, err)
	}
	return lib.SuccessResponse(c, fiber.StatusOK, "Call retrieved successfully", call)
}

// EndCall settles the call and reports its duration in seconds.
func (cc *CallController) EndCall(c *fiber.Ctx) error {
	callID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return lib.ErrorResponse(c, apperrors.InvalidArg("invalid call ID format"))
	}

	actor := actorFrom(c)
	summary, err := cc.calls.End(c.Context(), actor.Id, callID)
	if err != nil {
		return lib.ErrorResponse(c, err)
	}
	return lib.SuccessResponse(c, fiber.StatusOK, "Call ended successfully", summary)
}

// DeclineCall lets the receiver refuse a ringing call.
func (cc *CallController) DeclineCall(c *fiber.Ctx) error {
	callID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return lib.ErrorResponse(c, apperrors.InvalidArg("invalid call ID format"))
	}

	actor := actorFrom(c)
	if err := cc.calls.Decline(c.Context(), actor.Id, callID); err != nil {
		return lib.ErrorResponse(c, err)
	}
	return lib.SuccessResponse(c, fiber.StatusOK, "Call declined", fiber.Map{
		"callId": callID,
	})
}

// GetCallHistory lists the connection's past calls, most recent first.
func (cc *CallController) GetCallHistory(c *fiber.Ctx) error {
	connectionID, err := primitive.ObjectIDFromHex(c.Params("connectionId"))
	if err != nil {
		return lib.ErrorResponse(c, apperrors.InvalidArg("invalid connection ID format"))
	}

	actor := actorFrom(c)
	history, err := cc.calls.History(c.Context(), actor.Id, connectionID)
	if err != nil {
		return lib.ErrorResponse(c, err)
	}
	return lib.SuccessResponse(c, fiber.StatusOK, "Call history retrieved successfully", history)
}
