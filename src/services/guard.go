package services

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	apperrors "github.com/theleywin/Backend-Skill-Swap/pkg/errors"
	"github.com/theleywin/Backend-Skill-Swap/src/models"
)

// CanAct reports whether the actor is one of the connection's two parties.
func CanAct(actor primitive.ObjectID, conn *models.Connection) bool {
	return conn != nil && conn.IsParty(actor)
}

// IsAccepted reports whether the connection has reached the accepted state.
func IsAccepted(conn *models.Connection) bool {
	return conn != nil && conn.Status == models.ConnectionStatusAccepted
}

// GuardConnection authorizes a connection-scoped operation. An unrelated
// actor gets NotFound rather than Forbidden so the connection's existence is
// never confirmed to outsiders; a party acting on a connection that is not
// yet accepted gets PreconditionFailed.
func GuardConnection(actor primitive.ObjectID, conn *models.Connection) error {
	if !CanAct(actor, conn) {
		return apperrors.NotFound("connection not found")
	}
	if !IsAccepted(conn) {
		return apperrors.FailedPrecondition("connection is not accepted")
	}
	return nil
}
