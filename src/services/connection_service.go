package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	apperrors "github.com/theleywin/Backend-Skill-Swap/pkg/errors"
	"github.com/theleywin/Backend-Skill-Swap/pkg/logger"
	"github.com/theleywin/Backend-Skill-Swap/src/models"
)

type Decision string

const (
	DecisionAccept Decision = "accept"
	DecisionReject Decision = "reject"
)

// ConnectionService owns the connection request state machine: it is the only
// component that creates connections or moves them between statuses.
type ConnectionService struct {
	connections   ConnectionStore
	users         UserStore
	notifications NotificationStore
	logger        *logger.Logger
	now           func() time.Time
}

func NewConnectionService(connections ConnectionStore, users UserStore, notifications NotificationStore, log *logger.Logger) *ConnectionService {
	return &ConnectionService{
		connections:   connections,
		users:         users,
		notifications: notifications,
		logger:        log,
		now:           time.Now,
	}
}

// Request creates a pending connection from actor to counterpart. At most one
// active (pending or accepted) connection may exist per pair, in either
// direction.
func (s *ConnectionService) Request(ctx context.Context, actor, counterpart primitive.ObjectID, message string) (*models.Connection, error) {
	if counterpart.IsZero() {
		return nil, apperrors.InvalidArg("counterpart user id is required")
	}
	if counterpart == actor {
		return nil, apperrors.InvalidArg("you can't send a connection request to yourself")
	}

	target, err := s.users.FindByID(ctx, counterpart)
	if err != nil {
		s.logger.Error("failed to look up counterpart", "err", err)
		return nil, apperrors.Internal("server error")
	}
	if target == nil {
		return nil, apperrors.NotFound("user not found")
	}

	existing, err := s.connections.FindActiveBetween(ctx, actor, counterpart)
	if err != nil {
		s.logger.Error("failed to check existing connection", "err", err)
		return nil, apperrors.Internal("server error")
	}
	if existing != nil {
		return nil, apperrors.InvalidState("an active connection already exists with this user")
	}

	now := s.now()
	conn := &models.Connection{
		Id:        primitive.NewObjectID(),
		Sender:    actor,
		Recipient: counterpart,
		Message:   message,
		Status:    models.ConnectionStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.connections.Insert(ctx, conn); err != nil {
		s.logger.Error("failed to create connection request", "err", err)
		return nil, apperrors.Internal("failed to send connection request")
	}

	s.notify(ctx, counterpart, models.NotificationTypeConnectionRequest, actor)

	return conn, nil
}

// Respond lets the recipient accept or reject a pending request. The status
// transition is a compare-and-set on "pending", so a losing concurrent
// response fails with InvalidState instead of silently overwriting.
func (s *ConnectionService) Respond(ctx context.Context, actor, connectionID primitive.ObjectID, decision Decision) (*models.Connection, error) {
	var target models.ConnectionStatus
	switch decision {
	case DecisionAccept:
		target = models.ConnectionStatusAccepted
	case DecisionReject:
		target = models.ConnectionStatusRejected
	default:
		return nil, apperrors.InvalidArg("decision must be accept or reject")
	}

	conn, err := s.connections.FindByID(ctx, connectionID)
	if err != nil {
		s.logger.Error("failed to find connection request", "err", err)
		return nil, apperrors.Internal("server error")
	}
	// recipient-only: the initiator and unrelated users get the same answer
	if conn == nil || conn.Recipient != actor {
		return nil, apperrors.NotFound("connection request not found")
	}
	if conn.Status != models.ConnectionStatusPending {
		return nil, apperrors.InvalidState("this request has already been processed")
	}

	now := s.now()
	ok, err := s.connections.UpdateStatus(ctx, connectionID, models.ConnectionStatusPending, target, now)
	if err != nil {
		s.logger.Error("failed to update connection request", "err", err)
		return nil, apperrors.Internal("failed to respond to connection request")
	}
	if !ok {
		return nil, apperrors.InvalidState("this request has already been processed")
	}

	conn.Status = target
	conn.UpdatedAt = now

	if decision == DecisionAccept {
		s.notify(ctx, conn.Sender, models.NotificationTypeConnectionAccepted, actor)
	}

	return conn, nil
}

// ConnectionDetail is the read-side projection telling a client where a
// prospective pairing stands and which action its UI should offer.
type ConnectionDetail struct {
	Status          string              `json:"status"`
	Relation        string              `json:"relation"`
	SuggestedAction string              `json:"suggestedAction"`
	ConnectionId    *primitive.ObjectID `json:"connectionId,omitempty"`
}

// Detail derives the actor's standing toward another user. Pure read, no
// mutation.
func (s *ConnectionService) Detail(ctx context.Context, actor, other primitive.ObjectID) (*ConnectionDetail, error) {
	if other.IsZero() {
		return nil, apperrors.InvalidArg("user id is required")
	}
	if other == actor {
		return nil, apperrors.InvalidArg("can't check connection status with yourself")
	}

	target, err := s.users.FindByID(ctx, other)
	if err != nil {
		s.logger.Error("failed to look up user", "err", err)
		return nil, apperrors.Internal("server error")
	}
	if target == nil {
		return nil, apperrors.NotFound("user not found")
	}

	conn, err := s.connections.FindLatestBetween(ctx, actor, other)
	if err != nil {
		s.logger.Error("failed to look up connection", "err", err)
		return nil, apperrors.Internal("server error")
	}
	if conn == nil {
		return &ConnectionDetail{Status: "none", Relation: "none", SuggestedAction: "send-request"}, nil
	}

	relation := "counterpart"
	if conn.Sender == actor {
		relation = "initiator"
	}

	detail := &ConnectionDetail{
		Status:       string(conn.Status),
		Relation:     relation,
		ConnectionId: &conn.Id,
	}
	switch conn.Status {
	case models.ConnectionStatusPending:
		if relation == "initiator" {
			detail.SuggestedAction = "requested"
		} else {
			detail.SuggestedAction = "respond"
		}
	case models.ConnectionStatusAccepted:
		detail.SuggestedAction = "accepted"
	case models.ConnectionStatusRejected:
		detail.SuggestedAction = "rejected"
	}
	return detail, nil
}

// ConnectionRequestView is a pending request with the other party reduced to
// public profile fields.
type ConnectionRequestView struct {
	Id        primitive.ObjectID      `json:"id"`
	User      models.PublicUser       `json:"user"`
	Message   string                  `json:"message"`
	Status    models.ConnectionStatus `json:"status"`
	CreatedAt time.Time               `json:"createdAt"`
}

// ListSent returns the actor's outgoing pending requests, newest first.
func (s *ConnectionService) ListSent(ctx context.Context, actor primitive.ObjectID) ([]ConnectionRequestView, error) {
	return s.listPending(ctx, "sender", actor)
}

// ListReceived returns the actor's incoming pending requests, newest first.
func (s *ConnectionService) ListReceived(ctx context.Context, actor primitive.ObjectID) ([]ConnectionRequestView, error) {
	return s.listPending(ctx, "recipient", actor)
}

func (s *ConnectionService) listPending(ctx context.Context, role string, actor primitive.ObjectID) ([]ConnectionRequestView, error) {
	conns, err := s.connections.ListPendingByRole(ctx, role, actor)
	if err != nil {
		s.logger.Error("failed to list connection requests", "err", err)
		return nil, apperrors.Internal("server error")
	}

	views := make([]ConnectionRequestView, 0, len(conns))
	for _, conn := range conns {
		other := conn.OtherParty(actor)
		user, err := s.users.FindByID(ctx, other)
		if err != nil || user == nil {
			s.logger.Error("failed to resolve request party", "user", other.Hex(), "err", err)
			continue
		}
		views = append(views, ConnectionRequestView{
			Id:        conn.Id,
			User:      user.Public(),
			Message:   conn.Message,
			Status:    conn.Status,
			CreatedAt: conn.CreatedAt,
		})
	}
	return views, nil
}

// notify records a poll-visible notification. Notifications are not critical:
// a failure is logged and the triggering operation still succeeds.
func (s *ConnectionService) notify(ctx context.Context, recipient primitive.ObjectID, kind models.NotificationType, related primitive.ObjectID) {
	now := s.now()
	err := s.notifications.Insert(ctx, &models.Notification{
		Id:          primitive.NewObjectID(),
		Recipient:   recipient,
		Type:        kind,
		RelatedUser: related,
		Read:        false,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		s.logger.Error("failed to create notification", "err", err)
	}
}
