package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	apperrors "github.com/theleywin/Backend-Skill-Swap/pkg/errors"
	"github.com/theleywin/Backend-Skill-Swap/pkg/logger"
	"github.com/theleywin/Backend-Skill-Swap/src/lib"
	"github.com/theleywin/Backend-Skill-Swap/src/models"
)

// MaxSignalBytes bounds one signaling payload. The payload itself is opaque:
// this subsystem relays it between the two peers without parsing it.
const MaxSignalBytes = 64 << 10

// CallService brokers call sessions over accepted connections: it creates
// the session record, relays signaling payloads between the two peers and
// settles the session exactly once.
type CallService struct {
	connections ConnectionStore
	calls       CallStore
	users       UserStore
	logger      *logger.Logger
	now         func() time.Time
	roomToken   func() string
}

func NewCallService(connections ConnectionStore, calls CallStore, users UserStore, log *logger.Logger) *CallService {
	return &CallService{
		connections: connections,
		calls:       calls,
		users:       users,
		logger:      log,
		now:         time.Now,
		roomToken:   lib.NewRoomToken,
	}
}

// CallInvite is what the initiator gets back: everything needed to join the
// signaling room and render the callee.
type CallInvite struct {
	CallId    primitive.ObjectID `json:"callId"`
	RoomToken string             `json:"roomToken"`
	CallType  models.CallType    `json:"callType"`
	Receiver  models.PublicUser  `json:"receiver"`
}

// Initiate starts a call on an accepted connection. The receiver is always
// derived as the connection's other party; a receiver supplied by the client
// is ignored by construction since it is never read from the request.
func (s *CallService) Initiate(ctx context.Context, actor, connectionID primitive.ObjectID, callType models.CallType) (*CallInvite, error) {
	if callType != models.CallTypeVoice && callType != models.CallTypeVideo {
		return nil, apperrors.InvalidArg("call type must be voice or video")
	}

	conn, err := s.connections.FindByID(ctx, connectionID)
	if err != nil {
		s.logger.Error("failed to load connection", "err", err)
		return nil, apperrors.Internal("server error")
	}
	if err := GuardConnection(actor, conn); err != nil {
		return nil, err
	}

	receiverID := conn.OtherParty(actor)
	receiver, err := s.users.FindByID(ctx, receiverID)
	if err != nil {
		s.logger.Error("failed to resolve receiver", "err", err)
		return nil, apperrors.Internal("server error")
	}
	if receiver == nil {
		return nil, apperrors.NotFound("receiver not found")
	}

	now := s.now()
	call := &models.Call{
		Id:           primitive.NewObjectID(),
		ConnectionId: connectionID,
		Caller:       actor,
		Receiver:     receiverID,
		CallType:     callType,
		Status:       models.CallStatusInitiated,
		RoomToken:    s.roomToken(),
		StartedAt:    now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.calls.Insert(ctx, call); err != nil {
		s.logger.Error("failed to create call", "err", err)
		return nil, apperrors.Internal("failed to initiate call")
	}

	return &CallInvite{
		CallId:    call.Id,
		RoomToken: call.RoomToken,
		CallType:  call.CallType,
		Receiver:  receiver.Public(),
	}, nil
}

// Signal writes the payload into the actor's slot of the session. Each role
// has one slot and the last write wins; intermediate signals are not kept.
// The role check is against the call record itself, not the connection,
// because one connection can have had many calls with different pairings of
// caller and receiver.
func (s *CallService) Signal(ctx context.Context, actor, callID primitive.ObjectID, payload string) error {
	if payload == "" {
		return apperrors.InvalidArg("signal payload is required")
	}
	if len(payload) > MaxSignalBytes {
		return apperrors.InvalidArg("signal payload is too large")
	}

	call, err := s.calls.FindByID(ctx, callID)
	if err != nil {
		s.logger.Error("failed to load call", "err", err)
		return apperrors.Internal("server error")
	}
	if call == nil {
		return apperrors.NotFound("call not found")
	}

	now := s.now()
	switch actor {
	case call.Caller:
		err = s.calls.SetCallerSignal(ctx, callID, payload, now)
	case call.Receiver:
		err = s.calls.SetReceiverSignal(ctx, callID, payload, now)
	default:
		return apperrors.Forbidden("not authorized to participate in this call")
	}
	if err != nil {
		s.logger.Error("failed to store signal", "err", err)
		return apperrors.Internal("failed to process signal")
	}
	return nil
}

// Poll returns the session as its participants currently see it, both signal
// slots included. This is the read side of Signal: the other peer observes a
// new payload only on its next poll.
func (s *CallService) Poll(ctx context.Context, actor, callID primitive.ObjectID) (*models.Call, error) {
	call, err := s.calls.FindByID(ctx, callID)
	if err != nil {
		s.logger.Error("failed to load call", "err", err)
		return nil, apperrors.Internal("server error")
	}
	if call == nil {
		return nil, apperrors.NotFound("call not found")
	}
	if !call.IsParticipant(actor) {
		return nil, apperrors.Forbidden("not authorized to view this call")
	}
	return call, nil
}

type CallSummary struct {
	CallId   primitive.ObjectID `json:"callId"`
	Duration int64              `json:"duration"`
}

// End settles the call: stamps the end time, computes the duration in whole
// seconds and moves the status to completed. The completion is a
// compare-and-set, so ending an already-ended call fails with InvalidState
// instead of recomputing the duration from a stale start time.
func (s *CallService) End(ctx context.Context, actor, callID primitive.ObjectID) (*CallSummary, error) {
	call, err := s.calls.FindByID(ctx, callID)
	if err != nil {
		s.logger.Error("failed to load call", "err", err)
		return nil, apperrors.Internal("server error")
	}
	if call == nil || !call.IsParticipant(actor) {
		return nil, apperrors.NotFound("call not found")
	}

	endedAt := s.now()
	duration := int64(endedAt.Sub(call.StartedAt) / time.Second)
	if duration < 0 {
		duration = 0
	}

	ok, err := s.calls.Complete(ctx, callID, endedAt, duration)
	if err != nil {
		s.logger.Error("failed to end call", "err", err)
		return nil, apperrors.Internal("failed to end call")
	}
	if !ok {
		return nil, apperrors.InvalidState("call has already ended")
	}

	return &CallSummary{CallId: callID, Duration: duration}, nil
}

// Decline lets the receiver refuse a call that is still in the initiated
// state, settling it as rejected.
func (s *CallService) Decline(ctx context.Context, actor, callID primitive.ObjectID) error {
	call, err := s.calls.FindByID(ctx, callID)
	if err != nil {
		s.logger.Error("failed to load call", "err", err)
		return apperrors.Internal("server error")
	}
	if call == nil || !call.IsParticipant(actor) {
		return apperrors.NotFound("call not found")
	}
	if actor != call.Receiver {
		return apperrors.Forbidden("only the receiver can decline a call")
	}

	ok, err := s.calls.UpdateStatus(ctx, callID, models.CallStatusInitiated, models.CallStatusRejected, s.now())
	if err != nil {
		s.logger.Error("failed to decline call", "err", err)
		return apperrors.Internal("failed to decline call")
	}
	if !ok {
		return apperrors.InvalidState("call can no longer be declined")
	}
	return nil
}

// CallHistoryEntry is one past call with both parties reduced to public
// profile fields.
type CallHistoryEntry struct {
	Id        primitive.ObjectID `json:"id"`
	CallType  models.CallType    `json:"callType"`
	Status    models.CallStatus  `json:"status"`
	Caller    models.PublicUser  `json:"caller"`
	Receiver  models.PublicUser  `json:"receiver"`
	StartedAt time.Time          `json:"startedAt"`
	EndedAt   *time.Time         `json:"endedAt,omitempty"`
	Duration  *int64             `json:"duration,omitempty"`
}

// History lists the connection's calls, most recent first.
func (s *CallService) History(ctx context.Context, actor, connectionID primitive.ObjectID) ([]CallHistoryEntry, error) {
	conn, err := s.connections.FindByID(ctx, connectionID)
	if err != nil {
		s.logger.Error("failed to load connection", "err", err)
		return nil, apperrors.Internal("server error")
	}
	if err := GuardConnection(actor, conn); err != nil {
		return nil, err
	}

	calls, err := s.calls.ListByConnection(ctx, connectionID)
	if err != nil {
		s.logger.Error("failed to list calls", "err", err)
		return nil, apperrors.Internal("server error")
	}

	profiles := make(map[primitive.ObjectID]models.PublicUser, 2)
	lookup := func(id primitive.ObjectID) (models.PublicUser, bool) {
		if p, ok := profiles[id]; ok {
			return p, true
		}
		user, err := s.users.FindByID(ctx, id)
		if err != nil || user == nil {
			s.logger.Error("failed to resolve call party", "user", id.Hex(), "err", err)
			return models.PublicUser{}, false
		}
		profiles[id] = user.Public()
		return profiles[id], true
	}

	entries := make([]CallHistoryEntry, 0, len(calls))
	for _, call := range calls {
		caller, ok := lookup(call.Caller)
		if !ok {
			continue
		}
		receiver, ok := lookup(call.Receiver)
		if !ok {
			continue
		}
		entries = append(entries, CallHistoryEntry{
			Id:        call.Id,
			CallType:  call.CallType,
			Status:    call.Status,
			Caller:    caller,
			Receiver:  receiver,
			StartedAt: call.StartedAt,
			EndedAt:   call.EndedAt,
			Duration:  call.Duration,
		})
	}
	return entries, nil
}
