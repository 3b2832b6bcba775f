package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Call struct {
	Id           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ConnectionId primitive.ObjectID `json:"connectionId" bson:"connectionId"`
	Caller       primitive.ObjectID `json:"caller" bson:"caller"`
	Receiver     primitive.ObjectID `json:"receiver" bson:"receiver"`
	CallType     CallType           `json:"callType" bson:"callType"` // voice, video
	Status       CallStatus         `json:"status" bson:"status"`
	RoomToken    string             `json:"roomToken" bson:"roomToken"`
	// WebRTC signaling slots. Opaque to the backend: each party writes its
	// own slot, last write wins, nothing here is ever parsed.
	CallerSignal   string     `json:"callerSignal" bson:"callerSignal"`
	ReceiverSignal string     `json:"receiverSignal" bson:"receiverSignal"`
	StartedAt      time.Time  `json:"startedAt" bson:"startedAt"`
	EndedAt        *time.Time `json:"endedAt,omitempty" bson:"endedAt,omitempty"`
	Duration       *int64     `json:"duration,omitempty" bson:"duration,omitempty"` // whole seconds
	CreatedAt      time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt" bson:"updatedAt"`
}

type CallType string

const (
	CallTypeVoice CallType = "voice"
	CallTypeVideo CallType = "video"
)

type CallStatus string

const (
	CallStatusInitiated CallStatus = "initiated"
	CallStatusOngoing   CallStatus = "ongoing"
	CallStatusCompleted CallStatus = "completed"
	CallStatusMissed    CallStatus = "missed"
	CallStatusRejected  CallStatus = "rejected"
)

// IsParticipant reports whether userID is the caller or receiver of this
// specific call. Checked against the call record itself, not the connection:
// a connection can accumulate many calls over time.
func (c *Call) IsParticipant(userID primitive.ObjectID) bool {
	return c.Caller == userID || c.Receiver == userID
}
