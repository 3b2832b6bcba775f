package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message is one chat message inside an accepted connection. Records are
// append-only: nothing mutates after insert except the read flag, which only
// ever goes false -> true.
type Message struct {
	Id           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ConnectionId primitive.ObjectID `json:"connectionId" bson:"connectionId"`
	Sender       primitive.ObjectID `json:"sender" bson:"sender"`
	Body         string             `json:"body" bson:"body"`
	Read         bool               `json:"read" bson:"read"`
	CreatedAt    time.Time          `json:"createdAt" bson:"createdAt"`
}
