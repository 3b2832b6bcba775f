package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Connection struct {
	Id        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Sender    primitive.ObjectID `json:"sender" bson:"sender"`
	Recipient primitive.ObjectID `json:"recipient" bson:"recipient"`
	Message   string             `json:"message" bson:"message"`
	Status    ConnectionStatus   `json:"status" bson:"status"` // pending, accepted, rejected
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type ConnectionStatus string

const (
	ConnectionStatusPending  ConnectionStatus = "pending"
	ConnectionStatusAccepted ConnectionStatus = "accepted"
	ConnectionStatusRejected ConnectionStatus = "rejected"
)

// IsParty reports whether userID is one of the two parties of the connection.
func (c *Connection) IsParty(userID primitive.ObjectID) bool {
	return c.Sender == userID || c.Recipient == userID
}

// OtherParty returns the counterpart of userID. The caller must have checked
// IsParty first.
func (c *Connection) OtherParty(userID primitive.ObjectID) primitive.ObjectID {
	if c.Sender == userID {
		return c.Recipient
	}
	return c.Sender
}
