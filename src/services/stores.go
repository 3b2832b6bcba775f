package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/theleywin/Backend-Skill-Swap/src/models"
)

// Store interfaces consumed by the services. The mongo-backed implementations
// live in src/store; tests substitute in-memory fakes. Lookups return
// (nil, nil) when nothing matches.

type ConnectionStore interface {
	Insert(ctx context.Context, conn *models.Connection) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Connection, error)
	FindActiveBetween(ctx context.Context, a, b primitive.ObjectID) (*models.Connection, error)
	FindLatestBetween(ctx context.Context, a, b primitive.ObjectID) (*models.Connection, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, from, to models.ConnectionStatus, at time.Time) (bool, error)
	ListPendingByRole(ctx context.Context, role string, userID primitive.ObjectID) ([]models.Connection, error)
	ListAcceptedFor(ctx context.Context, userID primitive.ObjectID) ([]models.Connection, error)
}

type MessageStore interface {
	Insert(ctx context.Context, msg *models.Message) error
	ListByConnection(ctx context.Context, connectionID primitive.ObjectID) ([]models.Message, error)
	MarkRead(ctx context.Context, connectionID, reader primitive.ObjectID) (int64, error)
	LastMessage(ctx context.Context, connectionID primitive.ObjectID) (*models.Message, error)
	CountUnreadFrom(ctx context.Context, connectionID, sender primitive.ObjectID) (int64, error)
}

type CallStore interface {
	Insert(ctx context.Context, call *models.Call) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Call, error)
	ListByConnection(ctx context.Context, connectionID primitive.ObjectID) ([]models.Call, error)
	SetCallerSignal(ctx context.Context, id primitive.ObjectID, payload string, at time.Time) error
	SetReceiverSignal(ctx context.Context, id primitive.ObjectID, payload string, at time.Time) error
	Complete(ctx context.Context, id primitive.ObjectID, endedAt time.Time, duration int64) (bool, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, from, to models.CallStatus, at time.Time) (bool, error)
}

type UserStore interface {
	Insert(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateProfile(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.User, error)
	UpdatePassword(ctx context.Context, id primitive.ObjectID, hash string) error
}

type OtpStore interface {
	Insert(ctx context.Context, otp *models.Otp) error
	FindValid(ctx context.Context, email, code string, now time.Time) (*models.Otp, error)
	DeleteByEmail(ctx context.Context, email string) error
}

type NotificationStore interface {
	Insert(ctx context.Context, n *models.Notification) error
	ListByRecipient(ctx context.Context, recipient primitive.ObjectID) ([]models.Notification, error)
	MarkRead(ctx context.Context, id, recipient primitive.ObjectID, at time.Time) (bool, error)
}

type Mailer interface {
	Send(ctx context.Context, to, subject, html string) error
}
