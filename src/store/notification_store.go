package store

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/theleywin/Backend-Skill-Swap/src/models"
)

type NotificationStore struct {
	coll *mongo.Collection
}

func NewNotificationStore(db *mongo.Database) *NotificationStore {
	return &NotificationStore{coll: db.Collection("notifications")}
}

func (s *NotificationStore) Insert(ctx context.Context, n *models.Notification) error {
	_, err := s.coll.InsertOne(ctx, n)
	if err != nil {
		return errors.Wrap(err, "notificationStore.Insert.InsertOne")
	}
	return nil
}

// ListByRecipient returns the user's notifications, newest first.
func (s *NotificationStore) ListByRecipient(ctx context.Context, recipient primitive.ObjectID) ([]models.Notification, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1})

	cursor, err := s.coll.Find(ctx, bson.M{"recipient": recipient}, opts)
	if err != nil {
		return nil, errors.Wrap(err, "notificationStore.ListByRecipient.Find")
	}
	defer cursor.Close(ctx)

	var notifications []models.Notification
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, errors.Wrap(err, "notificationStore.ListByRecipient.All")
	}
	return notifications, nil
}

// MarkRead flips a single notification to read, scoped to its recipient so
// one user cannot touch another's notifications.
func (s *NotificationStore) MarkRead(ctx context.Context, id, recipient primitive.ObjectID, at time.Time) (bool, error) {
	res, err := s.coll.UpdateOne(
		ctx,
		bson.M{"_id": id, "recipient": recipient},
		bson.M{"$set": bson.M{"read": true, "updatedAt": at}},
	)
	if err != nil {
		return false, errors.Wrap(err, "notificationStore.MarkRead.UpdateOne")
	}
	return res.MatchedCount > 0, nil
}
