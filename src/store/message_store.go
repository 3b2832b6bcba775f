package store

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/theleywin/Backend-Skill-Swap/src/models"
)

type MessageStore struct {
	coll *mongo.Collection
}

func NewMessageStore(db *mongo.Database) *MessageStore {
	return &MessageStore{coll: db.Collection("messages")}
}

func (s *MessageStore) Insert(ctx context.Context, msg *models.Message) error {
	_, err := s.coll.InsertOne(ctx, msg)
	if err != nil {
		return errors.Wrap(err, "messageStore.Insert.InsertOne")
	}
	return nil
}

// ListByConnection returns every message of the connection oldest first.
// Ties on createdAt fall back to _id, which preserves insertion order.
func (s *MessageStore) ListByConnection(ctx context.Context, connectionID primitive.ObjectID) ([]models.Message, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})

	cursor, err := s.coll.Find(ctx, bson.M{"connectionId": connectionID}, opts)
	if err != nil {
		return nil, errors.Wrap(err, "messageStore.ListByConnection.Find")
	}
	defer cursor.Close(ctx)

	var msgs []models.Message
	if err := cursor.All(ctx, &msgs); err != nil {
		return nil, errors.Wrap(err, "messageStore.ListByConnection.All")
	}
	return msgs, nil
}

// MarkRead flips every unread message in the connection that was not written
// by reader. Returns the number of messages flipped.
func (s *MessageStore) MarkRead(ctx context.Context, connectionID, reader primitive.ObjectID) (int64, error) {
	res, err := s.coll.UpdateMany(
		ctx,
		bson.M{
			"connectionId": connectionID,
			"sender":       bson.M{"$ne": reader},
			"read":         false,
		},
		bson.M{"$set": bson.M{"read": true}},
	)
	if err != nil {
		return 0, errors.Wrap(err, "messageStore.MarkRead.UpdateMany")
	}
	return res.ModifiedCount, nil
}

// LastMessage returns the most recent message of the connection, nil when
// the connection has no messages yet.
func (s *MessageStore) LastMessage(ctx context.Context, connectionID primitive.ObjectID) (*models.Message, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})

	var msg models.Message
	err := s.coll.FindOne(ctx, bson.M{"connectionId": connectionID}, opts).Decode(&msg)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "messageStore.LastMessage.Decode")
	}
	return &msg, nil
}

// CountUnreadFrom counts unread messages in the connection authored by the
// given sender.
func (s *MessageStore) CountUnreadFrom(ctx context.Context, connectionID, sender primitive.ObjectID) (int64, error) {
	count, err := s.coll.CountDocuments(ctx, bson.M{
		"connectionId": connectionID,
		"sender":       sender,
		"read":         false,
	})
	if err != nil {
		return 0, errors.Wrap(err, "messageStore.CountUnreadFrom.CountDocuments")
	}
	return count, nil
}
