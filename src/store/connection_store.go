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

// ConnectionStore reads and writes the connections collection. Lookups that
// match nothing return (nil, nil) so callers decide how not-found surfaces.
type ConnectionStore struct {
	coll *mongo.Collection
}

func NewConnectionStore(db *mongo.Database) *ConnectionStore {
	return &ConnectionStore{coll: db.Collection("connections")}
}

func (s *ConnectionStore) Insert(ctx context.Context, conn *models.Connection) error {
	_, err := s.coll.InsertOne(ctx, conn)
	if err != nil {
		return errors.Wrap(err, "connectionStore.Insert.InsertOne")
	}
	return nil
}

func (s *ConnectionStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Connection, error) {
	var conn models.Connection
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&conn)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "connectionStore.FindByID.Decode")
	}
	return &conn, nil
}

// FindActiveBetween returns the pending or accepted connection between the
// two users in either direction, if one exists.
func (s *ConnectionStore) FindActiveBetween(ctx context.Context, a, b primitive.ObjectID) (*models.Connection, error) {
	filter := bson.M{
		"$or": []bson.M{
			{"sender": a, "recipient": b},
			{"sender": b, "recipient": a},
		},
		"status": bson.M{"$in": []models.ConnectionStatus{
			models.ConnectionStatusPending,
			models.ConnectionStatusAccepted,
		}},
	}

	var conn models.Connection
	err := s.coll.FindOne(ctx, filter).Decode(&conn)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "connectionStore.FindActiveBetween.Decode")
	}
	return &conn, nil
}

// FindLatestBetween returns the most recent connection between the two users
// regardless of status. Used by the detail projection so a rejected pairing
// still reads as rejected.
func (s *ConnectionStore) FindLatestBetween(ctx context.Context, a, b primitive.ObjectID) (*models.Connection, error) {
	filter := bson.M{
		"$or": []bson.M{
			{"sender": a, "recipient": b},
			{"sender": b, "recipient": a},
		},
	}
	opts := options.FindOne().SetSort(bson.M{"createdAt": -1})

	var conn models.Connection
	err := s.coll.FindOne(ctx, filter, opts).Decode(&conn)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "connectionStore.FindLatestBetween.Decode")
	}
	return &conn, nil
}

// UpdateStatus transitions a connection from one status to another with a
// compare-and-set on the current status. Returns false when the record was
// not in the expected status (or no longer exists), so a concurrent accept
// and reject cannot both win.
func (s *ConnectionStore) UpdateStatus(ctx context.Context, id primitive.ObjectID, from, to models.ConnectionStatus, at time.Time) (bool, error) {
	res, err := s.coll.UpdateOne(
		ctx,
		bson.M{"_id": id, "status": from},
		bson.M{"$set": bson.M{"status": to, "updatedAt": at}},
	)
	if err != nil {
		return false, errors.Wrap(err, "connectionStore.UpdateStatus.UpdateOne")
	}
	return res.MatchedCount > 0, nil
}

// ListPendingByRole lists pending requests where the user occupies the given
// role field ("sender" or "recipient"), newest first.
func (s *ConnectionStore) ListPendingByRole(ctx context.Context, role string, userID primitive.ObjectID) ([]models.Connection, error) {
	filter := bson.M{role: userID, "status": models.ConnectionStatusPending}
	opts := options.Find().SetSort(bson.M{"createdAt": -1})

	cursor, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, errors.Wrap(err, "connectionStore.ListPendingByRole.Find")
	}
	defer cursor.Close(ctx)

	var conns []models.Connection
	if err := cursor.All(ctx, &conns); err != nil {
		return nil, errors.Wrap(err, "connectionStore.ListPendingByRole.All")
	}
	return conns, nil
}

// ListAcceptedFor lists every accepted connection the user is a party to,
// newest first.
func (s *ConnectionStore) ListAcceptedFor(ctx context.Context, userID primitive.ObjectID) ([]models.Connection, error) {
	filter := bson.M{
		"status": models.ConnectionStatusAccepted,
		"$or": []bson.M{
			{"sender": userID},
			{"recipient": userID},
		},
	}
	opts := options.Find().SetSort(bson.M{"updatedAt": -1})

	cursor, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, errors.Wrap(err, "connectionStore.ListAcceptedFor.Find")
	}
	defer cursor.Close(ctx)

	var conns []models.Connection
	if err := cursor.All(ctx, &conns); err != nil {
		return nil, errors.Wrap(err, "connectionStore.ListAcceptedFor.All")
	}
	return conns, nil
}
