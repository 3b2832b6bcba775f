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

type CallStore struct {
	coll *mongo.Collection
}

func NewCallStore(db *mongo.Database) *CallStore {
	return &CallStore{coll: db.Collection("calls")}
}

func (s *CallStore) Insert(ctx context.Context, call *models.Call) error {
	_, err := s.coll.InsertOne(ctx, call)
	if err != nil {
		return errors.Wrap(err, "callStore.Insert.InsertOne")
	}
	return nil
}

func (s *CallStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Call, error) {
	var call models.Call
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&call)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "callStore.FindByID.Decode")
	}
	return &call, nil
}

// ListByConnection returns every call of the connection, most recent first.
func (s *CallStore) ListByConnection(ctx context.Context, connectionID primitive.ObjectID) ([]models.Call, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1})

	cursor, err := s.coll.Find(ctx, bson.M{"connectionId": connectionID}, opts)
	if err != nil {
		return nil, errors.Wrap(err, "callStore.ListByConnection.Find")
	}
	defer cursor.Close(ctx)

	var calls []models.Call
	if err := cursor.All(ctx, &calls); err != nil {
		return nil, errors.Wrap(err, "callStore.ListByConnection.All")
	}
	return calls, nil
}

// SetCallerSignal overwrites the caller's signaling slot. Last write wins,
// no history is kept.
func (s *CallStore) SetCallerSignal(ctx context.Context, id primitive.ObjectID, payload string, at time.Time) error {
	_, err := s.coll.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"callerSignal": payload, "updatedAt": at}},
	)
	if err != nil {
		return errors.Wrap(err, "callStore.SetCallerSignal.UpdateOne")
	}
	return nil
}

// SetReceiverSignal overwrites the receiver's signaling slot.
func (s *CallStore) SetReceiverSignal(ctx context.Context, id primitive.ObjectID, payload string, at time.Time) error {
	_, err := s.coll.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"receiverSignal": payload, "updatedAt": at}},
	)
	if err != nil {
		return errors.Wrap(err, "callStore.SetReceiverSignal.UpdateOne")
	}
	return nil
}

// Complete moves a call to completed and stamps its end time and duration.
// The compare-and-set on status means a call completes at most once, so a
// second end cannot recompute the duration.
func (s *CallStore) Complete(ctx context.Context, id primitive.ObjectID, endedAt time.Time, duration int64) (bool, error) {
	res, err := s.coll.UpdateOne(
		ctx,
		bson.M{"_id": id, "status": bson.M{"$in": []models.CallStatus{
			models.CallStatusInitiated,
			models.CallStatusOngoing,
		}}},
		bson.M{"$set": bson.M{
			"status":    models.CallStatusCompleted,
			"endedAt":   endedAt,
			"duration":  duration,
			"updatedAt": endedAt,
		}},
	)
	if err != nil {
		return false, errors.Wrap(err, "callStore.Complete.UpdateOne")
	}
	return res.MatchedCount > 0, nil
}

// UpdateStatus transitions a call between statuses with a compare-and-set on
// the current one. Used for the receiver declining an initiated call and
// left open for a future missed-call timeout sweep.
func (s *CallStore) UpdateStatus(ctx context.Context, id primitive.ObjectID, from, to models.CallStatus, at time.Time) (bool, error) {
	res, err := s.coll.UpdateOne(
		ctx,
		bson.M{"_id": id, "status": from},
		bson.M{"$set": bson.M{"status": to, "updatedAt": at}},
	)
	if err != nil {
		return false, errors.Wrap(err, "callStore.UpdateStatus.UpdateOne")
	}
	return res.MatchedCount > 0, nil
}
