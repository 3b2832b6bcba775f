package store

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/theleywin/Backend-Skill-Swap/src/models"
)

type OtpStore struct {
	coll *mongo.Collection
}

func NewOtpStore(db *mongo.Database) *OtpStore {
	return &OtpStore{coll: db.Collection("otps")}
}

func (s *OtpStore) Insert(ctx context.Context, otp *models.Otp) error {
	_, err := s.coll.InsertOne(ctx, otp)
	if err != nil {
		return errors.Wrap(err, "otpStore.Insert.InsertOne")
	}
	return nil
}

// FindValid returns the matching unexpired OTP for the email, nil when none.
func (s *OtpStore) FindValid(ctx context.Context, email, code string, now time.Time) (*models.Otp, error) {
	filter := bson.M{
		"email":     email,
		"code":      code,
		"expiresAt": bson.M{"$gt": now},
	}

	var otp models.Otp
	err := s.coll.FindOne(ctx, filter).Decode(&otp)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "otpStore.FindValid.Decode")
	}
	return &otp, nil
}

// DeleteByEmail removes every OTP issued to the email. Called once a code is
// consumed so it cannot be replayed.
func (s *OtpStore) DeleteByEmail(ctx context.Context, email string) error {
	_, err := s.coll.DeleteMany(ctx, bson.M{"email": email})
	if err != nil {
		return errors.Wrap(err, "otpStore.DeleteByEmail.DeleteMany")
	}
	return nil
}
