package services

import (
	"context"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/theleywin/Backend-Skill-Swap/config"
	"github.com/theleywin/Backend-Skill-Swap/pkg/logger"
	"github.com/theleywin/Backend-Skill-Swap/src/models"
)

// In-memory store fakes mirroring the mongo semantics the services rely on:
// (nil, nil) lookups, compare-and-set transitions, sort orders.

func testLogger() *logger.Logger {
	l, _ := logger.NewLogger(&config.Config{Logger: config.Logger{Development: true, Level: "error"}})
	return l
}

type fakeConnectionStore struct {
	conns []*models.Connection
}

func (f *fakeConnectionStore) Insert(_ context.Context, conn *models.Connection) error {
	cp := *conn
	f.conns = append(f.conns, &cp)
	return nil
}

func (f *fakeConnectionStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.Connection, error) {
	for _, c := range f.conns {
		if c.Id == id {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeConnectionStore) FindActiveBetween(_ context.Context, a, b primitive.ObjectID) (*models.Connection, error) {
	for _, c := range f.conns {
		pair := (c.Sender == a && c.Recipient == b) || (c.Sender == b && c.Recipient == a)
		active := c.Status == models.ConnectionStatusPending || c.Status == models.ConnectionStatusAccepted
		if pair && active {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeConnectionStore) FindLatestBetween(_ context.Context, a, b primitive.ObjectID) (*models.Connection, error) {
	var latest *models.Connection
	for _, c := range f.conns {
		pair := (c.Sender == a && c.Recipient == b) || (c.Sender == b && c.Recipient == a)
		if pair && (latest == nil || c.CreatedAt.After(latest.CreatedAt)) {
			latest = c
		}
	}
	if latest == nil {
		return nil, nil
	}
	cp := *latest
	return &cp, nil
}

func (f *fakeConnectionStore) UpdateStatus(_ context.Context, id primitive.ObjectID, from, to models.ConnectionStatus, at time.Time) (bool, error) {
	for _, c := range f.conns {
		if c.Id == id && c.Status == from {
			c.Status = to
			c.UpdatedAt = at
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeConnectionStore) ListPendingByRole(_ context.Context, role string, userID primitive.ObjectID) ([]models.Connection, error) {
	var out []models.Connection
	for _, c := range f.conns {
		if c.Status != models.ConnectionStatusPending {
			continue
		}
		if (role == "sender" && c.Sender == userID) || (role == "recipient" && c.Recipient == userID) {
			out = append(out, *c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeConnectionStore) ListAcceptedFor(_ context.Context, userID primitive.ObjectID) ([]models.Connection, error) {
	var out []models.Connection
	for _, c := range f.conns {
		if c.Status == models.ConnectionStatusAccepted && c.IsParty(userID) {
			out = append(out, *c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

type fakeMessageStore struct {
	msgs []*models.Message
}

func (f *fakeMessageStore) Insert(_ context.Context, msg *models.Message) error {
	cp := *msg
	f.msgs = append(f.msgs, &cp)
	return nil
}

func (f *fakeMessageStore) ListByConnection(_ context.Context, connectionID primitive.ObjectID) ([]models.Message, error) {
	var out []models.Message
	for _, m := range f.msgs {
		if m.ConnectionId == connectionID {
			out = append(out, *m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeMessageStore) MarkRead(_ context.Context, connectionID, reader primitive.ObjectID) (int64, error) {
	var n int64
	for _, m := range f.msgs {
		if m.ConnectionId == connectionID && m.Sender != reader && !m.Read {
			m.Read = true
			n++
		}
	}
	return n, nil
}

func (f *fakeMessageStore) LastMessage(_ context.Context, connectionID primitive.ObjectID) (*models.Message, error) {
	var last *models.Message
	for _, m := range f.msgs {
		if m.ConnectionId != connectionID {
			continue
		}
		if last == nil || !m.CreatedAt.Before(last.CreatedAt) {
			last = m
		}
	}
	if last == nil {
		return nil, nil
	}
	cp := *last
	return &cp, nil
}

func (f *fakeMessageStore) CountUnreadFrom(_ context.Context, connectionID, sender primitive.ObjectID) (int64, error) {
	var n int64
	for _, m := range f.msgs {
		if m.ConnectionId == connectionID && m.Sender == sender && !m.Read {
			n++
		}
	}
	return n, nil
}

type fakeCallStore struct {
	calls []*models.Call
}

func (f *fakeCallStore) Insert(_ context.Context, call *models.Call) error {
	cp := *call
	f.calls = append(f.calls, &cp)
	return nil
}

func (f *fakeCallStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.Call, error) {
	for _, c := range f.calls {
		if c.Id == id {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeCallStore) ListByConnection(_ context.Context, connectionID primitive.ObjectID) ([]models.Call, error) {
	var out []models.Call
	for _, c := range f.calls {
		if c.ConnectionId == connectionID {
			out = append(out, *c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeCallStore) SetCallerSignal(_ context.Context, id primitive.ObjectID, payload string, at time.Time) error {
	for _, c := range f.calls {
		if c.Id == id {
			c.CallerSignal = payload
			c.UpdatedAt = at
		}
	}
	return nil
}

func (f *fakeCallStore) SetReceiverSignal(_ context.Context, id primitive.ObjectID, payload string, at time.Time) error {
	for _, c := range f.calls {
		if c.Id == id {
			c.ReceiverSignal = payload
			c.UpdatedAt = at
		}
	}
	return nil
}

func (f *fakeCallStore) Complete(_ context.Context, id primitive.ObjectID, endedAt time.Time, duration int64) (bool, error) {
	for _, c := range f.calls {
		if c.Id == id && (c.Status == models.CallStatusInitiated || c.Status == models.CallStatusOngoing) {
			c.Status = models.CallStatusCompleted
			c.EndedAt = &endedAt
			d := duration
			c.Duration = &d
			c.UpdatedAt = endedAt
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeCallStore) UpdateStatus(_ context.Context, id primitive.ObjectID, from, to models.CallStatus, at time.Time) (bool, error) {
	for _, c := range f.calls {
		if c.Id == id && c.Status == from {
			c.Status = to
			c.UpdatedAt = at
			return true, nil
		}
	}
	return false, nil
}

type fakeUserStore struct {
	users map[primitive.ObjectID]*models.User
}

func newFakeUserStore(users ...*models.User) *fakeUserStore {
	f := &fakeUserStore{users: make(map[primitive.ObjectID]*models.User)}
	for _, u := range users {
		f.users[u.Id] = u
	}
	return f
}

func (f *fakeUserStore) Insert(_ context.Context, user *models.User) error {
	cp := *user
	f.users[user.Id] = &cp
	return nil
}

func (f *fakeUserStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUserStore) UpdateProfile(_ context.Context, id primitive.ObjectID, _ bson.M) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserStore) UpdatePassword(_ context.Context, id primitive.ObjectID, hash string) error {
	if u, ok := f.users[id]; ok {
		u.Password = hash
	}
	return nil
}

type fakeOtpStore struct {
	otps []*models.Otp
}

func (f *fakeOtpStore) Insert(_ context.Context, otp *models.Otp) error {
	cp := *otp
	f.otps = append(f.otps, &cp)
	return nil
}

func (f *fakeOtpStore) FindValid(_ context.Context, email, code string, now time.Time) (*models.Otp, error) {
	for _, o := range f.otps {
		if o.Email == email && o.Code == code && o.ExpiresAt.After(now) {
			cp := *o
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeOtpStore) DeleteByEmail(_ context.Context, email string) error {
	kept := f.otps[:0]
	for _, o := range f.otps {
		if o.Email != email {
			kept = append(kept, o)
		}
	}
	f.otps = kept
	return nil
}

type fakeNotificationStore struct {
	notifications []*models.Notification
}

func (f *fakeNotificationStore) Insert(_ context.Context, n *models.Notification) error {
	cp := *n
	f.notifications = append(f.notifications, &cp)
	return nil
}

func (f *fakeNotificationStore) ListByRecipient(_ context.Context, recipient primitive.ObjectID) ([]models.Notification, error) {
	var out []models.Notification
	for _, n := range f.notifications {
		if n.Recipient == recipient {
			out = append(out, *n)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeNotificationStore) MarkRead(_ context.Context, id, recipient primitive.ObjectID, at time.Time) (bool, error) {
	for _, n := range f.notifications {
		if n.Id == id && n.Recipient == recipient {
			n.Read = true
			n.UpdatedAt = at
			return true, nil
		}
	}
	return false, nil
}

type fakeMailer struct {
	sent []string // recipients
}

func (f *fakeMailer) Send(_ context.Context, to, _, _ string) error {
	f.sent = append(f.sent, to)
	return nil
}

// testUser builds a minimal user record.
func testUser(username string) *models.User {
	return &models.User{
		Id:            primitive.NewObjectID(),
		Username:      username,
		Email:         username + "@example.com",
		PublicProfile: true,
		SkillsOffered: []string{"Go"},
		SkillsWanted:  []string{"React"},
	}
}
