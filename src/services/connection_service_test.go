package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	apperrors "github.com/theleywin/Backend-Skill-Swap/pkg/errors"
	"github.com/theleywin/Backend-Skill-Swap/src/models"
)

func newConnectionService(conns *fakeConnectionStore, users *fakeUserStore, notifications *fakeNotificationStore) *ConnectionService {
	return NewConnectionService(conns, users, notifications, testLogger())
}

func TestConnectionService_Request(t *testing.T) {
	ctx := context.Background()
	alice := testUser("alice")
	bob := testUser("bob")

	t.Run("happy path - creates pending request", func(t *testing.T) {
		conns := &fakeConnectionStore{}
		notifications := &fakeNotificationStore{}
		svc := newConnectionService(conns, newFakeUserStore(alice, bob), notifications)

		conn, err := svc.Request(ctx, alice.Id, bob.Id, "let's swap React for Go")
		require.NoError(t, err)

		assert.Equal(t, models.ConnectionStatusPending, conn.Status)
		assert.Equal(t, alice.Id, conn.Sender)
		assert.Equal(t, bob.Id, conn.Recipient)
		assert.Equal(t, "let's swap React for Go", conn.Message)
		require.Len(t, notifications.notifications, 1)
		assert.Equal(t, bob.Id, notifications.notifications[0].Recipient)
	})

	t.Run("self request is rejected", func(t *testing.T) {
		svc := newConnectionService(&fakeConnectionStore{}, newFakeUserStore(alice), &fakeNotificationStore{})

		_, err := svc.Request(ctx, alice.Id, alice.Id, "")
		assert.Equal(t, apperrors.CodeInvalidArgument, apperrors.CodeOf(err))
	})

	t.Run("unknown counterpart is not found", func(t *testing.T) {
		svc := newConnectionService(&fakeConnectionStore{}, newFakeUserStore(alice), &fakeNotificationStore{})

		_, err := svc.Request(ctx, alice.Id, primitive.NewObjectID(), "")
		assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))
	})

	t.Run("duplicate active pair is rejected in both directions", func(t *testing.T) {
		conns := &fakeConnectionStore{}
		svc := newConnectionService(conns, newFakeUserStore(alice, bob), &fakeNotificationStore{})

		_, err := svc.Request(ctx, alice.Id, bob.Id, "")
		require.NoError(t, err)

		_, err = svc.Request(ctx, alice.Id, bob.Id, "")
		assert.Equal(t, apperrors.CodeInvalidState, apperrors.CodeOf(err))

		_, err = svc.Request(ctx, bob.Id, alice.Id, "")
		assert.Equal(t, apperrors.CodeInvalidState, apperrors.CodeOf(err))
	})

	t.Run("rejected pair can be requested again", func(t *testing.T) {
		conns := &fakeConnectionStore{}
		svc := newConnectionService(conns, newFakeUserStore(alice, bob), &fakeNotificationStore{})

		first, err := svc.Request(ctx, alice.Id, bob.Id, "")
		require.NoError(t, err)
		_, err = svc.Respond(ctx, bob.Id, first.Id, DecisionReject)
		require.NoError(t, err)

		_, err = svc.Request(ctx, alice.Id, bob.Id, "second try")
		assert.NoError(t, err)
	})
}

func TestConnectionService_Respond(t *testing.T) {
	ctx := context.Background()
	alice := testUser("alice")
	bob := testUser("bob")
	carol := testUser("carol")

	setup := func(t *testing.T) (*ConnectionService, *models.Connection, *fakeNotificationStore) {
		conns := &fakeConnectionStore{}
		notifications := &fakeNotificationStore{}
		svc := newConnectionService(conns, newFakeUserStore(alice, bob, carol), notifications)
		conn, err := svc.Request(ctx, alice.Id, bob.Id, "hi")
		require.NoError(t, err)
		return svc, conn, notifications
	}

	t.Run("happy path - recipient accepts", func(t *testing.T) {
		svc, conn, notifications := setup(t)

		updated, err := svc.Respond(ctx, bob.Id, conn.Id, DecisionAccept)
		require.NoError(t, err)
		assert.Equal(t, models.ConnectionStatusAccepted, updated.Status)

		// request + accepted notifications
		assert.Len(t, notifications.notifications, 2)
	})

	t.Run("recipient rejects and the record is retained", func(t *testing.T) {
		svc, conn, _ := setup(t)

		updated, err := svc.Respond(ctx, bob.Id, conn.Id, DecisionReject)
		require.NoError(t, err)
		assert.Equal(t, models.ConnectionStatusRejected, updated.Status)

		detail, err := svc.Detail(ctx, alice.Id, bob.Id)
		require.NoError(t, err)
		assert.Equal(t, "rejected", detail.Status)
	})

	t.Run("initiator cannot respond to own request", func(t *testing.T) {
		svc, conn, _ := setup(t)

		_, err := svc.Respond(ctx, alice.Id, conn.Id, DecisionAccept)
		assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))
	})

	t.Run("unrelated actor reads as not found", func(t *testing.T) {
		svc, conn, _ := setup(t)

		_, err := svc.Respond(ctx, carol.Id, conn.Id, DecisionAccept)
		assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))
	})

	t.Run("second response fails with invalid state and leaves status unchanged", func(t *testing.T) {
		svc, conn, _ := setup(t)

		_, err := svc.Respond(ctx, bob.Id, conn.Id, DecisionAccept)
		require.NoError(t, err)

		_, err = svc.Respond(ctx, bob.Id, conn.Id, DecisionReject)
		assert.Equal(t, apperrors.CodeInvalidState, apperrors.CodeOf(err))

		detail, err := svc.Detail(ctx, alice.Id, bob.Id)
		require.NoError(t, err)
		assert.Equal(t, "accepted", detail.Status)
	})

	t.Run("unknown decision is invalid input", func(t *testing.T) {
		svc, conn, _ := setup(t)

		_, err := svc.Respond(ctx, bob.Id, conn.Id, Decision("maybe"))
		assert.Equal(t, apperrors.CodeInvalidArgument, apperrors.CodeOf(err))
	})
}

func TestConnectionService_Detail(t *testing.T) {
	ctx := context.Background()
	alice := testUser("alice")
	bob := testUser("bob")

	t.Run("no connection suggests sending a request", func(t *testing.T) {
		svc := newConnectionService(&fakeConnectionStore{}, newFakeUserStore(alice, bob), &fakeNotificationStore{})

		detail, err := svc.Detail(ctx, alice.Id, bob.Id)
		require.NoError(t, err)
		assert.Equal(t, "none", detail.Status)
		assert.Equal(t, "send-request", detail.SuggestedAction)
		assert.Nil(t, detail.ConnectionId)
	})

	t.Run("pending pair maps per role", func(t *testing.T) {
		svc := newConnectionService(&fakeConnectionStore{}, newFakeUserStore(alice, bob), &fakeNotificationStore{})
		_, err := svc.Request(ctx, alice.Id, bob.Id, "")
		require.NoError(t, err)

		fromInitiator, err := svc.Detail(ctx, alice.Id, bob.Id)
		require.NoError(t, err)
		assert.Equal(t, "initiator", fromInitiator.Relation)
		assert.Equal(t, "requested", fromInitiator.SuggestedAction)

		fromCounterpart, err := svc.Detail(ctx, bob.Id, alice.Id)
		require.NoError(t, err)
		assert.Equal(t, "counterpart", fromCounterpart.Relation)
		assert.Equal(t, "respond", fromCounterpart.SuggestedAction)
	})

	t.Run("accepted pair suggests accepted", func(t *testing.T) {
		svc := newConnectionService(&fakeConnectionStore{}, newFakeUserStore(alice, bob), &fakeNotificationStore{})
		conn, err := svc.Request(ctx, alice.Id, bob.Id, "")
		require.NoError(t, err)
		_, err = svc.Respond(ctx, bob.Id, conn.Id, DecisionAccept)
		require.NoError(t, err)

		detail, err := svc.Detail(ctx, bob.Id, alice.Id)
		require.NoError(t, err)
		assert.Equal(t, "accepted", detail.SuggestedAction)
		require.NotNil(t, detail.ConnectionId)
		assert.Equal(t, conn.Id, *detail.ConnectionId)
	})

	t.Run("self lookup is invalid input", func(t *testing.T) {
		svc := newConnectionService(&fakeConnectionStore{}, newFakeUserStore(alice), &fakeNotificationStore{})

		_, err := svc.Detail(ctx, alice.Id, alice.Id)
		assert.Equal(t, apperrors.CodeInvalidArgument, apperrors.CodeOf(err))
	})
}

func TestConnectionService_Lists(t *testing.T) {
	ctx := context.Background()
	alice := testUser("alice")
	bob := testUser("bob")
	carol := testUser("carol")

	conns := &fakeConnectionStore{}
	svc := newConnectionService(conns, newFakeUserStore(alice, bob, carol), &fakeNotificationStore{})

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := base
	svc.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}

	_, err := svc.Request(ctx, alice.Id, bob.Id, "older")
	require.NoError(t, err)
	_, err = svc.Request(ctx, alice.Id, carol.Id, "newer")
	require.NoError(t, err)
	_, err = svc.Request(ctx, carol.Id, bob.Id, "for bob")
	require.NoError(t, err)

	t.Run("sent lists the actor's outgoing requests newest first", func(t *testing.T) {
		sent, err := svc.ListSent(ctx, alice.Id)
		require.NoError(t, err)
		require.Len(t, sent, 2)
		assert.Equal(t, "newer", sent[0].Message)
		assert.Equal(t, carol.Username, sent[0].User.Username)
		assert.Equal(t, "older", sent[1].Message)
	})

	t.Run("received lists the actor's incoming requests", func(t *testing.T) {
		received, err := svc.ListReceived(ctx, bob.Id)
		require.NoError(t, err)
		require.Len(t, received, 2)
		assert.Equal(t, carol.Username, received[0].User.Username)
		assert.Equal(t, alice.Username, received[1].User.Username)
	})

	t.Run("uninvolved actor sees nothing", func(t *testing.T) {
		sent, err := svc.ListSent(ctx, bob.Id)
		require.NoError(t, err)
		assert.Empty(t, sent)
	})
}
