package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	apperrors "github.com/theleywin/Backend-Skill-Swap/pkg/errors"
	"github.com/theleywin/Backend-Skill-Swap/src/models"
)

type chatFixture struct {
	svc   *ChatService
	conn  *models.Connection
	alice *models.User
	bob   *models.User
	carol *models.User
}

func newChatFixture(t *testing.T) *chatFixture {
	t.Helper()

	alice := testUser("alice")
	bob := testUser("bob")
	carol := testUser("carol")

	conn := &models.Connection{
		Id:        primitive.NewObjectID(),
		Sender:    alice.Id,
		Recipient: bob.Id,
		Status:    models.ConnectionStatusAccepted,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	conns := &fakeConnectionStore{conns: []*models.Connection{conn}}

	svc := NewChatService(conns, &fakeMessageStore{}, newFakeUserStore(alice, bob, carol), testLogger())
	return &chatFixture{svc: svc, conn: conn, alice: alice, bob: bob, carol: carol}
}

func TestChatService_Send(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path - message stored unread", func(t *testing.T) {
		f := newChatFixture(t)

		msg, err := f.svc.Send(ctx, f.alice.Id, f.conn.Id, "hi")
		require.NoError(t, err)
		assert.Equal(t, "hi", msg.Body)
		assert.False(t, msg.Read)
		assert.Equal(t, f.alice.Id, msg.Sender)
	})

	t.Run("empty body is invalid input", func(t *testing.T) {
		f := newChatFixture(t)

		for _, body := range []string{"", "   ", "\n\t"} {
			_, err := f.svc.Send(ctx, f.alice.Id, f.conn.Id, body)
			assert.Equal(t, apperrors.CodeInvalidArgument, apperrors.CodeOf(err))
		}
	})

	t.Run("oversized body is invalid input", func(t *testing.T) {
		f := newChatFixture(t)

		_, err := f.svc.Send(ctx, f.alice.Id, f.conn.Id, strings.Repeat("x", MaxMessageBytes+1))
		assert.Equal(t, apperrors.CodeInvalidArgument, apperrors.CodeOf(err))
	})

	t.Run("unrelated actor reads as not found", func(t *testing.T) {
		f := newChatFixture(t)

		_, err := f.svc.Send(ctx, f.carol.Id, f.conn.Id, "hi")
		assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))
	})

	t.Run("pending connection fails precondition", func(t *testing.T) {
		f := newChatFixture(t)
		f.conn.Status = models.ConnectionStatusPending

		_, err := f.svc.Send(ctx, f.alice.Id, f.conn.Id, "hi")
		assert.Equal(t, apperrors.CodeFailedPrecondition, apperrors.CodeOf(err))
	})
}

func TestChatService_ListAndMarkRead(t *testing.T) {
	ctx := context.Background()

	t.Run("first fetch returns unread then flags flip", func(t *testing.T) {
		f := newChatFixture(t)

		_, err := f.svc.Send(ctx, f.alice.Id, f.conn.Id, "hi")
		require.NoError(t, err)

		first, err := f.svc.ListAndMarkRead(ctx, f.bob.Id, f.conn.Id)
		require.NoError(t, err)
		require.Len(t, first, 1)
		assert.False(t, first[0].Read, "payload reflects pre-mark state")

		second, err := f.svc.ListAndMarkRead(ctx, f.bob.Id, f.conn.Id)
		require.NoError(t, err)
		require.Len(t, second, 1)
		assert.True(t, second[0].Read)
	})

	t.Run("sender fetching never flips own message", func(t *testing.T) {
		f := newChatFixture(t)

		_, err := f.svc.Send(ctx, f.alice.Id, f.conn.Id, "hi")
		require.NoError(t, err)

		_, err = f.svc.ListAndMarkRead(ctx, f.alice.Id, f.conn.Id)
		require.NoError(t, err)

		msgs, err := f.svc.ListAndMarkRead(ctx, f.alice.Id, f.conn.Id)
		require.NoError(t, err)
		assert.False(t, msgs[0].Read)
	})

	t.Run("read state never reverts", func(t *testing.T) {
		f := newChatFixture(t)

		_, err := f.svc.Send(ctx, f.alice.Id, f.conn.Id, "hi")
		require.NoError(t, err)
		_, err = f.svc.ListAndMarkRead(ctx, f.bob.Id, f.conn.Id)
		require.NoError(t, err)

		// the original sender listing afterwards still sees read=true
		msgs, err := f.svc.ListAndMarkRead(ctx, f.alice.Id, f.conn.Id)
		require.NoError(t, err)
		assert.True(t, msgs[0].Read)
	})

	t.Run("messages come back oldest first for both parties", func(t *testing.T) {
		f := newChatFixture(t)

		base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		clock := base
		f.svc.now = func() time.Time {
			clock = clock.Add(time.Second)
			return clock
		}

		for _, body := range []string{"one", "two", "three"} {
			_, err := f.svc.Send(ctx, f.alice.Id, f.conn.Id, body)
			require.NoError(t, err)
		}

		for _, actor := range []primitive.ObjectID{f.alice.Id, f.bob.Id} {
			msgs, err := f.svc.ListAndMarkRead(ctx, actor, f.conn.Id)
			require.NoError(t, err)
			require.Len(t, msgs, 3)
			assert.Equal(t, "one", msgs[0].Body)
			assert.Equal(t, "two", msgs[1].Body)
			assert.Equal(t, "three", msgs[2].Body)
		}
	})

	t.Run("unrelated actor reads as not found", func(t *testing.T) {
		f := newChatFixture(t)

		_, err := f.svc.ListAndMarkRead(ctx, f.carol.Id, f.conn.Id)
		assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))
	})
}

func TestChatService_ListConversations(t *testing.T) {
	ctx := context.Background()

	t.Run("previews carry counterpart, last message and unread count", func(t *testing.T) {
		f := newChatFixture(t)

		base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		clock := base
		f.svc.now = func() time.Time {
			clock = clock.Add(time.Second)
			return clock
		}

		_, err := f.svc.Send(ctx, f.alice.Id, f.conn.Id, "first")
		require.NoError(t, err)
		_, err = f.svc.Send(ctx, f.alice.Id, f.conn.Id, "second")
		require.NoError(t, err)

		previews, err := f.svc.ListConversations(ctx, f.bob.Id)
		require.NoError(t, err)
		require.Len(t, previews, 1)

		p := previews[0]
		assert.Equal(t, f.conn.Id, p.ConnectionId)
		assert.Equal(t, f.alice.Username, p.User.Username)
		require.NotNil(t, p.LastMessage)
		assert.Equal(t, "second", p.LastMessage.Body)
		assert.False(t, p.LastMessage.IsMine)
		assert.Equal(t, int64(2), p.UnreadCount)
	})

	t.Run("unread count ignores own messages", func(t *testing.T) {
		f := newChatFixture(t)

		_, err := f.svc.Send(ctx, f.bob.Id, f.conn.Id, "mine")
		require.NoError(t, err)

		previews, err := f.svc.ListConversations(ctx, f.bob.Id)
		require.NoError(t, err)
		require.Len(t, previews, 1)
		assert.Equal(t, int64(0), previews[0].UnreadCount)
		assert.True(t, previews[0].LastMessage.IsMine)
	})

	t.Run("empty thread has nil last message", func(t *testing.T) {
		f := newChatFixture(t)

		previews, err := f.svc.ListConversations(ctx, f.alice.Id)
		require.NoError(t, err)
		require.Len(t, previews, 1)
		assert.Nil(t, previews[0].LastMessage)
	})

	t.Run("actor with no accepted connections gets an empty list", func(t *testing.T) {
		f := newChatFixture(t)

		previews, err := f.svc.ListConversations(ctx, f.carol.Id)
		require.NoError(t, err)
		assert.Empty(t, previews)
	})
}
