package services

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	apperrors "github.com/theleywin/Backend-Skill-Swap/pkg/errors"
	"github.com/theleywin/Backend-Skill-Swap/pkg/logger"
	"github.com/theleywin/Backend-Skill-Swap/src/models"
)

// MaxMessageBytes bounds a chat message body.
const MaxMessageBytes = 4096

// ChatService is the append-only message log per accepted connection, with
// read-state tracking.
type ChatService struct {
	connections ConnectionStore
	messages    MessageStore
	users       UserStore
	logger      *logger.Logger
	now         func() time.Time
}

func NewChatService(connections ConnectionStore, messages MessageStore, users UserStore, log *logger.Logger) *ChatService {
	return &ChatService{
		connections: connections,
		messages:    messages,
		users:       users,
		logger:      log,
		now:         time.Now,
	}
}

func (s *ChatService) guard(ctx context.Context, actor, connectionID primitive.ObjectID) (*models.Connection, error) {
	conn, err := s.connections.FindByID(ctx, connectionID)
	if err != nil {
		s.logger.Error("failed to load connection", "err", err)
		return nil, apperrors.Internal("server error")
	}
	if err := GuardConnection(actor, conn); err != nil {
		return nil, err
	}
	return conn, nil
}

// Send appends a message to the connection's log, unread.
func (s *ChatService) Send(ctx context.Context, actor, connectionID primitive.ObjectID, body string) (*models.Message, error) {
	if strings.TrimSpace(body) == "" {
		return nil, apperrors.InvalidArg("message body is required")
	}
	if len(body) > MaxMessageBytes {
		return nil, apperrors.InvalidArg("message body is too long")
	}

	if _, err := s.guard(ctx, actor, connectionID); err != nil {
		return nil, err
	}

	msg := &models.Message{
		Id:           primitive.NewObjectID(),
		ConnectionId: connectionID,
		Sender:       actor,
		Body:         body,
		Read:         false,
		CreatedAt:    s.now(),
	}
	if err := s.messages.Insert(ctx, msg); err != nil {
		s.logger.Error("failed to store message", "err", err)
		return nil, apperrors.Internal("failed to send message")
	}
	return msg, nil
}

// ListAndMarkRead returns the connection's messages oldest first and, as a
// side effect, marks every message not authored by actor as read. The
// returned payload reflects the state before the mark, so the first fetch
// after a send still shows the message unread.
func (s *ChatService) ListAndMarkRead(ctx context.Context, actor, connectionID primitive.ObjectID) ([]models.Message, error) {
	if _, err := s.guard(ctx, actor, connectionID); err != nil {
		return nil, err
	}

	msgs, err := s.messages.ListByConnection(ctx, connectionID)
	if err != nil {
		s.logger.Error("failed to list messages", "err", err)
		return nil, apperrors.Internal("server error")
	}

	if _, err := s.messages.MarkRead(ctx, connectionID, actor); err != nil {
		s.logger.Error("failed to mark messages read", "err", err)
		return nil, apperrors.Internal("server error")
	}

	return msgs, nil
}

type LastMessagePreview struct {
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
	IsMine    bool      `json:"isMine"`
}

type ConversationPreview struct {
	ConnectionId primitive.ObjectID  `json:"connectionId"`
	User         models.PublicUser   `json:"user"`
	LastMessage  *LastMessagePreview `json:"lastMessage"`
	UnreadCount  int64               `json:"unreadCount"`
}

// ListConversations returns, for every accepted connection of the actor, the
// counterpart, the latest message (nil when the thread is empty) and the
// count of unread counterpart messages. Each connection is computed
// independently; no cross-connection transaction is needed.
func (s *ChatService) ListConversations(ctx context.Context, actor primitive.ObjectID) ([]ConversationPreview, error) {
	conns, err := s.connections.ListAcceptedFor(ctx, actor)
	if err != nil {
		s.logger.Error("failed to list connections", "err", err)
		return nil, apperrors.Internal("server error")
	}

	previews := make([]ConversationPreview, 0, len(conns))
	for _, conn := range conns {
		otherID := conn.OtherParty(actor)
		other, err := s.users.FindByID(ctx, otherID)
		if err != nil || other == nil {
			s.logger.Error("failed to resolve conversation party", "user", otherID.Hex(), "err", err)
			continue
		}

		preview := ConversationPreview{
			ConnectionId: conn.Id,
			User:         other.Public(),
		}

		last, err := s.messages.LastMessage(ctx, conn.Id)
		if err != nil {
			s.logger.Error("failed to load last message", "err", err)
			return nil, apperrors.Internal("server error")
		}
		if last != nil {
			preview.LastMessage = &LastMessagePreview{
				Body:      last.Body,
				CreatedAt: last.CreatedAt,
				IsMine:    last.Sender == actor,
			}
		}

		unread, err := s.messages.CountUnreadFrom(ctx, conn.Id, otherID)
		if err != nil {
			s.logger.Error("failed to count unread messages", "err", err)
			return nil, apperrors.Internal("server error")
		}
		preview.UnreadCount = unread

		previews = append(previews, preview)
	}
	return previews, nil
}
