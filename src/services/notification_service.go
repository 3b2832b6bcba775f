package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	apperrors "github.com/theleywin/Backend-Skill-Swap/pkg/errors"
	"github.com/theleywin/Backend-Skill-Swap/pkg/logger"
	"github.com/theleywin/Backend-Skill-Swap/src/models"
)

// NotificationService is the poll-side read of the notification records the
// connection ledger writes.
type NotificationService struct {
	notifications NotificationStore
	users         UserStore
	logger        *logger.Logger
	now           func() time.Time
}

func NewNotificationService(notifications NotificationStore, users UserStore, log *logger.Logger) *NotificationService {
	return &NotificationService{
		notifications: notifications,
		users:         users,
		logger:        log,
		now:           time.Now,
	}
}

type NotificationView struct {
	Id        primitive.ObjectID      `json:"id"`
	Type      models.NotificationType `json:"type"`
	User      models.PublicUser       `json:"user"`
	Read      bool                    `json:"read"`
	CreatedAt time.Time               `json:"createdAt"`
}

// List returns the actor's notifications newest first, with the related user
// resolved to public profile fields.
func (s *NotificationService) List(ctx context.Context, actor primitive.ObjectID) ([]NotificationView, error) {
	notifications, err := s.notifications.ListByRecipient(ctx, actor)
	if err != nil {
		s.logger.Error("failed to list notifications", "err", err)
		return nil, apperrors.Internal("server error")
	}

	views := make([]NotificationView, 0, len(notifications))
	for _, n := range notifications {
		user, err := s.users.FindByID(ctx, n.RelatedUser)
		if err != nil || user == nil {
			s.logger.Error("failed to resolve notification user", "user", n.RelatedUser.Hex(), "err", err)
			continue
		}
		views = append(views, NotificationView{
			Id:        n.Id,
			Type:      n.Type,
			User:      user.Public(),
			Read:      n.Read,
			CreatedAt: n.CreatedAt,
		})
	}
	return views, nil
}

// MarkRead flips one of the actor's notifications to read.
func (s *NotificationService) MarkRead(ctx context.Context, actor, id primitive.ObjectID) error {
	ok, err := s.notifications.MarkRead(ctx, id, actor, s.now())
	if err != nil {
		s.logger.Error("failed to mark notification read", "err", err)
		return apperrors.Internal("server error")
	}
	if !ok {
		return apperrors.NotFound("notification not found")
	}
	return nil
}
