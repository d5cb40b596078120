package service

import (
	"context"
	"fmt"

	"github.com/hostelhub/hostel-api/internal/model"
	"go.uber.org/zap"
)

type NotificationService struct {
	store  NotificationStore
	logger *zap.Logger
}

func NewNotificationService(store NotificationStore, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		store:  store,
		logger: logger,
	}
}

// Notify stores a notification. A failed write is logged and dropped so it
// never undoes the transition that triggered it.
func (s *NotificationService) Notify(ctx context.Context, userID int64, typ model.NotificationType, title, message string) {
	if userID == 0 {
		return
	}

	n := &model.Notification{
		UserID:  userID,
		Type:    typ,
		Title:   title,
		Message: message,
	}

	if err := s.store.Create(ctx, n); err != nil {
		s.logger.Error("Failed to store notification",
			zap.Int64("user_id", userID),
			zap.String("type", string(typ)),
			zap.Error(err),
		)
	}
}

// List returns the caller's notifications, newest first
func (s *NotificationService) List(ctx context.Context, actor model.Actor, unreadOnly bool) ([]*model.Notification, error) {
	if actor.UserID == 0 {
		return nil, errForbidden()
	}

	list, err := s.store.ListByUser(ctx, actor.UserID, unreadOnly, 50)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	if list == nil {
		list = []*model.Notification{}
	}

	return list, nil
}

// MarkRead acknowledges one notification. Acknowledging twice, or a
// notification the caller does not own, changes nothing.
func (s *NotificationService) MarkRead(ctx context.Context, actor model.Actor, id int64) error {
	if actor.UserID == 0 {
		return errForbidden()
	}

	if _, err := s.store.MarkRead(ctx, actor.UserID, id); err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}

	return nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, actor model.Actor) (int64, error) {
	if actor.UserID == 0 {
		return 0, errForbidden()
	}

	n, err := s.store.MarkAllRead(ctx, actor.UserID)
	if err != nil {
		return 0, fmt.Errorf("mark all notifications read: %w", err)
	}

	return n, nil
}

func (s *NotificationService) UnreadCount(ctx context.Context, actor model.Actor) (int, error) {
	if actor.UserID == 0 {
		return 0, errForbidden()
	}

	n, err := s.store.CountUnread(ctx, actor.UserID)
	if err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}

	return n, nil
}
