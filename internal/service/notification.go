package service

import (
	"context"
	"log/slog"

	"github.com/taskmanager/taskmanager-go/internal/model"
)

// NotificationStore persists notifications.
type NotificationStore interface {
	Create(ctx context.Context, n *model.Notification) error
	ListUnread(ctx context.Context) ([]model.Notification, error)
	MarkAllRead(ctx context.Context) (int64, error)
}

// NotificationService is the façade over the notification list.
type NotificationService struct {
	store NotificationStore
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(store NotificationStore) *NotificationService {
	return &NotificationService{store: store}
}

// Unread returns unread notifications, newest first.
func (s *NotificationService) Unread(ctx context.Context) ([]model.Notification, error) {
	list, err := s.store.ListUnread(ctx)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []model.Notification{}
	}
	return list, nil
}

// MarkAllRead flags every notification as read.
func (s *NotificationService) MarkAllRead(ctx context.Context) error {
	n, err := s.store.MarkAllRead(ctx)
	if err != nil {
		return err
	}
	slog.DebugContext(ctx, "notifications marked read", "count", n)
	return nil
}
