package notification

import (
	"context"
)

// Service defines the notification dispatcher interface. Queueing is
// fire-and-forget: callers never block on persistence or delivery.
type Service interface {
	// Queue notification (async processing via background worker)
	QueueNotification(ctx context.Context, req CreateNotificationRequest) error

	// Direct operations
	GetNotifications(ctx context.Context, userID string, page, pageSize int, unreadOnly bool) (*NotificationListResponse, error)
	GetUnreadCount(ctx context.Context, userID string) (int, error)
	MarkAsRead(ctx context.Context, userID string, req MarkAsReadRequest) error
	MarkAllAsRead(ctx context.Context, userID string) error

	// Lifecycle
	Stop()
}
