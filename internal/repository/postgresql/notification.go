package postgresql

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/marcyannick1/roomly-backend-go/internal/domain/notification"
	"github.com/marcyannick1/roomly-backend-go/internal/pkg/database"
)

type notificationRepositoryImpl struct {
	db *database.DB
}

// NewNotificationRepository creates a new notification repository instance
func NewNotificationRepository(db *database.DB) notification.Repository {
	return &notificationRepositoryImpl{db: db}
}

// Create implements notification.Repository.
func (r *notificationRepositoryImpl) Create(ctx context.Context, n *notification.Notification) error {
	q := GetQuerier(ctx, r.db)

	data, err := json.Marshal(n.Data)
	if err != nil {
		return fmt.Errorf("failed to marshal notification data: %w", err)
	}

	query := `
		INSERT INTO notifications (id, recipient_id, sender_id, type, title, message, data, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, false, $8)
	`

	_, err = q.Exec(ctx, query,
		n.ID, n.RecipientID, n.SenderID, n.Type, n.Title, n.Message, data, n.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	return nil
}

// GetByUserID implements notification.Repository.
func (r *notificationRepositoryImpl) GetByUserID(ctx context.Context, userID string, page, pageSize int, unreadOnly bool) ([]*notification.Notification, int, error) {
	q := GetQuerier(ctx, r.db)

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	filter := ""
	if unreadOnly {
		filter = " AND is_read = false"
	}

	countQuery := `SELECT COUNT(*) FROM notifications WHERE recipient_id = $1` + filter
	var total int
	if err := q.QueryRow(ctx, countQuery, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	query := `
		SELECT id, recipient_id, sender_id, type, title, message, data, is_read, read_at, created_at
		FROM notifications
		WHERE recipient_id = $1` + filter + `
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := q.Query(ctx, query, userID, pageSize, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	var notifications []*notification.Notification
	for rows.Next() {
		var n notification.Notification
		var data []byte

		err := rows.Scan(
			&n.ID, &n.RecipientID, &n.SenderID, &n.Type, &n.Title, &n.Message,
			&data, &n.IsRead, &n.ReadAt, &n.CreatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan notification: %w", err)
		}

		if len(data) > 0 {
			if err := json.Unmarshal(data, &n.Data); err != nil {
				return nil, 0, fmt.Errorf("failed to unmarshal notification data: %w", err)
			}
		}

		notifications = append(notifications, &n)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows iteration error: %w", err)
	}

	return notifications, total, nil
}

// GetUnreadCount implements notification.Repository.
func (r *notificationRepositoryImpl) GetUnreadCount(ctx context.Context, userID string) (int, error) {
	q := GetQuerier(ctx, r.db)

	var count int
	err := q.QueryRow(ctx, `SELECT COUNT(*) FROM notifications WHERE recipient_id = $1 AND is_read = false`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}

	return count, nil
}

// MarkAsRead implements notification.Repository.
func (r *notificationRepositoryImpl) MarkAsRead(ctx context.Context, ids []string, userID string) error {
	if len(ids) == 0 {
		return nil
	}

	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE notifications
		SET is_read = true, read_at = NOW()
		WHERE id = ANY($1) AND recipient_id = $2
	`

	if _, err := q.Exec(ctx, query, ids, userID); err != nil {
		return fmt.Errorf("failed to mark notifications as read: %w", err)
	}

	return nil
}

// MarkAllAsRead implements notification.Repository.
func (r *notificationRepositoryImpl) MarkAllAsRead(ctx context.Context, userID string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE notifications
		SET is_read = true, read_at = NOW()
		WHERE recipient_id = $1 AND is_read = false
	`

	if _, err := q.Exec(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to mark all notifications as read: %w", err)
	}

	return nil
}
