package repository

import (
	"context"
	"database/sql"

	"github.com/taskmanager/taskmanager-go/internal/model"
)

// NotificationRepository handles notification persistence operations.
type NotificationRepository struct {
	db *sql.DB
}

// NewNotificationRepository creates a new NotificationRepository.
func NewNotificationRepository(db *sql.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create inserts a notification and sets its generated ID.
func (r *NotificationRepository) Create(ctx context.Context, n *model.Notification) error {
	result, err := r.db.ExecContext(ctx, `INSERT INTO notifications (message) VALUES (?)`, n.Message)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}

	n.ID = id
	return nil
}

// ListUnread returns unread notifications, newest first.
func (r *NotificationRepository) ListUnread(ctx context.Context) ([]model.Notification, error) {
	query := `SELECT id, message, is_read, created_at FROM notifications
		WHERE is_read = FALSE ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []model.Notification
	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(&n.ID, &n.Message, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}

	return notifications, rows.Err()
}

// MarkAllRead flags every unread notification as read and returns how many changed.
func (r *NotificationRepository) MarkAllRead(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `UPDATE notifications SET is_read = TRUE WHERE is_read = FALSE`)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
