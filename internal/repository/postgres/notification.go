package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pixelpulse/pixelpulse-core/internal/model"
)

var _ model.NotificationStore = (*NotificationRepository)(nil)

type NotificationRepository struct {
	db       *Connection
	listener *Listener
}

func NewNotificationRepository(db *Connection, listener *Listener) *NotificationRepository {
	return &NotificationRepository{
		db:       db,
		listener: listener,
	}
}

func (r *NotificationRepository) Create(ctx context.Context, n model.Notification) (model.Notification, error) {
	query := `INSERT INTO notifications (id, user_id, type, title, body, read, action_link, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			  RETURNING id, user_id, type, title, body, read, action_link, created_at`

	var saved model.Notification
	err := r.db.QueryRow(ctx, query,
		n.ID, n.UserID, n.Type, n.Title, n.Body, n.Read, n.ActionLink, n.CreatedAt,
	).Scan(
		&saved.ID, &saved.UserID, &saved.Type, &saved.Title, &saved.Body,
		&saved.Read, &saved.ActionLink, &saved.CreatedAt,
	)
	if err != nil {
		return model.Notification{}, fmt.Errorf("failed to create notification: %w", err)
	}

	return saved, nil
}

func (r *NotificationRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]model.Notification, error) {
	query := `SELECT id, user_id, type, title, body, read, action_link, created_at
			  FROM notifications WHERE user_id = $1
			  ORDER BY created_at DESC
			  LIMIT $2`

	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	notifications := make([]model.Notification, 0)
	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Body, &n.Read, &n.ActionLink, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read notifications: %w", err)
	}

	return notifications, nil
}

func (r *NotificationRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	query := `SELECT count(*) FROM notifications WHERE user_id = $1 AND read = false`

	if err := r.db.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}

	return count, nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE notifications SET read = true WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}

	return nil
}

// MarkAllRead updates every unread row for the user in one statement, so the
// batch is atomic at the storage layer.
func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	query := `UPDATE notifications SET read = true WHERE user_id = $1 AND read = false`

	if _, err := r.db.Exec(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to mark all notifications read: %w", err)
	}

	return nil
}

func (r *NotificationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM notifications WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}

	return nil
}

func (r *NotificationRepository) DeleteAll(ctx context.Context, userID uuid.UUID) error {
	query := `DELETE FROM notifications WHERE user_id = $1`

	if _, err := r.db.Exec(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to delete notifications: %w", err)
	}

	return nil
}

func (r *NotificationRepository) Subscribe(ctx context.Context, userID uuid.UUID, onChange func()) (model.Disposer, error) {
	return r.listener.Subscribe(channelNotifications, userID.String(), onChange), nil
}
