package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// NotificationType enumerates notification kinds.
type NotificationType string

const (
	NotificationLike    NotificationType = "like"
	NotificationComment NotificationType = "comment"
	NotificationFollow  NotificationType = "follow"
	NotificationBid     NotificationType = "bid"
	NotificationSale    NotificationType = "sale"
	NotificationMessage NotificationType = "message"
	NotificationMention NotificationType = "mention"
	NotificationSystem  NotificationType = "system"
)

// Notification is a per-user event record. Only the read flag is mutated
// after creation.
type Notification struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	Type       NotificationType
	Title      string
	Body       string
	Read       bool
	ActionLink string
	CreatedAt  time.Time
}

// NotificationStore defines persistence and live-query operations for
// notifications. List results are ordered newest first.
type NotificationStore interface {
	Create(ctx context.Context, n Notification) (Notification, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]Notification, error)
	CountUnread(ctx context.Context, userID uuid.UUID) (int, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteAll(ctx context.Context, userID uuid.UUID) error
	// Subscribe invokes onChange whenever the user's notification set
	// changes. The disposer closes the subscription.
	Subscribe(ctx context.Context, userID uuid.UUID, onChange func()) (Disposer, error)
}
