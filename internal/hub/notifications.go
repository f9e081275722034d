package hub

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pixelpulse/pixelpulse-core/internal/logger"
	"github.com/pixelpulse/pixelpulse-core/internal/model"
)

const notificationPageSize = 50

// NotificationsHub mirrors the signed-in user's notification list, newest
// first. Read-state changes are applied optimistically and rolled back if
// the backend write fails; deletions wait for the backend.
type NotificationsHub struct {
	*Hub[uuid.UUID, []model.Notification]
	store model.NotificationStore
}

func NewNotificationsHub(store model.NotificationStore, logger *logger.Logger) *NotificationsHub {
	return &NotificationsHub{
		Hub: New(
			"notifications",
			func(ctx context.Context, userID uuid.UUID) ([]model.Notification, error) {
				return store.ListByUser(ctx, userID, notificationPageSize)
			},
			func(ctx context.Context, userID uuid.UUID, onChange func()) (model.Disposer, error) {
				return store.Subscribe(ctx, userID, onChange)
			},
			logger,
		),
		store: store,
	}
}

// MarkRead flips one notification to read, optimistically.
func (h *NotificationsHub) MarkRead(ctx context.Context, id uuid.UUID) error {
	rollback := h.Mutate(func(items []model.Notification) []model.Notification {
		next := make([]model.Notification, len(items))
		copy(next, items)
		for i := range next {
			if next[i].ID == id {
				next[i].Read = true
			}
		}
		return next
	})

	if err := h.store.MarkRead(ctx, id); err != nil {
		rollback()
		return fmt.Errorf("failed to mark notification read: %w", err)
	}

	return nil
}

// MarkAllRead flips every mirrored notification to read, optimistically.
func (h *NotificationsHub) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	rollback := h.Mutate(func(items []model.Notification) []model.Notification {
		next := make([]model.Notification, len(items))
		copy(next, items)
		for i := range next {
			next[i].Read = true
		}
		return next
	})

	if err := h.store.MarkAllRead(ctx, userID); err != nil {
		rollback()
		return fmt.Errorf("failed to mark all notifications read: %w", err)
	}

	return nil
}

// Delete removes one notification. The mirror catches up via the change
// signal; no optimistic removal.
func (h *NotificationsHub) Delete(ctx context.Context, id uuid.UUID) error {
	if err := h.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
	}
	return nil
}

// DeleteAll clears the user's notifications.
func (h *NotificationsHub) DeleteAll(ctx context.Context, userID uuid.UUID) error {
	if err := h.store.DeleteAll(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete notifications: %w", err)
	}
	return nil
}
