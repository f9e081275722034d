package hub

import (
	"context"

	"github.com/google/uuid"

	"github.com/pixelpulse/pixelpulse-core/internal/logger"
	"github.com/pixelpulse/pixelpulse-core/internal/model"
)

// UnreadHub mirrors the signed-in user's unread notification count. It
// shares the notification change channel with NotificationsHub, so both
// refetch on the same signal.
type UnreadHub struct {
	*Hub[uuid.UUID, int]
}

func NewUnreadHub(store model.NotificationStore, logger *logger.Logger) *UnreadHub {
	return &UnreadHub{
		Hub: New(
			"unread-count",
			func(ctx context.Context, userID uuid.UUID) (int, error) {
				return store.CountUnread(ctx, userID)
			},
			func(ctx context.Context, userID uuid.UUID, onChange func()) (model.Disposer, error) {
				return store.Subscribe(ctx, userID, onChange)
			},
			logger,
		),
	}
}
