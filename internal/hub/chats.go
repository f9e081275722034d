package hub

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pixelpulse/pixelpulse-core/internal/logger"
	"github.com/pixelpulse/pixelpulse-core/internal/model"
)

// ChatsHub mirrors the signed-in user's chat list, most recently active
// first.
type ChatsHub struct {
	*Hub[uuid.UUID, []model.Chat]
	store model.ChatStore
}

func NewChatsHub(store model.ChatStore, logger *logger.Logger) *ChatsHub {
	return &ChatsHub{
		Hub: New(
			"chats",
			func(ctx context.Context, userID uuid.UUID) ([]model.Chat, error) {
				return store.ListByParticipant(ctx, userID)
			},
			func(ctx context.Context, userID uuid.UUID, onChange func()) (model.Disposer, error) {
				return store.Subscribe(ctx, userID, onChange)
			},
			logger,
		),
		store: store,
	}
}

// CreateChat starts a conversation between the two participants. The mirror
// catches up via the change signal.
func (h *ChatsHub) CreateChat(ctx context.Context, participantIDs []uuid.UUID) (model.Chat, error) {
	chat, err := h.store.Create(ctx, participantIDs)
	if err != nil {
		return model.Chat{}, fmt.Errorf("failed to create chat: %w", err)
	}
	return chat, nil
}

// MarkChatRead zeroes the chat's unread counter, optimistically.
func (h *ChatsHub) MarkChatRead(ctx context.Context, chatID uuid.UUID) error {
	rollback := h.Mutate(func(chats []model.Chat) []model.Chat {
		next := make([]model.Chat, len(chats))
		copy(next, chats)
		for i := range next {
			if next[i].ID == chatID {
				next[i].UnreadCount = 0
			}
		}
		return next
	})

	if err := h.store.ResetUnread(ctx, chatID); err != nil {
		rollback()
		return fmt.Errorf("failed to reset unread counter: %w", err)
	}

	return nil
}
