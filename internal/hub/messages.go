package hub

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/pixelpulse/pixelpulse-core/internal/logger"
	"github.com/pixelpulse/pixelpulse-core/internal/model"
)

const messagePageSize = 100

// AttachmentUpload is a pending attachment for an outgoing message.
type AttachmentUpload struct {
	Type        model.AttachmentType
	Name        string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// MessagesHub mirrors one chat's message history, newest first. One hub per
// open chat; the manager keeps the registry.
type MessagesHub struct {
	*Hub[uuid.UUID, []model.Message]
	messages model.MessageStore
	chats    model.ChatStore
	files    model.FileStore
	logger   *logger.Logger
}

func NewMessagesHub(
	messages model.MessageStore,
	chats model.ChatStore,
	files model.FileStore,
	logger *logger.Logger,
) *MessagesHub {
	return &MessagesHub{
		Hub: New(
			"messages",
			func(ctx context.Context, chatID uuid.UUID) ([]model.Message, error) {
				return messages.ListByChat(ctx, chatID, messagePageSize)
			},
			func(ctx context.Context, chatID uuid.UUID, onChange func()) (model.Disposer, error) {
				return messages.Subscribe(ctx, chatID, onChange)
			},
			logger,
		),
		messages: messages,
		chats:    chats,
		files:    files,
		logger:   logger,
	}
}

// Send uploads any attachments, inserts the message, then updates the chat's
// denormalized summary. Attachment uploads are all-or-nothing: a failed
// upload removes the ones that already succeeded and the message is never
// inserted. A failed summary update is logged but does not fail the send;
// the message itself is already persisted.
func (h *MessagesHub) Send(ctx context.Context, senderID uuid.UUID, content string, uploads []AttachmentUpload) (model.Message, error) {
	chatID := h.Key()
	if chatID == uuid.Nil {
		return model.Message{}, fmt.Errorf("messages hub is not open")
	}

	attachments, cleanup, err := h.uploadAll(ctx, chatID, uploads)
	if err != nil {
		return model.Message{}, err
	}

	now := time.Now()
	msg, err := h.messages.Create(ctx, model.Message{
		ID:          uuid.New(),
		ChatID:      chatID,
		SenderID:    senderID,
		Content:     content,
		Attachments: attachments,
		SentAt:      now,
	})
	if err != nil {
		cleanup(ctx)
		return model.Message{}, fmt.Errorf("failed to send message: %w", err)
	}

	if err := h.chats.TouchOnSend(ctx, chatID, preview(msg), now); err != nil {
		h.logger.Warn("Messages hub: failed to update chat summary", "chat_id", chatID, "error", err.Error())
	}

	return msg, nil
}

// MarkRead flags the given messages as read, optimistically.
func (h *MessagesHub) MarkRead(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}

	chatID := h.Key()

	marked := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		marked[id] = true
	}

	rollback := h.Mutate(func(msgs []model.Message) []model.Message {
		next := make([]model.Message, len(msgs))
		copy(next, msgs)
		for i := range next {
			if marked[next[i].ID] {
				next[i].Read = true
			}
		}
		return next
	})

	if err := h.messages.MarkRead(ctx, chatID, ids); err != nil {
		rollback()
		return fmt.Errorf("failed to mark messages read: %w", err)
	}

	return nil
}

func (h *MessagesHub) uploadAll(ctx context.Context, chatID uuid.UUID, uploads []AttachmentUpload) ([]model.Attachment, func(context.Context), error) {
	if len(uploads) == 0 {
		return nil, func(context.Context) {}, nil
	}

	attachments := make([]model.Attachment, 0, len(uploads))
	keys := make([]string, 0, len(uploads))

	cleanup := func(ctx context.Context) {
		for _, key := range keys {
			if err := h.files.Delete(ctx, key); err != nil {
				h.logger.Warn("Messages hub: failed to remove uploaded attachment", "key", key, "error", err.Error())
			}
		}
	}

	for _, u := range uploads {
		key := fmt.Sprintf("chats/%s/%s-%s", chatID, uuid.New(), u.Name)
		url, err := h.files.Upload(ctx, key, u.Reader, u.Size, u.ContentType)
		if err != nil {
			cleanup(ctx)
			return nil, nil, fmt.Errorf("failed to upload attachment %q: %w", u.Name, err)
		}
		keys = append(keys, key)
		attachments = append(attachments, model.Attachment{
			Type: u.Type,
			URL:  url,
			Name: u.Name,
		})
	}

	return attachments, cleanup, nil
}

const previewLimit = 120

func preview(m model.Message) string {
	if m.Content != "" {
		// Truncate on rune boundaries so a multi-byte character is never split.
		if r := []rune(m.Content); len(r) > previewLimit {
			return string(r[:previewLimit])
		}
		return m.Content
	}
	if len(m.Attachments) > 0 {
		return fmt.Sprintf("sent %s", m.Attachments[0].Name)
	}
	return ""
}
