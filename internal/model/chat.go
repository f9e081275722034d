package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AttachmentType distinguishes inline-renderable images from generic files.
type AttachmentType string

const (
	AttachmentImage AttachmentType = "image"
	AttachmentFile  AttachmentType = "file"
)

// Attachment references an uploaded file by its retrievable URL.
type Attachment struct {
	Type AttachmentType `json:"type"`
	URL  string         `json:"url"`
	Name string         `json:"name"`
}

// Chat is a two-party conversation with denormalized summary fields.
// LastMessage and UpdatedAt are maintained by the sender after each send;
// they may be transiently stale relative to the messages table.
type Chat struct {
	ID             uuid.UUID
	ParticipantIDs []uuid.UUID
	LastMessage    string
	UnreadCount    int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Message is append-only from the client's perspective; the read flag is the
// only field mutated after creation.
type Message struct {
	ID          uuid.UUID
	ChatID      uuid.UUID
	SenderID    uuid.UUID
	Content     string
	Attachments []Attachment
	Read        bool
	SentAt      time.Time
}

// ChatStore defines persistence and live-query operations for chats.
// List results are ordered by updated_at, newest first.
type ChatStore interface {
	Create(ctx context.Context, participantIDs []uuid.UUID) (Chat, error)
	GetByID(ctx context.Context, id uuid.UUID) (Chat, error)
	ListByParticipant(ctx context.Context, userID uuid.UUID) ([]Chat, error)
	// TouchOnSend updates the denormalized summary after a message insert:
	// last message preview, updated_at, and the unread counter.
	TouchOnSend(ctx context.Context, chatID uuid.UUID, lastMessage string, at time.Time) error
	ResetUnread(ctx context.Context, chatID uuid.UUID) error
	Subscribe(ctx context.Context, userID uuid.UUID, onChange func()) (Disposer, error)
}

// MessageStore defines persistence and live-query operations for messages in
// a chat. List results are ordered by sent_at, newest first.
type MessageStore interface {
	Create(ctx context.Context, m Message) (Message, error)
	ListByChat(ctx context.Context, chatID uuid.UUID, limit int) ([]Message, error)
	MarkRead(ctx context.Context, chatID uuid.UUID, ids []uuid.UUID) error
	Subscribe(ctx context.Context, chatID uuid.UUID, onChange func()) (Disposer, error)
}
