package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/pixelpulse/pixelpulse-core/internal/model"
)

var _ model.MessageStore = (*MessageRepository)(nil)

type MessageRepository struct {
	db       *Connection
	listener *Listener
}

func NewMessageRepository(db *Connection, listener *Listener) *MessageRepository {
	return &MessageRepository{
		db:       db,
		listener: listener,
	}
}

func (r *MessageRepository) Create(ctx context.Context, m model.Message) (model.Message, error) {
	attachments, err := json.Marshal(m.Attachments)
	if err != nil {
		return model.Message{}, fmt.Errorf("failed to marshal attachments: %w", err)
	}

	query := `INSERT INTO messages (id, chat_id, sender_id, content, attachments, read, sent_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING id, chat_id, sender_id, content, attachments, read, sent_at`

	var saved model.Message
	var savedAttachments []byte
	err = r.db.QueryRow(ctx, query,
		m.ID, m.ChatID, m.SenderID, m.Content, attachments, m.Read, m.SentAt,
	).Scan(
		&saved.ID, &saved.ChatID, &saved.SenderID, &saved.Content,
		&savedAttachments, &saved.Read, &saved.SentAt,
	)
	if err != nil {
		return model.Message{}, fmt.Errorf("failed to create message: %w", err)
	}
	if err := json.Unmarshal(savedAttachments, &saved.Attachments); err != nil {
		return model.Message{}, fmt.Errorf("failed to unmarshal attachments: %w", err)
	}

	return saved, nil
}

func (r *MessageRepository) ListByChat(ctx context.Context, chatID uuid.UUID, limit int) ([]model.Message, error) {
	query := `SELECT id, chat_id, sender_id, content, attachments, read, sent_at
			  FROM messages WHERE chat_id = $1
			  ORDER BY sent_at DESC
			  LIMIT $2`

	rows, err := r.db.Query(ctx, query, chatID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	messages := make([]model.Message, 0)
	for rows.Next() {
		var m model.Message
		var attachments []byte
		if err := rows.Scan(&m.ID, &m.ChatID, &m.SenderID, &m.Content, &attachments, &m.Read, &m.SentAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		if err := json.Unmarshal(attachments, &m.Attachments); err != nil {
			return nil, fmt.Errorf("failed to unmarshal attachments: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read messages: %w", err)
	}

	return messages, nil
}

func (r *MessageRepository) MarkRead(ctx context.Context, chatID uuid.UUID, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}

	query := `UPDATE messages SET read = true WHERE chat_id = $1 AND id = ANY($2)`

	if _, err := r.db.Exec(ctx, query, chatID, ids); err != nil {
		return fmt.Errorf("failed to mark messages read: %w", err)
	}

	return nil
}

func (r *MessageRepository) Subscribe(ctx context.Context, chatID uuid.UUID, onChange func()) (model.Disposer, error) {
	return r.listener.Subscribe(channelMessages, chatID.String(), onChange), nil
}
