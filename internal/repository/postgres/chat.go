package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/pixelpulse/pixelpulse-core/internal/model"
)

var _ model.ChatStore = (*ChatRepository)(nil)

type ChatRepository struct {
	db       *Connection
	listener *Listener
}

func NewChatRepository(db *Connection, listener *Listener) *ChatRepository {
	return &ChatRepository{
		db:       db,
		listener: listener,
	}
}

const chatColumns = `id, participant_ids, last_message, unread_count, created_at, updated_at`

func (r *ChatRepository) Create(ctx context.Context, participantIDs []uuid.UUID) (model.Chat, error) {
	if len(participantIDs) != 2 {
		return model.Chat{}, fmt.Errorf("chat requires exactly two participants, got %d", len(participantIDs))
	}

	query := `INSERT INTO chats (id, participant_ids, created_at, updated_at)
			  VALUES ($1, $2, now(), now())
			  RETURNING ` + chatColumns

	var chat model.Chat
	err := r.db.QueryRow(ctx, query, uuid.New(), participantIDs).Scan(
		&chat.ID, &chat.ParticipantIDs, &chat.LastMessage, &chat.UnreadCount,
		&chat.CreatedAt, &chat.UpdatedAt,
	)
	if err != nil {
		return model.Chat{}, fmt.Errorf("failed to create chat: %w", err)
	}

	return chat, nil
}

func (r *ChatRepository) GetByID(ctx context.Context, id uuid.UUID) (model.Chat, error) {
	query := `SELECT ` + chatColumns + ` FROM chats WHERE id = $1`

	var chat model.Chat
	err := r.db.QueryRow(ctx, query, id).Scan(
		&chat.ID, &chat.ParticipantIDs, &chat.LastMessage, &chat.UnreadCount,
		&chat.CreatedAt, &chat.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Chat{}, model.ErrNotFound
		}
		return model.Chat{}, fmt.Errorf("failed to get chat by id: %w", err)
	}

	return chat, nil
}

func (r *ChatRepository) ListByParticipant(ctx context.Context, userID uuid.UUID) ([]model.Chat, error) {
	query := `SELECT ` + chatColumns + ` FROM chats
			  WHERE $1 = ANY(participant_ids)
			  ORDER BY updated_at DESC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list chats: %w", err)
	}
	defer rows.Close()

	chats := make([]model.Chat, 0)
	for rows.Next() {
		var chat model.Chat
		if err := rows.Scan(&chat.ID, &chat.ParticipantIDs, &chat.LastMessage, &chat.UnreadCount, &chat.CreatedAt, &chat.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan chat: %w", err)
		}
		chats = append(chats, chat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read chats: %w", err)
	}

	return chats, nil
}

func (r *ChatRepository) TouchOnSend(ctx context.Context, chatID uuid.UUID, lastMessage string, at time.Time) error {
	query := `UPDATE chats
			  SET last_message = $2, updated_at = $3, unread_count = unread_count + 1
			  WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, chatID, lastMessage, at)
	if err != nil {
		return fmt.Errorf("failed to update chat summary: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}

	return nil
}

func (r *ChatRepository) ResetUnread(ctx context.Context, chatID uuid.UUID) error {
	query := `UPDATE chats SET unread_count = 0 WHERE id = $1`

	if _, err := r.db.Exec(ctx, query, chatID); err != nil {
		return fmt.Errorf("failed to reset unread count: %w", err)
	}

	return nil
}

func (r *ChatRepository) Subscribe(ctx context.Context, userID uuid.UUID, onChange func()) (model.Disposer, error) {
	return r.listener.Subscribe(channelChats, userID.String(), onChange), nil
}
