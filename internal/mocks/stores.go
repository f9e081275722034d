// Package mocks holds testify mocks for the model interfaces.
package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/pixelpulse/pixelpulse-core/internal/model"
)

type UserStore struct {
	mock.Mock
}

func (m *UserStore) Create(ctx context.Context, user model.User) (model.User, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserStore) GetByEmail(ctx context.Context, email string) (model.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserStore) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserStore) SoftDelete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type ProfileStore struct {
	mock.Mock
}

func (m *ProfileStore) Create(ctx context.Context, profile model.Profile) (model.Profile, error) {
	args := m.Called(ctx, profile)
	return args.Get(0).(model.Profile), args.Error(1)
}

func (m *ProfileStore) GetByUserID(ctx context.Context, userID uuid.UUID) (model.Profile, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(model.Profile), args.Error(1)
}

func (m *ProfileStore) GetByUsername(ctx context.Context, username string) (model.Profile, error) {
	args := m.Called(ctx, username)
	return args.Get(0).(model.Profile), args.Error(1)
}

func (m *ProfileStore) Update(ctx context.Context, userID uuid.UUID, patch model.ProfileUpdate) (model.Profile, error) {
	args := m.Called(ctx, userID, patch)
	return args.Get(0).(model.Profile), args.Error(1)
}

type NotificationStore struct {
	mock.Mock
}

func (m *NotificationStore) Create(ctx context.Context, n model.Notification) (model.Notification, error) {
	args := m.Called(ctx, n)
	return args.Get(0).(model.Notification), args.Error(1)
}

func (m *NotificationStore) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]model.Notification, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Notification), args.Error(1)
}

func (m *NotificationStore) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *NotificationStore) MarkRead(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *NotificationStore) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *NotificationStore) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *NotificationStore) DeleteAll(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *NotificationStore) Subscribe(ctx context.Context, userID uuid.UUID, onChange func()) (model.Disposer, error) {
	args := m.Called(ctx, userID, onChange)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(model.Disposer), args.Error(1)
}

type ChatStore struct {
	mock.Mock
}

func (m *ChatStore) Create(ctx context.Context, participantIDs []uuid.UUID) (model.Chat, error) {
	args := m.Called(ctx, participantIDs)
	return args.Get(0).(model.Chat), args.Error(1)
}

func (m *ChatStore) GetByID(ctx context.Context, id uuid.UUID) (model.Chat, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Chat), args.Error(1)
}

func (m *ChatStore) ListByParticipant(ctx context.Context, userID uuid.UUID) ([]model.Chat, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Chat), args.Error(1)
}

func (m *ChatStore) TouchOnSend(ctx context.Context, chatID uuid.UUID, lastMessage string, at time.Time) error {
	args := m.Called(ctx, chatID, lastMessage, at)
	return args.Error(0)
}

func (m *ChatStore) ResetUnread(ctx context.Context, chatID uuid.UUID) error {
	args := m.Called(ctx, chatID)
	return args.Error(0)
}

func (m *ChatStore) Subscribe(ctx context.Context, userID uuid.UUID, onChange func()) (model.Disposer, error) {
	args := m.Called(ctx, userID, onChange)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(model.Disposer), args.Error(1)
}

type MessageStore struct {
	mock.Mock
}

func (m *MessageStore) Create(ctx context.Context, msg model.Message) (model.Message, error) {
	args := m.Called(ctx, msg)
	return args.Get(0).(model.Message), args.Error(1)
}

func (m *MessageStore) ListByChat(ctx context.Context, chatID uuid.UUID, limit int) ([]model.Message, error) {
	args := m.Called(ctx, chatID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Message), args.Error(1)
}

func (m *MessageStore) MarkRead(ctx context.Context, chatID uuid.UUID, ids []uuid.UUID) error {
	args := m.Called(ctx, chatID, ids)
	return args.Error(0)
}

func (m *MessageStore) Subscribe(ctx context.Context, chatID uuid.UUID, onChange func()) (model.Disposer, error) {
	args := m.Called(ctx, chatID, onChange)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(model.Disposer), args.Error(1)
}

type ArtworkStore struct {
	mock.Mock
}

func (m *ArtworkStore) Create(ctx context.Context, a model.Artwork) (model.Artwork, error) {
	args := m.Called(ctx, a)
	return args.Get(0).(model.Artwork), args.Error(1)
}

func (m *ArtworkStore) ListRecent(ctx context.Context, limit int) ([]model.Artwork, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Artwork), args.Error(1)
}

func (m *ArtworkStore) Like(ctx context.Context, artworkID, userID uuid.UUID) error {
	args := m.Called(ctx, artworkID, userID)
	return args.Error(0)
}

func (m *ArtworkStore) Unlike(ctx context.Context, artworkID, userID uuid.UUID) error {
	args := m.Called(ctx, artworkID, userID)
	return args.Error(0)
}

func (m *ArtworkStore) Subscribe(ctx context.Context, onChange func()) (model.Disposer, error) {
	args := m.Called(ctx, onChange)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(model.Disposer), args.Error(1)
}

type RefreshTokenStore struct {
	mock.Mock
}

func (m *RefreshTokenStore) Create(ctx context.Context, token model.RefreshToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *RefreshTokenStore) GetByJTI(ctx context.Context, jti string) (model.RefreshToken, error) {
	args := m.Called(ctx, jti)
	return args.Get(0).(model.RefreshToken), args.Error(1)
}

func (m *RefreshTokenStore) RevokeByJTI(ctx context.Context, jti string) error {
	args := m.Called(ctx, jti)
	return args.Error(0)
}

func (m *RefreshTokenStore) RevokeAllByUser(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}
