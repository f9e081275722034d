package hub

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/pixelpulse/pixelpulse-core/internal/logger"
	"github.com/pixelpulse/pixelpulse-core/internal/model"
	"github.com/pixelpulse/pixelpulse-core/internal/session"
)

// Manager ties hub lifecycles to session transitions. On sign-in it opens
// the per-user hubs keyed by the new user; on sign-out it closes every hub,
// including all per-chat message hubs, so nothing keeps streaming another
// user's data. A user switch is a close followed by an open.
type Manager struct {
	sessions      *session.Store
	notifications *NotificationsHub
	unread        *UnreadHub
	chats         *ChatsHub
	artworks      *ArtworksHub

	messageStore model.MessageStore
	chatStore    model.ChatStore
	files        model.FileStore
	logger       *logger.Logger

	mu          sync.Mutex
	ctx         context.Context
	userID      uuid.UUID
	messageHubs map[uuid.UUID]*MessagesHub
	dispose     model.Disposer
}

func NewManager(
	sessions *session.Store,
	notifications *NotificationsHub,
	unread *UnreadHub,
	chats *ChatsHub,
	artworks *ArtworksHub,
	messageStore model.MessageStore,
	chatStore model.ChatStore,
	files model.FileStore,
	logger *logger.Logger,
) *Manager {
	return &Manager{
		sessions:      sessions,
		notifications: notifications,
		unread:        unread,
		chats:         chats,
		artworks:      artworks,
		messageStore:  messageStore,
		chatStore:     chatStore,
		files:         files,
		logger:        logger,
		messageHubs:   make(map[uuid.UUID]*MessagesHub),
	}
}

// Start registers for session changes and aligns the hubs with the current
// session. ctx bounds every subscription the manager opens.
func (m *Manager) Start(ctx context.Context) {
	m.mu.Lock()
	m.ctx = ctx
	m.mu.Unlock()

	m.dispose = m.sessions.OnChange(m.handleSession)
	m.handleSession(m.sessions.Current())
}

// Stop closes every hub and releases the session registration. Idempotent.
func (m *Manager) Stop() {
	if m.dispose != nil {
		m.dispose()
		m.dispose = nil
	}
	m.closeAll()
}

// Notifications returns the notifications hub. Closed while signed out.
func (m *Manager) Notifications() *NotificationsHub { return m.notifications }

// Unread returns the unread-count hub. Closed while signed out.
func (m *Manager) Unread() *UnreadHub { return m.unread }

// Chats returns the chat-list hub. Closed while signed out.
func (m *Manager) Chats() *ChatsHub { return m.chats }

// Artworks returns the feed hub. Closed while signed out.
func (m *Manager) Artworks() *ArtworksHub { return m.artworks }

// OpenChat opens (or returns the already-open) message hub for one chat.
func (m *Manager) OpenChat(chatID uuid.UUID) (*MessagesHub, error) {
	m.mu.Lock()
	if m.userID == uuid.Nil {
		m.mu.Unlock()
		return nil, model.ErrNotAuthenticated
	}
	if h, ok := m.messageHubs[chatID]; ok {
		m.mu.Unlock()
		return h, nil
	}
	h := NewMessagesHub(m.messageStore, m.chatStore, m.files, m.logger)
	m.messageHubs[chatID] = h
	ctx := m.ctx
	m.mu.Unlock()

	if err := h.Open(ctx, chatID); err != nil {
		m.mu.Lock()
		delete(m.messageHubs, chatID)
		m.mu.Unlock()
		return nil, fmt.Errorf("failed to open chat %s: %w", chatID, err)
	}

	return h, nil
}

// CloseChat closes the message hub for one chat, if open.
func (m *Manager) CloseChat(chatID uuid.UUID) {
	m.mu.Lock()
	h, ok := m.messageHubs[chatID]
	if ok {
		delete(m.messageHubs, chatID)
	}
	m.mu.Unlock()

	if ok {
		h.Close()
	}
}

func (m *Manager) handleSession(s model.Session) {
	m.mu.Lock()
	previous := m.userID
	m.mu.Unlock()

	if s.UserID == previous {
		return
	}

	// Close before opening so a user switch never mixes mirrors.
	m.closeAll()

	if !s.Authenticated() {
		return
	}

	m.mu.Lock()
	m.userID = s.UserID
	ctx := m.ctx
	m.mu.Unlock()

	if err := m.notifications.Open(ctx, s.UserID); err != nil {
		m.logger.Error("Hub manager: failed to open notifications hub", "error", err.Error())
	}
	if err := m.unread.Open(ctx, s.UserID); err != nil {
		m.logger.Error("Hub manager: failed to open unread hub", "error", err.Error())
	}
	if err := m.chats.Open(ctx, s.UserID); err != nil {
		m.logger.Error("Hub manager: failed to open chats hub", "error", err.Error())
	}
	if err := m.artworks.Open(ctx, FeedKey); err != nil {
		m.logger.Error("Hub manager: failed to open artworks hub", "error", err.Error())
	}

	m.logger.Info("Hub manager: hubs opened", "user_id", s.UserID)
}

func (m *Manager) closeAll() {
	m.mu.Lock()
	m.userID = uuid.Nil
	open := m.messageHubs
	m.messageHubs = make(map[uuid.UUID]*MessagesHub)
	m.mu.Unlock()

	for _, h := range open {
		h.Close()
	}

	m.notifications.Close()
	m.unread.Close()
	m.chats.Close()
	m.artworks.Close()
}
