package hub

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pixelpulse/pixelpulse-core/internal/mocks"
	"github.com/pixelpulse/pixelpulse-core/internal/model"
	"github.com/pixelpulse/pixelpulse-core/internal/session"
	"github.com/pixelpulse/pixelpulse-core/internal/testutil"
)

// stubProvider lets tests drive session transitions directly.
type stubProvider struct {
	mu        sync.Mutex
	listeners []func(*model.Session)
}

func (p *stubProvider) emit(s *model.Session) {
	p.mu.Lock()
	listeners := append([]func(*model.Session){}, p.listeners...)
	p.mu.Unlock()
	for _, fn := range listeners {
		fn(s)
	}
}

func (p *stubProvider) SignIn(context.Context, string, string) (*model.Session, error) {
	return nil, nil
}
func (p *stubProvider) SignUp(context.Context, string, string, string) (*model.Session, error) {
	return nil, nil
}
func (p *stubProvider) SignOut(context.Context) error                         { return nil }
func (p *stubProvider) CurrentSession(context.Context) (*model.Session, error) { return nil, nil }
func (p *stubProvider) Restore(context.Context, string, string) (*model.Session, error) {
	return nil, nil
}
func (p *stubProvider) DeleteAccount(context.Context, uuid.UUID) error { return nil }
func (p *stubProvider) OnSessionChange(fn func(*model.Session)) model.Disposer {
	p.mu.Lock()
	p.listeners = append(p.listeners, fn)
	p.mu.Unlock()
	return func() {}
}

type managerFixture struct {
	provider *stubProvider
	manager  *Manager

	notifications *mocks.NotificationStore
	chats         *mocks.ChatStore
	messages      *mocks.MessageStore
	artworks      *mocks.ArtworkStore
}

func expectUserHubs(f *managerFixture, userID uuid.UUID) {
	f.notifications.On("Subscribe", mock.Anything, userID, mock.Anything).
		Return(model.Disposer(func() {}), nil)
	f.notifications.On("ListByUser", mock.Anything, userID, notificationPageSize).
		Return([]model.Notification{}, nil)
	f.notifications.On("CountUnread", mock.Anything, userID).Return(0, nil)
	f.chats.On("Subscribe", mock.Anything, userID, mock.Anything).
		Return(model.Disposer(func() {}), nil)
	f.chats.On("ListByParticipant", mock.Anything, userID).
		Return([]model.Chat{}, nil)
}

func newManagerFixture(t *testing.T) *managerFixture {
	t.Helper()

	f := &managerFixture{
		provider:      &stubProvider{},
		notifications: &mocks.NotificationStore{},
		chats:         &mocks.ChatStore{},
		messages:      &mocks.MessageStore{},
		artworks:      &mocks.ArtworkStore{},
	}

	f.artworks.On("Subscribe", mock.Anything, mock.Anything).
		Return(model.Disposer(func() {}), nil)
	f.artworks.On("ListRecent", mock.Anything, feedPageSize).
		Return([]model.Artwork{}, nil)

	logger := testutil.MakeNoopLogger()
	files := &mocks.FileStore{}
	cache := session.NewCache(filepath.Join(t.TempDir(), "session.json"))
	sessions := session.New(f.provider, &mocks.ProfileStore{}, cache, logger)
	require.NoError(t, sessions.Bootstrap(context.Background()))
	t.Cleanup(sessions.Close)

	f.manager = NewManager(
		sessions,
		NewNotificationsHub(f.notifications, logger),
		NewUnreadHub(f.notifications, logger),
		NewChatsHub(f.chats, logger),
		NewArtworksHub(f.artworks, files, logger),
		f.messages,
		f.chats,
		files,
		logger,
	)
	f.manager.Start(context.Background())
	t.Cleanup(f.manager.Stop)

	return f
}

func TestManager_SignInOpensHubs(t *testing.T) {
	f := newManagerFixture(t)
	userID := uuid.New()
	expectUserHubs(f, userID)

	f.provider.emit(&model.Session{UserID: userID})

	assert.Equal(t, StateOpen, f.manager.Notifications().State())
	assert.Equal(t, userID, f.manager.Notifications().Key())
	assert.Equal(t, StateOpen, f.manager.Unread().State())
	assert.Equal(t, StateOpen, f.manager.Chats().State())
	assert.Equal(t, StateOpen, f.manager.Artworks().State())
	assert.Equal(t, FeedKey, f.manager.Artworks().Key())
}

func TestManager_SignOutClosesEverything(t *testing.T) {
	f := newManagerFixture(t)
	userID := uuid.New()
	chatID := uuid.New()
	expectUserHubs(f, userID)
	f.messages.On("Subscribe", mock.Anything, chatID, mock.Anything).
		Return(model.Disposer(func() {}), nil)
	f.messages.On("ListByChat", mock.Anything, chatID, messagePageSize).
		Return([]model.Message{}, nil)

	f.provider.emit(&model.Session{UserID: userID})

	chatHub, err := f.manager.OpenChat(chatID)
	require.NoError(t, err)
	assert.Equal(t, StateOpen, chatHub.State())

	f.provider.emit(nil)

	assert.Equal(t, StateClosed, f.manager.Notifications().State())
	assert.Equal(t, StateClosed, f.manager.Unread().State())
	assert.Equal(t, StateClosed, f.manager.Chats().State())
	assert.Equal(t, StateClosed, f.manager.Artworks().State())
	assert.Equal(t, StateClosed, chatHub.State(), "per-chat hubs close on sign-out too")
}

func TestManager_UserSwitchReopensWithNewKey(t *testing.T) {
	f := newManagerFixture(t)
	alice := uuid.New()
	bob := uuid.New()
	expectUserHubs(f, alice)
	expectUserHubs(f, bob)

	f.provider.emit(&model.Session{UserID: alice})
	assert.Equal(t, alice, f.manager.Notifications().Key())

	f.provider.emit(&model.Session{UserID: bob})
	assert.Equal(t, bob, f.manager.Notifications().Key())
	assert.Equal(t, bob, f.manager.Chats().Key())
	assert.Equal(t, StateOpen, f.manager.Notifications().State())
}

func TestManager_OpenChatRequiresAuth(t *testing.T) {
	f := newManagerFixture(t)

	_, err := f.manager.OpenChat(uuid.New())
	assert.ErrorIs(t, err, model.ErrNotAuthenticated)
}

func TestManager_OpenChatIsIdempotent(t *testing.T) {
	f := newManagerFixture(t)
	userID := uuid.New()
	chatID := uuid.New()
	expectUserHubs(f, userID)
	f.messages.On("Subscribe", mock.Anything, chatID, mock.Anything).
		Return(model.Disposer(func() {}), nil).Once()
	f.messages.On("ListByChat", mock.Anything, chatID, messagePageSize).
		Return([]model.Message{}, nil)

	f.provider.emit(&model.Session{UserID: userID})

	first, err := f.manager.OpenChat(chatID)
	require.NoError(t, err)
	second, err := f.manager.OpenChat(chatID)
	require.NoError(t, err)
	assert.Same(t, first, second)

	f.manager.CloseChat(chatID)
	assert.Equal(t, StateClosed, first.State())
}
