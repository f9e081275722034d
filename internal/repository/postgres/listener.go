package postgres

import (
	"context"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pixelpulse/pixelpulse-core/internal/logger"
	"github.com/pixelpulse/pixelpulse-core/internal/model"
)

// Notification channels emitted by the database triggers. The payload is the
// filter key a subscriber registered with.
const (
	channelNotifications = "pixelpulse_notifications"
	channelChats         = "pixelpulse_chats"
	channelMessages      = "pixelpulse_messages"
	channelArtworks      = "pixelpulse_artworks"
)

type subscriber struct {
	key string
	fn  func()
}

// Listener holds one dedicated connection in LISTEN mode and dispatches
// NOTIFY payloads to registered callbacks. Dispatch is serial, so callbacks
// observe changes in receipt order. A broken listen connection stops the
// listener; there is no automatic reconnect.
type Listener struct {
	db     *Connection
	logger *logger.Logger

	mu     sync.Mutex
	subs   map[string]map[int]subscriber
	nextID int

	cancel context.CancelFunc
	done   chan struct{}
}

func NewListener(db *Connection, logger *logger.Logger) *Listener {
	return &Listener{
		db:     db,
		logger: logger,
		subs:   make(map[string]map[int]subscriber),
	}
}

// Start acquires the listen connection and begins dispatching.
func (l *Listener) Start(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)

	conn, err := l.db.Acquire(runCtx)
	if err != nil {
		cancel()
		return fmt.Errorf("failed to acquire listen connection: %w", err)
	}

	for _, channel := range []string{channelNotifications, channelChats, channelMessages, channelArtworks} {
		if _, err := conn.Exec(runCtx, "LISTEN "+channel); err != nil {
			conn.Release()
			cancel()
			return fmt.Errorf("failed to listen on %s: %w", channel, err)
		}
	}

	l.cancel = cancel
	l.done = make(chan struct{})
	go l.run(runCtx, conn)

	return nil
}

func (l *Listener) run(ctx context.Context, conn *pgxpool.Conn) {
	defer close(l.done)
	defer conn.Release()

	for {
		n, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			l.logger.Error("listener: wait for notification failed", "error", err)
			return
		}
		l.dispatch(n.Channel, n.Payload)
	}
}

// Subscribe registers fn for notifications on channel whose payload equals
// key. The returned disposer removes the registration.
func (l *Listener) Subscribe(channel, key string, fn func()) model.Disposer {
	l.mu.Lock()
	id := l.nextID
	l.nextID++
	if l.subs[channel] == nil {
		l.subs[channel] = make(map[int]subscriber)
	}
	l.subs[channel][id] = subscriber{key: key, fn: fn}
	l.mu.Unlock()

	return func() {
		l.mu.Lock()
		delete(l.subs[channel], id)
		l.mu.Unlock()
	}
}

func (l *Listener) dispatch(channel, payload string) {
	l.mu.Lock()
	var fns []func()
	for _, s := range l.subs[channel] {
		if s.key == payload {
			fns = append(fns, s.fn)
		}
	}
	l.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// OpenSubscriptions reports the number of live registrations.
func (l *Listener) OpenSubscriptions() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, m := range l.subs {
		n += len(m)
	}
	return n
}

// Stop cancels the listen loop and waits for it to drain.
func (l *Listener) Stop() {
	if l.cancel == nil {
		return
	}
	l.cancel()
	<-l.done
	l.cancel = nil
}
