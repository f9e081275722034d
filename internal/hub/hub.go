package hub

import (
	"context"
	"fmt"
	"sync"

	"github.com/pixelpulse/pixelpulse-core/internal/logger"
	"github.com/pixelpulse/pixelpulse-core/internal/model"
)

// State is the lifecycle of a hub's live subscription.
type State int

const (
	StateClosed State = iota
	StateOpening
	StateOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpening:
		return "opening"
	case StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// FetchFunc loads the full mirror value for a key.
type FetchFunc[K comparable, V any] func(ctx context.Context, key K) (V, error)

// SubscribeFunc registers a change listener for a key and returns its
// disposer. onChange carries no payload; the hub refetches on every signal.
type SubscribeFunc[K comparable, V any] func(ctx context.Context, key K, onChange func()) (model.Disposer, error)

// Hub keeps an in-memory mirror of one backend collection, scoped by a key,
// live-updated by refetching whenever the subscription signals a change.
//
// The mirror is replaced wholesale, never patched in place. A failed refetch
// records the error but keeps the last good mirror. The hub never
// resubscribes on its own; a dropped subscription stays dropped until the
// owner closes and reopens it.
type Hub[K comparable, V any] struct {
	name      string
	fetch     FetchFunc[K, V]
	subscribe SubscribeFunc[K, V]
	logger    *logger.Logger

	mu        sync.Mutex
	state     State
	key       K
	value     V
	err       error
	version   int
	listeners []updateListener[V]
	nextID    int
	dispose   model.Disposer
	ctx       context.Context
	cancel    context.CancelFunc
}

type updateListener[V any] struct {
	id int
	fn func(V)
}

func New[K comparable, V any](
	name string,
	fetch FetchFunc[K, V],
	subscribe SubscribeFunc[K, V],
	logger *logger.Logger,
) *Hub[K, V] {
	return &Hub[K, V]{
		name:      name,
		fetch:     fetch,
		subscribe: subscribe,
		logger:    logger,
	}
}

// Open subscribes for the key and loads the initial mirror. A zero key is
// refused before any backend call. Opening an already-open hub is an error;
// close it first.
//
// The subscription is registered before the initial fetch so a change
// arriving between the two still triggers a refetch.
func (h *Hub[K, V]) Open(ctx context.Context, key K) error {
	var zero K
	if key == zero {
		return fmt.Errorf("%s hub: refusing to open with empty key", h.name)
	}

	h.mu.Lock()
	if h.state != StateClosed {
		h.mu.Unlock()
		return fmt.Errorf("%s hub: already open", h.name)
	}
	h.state = StateOpening
	h.key = key
	h.version++
	h.ctx, h.cancel = context.WithCancel(ctx)
	hctx := h.ctx
	h.mu.Unlock()

	dispose, err := h.subscribe(hctx, key, h.Refresh)
	if err != nil {
		h.mu.Lock()
		h.state = StateClosed
		h.cancel()
		h.ctx, h.cancel = nil, nil
		h.mu.Unlock()
		return fmt.Errorf("%s hub: failed to subscribe: %w", h.name, err)
	}

	h.mu.Lock()
	h.dispose = dispose
	h.state = StateOpen
	h.mu.Unlock()

	h.Refresh()

	h.logger.Debug("Hub opened", "hub", h.name)

	return nil
}

// Refresh refetches the mirror and replaces it wholesale. On failure the
// previous mirror is kept and the error is recorded until the next
// successful refetch.
func (h *Hub[K, V]) Refresh() {
	h.mu.Lock()
	if h.state != StateOpen {
		h.mu.Unlock()
		return
	}
	ctx := h.ctx
	key := h.key
	version := h.version
	h.mu.Unlock()

	value, err := h.fetch(ctx, key)

	h.mu.Lock()
	if h.version != version || h.state != StateOpen {
		// Closed or reopened while the fetch was in flight; drop the result.
		h.mu.Unlock()
		return
	}
	if err != nil {
		h.err = err
		h.mu.Unlock()
		h.logger.Error("Hub refresh failed", "hub", h.name, "error", err.Error())
		return
	}
	h.value = value
	h.err = nil
	h.version++
	listeners := h.snapshotListeners()
	h.mu.Unlock()

	for _, l := range listeners {
		l.fn(value)
	}
}

// Mutate applies an optimistic local change to the mirror and returns a
// rollback. The rollback restores the pre-mutation mirror, but only if no
// authoritative refetch has replaced it in the meantime.
//
// The rollback is a whole-mirror snapshot: if a second Mutate lands before
// the first rolls back, the rollback also undoes the second's change until
// the next refetch reconciles the mirror with the backend.
func (h *Hub[K, V]) Mutate(apply func(V) V) func() {
	h.mu.Lock()
	if h.state != StateOpen {
		h.mu.Unlock()
		return func() {}
	}
	prev := h.value
	next := apply(h.value)
	h.value = next
	version := h.version
	listeners := h.snapshotListeners()
	h.mu.Unlock()

	for _, l := range listeners {
		l.fn(next)
	}

	return func() {
		h.mu.Lock()
		if h.version != version || h.state != StateOpen {
			h.mu.Unlock()
			return
		}
		h.value = prev
		rollbackListeners := h.snapshotListeners()
		h.mu.Unlock()

		for _, l := range rollbackListeners {
			l.fn(prev)
		}
	}
}

// Close tears down the subscription and resets the mirror to its zero value.
// Idempotent.
func (h *Hub[K, V]) Close() {
	h.mu.Lock()
	if h.state == StateClosed {
		h.mu.Unlock()
		return
	}
	dispose := h.dispose
	cancel := h.cancel
	h.state = StateClosed
	h.dispose = nil
	h.ctx, h.cancel = nil, nil
	var zeroK K
	var zeroV V
	h.key = zeroK
	h.value = zeroV
	h.err = nil
	h.version++
	listeners := h.snapshotListeners()
	h.mu.Unlock()

	if dispose != nil {
		dispose()
	}
	if cancel != nil {
		cancel()
	}

	for _, l := range listeners {
		l.fn(zeroV)
	}

	h.logger.Debug("Hub closed", "hub", h.name)
}

// OnUpdate registers a callback fired after every mirror replacement.
func (h *Hub[K, V]) OnUpdate(fn func(V)) model.Disposer {
	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.listeners = append(h.listeners, updateListener[V]{id: id, fn: fn})
	h.mu.Unlock()

	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		for i, l := range h.listeners {
			if l.id == id {
				h.listeners = append(h.listeners[:i], h.listeners[i+1:]...)
				return
			}
		}
	}
}

// Value returns the current mirror.
func (h *Hub[K, V]) Value() V {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.value
}

// Err returns the last refetch error, or nil after a successful refetch.
func (h *Hub[K, V]) Err() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.err
}

func (h *Hub[K, V]) State() State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

func (h *Hub[K, V]) Key() K {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.key
}

func (h *Hub[K, V]) snapshotListeners() []updateListener[V] {
	out := make([]updateListener[V], len(h.listeners))
	copy(out, h.listeners)
	return out
}
