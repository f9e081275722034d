package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pixelpulse/pixelpulse-core/internal/testutil"
)

func TestListener_DispatchFiltersByKey(t *testing.T) {
	l := NewListener(nil, testutil.MakeNoopLogger())

	var userA, userB int
	disposeA := l.Subscribe(channelNotifications, "user-a", func() { userA++ })
	defer disposeA()
	disposeB := l.Subscribe(channelNotifications, "user-b", func() { userB++ })
	defer disposeB()

	l.dispatch(channelNotifications, "user-a")
	l.dispatch(channelNotifications, "user-a")
	l.dispatch(channelNotifications, "user-b")

	assert.Equal(t, 2, userA)
	assert.Equal(t, 1, userB)
}

func TestListener_DispatchFiltersByChannel(t *testing.T) {
	l := NewListener(nil, testutil.MakeNoopLogger())

	var calls int
	dispose := l.Subscribe(channelChats, "user-a", func() { calls++ })
	defer dispose()

	l.dispatch(channelNotifications, "user-a")
	assert.Zero(t, calls)

	l.dispatch(channelChats, "user-a")
	assert.Equal(t, 1, calls)
}

func TestListener_DisposeStopsDelivery(t *testing.T) {
	l := NewListener(nil, testutil.MakeNoopLogger())

	var calls int
	dispose := l.Subscribe(channelMessages, "chat-1", func() { calls++ })

	l.dispatch(channelMessages, "chat-1")
	dispose()
	l.dispatch(channelMessages, "chat-1")

	assert.Equal(t, 1, calls)

	// Double dispose is harmless.
	dispose()
}

func TestListener_OpenSubscriptions(t *testing.T) {
	l := NewListener(nil, testutil.MakeNoopLogger())
	assert.Zero(t, l.OpenSubscriptions())

	d1 := l.Subscribe(channelNotifications, "a", func() {})
	d2 := l.Subscribe(channelArtworks, "feed", func() {})
	assert.Equal(t, 2, l.OpenSubscriptions())

	d1()
	assert.Equal(t, 1, l.OpenSubscriptions())
	d2()
	assert.Zero(t, l.OpenSubscriptions())
}

func TestListener_MultipleSubscribersSameKey(t *testing.T) {
	l := NewListener(nil, testutil.MakeNoopLogger())

	var first, second int
	d1 := l.Subscribe(channelNotifications, "user-a", func() { first++ })
	defer d1()
	d2 := l.Subscribe(channelNotifications, "user-a", func() { second++ })
	defer d2()

	l.dispatch(channelNotifications, "user-a")

	assert.Equal(t, 1, first)
	assert.Equal(t, 1, second)
}
