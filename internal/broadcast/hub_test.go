package broadcast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishDeliversToAllSubscribers(t *testing.T) {
	hub := New()
	sub1 := hub.Subscribe()
	sub2 := hub.Subscribe()
	defer sub1.Unsubscribe()
	defer sub2.Unsubscribe()

	hub.Publish(Event{Kind: ServerMessage, Message: []byte("hello")})

	for _, sub := range []*Subscription{sub1, sub2} {
		select {
		case ev := <-sub.Events:
			assert.Equal(t, ServerMessage, ev.Kind)
			assert.Equal(t, []byte("hello"), ev.Message)
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for event")
		}
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	hub := New()
	sub := hub.Subscribe()
	require.Equal(t, 1, hub.SubscriberCount())

	sub.Unsubscribe()
	assert.Equal(t, 0, hub.SubscriberCount())

	_, ok := <-sub.Events
	assert.False(t, ok)
}

func TestUnsubscribeIsIdempotent(t *testing.T) {
	hub := New()
	sub := hub.Subscribe()
	sub.Unsubscribe()
	assert.NotPanics(t, func() { sub.Unsubscribe() })
}

func TestPublishDropsForFullSubscriberWithoutBlocking(t *testing.T) {
	hub := New()
	slow := hub.Subscribe()
	defer slow.Unsubscribe()

	for i := 0; i < subscriberCapacity+10; i++ {
		hub.Publish(Event{Kind: ChatMessage, SenderID: uint16(i)})
	}

	assert.Len(t, slow.Events, subscriberCapacity)
}

func TestLagReportsAndResetsDropCount(t *testing.T) {
	hub := New()
	slow := hub.Subscribe()
	defer slow.Unsubscribe()

	for i := 0; i < subscriberCapacity+7; i++ {
		hub.Publish(Event{Kind: ChatMessage, SenderID: uint16(i)})
	}

	assert.Equal(t, int64(7), slow.Lag())
	assert.Equal(t, int64(0), slow.Lag())
}

func TestPublishWithNoSubscribersDoesNotBlock(t *testing.T) {
	hub := New()
	done := make(chan struct{})
	go func() {
		hub.Publish(Event{Kind: ServerShutdown})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked with no subscribers")
	}
}
