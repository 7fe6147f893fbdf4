// Package broadcast fans server-wide events out to every connected session.
//
// Go has no equivalent of tokio's broadcast channel, so Hub hand-rolls the
// same contract: each subscriber gets its own bounded channel, publishing
// never blocks the publisher, and a subscriber that falls behind misses the
// new events published while its queue is full (the events already queued
// are kept) rather than stalling the whole server.
package broadcast

import (
	"sync"
	"sync/atomic"

	"github.com/trtpd/trtpd/pkg/metrics"
)

// EventKind identifies the shape of an Event's payload.
type EventKind int

const (
	// UserJoined: a session completed login. Carries UserID and Nickname.
	UserJoined EventKind = iota
	// UserLeft: a session disconnected. Carries UserID.
	UserLeft
	// ChatMessage: a public chat line. Carries SenderID, Nickname, Message, Emote.
	ChatMessage
	// ServerMessage: an operator broadcast. Carries Message.
	ServerMessage
	// ServerShutdown: the server is shutting down; connections should close.
	ServerShutdown
)

// Event is a single broadcastable occurrence. Only the fields relevant to
// Kind are populated; the rest are zero.
type Event struct {
	Kind     EventKind
	UserID   uint16
	Nickname string
	SenderID uint16
	Message  []byte
	Emote    bool
}

// subscriberCapacity bounds each subscriber's pending-event queue. A
// publisher never waits on a full queue -- see Publish.
const subscriberCapacity = 100

// Hub fans Events out to any number of subscribers. The zero value is not
// usable; use New.
type Hub struct {
	mu   sync.Mutex
	subs map[uint64]*Subscription
	next uint64

	// Metrics receives a count of every dropped event. Nil disables it.
	Metrics metrics.Metrics
}

// New creates an empty Hub.
func New() *Hub {
	return &Hub{
		subs: make(map[uint64]*Subscription),
	}
}

// Subscription is a single subscriber's view of the Hub: a channel of
// delivered events. An event is silently dropped for a subscriber whose
// channel is full rather than blocking the publisher or other subscribers;
// Lag reports how many events a subscriber has lost this way, so the
// connection pipeline can tell an affected peer it missed something instead
// of pretending its view of the event stream is complete.
type Subscription struct {
	id      uint64
	hub     *Hub
	ch      chan Event
	dropped atomic.Int64
	Events  <-chan Event
}

// Subscribe registers a new subscriber and returns its Subscription. Call
// Unsubscribe when the connection closes to release the channel.
func (h *Hub) Subscribe() *Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.next
	h.next++
	ch := make(chan Event, subscriberCapacity)
	sub := &Subscription{id: id, hub: h, ch: ch, Events: ch}
	h.subs[id] = sub

	return sub
}

// Unsubscribe removes a subscription. Safe to call more than once.
func (s *Subscription) Unsubscribe() {
	s.hub.mu.Lock()
	defer s.hub.mu.Unlock()
	if _, ok := s.hub.subs[s.id]; ok {
		delete(s.hub.subs, s.id)
		close(s.ch)
	}
}

// Lag returns the number of events dropped for this subscriber since the
// last call to Lag, and resets the counter to zero.
func (s *Subscription) Lag() int64 {
	return s.dropped.Swap(0)
}

// Publish delivers ev to every current subscriber. A subscriber whose
// channel is full has the event dropped for it silently -- the subscriber
// does not block the publisher, and will simply miss that one event. The
// drop is counted so the subscriber can later learn it missed something
// via Lag.
func (h *Hub) Publish(ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, sub := range h.subs {
		select {
		case sub.ch <- ev:
		default:
			sub.dropped.Add(1)
			if h.Metrics != nil {
				h.Metrics.BroadcastDropped()
			}
		}
	}
}

// SubscriberCount returns the number of currently registered subscribers.
func (h *Hub) SubscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
