// Package server holds the process-wide state shared by every connection:
// the live session registry, the user-ID allocator, the broadcast hub, and
// a handle to the account store. Exactly one State exists per running
// daemon; connections reach it through a borrowed pointer, never a copy.
package server

import (
	"context"
	"sync"

	"github.com/trtpd/trtpd/internal/broadcast"
	"github.com/trtpd/trtpd/internal/session"
	"github.com/trtpd/trtpd/pkg/accounts/store"
	"github.com/trtpd/trtpd/pkg/metrics"
)

// Config is the subset of server configuration the core needs at runtime.
// It is read-only after construction.
type Config struct {
	// AllowGuests controls whether a connection with an empty login or
	// password is granted guest access instead of PermissionDenied.
	AllowGuests bool

	// GuestAccessMask is the privilege set granted to guest sessions.
	GuestAccessMask uint64

	// ServerName is reported in the Login reply's ServerName field.
	ServerName string

	// BannerID is reported in the Login reply's BannerId field.
	BannerID uint16
}

// State is the shared state every connection handler operates against.
type State struct {
	mu       sync.Mutex
	sessions map[uint16]*session.Session
	nextID   uint16

	Hub     *broadcast.Hub
	Account store.AccountStore
	Config  Config

	// Metrics receives counters for connection and authentication
	// lifecycle events. Nil (the default) disables collection.
	Metrics metrics.Metrics
}

// New creates an empty State. The first allocated user id is 1 (id 0 is
// never valid on the wire).
func New(account store.AccountStore, cfg Config) *State {
	return &State{
		sessions: make(map[uint16]*session.Session),
		nextID:   1,
		Hub:      broadcast.New(),
		Account:  account,
		Config:   cfg,
	}
}

// AllocateUserID returns the next unused user id, wrapping past 65535 and
// skipping 0. Retries under the lock until it finds an id with no
// registered session, matching the legacy server's allocator exactly.
func (s *State) AllocateUserID() uint16 {
	s.mu.Lock()
	defer s.mu.Unlock()

	for {
		id := s.nextID
		if s.nextID == 0xFFFF {
			s.nextID = 1
		} else {
			s.nextID++
		}
		if id == 0 {
			continue
		}
		if _, taken := s.sessions[id]; !taken {
			return id
		}
	}
}

// Register adds a session to the registry, keyed by its user id.
func (s *State) Register(sess *session.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.UserID] = sess
}

// Unregister removes a session from the registry and returns it, or nil if
// it was not present (already removed by a concurrent kick, say).
func (s *State) Unregister(userID uint16) *session.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[userID]
	if !ok {
		return nil
	}
	delete(s.sessions, userID)
	return sess
}

// Get returns the session for userID, if connected.
func (s *State) Get(userID uint16) (*session.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[userID]
	return sess, ok
}

// Snapshot returns a point-in-time copy of every connected session, safe to
// range over without holding the registry lock.
func (s *State) Snapshot() []*session.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*session.Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		out = append(out, sess)
	}
	return out
}

// Count returns the number of currently connected sessions.
func (s *State) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Kick forcibly disconnects userID: unregisters its session, signals its
// connection handler to close the socket, and publishes a UserLeft event so
// every other connected session is notified. A no-op if userID is not
// currently connected. Used by both the in-protocol DisconnectUser
// transaction and the out-of-band admin API kick route.
func (s *State) Kick(userID uint16) {
	sess := s.Unregister(userID)
	if sess == nil {
		return
	}
	sess.Kick()
	s.Hub.Publish(broadcast.Event{Kind: broadcast.UserLeft, UserID: userID, Nickname: sess.Nickname})
}

// Healthcheck reports whether the account store backing this state is reachable.
func (s *State) Healthcheck(ctx context.Context) error {
	return s.Account.Healthcheck(ctx)
}
