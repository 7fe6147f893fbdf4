// Package session models a single connected TRTP client, mirroring the
// per-connection authentication lifecycle of the legacy protocol: a socket
// completes its handshake, waits for a login transaction, and either becomes
// a guest or an authenticated account holder.
package session

import (
	"fmt"
	"net"
	"sync"
	"time"
)

// AuthState tracks where a connection is in the handshake/login lifecycle.
type AuthState int

const (
	// StateHandshake: connection accepted, waiting for the client handshake.
	StateHandshake AuthState = iota
	// StateLoginPending: handshake complete, waiting for a login transaction.
	StateLoginPending
	// StateAuthenticated: logged in, either as a guest or an account holder.
	StateAuthenticated
)

func (s AuthState) String() string {
	switch s {
	case StateHandshake:
		return "handshake"
	case StateLoginPending:
		return "login-pending"
	case StateAuthenticated:
		return "authenticated"
	default:
		return fmt.Sprintf("AuthState(%d)", int(s))
	}
}

// Options holds the client preference bits sent with the Agreed transaction
// (field UserOptions). These control how other users' clients treat this
// session -- the server only ever relays them, never acts on them directly.
type Options uint16

const (
	// OptionRefusePrivateMessage: the user does not want to receive private messages.
	OptionRefusePrivateMessage Options = 1 << 0
	// OptionRefusePrivateChat: the user does not want private chat invitations.
	OptionRefusePrivateChat Options = 1 << 1
	// OptionAutomaticResponse: the user has an away auto-reply configured.
	OptionAutomaticResponse Options = 1 << 2
)

// Has reports whether every bit in want is set.
func (o Options) Has(want Options) bool {
	return o&want == want
}

// UserFlags bit positions as broadcast in NotifyChangeUser/GetUserNameList.
const (
	FlagAway             uint16 = 1 << 0
	FlagAdmin            uint16 = 1 << 1
	FlagRefusedMessages  uint16 = 1 << 2
	FlagRefusedChat      uint16 = 1 << 3
)

// ToUserFlags maps a client's stated preferences to the flags other clients
// see in the user list. Away/Admin are set separately by the session owner.
func (o Options) ToUserFlags() uint16 {
	var flags uint16
	if o.Has(OptionRefusePrivateMessage) {
		flags |= FlagRefusedMessages
	}
	if o.Has(OptionRefusePrivateChat) {
		flags |= FlagRefusedChat
	}
	return flags
}

// Session represents one connected client for the lifetime of its TCP
// connection. It is a plain value object: all mutation happens through its
// methods, and callers are responsible for synchronizing access when a
// session is shared across goroutines (see internal/server.State, which
// stores sessions behind a mutex).
type Session struct {
	// UserID is the protocol-visible user id, unique among sessions
	// connected at any one instant. Allocated by the server's registry.
	UserID uint16

	// AccountID is the backing store's account id, or nil for a guest.
	AccountID *string

	// Nickname is the display name shown to other users.
	Nickname string

	// IconID is the client-chosen icon id.
	IconID uint16

	// Flags holds the server-maintained subset of UserFlags (away, admin).
	// Preference-derived bits (refused messages/chat) come from Options.
	Flags uint16

	// Options holds the client's stated preferences from the Agreed transaction.
	Options Options

	// AccessMask holds the session's effective privileges once authenticated.
	AccessMask uint64

	// Address is the client's remote address.
	Address net.Addr

	// ConnectedAt is when the session was created.
	ConnectedAt time.Time

	// LastActivity is updated on every inbound transaction.
	LastActivity time.Time

	// AuthState tracks handshake/login progress.
	AuthState AuthState

	// AwaySince is when the away flag was most recently set, or nil if the
	// session is not currently away. Used to report an away duration in
	// GetClientInfoText.
	AwaySince *time.Time

	kickOnce sync.Once
	kickCh   chan struct{}
}

// New creates a session in StateHandshake with a default "Guest {id}" nickname.
func New(userID uint16, addr net.Addr) *Session {
	now := time.Now()
	return &Session{
		UserID:       userID,
		Nickname:     fmt.Sprintf("Guest %d", userID),
		Address:      addr,
		ConnectedAt:  now,
		LastActivity: now,
		AuthState:    StateHandshake,
		kickCh:       make(chan struct{}),
	}
}

// CompleteHandshake moves the session into StateLoginPending.
func (s *Session) CompleteHandshake() {
	s.AuthState = StateLoginPending
}

// AuthenticateGuest marks the session authenticated without an account.
func (s *Session) AuthenticateGuest(nickname string, iconID uint16, accessMask uint64) {
	s.Nickname = nickname
	s.IconID = iconID
	s.AccessMask = accessMask
	s.AuthState = StateAuthenticated
}

// AuthenticateUser marks the session authenticated against a stored account.
func (s *Session) AuthenticateUser(accountID string, nickname string, iconID uint16, accessMask uint64) {
	s.AccountID = &accountID
	s.Nickname = nickname
	s.IconID = iconID
	s.AccessMask = accessMask
	s.AuthState = StateAuthenticated
}

// Touch refreshes the last-activity timestamp; called on every inbound transaction.
func (s *Session) Touch() {
	s.LastActivity = time.Now()
}

// IsAuthenticated reports whether login has completed.
func (s *Session) IsAuthenticated() bool {
	return s.AuthState == StateAuthenticated
}

// IsGuest reports whether the session has no backing account.
func (s *Session) IsGuest() bool {
	return s.AccountID == nil
}

// IsAway reports whether the session's away flag is currently set.
func (s *Session) IsAway() bool {
	return s.Flags&FlagAway != 0
}

// IsAdmin reports whether the session's admin flag is currently set.
// This mirrors the client-visible icon/flag substitution performed for
// accounts with AccessDisconnectUsers, not the account's raw privileges.
func (s *Session) IsAdmin() bool {
	return s.Flags&FlagAdmin != 0
}

// MarkAway sets the away flag and records when it was set, if not already away.
func (s *Session) MarkAway() {
	if s.Flags&FlagAway == 0 {
		now := time.Now()
		s.AwaySince = &now
	}
	s.Flags |= FlagAway
}

// ClearAway clears the away flag and its timestamp.
func (s *Session) ClearAway() {
	s.Flags &^= FlagAway
	s.AwaySince = nil
}

// Kicked returns a channel that is closed when an administrator has
// forcibly disconnected this session, independent of anything the client
// itself sent. The connection pipeline selects on this alongside inbound
// reads so a kick closes the socket promptly rather than waiting for the
// client's next frame.
func (s *Session) Kicked() <-chan struct{} {
	return s.kickCh
}

// Kick signals Kicked's channel. Safe to call more than once or
// concurrently with itself.
func (s *Session) Kick() {
	s.kickOnce.Do(func() { close(s.kickCh) })
}

// IdleSince returns how long the session has been idle relative to now.
// The connection pipeline polls this against the configured idle timeout
// to disconnect sessions that have stopped sending transactions.
func (s *Session) IdleSince(now time.Time) time.Duration {
	return now.Sub(s.LastActivity)
}
