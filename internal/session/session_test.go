package session

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAddr(t *testing.T) net.Addr {
	t.Helper()
	addr, err := net.ResolveTCPAddr("tcp", "127.0.0.1:12345")
	require.NoError(t, err)
	return addr
}

func TestNewSessionDefaults(t *testing.T) {
	s := New(7, testAddr(t))

	assert.Equal(t, uint16(7), s.UserID)
	assert.Equal(t, "Guest 7", s.Nickname)
	assert.Equal(t, StateHandshake, s.AuthState)
	assert.True(t, s.IsGuest())
	assert.False(t, s.IsAuthenticated())
}

func TestCompleteHandshake(t *testing.T) {
	s := New(1, testAddr(t))
	s.CompleteHandshake()
	assert.Equal(t, StateLoginPending, s.AuthState)
}

func TestAuthenticateGuest(t *testing.T) {
	s := New(2, testAddr(t))
	s.CompleteHandshake()
	s.AuthenticateGuest("Wanderer", 128, 0x3)

	assert.True(t, s.IsAuthenticated())
	assert.True(t, s.IsGuest())
	assert.Equal(t, "Wanderer", s.Nickname)
	assert.Equal(t, uint16(128), s.IconID)
	assert.Equal(t, uint64(0x3), s.AccessMask)
}

func TestAuthenticateUser(t *testing.T) {
	s := New(3, testAddr(t))
	s.CompleteHandshake()
	s.AuthenticateUser("acct-42", "Alice", 1, 0xFFFF)

	assert.True(t, s.IsAuthenticated())
	assert.False(t, s.IsGuest())
	require.NotNil(t, s.AccountID)
	assert.Equal(t, "acct-42", *s.AccountID)
}

func TestTouchUpdatesLastActivity(t *testing.T) {
	s := New(4, testAddr(t))
	before := s.LastActivity
	time.Sleep(time.Millisecond)
	s.Touch()
	assert.True(t, s.LastActivity.After(before))
}

func TestOptionsToUserFlags(t *testing.T) {
	opts := OptionRefusePrivateMessage | OptionRefusePrivateChat
	flags := opts.ToUserFlags()
	assert.NotZero(t, flags&FlagRefusedMessages)
	assert.NotZero(t, flags&FlagRefusedChat)
}

func TestIsAwayAndAdmin(t *testing.T) {
	s := New(5, testAddr(t))
	assert.False(t, s.IsAway())
	assert.False(t, s.IsAdmin())

	s.Flags = FlagAway | FlagAdmin
	assert.True(t, s.IsAway())
	assert.True(t, s.IsAdmin())
}

func TestIdleSince(t *testing.T) {
	s := New(6, testAddr(t))
	later := s.LastActivity.Add(5 * time.Second)
	assert.Equal(t, 5*time.Second, s.IdleSince(later))
}
