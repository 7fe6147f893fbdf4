package server

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trtpd/trtpd/internal/session"
	"github.com/trtpd/trtpd/pkg/accounts/store"
)

func newTestState(t *testing.T) *State {
	t.Helper()
	acct, err := store.New(&store.Config{
		Type:   store.DatabaseTypeSQLite,
		SQLite: store.SQLiteConfig{Path: ":memory:"},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = acct.Close() })
	return New(acct, Config{ServerName: "test", AllowGuests: true})
}

func TestAllocateUserIDSkipsZeroAndAvoidsTaken(t *testing.T) {
	s := newTestState(t)
	s.nextID = 0xFFFE

	id1 := s.AllocateUserID()
	assert.Equal(t, uint16(0xFFFE), id1)

	id2 := s.AllocateUserID()
	assert.Equal(t, uint16(0xFFFF), id2)

	// Wraps past the max back to 1, skipping 0.
	id3 := s.AllocateUserID()
	assert.Equal(t, uint16(1), id3)
}

func TestAllocateUserIDAvoidsRegisteredSession(t *testing.T) {
	s := newTestState(t)
	s.nextID = 5
	addr, _ := net.ResolveTCPAddr("tcp", "127.0.0.1:1")
	s.Register(session.New(5, addr))

	id := s.AllocateUserID()
	assert.Equal(t, uint16(6), id)
}

func TestRegisterUnregisterGet(t *testing.T) {
	s := newTestState(t)
	addr, _ := net.ResolveTCPAddr("tcp", "127.0.0.1:1")
	sess := session.New(1, addr)

	s.Register(sess)
	got, ok := s.Get(1)
	require.True(t, ok)
	assert.Same(t, sess, got)
	assert.Equal(t, 1, s.Count())

	removed := s.Unregister(1)
	assert.Same(t, sess, removed)
	_, ok = s.Get(1)
	assert.False(t, ok)

	assert.Nil(t, s.Unregister(1))
}

func TestSnapshot(t *testing.T) {
	s := newTestState(t)
	addr, _ := net.ResolveTCPAddr("tcp", "127.0.0.1:1")
	s.Register(session.New(1, addr))
	s.Register(session.New(2, addr))

	snap := s.Snapshot()
	assert.Len(t, snap, 2)
}

func TestHealthcheck(t *testing.T) {
	s := newTestState(t)
	assert.NoError(t, s.Healthcheck(context.Background()))
}
